package handlers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/middleware"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/services"
)

// maxDocumentSize caps multipart uploads at 10 MiB
const maxDocumentSize = 10 << 20

// DocumentHandler handles document upload and retrieval endpoints
type DocumentHandler struct {
	logger *logger.Logger
	docSvc services.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(logger *logger.Logger, docSvc services.DocumentService) *DocumentHandler {
	return &DocumentHandler{logger: logger, docSvc: docSvc}
}

// RegisterRoutes registers document routes on an authenticated subrouter
func (h *DocumentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/documents", h.Upload).Methods("POST")
	router.HandleFunc("/documents/{id}", h.Get).Methods("GET")
	router.HandleFunc("/documents/{id}/download", h.Download).Methods("GET")
	router.HandleFunc("/documents/{id}", h.Delete).Methods("DELETE")
}

// Upload handles POST /documents as a multipart form with a "file" part
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	caller := middleware.GetUserFromContext(r.Context())
	document := &models.Document{
		OwnerUserID: r.FormValue("owner_user_id"),
		ProviderID:  r.FormValue("provider_id"),
		TourEventID: r.FormValue("tour_event_id"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Description: r.FormValue("description"),
	}
	if document.OwnerUserID == "" {
		document.OwnerUserID = caller.ID
	}
	if document.ProviderID == "" {
		document.ProviderID = caller.ProviderID
	}

	created, err := h.docSvc.Upload(r.Context(), caller, document, data)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, created)
}

// Get handles GET /documents/{id} returning metadata only
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	document, _, err := h.docSvc.Get(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, document)
}

// Download handles GET /documents/{id}/download returning the file bytes
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	document, data, err := h.docSvc.Get(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	contentType := document.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+document.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Delete handles DELETE /documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	if err := h.docSvc.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
