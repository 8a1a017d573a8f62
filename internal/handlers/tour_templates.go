package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/middleware"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/services"
)

// TourTemplateHandler handles the shared tour template catalog
type TourTemplateHandler struct {
	logger      *logger.Logger
	templateSvc services.TourTemplateService
}

// NewTourTemplateHandler creates a new tour template handler
func NewTourTemplateHandler(logger *logger.Logger, templateSvc services.TourTemplateService) *TourTemplateHandler {
	return &TourTemplateHandler{logger: logger, templateSvc: templateSvc}
}

// RegisterRoutes registers template routes on an authenticated subrouter
func (h *TourTemplateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/tour-templates", h.Create).Methods("POST")
	router.HandleFunc("/tour-templates", h.List).Methods("GET")
	router.HandleFunc("/tour-templates/{id}", h.Get).Methods("GET")
	router.HandleFunc("/tour-templates/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/tour-templates/{id}", h.Delete).Methods("DELETE")
}

// Create handles POST /tour-templates
func (h *TourTemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var template models.TourTemplate
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller := middleware.GetUserFromContext(r.Context())
	created, err := h.templateSvc.Create(r.Context(), caller, &template)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, created)
}

// List handles GET /tour-templates
func (h *TourTemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateSvc.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, templates)
}

// Get handles GET /tour-templates/{id}
func (h *TourTemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	template, err := h.templateSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, template)
}

// Update handles PUT /tour-templates/{id}
func (h *TourTemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var template models.TourTemplate
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	template.ID = mux.Vars(r)["id"]

	caller := middleware.GetUserFromContext(r.Context())
	updated, err := h.templateSvc.Update(r.Context(), caller, &template)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /tour-templates/{id}
func (h *TourTemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	if err := h.templateSvc.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
