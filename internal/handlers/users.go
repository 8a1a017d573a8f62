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

// UserHandler handles user account endpoints
type UserHandler struct {
	logger      *logger.Logger
	userMgmtSvc services.UserManagementService
	docSvc      services.DocumentService
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	logger *logger.Logger,
	userMgmtSvc services.UserManagementService,
	docSvc services.DocumentService,
) *UserHandler {
	return &UserHandler{
		logger:      logger,
		userMgmtSvc: userMgmtSvc,
		docSvc:      docSvc,
	}
}

// RegisterRoutes registers user routes on an authenticated subrouter
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/{id}", h.Get).Methods("GET")
	router.HandleFunc("/users/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/users/{id}/deactivate", h.Deactivate).Methods("POST")
	router.HandleFunc("/users/{id}/password", h.ChangePassword).Methods("PUT")
	router.HandleFunc("/users/{id}/documents", h.ListDocuments).Methods("GET")
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	user, err := h.userMgmtSvc.GetUser(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, user)
}

// Update handles PUT /users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user.ID = mux.Vars(r)["id"]

	caller := middleware.GetUserFromContext(r.Context())
	if err := h.userMgmtSvc.UpdateUser(r.Context(), caller, &user); err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := h.userMgmtSvc.GetUser(r.Context(), caller, user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, updated)
}

// Deactivate handles POST /users/{id}/deactivate
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	if err := h.userMgmtSvc.DeactivateUser(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ChangePassword handles PUT /users/{id}/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller := middleware.GetUserFromContext(r.Context())
	if err := h.userMgmtSvc.ChangePassword(r.Context(), caller, mux.Vars(r)["id"], req.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDocuments handles GET /users/{id}/documents
func (h *UserHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	documents, err := h.docSvc.ListForUser(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, documents)
}
