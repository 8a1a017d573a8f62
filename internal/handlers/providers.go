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

// ProviderHandler handles provider management endpoints
type ProviderHandler struct {
	logger      *logger.Logger
	providerSvc services.ProviderService
	userMgmtSvc services.UserManagementService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(
	logger *logger.Logger,
	providerSvc services.ProviderService,
	userMgmtSvc services.UserManagementService,
) *ProviderHandler {
	return &ProviderHandler{
		logger:      logger,
		providerSvc: providerSvc,
		userMgmtSvc: userMgmtSvc,
	}
}

// RegisterRoutes registers provider routes on an authenticated subrouter
func (h *ProviderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/providers", h.Create).Methods("POST")
	router.HandleFunc("/providers", h.List).Methods("GET")
	router.HandleFunc("/providers/{id}", h.Get).Methods("GET")
	router.HandleFunc("/providers/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/providers/{id}", h.Delete).Methods("DELETE")
	router.HandleFunc("/providers/{id}/users", h.CreateUser).Methods("POST")
	router.HandleFunc("/providers/{id}/users", h.ListUsers).Methods("GET")
}

// Create handles POST /providers
func (h *ProviderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var provider models.Provider
	if err := json.NewDecoder(r.Body).Decode(&provider); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller := middleware.GetUserFromContext(r.Context())
	created, err := h.providerSvc.Create(r.Context(), caller, &provider)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, created)
}

// List handles GET /providers
func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	providers, err := h.providerSvc.List(r.Context(), caller)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, providers)
}

// Get handles GET /providers/{id}
func (h *ProviderHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	provider, err := h.providerSvc.Get(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, provider)
}

// Update handles PUT /providers/{id}
func (h *ProviderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var provider models.Provider
	if err := json.NewDecoder(r.Body).Decode(&provider); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	provider.ID = mux.Vars(r)["id"]

	caller := middleware.GetUserFromContext(r.Context())
	updated, err := h.providerSvc.Update(r.Context(), caller, &provider)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /providers/{id}
func (h *ProviderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	if err := h.providerSvc.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createUserRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	PhoneNumber    string `json:"phone_number"`
	PassportNumber string `json:"passport_number"`
}

// CreateUser handles POST /providers/{id}/users. A provider admin may only
// provision accounts under their own provider, and never system admins.
func (h *ProviderHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["id"]
	caller := middleware.GetUserFromContext(r.Context())

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Role == models.RoleSystemAdmin && !caller.IsSystemAdmin() {
		writeErrorResponse(w, http.StatusForbidden, "Insufficient privileges")
		return
	}
	if caller.IsProviderAdmin() && caller.ProviderID != providerID {
		writeErrorResponse(w, http.StatusForbidden, "Access denied")
		return
	}

	user := &models.User{
		ProviderID:     providerID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Role:           req.Role,
		PhoneNumber:    req.PhoneNumber,
		PassportNumber: req.PassportNumber,
	}
	if err := h.userMgmtSvc.CreateUser(r.Context(), user, req.Password); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, user)
}

// ListUsers handles GET /providers/{id}/users
func (h *ProviderHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	users, err := h.userMgmtSvc.GetUsersByProvider(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, users)
}
