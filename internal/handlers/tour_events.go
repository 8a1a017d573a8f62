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

// TourEventHandler handles tour event endpoints including capacity and
// registration subresources
type TourEventHandler struct {
	logger          *logger.Logger
	eventSvc        services.TourEventService
	registrationSvc services.RegistrationService
	ledger          services.CapacityLedger
}

// NewTourEventHandler creates a new tour event handler
func NewTourEventHandler(
	logger *logger.Logger,
	eventSvc services.TourEventService,
	registrationSvc services.RegistrationService,
	ledger services.CapacityLedger,
) *TourEventHandler {
	return &TourEventHandler{
		logger:          logger,
		eventSvc:        eventSvc,
		registrationSvc: registrationSvc,
		ledger:          ledger,
	}
}

// RegisterRoutes registers tour event routes on an authenticated subrouter
func (h *TourEventHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/tour-events", h.Create).Methods("POST")
	router.HandleFunc("/tour-events", h.List).Methods("GET")
	router.HandleFunc("/tour-events/{id}", h.Get).Methods("GET")
	router.HandleFunc("/tour-events/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/tour-events/{id}", h.Delete).Methods("DELETE")
	router.HandleFunc("/tour-events/{id}/status", h.UpdateStatus).Methods("PUT")
	router.HandleFunc("/tour-events/{id}/capacity", h.UpdateCapacity).Methods("PUT")
	router.HandleFunc("/tour-events/{id}/capacity/reconcile", h.Reconcile).Methods("POST")

	router.HandleFunc("/tour-events/{id}/registrations", h.Register).Methods("POST")
	router.HandleFunc("/tour-events/{id}/registrations", h.ListRegistrations).Methods("GET")
	router.HandleFunc("/registrations/{id}/approve", h.ApproveRegistration).Methods("POST")
	router.HandleFunc("/registrations/{id}/reject", h.RejectRegistration).Methods("POST")
	router.HandleFunc("/registrations/{id}/cancel", h.CancelRegistration).Methods("POST")
	router.HandleFunc("/tourists/{id}/registrations", h.ListTouristRegistrations).Methods("GET")
}

// Create handles POST /tour-events
func (h *TourEventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var event models.TourEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller := middleware.GetUserFromContext(r.Context())
	created, err := h.eventSvc.Create(r.Context(), caller, &event)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, created)
}

// List handles GET /tour-events
func (h *TourEventHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	events, err := h.eventSvc.List(r.Context(), caller)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, events)
}

// Get handles GET /tour-events/{id}
func (h *TourEventHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	event, err := h.eventSvc.Get(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, event)
}

// Update handles PUT /tour-events/{id}
func (h *TourEventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var event models.TourEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	event.ID = mux.Vars(r)["id"]

	caller := middleware.GetUserFromContext(r.Context())
	updated, err := h.eventSvc.Update(r.Context(), caller, &event)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /tour-events/{id}
func (h *TourEventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	if err := h.eventSvc.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /tour-events/{id}/status
func (h *TourEventHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller := middleware.GetUserFromContext(r.Context())
	updated, err := h.eventSvc.UpdateStatus(r.Context(), caller, mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, updated)
}

type updateCapacityRequest struct {
	NumberOfAllowedTourists int `json:"number_of_allowed_tourists"`
}

// UpdateCapacity handles PUT /tour-events/{id}/capacity
func (h *TourEventHandler) UpdateCapacity(w http.ResponseWriter, r *http.Request) {
	var req updateCapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller := middleware.GetUserFromContext(r.Context())
	updated, err := h.eventSvc.UpdateCapacity(r.Context(), caller, mux.Vars(r)["id"], req.NumberOfAllowedTourists)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, updated)
}

// Reconcile handles POST /tour-events/{id}/capacity/reconcile. Admin-only via
// route middleware; the ledger itself is idempotent so repeated calls are
// safe.
func (h *TourEventHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	if !caller.IsAdmin() {
		writeErrorResponse(w, http.StatusForbidden, "Insufficient privileges")
		return
	}

	report, err := h.ledger.Reconcile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, report)
}

// Register handles POST /tour-events/{id}/registrations
func (h *TourEventHandler) Register(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	registration, err := h.registrationSvc.Register(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, registration)
}

// ListRegistrations handles GET /tour-events/{id}/registrations
func (h *TourEventHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	registrations, err := h.registrationSvc.ListForEvent(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, registrations)
}

// ApproveRegistration handles POST /registrations/{id}/approve
func (h *TourEventHandler) ApproveRegistration(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	registration, err := h.registrationSvc.Approve(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, registration)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// RejectRegistration handles POST /registrations/{id}/reject
func (h *TourEventHandler) RejectRegistration(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller := middleware.GetUserFromContext(r.Context())
	registration, err := h.registrationSvc.Reject(r.Context(), caller, mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, registration)
}

// CancelRegistration handles POST /registrations/{id}/cancel
func (h *TourEventHandler) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	registration, err := h.registrationSvc.Cancel(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, registration)
}

// ListTouristRegistrations handles GET /tourists/{id}/registrations
func (h *TourEventHandler) ListTouristRegistrations(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	registrations, err := h.registrationSvc.ListForTourist(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, registrations)
}
