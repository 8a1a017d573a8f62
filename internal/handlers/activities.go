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

// ActivityHandler handles tour event schedule endpoints
type ActivityHandler struct {
	logger      *logger.Logger
	scheduleSvc services.ScheduleService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(logger *logger.Logger, scheduleSvc services.ScheduleService) *ActivityHandler {
	return &ActivityHandler{logger: logger, scheduleSvc: scheduleSvc}
}

// RegisterRoutes registers activity routes on an authenticated subrouter
func (h *ActivityHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/tour-events/{id}/activities", h.Create).Methods("POST")
	router.HandleFunc("/tour-events/{id}/activities/batch", h.CreateBatch).Methods("POST")
	router.HandleFunc("/tour-events/{id}/activities", h.List).Methods("GET")
	router.HandleFunc("/activities/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/activities/{id}", h.Delete).Methods("DELETE")
}

// Create handles POST /tour-events/{id}/activities
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var activity models.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	activity.TourEventID = mux.Vars(r)["id"]

	caller := middleware.GetUserFromContext(r.Context())
	created, err := h.scheduleSvc.CreateActivity(r.Context(), caller, &activity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, created)
}

type createBatchRequest struct {
	Activities []*models.Activity `json:"activities"`
}

// CreateBatch handles POST /tour-events/{id}/activities/batch
func (h *ActivityHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller := middleware.GetUserFromContext(r.Context())
	created, err := h.scheduleSvc.CreateActivities(r.Context(), caller, mux.Vars(r)["id"], req.Activities)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, created)
}

// List handles GET /tour-events/{id}/activities
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	activities, err := h.scheduleSvc.ListActivities(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, activities)
}

// Update handles PUT /activities/{id}
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var activity models.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	activity.ID = mux.Vars(r)["id"]

	caller := middleware.GetUserFromContext(r.Context())
	updated, err := h.scheduleSvc.UpdateActivity(r.Context(), caller, &activity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /activities/{id}
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserFromContext(r.Context())
	if err := h.scheduleSvc.DeleteActivity(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
