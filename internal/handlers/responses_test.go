package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/services"
)

func TestWriteDomainError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", models.NewNotFoundError("tour event", "event-1"), http.StatusNotFound},
		{"permissions", &models.InsufficientPermissionsError{Operation: "registration.approve", Role: "Tourist"}, http.StatusForbidden},
		{"validation", &models.ValidationError{Field: "email", Message: "already in use"}, http.StatusBadRequest},
		{"date range", &models.DateRangeError{TourEventID: "event-1", ActivityDate: "2026-09-20"}, http.StatusBadRequest},
		{"capacity exceeded", &models.CapacityExceededError{TourEventID: "event-1", Capacity: 2}, http.StatusConflict},
		{"capacity reduction", &models.CapacityReductionError{TourEventID: "event-1", RequestedCap: 1, ApprovedCount: 3}, http.StatusConflict},
		{"duplicate registration", &models.DuplicateRegistrationError{TourEventID: "event-1", TouristUserID: "tourist-1"}, http.StatusConflict},
		{"overlap", &models.OverlapError{TouristUserID: "tourist-1", ConflictingEventID: "event-2"}, http.StatusConflict},
		{"scheduling conflict", &models.SchedulingConflictError{TourEventID: "event-1"}, http.StatusConflict},
		{"state transition", &models.StateTransitionError{Resource: "registration", ID: "reg-1"}, http.StatusConflict},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", services.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", services.ErrTokenExpired, http.StatusUnauthorized},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestWriteDomainError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, errors.New("pq: connection refused on 10.0.0.5"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
}

func TestWriteJSONResponse_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSONResponse(rec, http.StatusCreated, map[string]string{"id": "event-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"event-1"}`, rec.Body.String())
}
