package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/services"
)

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     message,
		"status":    statusCode,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// writeDomainError maps typed domain errors onto HTTP status codes. Capacity
// and overlap refusals are 409s: routine outcomes of concurrent booking, not
// client mistakes.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		notFound      *models.NotFoundError
		permissions   *models.InsufficientPermissionsError
		validation    *models.ValidationError
		capacity      *models.CapacityExceededError
		capReduction  *models.CapacityReductionError
		duplicate     *models.DuplicateRegistrationError
		overlap       *models.OverlapError
		schedConflict *models.SchedulingConflictError
		dateRange     *models.DateRangeError
		state         *models.StateTransitionError
	)

	switch {
	case errors.As(err, &notFound):
		writeErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.As(err, &permissions):
		writeErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.As(err, &validation), errors.As(err, &dateRange):
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &capacity), errors.As(err, &capReduction),
		errors.As(err, &duplicate), errors.As(err, &overlap),
		errors.As(err, &schedConflict), errors.As(err, &state):
		writeErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrTokenExpired):
		writeErrorResponse(w, http.StatusUnauthorized, err.Error())
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}
