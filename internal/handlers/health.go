package handlers

import (
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"tourist-hub-api/internal/database"
)

// HealthHandler handles health and readiness endpoints
type HealthHandler struct {
	db    *database.Connection
	redis *redis.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.Connection, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// RegisterRoutes registers the public health routes
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HandleHealthCheck).Methods("GET")
	router.HandleFunc("/health/live", h.HandleLivenessProbe).Methods("GET")
	router.HandleFunc("/health/ready", h.HandleReadinessProbe).Methods("GET")
}

type componentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]componentHealth `json:"components"`
}

// HandleHealthCheck reports the health of the database and redis
func (h *HealthHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	components := make(map[string]componentHealth)
	overall := "healthy"

	if err := h.db.Ping(ctx); err != nil {
		components["database"] = componentHealth{Status: "unhealthy", Error: err.Error()}
		overall = "unhealthy"
	} else {
		components["database"] = componentHealth{Status: "healthy"}
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		components["redis"] = componentHealth{Status: "unhealthy", Error: err.Error()}
		overall = "unhealthy"
	} else {
		components["redis"] = componentHealth{Status: "healthy"}
	}

	status := http.StatusOK
	if overall != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSONResponse(w, status, healthResponse{
		Status:     overall,
		Timestamp:  time.Now().UTC(),
		Components: components,
	})
}

// HandleLivenessProbe handles Kubernetes liveness probe
func (h *HealthHandler) HandleLivenessProbe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// HandleReadinessProbe handles Kubernetes readiness probe. Redis degradation
// does not fail readiness; the cache and notifications degrade gracefully.
func (h *HealthHandler) HandleReadinessProbe(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Service Unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
