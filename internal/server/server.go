package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tourist-hub-api/internal/config"
	"tourist-hub-api/internal/handlers"
	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logger.Logger
	router     *mux.Router
	httpServer *http.Server
}

// NewServer creates a new HTTP server with all routes configured
func NewServer(
	config *config.Config,
	logger *logger.Logger,
	authHandler *handlers.AuthHandler,
	providerHandler *handlers.ProviderHandler,
	userHandler *handlers.UserHandler,
	templateHandler *handlers.TourTemplateHandler,
	eventHandler *handlers.TourEventHandler,
	activityHandler *handlers.ActivityHandler,
	documentHandler *handlers.DocumentHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthenticationMiddleware,
	loginLimiter *middleware.LoginRateLimiter,
) *Server {
	router := mux.NewRouter()

	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogging(logger))

	// Public surface: health, metrics, login, tourist signup
	healthHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	public := router.PathPrefix("/api/v1").Subrouter()
	authHandler.RegisterRoutes(public, loginLimiter)

	// Everything else requires a valid token; per-operation scoping lives in
	// the services.
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.RequireJWT())
	authHandler.RegisterProtectedRoutes(api)
	providerHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	templateHandler.RegisterRoutes(api)
	eventHandler.RegisterRoutes(api)
	activityHandler.RegisterRoutes(api)
	documentHandler.RegisterRoutes(api)

	server := &Server{
		config: config,
		logger: logger,
		router: router,
	}
	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return server
}

// Router exposes the configured router, used by handler tests
func (s *Server) Router() *mux.Router {
	return s.router
}

// Start starts the HTTP server and blocks until shutdown
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.WithError(err).Error("HTTP server error")
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	s.logger.Info("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
