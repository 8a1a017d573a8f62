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

// AuthHandler handles login and tourist self-registration
type AuthHandler struct {
	logger      *logger.Logger
	authSvc     services.AuthenticationService
	userMgmtSvc services.UserManagementService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	logger *logger.Logger,
	authSvc services.AuthenticationService,
	userMgmtSvc services.UserManagementService,
) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		authSvc:     authSvc,
		userMgmtSvc: userMgmtSvc,
	}
}

// RegisterRoutes registers the public auth routes. Login sits behind the
// per-IP attempt budget.
func (h *AuthHandler) RegisterRoutes(router *mux.Router, loginLimiter *middleware.LoginRateLimiter) {
	router.Handle("/auth/login", loginLimiter.Limit(http.HandlerFunc(h.Login))).Methods("POST")
	router.HandleFunc("/auth/register", h.RegisterTourist).Methods("POST")
}

// RegisterProtectedRoutes registers auth routes that need a valid token
func (h *AuthHandler) RegisterProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/auth/me", h.Me).Methods("GET")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, loginResponse{Token: token, User: user})
}

type registerTouristRequest struct {
	ProviderID     string `json:"provider_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	PhoneNumber    string `json:"phone_number"`
	PassportNumber string `json:"passport_number"`
}

// RegisterTourist handles POST /auth/register. Self-registration always
// produces a Tourist account; admin accounts are provisioned by admins.
func (h *AuthHandler) RegisterTourist(w http.ResponseWriter, r *http.Request) {
	var req registerTouristRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user := &models.User{
		ProviderID:     req.ProviderID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Role:           models.RoleTourist,
		PhoneNumber:    req.PhoneNumber,
		PassportNumber: req.PassportNumber,
	}
	if err := h.userMgmtSvc.CreateUser(r.Context(), user, req.Password); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, user)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	writeJSONResponse(w, http.StatusOK, user)
}
