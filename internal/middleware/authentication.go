package middleware

import (
	"context"
	"net/http"
	"strings"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/services"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// UserContextKey is the context key for the authenticated user
const UserContextKey ContextKey = "user"

// AuthenticationMiddleware provides authentication middleware
type AuthenticationMiddleware struct {
	logger   *logger.Logger
	authSvc  services.AuthenticationService
	authzSvc services.AuthorizationService
}

// NewAuthenticationMiddleware creates a new authentication middleware
func NewAuthenticationMiddleware(
	logger *logger.Logger,
	authSvc services.AuthenticationService,
	authzSvc services.AuthorizationService,
) *AuthenticationMiddleware {
	return &AuthenticationMiddleware{
		logger:   logger,
		authSvc:  authSvc,
		authzSvc: authzSvc,
	}
}

// RequireJWT middleware that requires JWT authentication
func (m *AuthenticationMiddleware) RequireJWT() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				http.Error(w, "Bearer token required", http.StatusUnauthorized)
				return
			}

			token := authHeader[len(bearerPrefix):]
			user, err := m.authSvc.ValidateJWT(ctx, token)
			if err != nil {
				m.logger.WithError(err).Warn("JWT validation failed")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx = context.WithValue(ctx, UserContextKey, user)
			r = r.WithContext(ctx)

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole middleware that requires one of the given roles
func (m *AuthenticationMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			m.logger.WithUser(user.ID).
				WithField("role", user.Role).
				WithField("path", r.URL.Path).
				Warn("Role access denied")
			http.Error(w, "Insufficient privileges", http.StatusForbidden)
		})
	}
}

// RequireAdmin middleware that requires either admin role
func (m *AuthenticationMiddleware) RequireAdmin() func(http.Handler) http.Handler {
	return m.RequireRole(models.RoleSystemAdmin, models.RoleProviderAdmin)
}

// GetUserFromContext extracts the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
