package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"tourist-hub-api/internal/config"
	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnauthorized       = errors.New("unauthorized access")
)

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	UserID     string `json:"user_id"`
	ProviderID string `json:"provider_id,omitempty"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// authenticationService implements AuthenticationService
type authenticationService struct {
	logger    *logger.Logger
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	issuer    string
}

// NewAuthenticationService creates a new authentication service
func NewAuthenticationService(
	logger *logger.Logger,
	cfg *config.Config,
	userRepo repositories.UserRepository,
) AuthenticationService {
	return &authenticationService{
		logger:    logger,
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.Auth.JWTSecret),
		tokenTTL:  time.Duration(cfg.Auth.TokenTTL) * time.Hour,
		issuer:    cfg.Auth.TokenIssuer,
	}
}

// Login verifies credentials and returns a signed token with the user.
// Unknown email and wrong password return the same error.
func (s *authenticationService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.WithField("email", email).Warn("Login attempt for unknown email")
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.WithUser(user.ID).Warn("Login attempt for deactivated user")
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WithUser(user.ID).Warn("Login attempt with invalid password")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(ctx, user)
	if err != nil {
		return "", nil, err
	}

	s.logger.WithUser(user.ID).
		WithField("role", user.Role).
		Info("User logged in")
	return token, user, nil
}

// GenerateJWT generates a JWT token for a user
func (s *authenticationService) GenerateJWT(ctx context.Context, user *models.User) (string, error) {
	claims := JWTClaims{
		UserID:     user.ID,
		ProviderID: user.ProviderID,
		Role:       user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		s.logger.WithUser(user.ID).WithError(err).Error("Failed to sign JWT token")
		return "", err
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the current user record. The
// database read ensures role and provider changes take effect on the next
// request, not at the next token refresh.
func (s *authenticationService) ValidateJWT(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		s.logger.WithError(err).Warn("Failed to parse JWT token")
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		s.logger.WithUser(claims.UserID).WithError(err).Warn("User not found for JWT token")
		return nil, ErrInvalidToken
	}

	if !user.IsActive {
		return nil, ErrUnauthorized
	}

	return user, nil
}

// HashPassword hashes a password using bcrypt
func (s *authenticationService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
