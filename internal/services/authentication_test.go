package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tourist-hub-api/internal/config"
	"tourist-hub-api/internal/models"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:   "test-secret-key",
			TokenTTL:    1,
			TokenIssuer: "tourist-hub",
		},
	}
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := &MockUserRepository{}
	svc := NewAuthenticationService(createTestLogger(), testAuthConfig(), userRepo)

	user := &models.User{
		ID:           "user-1",
		Email:        "tourist@example.com",
		PasswordHash: hashFor(t, "correct horse"),
		Role:         models.RoleTourist,
		IsActive:     true,
	}
	userRepo.On("GetByEmail", ctx, "tourist@example.com").Return(user, nil)

	token, loggedIn, err := svc.Login(ctx, "tourist@example.com", "correct horse")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user-1", loggedIn.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := &MockUserRepository{}
	svc := NewAuthenticationService(createTestLogger(), testAuthConfig(), userRepo)

	user := &models.User{
		ID:           "user-1",
		Email:        "tourist@example.com",
		PasswordHash: hashFor(t, "correct horse"),
		Role:         models.RoleTourist,
		IsActive:     true,
	}
	userRepo.On("GetByEmail", ctx, "tourist@example.com").Return(user, nil)

	_, _, err := svc.Login(ctx, "tourist@example.com", "wrong horse")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailAndWrongPasswordLookTheSame(t *testing.T) {
	ctx := context.Background()
	userRepo := &MockUserRepository{}
	svc := NewAuthenticationService(createTestLogger(), testAuthConfig(), userRepo)

	userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, models.NewNotFoundError("user", "nobody@example.com"))

	_, _, err := svc.Login(ctx, "nobody@example.com", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DeactivatedUserRejected(t *testing.T) {
	ctx := context.Background()
	userRepo := &MockUserRepository{}
	svc := NewAuthenticationService(createTestLogger(), testAuthConfig(), userRepo)

	user := &models.User{
		ID:           "user-1",
		Email:        "gone@example.com",
		PasswordHash: hashFor(t, "correct horse"),
		Role:         models.RoleTourist,
		IsActive:     false,
	}
	userRepo.On("GetByEmail", ctx, "gone@example.com").Return(user, nil)

	_, _, err := svc.Login(ctx, "gone@example.com", "correct horse")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_EmptyCredentialsRejected(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthenticationService(createTestLogger(), testAuthConfig(), &MockUserRepository{})

	_, _, err := svc.Login(ctx, "", "")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateJWT_RoundTrip(t *testing.T) {
	ctx := context.Background()
	userRepo := &MockUserRepository{}
	svc := NewAuthenticationService(createTestLogger(), testAuthConfig(), userRepo)

	user := &models.User{
		ID:         "user-1",
		ProviderID: "provider-1",
		Role:       models.RoleProviderAdmin,
		IsActive:   true,
	}
	userRepo.On("GetByID", ctx, "user-1").Return(user, nil)

	token, err := svc.GenerateJWT(ctx, user)
	require.NoError(t, err)

	validated, err := svc.ValidateJWT(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", validated.ID)
	assert.Equal(t, models.RoleProviderAdmin, validated.Role)
}

func TestValidateJWT_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	cfg := testAuthConfig()
	cfg.Auth.TokenTTL = -1
	svc := NewAuthenticationService(createTestLogger(), cfg, &MockUserRepository{})

	token, err := svc.GenerateJWT(ctx, &models.User{ID: "user-1", Role: models.RoleTourist, IsActive: true})
	require.NoError(t, err)

	_, err = svc.ValidateJWT(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateJWT_WrongSecretRejected(t *testing.T) {
	ctx := context.Background()
	issuing := NewAuthenticationService(createTestLogger(), testAuthConfig(), &MockUserRepository{})

	otherCfg := testAuthConfig()
	otherCfg.Auth.JWTSecret = "a-different-secret"
	validating := NewAuthenticationService(createTestLogger(), otherCfg, &MockUserRepository{})

	token, err := issuing.GenerateJWT(ctx, &models.User{ID: "user-1", Role: models.RoleTourist, IsActive: true})
	require.NoError(t, err)

	_, err = validating.ValidateJWT(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWT_DeactivatedUserRejected(t *testing.T) {
	ctx := context.Background()
	userRepo := &MockUserRepository{}
	svc := NewAuthenticationService(createTestLogger(), testAuthConfig(), userRepo)

	user := &models.User{ID: "user-1", Role: models.RoleTourist, IsActive: true}
	token, err := svc.GenerateJWT(ctx, user)
	require.NoError(t, err)

	// The account is deactivated after the token was issued.
	user.IsActive = false
	userRepo.On("GetByID", ctx, "user-1").Return(user, nil)

	_, err = svc.ValidateJWT(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHashPassword_VerifiableWithBcrypt(t *testing.T) {
	svc := NewAuthenticationService(createTestLogger(), testAuthConfig(), &MockUserRepository{})

	hash, err := svc.HashPassword("a strong passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, "a strong passphrase", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("a strong passphrase")))
}
