package services

import (
	"context"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"
)

// userManagementService implements UserManagementService
type userManagementService struct {
	logger       *logger.Logger
	authz        AuthorizationService
	auth         AuthenticationService
	validation   *models.ValidationService
	userRepo     repositories.UserRepository
	providerRepo repositories.ProviderRepository
}

// NewUserManagementService creates a new user management service
func NewUserManagementService(
	logger *logger.Logger,
	authz AuthorizationService,
	auth AuthenticationService,
	validation *models.ValidationService,
	userRepo repositories.UserRepository,
	providerRepo repositories.ProviderRepository,
) UserManagementService {
	return &userManagementService{
		logger:       logger,
		authz:        authz,
		auth:         auth,
		validation:   validation,
		userRepo:     userRepo,
		providerRepo: providerRepo,
	}
}

// CreateUser creates a user account. Tourist self-registration passes no
// caller through the handler; admin-created accounts are scoped by the
// handler before reaching here.
func (s *userManagementService) CreateUser(ctx context.Context, user *models.User, password string) error {
	if err := s.validation.ValidateStruct(user); err != nil {
		return err
	}
	if len(password) < 8 {
		return &models.ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}

	if user.Role == models.RoleSystemAdmin {
		user.ProviderID = ""
	} else {
		if user.ProviderID == "" {
			return &models.ValidationError{Field: "provider_id", Message: "this field is required"}
		}
		if _, err := s.providerRepo.GetByID(ctx, user.ProviderID); err != nil {
			return err
		}
	}

	if existing, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil && existing != nil {
		return &models.ValidationError{Field: "email", Message: "already in use"}
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.IsActive = true

	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	s.logger.WithUser(user.ID).
		WithField("role", user.Role).
		WithField("provider_id", user.ProviderID).
		Info("User created")
	return nil
}

// GetUser returns a user profile: self, or an admin within scope
func (s *userManagementService) GetUser(ctx context.Context, caller *models.User, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if caller.ID == userID {
		return user, nil
	}
	if err := s.authz.Authorize(caller, OpManageUsers, user.ProviderID, userID); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpManageUsers, userID)
		return nil, err
	}
	return user, nil
}

// GetUsersByProvider returns all user accounts of one provider
func (s *userManagementService) GetUsersByProvider(ctx context.Context, caller *models.User, providerID string) ([]*models.User, error) {
	if _, err := s.providerRepo.GetByID(ctx, providerID); err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(caller, OpManageUsers, providerID, ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpManageUsers, providerID)
		return nil, err
	}
	return s.userRepo.GetByProvider(ctx, providerID)
}

// UpdateUser modifies a user's profile fields. Role and provider binding are
// immutable after creation.
func (s *userManagementService) UpdateUser(ctx context.Context, caller *models.User, user *models.User) error {
	stored, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}

	if caller.ID != user.ID {
		if err := s.authz.Authorize(caller, OpManageUsers, stored.ProviderID, user.ID); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpManageUsers, user.ID)
			return err
		}
	}

	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.PhoneNumber = user.PhoneNumber
	stored.PassportNumber = user.PassportNumber
	stored.DateOfBirth = user.DateOfBirth
	stored.Gender = user.Gender
	if err := s.validation.ValidateStruct(stored); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, stored); err != nil {
		return err
	}

	s.logger.WithUser(user.ID).Info("User updated")
	return nil
}

// DeactivateUser disables an account without deleting its history
func (s *userManagementService) DeactivateUser(ctx context.Context, caller *models.User, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.authz.Authorize(caller, OpManageUsers, user.ProviderID, ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpManageUsers, userID)
		return err
	}

	user.IsActive = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.WithUser(userID).Info("User deactivated")
	return nil
}

// ChangePassword sets a new password: self, or an admin within scope
func (s *userManagementService) ChangePassword(ctx context.Context, caller *models.User, userID, newPassword string) error {
	if len(newPassword) < 8 {
		return &models.ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if caller.ID != userID {
		if err := s.authz.Authorize(caller, OpManageUsers, user.ProviderID, userID); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpManageUsers, userID)
			return err
		}
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.WithUser(userID).Info("Password changed")
	return nil
}
