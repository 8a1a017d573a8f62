package services

import (
	"context"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"
)

// providerService implements ProviderService
type providerService struct {
	logger       *logger.Logger
	authz        AuthorizationService
	validation   *models.ValidationService
	providerRepo repositories.ProviderRepository
}

// NewProviderService creates a new provider service
func NewProviderService(
	logger *logger.Logger,
	authz AuthorizationService,
	validation *models.ValidationService,
	providerRepo repositories.ProviderRepository,
) ProviderService {
	return &providerService{
		logger:       logger,
		authz:        authz,
		validation:   validation,
		providerRepo: providerRepo,
	}
}

// Create registers a new provider tenant
func (s *providerService) Create(ctx context.Context, caller *models.User, provider *models.Provider) (*models.Provider, error) {
	if err := s.authz.Authorize(caller, OpCreateProvider, "", ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpCreateProvider, "")
		return nil, err
	}
	if err := s.validation.ValidateStruct(provider); err != nil {
		return nil, err
	}

	if err := s.providerRepo.Create(ctx, provider); err != nil {
		return nil, err
	}

	s.logger.WithProvider(provider.ID).Info("Provider created")
	return provider, nil
}

// Get returns one provider within the caller's scope
func (s *providerService) Get(ctx context.Context, caller *models.User, id string) (*models.Provider, error) {
	provider, err := s.providerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(caller, OpViewProvider, id, ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpViewProvider, id)
		return nil, err
	}
	return provider, nil
}

// List returns all providers to a system admin, or the caller's own provider
func (s *providerService) List(ctx context.Context, caller *models.User) ([]*models.Provider, error) {
	if caller.IsSystemAdmin() {
		return s.providerRepo.GetAll(ctx)
	}
	if caller.IsProviderAdmin() {
		provider, err := s.providerRepo.GetByID(ctx, caller.ProviderID)
		if err != nil {
			return nil, err
		}
		return []*models.Provider{provider}, nil
	}
	return nil, &models.InsufficientPermissionsError{Operation: string(OpViewProvider), Role: caller.Role}
}

// Update modifies a provider's profile
func (s *providerService) Update(ctx context.Context, caller *models.User, provider *models.Provider) (*models.Provider, error) {
	stored, err := s.providerRepo.GetByID(ctx, provider.ID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(caller, OpUpdateProvider, provider.ID, ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpUpdateProvider, provider.ID)
		return nil, err
	}

	stored.Name = provider.Name
	stored.Country = provider.Country
	stored.City = provider.City
	stored.IsIsolated = provider.IsIsolated
	if err := s.validation.ValidateStruct(stored); err != nil {
		return nil, err
	}

	if err := s.providerRepo.Update(ctx, stored); err != nil {
		return nil, err
	}

	s.logger.WithProvider(provider.ID).Info("Provider updated")
	return stored, nil
}

// Delete removes a provider that has no active tour events
func (s *providerService) Delete(ctx context.Context, caller *models.User, id string) error {
	if _, err := s.providerRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.authz.Authorize(caller, OpDeleteProvider, "", ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpDeleteProvider, id)
		return err
	}

	active, err := s.providerRepo.CountActiveTourEvents(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return &models.StateTransitionError{
			Resource:      "provider",
			ID:            id,
			CurrentState:  "with active tour events",
			RequiredState: "without active tour events",
		}
	}

	if err := s.providerRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithProvider(id).Info("Provider deleted")
	return nil
}
