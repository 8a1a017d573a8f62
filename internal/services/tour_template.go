package services

import (
	"context"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"
)

// tourTemplateService implements TourTemplateService. Templates are a shared
// catalog: every authenticated user may read them, only system admins write.
type tourTemplateService struct {
	logger       *logger.Logger
	authz        AuthorizationService
	validation   *models.ValidationService
	templateRepo repositories.TourTemplateRepository
	cache        *CacheService
}

// NewTourTemplateService creates a new tour template service
func NewTourTemplateService(
	logger *logger.Logger,
	authz AuthorizationService,
	validation *models.ValidationService,
	templateRepo repositories.TourTemplateRepository,
	cache *CacheService,
) TourTemplateService {
	return &tourTemplateService{
		logger:       logger,
		authz:        authz,
		validation:   validation,
		templateRepo: templateRepo,
		cache:        cache,
	}
}

// Create adds a template to the catalog
func (s *tourTemplateService) Create(ctx context.Context, caller *models.User, template *models.TourTemplate) (*models.TourTemplate, error) {
	if err := s.authz.Authorize(caller, OpManageTemplate, "", ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpManageTemplate, "")
		return nil, err
	}
	if err := s.validation.ValidateStruct(template); err != nil {
		return nil, err
	}
	if err := s.validation.ValidateDateOrder(template.StartDate, template.EndDate); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, err
	}

	s.cache.InvalidateTemplates(ctx)
	s.logger.WithField("template_id", template.ID).Info("Tour template created")
	return template, nil
}

// Get returns one template
func (s *tourTemplateService) Get(ctx context.Context, id string) (*models.TourTemplate, error) {
	return s.templateRepo.GetByID(ctx, id)
}

// List returns the template catalog, served from cache when warm
func (s *tourTemplateService) List(ctx context.Context) ([]*models.TourTemplate, error) {
	var templates []*models.TourTemplate
	if s.cache.GetTemplates(ctx, &templates) {
		return templates, nil
	}

	templates, err := s.templateRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetTemplates(ctx, templates)
	return templates, nil
}

// Update modifies a template
func (s *tourTemplateService) Update(ctx context.Context, caller *models.User, template *models.TourTemplate) (*models.TourTemplate, error) {
	if err := s.authz.Authorize(caller, OpManageTemplate, "", ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpManageTemplate, template.ID)
		return nil, err
	}

	stored, err := s.templateRepo.GetByID(ctx, template.ID)
	if err != nil {
		return nil, err
	}

	stored.TemplateName = template.TemplateName
	stored.Type = template.Type
	stored.StartDate = template.StartDate
	stored.EndDate = template.EndDate
	stored.SitesToVisit = template.SitesToVisit
	if err := s.validation.ValidateStruct(stored); err != nil {
		return nil, err
	}
	if err := s.validation.ValidateDateOrder(stored.StartDate, stored.EndDate); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Update(ctx, stored); err != nil {
		return nil, err
	}

	s.cache.InvalidateTemplates(ctx)
	s.logger.WithField("template_id", template.ID).Info("Tour template updated")
	return stored, nil
}

// Delete removes a template from the catalog. Existing tour events keep their
// copied fields; only the blueprint goes away.
func (s *tourTemplateService) Delete(ctx context.Context, caller *models.User, id string) error {
	if err := s.authz.Authorize(caller, OpManageTemplate, "", ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpManageTemplate, id)
		return err
	}

	if _, err := s.templateRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.InvalidateTemplates(ctx)
	s.logger.WithField("template_id", id).Info("Tour template deleted")
	return nil
}
