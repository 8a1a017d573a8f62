package repositories

import (
	"context"
	"errors"

	"tourist-hub-api/internal/database"
	"tourist-hub-api/internal/models"

	"gorm.io/gorm"
)

// tourTemplateRepository implements TourTemplateRepository
type tourTemplateRepository struct {
	db *gorm.DB
}

// NewTourTemplateRepository creates a new tour template repository
func NewTourTemplateRepository(db *database.Connection) TourTemplateRepository {
	return &tourTemplateRepository{db: db.DB}
}

// WithTx rebinds the repository to an open transaction
func (r *tourTemplateRepository) WithTx(tx *gorm.DB) TourTemplateRepository {
	if tx == nil {
		return r
	}
	return &tourTemplateRepository{db: tx}
}

// Create creates a new tour template
func (r *tourTemplateRepository) Create(ctx context.Context, template *models.TourTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

// GetByID retrieves a tour template by ID
func (r *tourTemplateRepository) GetByID(ctx context.Context, id string) (*models.TourTemplate, error) {
	var template models.TourTemplate
	err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("tour template", id)
		}
		return nil, err
	}
	return &template, nil
}

// GetAll retrieves all tour templates
func (r *tourTemplateRepository) GetAll(ctx context.Context) ([]*models.TourTemplate, error) {
	var templates []*models.TourTemplate
	err := r.db.WithContext(ctx).Order("template_name").Find(&templates).Error
	return templates, err
}

// Update updates an existing tour template
func (r *tourTemplateRepository) Update(ctx context.Context, template *models.TourTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// Delete soft deletes a tour template
func (r *tourTemplateRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.TourTemplate{}, "id = ?", id).Error
}
