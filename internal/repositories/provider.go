package repositories

import (
	"context"
	"errors"

	"tourist-hub-api/internal/database"
	"tourist-hub-api/internal/models"

	"gorm.io/gorm"
)

// providerRepository implements ProviderRepository
type providerRepository struct {
	db *gorm.DB
}

// NewProviderRepository creates a new provider repository
func NewProviderRepository(db *database.Connection) ProviderRepository {
	return &providerRepository{db: db.DB}
}

// WithTx rebinds the repository to an open transaction
func (r *providerRepository) WithTx(tx *gorm.DB) ProviderRepository {
	if tx == nil {
		return r
	}
	return &providerRepository{db: tx}
}

// Create creates a new provider
func (r *providerRepository) Create(ctx context.Context, provider *models.Provider) error {
	return r.db.WithContext(ctx).Create(provider).Error
}

// GetByID retrieves a provider by ID
func (r *providerRepository) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	var provider models.Provider
	err := r.db.WithContext(ctx).First(&provider, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("provider", id)
		}
		return nil, err
	}
	return &provider, nil
}

// GetAll retrieves all providers
func (r *providerRepository) GetAll(ctx context.Context) ([]*models.Provider, error) {
	var providers []*models.Provider
	err := r.db.WithContext(ctx).Order("name").Find(&providers).Error
	return providers, err
}

// Update updates an existing provider
func (r *providerRepository) Update(ctx context.Context, provider *models.Provider) error {
	return r.db.WithContext(ctx).Save(provider).Error
}

// Delete soft deletes a provider
func (r *providerRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Provider{}, "id = ?", id).Error
}

// CountActiveTourEvents counts the provider's non-cancelled tour events
func (r *providerRepository) CountActiveTourEvents(ctx context.Context, providerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TourEvent{}).
		Where("provider_id = ? AND status <> ?", providerID, models.TourEventStatusCancelled).
		Count(&count).Error
	return count, err
}
