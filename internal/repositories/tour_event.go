package repositories

import (
	"context"
	"errors"

	"tourist-hub-api/internal/database"
	"tourist-hub-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tourEventRepository implements TourEventRepository
type tourEventRepository struct {
	db *gorm.DB
}

// NewTourEventRepository creates a new tour event repository
func NewTourEventRepository(db *database.Connection) TourEventRepository {
	return &tourEventRepository{db: db.DB}
}

// WithTx rebinds the repository to an open transaction
func (r *tourEventRepository) WithTx(tx *gorm.DB) TourEventRepository {
	if tx == nil {
		return r
	}
	return &tourEventRepository{db: tx}
}

// Create creates a new tour event
func (r *tourEventRepository) Create(ctx context.Context, event *models.TourEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// GetByID retrieves a tour event by ID
func (r *tourEventRepository) GetByID(ctx context.Context, id string) (*models.TourEvent, error) {
	var event models.TourEvent
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("tour event", id)
		}
		return nil, err
	}
	return &event, nil
}

// GetByIDForUpdate retrieves a tour event row under SELECT ... FOR UPDATE.
// Concurrent approvals serialize on this lock, so at most one of two callers
// racing for the last seat observes remaining capacity above zero.
func (r *tourEventRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.TourEvent, error) {
	var event models.TourEvent
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("tour event", id)
		}
		return nil, err
	}
	return &event, nil
}

// List retrieves tour events narrowed by the given visibility filter
func (r *tourEventRepository) List(ctx context.Context, filter TourEventFilter) ([]*models.TourEvent, error) {
	q := r.db.WithContext(ctx).Model(&models.TourEvent{})

	if filter.ProviderID != "" {
		q = q.Where("provider_id = ?", filter.ProviderID)
	}
	if filter.VisibleToTouristID != "" {
		q = q.Where(
			"status = ? OR id IN (?)",
			models.TourEventStatusActive,
			r.db.Model(&models.TouristRegistration{}).
				Select("tour_event_id").
				Where("tourist_user_id = ? AND status IN ?",
					filter.VisibleToTouristID, models.ActiveRegistrationStatuses),
		)
	} else if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}

	var events []*models.TourEvent
	err := q.Order("start_date").Find(&events).Error
	return events, err
}

// ListIDs retrieves the IDs of all tour events, for the reconcile sweep
func (r *tourEventRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.TourEvent{}).
		Pluck("id", &ids).Error
	return ids, err
}

// Update updates an existing tour event
func (r *tourEventRepository) Update(ctx context.Context, event *models.TourEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// HasRegistrations reports whether any registration references the event
func (r *tourEventRepository) HasRegistrations(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TouristRegistration{}).
		Where("tour_event_id = ?", eventID).
		Count(&count).Error
	return count > 0, err
}

// Delete hard deletes a tour event. Callers must first verify no
// registrations reference it.
func (r *tourEventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.TourEvent{}, "id = ?", id).Error
}
