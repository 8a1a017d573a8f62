package repositories

import (
	"context"
	"errors"
	"time"

	"tourist-hub-api/internal/database"
	"tourist-hub-api/internal/models"

	"gorm.io/gorm"
)

// registrationRepository implements RegistrationRepository
type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *database.Connection) RegistrationRepository {
	return &registrationRepository{db: db.DB}
}

// WithTx rebinds the repository to an open transaction
func (r *registrationRepository) WithTx(tx *gorm.DB) RegistrationRepository {
	if tx == nil {
		return r
	}
	return &registrationRepository{db: tx}
}

// Create creates a new registration
func (r *registrationRepository) Create(ctx context.Context, registration *models.TouristRegistration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

// GetByID retrieves a registration by ID with its tour event
func (r *registrationRepository) GetByID(ctx context.Context, id string) (*models.TouristRegistration, error) {
	var registration models.TouristRegistration
	err := r.db.WithContext(ctx).Preload("TourEvent").First(&registration, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("registration", id)
		}
		return nil, err
	}
	return &registration, nil
}

// Update updates an existing registration
func (r *registrationRepository) Update(ctx context.Context, registration *models.TouristRegistration) error {
	return r.db.WithContext(ctx).Save(registration).Error
}

// GetActiveByTouristAndEvent returns the tourist's PENDING or APPROVED
// registration for the event, or nil when none exists
func (r *registrationRepository) GetActiveByTouristAndEvent(ctx context.Context, touristUserID, tourEventID string) (*models.TouristRegistration, error) {
	var registration models.TouristRegistration
	err := r.db.WithContext(ctx).
		Where("tourist_user_id = ? AND tour_event_id = ? AND status IN ?",
			touristUserID, tourEventID, models.ActiveRegistrationStatuses).
		First(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &registration, nil
}

// GetActiveOverlapping returns one active registration of the tourist whose
// event date range intersects [start, end] inclusively, or nil when none
func (r *registrationRepository) GetActiveOverlapping(ctx context.Context, touristUserID string, start, end time.Time, excludeEventID string) (*models.TouristRegistration, error) {
	var registration models.TouristRegistration
	q := r.db.WithContext(ctx).
		Preload("TourEvent").
		Joins("JOIN tour_events ON tour_events.id = tourist_registrations.tour_event_id").
		Where("tourist_registrations.tourist_user_id = ?", touristUserID).
		Where("tourist_registrations.status IN ?", models.ActiveRegistrationStatuses).
		Where("tour_events.start_date <= ? AND tour_events.end_date >= ?", end, start)
	if excludeEventID != "" {
		q = q.Where("tourist_registrations.tour_event_id <> ?", excludeEventID)
	}
	err := q.First(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &registration, nil
}

// CountByEventAndStatus counts registrations for an event in a given status
func (r *registrationRepository) CountByEventAndStatus(ctx context.Context, tourEventID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TouristRegistration{}).
		Where("tour_event_id = ? AND status = ?", tourEventID, status).
		Count(&count).Error
	return count, err
}

// ListByEvent retrieves all registrations for a tour event with tourists
func (r *registrationRepository) ListByEvent(ctx context.Context, tourEventID string) ([]*models.TouristRegistration, error) {
	var registrations []*models.TouristRegistration
	err := r.db.WithContext(ctx).
		Preload("Tourist").
		Where("tour_event_id = ?", tourEventID).
		Order("created_at").
		Find(&registrations).Error
	return registrations, err
}

// ListByEventAndTourist retrieves one tourist's registrations for an event
func (r *registrationRepository) ListByEventAndTourist(ctx context.Context, tourEventID, touristUserID string) ([]*models.TouristRegistration, error) {
	var registrations []*models.TouristRegistration
	err := r.db.WithContext(ctx).
		Where("tour_event_id = ? AND tourist_user_id = ?", tourEventID, touristUserID).
		Order("created_at").
		Find(&registrations).Error
	return registrations, err
}

// ListByTourist retrieves all registrations of a tourist with their events
func (r *registrationRepository) ListByTourist(ctx context.Context, touristUserID string) ([]*models.TouristRegistration, error) {
	var registrations []*models.TouristRegistration
	err := r.db.WithContext(ctx).
		Preload("TourEvent").
		Where("tourist_user_id = ?", touristUserID).
		Order("created_at").
		Find(&registrations).Error
	return registrations, err
}
