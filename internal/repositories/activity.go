package repositories

import (
	"context"
	"errors"

	"tourist-hub-api/internal/database"
	"tourist-hub-api/internal/models"

	"gorm.io/gorm"
)

// activityRepository implements ActivityRepository
type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *database.Connection) ActivityRepository {
	return &activityRepository{db: db.DB}
}

// WithTx rebinds the repository to an open transaction
func (r *activityRepository) WithTx(tx *gorm.DB) ActivityRepository {
	if tx == nil {
		return r
	}
	return &activityRepository{db: tx}
}

// Create creates a new activity
func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// CreateBatch creates a batch of activities in one statement
func (r *activityRepository) CreateBatch(ctx context.Context, activities []*models.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(activities).Error
}

// GetByID retrieves an activity by ID
func (r *activityRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.WithContext(ctx).First(&activity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("activity", id)
		}
		return nil, err
	}
	return &activity, nil
}

// ListByEvent retrieves all activities of a tour event ordered by schedule
func (r *activityRepository) ListByEvent(ctx context.Context, tourEventID string) ([]*models.Activity, error) {
	var activities []*models.Activity
	err := r.db.WithContext(ctx).
		Where("tour_event_id = ?", tourEventID).
		Order("activity_date, start_time").
		Find(&activities).Error
	return activities, err
}

// Update updates an existing activity
func (r *activityRepository) Update(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

// Delete removes an activity
func (r *activityRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Activity{}, "id = ?", id).Error
}
