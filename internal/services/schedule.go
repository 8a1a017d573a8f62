package services

import (
	"context"
	"time"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"

	"gorm.io/gorm"
)

// scheduleService implements ScheduleService. Conflict detection treats
// activity intervals as half-open, so back-to-back activities that share an
// endpoint are allowed.
type scheduleService struct {
	logger       *logger.Logger
	db           TxManager
	authz        AuthorizationService
	validation   *models.ValidationService
	eventRepo    repositories.TourEventRepository
	activityRepo repositories.ActivityRepository
	notifier     NotificationDispatcher
}

// NewScheduleService creates a new schedule service
func NewScheduleService(
	logger *logger.Logger,
	db TxManager,
	authz AuthorizationService,
	validation *models.ValidationService,
	eventRepo repositories.TourEventRepository,
	activityRepo repositories.ActivityRepository,
	notifier NotificationDispatcher,
) ScheduleService {
	return &scheduleService{
		logger:       logger,
		db:           db,
		authz:        authz,
		validation:   validation,
		eventRepo:    eventRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
	}
}

// validateActivity checks the activity's shape, its times, and that its date
// falls inside the tour event's range
func (s *scheduleService) validateActivity(event *models.TourEvent, activity *models.Activity) error {
	if err := s.validation.ValidateStruct(activity); err != nil {
		return err
	}
	if err := s.validation.ValidateWallClock("start_time", activity.StartTime); err != nil {
		return err
	}
	if err := s.validation.ValidateWallClock("end_time", activity.EndTime); err != nil {
		return err
	}
	if activity.StartTime >= activity.EndTime {
		return &models.ValidationError{Field: "end_time", Message: "must be after start_time"}
	}

	date := activity.ActivityDate
	if date.Before(truncateToDay(event.StartDate)) || date.After(endOfDay(event.EndDate)) {
		return &models.DateRangeError{
			TourEventID:  event.ID,
			ActivityDate: date.Format("2006-01-02"),
			RangeStart:   event.StartDate.Format("2006-01-02"),
			RangeEnd:     event.EndDate.Format("2006-01-02"),
		}
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// findConflict returns the first existing activity that overlaps the candidate
// on the same calendar date, skipping the candidate itself on updates
func findConflict(existing []*models.Activity, candidate *models.Activity) *models.Activity {
	for _, other := range existing {
		if other.ID != "" && other.ID == candidate.ID {
			continue
		}
		if candidate.SameDay(other) && candidate.OverlapsTime(other) {
			return other
		}
	}
	return nil
}

// CreateActivity adds one activity to a tour event's schedule after checking
// it against every existing activity of that event
func (s *scheduleService) CreateActivity(ctx context.Context, caller *models.User, activity *models.Activity) (*models.Activity, error) {
	err := s.db.InTransaction(ctx, func(tx *gorm.DB) error {
		events := s.eventRepo.WithTx(tx)
		activities := s.activityRepo.WithTx(tx)

		event, err := events.GetByID(ctx, activity.TourEventID)
		if err != nil {
			return err
		}

		if err := s.authz.Authorize(caller, OpManageActivity, event.ProviderID, ""); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpManageActivity, activity.TourEventID)
			return err
		}

		if err := s.validateActivity(event, activity); err != nil {
			return err
		}

		existing, err := activities.ListByEvent(ctx, activity.TourEventID)
		if err != nil {
			return err
		}
		if conflict := findConflict(existing, activity); conflict != nil {
			return &models.SchedulingConflictError{
				TourEventID:     activity.TourEventID,
				ActivityName:    activity.Description,
				ConflictingName: conflict.Description,
			}
		}

		return activities.Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithTourEvent(activity.TourEventID).
		WithField("activity_id", activity.ID).
		Info("Activity created")
	return activity, nil
}

// CreateActivities adds a batch of activities atomically. The batch is checked
// against the stored schedule and against itself; one conflict rejects the
// whole batch.
func (s *scheduleService) CreateActivities(ctx context.Context, caller *models.User, tourEventID string, batch []*models.Activity) ([]*models.Activity, error) {
	if len(batch) == 0 {
		return nil, &models.ValidationError{Field: "activities", Message: "batch must not be empty"}
	}

	err := s.db.InTransaction(ctx, func(tx *gorm.DB) error {
		events := s.eventRepo.WithTx(tx)
		activities := s.activityRepo.WithTx(tx)

		event, err := events.GetByID(ctx, tourEventID)
		if err != nil {
			return err
		}

		if err := s.authz.Authorize(caller, OpManageActivity, event.ProviderID, ""); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpManageActivity, tourEventID)
			return err
		}

		existing, err := activities.ListByEvent(ctx, tourEventID)
		if err != nil {
			return err
		}

		accepted := make([]*models.Activity, 0, len(existing)+len(batch))
		accepted = append(accepted, existing...)
		for _, activity := range batch {
			activity.TourEventID = tourEventID
			if err := s.validateActivity(event, activity); err != nil {
				return err
			}
			if conflict := findConflict(accepted, activity); conflict != nil {
				return &models.SchedulingConflictError{
					TourEventID:     tourEventID,
					ActivityName:    activity.Description,
					ConflictingName: conflict.Description,
				}
			}
			accepted = append(accepted, activity)
		}

		return activities.CreateBatch(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithTourEvent(tourEventID).
		WithField("count", len(batch)).
		Info("Activity batch created")
	return batch, nil
}

// UpdateActivity reschedules an activity, re-running conflict detection
// against the rest of the event's schedule
func (s *scheduleService) UpdateActivity(ctx context.Context, caller *models.User, activity *models.Activity) (*models.Activity, error) {
	var tourEventID string
	err := s.db.InTransaction(ctx, func(tx *gorm.DB) error {
		events := s.eventRepo.WithTx(tx)
		activities := s.activityRepo.WithTx(tx)

		stored, err := activities.GetByID(ctx, activity.ID)
		if err != nil {
			return err
		}
		activity.TourEventID = stored.TourEventID
		tourEventID = stored.TourEventID

		event, err := events.GetByID(ctx, stored.TourEventID)
		if err != nil {
			return err
		}

		if err := s.authz.Authorize(caller, OpManageActivity, event.ProviderID, ""); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpManageActivity, activity.ID)
			return err
		}

		if err := s.validateActivity(event, activity); err != nil {
			return err
		}

		existing, err := activities.ListByEvent(ctx, stored.TourEventID)
		if err != nil {
			return err
		}
		if conflict := findConflict(existing, activity); conflict != nil {
			return &models.SchedulingConflictError{
				TourEventID:     stored.TourEventID,
				ActivityName:    activity.Description,
				ConflictingName: conflict.Description,
			}
		}

		return activities.Update(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithTourEvent(tourEventID).
		WithField("activity_id", activity.ID).
		Info("Activity updated")
	s.notifier.Dispatch(ctx, &NotificationEvent{
		Type:        NotificationScheduleChanged,
		TourEventID: tourEventID,
	})
	return activity, nil
}

// DeleteActivity removes one activity from a schedule
func (s *scheduleService) DeleteActivity(ctx context.Context, caller *models.User, id string) error {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	event, err := s.eventRepo.GetByID(ctx, activity.TourEventID)
	if err != nil {
		return err
	}

	if err := s.authz.Authorize(caller, OpManageActivity, event.ProviderID, ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpManageActivity, id)
		return err
	}

	if err := s.activityRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithTourEvent(activity.TourEventID).
		WithField("activity_id", id).
		Info("Activity deleted")
	s.notifier.Dispatch(ctx, &NotificationEvent{
		Type:        NotificationScheduleChanged,
		TourEventID: activity.TourEventID,
	})
	return nil
}

// ListActivities returns an event's schedule ordered by date and start time.
// Visibility follows tour event visibility, so the existence check runs
// through the caller's scoped view.
func (s *scheduleService) ListActivities(ctx context.Context, caller *models.User, tourEventID string) ([]*models.Activity, error) {
	event, err := s.eventRepo.GetByID(ctx, tourEventID)
	if err != nil {
		return nil, err
	}

	if caller.IsProviderAdmin() && event.ProviderID != caller.ProviderID {
		if err := s.authz.Authorize(caller, OpManageActivity, event.ProviderID, ""); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpManageActivity, tourEventID)
			return nil, err
		}
	}

	return s.activityRepo.ListByEvent(ctx, tourEventID)
}
