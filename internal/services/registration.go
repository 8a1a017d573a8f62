package services

import (
	"context"
	"time"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"

	"gorm.io/gorm"
)

// registrationService implements RegistrationService. Every state-changing
// operation locks the tour event row first, so concurrent approvals and
// cancellations against the same event serialize on the database.
type registrationService struct {
	logger           *logger.Logger
	db               TxManager
	ledger           CapacityLedger
	authz            AuthorizationService
	eventRepo        repositories.TourEventRepository
	registrationRepo repositories.RegistrationRepository
	notifier         NotificationDispatcher
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	logger *logger.Logger,
	db TxManager,
	ledger CapacityLedger,
	authz AuthorizationService,
	eventRepo repositories.TourEventRepository,
	registrationRepo repositories.RegistrationRepository,
	notifier NotificationDispatcher,
) RegistrationService {
	return &registrationService{
		logger:           logger,
		db:               db,
		ledger:           ledger,
		authz:            authz,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		notifier:         notifier,
	}
}

// Register creates a PENDING registration for the caller on an ACTIVE tour
// event. The ledger repairs the event row before the bookability decision;
// duplicate and overlap guards run inside the transaction, and the capacity
// check here is advisory only, approval remains the authoritative gate.
func (s *registrationService) Register(ctx context.Context, caller *models.User, tourEventID string) (*models.TouristRegistration, error) {
	if err := s.authz.Authorize(caller, OpRegisterForTour, "", caller.ID); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpRegisterForTour, tourEventID)
		return nil, err
	}

	var registration *models.TouristRegistration
	err := s.db.InTransaction(ctx, func(tx *gorm.DB) error {
		events := s.eventRepo.WithTx(tx)
		registrations := s.registrationRepo.WithTx(tx)

		event, err := events.GetByIDForUpdate(ctx, tourEventID)
		if err != nil {
			return err
		}

		// Repair counter drift before any decision: a FULL event whose seats
		// are actually free becomes bookable again right here.
		report, err := s.ledger.ReconcileInTx(ctx, tx, tourEventID)
		if err != nil {
			return err
		}
		applyCapacityReport(event, report)

		// A genuinely full event falls through to the capacity check below.
		if !event.IsBookable() && event.Status != models.TourEventStatusFull {
			return &models.StateTransitionError{
				Resource:      "tour event",
				ID:            tourEventID,
				CurrentState:  event.Status,
				RequiredState: models.TourEventStatusActive,
			}
		}

		existing, err := registrations.GetActiveByTouristAndEvent(ctx, caller.ID, tourEventID)
		if err != nil {
			return err
		}
		if existing != nil {
			return &models.DuplicateRegistrationError{
				TourEventID:    tourEventID,
				TouristUserID:  caller.ID,
				RegistrationID: existing.ID,
			}
		}

		overlapping, err := registrations.GetActiveOverlapping(ctx, caller.ID, event.StartDate, event.EndDate, tourEventID)
		if err != nil {
			return err
		}
		if overlapping != nil {
			conflictName := ""
			if overlapping.TourEvent != nil {
				conflictName = overlapping.TourEvent.CustomTourName
			}
			return &models.OverlapError{
				TouristUserID:        caller.ID,
				CandidateEventID:     tourEventID,
				ConflictingEventID:   overlapping.TourEventID,
				ConflictingEventName: conflictName,
			}
		}

		if report.RemainingCapacity <= 0 {
			capacityConflictsTotal.Inc()
			return &models.CapacityExceededError{
				TourEventID: tourEventID,
				Capacity:    event.NumberOfAllowedTourists,
			}
		}

		registration = &models.TouristRegistration{
			TourEventID:   tourEventID,
			TouristUserID: caller.ID,
			Status:        models.RegistrationStatusPending,
		}
		return registrations.Create(ctx, registration)
	})
	if err != nil {
		return nil, err
	}

	registrationsCreatedTotal.Inc()
	s.logger.WithRegistration(registration.ID).
		WithField("tour_event_id", tourEventID).
		WithField("user_id", caller.ID).
		Info("Registration created")
	s.notifier.Dispatch(ctx, &NotificationEvent{
		Type:           NotificationRegistrationCreated,
		RegistrationID: registration.ID,
		TourEventID:    tourEventID,
		TouristUserID:  caller.ID,
	})
	return registration, nil
}

// Approve transitions a PENDING registration to APPROVED and consumes a seat.
// The capacity check against the reconciled counter happens under the event
// row lock, so two admins approving the last seat cannot both succeed.
func (s *registrationService) Approve(ctx context.Context, caller *models.User, registrationID string) (*models.TouristRegistration, error) {
	var registration *models.TouristRegistration
	var tourEventID string

	err := s.db.InTransaction(ctx, func(tx *gorm.DB) error {
		events := s.eventRepo.WithTx(tx)
		registrations := s.registrationRepo.WithTx(tx)

		reg, err := registrations.GetByID(ctx, registrationID)
		if err != nil {
			return err
		}
		tourEventID = reg.TourEventID

		event, err := events.GetByIDForUpdate(ctx, reg.TourEventID)
		if err != nil {
			return err
		}

		if err := s.authz.Authorize(caller, OpApproveRegistration, event.ProviderID, ""); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpApproveRegistration, registrationID)
			return err
		}

		if reg.Status != models.RegistrationStatusPending {
			return &models.StateTransitionError{
				Resource:      "registration",
				ID:            registrationID,
				CurrentState:  reg.Status,
				RequiredState: models.RegistrationStatusPending,
			}
		}

		report, err := s.ledger.ReconcileInTx(ctx, tx, reg.TourEventID)
		if err != nil {
			return err
		}
		if report.RemainingCapacity <= 0 {
			capacityConflictsTotal.Inc()
			return &models.CapacityExceededError{
				TourEventID: reg.TourEventID,
				Capacity:    event.NumberOfAllowedTourists,
			}
		}

		now := time.Now().UTC()
		reg.Status = models.RegistrationStatusApproved
		reg.ApprovedByUserID = caller.ID
		reg.ApprovedAt = &now
		if err := registrations.Update(ctx, reg); err != nil {
			return err
		}

		// The locked copy predates any repair the ledger just persisted;
		// writing it back unchanged would undo that repair.
		applyCapacityReport(event, report)
		event.RemainingTourists--
		if event.RemainingTourists <= 0 && event.Status == models.TourEventStatusActive {
			event.Status = models.TourEventStatusFull
		}
		if err := events.Update(ctx, event); err != nil {
			return err
		}

		registration = reg
		return nil
	})
	if err != nil {
		return nil, err
	}

	registrationsApprovedTotal.Inc()
	s.logger.WithRegistration(registrationID).
		WithField("tour_event_id", tourEventID).
		WithField("user_id", caller.ID).
		Info("Registration approved")
	s.notifier.Dispatch(ctx, &NotificationEvent{
		Type:           NotificationRegistrationApproved,
		RegistrationID: registrationID,
		TourEventID:    tourEventID,
		TouristUserID:  registration.TouristUserID,
	})
	return registration, nil
}

// Reject transitions a PENDING registration to the terminal REJECTED state.
// A reason is required; it is stored and included in the tourist's
// notification.
func (s *registrationService) Reject(ctx context.Context, caller *models.User, registrationID, reason string) (*models.TouristRegistration, error) {
	if reason == "" {
		return nil, &models.ValidationError{Field: "reason", Message: "rejection reason is required"}
	}

	var registration *models.TouristRegistration
	var tourEventID string

	err := s.db.InTransaction(ctx, func(tx *gorm.DB) error {
		events := s.eventRepo.WithTx(tx)
		registrations := s.registrationRepo.WithTx(tx)

		reg, err := registrations.GetByID(ctx, registrationID)
		if err != nil {
			return err
		}
		tourEventID = reg.TourEventID

		event, err := events.GetByID(ctx, reg.TourEventID)
		if err != nil {
			return err
		}

		if err := s.authz.Authorize(caller, OpRejectRegistration, event.ProviderID, ""); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpRejectRegistration, registrationID)
			return err
		}

		if reg.Status != models.RegistrationStatusPending {
			return &models.StateTransitionError{
				Resource:      "registration",
				ID:            registrationID,
				CurrentState:  reg.Status,
				RequiredState: models.RegistrationStatusPending,
			}
		}

		reg.Status = models.RegistrationStatusRejected
		reg.RejectedReason = reason
		if err := registrations.Update(ctx, reg); err != nil {
			return err
		}

		registration = reg
		return nil
	})
	if err != nil {
		return nil, err
	}

	registrationsRejectedTotal.Inc()
	s.logger.WithRegistration(registrationID).
		WithField("tour_event_id", tourEventID).
		WithField("user_id", caller.ID).
		Info("Registration rejected")
	s.notifier.Dispatch(ctx, &NotificationEvent{
		Type:           NotificationRegistrationRejected,
		RegistrationID: registrationID,
		TourEventID:    tourEventID,
		TouristUserID:  registration.TouristUserID,
		Reason:         reason,
	})
	return registration, nil
}

// Cancel transitions a PENDING or APPROVED registration to the terminal
// CANCELLED state. Cancelling an APPROVED registration releases its seat and
// may flip a FULL event back to ACTIVE; the released seat is recomputed by the
// ledger rather than incremented blindly.
func (s *registrationService) Cancel(ctx context.Context, caller *models.User, registrationID string) (*models.TouristRegistration, error) {
	var registration *models.TouristRegistration
	var tourEventID string
	var wasApproved bool

	err := s.db.InTransaction(ctx, func(tx *gorm.DB) error {
		events := s.eventRepo.WithTx(tx)
		registrations := s.registrationRepo.WithTx(tx)

		reg, err := registrations.GetByID(ctx, registrationID)
		if err != nil {
			return err
		}
		tourEventID = reg.TourEventID

		event, err := events.GetByIDForUpdate(ctx, reg.TourEventID)
		if err != nil {
			return err
		}

		if err := s.authz.Authorize(caller, OpCancelRegistration, event.ProviderID, reg.TouristUserID); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpCancelRegistration, registrationID)
			return err
		}

		if reg.IsTerminal() {
			return &models.StateTransitionError{
				Resource:      "registration",
				ID:            registrationID,
				CurrentState:  reg.Status,
				RequiredState: "PENDING or APPROVED",
			}
		}

		wasApproved = reg.Status == models.RegistrationStatusApproved
		reg.Status = models.RegistrationStatusCancelled
		if err := registrations.Update(ctx, reg); err != nil {
			return err
		}

		if wasApproved {
			if _, err := s.ledger.ReconcileInTx(ctx, tx, reg.TourEventID); err != nil {
				return err
			}
		}

		registration = reg
		return nil
	})
	if err != nil {
		return nil, err
	}

	registrationsCancelledTotal.Inc()
	s.logger.WithRegistration(registrationID).
		WithField("tour_event_id", tourEventID).
		WithField("user_id", caller.ID).
		WithField("seat_released", wasApproved).
		Info("Registration cancelled")
	s.notifier.Dispatch(ctx, &NotificationEvent{
		Type:           NotificationRegistrationCancelled,
		RegistrationID: registrationID,
		TourEventID:    tourEventID,
		TouristUserID:  registration.TouristUserID,
	})
	return registration, nil
}

// ListForEvent returns an event's registrations scoped to the caller: admins
// see all of them, a tourist sees only their own rows.
func (s *registrationService) ListForEvent(ctx context.Context, caller *models.User, tourEventID string) ([]*models.TouristRegistration, error) {
	event, err := s.eventRepo.GetByID(ctx, tourEventID)
	if err != nil {
		return nil, err
	}

	if caller.IsTourist() {
		return s.registrationRepo.ListByEventAndTourist(ctx, tourEventID, caller.ID)
	}

	if err := s.authz.Authorize(caller, OpViewRegistrations, event.ProviderID, ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpViewRegistrations, tourEventID)
		return nil, err
	}
	return s.registrationRepo.ListByEvent(ctx, tourEventID)
}

// ListForTourist returns one tourist's registration history. A provider admin
// sees only the rows against their own provider's events.
func (s *registrationService) ListForTourist(ctx context.Context, caller *models.User, touristUserID string) ([]*models.TouristRegistration, error) {
	if caller.IsTourist() {
		if err := s.authz.Authorize(caller, OpViewRegistrations, "", touristUserID); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpViewRegistrations, touristUserID)
			return nil, err
		}
	}

	registrations, err := s.registrationRepo.ListByTourist(ctx, touristUserID)
	if err != nil {
		return nil, err
	}

	if caller.IsProviderAdmin() {
		scoped := make([]*models.TouristRegistration, 0, len(registrations))
		for _, reg := range registrations {
			if reg.TourEvent != nil && reg.TourEvent.ProviderID == caller.ProviderID {
				scoped = append(scoped, reg)
			}
		}
		return scoped, nil
	}
	return registrations, nil
}
