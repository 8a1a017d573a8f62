package services

import (
	"context"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"

	"gorm.io/gorm"
)

// tourEventStatusTransitions maps each tour event status to the statuses an
// admin may move it to. FULL is excluded on purpose: it is derived from the
// seat counter, never set by hand.
var tourEventStatusTransitions = map[string][]string{
	models.TourEventStatusDraft:  {models.TourEventStatusActive, models.TourEventStatusCancelled},
	models.TourEventStatusActive: {models.TourEventStatusCancelled},
	models.TourEventStatusFull:   {models.TourEventStatusCancelled},
}

// tourEventService implements TourEventService
type tourEventService struct {
	logger           *logger.Logger
	db               TxManager
	ledger           CapacityLedger
	authz            AuthorizationService
	validation       *models.ValidationService
	eventRepo        repositories.TourEventRepository
	registrationRepo repositories.RegistrationRepository
	templateRepo     repositories.TourTemplateRepository
	cache            *CacheService
	notifier         NotificationDispatcher
}

// NewTourEventService creates a new tour event service
func NewTourEventService(
	logger *logger.Logger,
	db TxManager,
	ledger CapacityLedger,
	authz AuthorizationService,
	validation *models.ValidationService,
	eventRepo repositories.TourEventRepository,
	registrationRepo repositories.RegistrationRepository,
	templateRepo repositories.TourTemplateRepository,
	cache *CacheService,
	notifier NotificationDispatcher,
) TourEventService {
	return &tourEventService{
		logger:           logger,
		db:               db,
		ledger:           ledger,
		authz:            authz,
		validation:       validation,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		templateRepo:     templateRepo,
		cache:            cache,
		notifier:         notifier,
	}
}

// Create creates a tour event in DRAFT with a full complement of seats. A
// provider admin always creates under their own provider.
func (s *tourEventService) Create(ctx context.Context, caller *models.User, event *models.TourEvent) (*models.TourEvent, error) {
	if caller.IsProviderAdmin() {
		event.ProviderID = caller.ProviderID
	}

	if err := s.authz.Authorize(caller, OpCreateTourEvent, event.ProviderID, ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpCreateTourEvent, event.ProviderID)
		return nil, err
	}

	if err := s.validation.ValidateStruct(event); err != nil {
		return nil, err
	}
	if err := s.validation.ValidateDateOrder(event.StartDate, event.EndDate); err != nil {
		return nil, err
	}

	if event.TemplateID != "" {
		if _, err := s.templateRepo.GetByID(ctx, event.TemplateID); err != nil {
			return nil, err
		}
	}

	event.Status = models.TourEventStatusDraft
	event.RemainingTourists = event.NumberOfAllowedTourists
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.cache.InvalidateTourEvents(ctx)
	s.logger.WithTourEvent(event.ID).
		WithField("provider_id", event.ProviderID).
		Info("Tour event created")
	return event, nil
}

// Get returns one tour event if the caller's scope allows seeing it
func (s *tourEventService) Get(ctx context.Context, caller *models.User, id string) (*models.TourEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case caller.IsSystemAdmin():
		return event, nil
	case caller.IsProviderAdmin():
		if event.ProviderID == caller.ProviderID {
			return event, nil
		}
	default:
		if event.Status == models.TourEventStatusActive || event.Status == models.TourEventStatusFull {
			return event, nil
		}
		reg, err := s.registrationRepo.GetActiveByTouristAndEvent(ctx, caller.ID, id)
		if err != nil {
			return nil, err
		}
		if reg != nil {
			return event, nil
		}
	}

	s.authz.LogSecurityViolation(ctx, caller, OpViewRegistrations, id)
	return nil, models.NewNotFoundError("tour event", id)
}

// List returns the tour events visible to the caller. Listings are cached
// per scope key and invalidated on any event mutation.
func (s *tourEventService) List(ctx context.Context, caller *models.User) ([]*models.TourEvent, error) {
	filter := s.authz.ScopeTourEvents(caller)
	scope := listScopeKey(caller, filter)

	var cached []*models.TourEvent
	if s.cache.GetTourEvents(ctx, scope, &cached) {
		return cached, nil
	}

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cache.SetTourEvents(ctx, scope, events)
	return events, nil
}

// listScopeKey derives the cache key segment for a caller's scoped view.
// Tourist views include the user id because registrations widen them.
func listScopeKey(caller *models.User, filter repositories.TourEventFilter) string {
	switch {
	case filter.VisibleToTouristID != "":
		return "tourist:" + filter.VisibleToTouristID
	case filter.ProviderID != "":
		return "provider:" + filter.ProviderID
	default:
		return "all"
	}
}

// Update modifies a tour event's descriptive fields. Capacity and status have
// dedicated operations and are preserved here.
func (s *tourEventService) Update(ctx context.Context, caller *models.User, event *models.TourEvent) (*models.TourEvent, error) {
	var updated *models.TourEvent
	err := s.db.InTransaction(ctx, func(tx *gorm.DB) error {
		events := s.eventRepo.WithTx(tx)

		stored, err := events.GetByIDForUpdate(ctx, event.ID)
		if err != nil {
			return err
		}

		if err := s.authz.Authorize(caller, OpUpdateTourEvent, stored.ProviderID, ""); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpUpdateTourEvent, event.ID)
			return err
		}

		if err := s.validation.ValidateDateOrder(event.StartDate, event.EndDate); err != nil {
			return err
		}

		stored.CustomTourName = event.CustomTourName
		stored.StartDate = event.StartDate
		stored.EndDate = event.EndDate
		stored.Place1Hotel = event.Place1Hotel
		stored.Place2Hotel = event.Place2Hotel
		if err := s.validation.ValidateStruct(stored); err != nil {
			return err
		}
		if err := events.Update(ctx, stored); err != nil {
			return err
		}

		updated = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateTourEvents(ctx)
	s.logger.WithTourEvent(event.ID).Info("Tour event updated")
	return updated, nil
}

// UpdateStatus moves a tour event along its lifecycle. Cancelling notifies
// every tourist holding an active registration.
func (s *tourEventService) UpdateStatus(ctx context.Context, caller *models.User, id, status string) (*models.TourEvent, error) {
	var updated *models.TourEvent
	var notify []*models.TouristRegistration

	err := s.db.InTransaction(ctx, func(tx *gorm.DB) error {
		events := s.eventRepo.WithTx(tx)
		registrations := s.registrationRepo.WithTx(tx)

		stored, err := events.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := s.authz.Authorize(caller, OpUpdateTourEvent, stored.ProviderID, ""); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpUpdateTourEvent, id)
			return err
		}

		if !statusTransitionAllowed(stored.Status, status) {
			return &models.StateTransitionError{
				Resource:      "tour event",
				ID:            id,
				CurrentState:  stored.Status,
				RequiredState: status,
			}
		}

		stored.Status = status
		if err := events.Update(ctx, stored); err != nil {
			return err
		}

		if status == models.TourEventStatusActive {
			// Activation re-derives the counter in case approvals happened
			// while the event sat in DRAFT through direct data fixes.
			if _, err := s.ledger.ReconcileInTx(ctx, tx, id); err != nil {
				return err
			}
		}

		if status == models.TourEventStatusCancelled {
			all, err := registrations.ListByEvent(ctx, id)
			if err != nil {
				return err
			}
			for _, reg := range all {
				if reg.IsActive() {
					notify = append(notify, reg)
				}
			}
		}

		updated = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateTourEvents(ctx)
	s.logger.WithTourEvent(id).
		WithField("status", status).
		Info("Tour event status updated")
	for _, reg := range notify {
		s.notifier.Dispatch(ctx, &NotificationEvent{
			Type:           NotificationTourEventCancelled,
			RegistrationID: reg.ID,
			TourEventID:    id,
			TouristUserID:  reg.TouristUserID,
		})
	}
	return updated, nil
}

// UpdateCapacity changes the seat limit. Reductions below the number of
// already-approved registrations are refused; the remaining counter is
// re-derived from the new limit.
func (s *tourEventService) UpdateCapacity(ctx context.Context, caller *models.User, id string, newLimit int) (*models.TourEvent, error) {
	var updated *models.TourEvent
	err := s.db.InTransaction(ctx, func(tx *gorm.DB) error {
		events := s.eventRepo.WithTx(tx)
		registrations := s.registrationRepo.WithTx(tx)

		stored, err := events.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := s.authz.Authorize(caller, OpUpdateTourEvent, stored.ProviderID, ""); err != nil {
			s.authz.LogSecurityViolation(ctx, caller, OpUpdateTourEvent, id)
			return err
		}

		approved, err := registrations.CountByEventAndStatus(ctx, id, models.RegistrationStatusApproved)
		if err != nil {
			return err
		}
		// The approved-count comparison comes first so that cutting below
		// existing approvals always reports the reduction conflict, even
		// when the requested limit also fails the floor.
		if newLimit < int(approved) {
			return &models.CapacityReductionError{
				TourEventID:   id,
				RequestedCap:  newLimit,
				ApprovedCount: int(approved),
			}
		}
		if newLimit < 1 {
			return &models.ValidationError{Field: "number_of_allowed_tourists", Message: "must be at least 1"}
		}

		stored.NumberOfAllowedTourists = newLimit
		if err := events.Update(ctx, stored); err != nil {
			return err
		}
		if _, err := s.ledger.ReconcileInTx(ctx, tx, id); err != nil {
			return err
		}

		updated, err = events.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateTourEvents(ctx)
	s.logger.WithTourEvent(id).
		WithField("capacity", newLimit).
		Info("Tour event capacity updated")
	return updated, nil
}

// Delete removes a tour event that never received a registration. Events with
// registration history are cancelled instead so the history survives.
func (s *tourEventService) Delete(ctx context.Context, caller *models.User, id string) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authz.Authorize(caller, OpDeleteTourEvent, event.ProviderID, ""); err != nil {
		s.authz.LogSecurityViolation(ctx, caller, OpDeleteTourEvent, id)
		return err
	}

	hasRegistrations, err := s.eventRepo.HasRegistrations(ctx, id)
	if err != nil {
		return err
	}
	if hasRegistrations {
		return &models.StateTransitionError{
			Resource:      "tour event",
			ID:            id,
			CurrentState:  "registered",
			RequiredState: "without registrations",
		}
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.InvalidateTourEvents(ctx)
	s.logger.WithTourEvent(id).Info("Tour event deleted")
	return nil
}

func statusTransitionAllowed(from, to string) bool {
	for _, allowed := range tourEventStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
