package services

import (
	"context"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"

	"gorm.io/gorm"
)

// capacityLedger implements CapacityLedger. It is a pure repair function:
// idempotent, and side-effect-free when the stored counter already matches
// the approved-registration count.
type capacityLedger struct {
	logger           *logger.Logger
	db               TxManager
	eventRepo        repositories.TourEventRepository
	registrationRepo repositories.RegistrationRepository
}

// NewCapacityLedger creates a new capacity ledger
func NewCapacityLedger(
	logger *logger.Logger,
	db TxManager,
	eventRepo repositories.TourEventRepository,
	registrationRepo repositories.RegistrationRepository,
) CapacityLedger {
	return &capacityLedger{
		logger:           logger,
		db:               db,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
	}
}

// Reconcile repairs one tour event inside its own transaction
func (l *capacityLedger) Reconcile(ctx context.Context, tourEventID string) (*models.CapacityReport, error) {
	var report *models.CapacityReport
	err := l.db.InTransaction(ctx, func(tx *gorm.DB) error {
		var txErr error
		report, txErr = l.ReconcileInTx(ctx, tx, tourEventID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ReconcileInTx recomputes the remaining-seats counter from APPROVED
// registrations inside the caller's transaction and persists a correction
// when the stored counter has drifted. Status follows the counter: FULL when
// no seats remain, back to ACTIVE when a FULL event regains a seat. DRAFT and
// CANCELLED are never overwritten.
func (l *capacityLedger) ReconcileInTx(ctx context.Context, tx *gorm.DB, tourEventID string) (*models.CapacityReport, error) {
	events := l.eventRepo.WithTx(tx)
	registrations := l.registrationRepo.WithTx(tx)

	event, err := events.GetByID(ctx, tourEventID)
	if err != nil {
		return nil, err
	}

	approvedCount, err := registrations.CountByEventAndStatus(ctx, tourEventID, models.RegistrationStatusApproved)
	if err != nil {
		return nil, err
	}

	expected := event.NumberOfAllowedTourists - int(approvedCount)
	newStatus := event.Status
	if expected <= 0 {
		if event.Status == models.TourEventStatusActive || event.Status == models.TourEventStatusFull {
			newStatus = models.TourEventStatusFull
		}
	} else if event.Status == models.TourEventStatusFull {
		newStatus = models.TourEventStatusActive
	}

	report := &models.CapacityReport{
		TourEventID:       tourEventID,
		ApprovedCount:     int(approvedCount),
		RemainingCapacity: expected,
		WasConsistent:     event.RemainingTourists == expected && event.Status == newStatus,
	}

	if report.WasConsistent {
		return report, nil
	}

	l.logger.WithTourEvent(tourEventID).
		WithField("stored_remaining", event.RemainingTourists).
		WithField("expected_remaining", expected).
		WithField("approved_count", approvedCount).
		Warn("Capacity counter drift detected, repairing")

	event.RemainingTourists = expected
	event.Status = newStatus
	if err := events.Update(ctx, event); err != nil {
		return nil, err
	}

	capacityRepairsTotal.Inc()
	return report, nil
}

// applyCapacityReport carries a reconciled counter and status onto an event
// copy read before the reconciliation ran. The ledger persists repairs through
// its own read of the row, so copies held by callers go stale and must not be
// written back as-is.
func applyCapacityReport(event *models.TourEvent, report *models.CapacityReport) {
	event.RemainingTourists = report.RemainingCapacity
	switch {
	case event.Status == models.TourEventStatusFull && report.RemainingCapacity > 0:
		event.Status = models.TourEventStatusActive
	case event.Status == models.TourEventStatusActive && report.RemainingCapacity <= 0:
		event.Status = models.TourEventStatusFull
	}
}

// ReconcileAll sweeps every tour event, repairing drifted counters. Individual
// failures are logged and do not abort the sweep.
func (l *capacityLedger) ReconcileAll(ctx context.Context) error {
	ids, err := l.eventRepo.ListIDs(ctx)
	if err != nil {
		return err
	}

	repaired := 0
	for _, id := range ids {
		report, err := l.Reconcile(ctx, id)
		if err != nil {
			l.logger.WithTourEvent(id).WithError(err).Error("Capacity sweep failed for tour event")
			continue
		}
		if !report.WasConsistent {
			repaired++
		}
	}

	l.logger.WithField("events", len(ids)).
		WithField("repaired", repaired).
		Info("Capacity sweep completed")
	return nil
}
