package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tourist-hub-api/internal/models"
)

func testTourist(id string) *models.User {
	return &models.User{ID: id, Role: models.RoleTourist, IsActive: true}
}

func testProviderAdmin(providerID string) *models.User {
	return &models.User{ID: "admin-" + providerID, ProviderID: providerID, Role: models.RoleProviderAdmin, IsActive: true}
}

func testSystemAdmin() *models.User {
	return &models.User{ID: "sysadmin-1", Role: models.RoleSystemAdmin, IsActive: true}
}

func testActiveEvent(id, providerID string, capacity, remaining int) *models.TourEvent {
	return &models.TourEvent{
		ID:                      id,
		ProviderID:              providerID,
		CustomTourName:          "Coastal Route",
		StartDate:               time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:                 time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		NumberOfAllowedTourists: capacity,
		RemainingTourists:       remaining,
		Status:                  models.TourEventStatusActive,
	}
}

type registrationFixture struct {
	svc        RegistrationService
	eventRepo  *MockTourEventRepository
	regRepo    *MockRegistrationRepository
	dispatcher *recordingDispatcher
}

func newRegistrationFixture() *registrationFixture {
	eventRepo := &MockTourEventRepository{}
	regRepo := &MockRegistrationRepository{}
	dispatcher := &recordingDispatcher{}
	log := createTestLogger()
	ledger := NewCapacityLedger(log, stubTxManager{}, eventRepo, regRepo)
	authz := NewAuthorizationService(log)

	svc := NewRegistrationService(log, stubTxManager{}, ledger, authz, eventRepo, regRepo, dispatcher)
	return &registrationFixture{svc: svc, eventRepo: eventRepo, regRepo: regRepo, dispatcher: dispatcher}
}

func TestRegister_CreatesPendingRegistration(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	tourist := testTourist("tourist-1")
	event := testActiveEvent("event-1", "provider-1", 2, 1)

	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)
	f.regRepo.On("GetActiveByTouristAndEvent", ctx, "tourist-1", "event-1").Return(nil, nil)
	f.regRepo.On("GetActiveOverlapping", ctx, "tourist-1", event.StartDate, event.EndDate, "event-1").Return(nil, nil)
	f.eventRepo.On("GetByID", ctx, "event-1").Return(event, nil)
	f.regRepo.On("CountByEventAndStatus", ctx, "event-1", models.RegistrationStatusApproved).Return(int64(1), nil)
	f.regRepo.On("Create", ctx, mock.AnythingOfType("*models.TouristRegistration")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.TouristRegistration).ID = "reg-1"
	}).Return(nil)

	reg, err := f.svc.Register(ctx, tourist, "event-1")

	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusPending, reg.Status)
	assert.Equal(t, "tourist-1", reg.TouristUserID)
	assert.Equal(t, "event-1", reg.TourEventID)

	events := f.dispatcher.dispatched()
	require.Len(t, events, 1)
	assert.Equal(t, NotificationRegistrationCreated, events[0].Type)
	assert.Equal(t, "tourist-1", events[0].TouristUserID)
}

func TestRegister_RejectsDuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	tourist := testTourist("tourist-1")
	event := testActiveEvent("event-1", "provider-1", 2, 2)

	existing := &models.TouristRegistration{
		ID:            "reg-existing",
		TourEventID:   "event-1",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusPending,
	}
	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)
	f.eventRepo.On("GetByID", ctx, "event-1").Return(event, nil)
	f.regRepo.On("CountByEventAndStatus", ctx, "event-1", models.RegistrationStatusApproved).Return(int64(0), nil)
	f.regRepo.On("GetActiveByTouristAndEvent", ctx, "tourist-1", "event-1").Return(existing, nil)

	_, err := f.svc.Register(ctx, tourist, "event-1")

	var dupErr *models.DuplicateRegistrationError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "reg-existing", dupErr.RegistrationID)
	f.regRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_RejectsOverlappingBooking(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	tourist := testTourist("tourist-1")
	event := testActiveEvent("event-1", "provider-1", 2, 2)

	conflicting := &models.TouristRegistration{
		ID:            "reg-other",
		TourEventID:   "event-2",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusApproved,
		TourEvent:     testActiveEvent("event-2", "provider-2", 5, 5),
	}
	conflicting.TourEvent.CustomTourName = "Mountain Trek"

	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)
	f.eventRepo.On("GetByID", ctx, "event-1").Return(event, nil)
	f.regRepo.On("CountByEventAndStatus", ctx, "event-1", models.RegistrationStatusApproved).Return(int64(0), nil)
	f.regRepo.On("GetActiveByTouristAndEvent", ctx, "tourist-1", "event-1").Return(nil, nil)
	f.regRepo.On("GetActiveOverlapping", ctx, "tourist-1", event.StartDate, event.EndDate, "event-1").Return(conflicting, nil)

	_, err := f.svc.Register(ctx, tourist, "event-1")

	var overlapErr *models.OverlapError
	require.ErrorAs(t, err, &overlapErr)
	assert.Equal(t, "event-2", overlapErr.ConflictingEventID)
	assert.Equal(t, "Mountain Trek", overlapErr.ConflictingEventName)
	f.regRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_RejectsNonBookableEvent(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	tourist := testTourist("tourist-1")
	event := testActiveEvent("event-1", "provider-1", 2, 2)
	event.Status = models.TourEventStatusDraft

	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)
	f.eventRepo.On("GetByID", ctx, "event-1").Return(event, nil)
	f.regRepo.On("CountByEventAndStatus", ctx, "event-1", models.RegistrationStatusApproved).Return(int64(0), nil)

	_, err := f.svc.Register(ctx, tourist, "event-1")

	var stateErr *models.StateTransitionError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.TourEventStatusDraft, stateErr.CurrentState)
}

func TestRegister_RejectsFullEvent(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	tourist := testTourist("tourist-1")
	event := testActiveEvent("event-1", "provider-1", 1, 0)

	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)
	f.regRepo.On("GetActiveByTouristAndEvent", ctx, "tourist-1", "event-1").Return(nil, nil)
	f.regRepo.On("GetActiveOverlapping", ctx, "tourist-1", event.StartDate, event.EndDate, "event-1").Return(nil, nil)
	f.eventRepo.On("GetByID", ctx, "event-1").Return(event, nil)
	f.regRepo.On("CountByEventAndStatus", ctx, "event-1", models.RegistrationStatusApproved).Return(int64(1), nil)
	// The ledger repairs the stale ACTIVE status to FULL while checking.
	f.eventRepo.On("Update", ctx, event).Return(nil)

	_, err := f.svc.Register(ctx, tourist, "event-1")

	var capErr *models.CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	f.regRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_ReopensDriftedFullEvent(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	tourist := testTourist("tourist-1")

	// Stored row drifted to FULL although only one of three seats is taken.
	locked := testActiveEvent("event-1", "provider-1", 3, 0)
	locked.Status = models.TourEventStatusFull
	fresh := *locked

	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(locked, nil)
	// The ledger reads its own copy of the row, as a second SELECT would.
	f.eventRepo.On("GetByID", ctx, "event-1").Return(&fresh, nil)
	f.regRepo.On("CountByEventAndStatus", ctx, "event-1", models.RegistrationStatusApproved).Return(int64(1), nil)
	f.eventRepo.On("Update", ctx, &fresh).Return(nil)
	f.regRepo.On("GetActiveByTouristAndEvent", ctx, "tourist-1", "event-1").Return(nil, nil)
	f.regRepo.On("GetActiveOverlapping", ctx, "tourist-1", locked.StartDate, locked.EndDate, "event-1").Return(nil, nil)
	f.regRepo.On("Create", ctx, mock.AnythingOfType("*models.TouristRegistration")).Return(nil)

	reg, err := f.svc.Register(ctx, tourist, "event-1")

	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusPending, reg.Status)

	// The drift repair reopened the event instead of rejecting the tourist.
	assert.Equal(t, models.TourEventStatusActive, fresh.Status)
	assert.Equal(t, 2, fresh.RemainingTourists)
}

func TestRegister_OnlyTouristsMayRegister(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()

	_, err := f.svc.Register(ctx, testProviderAdmin("provider-1"), "event-1")

	var permErr *models.InsufficientPermissionsError
	require.ErrorAs(t, err, &permErr)
	f.eventRepo.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
}

func TestApprove_ConsumesSeatAndFlipsEventFull(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	admin := testProviderAdmin("provider-1")
	event := testActiveEvent("event-1", "provider-1", 2, 1)
	reg := &models.TouristRegistration{
		ID:            "reg-1",
		TourEventID:   "event-1",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusPending,
	}

	f.regRepo.On("GetByID", ctx, "reg-1").Return(reg, nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)
	f.eventRepo.On("GetByID", ctx, "event-1").Return(event, nil)
	f.regRepo.On("CountByEventAndStatus", ctx, "event-1", models.RegistrationStatusApproved).Return(int64(1), nil)
	f.regRepo.On("Update", ctx, reg).Return(nil)
	f.eventRepo.On("Update", ctx, event).Return(nil)

	approved, err := f.svc.Approve(ctx, admin, "reg-1")

	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusApproved, approved.Status)
	assert.Equal(t, admin.ID, approved.ApprovedByUserID)
	require.NotNil(t, approved.ApprovedAt)

	// The last seat was consumed, so the event flips to FULL.
	assert.Equal(t, 0, event.RemainingTourists)
	assert.Equal(t, models.TourEventStatusFull, event.Status)

	events := f.dispatcher.dispatched()
	require.Len(t, events, 1)
	assert.Equal(t, NotificationRegistrationApproved, events[0].Type)
}

func TestApprove_PreservesLedgerRepairOnDriftedEvent(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	admin := testProviderAdmin("provider-1")

	// Stored row drifted to FULL although only one of three seats is taken.
	locked := testActiveEvent("event-1", "provider-1", 3, 0)
	locked.Status = models.TourEventStatusFull
	fresh := *locked
	reg := &models.TouristRegistration{
		ID:            "reg-1",
		TourEventID:   "event-1",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusPending,
	}

	var saved []models.TourEvent
	f.regRepo.On("GetByID", ctx, "reg-1").Return(reg, nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(locked, nil)
	// The ledger reads its own copy of the row, as a second SELECT would.
	f.eventRepo.On("GetByID", ctx, "event-1").Return(&fresh, nil)
	f.regRepo.On("CountByEventAndStatus", ctx, "event-1", models.RegistrationStatusApproved).Return(int64(1), nil)
	f.regRepo.On("Update", ctx, reg).Return(nil)
	f.eventRepo.On("Update", ctx, mock.AnythingOfType("*models.TourEvent")).Run(func(args mock.Arguments) {
		saved = append(saved, *args.Get(1).(*models.TourEvent))
	}).Return(nil)

	approved, err := f.svc.Approve(ctx, admin, "reg-1")

	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusApproved, approved.Status)

	// The repaired counter minus the consumed seat wins over the stale copy
	// read before the repair; no write may leave FULL with seats free.
	require.NotEmpty(t, saved)
	final := saved[len(saved)-1]
	assert.Equal(t, models.TourEventStatusActive, final.Status)
	assert.Equal(t, 1, final.RemainingTourists)
	for _, e := range saved {
		if e.Status == models.TourEventStatusFull {
			assert.LessOrEqual(t, e.RemainingTourists, 0)
		}
	}
}

func TestApprove_RejectsWhenNoSeatsRemain(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	admin := testSystemAdmin()
	event := testActiveEvent("event-1", "provider-1", 2, 0)
	event.Status = models.TourEventStatusFull
	reg := &models.TouristRegistration{
		ID:            "reg-1",
		TourEventID:   "event-1",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusPending,
	}

	f.regRepo.On("GetByID", ctx, "reg-1").Return(reg, nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)
	f.eventRepo.On("GetByID", ctx, "event-1").Return(event, nil)
	f.regRepo.On("CountByEventAndStatus", ctx, "event-1", models.RegistrationStatusApproved).Return(int64(2), nil)

	_, err := f.svc.Approve(ctx, admin, "reg-1")

	var capErr *models.CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, models.RegistrationStatusPending, reg.Status)
	f.regRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestApprove_RequiresPendingStatus(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	event := testActiveEvent("event-1", "provider-1", 2, 1)
	reg := &models.TouristRegistration{
		ID:            "reg-1",
		TourEventID:   "event-1",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusCancelled,
	}

	f.regRepo.On("GetByID", ctx, "reg-1").Return(reg, nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)

	_, err := f.svc.Approve(ctx, testSystemAdmin(), "reg-1")

	var stateErr *models.StateTransitionError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.RegistrationStatusCancelled, stateErr.CurrentState)
	assert.Equal(t, models.RegistrationStatusPending, stateErr.RequiredState)
}

func TestApprove_DeniesForeignProviderAdmin(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	event := testActiveEvent("event-1", "provider-1", 2, 1)
	reg := &models.TouristRegistration{
		ID:            "reg-1",
		TourEventID:   "event-1",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusPending,
	}

	f.regRepo.On("GetByID", ctx, "reg-1").Return(reg, nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)

	_, err := f.svc.Approve(ctx, testProviderAdmin("provider-2"), "reg-1")

	var permErr *models.InsufficientPermissionsError
	require.ErrorAs(t, err, &permErr)
	f.regRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReject_RequiresReason(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()

	_, err := f.svc.Reject(ctx, testSystemAdmin(), "reg-1", "")

	var valErr *models.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "reason", valErr.Field)
	f.regRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestReject_StoresReasonAndNotifiesTourist(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	event := testActiveEvent("event-1", "provider-1", 2, 1)
	reg := &models.TouristRegistration{
		ID:            "reg-1",
		TourEventID:   "event-1",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusPending,
	}

	f.regRepo.On("GetByID", ctx, "reg-1").Return(reg, nil)
	f.eventRepo.On("GetByID", ctx, "event-1").Return(event, nil)
	f.regRepo.On("Update", ctx, reg).Return(nil)

	rejected, err := f.svc.Reject(ctx, testProviderAdmin("provider-1"), "reg-1", "group already booked")

	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusRejected, rejected.Status)
	assert.Equal(t, "group already booked", rejected.RejectedReason)

	events := f.dispatcher.dispatched()
	require.Len(t, events, 1)
	assert.Equal(t, NotificationRegistrationRejected, events[0].Type)
	assert.Equal(t, "group already booked", events[0].Reason)
}

func TestCancel_ApprovedRegistrationReleasesSeat(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	tourist := testTourist("tourist-1")
	event := testActiveEvent("event-1", "provider-1", 2, 0)
	event.Status = models.TourEventStatusFull
	reg := &models.TouristRegistration{
		ID:            "reg-1",
		TourEventID:   "event-1",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusApproved,
	}

	f.regRepo.On("GetByID", ctx, "reg-1").Return(reg, nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)
	f.regRepo.On("Update", ctx, reg).Return(nil)
	// After the cancellation only one approval remains.
	f.eventRepo.On("GetByID", ctx, "event-1").Return(event, nil)
	f.regRepo.On("CountByEventAndStatus", ctx, "event-1", models.RegistrationStatusApproved).Return(int64(1), nil)
	f.eventRepo.On("Update", ctx, event).Return(nil)

	cancelled, err := f.svc.Cancel(ctx, tourist, "reg-1")

	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusCancelled, cancelled.Status)

	// The released seat reopens the FULL event.
	assert.Equal(t, 1, event.RemainingTourists)
	assert.Equal(t, models.TourEventStatusActive, event.Status)
}

func TestCancel_PendingRegistrationSkipsLedger(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	tourist := testTourist("tourist-1")
	event := testActiveEvent("event-1", "provider-1", 2, 2)
	reg := &models.TouristRegistration{
		ID:            "reg-1",
		TourEventID:   "event-1",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusPending,
	}

	f.regRepo.On("GetByID", ctx, "reg-1").Return(reg, nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)
	f.regRepo.On("Update", ctx, reg).Return(nil)

	cancelled, err := f.svc.Cancel(ctx, tourist, "reg-1")

	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusCancelled, cancelled.Status)
	f.regRepo.AssertNotCalled(t, "CountByEventAndStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_DeniesOtherTourist(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	event := testActiveEvent("event-1", "provider-1", 2, 2)
	reg := &models.TouristRegistration{
		ID:            "reg-1",
		TourEventID:   "event-1",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusPending,
	}

	f.regRepo.On("GetByID", ctx, "reg-1").Return(reg, nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)

	_, err := f.svc.Cancel(ctx, testTourist("tourist-2"), "reg-1")

	var permErr *models.InsufficientPermissionsError
	require.ErrorAs(t, err, &permErr)
	f.regRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCancel_RejectsTerminalRegistration(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	event := testActiveEvent("event-1", "provider-1", 2, 2)
	reg := &models.TouristRegistration{
		ID:            "reg-1",
		TourEventID:   "event-1",
		TouristUserID: "tourist-1",
		Status:        models.RegistrationStatusRejected,
	}

	f.regRepo.On("GetByID", ctx, "reg-1").Return(reg, nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, "event-1").Return(event, nil)

	_, err := f.svc.Cancel(ctx, testTourist("tourist-1"), "reg-1")

	var stateErr *models.StateTransitionError
	require.ErrorAs(t, err, &stateErr)
}

func TestListForTourist_ScopesProviderAdminToOwnTenant(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	admin := testProviderAdmin("provider-1")

	regs := []*models.TouristRegistration{
		{
			ID:          "reg-1",
			TourEventID: "event-1",
			Status:      models.RegistrationStatusApproved,
			TourEvent:   testActiveEvent("event-1", "provider-1", 5, 4),
		},
		{
			ID:          "reg-2",
			TourEventID: "event-2",
			Status:      models.RegistrationStatusPending,
			TourEvent:   testActiveEvent("event-2", "provider-2", 5, 5),
		},
	}
	f.regRepo.On("ListByTourist", ctx, "tourist-1").Return(regs, nil)

	visible, err := f.svc.ListForTourist(ctx, admin, "tourist-1")

	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "reg-1", visible[0].ID)
}

func TestListForTourist_TouristSeesOnlyOwnHistory(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()

	_, err := f.svc.ListForTourist(ctx, testTourist("tourist-1"), "tourist-2")

	var permErr *models.InsufficientPermissionsError
	require.ErrorAs(t, err, &permErr)
	f.regRepo.AssertNotCalled(t, "ListByTourist", mock.Anything, mock.Anything)
}
