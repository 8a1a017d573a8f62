package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTourEvent_DatesOverlap(t *testing.T) {
	event := &TourEvent{
		StartDate: date(2026, 9, 10),
		EndDate:   date(2026, 9, 14),
	}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		overlaps bool
	}{
		{"fully inside", date(2026, 9, 11), date(2026, 9, 12), true},
		{"fully covering", date(2026, 9, 1), date(2026, 9, 30), true},
		{"partial at start", date(2026, 9, 8), date(2026, 9, 10), true},
		{"partial at end", date(2026, 9, 14), date(2026, 9, 20), true},
		{"shared single day counts", date(2026, 9, 14), date(2026, 9, 14), true},
		{"entirely before", date(2026, 9, 1), date(2026, 9, 9), false},
		{"entirely after", date(2026, 9, 15), date(2026, 9, 20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, event.DatesOverlap(tt.start, tt.end))
		})
	}
}

func TestTourEvent_IsBookable(t *testing.T) {
	assert.True(t, (&TourEvent{Status: TourEventStatusActive}).IsBookable())
	assert.False(t, (&TourEvent{Status: TourEventStatusDraft}).IsBookable())
	assert.False(t, (&TourEvent{Status: TourEventStatusFull}).IsBookable())
	assert.False(t, (&TourEvent{Status: TourEventStatusCancelled}).IsBookable())
}

func TestActivity_OverlapsTime(t *testing.T) {
	base := &Activity{StartTime: "09:00", EndTime: "11:00"}

	tests := []struct {
		name     string
		start    string
		end      string
		overlaps bool
	}{
		{"identical interval", "09:00", "11:00", true},
		{"starts inside", "10:00", "12:00", true},
		{"ends inside", "08:00", "10:00", true},
		{"covers whole interval", "08:00", "12:00", true},
		{"back to back after", "11:00", "12:00", false},
		{"back to back before", "08:00", "09:00", false},
		{"well before", "06:00", "07:00", false},
		{"well after", "13:00", "15:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := &Activity{StartTime: tt.start, EndTime: tt.end}
			assert.Equal(t, tt.overlaps, base.OverlapsTime(other))
			assert.Equal(t, tt.overlaps, other.OverlapsTime(base))
		})
	}
}

func TestActivity_SameDay(t *testing.T) {
	a := &Activity{ActivityDate: date(2026, 9, 10)}
	sameDay := &Activity{ActivityDate: time.Date(2026, 9, 10, 15, 30, 0, 0, time.UTC)}
	nextDay := &Activity{ActivityDate: date(2026, 9, 11)}

	assert.True(t, a.SameDay(sameDay))
	assert.False(t, a.SameDay(nextDay))
}

func TestTouristRegistration_StatusPredicates(t *testing.T) {
	assert.True(t, (&TouristRegistration{Status: RegistrationStatusPending}).IsActive())
	assert.True(t, (&TouristRegistration{Status: RegistrationStatusApproved}).IsActive())
	assert.False(t, (&TouristRegistration{Status: RegistrationStatusRejected}).IsActive())
	assert.False(t, (&TouristRegistration{Status: RegistrationStatusCancelled}).IsActive())

	assert.True(t, (&TouristRegistration{Status: RegistrationStatusRejected}).IsTerminal())
	assert.True(t, (&TouristRegistration{Status: RegistrationStatusCancelled}).IsTerminal())
	assert.False(t, (&TouristRegistration{Status: RegistrationStatusPending}).IsTerminal())
	assert.False(t, (&TouristRegistration{Status: RegistrationStatusApproved}).IsTerminal())
}

func TestUser_RolePredicates(t *testing.T) {
	sysAdmin := &User{Role: RoleSystemAdmin}
	providerAdmin := &User{Role: RoleProviderAdmin}
	tourist := &User{Role: RoleTourist}

	assert.True(t, sysAdmin.IsSystemAdmin())
	assert.True(t, sysAdmin.IsAdmin())
	assert.False(t, sysAdmin.IsTourist())

	assert.True(t, providerAdmin.IsProviderAdmin())
	assert.True(t, providerAdmin.IsAdmin())

	assert.True(t, tourist.IsTourist())
	assert.False(t, tourist.IsAdmin())
}

func TestValidationService_ValidateWallClock(t *testing.T) {
	vs := NewValidationService()

	assert.NoError(t, vs.ValidateWallClock("start_time", "00:00"))
	assert.NoError(t, vs.ValidateWallClock("start_time", "23:59"))

	for _, bad := range []string{"24:00", "9:5", "12:60", "noon", ""} {
		err := vs.ValidateWallClock("start_time", bad)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr, "value %q", bad)
		assert.Equal(t, "start_time", valErr.Field)
	}
}

func TestValidationService_ValidateDateOrder(t *testing.T) {
	vs := NewValidationService()

	assert.NoError(t, vs.ValidateDateOrder(date(2026, 9, 10), date(2026, 9, 14)))
	assert.NoError(t, vs.ValidateDateOrder(date(2026, 9, 10), date(2026, 9, 10)))

	err := vs.ValidateDateOrder(date(2026, 9, 14), date(2026, 9, 10))
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestValidationService_ValidateStructUsesJSONFieldNames(t *testing.T) {
	vs := NewValidationService()

	event := &TourEvent{
		ProviderID:              "provider-1",
		StartDate:               date(2026, 9, 10),
		EndDate:                 date(2026, 9, 14),
		NumberOfAllowedTourists: 5,
	}

	err := vs.ValidateStruct(event)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "custom_tour_name", valErr.Field)
}
