package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tour event statuses. FULL is derived from the remaining-seats counter and is
// never set independently outside the capacity ledger and approval path.
const (
	TourEventStatusDraft     = "DRAFT"
	TourEventStatusActive    = "ACTIVE"
	TourEventStatusFull      = "FULL"
	TourEventStatusCancelled = "CANCELLED"
)

// TourEvent is a bookable, scheduled run of a tour operated by one provider.
// RemainingTourists is a cached counter; the authoritative value is
// NumberOfAllowedTourists minus the count of APPROVED registrations, and the
// capacity ledger repairs any drift between the two.
type TourEvent struct {
	ID                      string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProviderID              string    `json:"provider_id" gorm:"type:uuid;not null;index" validate:"required"`
	TemplateID              string    `json:"template_id,omitempty" gorm:"type:uuid;index"`
	CustomTourName          string    `json:"custom_tour_name" gorm:"not null" validate:"required,min=1,max=255"`
	StartDate               time.Time `json:"start_date" gorm:"not null;index" validate:"required"`
	EndDate                 time.Time `json:"end_date" gorm:"not null;index" validate:"required"`
	Place1Hotel             string    `json:"place1_hotel" gorm:"size:255"`
	Place2Hotel             string    `json:"place2_hotel" gorm:"size:255"`
	NumberOfAllowedTourists int       `json:"number_of_allowed_tourists" gorm:"not null" validate:"required,min=1"`
	RemainingTourists       int       `json:"remaining_tourists" gorm:"not null"`
	Status                  string    `json:"status" gorm:"not null;index;default:DRAFT" validate:"omitempty,oneof=DRAFT ACTIVE FULL CANCELLED"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`

	// Relationships
	Provider      *Provider             `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Template      *TourTemplate         `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
	Registrations []TouristRegistration `json:"registrations,omitempty" gorm:"foreignKey:TourEventID"`
	Activities    []Activity            `json:"activities,omitempty" gorm:"foreignKey:TourEventID"`
}

// TableName returns the table name for TourEvent
func (TourEvent) TableName() string {
	return "tour_events"
}

// BeforeCreate assigns a uuid primary key when none is set
func (e *TourEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// IsBookable reports whether tourists may register for this event
func (e *TourEvent) IsBookable() bool {
	return e.Status == TourEventStatusActive
}

// DatesOverlap reports whether this event's inclusive date range intersects
// the given range.
func (e *TourEvent) DatesOverlap(start, end time.Time) bool {
	return !e.StartDate.After(end) && !e.EndDate.Before(start)
}

// CapacityReport is the result of a capacity ledger reconciliation
type CapacityReport struct {
	TourEventID       string `json:"tour_event_id"`
	ApprovedCount     int    `json:"approved_count"`
	RemainingCapacity int    `json:"remaining_capacity"`
	WasConsistent     bool   `json:"was_consistent"`
}
