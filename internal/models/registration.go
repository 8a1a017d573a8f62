package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registration statuses. REJECTED and CANCELLED are terminal; a tourist who
// wants back in must create a new registration.
const (
	RegistrationStatusPending   = "PENDING"
	RegistrationStatusApproved  = "APPROVED"
	RegistrationStatusRejected  = "REJECTED"
	RegistrationStatusCancelled = "CANCELLED"
)

// ActiveRegistrationStatuses are the statuses that hold a claim on a tour
// event: they block duplicate registrations and overlapping bookings.
var ActiveRegistrationStatuses = []string{
	RegistrationStatusPending,
	RegistrationStatusApproved,
}

// TouristRegistration is one tourist's claim on one tour event. Rows are never
// deleted; cancellation is a status transition so history is preserved.
type TouristRegistration struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid"`
	TourEventID      string     `json:"tour_event_id" gorm:"type:uuid;not null;index" validate:"required"`
	TouristUserID    string     `json:"tourist_user_id" gorm:"type:uuid;not null;index" validate:"required"`
	Status           string     `json:"status" gorm:"not null;index;default:PENDING" validate:"omitempty,oneof=PENDING APPROVED REJECTED CANCELLED"`
	ApprovedByUserID string     `json:"approved_by_user_id,omitempty" gorm:"type:uuid"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	RejectedReason   string     `json:"rejected_reason,omitempty" gorm:"size:500"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relationships
	TourEvent *TourEvent `json:"tour_event,omitempty" gorm:"foreignKey:TourEventID"`
	Tourist   *User      `json:"tourist,omitempty" gorm:"foreignKey:TouristUserID"`
}

// TableName returns the table name for TouristRegistration
func (TouristRegistration) TableName() string {
	return "tourist_registrations"
}

// BeforeCreate assigns a uuid primary key when none is set
func (r *TouristRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the registration still holds a claim on its event
func (r *TouristRegistration) IsActive() bool {
	return r.Status == RegistrationStatusPending || r.Status == RegistrationStatusApproved
}

// IsTerminal reports whether the registration reached a final state
func (r *TouristRegistration) IsTerminal() bool {
	return r.Status == RegistrationStatusRejected || r.Status == RegistrationStatusCancelled
}
