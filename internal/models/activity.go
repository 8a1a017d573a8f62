package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity is one scheduled item in a tour event's daily itinerary. Times are
// wall-clock "HH:MM" strings; after validation they compare correctly as
// strings, which is what the conflict checker relies on.
type Activity struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	TourEventID  string    `json:"tour_event_id" gorm:"type:uuid;not null;index" validate:"required"`
	ActivityDate time.Time `json:"activity_date" gorm:"not null;index" validate:"required"`
	StartTime    string    `json:"start_time" gorm:"not null;size:5" validate:"required"`
	EndTime      string    `json:"end_time" gorm:"not null;size:5" validate:"required"`
	Description  string    `json:"description" gorm:"not null" validate:"required,min=1,max=500"`
	ActivityType string    `json:"activity_type" gorm:"size:100" validate:"max=100"`
	IsOptional   bool      `json:"is_optional" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	TourEvent *TourEvent `json:"tour_event,omitempty" gorm:"foreignKey:TourEventID"`
}

// TableName returns the table name for Activity
func (Activity) TableName() string {
	return "activities"
}

// BeforeCreate assigns a uuid primary key when none is set
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// SameDay reports whether two activities fall on the same calendar date
func (a *Activity) SameDay(other *Activity) bool {
	y1, m1, d1 := a.ActivityDate.Date()
	y2, m2, d2 := other.ActivityDate.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// OverlapsTime reports whether the two activities' time intervals intersect
// using half-open semantics: touching endpoints do not overlap.
func (a *Activity) OverlapsTime(other *Activity) bool {
	return a.StartTime < other.EndTime && a.EndTime > other.StartTime
}
