package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider represents a tenant entity (tour company) in the system
type Provider struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string         `json:"name" gorm:"not null;uniqueIndex" validate:"required,min=1,max=255"`
	Country     string         `json:"country" gorm:"size:100"`
	City        string         `json:"city" gorm:"size:100"`
	IsIsolated  bool           `json:"is_isolated" gorm:"default:true"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Users      []User      `json:"users,omitempty" gorm:"foreignKey:ProviderID"`
	TourEvents []TourEvent `json:"tour_events,omitempty" gorm:"foreignKey:ProviderID"`
}

// TableName returns the table name for Provider
func (Provider) TableName() string {
	return "providers"
}

// BeforeCreate assigns a uuid primary key when none is set
func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
