package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document holds metadata for a stored file (passport scans, forms, tour
// paperwork). The file bytes themselves live behind the services.DocumentStore
// interface; this row only records where they went.
type Document struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid"`
	OwnerUserID string         `json:"owner_user_id" gorm:"type:uuid;not null;index" validate:"required"`
	ProviderID  string         `json:"provider_id" gorm:"type:uuid;index"`
	TourEventID string         `json:"tour_event_id,omitempty" gorm:"type:uuid;index"`
	FileName    string         `json:"file_name" gorm:"not null" validate:"required,min=1,max=255"`
	ContentType string         `json:"content_type" gorm:"size:100"`
	SizeBytes   int64          `json:"size_bytes"`
	StoragePath string         `json:"-" gorm:"not null"`
	Description string         `json:"description,omitempty" gorm:"size:500"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerUserID"`
}

// TableName returns the table name for Document
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate assigns a uuid primary key when none is set
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
