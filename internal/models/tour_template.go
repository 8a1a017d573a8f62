package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SitesToVisit is a list of site names stored as a JSON column
type SitesToVisit []string

// Value implements driver.Valuer for SitesToVisit
func (s SitesToVisit) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for SitesToVisit
func (s *SitesToVisit) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type for SitesToVisit: %T", value)
	}
}

// TourTemplate is a reusable blueprint a provider can base tour events on
type TourTemplate struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid"`
	TemplateName string         `json:"template_name" gorm:"not null;uniqueIndex" validate:"required,min=1,max=255"`
	Type         string         `json:"type" gorm:"size:100" validate:"max=100"`
	StartDate    time.Time      `json:"start_date" gorm:"not null" validate:"required"`
	EndDate      time.Time      `json:"end_date" gorm:"not null" validate:"required"`
	SitesToVisit SitesToVisit   `json:"sites_to_visit" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for TourTemplate
func (TourTemplate) TableName() string {
	return "tour_templates"
}

// BeforeCreate assigns a uuid primary key when none is set
func (t *TourTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
