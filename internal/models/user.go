package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. SystemAdmin users carry an empty ProviderID; ProviderAdmin and
// Tourist users always belong to exactly one provider.
const (
	RoleSystemAdmin   = "SystemAdmin"
	RoleProviderAdmin = "ProviderAdmin"
	RoleTourist       = "Tourist"
)

// User represents a system user
type User struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid"`
	ProviderID     string         `json:"provider_id" gorm:"type:uuid;index"`
	FirstName      string         `json:"first_name" gorm:"not null" validate:"required,min=1,max=100"`
	LastName       string         `json:"last_name" gorm:"not null" validate:"required,min=1,max=100"`
	Email          string         `json:"email" gorm:"not null;uniqueIndex" validate:"required,email"`
	PasswordHash   string         `json:"-" gorm:"not null"`
	Role           string         `json:"role" gorm:"not null;index" validate:"required,oneof=SystemAdmin ProviderAdmin Tourist"`
	PhoneNumber    string         `json:"phone_number" gorm:"size:30"`
	PassportNumber string         `json:"passport_number,omitempty" gorm:"size:50"`
	DateOfBirth    *time.Time     `json:"date_of_birth,omitempty"`
	Gender         string         `json:"gender,omitempty" gorm:"size:20"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Provider *Provider `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a uuid primary key when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsSystemAdmin checks if the user has system admin privileges
func (u *User) IsSystemAdmin() bool {
	return u.Role == RoleSystemAdmin
}

// IsProviderAdmin checks if the user administers a provider
func (u *User) IsProviderAdmin() bool {
	return u.Role == RoleProviderAdmin
}

// IsTourist checks if the user is a tourist
func (u *User) IsTourist() bool {
	return u.Role == RoleTourist
}

// IsAdmin reports whether the user holds either admin role
func (u *User) IsAdmin() bool {
	return u.IsSystemAdmin() || u.IsProviderAdmin()
}
