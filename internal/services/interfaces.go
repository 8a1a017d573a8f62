package services

import (
	"context"

	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"

	"gorm.io/gorm"
)

// TxManager opens database transactions for the domain services. Every
// state-changing operation runs its whole read-reconcile-write sequence inside
// one transaction handed to fn; database.Connection implements this.
type TxManager interface {
	InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CapacityLedger derives and repairs the remaining-seats counter of a tour
// event from the authoritative set of APPROVED registrations.
type CapacityLedger interface {
	// Reconcile repairs one event inside its own transaction.
	Reconcile(ctx context.Context, tourEventID string) (*models.CapacityReport, error)
	// ReconcileInTx repairs one event inside the caller's open transaction.
	ReconcileInTx(ctx context.Context, tx *gorm.DB, tourEventID string) (*models.CapacityReport, error)
	// ReconcileAll sweeps every tour event; used by the nightly cron job.
	ReconcileAll(ctx context.Context) error
}

// RegistrationService governs the lifecycle of tourist registrations
type RegistrationService interface {
	Register(ctx context.Context, caller *models.User, tourEventID string) (*models.TouristRegistration, error)
	Approve(ctx context.Context, caller *models.User, registrationID string) (*models.TouristRegistration, error)
	Reject(ctx context.Context, caller *models.User, registrationID, reason string) (*models.TouristRegistration, error)
	Cancel(ctx context.Context, caller *models.User, registrationID string) (*models.TouristRegistration, error)
	ListForEvent(ctx context.Context, caller *models.User, tourEventID string) ([]*models.TouristRegistration, error)
	ListForTourist(ctx context.Context, caller *models.User, touristUserID string) ([]*models.TouristRegistration, error)
}

// AuthorizationService centralizes the role capability table and the
// per-role visibility scoping rules
type AuthorizationService interface {
	Authorize(user *models.User, op Operation, resourceProviderID, resourceOwnerUserID string) error
	ScopeTourEvents(user *models.User) repositories.TourEventFilter
	LogSecurityViolation(ctx context.Context, user *models.User, op Operation, resourceID string)
}

// TourEventService manages tour events and their capacity settings
type TourEventService interface {
	Create(ctx context.Context, caller *models.User, event *models.TourEvent) (*models.TourEvent, error)
	Get(ctx context.Context, caller *models.User, id string) (*models.TourEvent, error)
	List(ctx context.Context, caller *models.User) ([]*models.TourEvent, error)
	Update(ctx context.Context, caller *models.User, event *models.TourEvent) (*models.TourEvent, error)
	UpdateStatus(ctx context.Context, caller *models.User, id, status string) (*models.TourEvent, error)
	UpdateCapacity(ctx context.Context, caller *models.User, id string, newLimit int) (*models.TourEvent, error)
	Delete(ctx context.Context, caller *models.User, id string) error
}

// ScheduleService manages tour event activities and detects conflicts
type ScheduleService interface {
	CreateActivity(ctx context.Context, caller *models.User, activity *models.Activity) (*models.Activity, error)
	CreateActivities(ctx context.Context, caller *models.User, tourEventID string, activities []*models.Activity) ([]*models.Activity, error)
	UpdateActivity(ctx context.Context, caller *models.User, activity *models.Activity) (*models.Activity, error)
	DeleteActivity(ctx context.Context, caller *models.User, id string) error
	ListActivities(ctx context.Context, caller *models.User, tourEventID string) ([]*models.Activity, error)
}

// ProviderService manages tenant providers
type ProviderService interface {
	Create(ctx context.Context, caller *models.User, provider *models.Provider) (*models.Provider, error)
	Get(ctx context.Context, caller *models.User, id string) (*models.Provider, error)
	List(ctx context.Context, caller *models.User) ([]*models.Provider, error)
	Update(ctx context.Context, caller *models.User, provider *models.Provider) (*models.Provider, error)
	Delete(ctx context.Context, caller *models.User, id string) error
}

// TourTemplateService manages reusable tour blueprints
type TourTemplateService interface {
	Create(ctx context.Context, caller *models.User, template *models.TourTemplate) (*models.TourTemplate, error)
	Get(ctx context.Context, id string) (*models.TourTemplate, error)
	List(ctx context.Context) ([]*models.TourTemplate, error)
	Update(ctx context.Context, caller *models.User, template *models.TourTemplate) (*models.TourTemplate, error)
	Delete(ctx context.Context, caller *models.User, id string) error
}

// UserManagementService manages user accounts across the three roles
type UserManagementService interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUser(ctx context.Context, caller *models.User, userID string) (*models.User, error)
	GetUsersByProvider(ctx context.Context, caller *models.User, providerID string) ([]*models.User, error)
	UpdateUser(ctx context.Context, caller *models.User, user *models.User) error
	DeactivateUser(ctx context.Context, caller *models.User, userID string) error
	ChangePassword(ctx context.Context, caller *models.User, userID, newPassword string) error
}

// AuthenticationService issues and validates credentials
type AuthenticationService interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GenerateJWT(ctx context.Context, user *models.User) (string, error)
	ValidateJWT(ctx context.Context, token string) (*models.User, error)
	HashPassword(password string) (string, error)
}

// NotificationDispatcher accepts outbound notification events after a
// successful commit. Dispatch is fire-and-forget: delivery failures are
// logged by the dispatcher and never surfaced to the domain caller.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event *NotificationEvent)
}

// DocumentStore persists document bytes. File storage proper is outside this
// service's scope; the local-disk implementation exists for development.
type DocumentStore interface {
	Put(ctx context.Context, path string, data []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}

// DocumentService manages document metadata and scoped access to files
type DocumentService interface {
	Upload(ctx context.Context, caller *models.User, document *models.Document, data []byte) (*models.Document, error)
	Get(ctx context.Context, caller *models.User, id string) (*models.Document, []byte, error)
	ListForUser(ctx context.Context, caller *models.User, ownerUserID string) ([]*models.Document, error)
	Delete(ctx context.Context, caller *models.User, id string) error
}
