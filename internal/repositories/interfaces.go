package repositories

import (
	"context"
	"time"

	"tourist-hub-api/internal/models"

	"gorm.io/gorm"
)

// Every repository exposes WithTx so a service can rebind it to an open
// transaction and thread a single transaction object through a whole
// read-reconcile-write sequence. WithTx(nil) returns the repository unchanged.

// ProviderRepository defines the interface for provider data operations
type ProviderRepository interface {
	WithTx(tx *gorm.DB) ProviderRepository
	Create(ctx context.Context, provider *models.Provider) error
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	GetAll(ctx context.Context) ([]*models.Provider, error)
	Update(ctx context.Context, provider *models.Provider) error
	Delete(ctx context.Context, id string) error
	CountActiveTourEvents(ctx context.Context, providerID string) (int64, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByProvider(ctx context.Context, providerID string) ([]*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// TourTemplateRepository defines the interface for tour template data operations
type TourTemplateRepository interface {
	WithTx(tx *gorm.DB) TourTemplateRepository
	Create(ctx context.Context, template *models.TourTemplate) error
	GetByID(ctx context.Context, id string) (*models.TourTemplate, error)
	GetAll(ctx context.Context) ([]*models.TourTemplate, error)
	Update(ctx context.Context, template *models.TourTemplate) error
	Delete(ctx context.Context, id string) error
}

// TourEventFilter narrows tour event listings to what the caller may see.
// VisibleToTouristID widens the ACTIVE-only view with events the tourist is
// registered for, regardless of status.
type TourEventFilter struct {
	ProviderID         string
	Statuses           []string
	VisibleToTouristID string
}

// TourEventRepository defines the interface for tour event data operations
type TourEventRepository interface {
	WithTx(tx *gorm.DB) TourEventRepository
	Create(ctx context.Context, event *models.TourEvent) error
	GetByID(ctx context.Context, id string) (*models.TourEvent, error)
	// GetByIDForUpdate reads the event row under a SELECT ... FOR UPDATE lock;
	// only meaningful on a repository rebound to an open transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*models.TourEvent, error)
	List(ctx context.Context, filter TourEventFilter) ([]*models.TourEvent, error)
	ListIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, event *models.TourEvent) error
	HasRegistrations(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// RegistrationRepository defines the interface for registration data operations
type RegistrationRepository interface {
	WithTx(tx *gorm.DB) RegistrationRepository
	Create(ctx context.Context, registration *models.TouristRegistration) error
	GetByID(ctx context.Context, id string) (*models.TouristRegistration, error)
	Update(ctx context.Context, registration *models.TouristRegistration) error
	// GetActiveByTouristAndEvent returns the tourist's PENDING or APPROVED
	// registration for the event, or nil when none exists.
	GetActiveByTouristAndEvent(ctx context.Context, touristUserID, tourEventID string) (*models.TouristRegistration, error)
	// GetActiveOverlapping returns one PENDING or APPROVED registration of the
	// tourist whose event's inclusive date range intersects [start, end],
	// excluding registrations against excludeEventID. Returns nil when none.
	GetActiveOverlapping(ctx context.Context, touristUserID string, start, end time.Time, excludeEventID string) (*models.TouristRegistration, error)
	CountByEventAndStatus(ctx context.Context, tourEventID, status string) (int64, error)
	ListByEvent(ctx context.Context, tourEventID string) ([]*models.TouristRegistration, error)
	ListByEventAndTourist(ctx context.Context, tourEventID, touristUserID string) ([]*models.TouristRegistration, error)
	ListByTourist(ctx context.Context, touristUserID string) ([]*models.TouristRegistration, error)
}

// ActivityRepository defines the interface for activity data operations
type ActivityRepository interface {
	WithTx(tx *gorm.DB) ActivityRepository
	Create(ctx context.Context, activity *models.Activity) error
	CreateBatch(ctx context.Context, activities []*models.Activity) error
	GetByID(ctx context.Context, id string) (*models.Activity, error)
	ListByEvent(ctx context.Context, tourEventID string) ([]*models.Activity, error)
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id string) error
}

// DocumentRepository defines the interface for document metadata operations
type DocumentRepository interface {
	WithTx(tx *gorm.DB) DocumentRepository
	Create(ctx context.Context, document *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]*models.Document, error)
	ListByTourEvent(ctx context.Context, tourEventID string) ([]*models.Document, error)
	Delete(ctx context.Context, id string) error
}
