package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"
)

// createTestLogger creates a logger for testing
func createTestLogger() *logger.Logger {
	return &logger.Logger{Logger: logrus.New()}
}

// stubTxManager runs the transaction body directly. Repositories in these
// tests are mocks, so WithTx(nil) hands back the mock unchanged.
type stubTxManager struct{}

func (stubTxManager) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// recordingDispatcher captures dispatched notification events for assertions
type recordingDispatcher struct {
	mu     sync.Mutex
	events []*NotificationEvent
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, event *NotificationEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) dispatched() []*NotificationEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.events
}

// MockTourEventRepository is a mock implementation of TourEventRepository for testing
type MockTourEventRepository struct {
	mock.Mock
}

func (m *MockTourEventRepository) WithTx(tx *gorm.DB) repositories.TourEventRepository {
	return m
}

func (m *MockTourEventRepository) Create(ctx context.Context, event *models.TourEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockTourEventRepository) GetByID(ctx context.Context, id string) (*models.TourEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TourEvent), args.Error(1)
}

func (m *MockTourEventRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.TourEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TourEvent), args.Error(1)
}

func (m *MockTourEventRepository) List(ctx context.Context, filter repositories.TourEventFilter) ([]*models.TourEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TourEvent), args.Error(1)
}

func (m *MockTourEventRepository) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTourEventRepository) Update(ctx context.Context, event *models.TourEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockTourEventRepository) HasRegistrations(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTourEventRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRegistrationRepository is a mock implementation of RegistrationRepository for testing
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) WithTx(tx *gorm.DB) repositories.RegistrationRepository {
	return m
}

func (m *MockRegistrationRepository) Create(ctx context.Context, registration *models.TouristRegistration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRegistrationRepository) GetByID(ctx context.Context, id string) (*models.TouristRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TouristRegistration), args.Error(1)
}

func (m *MockRegistrationRepository) Update(ctx context.Context, registration *models.TouristRegistration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRegistrationRepository) GetActiveByTouristAndEvent(ctx context.Context, touristUserID, tourEventID string) (*models.TouristRegistration, error) {
	args := m.Called(ctx, touristUserID, tourEventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TouristRegistration), args.Error(1)
}

func (m *MockRegistrationRepository) GetActiveOverlapping(ctx context.Context, touristUserID string, start, end time.Time, excludeEventID string) (*models.TouristRegistration, error) {
	args := m.Called(ctx, touristUserID, start, end, excludeEventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TouristRegistration), args.Error(1)
}

func (m *MockRegistrationRepository) CountByEventAndStatus(ctx context.Context, tourEventID, status string) (int64, error) {
	args := m.Called(ctx, tourEventID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRegistrationRepository) ListByEvent(ctx context.Context, tourEventID string) ([]*models.TouristRegistration, error) {
	args := m.Called(ctx, tourEventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TouristRegistration), args.Error(1)
}

func (m *MockRegistrationRepository) ListByEventAndTourist(ctx context.Context, tourEventID, touristUserID string) ([]*models.TouristRegistration, error) {
	args := m.Called(ctx, tourEventID, touristUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TouristRegistration), args.Error(1)
}

func (m *MockRegistrationRepository) ListByTourist(ctx context.Context, touristUserID string) ([]*models.TouristRegistration, error) {
	args := m.Called(ctx, touristUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TouristRegistration), args.Error(1)
}

// MockActivityRepository is a mock implementation of ActivityRepository for testing
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) WithTx(tx *gorm.DB) repositories.ActivityRepository {
	return m
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) CreateBatch(ctx context.Context, activities []*models.Activity) error {
	args := m.Called(ctx, activities)
	return args.Error(0)
}

func (m *MockActivityRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Activity), args.Error(1)
}

func (m *MockActivityRepository) ListByEvent(ctx context.Context, tourEventID string) ([]*models.Activity, error) {
	args := m.Called(ctx, tourEventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Activity), args.Error(1)
}

func (m *MockActivityRepository) Update(ctx context.Context, activity *models.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) WithTx(tx *gorm.DB) repositories.UserRepository {
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByProvider(ctx context.Context, providerID string) ([]*models.User, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProviderRepository is a mock implementation of ProviderRepository for testing
type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) WithTx(tx *gorm.DB) repositories.ProviderRepository {
	return m
}

func (m *MockProviderRepository) Create(ctx context.Context, provider *models.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Provider), args.Error(1)
}

func (m *MockProviderRepository) GetAll(ctx context.Context) ([]*models.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Provider), args.Error(1)
}

func (m *MockProviderRepository) Update(ctx context.Context, provider *models.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProviderRepository) CountActiveTourEvents(ctx context.Context, providerID string) (int64, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTourTemplateRepository is a mock implementation of TourTemplateRepository for testing
type MockTourTemplateRepository struct {
	mock.Mock
}

func (m *MockTourTemplateRepository) WithTx(tx *gorm.DB) repositories.TourTemplateRepository {
	return m
}

func (m *MockTourTemplateRepository) Create(ctx context.Context, template *models.TourTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTourTemplateRepository) GetByID(ctx context.Context, id string) (*models.TourTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TourTemplate), args.Error(1)
}

func (m *MockTourTemplateRepository) GetAll(ctx context.Context) ([]*models.TourTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TourTemplate), args.Error(1)
}

func (m *MockTourTemplateRepository) Update(ctx context.Context, template *models.TourTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTourTemplateRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
