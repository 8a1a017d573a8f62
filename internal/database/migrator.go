package database

import (
	"tourist-hub-api/internal/models"
)

// Migrator handles database migrations
type Migrator struct {
	db *Connection
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *Connection) *Migrator {
	return &Migrator{db: db}
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	if err := m.db.AutoMigrate(
		&models.Provider{},
		&models.User{},
		&models.TourTemplate{},
		&models.TourEvent{},
		&models.TouristRegistration{},
		&models.Activity{},
		&models.Document{},
	); err != nil {
		return err
	}

	// At most one non-cancelled registration per (tourist, tour event); the
	// service layer also enforces this inside its transaction, the index is
	// the backstop against lost races.
	return m.db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_active_unique
		ON tourist_registrations (tour_event_id, tourist_user_id)
		WHERE status NOT IN ('CANCELLED', 'REJECTED')`).Error
}

// Down rolls back all migrations (for testing purposes)
func (m *Migrator) Down() error {
	return m.db.Migrator().DropTable(
		&models.Document{},
		&models.Activity{},
		&models.TouristRegistration{},
		&models.TourEvent{},
		&models.TourTemplate{},
		&models.User{},
		&models.Provider{},
	)
}
