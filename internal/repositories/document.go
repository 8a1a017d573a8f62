package repositories

import (
	"context"
	"errors"

	"tourist-hub-api/internal/database"
	"tourist-hub-api/internal/models"

	"gorm.io/gorm"
)

// documentRepository implements DocumentRepository
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *database.Connection) DocumentRepository {
	return &documentRepository{db: db.DB}
}

// WithTx rebinds the repository to an open transaction
func (r *documentRepository) WithTx(tx *gorm.DB) DocumentRepository {
	if tx == nil {
		return r
	}
	return &documentRepository{db: tx}
}

// Create creates a new document metadata row
func (r *documentRepository) Create(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

// GetByID retrieves a document by ID
func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).First(&document, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("document", id)
		}
		return nil, err
	}
	return &document, nil
}

// ListByOwner retrieves all documents owned by a user
func (r *documentRepository) ListByOwner(ctx context.Context, ownerUserID string) ([]*models.Document, error) {
	var documents []*models.Document
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at DESC").
		Find(&documents).Error
	return documents, err
}

// ListByTourEvent retrieves all documents attached to a tour event
func (r *documentRepository) ListByTourEvent(ctx context.Context, tourEventID string) ([]*models.Document, error) {
	var documents []*models.Document
	err := r.db.WithContext(ctx).
		Where("tour_event_id = ?", tourEventID).
		Order("created_at DESC").
		Find(&documents).Error
	return documents, err
}

// Delete soft deletes a document metadata row
func (r *documentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Document{}, "id = ?", id).Error
}
