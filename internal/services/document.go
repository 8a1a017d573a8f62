package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"

	"github.com/google/uuid"
)

// localDocumentStore keeps document bytes on local disk under a configured
// root directory. Paths handed out are relative to that root.
type localDocumentStore struct {
	root string
}

// NewLocalDocumentStore creates a disk-backed document store
func NewLocalDocumentStore(root string) DocumentStore {
	return &localDocumentStore{root: root}
}

func (s *localDocumentStore) resolve(path string) string {
	return filepath.Join(s.root, filepath.Clean("/"+path))
}

// Put writes document bytes
func (s *localDocumentStore) Put(ctx context.Context, path string, data []byte) error {
	full := s.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}
	return os.WriteFile(full, data, 0o644)
}

// Get reads document bytes
func (s *localDocumentStore) Get(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(s.resolve(path))
}

// Remove deletes document bytes
func (s *localDocumentStore) Remove(ctx context.Context, path string) error {
	err := os.Remove(s.resolve(path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// documentService implements DocumentService
type documentService struct {
	logger       *logger.Logger
	authz        AuthorizationService
	validation   *models.ValidationService
	documentRepo repositories.DocumentRepository
	store        DocumentStore
}

// NewDocumentService creates a new document service
func NewDocumentService(
	logger *logger.Logger,
	authz AuthorizationService,
	validation *models.ValidationService,
	documentRepo repositories.DocumentRepository,
	store DocumentStore,
) DocumentService {
	return &documentService{
		logger:       logger,
		authz:        authz,
		validation:   validation,
		documentRepo: documentRepo,
		store:        store,
	}
}

// Upload stores file bytes and records the metadata row. Tourists upload for
// themselves; a provider admin may upload on behalf of their tenant's users.
func (d *documentService) Upload(ctx context.Context, caller *models.User, document *models.Document, data []byte) (*models.Document, error) {
	if caller.IsTourist() {
		document.OwnerUserID = caller.ID
		document.ProviderID = caller.ProviderID
	}
	if err := d.validation.ValidateStruct(document); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &models.ValidationError{Field: "file", Message: "must not be empty"}
	}

	if err := d.authz.Authorize(caller, OpManageDocument, document.ProviderID, document.OwnerUserID); err != nil {
		d.authz.LogSecurityViolation(ctx, caller, OpManageDocument, document.OwnerUserID)
		return nil, err
	}

	document.SizeBytes = int64(len(data))
	document.StoragePath = filepath.Join(document.OwnerUserID, uuid.NewString())
	if err := d.store.Put(ctx, document.StoragePath, data); err != nil {
		return nil, err
	}

	if err := d.documentRepo.Create(ctx, document); err != nil {
		// Metadata write failed; drop the orphaned bytes.
		if rmErr := d.store.Remove(ctx, document.StoragePath); rmErr != nil {
			d.logger.WithError(rmErr).Warn("Failed to remove orphaned document bytes")
		}
		return nil, err
	}

	d.logger.WithUser(document.OwnerUserID).
		WithField("document_id", document.ID).
		WithField("size_bytes", document.SizeBytes).
		Info("Document uploaded")
	return document, nil
}

// Get returns a document's metadata and bytes within the caller's scope
func (d *documentService) Get(ctx context.Context, caller *models.User, id string) (*models.Document, []byte, error) {
	document, err := d.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := d.authz.Authorize(caller, OpManageDocument, document.ProviderID, document.OwnerUserID); err != nil {
		d.authz.LogSecurityViolation(ctx, caller, OpManageDocument, id)
		return nil, nil, err
	}

	data, err := d.store.Get(ctx, document.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return document, data, nil
}

// ListForUser returns the metadata of one user's documents
func (d *documentService) ListForUser(ctx context.Context, caller *models.User, ownerUserID string) ([]*models.Document, error) {
	if caller.IsTourist() && caller.ID != ownerUserID {
		err := &models.InsufficientPermissionsError{Operation: string(OpManageDocument), Role: caller.Role}
		d.authz.LogSecurityViolation(ctx, caller, OpManageDocument, ownerUserID)
		return nil, err
	}

	documents, err := d.documentRepo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	if caller.IsProviderAdmin() {
		scoped := make([]*models.Document, 0, len(documents))
		for _, doc := range documents {
			if doc.ProviderID == caller.ProviderID {
				scoped = append(scoped, doc)
			}
		}
		return scoped, nil
	}
	return documents, nil
}

// Delete removes a document's metadata and bytes
func (d *documentService) Delete(ctx context.Context, caller *models.User, id string) error {
	document, err := d.documentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := d.authz.Authorize(caller, OpManageDocument, document.ProviderID, document.OwnerUserID); err != nil {
		d.authz.LogSecurityViolation(ctx, caller, OpManageDocument, id)
		return err
	}

	if err := d.documentRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := d.store.Remove(ctx, document.StoragePath); err != nil {
		d.logger.WithError(err).
			WithField("document_id", id).
			Warn("Failed to remove document bytes")
	}

	d.logger.WithField("document_id", id).Info("Document deleted")
	return nil
}
