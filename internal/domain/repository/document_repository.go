package repository

import (
	"context"

	"docvault/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrDocumentNotFound is returned when a document record does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository defines persistence operations for document metadata.
type DocumentRepository interface {
	// Create persists a new document record.
	Create(ctx context.Context, doc *entity.Document) error

	// FindByID retrieves a document by its identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)

	// FindByStoredName retrieves a document by its blob key.
	FindByStoredName(ctx context.Context, storedName string) (*entity.Document, error)

	// ListByUser returns the user's documents, newest upload date first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Document, error)

	// Delete removes a single document record.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUser removes every document record of the user and returns how many were removed.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
