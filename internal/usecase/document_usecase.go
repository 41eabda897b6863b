package usecase

import (
	"context"

	"docvault/internal/domain/entity"

	"github.com/google/uuid"
)

// UploadInput carries one uploaded file.
type UploadInput struct {
	Title      string
	Filename   string // Client supplied, sanitized before use.
	Content    []byte
	UploadDate string // YYYY-MM-DD, today (UTC) when empty.
}

// DocumentContent is a document record together with its blob.
type DocumentContent struct {
	Document *entity.Document
	Data     []byte
}

// DocumentUsecase defines the document operations available to an authenticated user.
type DocumentUsecase interface {
	Upload(ctx context.Context, userID uuid.UUID, input UploadInput) (*entity.Document, error)
	List(ctx context.Context, userID uuid.UUID) ([]*entity.Document, error)
	Get(ctx context.Context, userID, documentID uuid.UUID) (*entity.Document, error)
	FetchByID(ctx context.Context, userID, documentID uuid.UUID) (*DocumentContent, error)
	FetchByFilename(ctx context.Context, userID uuid.UUID, storedName string) (*DocumentContent, error)
	Delete(ctx context.Context, userID, documentID uuid.UUID) error
}
