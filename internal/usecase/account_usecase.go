// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"docvault/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Age      int
	Gender   string
	Phone    string
	GovtID   string
	Language string // Optional, defaults to entity.DefaultLanguage.
}

// --- Output DTOs ---

// DeleteAccountOutput summarizes what the deletion cascade removed.
type DeleteAccountOutput struct {
	DocumentsRemoved int
	BlobsMissing     int // Blobs that were already gone from storage.
	SessionsRevoked  int
}

// AccountUsecase defines the interface for account-related business operations.
type AccountUsecase interface {
	// Register creates a new account. A claimed username yields ErrUsernameTaken.
	Register(ctx context.Context, input RegisterInput) (*entity.User, error)

	// GetProfile returns the full private profile of the user.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// UpdateLanguage switches the display language and returns the updated profile.
	UpdateLanguage(ctx context.Context, userID uuid.UUID, language string) (*entity.User, error)

	// DeleteAccount runs the deletion cascade: blobs, records, sessions.
	// token is the caller's own session token and may be empty.
	DeleteAccount(ctx context.Context, userID uuid.UUID, token string) (*DeleteAccountOutput, error)
}
