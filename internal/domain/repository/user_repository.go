// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"docvault/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// Credentials live on the user row, so this repository is also the credential store.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByUsername retrieves a single user by their login name.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// ExistsByUsername reports whether the login name is already claimed.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Create persists a new user. A duplicate username yields domainerrors.ErrUsernameTaken.
	Create(ctx context.Context, user *entity.User) error

	// UpdateLanguage changes the display language of an existing user.
	UpdateLanguage(ctx context.Context, id uuid.UUID, language string) error

	// Delete removes the user row. It returns ErrUserNotFound when nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}
