package usecase

import (
	"context"

	"docvault/internal/domain/entity"

	"github.com/google/uuid"
)

// ResourceKind names the kind of object an access check is about.
type ResourceKind string

const (
	ResourceDocument ResourceKind = "document"
	ResourceProfile  ResourceKind = "profile"
)

// Resource is an owned object subject to an access check.
type Resource struct {
	Kind    ResourceKind
	OwnerID uuid.UUID
}

// AccessPolicy decides whether a user may act on a resource.
// Only the owner is ever allowed; there are no admin roles and no sharing.
type AccessPolicy interface {
	// Authorize returns nil when userID owns the resource and ErrForbidden otherwise.
	Authorize(ctx context.Context, userID uuid.UUID, resource Resource) error

	// AuthorizeDocument loads the document and applies Authorize to it.
	AuthorizeDocument(ctx context.Context, userID, documentID uuid.UUID) (*entity.Document, error)

	// CheckUsernameAvailable returns ErrUsernameTaken when the name is already registered.
	CheckUsernameAvailable(ctx context.Context, username string) error
}
