package impl

import (
	"context"
	"log/slog"

	"docvault/internal/domain/entity"
	domainerrors "docvault/internal/domain/errors"
	"docvault/internal/domain/repository"
	"docvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ownershipPolicy implements the AccessPolicy interface: a user may act on what it owns and nothing else.
type ownershipPolicy struct {
	userRepo     repository.UserRepository
	documentRepo repository.DocumentRepository
	logger       *slog.Logger
}

// NewAccessPolicy is the constructor for ownershipPolicy.
func NewAccessPolicy(
	userRepo repository.UserRepository,
	documentRepo repository.DocumentRepository,
	logger *slog.Logger,
) usecase.AccessPolicy {
	return &ownershipPolicy{
		userRepo:     userRepo,
		documentRepo: documentRepo,
		logger:       logger,
	}
}

// Authorize allows the owner and forbids everyone else.
func (p *ownershipPolicy) Authorize(ctx context.Context, userID uuid.UUID, resource usecase.Resource) error {
	if userID != uuid.Nil && resource.OwnerID == userID {
		return nil
	}

	requestLogger(ctx, p.logger).Warn("Access denied",
		slog.String("user_id", userID.String()),
		slog.String("resource", string(resource.Kind)),
		slog.String("owner_id", resource.OwnerID.String()),
	)

	return errors.Wrapf(domainerrors.ErrForbidden, "%s belongs to another user", resource.Kind)
}

// AuthorizeDocument loads the document record and checks ownership before any storage access.
func (p *ownershipPolicy) AuthorizeDocument(ctx context.Context, userID, documentID uuid.UUID) (*entity.Document, error) {
	doc, err := p.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, errors.Wrap(domainerrors.ErrDocumentNotFound, "document not found")
		}

		return nil, errors.Wrap(err, "failed to find document")
	}

	if err := p.Authorize(ctx, userID, usecase.Resource{Kind: usecase.ResourceDocument, OwnerID: doc.UserID}); err != nil {
		return nil, err
	}

	return doc, nil
}

// CheckUsernameAvailable reports a claimed username as ErrUsernameTaken.
func (p *ownershipPolicy) CheckUsernameAvailable(ctx context.Context, username string) error {
	exists, err := p.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return errors.Wrap(err, "failed to check username")
	}
	if exists {
		return errors.Wrap(domainerrors.ErrUsernameTaken, "username already exists")
	}

	return nil
}
