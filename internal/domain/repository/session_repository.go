package repository

import (
	"context"
	"time"

	"docvault/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned when no live session matches the lookup.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores live sessions. Implementations are not required to persist across restarts.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *entity.Session) error

	// FindByTokenHash returns the session for the hashed token, or ErrSessionNotFound.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error)

	// DeleteByTokenHash removes the session for the hashed token. Removing an unknown token is not an error.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteByUserID removes every session of the user and returns how many were removed.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int, error)

	// DeleteExpired removes sessions that expired before the given instant.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
