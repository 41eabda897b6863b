package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session binds one opaque token to exactly one authenticated user.
// Sessions live in process memory only and do not survive a restart.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string // SHA-256 hex of the raw session secret.
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is no longer valid at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
