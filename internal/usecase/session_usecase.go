package usecase

import (
	"context"
	"time"

	"docvault/internal/domain/entity"

	"github.com/google/uuid"
)

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput returns the session token after a successful login.
type LoginOutput struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// SessionUsecase binds session tokens to users.
type SessionUsecase interface {
	// Login verifies the credentials and opens a new session.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Authenticate resolves a token to the user it was issued for.
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)

	// Logout revokes the token. Unknown or already revoked tokens are ignored.
	Logout(ctx context.Context, token string) error

	// InvalidateUser revokes every session of the user and returns how many were dropped.
	InvalidateUser(ctx context.Context, userID uuid.UUID) (int, error)
}
