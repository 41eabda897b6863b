package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims are the claims carried by a session token.
// The registered ID claim holds the raw session secret.
type SessionClaims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the opaque session tokens handed to clients.
type TokenService interface {
	// IssueSessionToken signs a token for the session secret, valid until expiresAt.
	IssueSessionToken(secret string, userID uuid.UUID, expiresAt time.Time) (string, error)

	// ParseSessionToken verifies signature and expiry and returns the claims.
	ParseSessionToken(token string) (*SessionClaims, error)
}
