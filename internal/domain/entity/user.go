// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLanguage is assigned to every account that does not pick one at registration.
const DefaultLanguage = "english"

// User is one registered account together with its profile attributes.
type User struct {
	ID           uuid.UUID // Assigned on creation, never changes.
	Username     string    // Unique login name, immutable after registration.
	PasswordHash string    // bcrypt digest of the password.
	Name         string    // Display name.
	Age          int
	Gender       string
	Phone        string
	GovtID       string // Government id string as typed by the user.
	Language     string // Display language preference, lowercase.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnedBy reports whether the profile belongs to the given user.
func (u *User) OwnedBy(userID uuid.UUID) bool {
	return u != nil && u.ID == userID
}

// PublicProfile is the subset of a User that may be shown to anyone holding the profile link.
type PublicProfile struct {
	ID          uuid.UUID
	Name        string
	Language    string
	MemberSince time.Time
}

// Public strips every session-gated attribute from the user.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:          u.ID,
		Name:        u.Name,
		Language:    u.Language,
		MemberSince: u.CreatedAt,
	}
}
