package usecase

import (
	"context"

	"docvault/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase publishes profiles through links and QR codes.
type ProfileUsecase interface {
	// GenerateProfileLink returns the stable public URL of the user's profile.
	GenerateProfileLink(userID uuid.UUID) string

	// RenderQRImage encodes the URL as a PNG QR code.
	RenderQRImage(url string) ([]byte, error)

	// ProfileQR renders the QR code of an existing user's profile link.
	ProfileQR(ctx context.Context, userID uuid.UUID) ([]byte, error)

	// PublicProfile returns the publicly visible subset of the profile.
	PublicProfile(ctx context.Context, userID uuid.UUID) (*entity.PublicProfile, error)

	// EvictQR drops the cached QR image of the user.
	EvictQR(userID uuid.UUID)
}
