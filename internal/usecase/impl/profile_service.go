package impl

import (
	"context"
	"log/slog"

	"docvault/config"
	"docvault/internal/domain/entity"
	domainerrors "docvault/internal/domain/errors"
	"docvault/internal/domain/repository"
	"docvault/internal/domain/service"
	"docvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const profilePathPrefix = "/profiles/"

// profileService implements the ProfileUsecase interface.
type profileService struct {
	userRepo repository.UserRepository
	qr       service.QRCodeService
	cache    service.ImageCache
	baseURL  string
	logger   *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(
	userRepo repository.UserRepository,
	qr service.QRCodeService,
	cache service.ImageCache,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.ProfileUsecase {
	return &profileService{
		userRepo: userRepo,
		qr:       qr,
		cache:    cache,
		baseURL:  cfg.QRCode.BaseURL,
		logger:   logger,
	}
}

// GenerateProfileLink builds the public profile URL. It depends only on the id and the base URL.
func (srv *profileService) GenerateProfileLink(userID uuid.UUID) string {
	return srv.baseURL + profilePathPrefix + userID.String()
}

// RenderQRImage returns the cached PNG for the URL, rendering it on a miss.
func (srv *profileService) RenderQRImage(url string) ([]byte, error) {
	if image, ok := srv.cache.Get(url); ok {
		return image, nil
	}

	image, err := srv.qr.Generate(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render QR code")
	}
	srv.cache.Add(url, image)

	return image, nil
}

// ProfileQR renders the QR code of the user's own profile link.
func (srv *profileService) ProfileQR(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	if _, err := srv.findUser(ctx, userID); err != nil {
		return nil, err
	}

	link := srv.GenerateProfileLink(userID)
	requestLogger(ctx, srv.logger).Debug("Rendering profile QR", slog.String("link", link))

	return srv.RenderQRImage(link)
}

// PublicProfile returns the fields anyone holding the link may see.
func (srv *profileService) PublicProfile(ctx context.Context, userID uuid.UUID) (*entity.PublicProfile, error) {
	user, err := srv.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return user.Public(), nil
}

// EvictQR drops the cached image of the user's profile link.
func (srv *profileService) EvictQR(userID uuid.UUID) {
	srv.cache.Remove(srv.GenerateProfileLink(userID))
}

func (srv *profileService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}
