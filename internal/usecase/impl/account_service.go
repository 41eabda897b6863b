package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"docvault/config"
	"docvault/internal/domain/entity"
	domainerrors "docvault/internal/domain/errors"
	"docvault/internal/domain/repository"
	"docvault/internal/domain/service"
	"docvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	documentRepo repository.DocumentRepository
	blobs        service.BlobStore
	hasher       service.PasswordHasher
	policy       usecase.AccessPolicy
	sessions     usecase.SessionUsecase
	profiles     usecase.ProfileUsecase
	publisher    service.EventPublisher
	locks        *UserLocks
	languages    []string
	logger       *slog.Logger
}

// AccountServiceParams holds the dependencies of the account service.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	DocumentRepo repository.DocumentRepository
	Blobs        service.BlobStore
	Hasher       service.PasswordHasher
	Policy       usecase.AccessPolicy
	Sessions     usecase.SessionUsecase
	Profiles     usecase.ProfileUsecase
	Publisher    service.EventPublisher
	Locks        *UserLocks
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	languages := config.DefaultSupportedLanguages()
	if params.Config.Profile != nil && len(params.Config.Profile.SupportedLanguages) > 0 {
		languages = params.Config.Profile.SupportedLanguages
	}

	return &accountService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		documentRepo: params.DocumentRepo,
		blobs:        params.Blobs,
		hasher:       params.Hasher,
		policy:       params.Policy,
		sessions:     params.Sessions,
		profiles:     params.Profiles,
		publisher:    params.Publisher,
		locks:        params.Locks,
		languages:    languages,
		logger:       params.Logger,
	}
}

// Register creates the account. The unique index on username settles registrations that race past the check.
func (srv *accountService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "username is required")
	}

	language, err := srv.normalizeLanguage(input.Language)
	if err != nil {
		return nil, err
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	if err := srv.policy.CheckUsernameAvailable(ctx, username); err != nil {
		return nil, err
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(input.Name),
		Age:          input.Age,
		Gender:       strings.TrimSpace(input.Gender),
		Phone:        strings.TrimSpace(input.Phone),
		GovtID:       strings.TrimSpace(input.GovtID),
		Language:     language,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	requestLogger(ctx, srv.logger).Info("User registered", slog.String("user_id", user.ID.String()))

	publishEvent(ctx, srv.publisher, srv.logger, &service.AccountEvent{
		Type:   service.AccountEventRegistered,
		UserID: user.ID.String(),
	})

	return user, nil
}

// GetProfile returns the private profile of the user.
func (srv *accountService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// UpdateLanguage stores a supported language, lowercased.
func (srv *accountService) UpdateLanguage(ctx context.Context, userID uuid.UUID, language string) (*entity.User, error) {
	if strings.TrimSpace(language) == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "language is required")
	}

	normalized, err := srv.normalizeLanguage(language)
	if err != nil {
		return nil, err
	}

	if err := srv.userRepo.UpdateLanguage(ctx, userID, normalized); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return nil, errors.Wrap(err, "failed to update language")
	}

	requestLogger(ctx, srv.logger).Info("Language updated",
		slog.String("user_id", userID.String()),
		slog.String("language", normalized),
	)

	return srv.GetProfile(ctx, userID)
}

// tombstonePrefix holds blobs of an account deletion until its records are committed.
const tombstonePrefix = ".deleted/"

func tombstoneKey(key string) string {
	return tombstonePrefix + key
}

// DeleteAccount removes blobs and records as one unit, then revokes sessions.
// Blobs are first moved under tombstone keys; a failed move or a failed record
// transaction moves them back, and tombstones are purged only after commit.
func (srv *accountService) DeleteAccount(ctx context.Context, userID uuid.UUID, token string) (*usecase.DeleteAccountOutput, error) {
	logger := requestLogger(ctx, srv.logger)

	unlock := srv.locks.Lock(userID)
	defer unlock()

	docs, err := srv.documentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}

	output := &usecase.DeleteAccountOutput{}
	moved := make([]string, 0, len(docs))
	for _, doc := range docs {
		err := srv.blobs.Move(ctx, doc.StoredName, tombstoneKey(doc.StoredName))
		if err == nil {
			moved = append(moved, doc.StoredName)

			continue
		}
		if errors.Is(err, service.ErrBlobNotFound) {
			output.BlobsMissing++
			logger.Warn("Document blob already missing", slog.String("key", doc.StoredName))

			continue
		}

		logger.Error("Account deletion aborted by storage failure",
			slog.String("user_id", userID.String()),
			slog.String("key", doc.StoredName),
			slog.Any("error", err),
		)
		srv.restoreBlobs(ctx, moved)

		return nil, errors.Wrapf(domainerrors.ErrStorage, "move blob: %v", err)
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		removed, err := repoFactory.DocumentRepo().DeleteByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to delete document records")
		}
		output.DocumentsRemoved = int(removed)

		if err := repoFactory.UserRepo().Delete(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to delete user record")
		}

		return nil
	})
	if err != nil {
		srv.restoreBlobs(ctx, moved)

		return nil, err
	}
	srv.purgeTombstones(ctx, moved)

	if err := srv.sessions.Logout(ctx, token); err != nil {
		logger.Warn("Failed to revoke caller session", slog.Any("error", err))
	}
	revoked, err := srv.sessions.InvalidateUser(ctx, userID)
	if err != nil {
		logger.Warn("Failed to revoke user sessions", slog.Any("error", err))
	}
	output.SessionsRevoked = revoked

	srv.profiles.EvictQR(userID)

	logger.Info("Account deleted",
		slog.String("user_id", userID.String()),
		slog.Int("documents", output.DocumentsRemoved),
		slog.Int("blobs_missing", output.BlobsMissing),
	)

	publishEvent(ctx, srv.publisher, srv.logger, &service.AccountEvent{
		Type:      service.AccountEventDeleted,
		UserID:    userID.String(),
		Documents: output.DocumentsRemoved,
	})

	return output, nil
}

// restoreBlobs moves tombstoned blobs back to their keys. It keeps going after a
// failure so that as many documents as possible stay readable.
func (srv *accountService) restoreBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := srv.blobs.Move(context.WithoutCancel(ctx), tombstoneKey(key), key); err != nil {
			requestLogger(ctx, srv.logger).Error("Failed to restore document blob",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
	}
}

// purgeTombstones drops the blobs of committed deletions. A leftover tombstone
// belongs to no record and is only logged.
func (srv *accountService) purgeTombstones(ctx context.Context, keys []string) {
	for _, key := range keys {
		err := srv.blobs.Delete(context.WithoutCancel(ctx), tombstoneKey(key))
		if err != nil && !errors.Is(err, service.ErrBlobNotFound) {
			requestLogger(ctx, srv.logger).Warn("Failed to purge deleted blob",
				slog.String("key", tombstoneKey(key)),
				slog.Any("error", err),
			)
		}
	}
}

func (srv *accountService) normalizeLanguage(language string) (string, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return entity.DefaultLanguage, nil
	}
	if !slices.Contains(srv.languages, language) {
		return "", errors.Wrapf(domainerrors.ErrUnsupportedLanguage, "language %q is not supported", language)
	}

	return language, nil
}
