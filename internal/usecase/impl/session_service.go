package impl

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync"
	"time"

	"docvault/config"
	"docvault/internal/domain/entity"
	domainerrors "docvault/internal/domain/errors"
	"docvault/internal/domain/repository"
	"docvault/internal/domain/service"
	"docvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const sessionSecretBytes = 32

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	hasher      service.PasswordHasher
	tokens      service.TokenService
	ttl         time.Duration
	logger      *slog.Logger
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	hasher service.PasswordHasher,
	tokens service.TokenService,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		ttl:         cfg.Auth.SessionTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// Login verifies the password and opens a session. Unknown usernames and wrong
// passwords produce the same error after the same amount of hashing work.
func (srv *sessionService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	logger := requestLogger(ctx, srv.logger)

	// Usernames are stored trimmed.
	user, err := srv.userRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(err, "failed to find user")
		}
		srv.hasher.Check(input.Password, srv.timingHash())
		logger.Info("Login rejected", slog.String("reason", "unknown username"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown username")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		logger.Info("Login rejected", slog.String("reason", "wrong password"), slog.String("user_id", user.ID.String()))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "wrong password")
	}

	secret, err := newSessionSecret()
	if err != nil {
		return nil, err
	}

	now := srv.now()
	session := &entity.Session{
		UserID:    user.ID,
		TokenHash: hashSessionSecret(secret),
		ExpiresAt: now.Add(srv.ttl),
		CreatedAt: now,
	}

	token, err := srv.tokens.IssueSessionToken(secret, user.ID, session.ExpiresAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue session token")
	}

	if err := srv.sessionRepo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to store session")
	}

	logger.Info("User logged in", slog.String("user_id", user.ID.String()))

	return &usecase.LoginOutput{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}, nil
}

// Authenticate checks the token signature first and the session store second.
func (srv *sessionService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, errors.Wrap(domainerrors.ErrUnauthenticated, "missing session token")
	}

	claims, err := srv.tokens.ParseSessionToken(token)
	if err != nil {
		return uuid.Nil, errors.Wrapf(domainerrors.ErrUnauthenticated, "invalid session token: %v", err)
	}

	session, err := srv.sessionRepo.FindByTokenHash(ctx, hashSessionSecret(claims.ID))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return uuid.Nil, errors.Wrap(domainerrors.ErrUnauthenticated, "session revoked or expired")
		}

		return uuid.Nil, errors.Wrap(err, "failed to look up session")
	}

	if session.UserID != claims.UserID || session.Expired(srv.now()) {
		return uuid.Nil, errors.Wrap(domainerrors.ErrUnauthenticated, "session does not match token")
	}

	return session.UserID, nil
}

// Logout revokes the session behind the token. Tokens that do not parse have no session to revoke.
func (srv *sessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := srv.tokens.ParseSessionToken(token)
	if err != nil {
		requestLogger(ctx, srv.logger).Debug("Logout with unusable token", slog.Any("error", err))

		return nil
	}

	if err := srv.sessionRepo.DeleteByTokenHash(ctx, hashSessionSecret(claims.ID)); err != nil {
		return errors.Wrap(err, "failed to revoke session")
	}

	return nil
}

// InvalidateUser drops every session of the user.
func (srv *sessionService) InvalidateUser(ctx context.Context, userID uuid.UUID) (int, error) {
	removed, err := srv.sessionRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to revoke user sessions")
	}

	return removed, nil
}

// timingHash lazily hashes a throwaway password with the configured cost.
func (srv *sessionService) timingHash() string {
	srv.dummyOnce.Do(func() {
		hash, err := srv.hasher.Hash("docvault-login-timing")
		if err != nil {
			srv.logger.Error("Failed to prepare timing hash", slog.Any("error", err))

			return
		}
		srv.dummyHash = hash
	})

	return srv.dummyHash
}

func newSessionSecret() (string, error) {
	buf := make([]byte, sessionSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate session secret")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashSessionSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))

	return hex.EncodeToString(sum[:])
}
