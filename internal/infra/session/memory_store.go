// Package session keeps live login sessions in process memory.
// Sessions are lost on restart and every client has to log in again.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"docvault/config"
	"docvault/internal/domain/entity"
	"docvault/internal/domain/repository"
	"docvault/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const defaultSweepInterval = 5 * time.Minute

// MemoryStore implements repository.SessionRepository with a mutex-guarded map.
type MemoryStore struct {
	mu     sync.RWMutex
	byHash map[string]*entity.Session
	byUser map[uuid.UUID]map[string]struct{}
	now    func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byHash: make(map[string]*entity.Session),
		byUser: make(map[uuid.UUID]map[string]struct{}),
		now:    time.Now,
	}
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New provides the store to fx and runs the expiry sweeper for the lifetime of the app.
func New(params Params) repository.SessionRepository {
	store := NewMemoryStore()

	interval := defaultSweepInterval
	if params.Config.Auth != nil && params.Config.Auth.SweepInterval > 0 {
		interval = params.Config.Auth.SweepInterval
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			params.Logger.Info("Session sweeper started", slog.String("interval", util.FormatDuration(interval)))
			go func() {
				defer close(done)
				store.RunSweeper(sweepCtx, interval, params.Logger)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
			}

			return nil
		},
	})

	return store
}

// RunSweeper purges expired sessions every interval until ctx is cancelled.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, _ := s.DeleteExpired(ctx, s.now())
			if removed > 0 && logger != nil {
				logger.Debug("Expired sessions purged", slog.Int("count", removed))
			}
		}
	}
}

// Create stores a new session.
func (s *MemoryStore) Create(_ context.Context, session *entity.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	stored := *session

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byHash[stored.TokenHash] = &stored
	tokens, ok := s.byUser[stored.UserID]
	if !ok {
		tokens = make(map[string]struct{})
		s.byUser[stored.UserID] = tokens
	}
	tokens[stored.TokenHash] = struct{}{}

	return nil
}

// FindByTokenHash returns a copy of the live session. An expired session is dropped on sight.
func (s *MemoryStore) FindByTokenHash(_ context.Context, tokenHash string) (*entity.Session, error) {
	s.mu.RLock()
	found, ok := s.byHash[tokenHash]
	s.mu.RUnlock()

	if !ok {
		return nil, repository.ErrSessionNotFound
	}

	if found.Expired(s.now()) {
		s.mu.Lock()
		s.removeLocked(tokenHash)
		s.mu.Unlock()

		return nil, repository.ErrSessionNotFound
	}

	session := *found

	return &session, nil
}

// DeleteByTokenHash removes the session for the hashed token.
func (s *MemoryStore) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(tokenHash)

	return nil
}

// DeleteByUserID removes every session of the user.
func (s *MemoryStore) DeleteByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := s.byUser[userID]
	for tokenHash := range tokens {
		delete(s.byHash, tokenHash)
	}
	delete(s.byUser, userID)

	return len(tokens), nil
}

// DeleteExpired removes sessions whose expiry is not after now.
func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for tokenHash, session := range s.byHash {
		if session.Expired(now) {
			s.removeLocked(tokenHash)
			removed++
		}
	}

	return removed, nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byHash)
}

func (s *MemoryStore) removeLocked(tokenHash string) {
	session, ok := s.byHash[tokenHash]
	if !ok {
		return
	}
	delete(s.byHash, tokenHash)

	if tokens, ok := s.byUser[session.UserID]; ok {
		delete(tokens, tokenHash)
		if len(tokens) == 0 {
			delete(s.byUser, session.UserID)
		}
	}
}
