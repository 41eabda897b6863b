package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"docvault/config"
	"docvault/internal/domain/repository"
	"docvault/internal/domain/service"
	"docvault/internal/infra/auth"
	blobstore "docvault/internal/infra/blob"
	"docvault/internal/infra/persistence/gormdb"
	"docvault/internal/infra/pubsub"
	"docvault/internal/infra/qrcode"
	"docvault/internal/infra/session"
	"docvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:    config.DriverSQLite,
			SQLiteDSN: fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		},
		Storage: config.StorageConfig{BucketURL: "mem://", MaxUploadBytes: 1 << 20},
		Auth: &config.AuthConfig{
			BcryptCost:    bcrypt.MinCost,
			SessionTTL:    time.Hour,
			SweepInterval: time.Minute,
			CookieName:    "docvault_session",
		},
		QRCode: &config.QRCodeConfig{
			Size:                 128,
			ErrorCorrectionLevel: "M",
			BaseURL:              "https://docs.example.com",
			CacheSize:            8,
		},
		Profile: &config.ProfileConfig{SupportedLanguages: config.DefaultSupportedLanguages()},
	}
	cfg.SecretKey.Session = "test-session-secret"

	return cfg
}

type fixtureOptions struct {
	blobs     service.BlobStore
	publisher service.EventPublisher
	txManager repository.TransactionManager
}

type fixtureOption func(*fixtureOptions)

func withBlobStore(blobs service.BlobStore) fixtureOption {
	return func(o *fixtureOptions) { o.blobs = blobs }
}

func withTxManager(txManager repository.TransactionManager) fixtureOption {
	return func(o *fixtureOptions) { o.txManager = txManager }
}

func withPublisher(publisher service.EventPublisher) fixtureOption {
	return func(o *fixtureOptions) { o.publisher = publisher }
}

// serviceFixtures wires every use case against in-memory SQLite, a memblob bucket and the in-memory session store.
type serviceFixtures struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	documentRepo repository.DocumentRepository
	sessionStore *session.MemoryStore
	blobs        service.BlobStore
	policy       usecase.AccessPolicy
	sessions     usecase.SessionUsecase
	profiles     usecase.ProfileUsecase
	documents    usecase.DocumentUsecase
	accounts     usecase.AccountUsecase
}

func newServiceFixtures(t *testing.T, opts ...fixtureOption) *serviceFixtures {
	t.Helper()

	cfg := newTestConfig()
	logger := newDiscardLogger()

	db, err := gormdb.Open(cfg, logger)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gormdb.Migrate(context.Background(), sqlDB, cfg.Database.Driver, logger))

	options := fixtureOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.blobs == nil {
		bucket := memblob.OpenBucket(nil)
		t.Cleanup(func() { _ = bucket.Close() })
		options.blobs = blobstore.NewBucketStore(bucket)
	}
	if options.txManager == nil {
		options.txManager = gormdb.NewTransactionManager(db)
	}
	if options.publisher == nil {
		options.publisher = pubsub.NewNoopPublisher(logger)
	}

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	hasher := auth.NewBcryptHasherWithRules(bcrypt.MinCost, auth.PasswordRules{MinLength: 1, MaxLength: 72})

	f := &serviceFixtures{
		cfg:          cfg,
		userRepo:     gormdb.NewUserRepository(db),
		documentRepo: gormdb.NewDocumentRepository(db),
		sessionStore: session.NewMemoryStore(),
		blobs:        options.blobs,
	}
	locks := NewUserLocks()

	f.policy = NewAccessPolicy(f.userRepo, f.documentRepo, logger)
	f.sessions = NewSessionService(f.userRepo, f.sessionStore, hasher, tokens, cfg, logger)
	f.profiles = NewProfileService(f.userRepo, qrcode.New(cfg), qrcode.NewCache(cfg), cfg, logger)
	f.documents = NewDocumentService(f.userRepo, f.documentRepo, f.blobs, f.policy, options.publisher, locks, cfg, logger)
	f.accounts = NewAccountService(AccountServiceParams{
		TxManager:    options.txManager,
		UserRepo:     f.userRepo,
		DocumentRepo: f.documentRepo,
		Blobs:        f.blobs,
		Hasher:       hasher,
		Policy:       f.policy,
		Sessions:     f.sessions,
		Profiles:     f.profiles,
		Publisher:    options.publisher,
		Locks:        locks,
		Config:       cfg,
		Logger:       logger,
	})

	return f
}

// register creates an account and fails the test on error.
func (f *serviceFixtures) register(t *testing.T, username, password string) uuid.UUID {
	t.Helper()

	user, err := f.accounts.Register(context.Background(), usecase.RegisterInput{
		Username: username,
		Password: password,
		Name:     username,
		Age:      30,
		Gender:   "other",
		Phone:    "555-0100",
		GovtID:   "GOV-" + username,
	})
	require.NoError(t, err)

	return user.ID
}

func (f *serviceFixtures) upload(t *testing.T, userID uuid.UUID, title, filename, content, date string) uuid.UUID {
	t.Helper()

	doc, err := f.documents.Upload(context.Background(), userID, usecase.UploadInput{
		Title:      title,
		Filename:   filename,
		Content:    []byte(content),
		UploadDate: date,
	})
	require.NoError(t, err)

	return doc.ID
}
