package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"docvault/config"
	"docvault/internal/domain/entity"
	domainerrors "docvault/internal/domain/errors"
	"docvault/internal/domain/repository"
	"docvault/internal/domain/service"
	"docvault/internal/usecase"
	"docvault/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// documentService implements the DocumentUsecase interface.
type documentService struct {
	userRepo       repository.UserRepository
	documentRepo   repository.DocumentRepository
	blobs          service.BlobStore
	policy         usecase.AccessPolicy
	publisher      service.EventPublisher
	locks          *UserLocks
	maxUploadBytes int64
	logger         *slog.Logger
	now            func() time.Time
}

// NewDocumentService is the constructor for documentService.
func NewDocumentService(
	userRepo repository.UserRepository,
	documentRepo repository.DocumentRepository,
	blobs service.BlobStore,
	policy usecase.AccessPolicy,
	publisher service.EventPublisher,
	locks *UserLocks,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.DocumentUsecase {
	return &documentService{
		userRepo:       userRepo,
		documentRepo:   documentRepo,
		blobs:          blobs,
		policy:         policy,
		publisher:      publisher,
		locks:          locks,
		maxUploadBytes: cfg.Storage.MaxUploadBytes,
		logger:         logger,
		now:            time.Now,
	}
}

// Upload stores the blob first and the record second. A failed record insert removes the blob again.
func (srv *documentService) Upload(ctx context.Context, userID uuid.UUID, input usecase.UploadInput) (*entity.Document, error) {
	logger := requestLogger(ctx, srv.logger)

	if len(input.Content) == 0 {
		return nil, errors.Wrap(domainerrors.ErrEmptyUpload, "file has no content")
	}
	if srv.maxUploadBytes > 0 && int64(len(input.Content)) > srv.maxUploadBytes {
		return nil, errors.Wrapf(domainerrors.ErrUploadTooLarge, "file exceeds %s", util.FormatBytes(srv.maxUploadBytes))
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "title is required")
	}
	if utf8.RuneCountInString(title) > entity.MaxTitleLength {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "title exceeds %d characters", entity.MaxTitleLength)
	}

	originalName, err := SanitizeFilename(input.Filename)
	if err != nil {
		return nil, err
	}

	uploadDate, err := srv.parseUploadDate(input.UploadDate)
	if err != nil {
		return nil, err
	}

	unlock := srv.locks.Lock(userID)
	defer unlock()

	if _, err := srv.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "document owner does not exist")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	docID := uuid.New()
	doc := &entity.Document{
		ID:           docID,
		UserID:       userID,
		Title:        title,
		OriginalName: originalName,
		StoredName:   userID.String() + "/" + docID.String() + storedExtension(originalName),
		ContentType:  mimetype.Detect(input.Content).String(),
		SizeBytes:    int64(len(input.Content)),
		Checksum:     util.ChecksumBytes(input.Content),
		UploadDate:   uploadDate,
	}

	if err := srv.blobs.Write(ctx, doc.StoredName, input.Content, doc.ContentType); err != nil {
		logger.Error("Failed to write document blob", slog.String("key", doc.StoredName), slog.Any("error", err))

		return nil, errors.Wrapf(domainerrors.ErrStorage, "write blob: %v", err)
	}

	if err := srv.documentRepo.Create(ctx, doc); err != nil {
		if delErr := srv.blobs.Delete(ctx, doc.StoredName); delErr != nil && !errors.Is(delErr, service.ErrBlobNotFound) {
			logger.Error("Failed to remove blob after record insert failed",
				slog.String("key", doc.StoredName),
				slog.Any("error", delErr),
			)
		}

		return nil, errors.Wrap(err, "failed to create document record")
	}

	logger.Info("Document uploaded",
		slog.String("document_id", doc.ID.String()),
		slog.String("size", util.FormatBytes(doc.SizeBytes)),
		slog.String("content_type", doc.ContentType),
	)

	publishEvent(ctx, srv.publisher, srv.logger, &service.AccountEvent{
		Type:       service.AccountEventDocumentUploaded,
		UserID:     userID.String(),
		DocumentID: doc.ID.String(),
	})

	return doc, nil
}

// List returns only the caller's documents, newest upload date first.
func (srv *documentService) List(ctx context.Context, userID uuid.UUID) ([]*entity.Document, error) {
	docs, err := srv.documentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}

	return docs, nil
}

// Get returns the metadata of one of the caller's documents.
func (srv *documentService) Get(ctx context.Context, userID, documentID uuid.UUID) (*entity.Document, error) {
	return srv.policy.AuthorizeDocument(ctx, userID, documentID)
}

// FetchByID returns a document and its content after the ownership check.
func (srv *documentService) FetchByID(ctx context.Context, userID, documentID uuid.UUID) (*usecase.DocumentContent, error) {
	doc, err := srv.policy.AuthorizeDocument(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	return srv.readContent(ctx, doc)
}

// FetchByFilename resolves a stored name to its record, checks ownership, then reads the blob.
// Names without a record are NotFound even when a blob of that name exists.
func (srv *documentService) FetchByFilename(ctx context.Context, userID uuid.UUID, storedName string) (*usecase.DocumentContent, error) {
	doc, err := srv.documentRepo.FindByStoredName(ctx, storedName)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, errors.Wrap(domainerrors.ErrDocumentNotFound, "no document for file name")
		}

		return nil, errors.Wrap(err, "failed to find document")
	}

	if err := srv.policy.Authorize(ctx, userID, usecase.Resource{Kind: usecase.ResourceDocument, OwnerID: doc.UserID}); err != nil {
		return nil, err
	}

	return srv.readContent(ctx, doc)
}

// Delete removes one of the caller's documents. A blob that is already gone does not block the delete.
func (srv *documentService) Delete(ctx context.Context, userID, documentID uuid.UUID) error {
	unlock := srv.locks.Lock(userID)
	defer unlock()

	doc, err := srv.policy.AuthorizeDocument(ctx, userID, documentID)
	if err != nil {
		return err
	}

	if err := srv.blobs.Delete(ctx, doc.StoredName); err != nil {
		if !errors.Is(err, service.ErrBlobNotFound) {
			return errors.Wrapf(domainerrors.ErrStorage, "delete blob: %v", err)
		}
		requestLogger(ctx, srv.logger).Warn("Document blob already missing", slog.String("key", doc.StoredName))
	}

	if err := srv.documentRepo.Delete(ctx, doc.ID); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return errors.Wrap(domainerrors.ErrDocumentNotFound, "document not found")
		}

		return errors.Wrap(err, "failed to delete document record")
	}

	return nil
}

func (srv *documentService) readContent(ctx context.Context, doc *entity.Document) (*usecase.DocumentContent, error) {
	data, err := srv.blobs.Read(ctx, doc.StoredName)
	if err != nil {
		if errors.Is(err, service.ErrBlobNotFound) {
			return nil, errors.Wrap(domainerrors.ErrDocumentNotFound, "document content is missing")
		}

		return nil, errors.Wrapf(domainerrors.ErrStorage, "read blob: %v", err)
	}

	return &usecase.DocumentContent{Document: doc, Data: data}, nil
}

func (srv *documentService) parseUploadDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		y, m, d := srv.now().UTC().Date()

		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}

	date, err := time.Parse(entity.UploadDateLayout, raw)
	if err != nil {
		return time.Time{}, errors.Wrapf(domainerrors.ErrValidationFailed, "upload date %q is not YYYY-MM-DD", raw)
	}

	return date, nil
}
