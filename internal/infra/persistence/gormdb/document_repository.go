package gormdb

import (
	"context"

	"docvault/internal/domain/entity"
	domainerrors "docvault/internal/domain/errors"
	"docvault/internal/domain/repository"
	"docvault/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository is the constructor for documentRepository.
func NewDocumentRepository(db *gorm.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

// Create persists a new document record.
func (repo *documentRepository) Create(ctx context.Context, doc *entity.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	docM := fromDocumentDomain(doc)

	if err := repo.db.WithContext(ctx).Create(docM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("document owner does not exist")
		}
		if isValueTooLong(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("document metadata exceeds column width")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create document")
	}

	doc.CreatedAt = docM.CreatedAt

	return nil
}

// FindByID retrieves a document by its identifier.
func (repo *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByStoredName retrieves a document by its blob key.
func (repo *documentRepository) FindByStoredName(ctx context.Context, storedName string) (*entity.Document, error) {
	return repo.findOne(ctx, "stored_name = ?", storedName)
}

func (repo *documentRepository) findOne(ctx context.Context, query string, arg any) (*entity.Document, error) {
	var docM model.DocumentModel
	if err := repo.db.WithContext(ctx).Where(query, arg).First(&docM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDocumentNotFound
		}

		return nil, errors.Wrap(err, "failed to find document")
	}

	return toDocumentDomain(&docM), nil
}

// ListByUser returns the user's documents, newest upload date first and newest insert breaking ties.
func (repo *documentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Document, error) {
	var docMs []model.DocumentModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_date DESC").
		Order("created_at DESC").
		Find(&docMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}

	docs := make([]*entity.Document, 0, len(docMs))
	for i := range docMs {
		docs = append(docs, toDocumentDomain(&docMs[i]))
	}

	return docs, nil
}

// Delete removes a single document record.
func (repo *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.DocumentModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete document")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDocumentNotFound
	}

	return nil
}

// DeleteByUser removes every document record of the user.
func (repo *documentRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := repo.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.DocumentModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user documents")
	}

	return result.RowsAffected, nil
}

func toDocumentDomain(data *model.DocumentModel) *entity.Document {
	if data == nil {
		return nil
	}

	return &entity.Document{
		ID:           data.ID,
		UserID:       data.UserID,
		Title:        data.Title,
		OriginalName: data.OriginalName,
		StoredName:   data.StoredName,
		ContentType:  data.ContentType,
		SizeBytes:    data.SizeBytes,
		Checksum:     data.Checksum,
		UploadDate:   data.UploadDate.UTC(),
		CreatedAt:    data.CreatedAt,
	}
}

func fromDocumentDomain(data *entity.Document) *model.DocumentModel {
	if data == nil {
		return nil
	}

	return &model.DocumentModel{
		ID:           data.ID,
		UserID:       data.UserID,
		Title:        data.Title,
		OriginalName: data.OriginalName,
		StoredName:   data.StoredName,
		ContentType:  data.ContentType,
		SizeBytes:    data.SizeBytes,
		Checksum:     data.Checksum,
		UploadDate:   data.UploadDate,
		CreatedAt:    data.CreatedAt,
	}
}
