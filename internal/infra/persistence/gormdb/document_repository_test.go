package gormdb

import (
	"context"
	"testing"
	"time"

	"docvault/internal/domain/entity"
	"docvault/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(userID uuid.UUID, title, date string) *entity.Document {
	uploadDate, _ := time.Parse(entity.UploadDateLayout, date)
	id := uuid.New()

	return &entity.Document{
		ID:           id,
		UserID:       userID,
		Title:        title,
		OriginalName: title + ".pdf",
		StoredName:   userID.String() + "/" + id.String() + ".pdf",
		ContentType:  "application/pdf",
		SizeBytes:    3,
		Checksum:     "abc",
		UploadDate:   uploadDate,
	}
}

func TestDocumentRepository_ListOrdering(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	docs := NewDocumentRepository(db)

	owner := newTestUser("alice")
	require.NoError(t, users.Create(ctx, owner))
	other := newTestUser("bob")
	require.NoError(t, users.Create(ctx, other))

	require.NoError(t, docs.Create(ctx, newTestDocument(owner.ID, "old", "2023-05-01")))
	require.NoError(t, docs.Create(ctx, newTestDocument(owner.ID, "new", "2024-02-10")))
	require.NoError(t, docs.Create(ctx, newTestDocument(owner.ID, "mid", "2023-12-31")))
	require.NoError(t, docs.Create(ctx, newTestDocument(other.ID, "foreign", "2025-01-01")))

	list, err := docs.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].Title)
	assert.Equal(t, "mid", list[1].Title)
	assert.Equal(t, "old", list[2].Title)
	assert.Equal(t, "2024-02-10", list[0].UploadDate.Format(entity.UploadDateLayout))

	empty, err := docs.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDocumentRepository_FindAndDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	docs := NewDocumentRepository(db)

	owner := newTestUser("alice")
	require.NoError(t, users.Create(ctx, owner))

	doc := newTestDocument(owner.ID, "passport", "2024-01-01")
	require.NoError(t, docs.Create(ctx, doc))

	byID, err := docs.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.StoredName, byID.StoredName)
	assert.Equal(t, owner.ID, byID.UserID)

	byName, err := docs.FindByStoredName(ctx, doc.StoredName)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, byName.ID)

	require.NoError(t, docs.Delete(ctx, doc.ID))
	_, err = docs.FindByID(ctx, doc.ID)
	assert.ErrorIs(t, err, repository.ErrDocumentNotFound)
	assert.ErrorIs(t, docs.Delete(ctx, doc.ID), repository.ErrDocumentNotFound)
}

func TestDocumentRepository_RejectsUnknownOwner(t *testing.T) {
	ctx := context.Background()
	docs := NewDocumentRepository(newTestDB(t))

	require.Error(t, docs.Create(ctx, newTestDocument(uuid.New(), "orphan", "2024-01-01")))
}

func TestTransactionManager_CascadeCommitsAndRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	docs := NewDocumentRepository(db)
	txManager := NewTransactionManager(db)

	owner := newTestUser("alice")
	require.NoError(t, users.Create(ctx, owner))
	require.NoError(t, docs.Create(ctx, newTestDocument(owner.ID, "a", "2024-01-01")))
	require.NoError(t, docs.Create(ctx, newTestDocument(owner.ID, "b", "2024-01-02")))

	boom := errors.New("boom")
	err := txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		if _, err := f.DocumentRepo().DeleteByUser(ctx, owner.ID); err != nil {
			return err
		}

		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := docs.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	var removed int64
	err = txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		n, err := f.DocumentRepo().DeleteByUser(ctx, owner.ID)
		if err != nil {
			return err
		}
		removed = n

		return f.UserRepo().Delete(ctx, owner.ID)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = users.FindByID(ctx, owner.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
