package service

import (
	"context"

	"github.com/pkg/errors"
)

// ErrBlobNotFound is returned when no blob exists under the requested key.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is durable storage for opaque document content, addressed by key.
type BlobStore interface {
	// Write stores data under key, replacing any existing blob.
	Write(ctx context.Context, key string, data []byte, contentType string) error

	// Read returns the blob stored under key, or ErrBlobNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob stored under key, or returns ErrBlobNotFound.
	Delete(ctx context.Context, key string) error

	// Move renames srcKey to dstKey, or returns ErrBlobNotFound when srcKey is absent.
	Move(ctx context.Context, srcKey, dstKey string) error

	// Exists reports whether a blob is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}
