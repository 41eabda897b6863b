// Package blob stores document content in a gocloud.dev bucket.
// The bucket URL scheme selects the backend: file://, mem://, s3:// or gs://.
package blob

import (
	"context"
	"log/slog"

	"docvault/config"
	"docvault/internal/domain/lifecycle"
	"docvault/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	_ "gocloud.dev/blob/s3blob"   // s3:// buckets
	"gocloud.dev/gcerrors"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type bucketStore struct {
	bucket *blob.Bucket
}

// New opens the configured bucket and closes it when the application stops.
func New(params Params) (service.BlobStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(ctx, params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", params.Config.Storage.BucketURL)
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			accessible, err := bucket.IsAccessible(ctx)
			if err != nil {
				return errors.Wrap(err, "failed to reach document bucket")
			}
			if !accessible {
				return errors.New("document bucket is not accessible")
			}

			params.Logger.Info("Document bucket ready", slog.String("url", params.Config.Storage.BucketURL))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return NewBucketStore(bucket), nil
}

// NewBucketStore wraps an already opened bucket.
func NewBucketStore(bucket *blob.Bucket) service.BlobStore {
	return &bucketStore{bucket: bucket}
}

// Write stores data under key.
func (s *bucketStore) Write(ctx context.Context, key string, data []byte, contentType string) error {
	opts := &blob.WriterOptions{ContentType: contentType}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return errors.Wrapf(err, "failed to write blob %s", key)
	}

	return nil
}

// Read returns the blob stored under key.
func (s *bucketStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, service.ErrBlobNotFound
		}

		return nil, errors.Wrapf(err, "failed to read blob %s", key)
	}

	return data, nil
}

// Delete removes the blob stored under key.
func (s *bucketStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return service.ErrBlobNotFound
		}

		return errors.Wrapf(err, "failed to delete blob %s", key)
	}

	return nil
}

// Move copies srcKey to dstKey and removes the source. When the source cannot
// be removed the copy is dropped again, so the blob lives under exactly one key.
func (s *bucketStore) Move(ctx context.Context, srcKey, dstKey string) error {
	if err := s.bucket.Copy(ctx, dstKey, srcKey, nil); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return service.ErrBlobNotFound
		}

		return errors.Wrapf(err, "failed to copy blob %s to %s", srcKey, dstKey)
	}

	if err := s.bucket.Delete(ctx, srcKey); err != nil {
		_ = s.bucket.Delete(ctx, dstKey)

		return errors.Wrapf(err, "failed to remove blob %s after copy", srcKey)
	}

	return nil
}

// Exists reports whether a blob is stored under key.
func (s *bucketStore) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return false, errors.Wrapf(err, "failed to stat blob %s", key)
	}

	return exists, nil
}
