package blobstore

import (
	"context"
	"io"
)

// PutResult describes one persisted blob payload.
type PutResult struct {
	SHA256    string
	SizeBytes int64
	BlobKey   string
}

// BlobStore is the content-addressed byte-storage abstraction used by the
// vault service. Operations address content by its hex SHA-256 digest;
// storage keys are derived from the digest and never taken as input, so a
// key can always be reconstructed from a persisted digest.
type BlobStore interface {
	Put(ctx context.Context, r io.Reader) (PutResult, error)
	Exists(ctx context.Context, digest string) (bool, error)
	Open(ctx context.Context, digest string) (io.ReadCloser, error)
	Delete(ctx context.Context, digest string) error
}
