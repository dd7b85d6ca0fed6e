// Package vault is the versioned, deduplicated document storage engine. It
// composes the document repository and the content-addressed blob store into
// the four operations callers see: revision creation, reads, retention, and
// diffs. Owner identity arrives as an opaque key already resolved by the
// caller.
package vault

import (
	"log/slog"

	"docvault/internal/blobstore"
	"docvault/internal/store"
)

// Service orchestrates document versioning over an injected repository and
// blob store. Construct it explicitly; there is no package-level instance.
type Service struct {
	store    store.DocumentStore
	blobs    blobstore.BlobStore
	docLocks *keyedMutex
	logger   *slog.Logger
}

// New constructs a Service.
func New(st store.DocumentStore, blobs blobstore.BlobStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    st,
		blobs:    blobs,
		docLocks: newKeyedMutex(),
		logger:   logger,
	}
}

func (s *Service) log() *slog.Logger {
	if s == nil || s.logger == nil {
		return slog.Default()
	}
	return s.logger
}
