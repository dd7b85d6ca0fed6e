package vault

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"docvault/internal/models"
	"docvault/internal/store"
)

// CreateRevision uploads one immutable revision for (ownerID, path). The
// content is streamed once through the SHA-256 digest into the blob store,
// then the version number is allocated and the revision row committed inside
// one transaction. Identical content deduplicates to a single stored blob.
//
// The per-document lock covers the whole read-counter, hash, blob-write,
// insert-row, bump-counter sequence, so concurrent creators on one document
// serialize and receive a dense version sequence. A blob already written
// when the transaction rolls back is left orphaned; that is harmless and
// invisible to readers.
func (s *Service) CreateRevision(ctx context.Context, ownerID, path string, content io.Reader) (*models.Revision, error) {
	if s == nil || s.store == nil || s.blobs == nil {
		return nil, fmt.Errorf("vault service is not configured")
	}
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, validationError(err)
	}
	normalized, err := models.NormalizePath(path)
	if err != nil {
		return nil, validationError(err)
	}
	if content == nil {
		return nil, validationError(fmt.Errorf("content is required"))
	}

	// Reject empty uploads without buffering the payload.
	buffered := bufio.NewReader(content)
	if _, err := buffered.Peek(1); err != nil {
		if err == io.EOF {
			return nil, validationError(fmt.Errorf("content must not be empty"))
		}
		return nil, storageError(err)
	}

	unlock := s.docLocks.lock(documentKey(ownerID, normalized))
	defer unlock()

	put, err := s.blobs.Put(ctx, buffered)
	if err != nil {
		return nil, storageError(err)
	}

	doc, rev, err := s.store.CreateRevision(ctx, ownerID, normalized, put.SHA256, put.SizeBytes)
	if err != nil {
		if store.IsUniqueConstraint(err) {
			return nil, conflict(fmt.Errorf("version already allocated: %w", err))
		}
		return nil, err
	}

	s.log().Debug("revision created",
		"owner", ownerID,
		"path", normalized,
		"version", rev.Version,
		"sha256", rev.SHA256,
		"size_bytes", rev.SizeBytes,
		"next_version", doc.NextVersion,
	)
	return rev, nil
}
