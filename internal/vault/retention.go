package vault

import (
	"context"
	"fmt"

	"docvault/internal/models"
)

// DeleteRevision removes one revision. An empty selector targets the
// currently-latest revision, mirroring GetRevision's latest resolution.
// When the last revision goes, the document row goes with it; otherwise the
// document's counter is repaired to max(surviving versions)+1. The blob is
// reclaimed only when no revision anywhere, in any document or owner, still
// references its digest; a failed blob reclaim is logged and swallowed.
func (s *Service) DeleteRevision(ctx context.Context, ownerID, path, selector string) error {
	if s == nil || s.store == nil || s.blobs == nil {
		return fmt.Errorf("vault service is not configured")
	}
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return validationError(err)
	}
	normalized, err := models.NormalizePath(path)
	if err != nil {
		return validationError(err)
	}

	unlock := s.docLocks.lock(documentKey(ownerID, normalized))
	defer unlock()

	rev, doc, err := s.resolveRevision(ctx, ownerID, normalized, selector)
	if err != nil {
		return err
	}
	digest := rev.SHA256

	remaining, docDeleted, err := s.store.DeleteRevision(ctx, doc.ID, rev.Version)
	if err != nil {
		return err
	}

	s.log().Debug("revision deleted",
		"owner", ownerID,
		"path", normalized,
		"version", rev.Version,
		"remaining", remaining,
		"document_deleted", docDeleted,
	)

	s.reclaimBlob(ctx, digest)
	return nil
}

// reclaimBlob deletes the blob for digest when no revision references it
// anymore. Failures here are disk-space leaks, not correctness problems, so
// they never fail the deletion that triggered them.
func (s *Service) reclaimBlob(ctx context.Context, digest string) {
	count, err := s.store.CountRevisionsBySHA256(ctx, digest)
	if err != nil {
		s.log().Warn("blob liveness check failed", "sha256", digest, "error", err)
		return
	}
	if count > 0 {
		return
	}
	if err := s.blobs.Delete(ctx, digest); err != nil {
		s.log().Warn("blob reclaim failed", "sha256", digest, "error", err)
		return
	}
	s.log().Debug("blob reclaimed", "sha256", digest)
}
