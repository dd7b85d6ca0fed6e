package vault

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"docvault/internal/models"
)

// GetRevision resolves (ownerID, path) and returns one revision's metadata
// plus its byte stream from the blob store. An empty selector means the
// highest-numbered live revision. A selector that is not a base-10 integer,
// or that names no live revision, reports not found, same as a missing
// document.
func (s *Service) GetRevision(ctx context.Context, ownerID, path, selector string) (*models.Revision, io.ReadCloser, error) {
	if s == nil || s.store == nil || s.blobs == nil {
		return nil, nil, fmt.Errorf("vault service is not configured")
	}
	rev, _, err := s.resolveRevision(ctx, ownerID, path, selector)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Open(ctx, rev.SHA256)
	if err != nil {
		return nil, nil, storageError(err)
	}
	return rev, rc, nil
}

// ListDocuments lists one owner's documents ordered by path.
func (s *Service) ListDocuments(ctx context.Context, ownerID string) ([]models.DocumentSummary, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("vault service is not configured")
	}
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, validationError(err)
	}
	return s.store.ListDocuments(ctx, ownerID)
}

// ListRevisions lists every revision of one document, newest first.
func (s *Service) ListRevisions(ctx context.Context, ownerID, path string) ([]models.Revision, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("vault service is not configured")
	}
	doc, err := s.resolveDocument(ctx, ownerID, path)
	if err != nil {
		return nil, err
	}
	return s.store.ListRevisions(ctx, doc.ID)
}

func (s *Service) resolveDocument(ctx context.Context, ownerID, path string) (*models.Document, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, validationError(err)
	}
	normalized, err := models.NormalizePath(path)
	if err != nil {
		return nil, validationError(err)
	}
	doc, err := s.store.GetDocument(ctx, ownerID, normalized)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, notFoundf("document not found")
	}
	return doc, nil
}

func (s *Service) resolveRevision(ctx context.Context, ownerID, path, selector string) (*models.Revision, *models.Document, error) {
	doc, err := s.resolveDocument(ctx, ownerID, path)
	if err != nil {
		return nil, nil, err
	}
	rev, err := s.revisionBySelector(ctx, doc, selector)
	if err != nil {
		return nil, nil, err
	}
	return rev, doc, nil
}

func (s *Service) revisionBySelector(ctx context.Context, doc *models.Document, selector string) (*models.Revision, error) {
	var rev *models.Revision
	var err error
	if selector == "" {
		rev, err = s.store.GetLatestRevision(ctx, doc.ID)
	} else {
		version, parseErr := strconv.Atoi(selector)
		if parseErr != nil {
			return nil, notFoundf("revision not found")
		}
		rev, err = s.store.GetRevision(ctx, doc.ID, version)
	}
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, notFoundf("revision not found")
	}
	return rev, nil
}
