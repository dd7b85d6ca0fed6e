package store

import (
	"context"

	"docvault/internal/models"
)

// DocumentStore is the persistence surface the vault service composes.
type DocumentStore interface {
	CreateRevision(ctx context.Context, ownerID, path, digest string, sizeBytes int64) (*models.Document, *models.Revision, error)
	GetDocument(ctx context.Context, ownerID, path string) (*models.Document, error)
	GetRevision(ctx context.Context, documentID string, version int) (*models.Revision, error)
	GetLatestRevision(ctx context.Context, documentID string) (*models.Revision, error)
	ListRevisions(ctx context.Context, documentID string) ([]models.Revision, error)
	ListDocuments(ctx context.Context, ownerID string) ([]models.DocumentSummary, error)
	DeleteRevision(ctx context.Context, documentID string, version int) (remaining int, documentDeleted bool, err error)
	CountRevisionsBySHA256(ctx context.Context, digest string) (int, error)
}

var _ DocumentStore = (*Store)(nil)
