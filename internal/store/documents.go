package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"docvault/internal/models"
)

const documentColumns = "id, owner_id, path, next_version, created_at, updated_at"
const revisionColumns = "id, document_id, version, sha256, size_bytes, created_at, updated_at"

// CreateRevision allocates the next version for (ownerID, path) and inserts
// the revision row in one transaction. The document row is created on first
// upload via an upsert, so two racing first uploads converge on one row.
// The returned document carries the bumped counter.
func (s *Store) CreateRevision(ctx context.Context, ownerID, path, digest string, sizeBytes int64) (_ *models.Document, _ *models.Revision, err error) {
	ownerID = strings.TrimSpace(ownerID)
	digest = strings.ToLower(strings.TrimSpace(digest))
	if ownerID == "" {
		return nil, nil, fmt.Errorf("owner id is required")
	}
	if path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}
	if digest == "" {
		return nil, nil, fmt.Errorf("sha256 is required")
	}
	if sizeBytes < 0 {
		return nil, nil, fmt.Errorf("size_bytes must be >= 0")
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	docID, err := GenerateDocumentID(func(id string) (bool, error) {
		return rowExistsTx(ctx, tx, "SELECT 1 FROM documents WHERE id = ? LIMIT 1", id)
	})
	if err != nil {
		return nil, nil, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, owner_id, path, next_version, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT(owner_id, path) DO NOTHING
	`, docID, ownerID, path, dbFormatTime(now), dbFormatTime(now)); err != nil {
		return nil, nil, err
	}

	doc, err := scanDocument(tx.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE owner_id = ? AND path = ?`, ownerID, path))
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, fmt.Errorf("document not found after upsert")
	}

	revID, err := GenerateRevisionID(func(id string) (bool, error) {
		return rowExistsTx(ctx, tx, "SELECT 1 FROM revisions WHERE id = ? LIMIT 1", id)
	})
	if err != nil {
		return nil, nil, err
	}

	rev := &models.Revision{
		ID:         revID,
		DocumentID: doc.ID,
		Version:    doc.NextVersion,
		SHA256:     digest,
		SizeBytes:  sizeBytes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO revisions (id, document_id, version, sha256, size_bytes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rev.ID, rev.DocumentID, rev.Version, rev.SHA256, rev.SizeBytes, dbFormatTime(rev.CreatedAt), dbFormatTime(rev.UpdatedAt)); err != nil {
		return nil, nil, err
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE documents SET next_version = ?, updated_at = ? WHERE id = ?
	`, doc.NextVersion+1, dbFormatTime(now), doc.ID); err != nil {
		return nil, nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, err
	}

	doc.NextVersion++
	doc.UpdatedAt = now
	return doc, rev, nil
}

// GetDocument returns one document scoped to ownerID, or nil when absent.
// Another owner's document at the same path is indistinguishable from a
// missing one.
func (s *Store) GetDocument(ctx context.Context, ownerID, path string) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE owner_id = ? AND path = ?`, strings.TrimSpace(ownerID), path)
	return scanDocument(row)
}

// GetRevision returns one revision of a document by version, or nil.
func (s *Store) GetRevision(ctx context.Context, documentID string, version int) (*models.Revision, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+revisionColumns+` FROM revisions WHERE document_id = ? AND version = ?`, documentID, version)
	return scanRevision(row)
}

// GetLatestRevision returns the highest-numbered live revision of a
// document, or nil when the document has none. Deletions can remove the
// prior maximum, so this is not necessarily next_version-1.
func (s *Store) GetLatestRevision(ctx context.Context, documentID string) (*models.Revision, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+revisionColumns+` FROM revisions WHERE document_id = ? ORDER BY version DESC LIMIT 1`, documentID)
	return scanRevision(row)
}

// ListRevisions lists all revisions of a document, newest first.
func (s *Store) ListRevisions(ctx context.Context, documentID string) ([]models.Revision, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+revisionColumns+` FROM revisions WHERE document_id = ? ORDER BY version DESC`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revisions := []models.Revision{}
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		if rev != nil {
			revisions = append(revisions, *rev)
		}
	}
	return revisions, rows.Err()
}

// ListDocuments lists one owner's documents ordered by path, with revision
// counts and the latest live version number.
func (s *Store) ListDocuments(ctx context.Context, ownerID string) ([]models.DocumentSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.path, COUNT(r.id), d.next_version, COALESCE(MAX(r.version), -1)
		FROM documents d
		LEFT JOIN revisions r ON r.document_id = d.id
		WHERE d.owner_id = ?
		GROUP BY d.id
		ORDER BY d.path ASC
	`, strings.TrimSpace(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.DocumentSummary{}
	for rows.Next() {
		var s models.DocumentSummary
		if err := rows.Scan(&s.Path, &s.RevisionCount, &s.NextVersion, &s.LatestVersion); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// DeleteRevision removes one revision row and repairs the document in the
// same transaction: the document is deleted when its last revision goes,
// otherwise its counter becomes max(remaining versions)+1 so the next
// allocation continues after the highest survivor.
func (s *Store) DeleteRevision(ctx context.Context, documentID string, version int) (remaining int, documentDeleted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, "DELETE FROM revisions WHERE document_id = ? AND version = ?", documentID, version)
	if err != nil {
		return 0, false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, err
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return 0, false, err
	}

	var maxVersion sql.NullInt64
	if err = tx.QueryRowContext(ctx, "SELECT COUNT(*), MAX(version) FROM revisions WHERE document_id = ?", documentID).Scan(&remaining, &maxVersion); err != nil {
		return 0, false, err
	}

	if remaining == 0 {
		if _, err = tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", documentID); err != nil {
			return 0, false, err
		}
		documentDeleted = true
	} else {
		if _, err = tx.ExecContext(ctx, "UPDATE documents SET next_version = ?, updated_at = ? WHERE id = ?",
			maxVersion.Int64+1, dbFormatTime(time.Now().UTC()), documentID); err != nil {
			return 0, false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, false, err
	}
	return remaining, documentDeleted, nil
}

// CountRevisionsBySHA256 reports how many revisions, across all documents
// and owners, reference a content digest. Blob liveness is derived from
// this, not from a stored refcount.
func (s *Store) CountRevisionsBySHA256(ctx context.Context, digest string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM revisions WHERE sha256 = ?", strings.ToLower(strings.TrimSpace(digest))).Scan(&count)
	return count, err
}

func rowExistsTx(ctx context.Context, tx *sql.Tx, query, id string) (bool, error) {
	var exists int
	err := tx.QueryRowContext(ctx, query, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var doc models.Document
	var createdAt, updatedAt string
	err := row.Scan(&doc.ID, &doc.OwnerID, &doc.Path, &doc.NextVersion, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.CreatedAt, err = dbParseTime(createdAt); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = dbParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &doc, nil
}

func scanRevision(row rowScanner) (*models.Revision, error) {
	var rev models.Revision
	var createdAt, updatedAt string
	err := row.Scan(&rev.ID, &rev.DocumentID, &rev.Version, &rev.SHA256, &rev.SizeBytes, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rev.CreatedAt, err = dbParseTime(createdAt); err != nil {
		return nil, err
	}
	if rev.UpdatedAt, err = dbParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &rev, nil
}

func dbFormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func dbParseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
