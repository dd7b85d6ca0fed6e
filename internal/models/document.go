package models

import (
	"fmt"
	"strings"
	"time"
)

const maxLogicalPathLength = 512

// Document is the owner-scoped logical document grouping an ordered
// revision history. NextVersion is the number the next upload receives;
// deletions repair it to max(live versions)+1, so it is a counter, not a
// count.
type Document struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Path        string    `json:"path"`
	NextVersion int       `json:"next_version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Revision is one immutable numbered snapshot of a document's content.
// Bytes live in the CAS under the sha256 digest; the storage key is derived
// from the digest and never persisted separately.
type Revision struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Version    int       `json:"version"`
	SHA256     string    `json:"sha256"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Address returns the revision-qualified address of a revision under its
// document path.
func (r Revision) Address(path string) string {
	return fmt.Sprintf("%s?revision=%d", path, r.Version)
}

// DocumentSummary is the list-view projection of a document.
type DocumentSummary struct {
	Path          string `json:"path"`
	RevisionCount int    `json:"revision_count"`
	NextVersion   int    `json:"next_version"`
	LatestVersion int    `json:"latest_version"`
}

// NormalizePath returns the canonical logical path: trimmed, rooted with a
// leading slash, trailing slash stripped.
func NormalizePath(raw string) (string, error) {
	path := strings.TrimSpace(raw)
	if path == "" || path == "/" {
		return "", fmt.Errorf("document path is required")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = strings.TrimRight(path, "/")
	if len(path) > maxLogicalPathLength {
		return "", fmt.Errorf("document path too long")
	}
	if strings.Contains(path, "//") {
		return "", fmt.Errorf("invalid document path")
	}
	for _, segment := range strings.Split(path[1:], "/") {
		if segment == "." || segment == ".." {
			return "", fmt.Errorf("document path must not contain relative segments")
		}
	}
	return path, nil
}

// ValidateOwnerID checks the opaque owner key resolved by the caller.
func ValidateOwnerID(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("owner id is required")
	}
	return nil
}
