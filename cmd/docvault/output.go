package main

import (
	"fmt"
	"os"
	"time"

	"docvault/internal/format"
	"docvault/internal/models"
	"docvault/internal/vault"
)

var outputFormatter format.Formatter = format.JSONFormatter{Indent: "  "}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeDocumentList(docs []models.DocumentSummary) error {
	for _, doc := range docs {
		plural := "s"
		if doc.RevisionCount == 1 {
			plural = ""
		}
		if err := writePlain("%s (%d revision%s, latest %d)\n", doc.Path, doc.RevisionCount, plural, doc.LatestVersion); err != nil {
			return err
		}
	}
	return nil
}

func writeRevisionList(path string, revs []models.Revision) error {
	for _, rev := range revs {
		if err := writePlain("%s\n", formatRevisionLine(path, rev)); err != nil {
			return err
		}
	}
	return nil
}

func writeRevisionDetail(path string, rev *models.Revision) error {
	return writePlain("%s  %d bytes  sha256=%s  created=%s\n",
		rev.Address(path), rev.SizeBytes, rev.SHA256, formatTime(rev.CreatedAt))
}

func formatRevisionLine(path string, rev models.Revision) string {
	return fmt.Sprintf("%s  %d bytes  %s  %s",
		rev.Address(path), rev.SizeBytes, shortDigest(rev.SHA256), formatTime(rev.CreatedAt))
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

func writeDiffText(diff *vault.Diff) error {
	if err := writePlain("--- %s (%s)\n+++ %s (%s)\n", diff.Path, diff.FromLabel, diff.Path, diff.ToLabel); err != nil {
		return err
	}
	for _, row := range diff.Rows {
		var err error
		switch row.Op {
		case vault.DiffOpEqual:
			err = writePlain("  %4d %4d  %s\n", row.LeftNumber, row.RightNumber, row.LeftLine)
		case vault.DiffOpDelete:
			err = writePlain("- %4d       %s\n", row.LeftNumber, row.LeftLine)
		case vault.DiffOpInsert:
			err = writePlain("+      %4d  %s\n", row.RightNumber, row.RightLine)
		case vault.DiffOpReplace:
			if row.LeftNumber != 0 {
				err = writePlain("- %4d       %s\n", row.LeftNumber, row.LeftLine)
			}
			if err == nil && row.RightNumber != 0 {
				err = writePlain("+      %4d  %s\n", row.RightNumber, row.RightLine)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// displayPath shows the canonical form of a user-supplied path. Paths that
// fail normalization never reach output, so the raw value is a safe fallback.
func displayPath(raw string) string {
	if normalized, err := models.NormalizePath(raw); err == nil {
		return normalized
	}
	return raw
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
