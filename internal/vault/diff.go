package vault

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff op tags for one side-by-side row.
const (
	DiffOpEqual   = "equal"
	DiffOpReplace = "replace"
	DiffOpDelete  = "delete"
	DiffOpInsert  = "insert"
)

// DiffRow is one aligned row of a side-by-side comparison. Line numbers are
// 1-based; 0 marks an absent side (pure insert or delete).
type DiffRow struct {
	Op          string `json:"op"`
	LeftNumber  int    `json:"left_number,omitempty"`
	LeftLine    string `json:"left_line,omitempty"`
	RightNumber int    `json:"right_number,omitempty"`
	RightLine   string `json:"right_line,omitempty"`
}

// Diff is a full line-oriented comparison of two revisions of one document.
// The left side is the from revision, the right side the to revision; line
// order is preserved and nothing is truncated to a context window.
type Diff struct {
	Path        string    `json:"path"`
	FromVersion int       `json:"from_version"`
	ToVersion   int       `json:"to_version"`
	FromLabel   string    `json:"from_label"`
	ToLabel     string    `json:"to_label"`
	Rows        []DiffRow `json:"rows"`
}

// Diff compares two UTF-8 text revisions of (ownerID, path). Both selectors
// are required; both revisions must exist in the same owner-scoped document.
// Content that does not decode as UTF-8 is rejected as unsupported, since
// binary diffing is out of scope.
func (s *Service) Diff(ctx context.Context, ownerID, path, fromSelector, toSelector string) (*Diff, error) {
	if s == nil || s.store == nil || s.blobs == nil {
		return nil, fmt.Errorf("vault service is not configured")
	}
	if fromSelector == "" || toSelector == "" {
		return nil, validationError(fmt.Errorf("from and to revisions are required"))
	}

	doc, err := s.resolveDocument(ctx, ownerID, path)
	if err != nil {
		return nil, err
	}
	fromRev, err := s.revisionBySelector(ctx, doc, fromSelector)
	if err != nil {
		return nil, err
	}
	toRev, err := s.revisionBySelector(ctx, doc, toSelector)
	if err != nil {
		return nil, err
	}

	fromText, err := s.readRevisionText(ctx, fromRev.SHA256)
	if err != nil {
		return nil, err
	}
	toText, err := s.readRevisionText(ctx, toRev.SHA256)
	if err != nil {
		return nil, err
	}

	return &Diff{
		Path:        doc.Path,
		FromVersion: fromRev.Version,
		ToVersion:   toRev.Version,
		FromLabel:   fmt.Sprintf("Revision %d", fromRev.Version),
		ToLabel:     fmt.Sprintf("Revision %d", toRev.Version),
		Rows:        sideBySideRows(splitLines(fromText), splitLines(toText)),
	}, nil
}

func (s *Service) readRevisionText(ctx context.Context, digest string) (string, error) {
	rc, err := s.blobs.Open(ctx, digest)
	if err != nil {
		return "", storageError(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", storageError(err)
	}
	if !utf8.Valid(data) {
		return "", unsupportedContent(fmt.Errorf("diff is only supported for UTF-8 text content"))
	}
	return string(data), nil
}

// sideBySideRows aligns two line slices into side-by-side rows using
// sequence-matcher opcodes. Replace blocks of unequal length pad the shorter
// side with absent lines.
func sideBySideRows(left, right []string) []DiffRow {
	matcher := difflib.NewMatcher(left, right)
	rows := []DiffRow{}
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for k := 0; k < op.I2-op.I1; k++ {
				rows = append(rows, DiffRow{
					Op:          DiffOpEqual,
					LeftNumber:  op.I1 + k + 1,
					LeftLine:    left[op.I1+k],
					RightNumber: op.J1 + k + 1,
					RightLine:   right[op.J1+k],
				})
			}
		case 'r':
			n := op.I2 - op.I1
			if m := op.J2 - op.J1; m > n {
				n = m
			}
			for k := 0; k < n; k++ {
				row := DiffRow{Op: DiffOpReplace}
				if op.I1+k < op.I2 {
					row.LeftNumber = op.I1 + k + 1
					row.LeftLine = left[op.I1+k]
				}
				if op.J1+k < op.J2 {
					row.RightNumber = op.J1 + k + 1
					row.RightLine = right[op.J1+k]
				}
				rows = append(rows, row)
			}
		case 'd':
			for k := op.I1; k < op.I2; k++ {
				rows = append(rows, DiffRow{Op: DiffOpDelete, LeftNumber: k + 1, LeftLine: left[k]})
			}
		case 'i':
			for k := op.J1; k < op.J2; k++ {
				rows = append(rows, DiffRow{Op: DiffOpInsert, RightNumber: k + 1, RightLine: right[k]})
			}
		}
	}
	return rows
}

// splitLines splits text into lines without a phantom empty line after a
// trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
