package vault

import (
	"errors"
	"fmt"
)

// errKind classifies domain errors surfaced to the calling layer.
type errKind int

const (
	kindValidation errKind = iota + 1
	kindNotFound
	kindUnsupportedContent
	kindStorage
	kindConflict
)

// domainError wraps an underlying error with its domain classification.
// Absent documents, wrong-owner documents, and unparseable or out-of-range
// version selectors all collapse into the not-found kind so callers cannot
// probe for existence.
type domainError struct {
	kind errKind
	err  error
}

func (e domainError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e domainError) Unwrap() error {
	return e.err
}

func makeError(kind errKind, err error) error {
	if err == nil {
		err = errors.New("unknown error")
	}
	var existing domainError
	if errors.As(err, &existing) {
		if existing.kind != 0 {
			return existing
		}
	}
	return domainError{kind: kind, err: err}
}

func validationError(err error) error {
	return makeError(kindValidation, err)
}

func notFoundf(format string, args ...any) error {
	return makeError(kindNotFound, fmt.Errorf(format, args...))
}

func unsupportedContent(err error) error {
	return makeError(kindUnsupportedContent, err)
}

func storageError(err error) error {
	return makeError(kindStorage, err)
}

func conflict(err error) error {
	return makeError(kindConflict, err)
}

func isKind(err error, kind errKind) bool {
	var de domainError
	return errors.As(err, &de) && de.kind == kind
}

// IsValidation reports invalid input: a bad owner key, a bad document path,
// or missing or empty content.
func IsValidation(err error) bool { return isKind(err, kindValidation) }

// IsNotFound reports an absent document or revision, including wrong-owner
// lookups and malformed version selectors.
func IsNotFound(err error) bool { return isKind(err, kindNotFound) }

// IsUnsupportedContent reports non-UTF-8 content passed to diff.
func IsUnsupportedContent(err error) bool { return isKind(err, kindUnsupportedContent) }

// IsStorage reports a fatal blob I/O failure.
func IsStorage(err error) bool { return isKind(err, kindStorage) }

// IsConflict reports a version-number uniqueness violation. It is
// unreachable under correct locking and is never retried.
func IsConflict(err error) bool { return isKind(err, kindConflict) }
