package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	casAlgorithmPrefix = "sha256"
	digestHexLength    = sha256.Size * 2
)

// LocalCAS stores blob bytes in a local content-addressed tree. Objects are
// write-once: a Put whose destination already exists is a dedup hit, never a
// rewrite, which makes concurrent identical-content writers convergent
// without locking.
type LocalCAS struct {
	root string
}

// NewLocalCAS creates a local CAS rooted at root.
func NewLocalCAS(root string) (*LocalCAS, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("local cas root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &LocalCAS{root: abs}, nil
}

// KeyForDigest returns the three-level shard key for a hex SHA-256 digest:
// sha256/<h[0:2]>/<h[2:4]>/<h>. The key is a pure function of the digest so
// persisted state only ever needs to carry the digest itself.
func KeyForDigest(digest string) (string, error) {
	digest = strings.ToLower(strings.TrimSpace(digest))
	if len(digest) != digestHexLength {
		return "", fmt.Errorf("invalid sha256 digest %q", digest)
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return "", fmt.Errorf("invalid sha256 digest %q", digest)
	}
	return fmt.Sprintf("%s/%s/%s/%s", casAlgorithmPrefix, digest[0:2], digest[2:4], digest), nil
}

// Put streams bytes once, computes SHA-256, and stores content by digest.
// Content is spooled to a temp file and published with a rename; if the
// destination already exists the temp copy is discarded and Put succeeds.
func (c *LocalCAS) Put(ctx context.Context, r io.Reader) (PutResult, error) {
	var zero PutResult
	if c == nil {
		return zero, fmt.Errorf("blob store is not configured")
	}
	if r == nil {
		return zero, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	tmp, err := os.CreateTemp(filepath.Join(c.root, "tmp"), "put-*")
	if err != nil {
		return zero, err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		cleanup()
		return zero, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return zero, err
	}

	digest := hex.EncodeToString(h.Sum(nil))
	key, err := KeyForDigest(digest)
	if err != nil {
		cleanup()
		return zero, err
	}
	dst := filepath.Join(c.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		cleanup()
		return zero, err
	}

	if _, err := os.Stat(dst); err == nil {
		_ = os.Remove(tmpPath)
		return PutResult{SHA256: digest, SizeBytes: n, BlobKey: key}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		cleanup()
		return zero, err
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		if _, statErr := os.Stat(dst); statErr == nil {
			_ = os.Remove(tmpPath)
			return PutResult{SHA256: digest, SizeBytes: n, BlobKey: key}, nil
		}
		cleanup()
		return zero, err
	}

	return PutResult{SHA256: digest, SizeBytes: n, BlobKey: key}, nil
}

// Exists reports whether content with the given digest is stored.
func (c *LocalCAS) Exists(ctx context.Context, digest string) (bool, error) {
	if c == nil {
		return false, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := c.pathForDigest(digest)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Open returns a reader for the content with the given digest.
func (c *LocalCAS) Open(ctx context.Context, digest string) (io.ReadCloser, error) {
	if c == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := c.pathForDigest(digest)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes a blob object. Missing objects are ignored. Callers must
// ensure no revision still references the digest.
func (c *LocalCAS) Delete(ctx context.Context, digest string) error {
	if c == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := c.pathForDigest(digest)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (c *LocalCAS) pathForDigest(digest string) (string, error) {
	key, err := KeyForDigest(digest)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.root, filepath.FromSlash(key)), nil
}

var _ BlobStore = (*LocalCAS)(nil)
