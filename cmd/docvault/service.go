package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"docvault/internal/blobstore"
	"docvault/internal/config"
	"docvault/internal/store"
	"docvault/internal/vault"
)

// openVault wires the store and blob store into a service for one command
// invocation. The returned closer releases the database connection.
func openVault(cfg *config.Config) (*vault.Service, func(), error) {
	if err := cfg.ResolvePaths(); err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	blobs, err := blobstore.NewLocalCAS(cfg.BlobRoot)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("open blob store: %w", err)
	}

	svc := vault.New(st, blobs, slog.Default())
	closer := func() { _ = st.Close() }
	return svc, closer, nil
}
