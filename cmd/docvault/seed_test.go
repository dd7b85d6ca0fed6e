package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadSeedManifest(t *testing.T) {
	path := writeTestManifest(t, `
documents:
  - path: /notes/a.txt
    content: |
      hello
  - path: /notes/b.txt
    file: b.txt
`)

	manifest, err := loadSeedManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(manifest.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(manifest.Documents))
	}
	if manifest.Documents[0].Content != "hello\n" {
		t.Fatalf("unexpected inline content %q", manifest.Documents[0].Content)
	}
	if manifest.Documents[1].File != "b.txt" {
		t.Fatalf("unexpected file ref %q", manifest.Documents[1].File)
	}
}

func TestLoadSeedManifestRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{name: "empty", manifest: "documents: []\n"},
		{name: "missing path", manifest: "documents:\n  - content: x\n"},
		{name: "relative segment", manifest: "documents:\n  - path: /a/../b\n    content: x\n"},
		{name: "no content or file", manifest: "documents:\n  - path: /a\n"},
		{name: "both content and file", manifest: "documents:\n  - path: /a\n    content: x\n    file: y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestManifest(t, tt.manifest)
			if _, err := loadSeedManifest(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSeedContentResolvesRelativeFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "body.txt"), []byte("from file"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := seedContent(dir, seedDocument{Path: "/a", File: "body.txt"})
	if err != nil {
		t.Fatalf("seed content: %v", err)
	}
	if got != "from file" {
		t.Fatalf("expected file content, got %q", got)
	}

	got, err = seedContent(dir, seedDocument{Path: "/a", Content: "inline"})
	if err != nil {
		t.Fatalf("seed content: %v", err)
	}
	if got != "inline" {
		t.Fatalf("expected inline content, got %q", got)
	}
}
