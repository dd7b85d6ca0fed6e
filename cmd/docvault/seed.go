package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"docvault/internal/config"
	"docvault/internal/models"
)

// seedManifest is the YAML fixture format consumed by the seed command.
type seedManifest struct {
	Documents []seedDocument `yaml:"documents"`
}

type seedDocument struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
	File    string `yaml:"file"`
}

type seedResult struct {
	Path    string `json:"path"`
	Version int    `json:"version"`
	SHA256  string `json:"sha256"`
}

func newSeedCmd(cfg *config.Config, owner *string, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <manifest.yaml>",
		Short: "Load fixture documents from a YAML manifest",
		Long: `Load a YAML manifest of documents and store each one as a new revision
for the owner. Each entry names a path and either inline content or a
file to read, resolved relative to the manifest:

  documents:
    - path: /notes/welcome.txt
      content: |
        hello
    - path: /reports/q3.csv
      file: fixtures/q3.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := resolveOwner(cfg, owner)
			if err != nil {
				return err
			}

			manifest, err := loadSeedManifest(args[0])
			if err != nil {
				return err
			}

			svc, closer, err := openVault(cfg)
			if err != nil {
				return err
			}
			defer closer()

			baseDir := filepath.Dir(args[0])
			results := make([]seedResult, 0, len(manifest.Documents))
			for i, doc := range manifest.Documents {
				content, err := seedContent(baseDir, doc)
				if err != nil {
					return fmt.Errorf("document %d (%s): %w", i, doc.Path, err)
				}
				rev, err := svc.CreateRevision(cmd.Context(), ownerID, doc.Path, strings.NewReader(content))
				if err != nil {
					return fmt.Errorf("document %d (%s): %w", i, doc.Path, err)
				}
				results = append(results, seedResult{
					Path:    displayPath(doc.Path),
					Version: rev.Version,
					SHA256:  rev.SHA256,
				})
			}

			if *jsonOutput {
				return writeJSON(results)
			}
			for _, res := range results {
				if err := writePlain("%s?revision=%d\n", res.Path, res.Version); err != nil {
					return err
				}
			}
			return writePlain("Seeded %d document(s).\n", len(results))
		},
	}
}

func loadSeedManifest(path string) (*seedManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest seedManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(manifest.Documents) == 0 {
		return nil, fmt.Errorf("manifest has no documents")
	}
	for i, doc := range manifest.Documents {
		if _, err := models.NormalizePath(doc.Path); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if doc.Content != "" && doc.File != "" {
			return nil, fmt.Errorf("document %d (%s): content and file are mutually exclusive", i, doc.Path)
		}
		if doc.Content == "" && doc.File == "" {
			return nil, fmt.Errorf("document %d (%s): content or file is required", i, doc.Path)
		}
	}
	return &manifest, nil
}

func seedContent(baseDir string, doc seedDocument) (string, error) {
	if doc.Content != "" {
		return doc.Content, nil
	}
	name := doc.File
	if !filepath.IsAbs(name) {
		name = filepath.Join(baseDir, name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
