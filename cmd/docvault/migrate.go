package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docvault/internal/config"
	"docvault/internal/store"
)

func newMigrateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run or inspect database schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ResolvePaths(); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				return fmt.Errorf("create data directory: %w", err)
			}

			if dryRun {
				status, err := store.PlanMigrations(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("inspect migrations: %w", err)
				}
				if *jsonOutput {
					return writeJSON(status)
				}
				if err := writePlain("Current version: %d\n", status.CurrentVersion); err != nil {
					return err
				}
				if err := writePlain("Available version: %d\n", status.AvailableVersion); err != nil {
					return err
				}
				if len(status.Pending) == 0 {
					return writePlain("No pending migrations.\n")
				}
				for _, m := range status.Pending {
					if err := writePlain("  %d: %s\n", m.Version, m.Description); err != nil {
						return err
					}
				}
				return nil
			}

			// Open applies pending migrations.
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer st.Close()

			status, err := st.MigrationStatus()
			if err != nil {
				return fmt.Errorf("inspect migrations: %w", err)
			}
			if *jsonOutput {
				return writeJSON(status)
			}
			return writePlain("Migrations applied; schema at version %d.\n", status.CurrentVersion)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show pending migrations without applying")

	return cmd
}
