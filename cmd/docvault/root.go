package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docvault/internal/config"
	"docvault/internal/vault"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool
	var owner string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "docvault",
		Short: "Docvault stores immutable, deduplicated revisions of named documents",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&owner, "owner", "", "owner key the operation runs as (overrides config)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newPutCmd(cfg, &owner, &jsonOutput),
		newGetCmd(cfg, &owner),
		newListCmd(cfg, &owner, &jsonOutput),
		newRevisionsCmd(cfg, &owner, &jsonOutput),
		newRmCmd(cfg, &owner),
		newDiffCmd(cfg, &owner, &jsonOutput),
		newSeedCmd(cfg, &owner, &jsonOutput),
		newMigrateCmd(cfg, &jsonOutput),
	)

	return cmd
}

// resolveOwner picks the owner key: the --owner flag wins over config and
// DOCVAULT_OWNER.
func resolveOwner(cfg *config.Config, flagOwner *string) (string, error) {
	if flagOwner != nil && *flagOwner != "" {
		return *flagOwner, nil
	}
	if cfg != nil && cfg.Owner != "" {
		return cfg.Owner, nil
	}
	return "", fmt.Errorf("owner is required: pass --owner or set owner in config")
}

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}
	switch {
	case vault.IsNotFound(err):
		lines = append(lines, "hint: check the document path and revision number, and that --owner matches the uploader.")
	case vault.IsValidation(err):
		lines = append(lines, "hint: run with --help for required arguments.")
	case vault.IsUnsupportedContent(err):
		lines = append(lines, "hint: diff only supports UTF-8 text revisions.")
	}
	return lines
}
