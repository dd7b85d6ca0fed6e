package main

import (
	"github.com/spf13/cobra"

	"docvault/internal/config"
)

func newRmCmd(cfg *config.Config, owner *string) *cobra.Command {
	var revision string

	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a revision",
		Long: `Delete one revision of the document at <path>. Without --revision the
highest-numbered revision is deleted. Removing the last revision removes
the document; its content is reclaimed once no other revision anywhere
still references it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := resolveOwner(cfg, owner)
			if err != nil {
				return err
			}

			svc, closer, err := openVault(cfg)
			if err != nil {
				return err
			}
			defer closer()

			if err := svc.DeleteRevision(cmd.Context(), ownerID, args[0], revision); err != nil {
				return err
			}
			return writePlain("Deleted.\n")
		},
	}

	cmd.Flags().StringVarP(&revision, "revision", "r", "", "revision number (default: latest)")

	return cmd
}
