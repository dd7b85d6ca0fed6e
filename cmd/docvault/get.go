package main

import (
	"io"

	"github.com/spf13/cobra"

	"docvault/internal/config"
)

func newGetCmd(cfg *config.Config, owner *string) *cobra.Command {
	var revision string

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Print a revision's content to stdout",
		Long: `Print the content of the document at <path>. Without --revision the
highest-numbered revision is served.`,
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

			_, body, err := svc.GetRevision(cmd.Context(), ownerID, args[0], revision)
			if err != nil {
				return err
			}
			defer body.Close()

			_, err = io.Copy(cmd.OutOrStdout(), body)
			return err
		},
	}

	cmd.Flags().StringVarP(&revision, "revision", "r", "", "revision number (default: latest)")

	return cmd
}
