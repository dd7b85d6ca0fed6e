package main

import (
	"github.com/spf13/cobra"

	"docvault/internal/config"
)

func newDiffCmd(cfg *config.Config, owner *string, jsonOutput *bool) *cobra.Command {
	var from string
	var to string

	cmd := &cobra.Command{
		Use:   "diff <path>",
		Short: "Compare two text revisions of a document",
		Long: `Compare two revisions of the document at <path> line by line. Both
--from and --to are required. Only UTF-8 text content can be compared.`,
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

			diff, err := svc.Diff(cmd.Context(), ownerID, args[0], from, to)
			if err != nil {
				return err
			}

			if *jsonOutput {
				return writeJSON(diff)
			}
			return writeDiffText(diff)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "left revision number")
	cmd.Flags().StringVar(&to, "to", "", "right revision number")

	return cmd
}
