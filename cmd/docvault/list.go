package main

import (
	"github.com/spf13/cobra"

	"docvault/internal/config"
)

func newListCmd(cfg *config.Config, owner *string, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the owner's documents",
		Args:  cobra.NoArgs,
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

			docs, err := svc.ListDocuments(cmd.Context(), ownerID)
			if err != nil {
				return err
			}

			if *jsonOutput {
				return writeJSON(docs)
			}
			return writeDocumentList(docs)
		},
	}
}

func newRevisionsCmd(cfg *config.Config, owner *string, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "revisions <path>",
		Short: "List a document's revisions, newest first",
		Args:  cobra.ExactArgs(1),
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

			revs, err := svc.ListRevisions(cmd.Context(), ownerID, args[0])
			if err != nil {
				return err
			}

			if *jsonOutput {
				return writeJSON(revs)
			}
			return writeRevisionList(displayPath(args[0]), revs)
		},
	}
}
