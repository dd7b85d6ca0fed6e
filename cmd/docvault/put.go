package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"docvault/internal/config"
)

func newPutCmd(cfg *config.Config, owner *string, jsonOutput *bool) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "put <path>",
		Short: "Store a new revision of a document",
		Long: `Store the given content as the next revision of the document at <path>.
Content is read from stdin unless --file is given. Identical content is
stored once; the new revision still gets a fresh version number.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := resolveOwner(cfg, owner)
			if err != nil {
				return err
			}

			var content io.Reader = cmd.InOrStdin()
			if fromFile != "" {
				f, err := os.Open(fromFile)
				if err != nil {
					return fmt.Errorf("open %s: %w", fromFile, err)
				}
				defer f.Close()
				content = f
			}

			svc, closer, err := openVault(cfg)
			if err != nil {
				return err
			}
			defer closer()

			rev, err := svc.CreateRevision(cmd.Context(), ownerID, args[0], content)
			if err != nil {
				return err
			}

			if *jsonOutput {
				return writeJSON(rev)
			}
			return writeRevisionDetail(displayPath(args[0]), rev)
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "read content from a file instead of stdin")

	return cmd
}
