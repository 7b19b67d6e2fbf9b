package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graemejross/notion-sync-tools/internal/notion"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <parent-page-id> <directory>",
	Short: "Upload every markdown file in a directory",
	Long: `Bulk walks a directory tree for markdown files and uploads each one as a
new page under the parent. Files whose front matter already records a page
are skipped without touching the network, so a re-run only uploads what is
new. One status line is printed per file.`,
	Args: cobra.ExactArgs(2),
	RunE: runBulk,
}

func init() {
	rootCmd.AddCommand(bulkCmd)
}

func runBulk(cmd *cobra.Command, args []string) error {
	parentID, err := notion.ExtractPageID(args[0])
	if err != nil {
		return err
	}

	s, cleanup, err := newSyncer()
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := s.BulkUpload(cmd.Context(), parentID, args[1])
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed to upload", summary.Failed)
	}
	return nil
}
