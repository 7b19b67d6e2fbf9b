package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graemejross/notion-sync-tools/internal/notion"
	"github.com/graemejross/notion-sync-tools/internal/syncer"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.md> [parent-page-id]",
	Short: "Upload a markdown file as a Notion page",
	Long: `Upload creates a Notion page from a markdown file under the given parent
page and records the page identity in the file's front matter. A file that
already carries a page id must be uploaded with --update, which replaces the
page content in place. Child pages, child databases and synced blocks on the
page survive an update unless --force is given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().Bool("update", false, "replace the content of the already-synced page")
	uploadCmd.Flags().Bool("force", false, "with --update, also delete child pages and synced blocks")

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	update, _ := cmd.Flags().GetBool("update")
	force, _ := cmd.Flags().GetBool("force")

	opts := syncer.UploadOptions{Update: update, Force: force}
	if len(args) > 1 {
		id, err := notion.ExtractPageID(args[1])
		if err != nil {
			return err
		}
		opts.ParentID = id
	}

	s, cleanup, err := newSyncer()
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := s.UploadFile(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}

	action := "Updated"
	if res.Created {
		action = "Created"
	}
	fmt.Printf("%s %q (%d blocks)\n", action, res.Title, res.Blocks)
	if res.URL != "" {
		fmt.Println(res.URL)
	}
	return nil
}
