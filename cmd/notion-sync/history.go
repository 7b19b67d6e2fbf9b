// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graemejross/notion-sync-tools/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync operations",
	Long: `History lists the newest entries from the local operation ledger: what was
uploaded, updated, downloaded or skipped, with block counts and outcomes.
The ledger is an audit trail only; sync state lives in each file's front
matter.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum entries to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	lg, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer lg.Close()

	entries, err := lg.Recent(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No operations recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-8s  %-7s  %6s  %-36s  %s\n",
		"When", "Op", "Status", "Blocks", "Page", "Path")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-20s  %-8s  %-7s  %6d  %-36s  %s\n",
			e.Timestamp, e.Operation, e.Status, e.Blocks, e.PageID, e.Path)
	}

	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(entries))
	return nil
}
