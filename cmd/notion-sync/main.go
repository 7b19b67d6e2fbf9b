// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the notion-sync CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/graemejross/notion-sync-tools/internal/ledger"
	"github.com/graemejross/notion-sync-tools/internal/logging"
	"github.com/graemejross/notion-sync-tools/internal/notion"
	"github.com/graemejross/notion-sync-tools/internal/secrets"
	"github.com/graemejross/notion-sync-tools/internal/syncer"
	"github.com/graemejross/notion-sync-tools/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg and log are built once in the root pre-run and shared by every
// subcommand.
var (
	cfg types.Config
	log *zap.Logger

	cfgFile    string
	secretsDir string
	verbose    bool
)

// rootCmd is the base command for the notion-sync CLI.
var rootCmd = &cobra.Command{
	Use:   "notion-sync",
	Short: "Sync markdown documents with Notion pages",
	Long: `notion-sync uploads markdown files as Notion pages, downloads pages back to
markdown, and keeps the sync state in each file's front matter. A file
without a recorded page id is uploaded as a new page; a file with one is
updated in place with --update.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return setup()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.notion-sync-tools/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&secretsDir, "secrets-dir", ".secrets", "directory of secret files (token read from notion-token)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

// setup builds the shared configuration and logger. Remote commands check
// for a token themselves; local ones run without it.
func setup() error {
	cfg = buildConfig()
	if verbose {
		cfg.Logging.Level = "debug"
	}

	var err error
	log, err = logging.New(cfg.Logging.Level)
	if err != nil {
		return err
	}

	loaded, err := secrets.Load(secretsDir, log)
	if err != nil {
		return err
	}
	if cfg.Notion.Token == "" {
		cfg.Notion.Token = loaded[secrets.TokenFile]
	}

	if cfg.Ledger.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Ledger.Path = filepath.Join(home, ".notion-sync-tools", "history.db")
		}
	}

	return cfg.Validate()
}

// newSyncer wires a syncer for remote commands. A broken ledger downgrades
// to a warning; the audit trail never blocks a sync.
func newSyncer() (*syncer.Syncer, func(), error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, nil, err
	}

	client := notion.NewClient(cfg, log)
	cleanup := func() {}
	lg, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		log.Warn("ledger unavailable, continuing without audit trail", zap.Error(err))
		lg = nil
	} else {
		cleanup = func() { lg.Close() }
	}
	return syncer.New(cfg, client, lg, log, os.Stdout), cleanup, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
