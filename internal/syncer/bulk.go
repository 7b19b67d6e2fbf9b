// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syncer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/graemejross/notion-sync-tools/internal/ledger"
	"github.com/graemejross/notion-sync-tools/internal/markdown"
	"github.com/graemejross/notion-sync-tools/pkg/types"
)

// BulkSummary holds counts from a bulk upload run.
type BulkSummary struct {
	Uploaded int
	Skipped  int
	Failed   int
}

// Total returns the number of files processed.
func (s BulkSummary) Total() int {
	return s.Uploaded + s.Skipped + s.Failed
}

// HasFailures reports whether any file failed.
func (s BulkSummary) HasFailures() bool {
	return s.Failed > 0
}

// BulkUpload creates pages for every markdown file under dir that is not
// yet synced. Files are processed one at a time in walk order; already
// synced files are skipped without touching the network, and a failure is
// counted and reported without stopping the run.
func (s *Syncer) BulkUpload(ctx context.Context, parentID, dir string) (BulkSummary, error) {
	var summary BulkSummary

	files, err := s.collectMarkdown(dir)
	if err != nil {
		return summary, fmt.Errorf("scanning %s: %w", dir, err)
	}

	for _, file := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		rel := file
		if r, err := filepath.Rel(dir, file); err == nil {
			rel = r
		}

		if rec, ok := s.skipCandidate(file); ok {
			fmt.Fprintf(s.out, "skipped  %s (already synced)\n", rel)
			s.record(ledger.Entry{Path: file, PageID: rec.PageID, Operation: ledger.OpSkip, Status: ledger.StatusOK})
			summary.Skipped++
			continue
		}

		res, err := s.UploadFile(ctx, file, UploadOptions{ParentID: parentID})
		switch {
		case errors.Is(err, ErrAlreadySynced):
			fmt.Fprintf(s.out, "skipped  %s (already synced)\n", rel)
			summary.Skipped++
		case err != nil:
			fmt.Fprintf(s.out, "failed   %s: %v\n", rel, err)
			s.log.Error("bulk upload file failed", zap.String("path", file), zap.Error(err))
			summary.Failed++
		default:
			fmt.Fprintf(s.out, "uploaded %s (%d blocks)\n", rel, res.Blocks)
			summary.Uploaded++
		}
	}

	fmt.Fprintf(s.out, "\nBulk upload complete: %d uploaded, %d skipped, %d failed\n",
		summary.Uploaded, summary.Skipped, summary.Failed)
	return summary, nil
}

// skipCandidate reports whether the file already carries a sync record. The
// decision reads only the local file; bulk skips never cost a network call.
func (s *Syncer) skipCandidate(path string) (*types.SyncRecord, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	rec, _, err := markdown.SplitFrontMatter(string(data))
	if err != nil || !rec.Synced() {
		return nil, false
	}
	return rec, true
}

// collectMarkdown walks dir for markdown files, pruning excluded directory
// names and dropping empty files.
func (s *Syncer) collectMarkdown(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && excludedDir(d.Name(), s.cfg.Bulk.ExcludePatterns) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func excludedDir(name string, patterns []string) bool {
	for _, p := range patterns {
		if name == p {
			return true
		}
	}
	return false
}
