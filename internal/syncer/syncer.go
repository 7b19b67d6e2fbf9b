// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package syncer orchestrates sync operations between local markdown files
// and remote Notion pages. Sync state lives in each file's front matter: a
// recorded page id means the file is synced.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/graemejross/notion-sync-tools/internal/ledger"
	"github.com/graemejross/notion-sync-tools/internal/markdown"
	"github.com/graemejross/notion-sync-tools/internal/notion"
	"github.com/graemejross/notion-sync-tools/internal/translate"
	"github.com/graemejross/notion-sync-tools/pkg/types"
)

var (
	// ErrAlreadySynced reports a create-mode upload of a file whose front
	// matter already names a page.
	ErrAlreadySynced = errors.New("file is already synced")

	// ErrNoRecord reports an update of a file that was never uploaded.
	ErrNoRecord = errors.New("file has no sync record")
)

// timeNow supplies front matter timestamps. Tests override it for stable
// output.
var timeNow = time.Now

// Syncer runs document sync operations against one remote client.
type Syncer struct {
	cfg    types.Config
	client *notion.Client
	ledger *ledger.Ledger
	log    *zap.Logger
	out    io.Writer
}

// New builds a syncer. The ledger may be nil, in which case no history is
// recorded; out receives user-facing progress lines.
func New(cfg types.Config, client *notion.Client, lg *ledger.Ledger, log *zap.Logger, out io.Writer) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Syncer{cfg: cfg, client: client, ledger: lg, log: log, out: out}
}

// UploadOptions selects the upload mode.
type UploadOptions struct {
	// ParentID is the page to create under; required in create mode.
	ParentID string
	// Update replaces the content of the already-synced page instead of
	// creating a new one.
	Update bool
	// Force lets an update delete protected children too.
	Force bool
}

// UploadResult reports a completed upload.
type UploadResult struct {
	PageID  string
	URL     string
	Title   string
	Blocks  int
	Created bool
}

// UploadFile syncs one markdown file to the remote. Create mode requires a
// file without a sync record and update mode requires one with it; the
// mismatch errors ErrAlreadySynced and ErrNoRecord surface before any
// network activity.
func (s *Syncer) UploadFile(ctx context.Context, path string, opts UploadOptions) (*UploadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	rec, body, err := markdown.SplitFrontMatter(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if opts.Update && !rec.Synced() {
		return nil, fmt.Errorf("%s: %w", path, ErrNoRecord)
	}
	if !opts.Update && rec.Synced() {
		return nil, fmt.Errorf("%s: %w", path, ErrAlreadySynced)
	}

	blocks, err := markdown.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	remote := translate.ToRemote(blocks, s.cfg.API)
	title := deriveTitle(rec, path)

	if opts.Update {
		return s.updatePage(ctx, path, rec, body, title, remote, opts.Force)
	}
	return s.createPage(ctx, path, rec, body, title, remote, opts.ParentID)
}

func (s *Syncer) createPage(ctx context.Context, path string, rec *types.SyncRecord, body, title string, remote []notion.Block, parentID string) (*UploadResult, error) {
	if parentID == "" {
		return nil, fmt.Errorf("uploading %s: parent page id required", path)
	}

	page, err := s.client.CreatePage(ctx, parentID, title)
	if err != nil {
		s.record(ledger.Entry{Path: path, Operation: ledger.OpCreate, Status: ledger.StatusFailed, Detail: err.Error()})
		return nil, fmt.Errorf("uploading %s: %w", path, err)
	}

	// The page now exists remotely, so persist the identity mapping before
	// appending content. A partial append stays recoverable via update mode.
	if rec == nil {
		rec = &types.SyncRecord{}
	}
	rec.PageID = page.ID
	rec.URL = page.URL
	if rec.Title == "" {
		rec.Title = title
	}
	rec.Uploaded = timeNow().UTC().Format(time.RFC3339)
	if err := s.writeDocument(path, rec, body); err != nil {
		return nil, err
	}

	if err := s.appendContent(ctx, path, page.ID, ledger.OpCreate, remote); err != nil {
		return nil, fmt.Errorf("uploading %s: %w", path, err)
	}

	s.log.Info("created page",
		zap.String("path", path),
		zap.String("page_id", page.ID),
		zap.Int("blocks", len(remote)))
	return &UploadResult{PageID: page.ID, URL: page.URL, Title: title, Blocks: len(remote), Created: true}, nil
}

func (s *Syncer) updatePage(ctx context.Context, path string, rec *types.SyncRecord, body, title string, remote []notion.Block, force bool) (*UploadResult, error) {
	if err := s.replaceChildren(ctx, rec.PageID, force); err != nil {
		s.record(ledger.Entry{Path: path, PageID: rec.PageID, Operation: ledger.OpUpdate, Status: ledger.StatusFailed, Detail: err.Error()})
		return nil, fmt.Errorf("updating %s: %w", path, err)
	}

	if err := s.appendContent(ctx, path, rec.PageID, ledger.OpUpdate, remote); err != nil {
		return nil, fmt.Errorf("updating %s: %w", path, err)
	}

	if rec.Title == "" {
		rec.Title = title
	}
	rec.Uploaded = timeNow().UTC().Format(time.RFC3339)
	if err := s.writeDocument(path, rec, body); err != nil {
		return nil, err
	}

	s.log.Info("updated page",
		zap.String("path", path),
		zap.String("page_id", rec.PageID),
		zap.Int("blocks", len(remote)))
	return &UploadResult{PageID: rec.PageID, URL: rec.URL, Title: title, Blocks: len(remote)}, nil
}

// appendContent pushes translated blocks and records the outcome. A partial
// batch failure is recorded with the committed count before escalating.
func (s *Syncer) appendContent(ctx context.Context, path, pageID, op string, remote []notion.Block) error {
	if err := s.client.AppendBlocks(ctx, pageID, remote); err != nil {
		entry := ledger.Entry{Path: path, PageID: pageID, Operation: op, Status: ledger.StatusFailed, Detail: err.Error()}
		var batchErr *notion.BatchError
		if errors.As(err, &batchErr) {
			entry.Status = ledger.StatusPartial
			entry.Blocks = batchErr.Committed
		}
		s.record(entry)
		return err
	}
	s.record(ledger.Entry{Path: path, PageID: pageID, Operation: op, Blocks: len(remote), Status: ledger.StatusOK})
	return nil
}

// DownloadResult reports a completed download.
type DownloadResult struct {
	PageID   string
	Title    string
	Blocks   int
	Warnings int
}

// DownloadPage fetches a page and writes it as markdown with sync front
// matter. Remote content the document model cannot express is downgraded to
// visible placeholders and counted in Warnings.
func (s *Syncer) DownloadPage(ctx context.Context, pageRef, outPath string) (*DownloadResult, error) {
	pageID, err := notion.ExtractPageID(pageRef)
	if err != nil {
		return nil, err
	}

	page, err := s.client.GetPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", pageID, err)
	}
	children, err := s.client.ListChildren(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", pageID, err)
	}

	blocks, warnings := translate.FromRemote(children)
	for _, warning := range warnings {
		s.log.Warn("content not representable in markdown",
			zap.String("page_id", pageID),
			zap.String("detail", warning))
	}

	rec := &types.SyncRecord{
		PageID:     page.ID,
		URL:        page.URL,
		Title:      page.Title(),
		Created:    page.CreatedTime,
		Updated:    page.LastEditedTime,
		Downloaded: timeNow().UTC().Format(time.RFC3339),
	}
	if err := s.writeDocument(outPath, rec, markdown.Render(blocks)); err != nil {
		return nil, err
	}

	detail := ""
	if len(warnings) > 0 {
		detail = fmt.Sprintf("%d unsupported blocks", len(warnings))
	}
	s.record(ledger.Entry{Path: outPath, PageID: page.ID, Operation: ledger.OpDownload, Blocks: len(blocks), Status: ledger.StatusOK, Detail: detail})

	s.log.Info("downloaded page",
		zap.String("page_id", page.ID),
		zap.String("path", outPath),
		zap.Int("blocks", len(blocks)),
		zap.Int("warnings", len(warnings)))
	return &DownloadResult{PageID: page.ID, Title: rec.Title, Blocks: len(blocks), Warnings: len(warnings)}, nil
}

// deriveTitle picks the page title: an explicit front matter title wins,
// then the file name stem. README and index stems take the parent directory
// name as a prefix so pages stay distinguishable.
func deriveTitle(rec *types.SyncRecord, path string) string {
	if rec != nil && rec.Title != "" {
		return rec.Title
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	switch strings.ToLower(stem) {
	case "readme", "index":
		parent := filepath.Base(filepath.Dir(path))
		if parent != "." && parent != string(filepath.Separator) && parent != "" {
			return parent + " - " + stem
		}
	}
	return stem
}

// writeDocument composes front matter plus body and writes the file.
func (s *Syncer) writeDocument(path string, rec *types.SyncRecord, body string) error {
	content, err := markdown.ComposeDocument(rec, body)
	if err != nil {
		return fmt.Errorf("composing %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// record writes a ledger entry when a ledger is configured. Ledger failures
// are logged and swallowed; the audit trail never fails a sync.
func (s *Syncer) record(e ledger.Entry) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(e); err != nil {
		s.log.Warn("recording ledger entry", zap.Error(err))
	}
}
