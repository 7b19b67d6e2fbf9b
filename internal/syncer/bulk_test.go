// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syncer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graemejross/notion-sync-tools/internal/ledger"
)

func TestBulkUpload(t *testing.T) {
	f := newFakeNotion(t)
	lg := openTestLedger(t)
	s, out := testSyncer(t, f, lg, nil)

	dir := t.TempDir()
	syncedID := "12345678-1234-1234-1234-1234567890ab"
	writeTestFile(t, filepath.Join(dir, "a.md"), "# A\n\nBody A.\n")
	writeTestFile(t, filepath.Join(dir, "b.md"), syncedDoc(syncedID, "# B\n"))
	writeTestFile(t, filepath.Join(dir, "empty.md"), "")
	writeTestFile(t, filepath.Join(dir, "nested", "c.md"), "# C\n")
	writeTestFile(t, filepath.Join(dir, ".git", "ignored.md"), "# Ignored\n")
	writeTestFile(t, filepath.Join(dir, "node_modules", "pkg.md"), "# Pkg\n")
	writeTestFile(t, filepath.Join(dir, "notes.txt"), "not markdown")

	parent := f.addPage("Parent")
	summary, err := s.BulkUpload(context.Background(), parent, dir)
	require.NoError(t, err)
	assert.Equal(t, BulkSummary{Uploaded: 2, Skipped: 1}, summary)
	assert.Equal(t, 3, summary.Total())
	assert.False(t, summary.HasFailures())

	// a.md and nested/c.md each cost one create and one append; the synced
	// b.md is skipped without touching the network.
	assert.Equal(t, 4, f.callCount())

	text := out.String()
	assert.Contains(t, text, "uploaded a.md (2 blocks)")
	assert.Contains(t, text, "skipped  b.md (already synced)")
	assert.Contains(t, text, "uploaded "+filepath.Join("nested", "c.md")+" (1 blocks)")
	assert.NotContains(t, text, "ignored.md")
	assert.NotContains(t, text, "empty.md")
	assert.Contains(t, text, "\nBulk upload complete: 2 uploaded, 1 skipped, 0 failed\n")

	entries, err := lg.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	var skips int
	for _, e := range entries {
		if e.Operation == ledger.OpSkip {
			skips++
			assert.Equal(t, syncedID, e.PageID)
			assert.Equal(t, ledger.StatusOK, e.Status)
		}
	}
	assert.Equal(t, 1, skips)
}

func TestBulkUploadContinuesAfterFailure(t *testing.T) {
	f := newFakeNotion(t)
	f.failAppendAt = 1
	s, out := testSyncer(t, f, nil, nil)

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.md"), "# A\n")
	writeTestFile(t, filepath.Join(dir, "b.md"), "# B\n")

	parent := f.addPage("Parent")
	summary, err := s.BulkUpload(context.Background(), parent, dir)
	require.NoError(t, err, "individual failures must not abort the run")
	assert.Equal(t, BulkSummary{Uploaded: 1, Failed: 1}, summary)
	assert.True(t, summary.HasFailures())

	text := out.String()
	assert.Contains(t, text, "failed   a.md")
	assert.Contains(t, text, "uploaded b.md (1 blocks)")
	assert.Contains(t, text, "Bulk upload complete: 1 uploaded, 0 skipped, 1 failed")
}

func TestBulkUploadEmptyDirectory(t *testing.T) {
	f := newFakeNotion(t)
	s, out := testSyncer(t, f, nil, nil)

	summary, err := s.BulkUpload(context.Background(), "parent", t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, summary.Total())
	assert.Equal(t, 0, f.callCount())
	assert.Contains(t, out.String(), "Bulk upload complete: 0 uploaded, 0 skipped, 0 failed")
}

func TestBulkUploadCancelled(t *testing.T) {
	f := newFakeNotion(t)
	s, _ := testSyncer(t, f, nil, nil)

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.md"), "# A\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.BulkUpload(ctx, "parent", dir)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.callCount())
}
