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

func TestUpdatePreservesProtectedChildren(t *testing.T) {
	f := newFakeNotion(t)
	s, _ := testSyncer(t, f, nil, nil)

	pageID := f.addPage("Doc")
	ids := f.seedChildren(pageID,
		fakeChildPage("Keep Me"),
		fakeParagraph("old one"),
		fakeSyncedBlock(),
		fakeParagraph("old two"),
		fakeParagraph("old three"),
	)

	path := filepath.Join(t.TempDir(), "doc.md")
	writeTestFile(t, path, syncedDoc(pageID, "Replacement.\n"))

	_, err := s.UploadFile(context.Background(), path, UploadOptions{Update: true})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{ids[1], ids[3], ids[4]}, f.deletedIDs(),
		"only unprotected children may be deleted")

	children := f.pageChildren(pageID)
	require.Len(t, children, 3)
	assert.Equal(t, ids[0], children[0]["id"], "protected children keep their position")
	assert.Equal(t, "child_page", children[0]["type"])
	assert.Equal(t, ids[2], children[1]["id"])
	assert.Equal(t, "synced_block", children[1]["type"])
	assert.Equal(t, "paragraph", children[2]["type"], "new content lands after preserved children")
}

func TestUpdateForceDeletesProtectedChildren(t *testing.T) {
	f := newFakeNotion(t)
	s, _ := testSyncer(t, f, nil, nil)

	pageID := f.addPage("Doc")
	ids := f.seedChildren(pageID,
		fakeChildPage("Keep Me"),
		fakeParagraph("old one"),
		fakeSyncedBlock(),
		fakeParagraph("old two"),
		fakeParagraph("old three"),
	)

	path := filepath.Join(t.TempDir(), "doc.md")
	writeTestFile(t, path, syncedDoc(pageID, "Replacement.\n"))

	_, err := s.UploadFile(context.Background(), path, UploadOptions{Update: true, Force: true})
	require.NoError(t, err)

	assert.ElementsMatch(t, ids, f.deletedIDs())

	children := f.pageChildren(pageID)
	require.Len(t, children, 1)
	assert.Equal(t, "paragraph", children[0]["type"])
}

func TestUpdateDeleteFailureEscalates(t *testing.T) {
	f := newFakeNotion(t)
	f.failDelete = true

	lg := openTestLedger(t)
	s, _ := testSyncer(t, f, lg, nil)

	pageID := f.addPage("Doc")
	f.seedChildren(pageID, fakeParagraph("old"))

	path := filepath.Join(t.TempDir(), "doc.md")
	writeTestFile(t, path, syncedDoc(pageID, "Replacement.\n"))

	_, err := s.UploadFile(context.Background(), path, UploadOptions{Update: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clearing page content")

	// Nothing may be appended onto a half-cleared page.
	children := f.pageChildren(pageID)
	require.Len(t, children, 1)
	assert.Equal(t, "paragraph", children[0]["type"])

	entries, err := lg.Recent(5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.OpUpdate, entries[0].Operation)
	assert.Equal(t, ledger.StatusFailed, entries[0].Status)
}
