// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	l := openTestLedger(t)

	entries := []Entry{
		{Path: "a.md", PageID: "p1", Operation: OpCreate, Blocks: 5, Status: StatusOK},
		{Path: "b.md", PageID: "p2", Operation: OpUpdate, Blocks: 12, Status: StatusOK},
		{Path: "c.md", PageID: "p3", Operation: OpDownload, Blocks: 7, Status: StatusOK, Detail: "2 warnings"},
	}
	for _, e := range entries {
		require.NoError(t, l.Record(e))
	}

	got, err := l.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, "c.md", got[0].Path)
	assert.Equal(t, OpDownload, got[0].Operation)
	assert.Equal(t, "2 warnings", got[0].Detail)
	assert.Equal(t, "a.md", got[2].Path)
	assert.NotEmpty(t, got[0].Timestamp)
}

func TestRecentHonorsLimit(t *testing.T) {
	l := openTestLedger(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Record(Entry{Path: "x.md", Operation: OpCreate, Status: StatusOK}))
	}

	got, err := l.Recent(2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRecentEmptyLedger(t *testing.T) {
	l := openTestLedger(t)

	got, err := l.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Record(Entry{Path: "a.md", Operation: OpCreate, Status: StatusPartial, Blocks: 200}))
	got, err := l.Recent(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, StatusPartial, got[0].Status)
	assert.Equal(t, 200, got[0].Blocks)
}
