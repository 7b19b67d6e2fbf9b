// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a local audit trail of sync operations in SQLite.
// The ledger never decides sync behavior; front matter remains the only
// source of sync state.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Operation and status values recorded in entries.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDownload = "download"
	OpSkip     = "skip"

	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Entry is one recorded sync operation.
type Entry struct {
	ID        int64
	Path      string
	PageID    string
	Operation string
	Blocks    int
	Status    string
	Detail    string
	Timestamp string
}

// Ledger wraps the history database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS operations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			page_id TEXT NOT NULL DEFAULT '',
			operation TEXT NOT NULL,
			blocks INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_operations_page_id ON operations(page_id)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one entry. A missing timestamp is filled with the current
// time.
func (l *Ledger) Record(e Entry) error {
	ts := e.Timestamp
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := l.db.Exec(
		`INSERT INTO operations (path, page_id, operation, blocks, status, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Path, e.PageID, e.Operation, e.Blocks, e.Status, e.Detail, ts,
	)
	if err != nil {
		return fmt.Errorf("recording operation: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first. A non-positive
// limit defaults to 20.
func (l *Ledger) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.Query(
		`SELECT id, path, page_id, operation, blocks, status, detail, created_at
		 FROM operations ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying operations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.PageID, &e.Operation, &e.Blocks, &e.Status, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning operation row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
