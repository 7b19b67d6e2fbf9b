// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SyncRecord is the local↔remote identity mapping carried as YAML front
// matter at the top of a synced document. Presence of PageID is the sole
// signal that a document has been synced; the record is never fabricated.
type SyncRecord struct {
	// PageID is the remote page identifier, set on first upload or download.
	PageID string `json:"notion_page_id" yaml:"notion_page_id"`

	// URL is the remote page URL.
	URL string `json:"notion_url,omitempty" yaml:"notion_url,omitempty"`

	// Title is the page title used at creation or found on download.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Created and Updated are the remote page timestamps, written on
	// download and passed through verbatim.
	Created string `json:"created,omitempty" yaml:"created,omitempty"`
	Updated string `json:"updated,omitempty" yaml:"updated,omitempty"`

	// Downloaded and Uploaded record the local time of the last sync in
	// each direction, RFC 3339.
	Downloaded string `json:"downloaded,omitempty" yaml:"downloaded,omitempty"`
	Uploaded   string `json:"uploaded,omitempty" yaml:"uploaded,omitempty"`

	// Extra preserves foreign front matter keys verbatim across rewrites.
	Extra map[string]any `json:"-" yaml:",inline"`
}

// Synced reports whether the record maps to a remote page. Safe on nil.
func (r *SyncRecord) Synced() bool {
	return r != nil && r.PageID != ""
}

// Document is a parsed markdown file: its content blocks in order plus the
// sync record from its front matter, nil when the file has never been
// synced. A document exclusively owns its blocks and record.
type Document struct {
	Record *SyncRecord `json:"record,omitempty" yaml:"record,omitempty"`
	Blocks []Block     `json:"blocks" yaml:"blocks"`
}
