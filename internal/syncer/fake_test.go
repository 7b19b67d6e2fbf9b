// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syncer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/graemejross/notion-sync-tools/internal/ledger"
	"github.com/graemejross/notion-sync-tools/internal/notion"
	"github.com/graemejross/notion-sync-tools/pkg/types"
)

// fakeNotion is an in-memory API double behind an httptest server. Blocks
// are stored as decoded JSON objects keyed by their container, mirroring
// how the real API keeps table rows as children of the table block.
type fakeNotion struct {
	mu  sync.Mutex
	srv *httptest.Server

	pages    map[string]string
	children map[string][]map[string]any

	calls       int
	appendCalls int
	deleted     []string

	failCreate   bool
	failAppendAt int
	failDelete   bool
}

func newFakeNotion(t *testing.T) *fakeNotion {
	t.Helper()
	f := &fakeNotion{
		pages:    map[string]string{},
		children: map[string][]map[string]any{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeNotion) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeNotion) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeNotion) pageChildren(pageID string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.children[pageID]...)
}

func (f *fakeNotion) pageTitle(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pages[id]
}

// addPage registers an existing page and returns its id.
func (f *fakeNotion) addPage(title string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.NewString()
	f.pages[id] = title
	return id
}

// seedChildren injects pre-existing blocks under a page and returns their
// minted ids in order.
func (f *fakeNotion) seedChildren(pageID string, blocks ...map[string]any) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(blocks))
	for _, b := range blocks {
		id := uuid.NewString()
		b["id"] = id
		f.children[pageID] = append(f.children[pageID], b)
		ids = append(ids, id)
	}
	return ids
}

func (f *fakeNotion) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/pages":
		f.handleCreatePage(w, r)
	case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "pages":
		f.handleGetPage(w, parts[1])
	case r.Method == http.MethodPatch && len(parts) == 3 && parts[0] == "blocks" && parts[2] == "children":
		f.handleAppend(w, r, parts[1])
	case r.Method == http.MethodGet && len(parts) == 3 && parts[0] == "blocks" && parts[2] == "children":
		f.handleList(w, parts[1])
	case r.Method == http.MethodDelete && len(parts) == 2 && parts[0] == "blocks":
		f.handleDelete(w, parts[1])
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"object":"error","status":404,"code":"object_not_found","message":"no route"}`)
	}
}

func (f *fakeNotion) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	if f.failCreate {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"object":"error","status":400,"code":"validation_error","message":"create refused"}`)
		return
	}
	var req struct {
		Parent struct {
			PageID string `json:"page_id"`
		} `json:"parent"`
		Properties map[string]struct {
			Title []struct {
				Text struct {
					Content string `json:"content"`
				} `json:"text"`
			} `json:"title"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"object":"error","status":400,"code":"validation_error","message":"bad payload"}`)
		return
	}
	title := ""
	if tp, ok := req.Properties["title"]; ok && len(tp.Title) > 0 {
		title = tp.Title[0].Text.Content
	}
	id := uuid.NewString()
	f.pages[id] = title
	fmt.Fprintf(w, `{"object":"page","id":%q,"url":"https://www.notion.so/%s"}`, id, strings.ReplaceAll(id, "-", ""))
}

func (f *fakeNotion) handleGetPage(w http.ResponseWriter, id string) {
	title, ok := f.pages[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"object":"error","status":404,"code":"object_not_found","message":"page missing"}`)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"object":           "page",
		"id":               id,
		"url":              "https://www.notion.so/" + strings.ReplaceAll(id, "-", ""),
		"created_time":     "2026-08-01T10:00:00.000Z",
		"last_edited_time": "2026-08-02T11:00:00.000Z",
		"properties": map[string]any{
			"title": map[string]any{
				"type": "title",
				"title": []any{
					map[string]any{"type": "text", "text": map[string]any{"content": title}, "plain_text": title},
				},
			},
		},
	})
}

func (f *fakeNotion) handleAppend(w http.ResponseWriter, r *http.Request, containerID string) {
	f.appendCalls++
	if f.failAppendAt > 0 && f.appendCalls == f.failAppendAt {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"object":"error","status":400,"code":"validation_error","message":"append refused"}`)
		return
	}
	var req struct {
		Children []map[string]any `json:"children"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"object":"error","status":400,"code":"validation_error","message":"bad payload"}`)
		return
	}
	for _, child := range req.Children {
		f.storeBlock(containerID, child)
	}
	fmt.Fprint(w, `{"object":"list","results":[]}`)
}

func (f *fakeNotion) storeBlock(containerID string, block map[string]any) {
	id := uuid.NewString()
	block["id"] = id
	if block["type"] == "table" {
		if tbl, ok := block["table"].(map[string]any); ok {
			if rows, ok := tbl["children"].([]any); ok {
				delete(tbl, "children")
				block["has_children"] = true
				for _, row := range rows {
					if rowMap, ok := row.(map[string]any); ok {
						rowMap["id"] = uuid.NewString()
						f.children[id] = append(f.children[id], rowMap)
					}
				}
			}
		}
	}
	f.children[containerID] = append(f.children[containerID], block)
}

func (f *fakeNotion) handleList(w http.ResponseWriter, containerID string) {
	results := f.children[containerID]
	if results == nil {
		results = []map[string]any{}
	}
	json.NewEncoder(w).Encode(map[string]any{
		"object":   "list",
		"results":  results,
		"has_more": false,
	})
}

func (f *fakeNotion) handleDelete(w http.ResponseWriter, id string) {
	if f.failDelete {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"object":"error","status":500,"code":"internal_server_error","message":"delete refused"}`)
		return
	}
	f.deleted = append(f.deleted, id)
	for container, blocks := range f.children {
		var kept []map[string]any
		for _, b := range blocks {
			if b["id"] != id {
				kept = append(kept, b)
			}
		}
		f.children[container] = kept
	}
	fmt.Fprintf(w, `{"object":"block","id":%q,"archived":true}`, id)
}

// Seed block builders.

func fakeParagraph(text string) map[string]any {
	return map[string]any{
		"object": "block",
		"type":   "paragraph",
		"paragraph": map[string]any{"rich_text": []any{
			map[string]any{"type": "text", "text": map[string]any{"content": text}},
		}},
	}
}

func fakeChildPage(title string) map[string]any {
	return map[string]any{
		"object":       "block",
		"type":         "child_page",
		"has_children": true,
		"child_page":   map[string]any{"title": title},
	}
}

func fakeSyncedBlock() map[string]any {
	return map[string]any{
		"object":       "block",
		"type":         "synced_block",
		"synced_block": map[string]any{},
	}
}

// testSyncer wires a syncer to the fake server. The ledger may be nil.
func testSyncer(t *testing.T, f *fakeNotion, lg *ledger.Ledger, mutate func(*types.Config)) (*Syncer, *bytes.Buffer) {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.Notion.Token = "test-token"
	cfg.API.RetryDelay = time.Millisecond
	cfg.API.RateLimitDelay = 0
	if mutate != nil {
		mutate(&cfg)
	}
	client := notion.NewClient(cfg, zap.NewNop())
	client.BaseURL = f.srv.URL
	client.HTTP = f.srv.Client()
	out := &bytes.Buffer{}
	return New(cfg, client, lg, zap.NewNop(), out), out
}
