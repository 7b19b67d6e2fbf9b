// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// CreatePage creates a new page under the given parent page and returns it.
// Children are appended separately so large documents batch uniformly.
func (c *Client) CreatePage(ctx context.Context, parentID, title string) (*Page, error) {
	req := createPageRequest{
		Parent: pageParent{PageID: parentID},
		Properties: map[string]titleProperty{
			"title": {Title: []RichText{{
				Type: "text",
				Text: &TextContent{Content: title},
			}}},
		},
	}
	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", req, &page); err != nil {
		return nil, fmt.Errorf("creating page %q: %w", title, err)
	}
	c.log.Info("created page", zap.String("page_id", page.ID), zap.String("title", title))
	return &page, nil
}

// GetPage fetches a page's metadata.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/pages/"+pageID, nil, &page); err != nil {
		return nil, fmt.Errorf("fetching page %s: %w", pageID, err)
	}
	return &page, nil
}

// BatchError reports a partial append: Committed blocks reached the page
// before the failing chunk.
type BatchError struct {
	Committed int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("appended %d blocks before failure: %v", e.Committed, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// AppendBlocks appends blocks as children of the given block or page,
// splitting them into chunks no larger than the configured per-request
// maximum. Chunks are sent in order; on failure the remaining chunks are
// not attempted and the returned *BatchError records how many blocks were
// committed.
func (c *Client) AppendBlocks(ctx context.Context, blockID string, blocks []Block) error {
	size := c.cfg.MaxBlocksPerRequest
	if size <= 0 {
		size = 100
	}

	committed := 0
	for start := 0; start < len(blocks); start += size {
		end := start + size
		if end > len(blocks) {
			end = len(blocks)
		}
		chunk := blocks[start:end]
		req := appendRequest{Children: chunk}
		if err := c.do(ctx, http.MethodPatch, "/blocks/"+blockID+"/children", req, nil); err != nil {
			return &BatchError{Committed: committed, Err: err}
		}
		committed += len(chunk)
		c.log.Debug("appended block chunk",
			zap.String("block_id", blockID),
			zap.Int("chunk_size", len(chunk)),
			zap.Int("committed", committed))
	}
	return nil
}

// ListChildren fetches all child blocks of a block or page, following
// pagination. Table blocks get their row children fetched one level deep
// so tables arrive complete.
func (c *Client) ListChildren(ctx context.Context, blockID string) ([]Block, error) {
	blocks, err := c.listPage(ctx, blockID)
	if err != nil {
		return nil, err
	}
	for i := range blocks {
		if blocks[i].Type != "table" || !blocks[i].HasChildren {
			continue
		}
		rows, err := c.listPage(ctx, blocks[i].ID)
		if err != nil {
			return nil, fmt.Errorf("fetching table rows: %w", err)
		}
		if blocks[i].Table == nil {
			blocks[i].Table = &TableBody{}
		}
		blocks[i].Table.Children = rows
	}
	return blocks, nil
}

// listPage walks the children pagination for one block.
func (c *Client) listPage(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		reqPath := "/blocks/" + blockID + "/children?page_size=100"
		if cursor != "" {
			reqPath += "&start_cursor=" + url.QueryEscape(cursor)
		}
		var resp childrenResponse
		if err := c.do(ctx, http.MethodGet, reqPath, nil, &resp); err != nil {
			return nil, fmt.Errorf("listing children of %s: %w", blockID, err)
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return blocks, nil
		}
		cursor = resp.NextCursor
	}
}

// DeleteBlock archives a block.
func (c *Client) DeleteBlock(ctx context.Context, blockID string) error {
	if err := c.do(ctx, http.MethodDelete, "/blocks/"+blockID, nil, nil); err != nil {
		return fmt.Errorf("deleting block %s: %w", blockID, err)
	}
	return nil
}

var rawPageID = regexp.MustCompile(`[0-9a-fA-F]{32}`)

var canonicalPageID = regexp.MustCompile(
	`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ExtractPageID resolves a page reference, which may be a canonical UUID, a
// bare 32-character hex ID, or a notion.so URL whose slug ends in one, to
// the hyphenated lowercase page ID the API expects.
func ExtractPageID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty page reference")
	}
	if canonicalPageID.MatchString(ref) {
		return strings.ToLower(ref), nil
	}

	candidate := ref
	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("parsing page reference: %w", err)
		}
		candidate = path.Base(u.Path)
	}

	matches := rawPageID.FindAllString(candidate, -1)
	if len(matches) == 0 {
		return "", fmt.Errorf("no page ID found in %q", ref)
	}
	id := strings.ToLower(matches[len(matches)-1])
	return id[0:8] + "-" + id[8:12] + "-" + id[12:16] + "-" + id[16:20] + "-" + id[20:32], nil
}

// Notion API request and response envelopes.
type createPageRequest struct {
	Parent     pageParent               `json:"parent"`
	Properties map[string]titleProperty `json:"properties"`
}

type pageParent struct {
	PageID string `json:"page_id"`
}

type titleProperty struct {
	Title []RichText `json:"title"`
}

type appendRequest struct {
	Children []Block `json:"children"`
}

type childrenResponse struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}
