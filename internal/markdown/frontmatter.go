// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/graemejross/notion-sync-tools/pkg/types"
)

const frontMatterDelim = "---"

// SplitFrontMatter separates a document's YAML front matter from its body.
// A document without front matter returns a nil record and the full text.
// Keys the sync record does not know are preserved in its Extra map so a
// rewrite never drops them.
func SplitFrontMatter(content string) (*types.SyncRecord, string, error) {
	if !strings.HasPrefix(content, frontMatterDelim+"\n") {
		return nil, content, nil
	}
	rest := content[len(frontMatterDelim)+1:]

	var meta, body string
	if end := strings.Index(rest, "\n"+frontMatterDelim+"\n"); end >= 0 {
		meta = rest[:end]
		body = rest[end+len(frontMatterDelim)+2:]
	} else if strings.HasSuffix(rest, "\n"+frontMatterDelim) {
		meta = rest[:len(rest)-len(frontMatterDelim)-1]
	} else {
		// Opening delimiter with no closer: not front matter.
		return nil, content, nil
	}

	var rec types.SyncRecord
	if err := yaml.Unmarshal([]byte(meta), &rec); err != nil {
		return nil, "", fmt.Errorf("parsing front matter: %w", err)
	}
	return &rec, strings.TrimPrefix(body, "\n"), nil
}

// ComposeDocument prepends the record's front matter to the body. A nil
// record returns the body unchanged.
func ComposeDocument(rec *types.SyncRecord, body string) (string, error) {
	if rec == nil {
		return body, nil
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshaling front matter: %w", err)
	}
	var sb strings.Builder
	sb.WriteString(frontMatterDelim + "\n")
	sb.Write(data)
	sb.WriteString(frontMatterDelim + "\n\n")
	sb.WriteString(body)
	return sb.String(), nil
}

// ParseDocument parses a complete file into its sync record and blocks.
func ParseDocument(content string) (*types.Document, error) {
	rec, body, err := SplitFrontMatter(content)
	if err != nil {
		return nil, err
	}
	blocks, err := Parse(body)
	if err != nil {
		return nil, err
	}
	return &types.Document{Record: rec, Blocks: blocks}, nil
}
