// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"fmt"
	"strings"

	"github.com/graemejross/notion-sync-tools/internal/notion"
	"github.com/graemejross/notion-sync-tools/pkg/types"
)

// FromRemote converts downloaded API blocks back to document blocks. Types
// the document model cannot express become placeholder paragraphs, and each
// produces a warning so callers can report what was lost.
func FromRemote(blocks []notion.Block) ([]types.Block, []string) {
	// A child_page block shares its id with the page it heads, so sibling
	// titles let link_to_page blocks render by name regardless of order.
	siblings := make(map[string]string)
	for _, b := range blocks {
		if b.Type == "child_page" && b.ID != "" {
			siblings[b.ID] = childTitle(b.ChildPage)
		}
	}

	out := make([]types.Block, 0, len(blocks))
	var warnings []string
	for _, b := range blocks {
		switch b.Type {
		case "paragraph":
			out = append(out, types.Block{Kind: types.BlockParagraph, Spans: spansFor(b.TextRuns())})
		case "heading_1":
			out = append(out, types.Block{Kind: types.BlockHeading, Level: 1, Spans: spansFor(b.TextRuns())})
		case "heading_2":
			out = append(out, types.Block{Kind: types.BlockHeading, Level: 2, Spans: spansFor(b.TextRuns())})
		case "heading_3":
			out = append(out, types.Block{Kind: types.BlockHeading, Level: 3, Spans: spansFor(b.TextRuns())})
		case "bulleted_list_item":
			out = append(out, types.Block{Kind: types.BlockBullet, Spans: spansFor(b.TextRuns())})
		case "numbered_list_item":
			out = append(out, types.Block{Kind: types.BlockNumbered, Spans: spansFor(b.TextRuns())})
		case "to_do":
			checked := b.ToDo != nil && b.ToDo.Checked
			out = append(out, types.Block{Kind: types.BlockTodo, Checked: checked, Spans: spansFor(b.TextRuns())})
		case "quote":
			out = append(out, types.Block{Kind: types.BlockQuote, Spans: spansFor(b.TextRuns())})
		case "code":
			out = append(out, codeFor(b))
		case "divider":
			out = append(out, types.Block{Kind: types.BlockDivider})
		case "table":
			out = append(out, tableFor(b))
		case "table_row":
			// Rows travel inside their table block.
		case "child_page":
			out = append(out, referenceParagraph(childTitle(b.ChildPage)))
		case "child_database":
			out = append(out, referenceParagraph(childTitle(b.ChildDatabase)))
		case "link_to_page":
			out = append(out, linkToPageParagraph(b.LinkToPage, siblings))
		default:
			out = append(out, placeholderParagraph(b.Type))
			warnings = append(warnings, fmt.Sprintf("unsupported block type: %s", b.Type))
		}
	}
	return out, warnings
}

func codeFor(b notion.Block) types.Block {
	blk := types.Block{Kind: types.BlockCode}
	if b.Code == nil {
		return blk
	}
	var sb strings.Builder
	for _, run := range b.Code.RichText {
		sb.WriteString(run.Content())
	}
	blk.Text = sb.String()
	if b.Code.Language != "plain text" {
		blk.Language = b.Code.Language
	}
	return blk
}

func tableFor(b notion.Block) types.Block {
	blk := types.Block{Kind: types.BlockTable}
	if b.Table == nil {
		return blk
	}
	blk.HasHeader = b.Table.HasColumnHeader
	for _, child := range b.Table.Children {
		if child.Type != "table_row" || child.TableRow == nil {
			continue
		}
		row := types.TableRow{Cells: make([][]types.Span, 0, len(child.TableRow.Cells))}
		for _, cell := range child.TableRow.Cells {
			row.Cells = append(row.Cells, spansFor(cell))
		}
		blk.Rows = append(blk.Rows, row)
	}
	return blk
}

func childTitle(body *notion.ChildPageBody) string {
	if body == nil || body.Title == "" {
		return "Untitled"
	}
	return body.Title
}

// referenceParagraph stands in for a nested page or database, which stays
// on the remote side.
func referenceParagraph(title string) types.Block {
	return types.Block{
		Kind:  types.BlockParagraph,
		Spans: []types.Span{types.TextSpan("→ [[" + title + "]]")},
	}
}

func linkToPageParagraph(body *notion.LinkToPageBody, siblings map[string]string) types.Block {
	if body == nil || body.PageID == "" {
		return placeholderParagraph("link_to_page")
	}
	if title, ok := siblings[body.PageID]; ok {
		return referenceParagraph(title)
	}
	return types.Block{
		Kind: types.BlockParagraph,
		Spans: []types.Span{
			types.TextSpan("→ "),
			types.LinkSpan(body.PageID, types.TextSpan("Linked Page")),
		},
	}
}

func placeholderParagraph(blockType string) types.Block {
	return types.Block{
		Kind:  types.BlockParagraph,
		Spans: []types.Span{types.TextSpan(fmt.Sprintf("<!-- Unsupported block type: %s -->", blockType))},
	}
}

// spansFor rebuilds a span tree from text runs. Adjacent runs with the same
// formatting merge first, which undoes upload-time splitting of long text.
func spansFor(runs []notion.RichText) []types.Span {
	merged := mergeRuns(runs)
	if len(merged) == 0 {
		return nil
	}
	spans := make([]types.Span, 0, len(merged))
	for _, m := range merged {
		spans = append(spans, spanFor(m))
	}
	return spans
}

// mergedRun is one run after coalescing, keyed by its formatting.
type mergedRun struct {
	ann     notion.Annotations
	link    string
	content string
}

func runKey(r notion.RichText) (notion.Annotations, string) {
	var ann notion.Annotations
	if r.Annotations != nil {
		ann = *r.Annotations
		// Color and underline are not part of the document model, so they
		// must not block merging.
		ann.Color = ""
		ann.Underline = false
	}
	return ann, r.LinkURL()
}

func mergeRuns(runs []notion.RichText) []mergedRun {
	var merged []mergedRun
	for _, r := range runs {
		ann, link := runKey(r)
		if n := len(merged); n > 0 && merged[n-1].ann == ann && merged[n-1].link == link {
			merged[n-1].content += r.Content()
			continue
		}
		merged = append(merged, mergedRun{ann: ann, link: link, content: r.Content()})
	}
	return merged
}

// spanFor nests styles in a fixed order: code innermost, then bold, italic
// and strikethrough, with any link outermost.
func spanFor(m mergedRun) types.Span {
	span := types.TextSpan(m.content)
	if m.ann.Code {
		span = types.StyledSpan(types.StyleCode, span)
	}
	if m.ann.Bold {
		span = types.StyledSpan(types.StyleBold, span)
	}
	if m.ann.Italic {
		span = types.StyledSpan(types.StyleItalic, span)
	}
	if m.ann.Strikethrough {
		span = types.StyledSpan(types.StyleStrike, span)
	}
	if m.link != "" {
		span = types.LinkSpan(m.link, span)
	}
	return span
}
