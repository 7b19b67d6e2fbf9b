// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate maps between the document block model and the Notion
// wire format, in both directions.
package translate

import (
	"fmt"
	"unicode"

	"github.com/graemejross/notion-sync-tools/internal/notion"
	"github.com/graemejross/notion-sync-tools/pkg/types"
)

// ToRemote converts document blocks to API blocks ready for upload. Text
// runs longer than the configured limit are split, never truncated, and
// tables wider than the row limit are split into fragments.
func ToRemote(blocks []types.Block, cfg types.APIConfig) []notion.Block {
	out := make([]notion.Block, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case types.BlockHeading:
			out = append(out, headingBlock(b, cfg.MaxTextLength))
		case types.BlockParagraph:
			out = append(out, richTextBlock("paragraph", b.Spans, cfg.MaxTextLength))
		case types.BlockBullet:
			out = append(out, richTextBlock("bulleted_list_item", b.Spans, cfg.MaxTextLength))
		case types.BlockNumbered:
			out = append(out, richTextBlock("numbered_list_item", b.Spans, cfg.MaxTextLength))
		case types.BlockTodo:
			out = append(out, todoBlock(b, cfg.MaxTextLength))
		case types.BlockQuote:
			out = append(out, richTextBlock("quote", b.Spans, cfg.MaxTextLength))
		case types.BlockCode:
			out = append(out, codeBlock(b, cfg.MaxTextLength))
		case types.BlockDivider:
			out = append(out, notion.Block{Object: "block", Type: "divider", Divider: &notion.DividerBody{}})
		case types.BlockTable:
			out = append(out, tableBlocks(b, cfg)...)
		}
	}
	return out
}

func headingBlock(b types.Block, max int) notion.Block {
	body := &notion.RichTextBody{RichText: richText(b.Spans, max)}
	blk := notion.Block{Object: "block"}
	switch b.Level {
	case 1:
		blk.Type, blk.Heading1 = "heading_1", body
	case 2:
		blk.Type, blk.Heading2 = "heading_2", body
	default:
		blk.Type, blk.Heading3 = "heading_3", body
	}
	return blk
}

func richTextBlock(blockType string, spans []types.Span, max int) notion.Block {
	body := &notion.RichTextBody{RichText: richText(spans, max)}
	blk := notion.Block{Object: "block", Type: blockType}
	switch blockType {
	case "paragraph":
		blk.Paragraph = body
	case "bulleted_list_item":
		blk.BulletedItem = body
	case "numbered_list_item":
		blk.NumberedItem = body
	case "quote":
		blk.Quote = body
	}
	return blk
}

func todoBlock(b types.Block, max int) notion.Block {
	return notion.Block{
		Object: "block",
		Type:   "to_do",
		ToDo: &notion.ToDoBody{
			RichText: richText(b.Spans, max),
			Checked:  b.Checked,
		},
	}
}

// codeBlock keeps the entire source text: content over the run limit is
// carried as additional runs in the same block.
func codeBlock(b types.Block, max int) notion.Block {
	lang := b.Language
	if lang == "" {
		lang = "plain text"
	}
	pieces := splitText(b.Text, max)
	runs := make([]notion.RichText, 0, len(pieces))
	for _, piece := range pieces {
		runs = append(runs, textRun(piece, runStyle{}))
	}
	return notion.Block{
		Object: "block",
		Type:   "code",
		Code:   &notion.CodeBody{RichText: runs, Language: lang},
	}
}

func tableBlocks(b types.Block, cfg types.APIConfig) []notion.Block {
	fragments := SplitTable(b, cfg.MaxTableRows)
	out := make([]notion.Block, 0, len(fragments))
	for i, frag := range fragments {
		out = append(out, tableBlock(frag, cfg.MaxTextLength))
		if len(fragments) > 1 {
			caption := fmt.Sprintf("(Table part %d of %d)", i+1, len(fragments))
			out = append(out, richTextBlock("paragraph", []types.Span{types.TextSpan(caption)}, cfg.MaxTextLength))
		}
	}
	return out
}

func tableBlock(b types.Block, max int) notion.Block {
	width := 0
	if len(b.Rows) > 0 {
		width = len(b.Rows[0].Cells)
	}
	rows := make([]notion.Block, 0, len(b.Rows))
	for _, row := range b.Rows {
		cells := make([][]notion.RichText, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, richText(cell, max))
		}
		rows = append(rows, notion.Block{
			Object:   "block",
			Type:     "table_row",
			TableRow: &notion.TableRowBody{Cells: cells},
		})
	}
	return notion.Block{
		Object: "block",
		Type:   "table",
		Table: &notion.TableBody{
			TableWidth:      width,
			HasColumnHeader: b.HasHeader,
			Children:        rows,
		},
	}
}

// runStyle is the accumulated formatting along a span path: the union of
// every style marker crossed plus the nearest enclosing link.
type runStyle struct {
	ann  notion.Annotations
	link string
}

// richText flattens a span tree into API text runs. Every character of the
// source spans appears in exactly one run.
func richText(spans []types.Span, max int) []notion.RichText {
	out := make([]notion.RichText, 0, len(spans))
	appendRuns(&out, spans, runStyle{}, max)
	return out
}

func appendRuns(out *[]notion.RichText, spans []types.Span, st runStyle, max int) {
	for _, s := range spans {
		switch s.Kind {
		case types.SpanText:
			for _, piece := range splitText(s.Text, max) {
				*out = append(*out, textRun(piece, st))
			}
		case types.SpanStyled:
			inner := st
			switch s.Style {
			case types.StyleBold:
				inner.ann.Bold = true
			case types.StyleItalic:
				inner.ann.Italic = true
			case types.StyleStrike:
				inner.ann.Strikethrough = true
			case types.StyleCode:
				inner.ann.Code = true
			}
			appendRuns(out, s.Children, inner, max)
		case types.SpanLink:
			inner := st
			inner.link = s.URL
			appendRuns(out, s.Children, inner, max)
		}
	}
}

func textRun(content string, st runStyle) notion.RichText {
	tc := &notion.TextContent{Content: content}
	if st.link != "" {
		tc.Link = &notion.TextLink{URL: st.link}
	}
	run := notion.RichText{Type: "text", Text: tc}
	if st.ann != (notion.Annotations{}) {
		ann := st.ann
		run.Annotations = &ann
	}
	return run
}

// splitText breaks text into pieces of at most max runes, cutting at the
// last whitespace inside the window when there is one. Concatenating the
// pieces reproduces the input exactly.
func splitText(text string, max int) []string {
	if max <= 0 {
		return []string{text}
	}
	runes := []rune(text)
	if len(runes) <= max {
		return []string{text}
	}
	var parts []string
	for len(runes) > max {
		cut := max
		for i := max; i > 0; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	return append(parts, string(runes))
}
