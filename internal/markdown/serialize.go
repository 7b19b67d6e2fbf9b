// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"

	"github.com/graemejross/notion-sync-tools/pkg/types"
)

// Render serializes blocks back to markdown text, the inverse of Parse.
// Consecutive list items and quote lines stay on adjacent lines; all other
// blocks are separated by a blank line.
func Render(blocks []types.Block) string {
	if len(blocks) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			if adjacent(blocks[i-1].Kind, b.Kind) {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(renderBlock(b))
	}
	sb.WriteString("\n")
	return sb.String()
}

// adjacent reports whether two consecutive block kinds render without a
// separating blank line.
func adjacent(prev, next types.BlockKind) bool {
	if prev != next {
		// Bullets and to-dos commonly interleave in one list.
		list := func(k types.BlockKind) bool {
			return k == types.BlockBullet || k == types.BlockTodo
		}
		return list(prev) && list(next)
	}
	switch prev {
	case types.BlockBullet, types.BlockNumbered, types.BlockTodo, types.BlockQuote:
		return true
	}
	return false
}

func renderBlock(b types.Block) string {
	switch b.Kind {
	case types.BlockHeading:
		return strings.Repeat("#", b.Level) + " " + renderSpans(b.Spans)
	case types.BlockBullet:
		return "- " + renderSpans(b.Spans)
	case types.BlockNumbered:
		return "1. " + renderSpans(b.Spans)
	case types.BlockTodo:
		mark := " "
		if b.Checked {
			mark = "x"
		}
		return "- [" + mark + "] " + renderSpans(b.Spans)
	case types.BlockQuote:
		return "> " + renderSpans(b.Spans)
	case types.BlockCode:
		return "```" + b.Language + "\n" + b.Text + "\n```"
	case types.BlockDivider:
		return "---"
	case types.BlockTable:
		return renderTable(b)
	default:
		return renderSpans(b.Spans)
	}
}

func renderTable(b types.Block) string {
	if len(b.Rows) == 0 {
		return ""
	}
	var sb strings.Builder
	writeRow := func(row types.TableRow) {
		sb.WriteString("|")
		for _, cell := range row.Cells {
			sb.WriteString(" " + renderSpans(cell) + " |")
		}
	}
	writeRow(b.Rows[0])
	sb.WriteString("\n|")
	for range b.Rows[0].Cells {
		sb.WriteString(" --- |")
	}
	for _, row := range b.Rows[1:] {
		sb.WriteString("\n")
		writeRow(row)
	}
	return sb.String()
}

// renderSpans serializes a span tree to inline markdown.
func renderSpans(spans []types.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		renderSpan(&sb, s)
	}
	return sb.String()
}

func renderSpan(sb *strings.Builder, s types.Span) {
	switch s.Kind {
	case types.SpanText:
		sb.WriteString(s.Text)
	case types.SpanLink:
		sb.WriteString("[")
		for _, c := range s.Children {
			renderSpan(sb, c)
		}
		sb.WriteString("](" + s.URL + ")")
	case types.SpanStyled:
		m := styleMarker(s.Style)
		sb.WriteString(m)
		for _, c := range s.Children {
			renderSpan(sb, c)
		}
		sb.WriteString(m)
	}
}

func styleMarker(style types.StyleKind) string {
	switch style {
	case types.StyleBold:
		return "**"
	case types.StyleItalic:
		return "*"
	case types.StyleCode:
		return "`"
	case types.StyleStrike:
		return "~~"
	}
	return ""
}
