// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for notion-sync-tools:
// the local block/span document tree, the sync record carried in front
// matter, and the configuration passed to every component.
package types

// BlockKind identifies the structural type of a Block.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockBullet    BlockKind = "bulleted_item"
	BlockNumbered  BlockKind = "numbered_item"
	BlockTodo      BlockKind = "todo_item"
	BlockQuote     BlockKind = "quote"
	BlockCode      BlockKind = "code"
	BlockTable     BlockKind = "table"
	BlockDivider   BlockKind = "divider"
)

// StyleKind identifies an inline formatting style on a span.
type StyleKind string

const (
	StyleBold   StyleKind = "bold"
	StyleItalic StyleKind = "italic"
	StyleCode   StyleKind = "code"
	StyleStrike StyleKind = "strike"
)

// SpanKind identifies the variant of a Span node.
type SpanKind string

const (
	SpanText   SpanKind = "text"
	SpanStyled SpanKind = "styled"
	SpanLink   SpanKind = "link"
)

// Span is one node in a line's inline formatting tree. Exactly one variant
// is active, selected by Kind: Text carries literal text, Styled carries a
// style applied to its children, Link carries a URL applied to its children.
type Span struct {
	// Kind selects the active variant.
	Kind SpanKind `json:"kind" yaml:"kind"`

	// Text is the literal content of a text span.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Style is the formatting applied by a styled span.
	Style StyleKind `json:"style,omitempty" yaml:"style,omitempty"`

	// URL is the link target of a link span.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Children are the spans a styled or link span wraps.
	Children []Span `json:"children,omitempty" yaml:"children,omitempty"`
}

// TextSpan returns a literal text span.
func TextSpan(text string) Span {
	return Span{Kind: SpanText, Text: text}
}

// StyledSpan returns a styled span wrapping the given children.
func StyledSpan(style StyleKind, children ...Span) Span {
	return Span{Kind: SpanStyled, Style: style, Children: children}
}

// LinkSpan returns a link span wrapping the given children.
func LinkSpan(url string, children ...Span) Span {
	return Span{Kind: SpanLink, URL: url, Children: children}
}

// TableRow is one row of a table block. Each cell holds its own span
// sequence; all rows of a table carry the same cell count.
type TableRow struct {
	Cells [][]Span `json:"cells" yaml:"cells"`
}

// Block is one structural unit of a document. Exactly one variant is
// active, selected by Kind; the other fields are meaningful only for the
// kinds noted on them.
type Block struct {
	// Kind selects the active variant.
	Kind BlockKind `json:"kind" yaml:"kind"`

	// Level is the heading depth, 1 through 3. Headings only.
	Level int `json:"level,omitempty" yaml:"level,omitempty"`

	// Spans is the inline content of heading, paragraph, list item,
	// to-do, and quote blocks.
	Spans []Span `json:"spans,omitempty" yaml:"spans,omitempty"`

	// Checked reports whether a to-do item is ticked.
	Checked bool `json:"checked,omitempty" yaml:"checked,omitempty"`

	// Language is the fence tag of a code block; empty means untagged.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Text is the verbatim content of a code block. Spans are never
	// applied inside fences.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Rows holds a table's rows in order. When HasHeader is true the
	// first row is the header.
	Rows []TableRow `json:"rows,omitempty" yaml:"rows,omitempty"`

	// HasHeader reports whether Rows[0] is a header row.
	HasHeader bool `json:"has_header,omitempty" yaml:"has_header,omitempty"`
}

// DataRows returns the table's rows excluding the header row, if any.
func (b Block) DataRows() []TableRow {
	if b.Kind != BlockTable {
		return nil
	}
	if b.HasHeader && len(b.Rows) > 0 {
		return b.Rows[1:]
	}
	return b.Rows
}
