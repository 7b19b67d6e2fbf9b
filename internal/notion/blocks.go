// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import "encoding/json"

// RichText is one styled text run inside a block.
type RichText struct {
	Type        string       `json:"type,omitempty"`
	Text        *TextContent `json:"text,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
	Href        string       `json:"href,omitempty"`
}

// Content returns the run's text, preferring the canonical text payload
// over the display copy.
func (r RichText) Content() string {
	if r.Text != nil {
		return r.Text.Content
	}
	return r.PlainText
}

// LinkURL returns the run's link target, or empty when the run is not a link.
func (r RichText) LinkURL() string {
	if r.Text != nil && r.Text.Link != nil {
		return r.Text.Link.URL
	}
	return r.Href
}

type TextContent struct {
	Content string    `json:"content"`
	Link    *TextLink `json:"link,omitempty"`
}

type TextLink struct {
	URL string `json:"url"`
}

// Annotations carries the style flags of a text run. Only the styles this
// tool round-trips are modelled; the zero value means plain text.
type Annotations struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Color         string `json:"color,omitempty"`
}

// Plain reports whether no modelled style is set.
func (a *Annotations) Plain() bool {
	if a == nil {
		return true
	}
	return !a.Bold && !a.Italic && !a.Strikethrough && !a.Code
}

// RichTextBody is the shared payload of paragraph, heading, list item and
// quote blocks.
type RichTextBody struct {
	RichText []RichText `json:"rich_text"`
}

type ToDoBody struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

type CodeBody struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language,omitempty"`
}

// TableBody holds table geometry. On upload the row blocks travel inside
// Children; on download they are fetched separately and stored there.
type TableBody struct {
	TableWidth      int     `json:"table_width"`
	HasColumnHeader bool    `json:"has_column_header"`
	HasRowHeader    bool    `json:"has_row_header,omitempty"`
	Children        []Block `json:"children,omitempty"`
}

type TableRowBody struct {
	Cells [][]RichText `json:"cells"`
}

type ChildPageBody struct {
	Title string `json:"title"`
}

type LinkToPageBody struct {
	Type   string `json:"type,omitempty"`
	PageID string `json:"page_id,omitempty"`
}

type DividerBody struct{}

// Block is the wire representation of one Notion block. Exactly one of the
// typed payload pointers is set, matching Type. Payloads of types outside
// this set survive only in Raw.
type Block struct {
	Object      string `json:"object,omitempty"`
	ID          string `json:"id,omitempty"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children,omitempty"`

	Paragraph     *RichTextBody   `json:"paragraph,omitempty"`
	Heading1      *RichTextBody   `json:"heading_1,omitempty"`
	Heading2      *RichTextBody   `json:"heading_2,omitempty"`
	Heading3      *RichTextBody   `json:"heading_3,omitempty"`
	BulletedItem  *RichTextBody   `json:"bulleted_list_item,omitempty"`
	NumberedItem  *RichTextBody   `json:"numbered_list_item,omitempty"`
	ToDo          *ToDoBody       `json:"to_do,omitempty"`
	Quote         *RichTextBody   `json:"quote,omitempty"`
	Code          *CodeBody       `json:"code,omitempty"`
	Divider       *DividerBody    `json:"divider,omitempty"`
	Table         *TableBody      `json:"table,omitempty"`
	TableRow      *TableRowBody   `json:"table_row,omitempty"`
	ChildPage     *ChildPageBody  `json:"child_page,omitempty"`
	ChildDatabase *ChildPageBody  `json:"child_database,omitempty"`
	LinkToPage    *LinkToPageBody `json:"link_to_page,omitempty"`

	// Raw is the original JSON of a downloaded block, kept so payloads of
	// unmodelled types are not silently dropped.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed fields and keeps a copy of the source
// bytes in Raw.
func (b *Block) UnmarshalJSON(data []byte) error {
	type alias Block
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = Block(a)
	b.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// protectedTypes are block types that cannot be recreated from markdown.
// Replacing a page's children must leave these in place unless forced.
var protectedTypes = map[string]bool{
	"child_page":     true,
	"child_database": true,
	"synced_block":   true,
}

// Protected reports whether the block must survive a non-forced replace.
func (b Block) Protected() bool {
	return protectedTypes[b.Type]
}

// TextRuns returns the rich text runs of the block's payload, or nil for
// types that carry none.
func (b Block) TextRuns() []RichText {
	switch b.Type {
	case "paragraph":
		if b.Paragraph != nil {
			return b.Paragraph.RichText
		}
	case "heading_1":
		if b.Heading1 != nil {
			return b.Heading1.RichText
		}
	case "heading_2":
		if b.Heading2 != nil {
			return b.Heading2.RichText
		}
	case "heading_3":
		if b.Heading3 != nil {
			return b.Heading3.RichText
		}
	case "bulleted_list_item":
		if b.BulletedItem != nil {
			return b.BulletedItem.RichText
		}
	case "numbered_list_item":
		if b.NumberedItem != nil {
			return b.NumberedItem.RichText
		}
	case "to_do":
		if b.ToDo != nil {
			return b.ToDo.RichText
		}
	case "quote":
		if b.Quote != nil {
			return b.Quote.RichText
		}
	case "code":
		if b.Code != nil {
			return b.Code.RichText
		}
	}
	return nil
}

// Page is the wire representation of a Notion page.
type Page struct {
	Object         string                  `json:"object,omitempty"`
	ID             string                  `json:"id"`
	URL            string                  `json:"url,omitempty"`
	CreatedTime    string                  `json:"created_time,omitempty"`
	LastEditedTime string                  `json:"last_edited_time,omitempty"`
	Properties     map[string]pageProperty `json:"properties,omitempty"`
}

type pageProperty struct {
	Type  string     `json:"type"`
	Title []RichText `json:"title,omitempty"`
}

// Title concatenates the page's title property runs.
func (p *Page) Title() string {
	for _, prop := range p.Properties {
		if prop.Type != "title" {
			continue
		}
		var title string
		for _, run := range prop.Title {
			title += run.Content()
		}
		return title
	}
	return ""
}
