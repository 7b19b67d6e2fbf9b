// Package markdown parses markdown text into the block/span document tree
// and serializes the tree back to text. Parsing is a deterministic single
// pass over lines; inline formatting is resolved per line by ParseSpans.
// Front matter handling lives here too, so a file's sync record and its
// body are separated exactly once, at the document boundary.
package markdown

import (
	"fmt"
	"strings"

	"github.com/graemejross/notion-sync-tools/pkg/types"
)

// ParseError reports malformed block structure at a one-based line number.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse converts document text (front matter already removed) into its
// ordered block sequence. Block boundaries are line-oriented; consecutive
// plain lines join into one paragraph and a blank line separates
// paragraphs. The only error case is a non-rectangular table.
func Parse(text string) ([]types.Block, error) {
	lines := strings.Split(text, "\n")
	var blocks []types.Block
	var para []string

	flushPara := func() {
		if len(para) > 0 {
			blocks = append(blocks, types.Block{
				Kind:  types.BlockParagraph,
				Spans: ParseSpans(strings.Join(para, " ")),
			})
			para = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		switch {
		case trimmed == "":
			flushPara()

		case strings.HasPrefix(trimmed, "```"):
			flushPara()
			lang := strings.ToLower(strings.TrimSpace(trimmed[3:]))
			var body []string
			i++
			for ; i < len(lines); i++ {
				if strings.TrimSpace(lines[i]) == "```" {
					break
				}
				body = append(body, lines[i])
			}
			// An unterminated fence consumes to end of document.
			blocks = append(blocks, types.Block{
				Kind:     types.BlockCode,
				Language: lang,
				Text:     strings.Join(body, "\n"),
			})

		case headingLevel(trimmed) > 0:
			flushPara()
			level := headingLevel(trimmed)
			blocks = append(blocks, types.Block{
				Kind:  types.BlockHeading,
				Level: level,
				Spans: ParseSpans(trimmed[level+1:]),
			})

		case strings.HasPrefix(trimmed, "- [ ] ") || strings.HasPrefix(trimmed, "- [x] ") || strings.HasPrefix(trimmed, "- [X] "):
			flushPara()
			blocks = append(blocks, types.Block{
				Kind:    types.BlockTodo,
				Checked: trimmed[3] == 'x' || trimmed[3] == 'X',
				Spans:   ParseSpans(trimmed[6:]),
			})

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			flushPara()
			blocks = append(blocks, types.Block{
				Kind:  types.BlockBullet,
				Spans: ParseSpans(trimmed[2:]),
			})

		case strings.HasPrefix(trimmed, "> "):
			flushPara()
			blocks = append(blocks, types.Block{
				Kind:  types.BlockQuote,
				Spans: ParseSpans(trimmed[2:]),
			})

		case trimmed == "---":
			flushPara()
			blocks = append(blocks, types.Block{Kind: types.BlockDivider})

		case strings.HasPrefix(trimmed, "|"):
			// A table needs a header-separator row on the next line.
			// Without it the pipe lines are ordinary paragraph text.
			header := splitRow(trimmed)
			if i+1 >= len(lines) || !isSeparatorRow(strings.TrimSpace(lines[i+1]), len(header)) {
				para = append(para, trimmed)
				break
			}
			flushPara()
			table := types.Block{Kind: types.BlockTable, HasHeader: true}
			table.Rows = append(table.Rows, rowToCells(header))
			j := i + 2
			for ; j < len(lines); j++ {
				rowLine := strings.TrimSpace(lines[j])
				if !strings.HasPrefix(rowLine, "|") {
					break
				}
				cells := splitRow(rowLine)
				if len(cells) != len(header) {
					return nil, &ParseError{
						Line: j + 1,
						Msg:  fmt.Sprintf("table row has %d cells, header has %d", len(cells), len(header)),
					}
				}
				table.Rows = append(table.Rows, rowToCells(cells))
			}
			blocks = append(blocks, table)
			i = j - 1

		default:
			if text, ok := numberedText(trimmed); ok {
				flushPara()
				blocks = append(blocks, types.Block{
					Kind:  types.BlockNumbered,
					Spans: ParseSpans(text),
				})
				break
			}
			para = append(para, trimmed)
		}
	}

	flushPara()
	return blocks, nil
}

// headingLevel returns 1–3 for "# ", "## ", "### " prefixes and 0
// otherwise. Deeper heading markers are not headings here; the line
// falls through to paragraph text.
func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level < 1 || level > 3 || level >= len(line) || line[level] != ' ' {
		return 0
	}
	return level
}

// numberedText returns the content after an "N. " prefix, if present.
func numberedText(line string) (string, bool) {
	dot := strings.IndexByte(line, '.')
	if dot < 1 || dot+2 > len(line) || line[dot+1] != ' ' {
		return "", false
	}
	for k := 0; k < dot; k++ {
		if line[k] < '0' || line[k] > '9' {
			return "", false
		}
	}
	return line[dot+2:], true
}

// splitRow splits a pipe-delimited table line into trimmed cell strings,
// dropping the empty edges produced by leading and trailing pipes.
func splitRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// isSeparatorRow reports whether line is a table header-separator row
// (cells of dashes with optional colon edges) matching the header width.
func isSeparatorRow(line string, width int) bool {
	if !strings.HasPrefix(line, "|") {
		return false
	}
	cells := splitRow(line)
	if len(cells) != width {
		return false
	}
	for _, c := range cells {
		if !strings.Contains(c, "-") {
			return false
		}
		for _, r := range c {
			if r != '-' && r != ':' {
				return false
			}
		}
	}
	return true
}

// rowToCells parses each cell's inline formatting.
func rowToCells(cells []string) types.TableRow {
	row := types.TableRow{Cells: make([][]types.Span, len(cells))}
	for i, c := range cells {
		row.Cells[i] = ParseSpans(c)
	}
	return row
}
