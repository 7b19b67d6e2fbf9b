// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"

	"github.com/graemejross/notion-sync-tools/pkg/types"
)

// ParseSpans parses one logical line of text into its span tree. Marker
// pairing is leftmost-match and non-greedy: scanning left to right, the
// first opening delimiter with a valid closer wins, and the span's content
// runs to the first such closer. Markers that cannot be paired, and pairs
// enclosing empty content, are emitted as literal text. The parser is
// total: every input produces a span sequence, there is no error path.
func ParseSpans(text string) []types.Span {
	var spans []types.Span
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			spans = append(spans, types.TextSpan(literal.String()))
			literal.Reset()
		}
	}

	i := 0
	for i < len(text) {
		rest := text[i:]

		// Inline code binds strongest; its content is literal and
		// shields enclosed markers from emphasis and link matching.
		if rest[0] == '`' {
			if content, size, ok := matchDelim(rest, "`"); ok {
				flush()
				spans = append(spans, types.StyledSpan(types.StyleCode, types.TextSpan(content)))
				i += size
				continue
			}
		}

		if rest[0] == '[' {
			if linkText, url, size, ok := matchLink(rest); ok {
				flush()
				spans = append(spans, types.LinkSpan(url, ParseSpans(linkText)...))
				i += size
				continue
			}
		}

		if delim := emphasisDelim(rest); delim != "" {
			style := styleFor(delim)
			if content, size, ok := matchDelim(rest, delim); ok && !shielded(rest, len(delim)+len(content)) {
				flush()
				spans = append(spans, types.StyledSpan(style, ParseSpans(content)...))
				i += size
				continue
			}
		}

		// Marker bytes are all ASCII, so advancing byte-wise never
		// lands inside a multi-byte rune.
		literal.WriteByte(rest[0])
		i++
	}

	flush()
	return spans
}

// emphasisDelim returns the emphasis delimiter opening at the front of s,
// or "" if none. Bold is checked before italic at the same position.
func emphasisDelim(s string) string {
	switch {
	case strings.HasPrefix(s, "**"):
		return "**"
	case strings.HasPrefix(s, "*"):
		return "*"
	case strings.HasPrefix(s, "~~"):
		return "~~"
	}
	return ""
}

// styleFor maps an emphasis delimiter to its style kind.
func styleFor(delim string) types.StyleKind {
	switch delim {
	case "**":
		return types.StyleBold
	case "~~":
		return types.StyleStrike
	}
	return types.StyleItalic
}

// matchDelim matches a delimiter pair at the front of s and returns the
// enclosed content and the total bytes consumed. Pairs with empty content
// do not count.
func matchDelim(s, delim string) (content string, size int, ok bool) {
	inner := s[len(delim):]
	end := strings.Index(inner, delim)
	if end <= 0 {
		return "", 0, false
	}
	return inner[:end], len(delim)*2 + end, true
}

// matchLink matches [text](url) at the front of s. Text may not contain
// "]" and url may not contain ")"; both must be non-empty.
func matchLink(s string) (text, url string, size int, ok bool) {
	closeBracket := strings.IndexByte(s, ']')
	if closeBracket < 2 {
		return "", "", 0, false
	}
	if closeBracket+1 >= len(s) || s[closeBracket+1] != '(' {
		return "", "", 0, false
	}
	closeParen := strings.IndexByte(s[closeBracket+2:], ')')
	if closeParen <= 0 {
		return "", "", 0, false
	}
	text = s[1:closeBracket]
	url = s[closeBracket+2 : closeBracket+2+closeParen]
	return text, url, closeBracket + 2 + closeParen + 1, true
}

// shielded reports whether the emphasis closer at offset end in s falls
// inside a code span or link that opens before it and closes after it.
// Such a pairing would split a stronger-binding construct, so the
// emphasis marker degrades to literal text instead.
func shielded(s string, end int) bool {
	for j := 1; j < end; j++ {
		switch s[j] {
		case '`':
			close := strings.IndexByte(s[j+1:], '`')
			if close < 0 {
				continue
			}
			if j+1+close >= end {
				return true
			}
			j += 1 + close
		case '[':
			_, _, size, ok := matchLink(s[j:])
			if !ok {
				continue
			}
			if j+size > end {
				return true
			}
			j += size - 1
		}
	}
	return false
}
