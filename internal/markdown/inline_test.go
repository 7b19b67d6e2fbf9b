// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"reflect"
	"testing"

	"github.com/graemejross/notion-sync-tools/pkg/types"
)

// --- ParseSpans ---

func TestParseSpans(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []types.Span
	}{
		{
			name: "plain text",
			text: "hello world",
			want: []types.Span{types.TextSpan("hello world")},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "bold",
			text: "a **bold** b",
			want: []types.Span{
				types.TextSpan("a "),
				types.StyledSpan(types.StyleBold, types.TextSpan("bold")),
				types.TextSpan(" b"),
			},
		},
		{
			name: "italic",
			text: "*soft*",
			want: []types.Span{
				types.StyledSpan(types.StyleItalic, types.TextSpan("soft")),
			},
		},
		{
			name: "strikethrough",
			text: "~~gone~~",
			want: []types.Span{
				types.StyledSpan(types.StyleStrike, types.TextSpan("gone")),
			},
		},
		{
			name: "inline code",
			text: "run `go build` now",
			want: []types.Span{
				types.TextSpan("run "),
				types.StyledSpan(types.StyleCode, types.TextSpan("go build")),
				types.TextSpan(" now"),
			},
		},
		{
			name: "link",
			text: "see [docs](https://example.com)",
			want: []types.Span{
				types.TextSpan("see "),
				types.LinkSpan("https://example.com", types.TextSpan("docs")),
			},
		},
		{
			name: "bold inside link text",
			text: "[**bold** label](u)",
			want: []types.Span{
				types.LinkSpan("u",
					types.StyledSpan(types.StyleBold, types.TextSpan("bold")),
					types.TextSpan(" label"),
				),
			},
		},
		{
			name: "code inside link text",
			text: "[`x`](u)",
			want: []types.Span{
				types.LinkSpan("u", types.StyledSpan(types.StyleCode, types.TextSpan("x"))),
			},
		},
		{
			name: "strike nested in bold",
			text: "**a ~~s~~**",
			want: []types.Span{
				types.StyledSpan(types.StyleBold,
					types.TextSpan("a "),
					types.StyledSpan(types.StyleStrike, types.TextSpan("s")),
				),
			},
		},
		{
			name: "link nested in italic",
			text: "*a [b](u) c*",
			want: []types.Span{
				types.StyledSpan(types.StyleItalic,
					types.TextSpan("a "),
					types.LinkSpan("u", types.TextSpan("b")),
					types.TextSpan(" c"),
				),
			},
		},
		{
			name: "unpaired asterisk stays literal",
			text: "2 * 3 = 6",
			want: []types.Span{types.TextSpan("2 * 3 = 6")},
		},
		{
			name: "unterminated bold stays literal",
			text: "**almost",
			want: []types.Span{types.TextSpan("**almost")},
		},
		{
			name: "empty pair stays literal",
			text: "a ** b",
			want: []types.Span{types.TextSpan("a ** b")},
		},
		{
			name: "code shields emphasis markers",
			text: "`a*b`",
			want: []types.Span{
				types.StyledSpan(types.StyleCode, types.TextSpan("a*b")),
			},
		},
		{
			name: "emphasis cannot split a code span",
			text: "*a `b*` c",
			want: []types.Span{
				types.TextSpan("*a "),
				types.StyledSpan(types.StyleCode, types.TextSpan("b*")),
				types.TextSpan(" c"),
			},
		},
		{
			name: "emphasis cannot split link text",
			text: "*a [b*](u)",
			want: []types.Span{
				types.TextSpan("*a "),
				types.LinkSpan("u", types.TextSpan("b*")),
			},
		},
		{
			name: "malformed link stays literal",
			text: "[a](",
			want: []types.Span{types.TextSpan("[a](")},
		},
		{
			name: "bare brackets stay literal",
			text: "slice[0] = 1",
			want: []types.Span{types.TextSpan("slice[0] = 1")},
		},
		{
			name: "multibyte text survives",
			text: "héllo **wörld**",
			want: []types.Span{
				types.TextSpan("héllo "),
				types.StyledSpan(types.StyleBold, types.TextSpan("wörld")),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSpans(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSpans(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

// ParseSpans never fails; arbitrary marker soup must still come back as
// some span sequence whose rendered text contains every input character.
func TestParseSpansTotal(t *testing.T) {
	inputs := []string{
		"*", "**", "***", "~~", "`", "[", "[]()", "a*b**c~~d`e[f",
		"**a*", "*a**", "~~a~", "`a", "[a]", "[a](b",
	}
	for _, in := range inputs {
		spans := ParseSpans(in)
		if got := renderSpans(spans); got != in {
			t.Errorf("ParseSpans(%q) rendered back to %q", in, got)
		}
	}
}
