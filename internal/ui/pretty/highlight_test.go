package pretty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/transform"
)

func codeBlock(text, lang string) []transform.StyleRange {
	return []transform.StyleRange{{
		Start: 0,
		End:   len(text),
		Style: transform.Style{Kind: transform.StyleCodeBlock, Language: lang, Paragraph: true},
	}}
}

func TestSyntaxSpans(t *testing.T) {
	t.Parallel()

	text := "func main() {}\n"
	spans := NewStyles(true).syntaxSpans(text, codeBlock(text, "go"))
	require.NotEmpty(t, spans)

	assert.Equal(t, 0, spans[0].start)
	assert.Equal(t, "func", text[spans[0].start:spans[0].end])
	for _, sp := range spans {
		assert.LessOrEqual(t, sp.end, len(text))
		assert.Less(t, sp.start, sp.end)
	}
}

func TestSyntaxSpans_Skipped(t *testing.T) {
	t.Parallel()

	text := "func main() {}\n"

	tests := []struct {
		name   string
		styles *Styles
		ranges []transform.StyleRange
	}{
		{"no color", NewStyles(false), codeBlock(text, "go")},
		{"no language", NewStyles(true), codeBlock(text, "")},
		{"unknown language", NewStyles(true), codeBlock(text, "nosuchlang")},
		{"not code", NewStyles(true), []transform.StyleRange{{
			Start: 0,
			End:   len(text),
			Style: transform.Style{Kind: transform.StyleQuote, Language: "go"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Empty(t, tt.styles.syntaxSpans(text, tt.ranges))
		})
	}
}

func TestRenderPreview_HighlightedCodeKeepsText(t *testing.T) {
	t.Parallel()

	src := "```go\nfunc main() {}\n```\n\nafter"
	res, err := transform.New().Transform(src, mdast.Caret(len(src)))
	require.NoError(t, err)

	out := NewStyles(true).RenderPreview(res, PreviewOptions{})
	assert.Contains(t, out, "func")
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "after")
}
