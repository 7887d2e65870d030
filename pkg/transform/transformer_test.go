package transform_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdlive/pkg/config"
	"github.com/yaklabco/gomdlive/pkg/marker"
	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/transform"
)

// end places a collapsed caret after the last byte, outside every node.
const end = -1

func caretFor(text string, caret int) mdast.Selection {
	if caret == end {
		return mdast.Caret(len(text))
	}
	return mdast.Caret(caret)
}

func TestTransform_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		caret int
		want  string
	}{
		{name: "bold hidden", text: "**bold**", caret: end, want: "bold"},
		{name: "bold caret inside", text: "**bold**", caret: 4, want: "**bold**"},
		{name: "bold caret at start", text: "**bold**", caret: 0, want: "**bold**"},
		{name: "only the node under the caret shows", text: "**a** **b**", caret: 1, want: "**a** b"},
		{name: "caret in outer node only", text: "***x***", caret: 0, want: "*x*"},
		{name: "heading", text: "# Title", caret: end, want: "Title"},
		{name: "heading caret inside", text: "# Title", caret: 3, want: "# Title"},
		{name: "hashtag stays", text: "#tag", caret: end, want: "#tag"},
		{name: "unterminated emphasis", text: "*foo", caret: end, want: "*foo"},
		{name: "internal link alias", text: "[[Note|Alias]]", caret: end, want: "Alias"},
		{name: "internal link subpath", text: "see [[Note#Head]] x", caret: end, want: "see Note#Head x"},
		{name: "embed placeholder", text: "![[pic.png]]", caret: end, want: "📎 pic.png"},
		{name: "embed alias", text: "![[pic.png|small]]", caret: end, want: "📎 small"},
		{name: "inline link", text: "[site](http://x.io)", caret: end, want: "site"},
		{name: "image", text: "![alt](a.png)", caret: end, want: "alt"},
		{name: "angle autolink", text: "<http://x.io>", caret: end, want: "http://x.io"},
		{name: "bare url", text: "go http://x.io now", caret: end, want: "go http://x.io now"},
		{name: "code span", text: "`code`", caret: end, want: "code"},
		{name: "strikethrough", text: "~~s~~", caret: end, want: "s"},
		{name: "highlight", text: "==h==", caret: end, want: "h"},
		{name: "comment", text: "a %%note%% b", caret: end, want: "a note b"},
		{name: "inline math", text: "$x$", caret: end, want: "x"},
		{name: "footnote link", text: "a[^1]", caret: end, want: "a1"},
		{name: "inline footnote", text: "a^[note]", caret: end, want: "anote"},
		{name: "block id", text: "text ^abc", caret: end, want: "text "},
		{name: "quote", text: "> quote", caret: end, want: "quote"},
		{name: "nested quotes", text: "> a\n>> b", caret: end, want: "a\nb"},
		{name: "callout with title", text: "> [!warning]- Careful\n> body", caret: end, want: "Careful\nbody"},
		{name: "callout without title", text: "> [!tip]\n> hi", caret: end, want: "Tip\nhi"},
		{name: "task list", text: "- [ ] task\n- [x] done", caret: end, want: "• ☐ task\n• ☑ done"},
		{name: "ordered list keeps numbers", text: "1. a\n2. b", caret: end, want: "1. a\n2. b"},
		{name: "code fence", text: "```go\nfmt\n```\n", caret: end, want: "fmt\n\n"},
		{name: "math block", text: "$$\nx\n$$", caret: end, want: "x\n"},
		{name: "comment block", text: "%%\nhidden\n%%", caret: end, want: "hidden\n"},
		{name: "footnote definition", text: "[^1]: note", caret: end, want: "1 note"},
		{name: "horizontal rule stays", text: "***", caret: end, want: "***"},
		{name: "frontmatter fences", text: "---\ntitle: x\n---\nbody", caret: end, want: "title: x\n\nbody"},
		{name: "empty", text: "", caret: end, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := transform.New().Transform(tt.text, caretFor(tt.text, tt.caret))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Text)
			assert.Equal(t, len(res.Text), res.Mapper.TransformedLen())
		})
	}
}

func TestTransform_SelectionShowsAllMarkers(t *testing.T) {
	t.Parallel()

	text := "# Title **b** [[x|y]]"
	tr := transform.New()

	for _, sel := range []mdast.Selection{
		{Start: 0, End: len(text)},
		{Start: 2, End: 3},
		{Start: 15, End: 10},
	} {
		res, err := tr.Transform(text, sel)
		require.NoError(t, err)
		assert.Equal(t, text, res.Text, "selection %+v", sel)
		assert.Empty(t, res.Markers)
	}
}

func TestTransform_Markers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []marker.Marker
	}{
		{
			name: "bold",
			text: "**bold**",
			want: []marker.Marker{{StartOffset: 0, EndOffset: 2}, {StartOffset: 6, EndOffset: 8}},
		},
		{
			name: "heading",
			text: "# Title",
			want: []marker.Marker{{StartOffset: 0, EndOffset: 2}},
		},
		{
			name: "internal link alias",
			text: "[[Note|Alias]]",
			want: []marker.Marker{
				{StartOffset: 0, EndOffset: 2},
				{StartOffset: 2, EndOffset: 7},
				{StartOffset: 12, EndOffset: 14},
			},
		},
		{
			name: "bullet and task box",
			text: "- [x] done",
			want: []marker.Marker{
				{StartOffset: 0, EndOffset: 1, Replacement: "•"},
				{StartOffset: 2, EndOffset: 5, Replacement: "☑"},
			},
		},
		{
			name: "untitled callout",
			text: "> [!tip]\n> hi",
			want: []marker.Marker{
				{StartOffset: 0, EndOffset: 2},
				{StartOffset: 2, EndOffset: 8, Replacement: "Tip"},
				{StartOffset: 9, EndOffset: 11},
			},
		},
		{
			name: "unterminated emphasis",
			text: "*foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := transform.New().Transform(tt.text, mdast.Caret(len(tt.text)))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, res.Markers); diff != "" {
				t.Errorf("markers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransform_Styles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		caret int
		want  []transform.StyleRange
	}{
		{
			name:  "hidden delimiters drop marker styles",
			text:  "**bold**",
			caret: end,
			want: []transform.StyleRange{
				{Start: 0, End: 4, Style: transform.Style{Kind: transform.StyleStrong}},
			},
		},
		{
			name:  "visible delimiters are marker styled",
			text:  "**bold**",
			caret: 4,
			want: []transform.StyleRange{
				{Start: 0, End: 2, Style: transform.Style{Kind: transform.StyleMarker}},
				{Start: 6, End: 8, Style: transform.Style{Kind: transform.StyleMarker}},
				{Start: 2, End: 6, Style: transform.Style{Kind: transform.StyleStrong}},
			},
		},
		{
			name:  "heading",
			text:  "# Title",
			caret: end,
			want: []transform.StyleRange{
				{Start: 0, End: 5, Style: transform.Style{Kind: transform.StyleHeading, Level: 1, Paragraph: true}},
			},
		},
		{
			name:  "internal link label",
			text:  "[[Note|Alias]]",
			caret: end,
			want: []transform.StyleRange{
				{Start: 0, End: 5, Style: transform.Style{Kind: transform.StyleInternalLink, Annotation: "Note"}},
			},
		},
		{
			name:  "hashtag",
			text:  "#tag",
			caret: end,
			want: []transform.StyleRange{
				{Start: 0, End: 4, Style: transform.Style{Kind: transform.StyleHashtag, Annotation: "#tag"}},
			},
		},
		{
			name:  "embed covers placeholder",
			text:  "![[a]]",
			caret: end,
			want: []transform.StyleRange{
				{Start: 0, End: len("📎 a"), Style: transform.Style{Kind: transform.StyleEmbed, Annotation: "a"}},
			},
		},
		{
			name:  "unterminated emphasis has no styles",
			text:  "*foo",
			caret: end,
			want:  []transform.StyleRange{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := transform.New().Transform(tt.text, caretFor(tt.text, tt.caret))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, res.Styles); diff != "" {
				t.Errorf("styles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func stylesOf(styles []transform.StyleRange, kind transform.StyleKind) []transform.StyleRange {
	var out []transform.StyleRange
	for _, s := range styles {
		if s.Style.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func TestTransform_ParagraphIndentIsAdditive(t *testing.T) {
	t.Parallel()

	tr := transform.New()

	res, err := tr.Transform("> - a\n>   - b", mdast.Caret(0))
	require.NoError(t, err)

	quotes := stylesOf(res.Styles, transform.StyleQuote)
	require.Len(t, quotes, 1)
	assert.Equal(t, 1, quotes[0].Style.Indent)

	lists := stylesOf(res.Styles, transform.StyleList)
	require.Len(t, lists, 2)
	assert.Equal(t, 2, lists[0].Style.Indent)
	assert.Equal(t, 3, lists[1].Style.Indent)
	assert.Equal(t, 2, lists[1].Style.Level)

	// A sibling after the quote starts from zero again.
	res, err = tr.Transform("> a\n\n- b", mdast.Caret(0))
	require.NoError(t, err)

	lists = stylesOf(res.Styles, transform.StyleList)
	require.Len(t, lists, 1)
	assert.Equal(t, 1, lists[0].Style.Indent)
}

func TestTransform_CodeFenceLanguage(t *testing.T) {
	t.Parallel()

	text := "```golang\nfmt\n```\n\n```\npackage main\n```"
	res, err := transform.New().Transform(text, mdast.Caret(0))
	require.NoError(t, err)

	blocks := stylesOf(res.Styles, transform.StyleCodeBlock)
	require.Len(t, blocks, 2)
	assert.Equal(t, "go", blocks[0].Style.Language)
	assert.Equal(t, "go", blocks[1].Style.Language)
}

func TestTransform_Config(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Render.BulletGlyph = ""
	cfg.Render.EmbedPlaceholder = "[embed] "
	cfg.Render.HideFrontmatter = true
	cfg.Dialect.Hashtags = false

	tr := transform.New(transform.WithConfig(cfg))

	tests := []struct {
		text string
		want string
	}{
		{text: "- item", want: "- item"},
		{text: "![[a]]", want: "[embed] a"},
		{text: "---\na: 1\n---\nbody", want: "\nbody"},
	}
	for _, tt := range tests {
		res, err := tr.Transform(tt.text, mdast.Caret(len(tt.text)))
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Text, "text %q", tt.text)
	}

	res, err := tr.Transform("#tag", mdast.Caret(4))
	require.NoError(t, err)
	assert.Empty(t, stylesOf(res.Styles, transform.StyleHashtag))
}

func TestTransformer_Cache(t *testing.T) {
	t.Parallel()

	tr := transform.New()
	assert.Equal(t, transform.StateIdle, tr.State())

	res1, err := tr.Transform("**a** b", mdast.Caret(0))
	require.NoError(t, err)
	assert.Equal(t, transform.StateTransformed, tr.State())

	// A caret move reuses the tree.
	res2, err := tr.Transform("**a** b", mdast.Caret(7))
	require.NoError(t, err)
	assert.Same(t, res1.Document, res2.Document)
	assert.NotEqual(t, res1.Text, res2.Text)

	// An edit reparses.
	res3, err := tr.Transform("**a** c", mdast.Caret(7))
	require.NoError(t, err)
	assert.NotSame(t, res2.Document, res3.Document)

	assert.Same(t, res3.Document, tr.Parse("**a** c"))
	assert.Equal(t, transform.StateParsed, tr.State())

	tr.Reset()
	assert.Equal(t, transform.StateIdle, tr.State())
	assert.NotSame(t, res3.Document, tr.Parse("**a** c"))
}

func TestTransform_IdempotentReparse(t *testing.T) {
	t.Parallel()

	text := "# H\n\n> [!note] T\n> - [ ] x **y** [[z]]\n\n```go\nfmt\n```"
	a := transform.New().Parse(text)
	b := transform.New().Parse(text)
	assert.Equal(t, mdast.Dump(a.Root, text), mdast.Dump(b.Root, text))
}

func TestTransform_SelectionIsMapped(t *testing.T) {
	t.Parallel()

	text := "**a** b"
	res, err := transform.New().Transform(text, mdast.Caret(7))
	require.NoError(t, err)
	assert.Equal(t, "a b", res.Text)
	assert.Equal(t, mdast.Caret(3), res.Selection)

	// Out of range carets are clamped.
	res, err = transform.New().Transform(text, mdast.Caret(100))
	require.NoError(t, err)
	assert.Equal(t, mdast.Caret(3), res.Selection)
}
