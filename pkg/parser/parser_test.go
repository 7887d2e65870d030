package parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdlive/pkg/config"
	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/parser"
)

// outline joins dump lines the way mdast.Dump writes them.
func outline(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func parseValid(t *testing.T, p *parser.Parser, content string) *mdast.Document {
	t.Helper()

	doc := p.Parse(content)
	require.NotNil(t, doc)
	require.NotNil(t, doc.Root)
	require.NoError(t, mdast.Validate(doc.Root, len(content)))
	require.True(t, mdast.ValidateTokens(doc.Tokens, len(content)))

	return doc
}

func TestParse_Inline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bold",
			content: "**bold**",
			want: outline(
				`Document [0:8]`,
				`  Paragraph [0:8]`,
				`    Bold [0:8] "**bold**"`,
			),
		},
		{
			name:    "bold inside italic",
			content: "***x***",
			want: outline(
				`Document [0:7]`,
				`  Paragraph [0:7]`,
				`    Italic [0:7]`,
				`      Bold [1:6] "**x**"`,
			),
		},
		{
			name:    "strikethrough and highlight",
			content: "~~s~~ ==h==",
			want: outline(
				`Document [0:11]`,
				`  Paragraph [0:11]`,
				`    Strikethrough [0:5] "~~s~~"`,
				`    Highlight [6:11] "==h=="`,
			),
		},
		{
			name:    "unmatched delimiter stays text",
			content: "**a",
			want: outline(
				`Document [0:3]`,
				`  Paragraph [0:3] "**a"`,
			),
		},
		{
			name:    "intraword underscore",
			content: "snake_case_name",
			want: outline(
				`Document [0:15]`,
				`  Paragraph [0:15] "snake_case_name"`,
			),
		},
		{
			name:    "emphasis across lines",
			content: "a *b\nc* d",
			want: outline(
				`Document [0:9]`,
				`  Paragraph [0:9]`,
				`    Italic [2:7] "*b\nc*"`,
			),
		},
		{
			name:    "code span wins over emphasis",
			content: "`**x**` **y**",
			want: outline(
				`Document [0:13]`,
				`  Paragraph [0:13]`,
				"    CodeSpan [0:7] \"`**x**`\"",
				`    Bold [8:13] "**y**"`,
			),
		},
		{
			name:    "comment hides inner syntax",
			content: "a %%b **c**%% d",
			want: outline(
				`Document [0:15]`,
				`  Paragraph [0:15]`,
				`    Comment [2:13] "%%b **c**%%"`,
			),
		},
		{
			name:    "link label is parsed",
			content: "[a **b**](http://x)",
			want: outline(
				`Document [0:19]`,
				`  Paragraph [0:19]`,
				`    InlineLink [0:19] dest=http://x`,
				`      Bold [3:8] "**b**"`,
			),
		},
		{
			name:    "obsidian inline constructs",
			content: "see [[A|B]] and ![[c.png]] #tag ^id",
			want: outline(
				`Document [0:35]`,
				`  Paragraph [0:35]`,
				`    InternalLink [4:11] dest=A alias=B "[[A|B]]"`,
				`    Embed [16:26] dest=c.png "![[c.png]]"`,
				`    Hashtag [27:31] name=tag "#tag"`,
				`    BlockID [32:35] name=id "^id"`,
			),
		},
		{
			name:    "footnotes",
			content: "[^1] and ^[inline]",
			want: outline(
				`Document [0:18]`,
				`  Paragraph [0:18]`,
				`    FootnoteLink [0:4] name=1 "[^1]"`,
				`    InlineFootnote [9:18] "^[inline]"`,
			),
		},
		{
			name:    "inline math",
			content: "$x^2$",
			want: outline(
				`Document [0:5]`,
				`  Paragraph [0:5]`,
				`    InlineMath [0:5] "$x^2$"`,
			),
		},
		{
			name:    "prices are not math",
			content: "$5 and $6",
			want: outline(
				`Document [0:9]`,
				`  Paragraph [0:9] "$5 and $6"`,
			),
		},
		{
			name:    "angle autolink",
			content: "<https://a.b>",
			want: outline(
				`Document [0:13]`,
				`  Paragraph [0:13]`,
				`    Autolink [0:13] dest=https://a.b "<https://a.b>"`,
			),
		},
		{
			name:    "bare url drops trailing punctuation",
			content: "see https://x.org.",
			want: outline(
				`Document [0:18]`,
				`  Paragraph [0:18]`,
				`    Autolink [4:17] dest=https://x.org "https://x.org"`,
			),
		},
		{
			name:    "hashtag needs a boundary",
			content: "#tag and a#b",
			want: outline(
				`Document [0:12]`,
				`  Paragraph [0:12]`,
				`    Hashtag [0:4] name=tag "#tag"`,
			),
		},
	}

	p := parser.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseValid(t, p, tt.content)
			if diff := cmp.Diff(tt.want, mdast.Dump(doc.Root, tt.content)); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Blocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "heading with inline content",
			content: "# Title *x*",
			want: outline(
				`Document [0:11]`,
				`  Heading [0:11] level=1`,
				`    Italic [8:11] "*x*"`,
			),
		},
		{
			name:    "hash without space is a tag",
			content: "#tag",
			want: outline(
				`Document [0:4]`,
				`  Paragraph [0:4]`,
				`    Hashtag [0:4] name=tag "#tag"`,
			),
		},
		{
			name:    "callout",
			content: "> [!warning]- Careful\n> body **b**",
			want: outline(
				`Document [0:34]`,
				`  Callout [0:34] type=warning`,
				`    Paragraph [24:34]`,
				`      Bold [29:34] "**b**"`,
			),
		},
		{
			name:    "nested quotes",
			content: "> a\n>> b",
			want: outline(
				`Document [0:8]`,
				`  BlockQuote [0:8]`,
				`    Paragraph [2:3] "a"`,
				`    BlockQuote [5:8]`,
				`      Paragraph [7:8] "b"`,
			),
		},
		{
			name:    "task list",
			content: "- [ ] task\n- [x] done",
			want: outline(
				`Document [0:21]`,
				`  UnorderedList [0:21]`,
				`    ListItem [0:10] task checked=false`,
				`      Paragraph [6:10] "task"`,
				`    ListItem [11:21] task checked=true`,
				`      Paragraph [17:21] "done"`,
			),
		},
		{
			name:    "nested list",
			content: "- a\n  - b",
			want: outline(
				`Document [0:9]`,
				`  UnorderedList [0:9]`,
				`    ListItem [0:9]`,
				`      Paragraph [2:3] "a"`,
				`      UnorderedList [6:9]`,
				`        ListItem [6:9]`,
				`          Paragraph [8:9] "b"`,
			),
		},
		{
			name:    "ordered list",
			content: "1. a\n2. b",
			want: outline(
				`Document [0:9]`,
				`  OrderedList [0:9]`,
				`    ListItem [0:4]`,
				`      Paragraph [3:4] "a"`,
				`    ListItem [5:9]`,
				`      Paragraph [8:9] "b"`,
			),
		},
		{
			name:    "code fence",
			content: "```go\nfmt\n```\n",
			want: outline(
				`Document [0:14]`,
				"  CodeFence [0:13] info=go \"```go\\nfmt\\n```\"",
			),
		},
		{
			name:    "footnote definition",
			content: "[^1]: note",
			want: outline(
				`Document [0:10]`,
				`  FootnoteDefinition [0:10] name=1`,
				`    Paragraph [6:10] "note"`,
			),
		},
		{
			name:    "horizontal rule",
			content: "***",
			want: outline(
				`Document [0:3]`,
				`  HorizontalRule [0:3] "***"`,
			),
		},
		{
			name:    "math block",
			content: "$$\nx\n$$",
			want: outline(
				`Document [0:7]`,
				`  MathBlock [0:7] "$$\nx\n$$"`,
			),
		},
		{
			name:    "comment block",
			content: "%%\nhidden\n%%",
			want: outline(
				`Document [0:12]`,
				`  CommentBlock [0:12] "%%\nhidden\n%%"`,
			),
		},
		{
			name:    "paragraph ends at blank line",
			content: "a\nb\n\nc",
			want: outline(
				`Document [0:6]`,
				`  Paragraph [0:3] "a\nb"`,
				`  Paragraph [5:6] "c"`,
			),
		},
	}

	p := parser.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseValid(t, p, tt.content)
			if diff := cmp.Diff(tt.want, mdast.Dump(doc.Root, tt.content)); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_LazyContinuation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		// inItem is whether the final "b" stays inside the list item.
		inItem bool
	}{
		{"paragraph continues", "- a\nb", true},
		{"continues after nested list", "- a\n  - c\nb", true},
		{"footnote paragraph continues", "[^1]: a\nb", true},
		{"closed fence", "- a\n  ```\n  x\n  ```\nb", false},
		{"heading", "- a\n  # h\nb", false},
		{"rule", "- a\n  ---\nb", false},
		{"math block", "- a\n  $$\n  x\n  $$\nb", false},
		{"footnote after fence", "[^1]: a\n    ```\n    x\n    ```\nb", false},
		{"blank line", "- a\n\nb", false},
	}

	p := parser.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseValid(t, p, tt.content)
			last := doc.Root.LastChild
			require.NotNil(t, last)

			if tt.inItem {
				assert.NotEqual(t, mdast.NodeParagraph, last.Kind)
				assert.Equal(t, len(tt.content), last.EndOffset)
				return
			}
			assert.Equal(t, mdast.NodeParagraph, last.Kind)
			assert.Equal(t, "b", last.Text(tt.content))
		})
	}
}

func TestParse_Attributes(t *testing.T) {
	t.Parallel()

	p := parser.New()

	t.Run("internal link ranges", func(t *testing.T) {
		t.Parallel()

		content := "[[Note#H|Alias]]"
		doc := parseValid(t, p, content)

		links := mdast.FindByKind(doc.Root, mdast.NodeInternalLink)
		require.Len(t, links, 1)
		link := links[0].Attrs.Link
		assert.Equal(t, "Note", link.Destination)
		assert.Equal(t, "H", link.Subpath)
		assert.Equal(t, "Alias", link.Alias)
		assert.Equal(t, mdast.SourceRange{StartOffset: 2, EndOffset: 8}, link.Target)
		assert.Equal(t, mdast.SourceRange{StartOffset: 9, EndOffset: 14}, link.Label)
	})

	t.Run("fence ranges", func(t *testing.T) {
		t.Parallel()

		content := "```go\nfmt\n```\n"
		doc := parseValid(t, p, content)

		fence := doc.Root.FirstChild.Attrs.Fence
		assert.True(t, fence.Closed)
		assert.Equal(t, "go", fence.Info)
		assert.Equal(t, mdast.SourceRange{StartOffset: 0, EndOffset: 6}, fence.Open)
		assert.Equal(t, mdast.SourceRange{StartOffset: 6, EndOffset: 9}, fence.Content)
		assert.Equal(t, mdast.SourceRange{StartOffset: 10, EndOffset: 13}, fence.Close)
	})

	t.Run("unterminated fence runs to the end", func(t *testing.T) {
		t.Parallel()

		content := "```\ncode"
		doc := parseValid(t, p, content)

		fence := doc.Root.FirstChild
		require.Equal(t, mdast.NodeCodeFence, fence.Kind)
		assert.False(t, fence.Attrs.Fence.Closed)
		assert.Equal(t, len(content), fence.EndOffset)
		assert.Equal(t, mdast.SourceRange{StartOffset: 4, EndOffset: 8}, fence.Attrs.Fence.Content)
	})

	t.Run("heading marker", func(t *testing.T) {
		t.Parallel()

		doc := parseValid(t, p, "### Three")
		heading := doc.Root.FirstChild
		assert.Equal(t, 3, heading.Attrs.Level)
		assert.Equal(t, 4, heading.Attrs.MarkerEnd)
	})

	t.Run("callout header and title", func(t *testing.T) {
		t.Parallel()

		doc := parseValid(t, p, "> [!warning]- Careful\n> body")
		callout := doc.Root.FirstChild.Attrs.Callout
		require.NotNil(t, callout)
		assert.Equal(t, "warning", callout.Type)
		assert.Equal(t, byte('-'), callout.Fold)
		assert.Equal(t, "Careful", callout.Title)
		assert.Equal(t, mdast.SourceRange{StartOffset: 2, EndOffset: 13}, callout.Header)
		assert.Equal(t, mdast.SourceRange{StartOffset: 14, EndOffset: 21}, callout.TitleRange)
		assert.Equal(t, []mdast.SourceRange{{StartOffset: 0, EndOffset: 2}, {StartOffset: 22, EndOffset: 24}},
			doc.Root.FirstChild.Attrs.Prefixes)
	})

	t.Run("list levels", func(t *testing.T) {
		t.Parallel()

		doc := parseValid(t, p, "- a\n  - b")
		lists := mdast.FindByKind(doc.Root, mdast.NodeUnorderedList)
		require.Len(t, lists, 2)
		assert.Equal(t, 1, lists[0].Attrs.Level)
		assert.Equal(t, 2, lists[1].Attrs.Level)
		assert.Equal(t, "-", lists[0].Attrs.List.BulletMarker)
	})

	t.Run("frontmatter is decoded", func(t *testing.T) {
		t.Parallel()

		content := "---\ntitle: x\n---\nbody"
		doc := parseValid(t, p, content)

		require.Equal(t, mdast.NodeFrontmatter, doc.Root.FirstChild.Kind)
		assert.Equal(t, mdast.SourceRange{StartOffset: 0, EndOffset: 16}, doc.Root.FirstChild.Range())
		require.NoError(t, doc.FrontmatterErr)
		assert.Equal(t, "x", doc.Frontmatter["title"])
	})

	t.Run("broken frontmatter keeps the node", func(t *testing.T) {
		t.Parallel()

		doc := parseValid(t, p, "---\n: [\n---\n")
		require.Equal(t, mdast.NodeFrontmatter, doc.Root.FirstChild.Kind)
		require.Error(t, doc.FrontmatterErr)
	})
}

func TestParse_Dialect(t *testing.T) {
	t.Parallel()

	d := config.NewDialect()
	d.Hashtags = false
	d.Callouts = false
	p := parser.New(parser.WithDialect(d))

	doc := parseValid(t, p, "#tag")
	assert.Empty(t, mdast.FindByKind(doc.Root, mdast.NodeHashtag))

	doc = parseValid(t, p, "> [!note]\n> x")
	assert.Equal(t, mdast.NodeBlockQuote, doc.Root.FirstChild.Kind)
}

func TestParse_CustomChains(t *testing.T) {
	t.Parallel()

	p := parser.New(
		parser.WithInlineParsers(parser.CodeSpanParser{}),
		parser.WithBlockRecognizers(parser.ParagraphRecognizer{}),
	)

	doc := parseValid(t, p, "# **a** `b`")
	require.Equal(t, mdast.NodeParagraph, doc.Root.FirstChild.Kind)
	assert.Empty(t, mdast.FindByKind(doc.Root, mdast.NodeBold))
	assert.Len(t, mdast.FindByKind(doc.Root, mdast.NodeCodeSpan), 1)

	names := make([]string, 0)
	for _, ip := range parser.New().InlineParsers() {
		names = append(names, ip.Name())
	}
	assert.Equal(t, []string{
		"autolink", "block-id", "inline-footnote", "code-span", "math", "image",
		"footnote-link", "embed", "internal-link", "inline-link", "hashtag", "emphasis",
	}, names)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	doc := parser.New().Parse("")
	require.NotNil(t, doc.Root)
	assert.Equal(t, mdast.NodeDocument, doc.Root.Kind)
	assert.False(t, doc.Root.HasChildren())
	assert.Empty(t, doc.Tokens)
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	content := "# H\n\n> [!tip] T\n> - [x] **a** [[b]]\n\n```\nc\n```\n"
	p := parser.New()

	first := mdast.Dump(p.Parse(content).Root, content)
	second := mdast.Dump(p.Parse(content).Root, content)
	assert.Equal(t, first, second)
}

//nolint:gochecknoglobals // Shared seed corpus.
var treeSamples = []string{
	"",
	"\n\n\n",
	"# ",
	"#",
	"**",
	"***",
	"****a****",
	"*a **b* c**",
	"_a_b_",
	"[[",
	"[[]]",
	"![[",
	"[a](",
	"[a](b",
	"^[unterminated",
	"`",
	"``a`",
	"$",
	"$$",
	"%%",
	"%%a",
	"> ",
	">",
	"> [!",
	"- ",
	"-",
	"- [ ]",
	"1.",
	"1)",
	"[^",
	"[^a]:",
	"---",
	"---\n",
	"```",
	"~~~\n",
	"\r\n\r\n",
	"a\r\nb",
	"\t- a\n\t\t- b",
	"> - a\n>   - b\n> c",
	"- a\n\n  b\n\n- c",
	"- a\n  ```\n  x\n  ```\nb",
	"- a\n  ```\nb",
	"[^1]: a\n    # h\nb",
	"http://",
	"<a@b.c>",
	"text ^",
	"#1 #a1 ##b",
}

func TestParse_TreeInvariants(t *testing.T) {
	t.Parallel()

	p := parser.New()
	for _, content := range treeSamples {
		doc := p.Parse(content)
		require.NoError(t, mdast.Validate(doc.Root, len(content)), "content %q", content)
	}
}

func FuzzParse(f *testing.F) {
	for _, seed := range treeSamples {
		f.Add(seed)
	}

	p := parser.New()
	f.Fuzz(func(t *testing.T, content string) {
		doc := p.Parse(content)
		if err := mdast.Validate(doc.Root, len(content)); err != nil {
			t.Fatalf("invalid tree for %q: %v", content, err)
		}
	})
}
