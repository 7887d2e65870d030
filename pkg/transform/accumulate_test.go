package transform_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdlive/pkg/marker"
	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/parser"
	"github.com/yaklabco/gomdlive/pkg/transform"
)

// policyProcessor is a pass-through processor with a fixed child policy.
type policyProcessor struct {
	transform.BaseProcessor

	policy map[mdast.NodeKind]transform.ChildPolicy
}

func (p policyProcessor) Child(kind mdast.NodeKind) transform.ChildPolicy {
	if policy, ok := p.policy[kind]; ok {
		return policy
	}
	return transform.ProcessChildren
}

// badProcessor returns the markers it was built with for every node.
type badProcessor struct {
	transform.BaseProcessor

	markers func(n *mdast.Node) []marker.Marker
}

func (p badProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return p.markers(n)
}

// badStyler returns a style that leaves the node.
type badStyler struct {
	transform.BaseProcessor
}

func (badStyler) Styles(n *mdast.Node, _ string) []transform.StyleRange {
	return []transform.StyleRange{{Start: n.StartOffset, End: n.EndOffset + 1}}
}

func TestAccumulate_ChildPolicies(t *testing.T) {
	t.Parallel()

	// "***x***" is an Italic wrapping a Bold.
	text := "***x***"

	tests := []struct {
		name   string
		policy transform.ChildPolicy
		want   string
	}{
		{name: "process children", policy: transform.ProcessChildren, want: "x"},
		{name: "skip parent flattens one level", policy: transform.SkipParent, want: "*x*"},
		{name: "skip drops the subtree", policy: transform.Skip, want: "***x***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := transform.DefaultRegistry()
			reg.Register(mdast.NodeParagraph, policyProcessor{
				policy: map[mdast.NodeKind]transform.ChildPolicy{mdast.NodeItalic: tt.policy},
			})

			res, err := transform.New(transform.WithRegistry(reg)).Transform(text, mdast.Caret(len(text)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Text)
		})
	}
}

// tagStyler styles every node it handles with a fixed annotation.
type tagStyler struct {
	transform.BaseProcessor

	tag string
}

func (p tagStyler) Styles(n *mdast.Node, _ string) []transform.StyleRange {
	return []transform.StyleRange{{Start: n.StartOffset, End: n.EndOffset, Style: transform.Style{Annotation: p.tag}}}
}

func TestAccumulate_ListItemParagraph(t *testing.T) {
	t.Parallel()

	// The item paragraph is [2:7], the note paragraph [9:10].
	text := "- **a**\n\nb"
	doc := parser.New().Parse(text)

	reg := transform.DefaultRegistry()
	reg.Register(mdast.NodeParagraph, tagStyler{tag: "paragraph"})

	acc, err := transform.Accumulate(doc, reg, mdast.Caret(len(text)))
	require.NoError(t, err)

	var tagged []transform.StyleRange
	for _, s := range acc.Styles {
		if s.Style.Annotation == "paragraph" {
			tagged = append(tagged, s)
		}
	}
	require.Len(t, tagged, 1)
	assert.Equal(t, 9, tagged[0].Start)
	assert.Equal(t, 10, tagged[0].End)

	// The bold inside the item is still reached and hidden.
	var hidden int
	for _, m := range acc.Markers {
		if m.StartOffset >= 2 && m.EndOffset <= 7 {
			hidden++
		}
	}
	assert.Equal(t, 2, hidden)
}

func TestAccumulate_Invariants(t *testing.T) {
	t.Parallel()

	t.Run("marker outside node", func(t *testing.T) {
		t.Parallel()

		reg := transform.DefaultRegistry()
		reg.Register(mdast.NodeBold, badProcessor{markers: func(n *mdast.Node) []marker.Marker {
			return []marker.Marker{{StartOffset: n.StartOffset, EndOffset: n.EndOffset + 1}}
		}})

		_, err := transform.New(transform.WithRegistry(reg)).Transform("**a** b", mdast.Caret(7))
		require.Error(t, err)
		assert.True(t, errors.Is(err, transform.ErrInvariant))
	})

	t.Run("overlapping markers", func(t *testing.T) {
		t.Parallel()

		reg := transform.DefaultRegistry()
		reg.Register(mdast.NodeBold, badProcessor{markers: func(n *mdast.Node) []marker.Marker {
			return []marker.Marker{
				{StartOffset: n.StartOffset, EndOffset: n.StartOffset + 3},
				{StartOffset: n.StartOffset + 1, EndOffset: n.StartOffset + 4},
			}
		}})

		tr := transform.New(transform.WithRegistry(reg))
		_, err := tr.Transform("**a** b", mdast.Caret(7))
		require.Error(t, err)
		assert.True(t, errors.Is(err, transform.ErrInvariant))

		var conflict *marker.ConflictError
		assert.True(t, errors.As(err, &conflict))
		assert.Equal(t, transform.StateIdle, tr.State())
	})

	t.Run("style outside node", func(t *testing.T) {
		t.Parallel()

		reg := transform.NewRegistry()
		reg.Register(mdast.NodeHashtag, badStyler{})

		_, err := transform.New(transform.WithRegistry(reg)).Transform("#a b", mdast.Caret(0))
		assert.ErrorIs(t, err, transform.ErrInvariant)
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := transform.DefaultRegistry()

	for _, kind := range []mdast.NodeKind{
		mdast.NodeHeading, mdast.NodeBold, mdast.NodeItalic, mdast.NodeStrikethrough,
		mdast.NodeHighlight, mdast.NodeCodeSpan, mdast.NodeCodeFence, mdast.NodeMathBlock,
		mdast.NodeInlineMath, mdast.NodeBlockQuote, mdast.NodeCallout, mdast.NodeComment,
		mdast.NodeCommentBlock, mdast.NodeHashtag, mdast.NodeInternalLink, mdast.NodeEmbed,
		mdast.NodeInlineLink, mdast.NodeImage, mdast.NodeAutolink, mdast.NodeFootnoteLink,
		mdast.NodeFootnoteDefinition, mdast.NodeInlineFootnote, mdast.NodeBlockID,
		mdast.NodeOrderedList, mdast.NodeUnorderedList, mdast.NodeListItem,
		mdast.NodeHorizontalRule, mdast.NodeFrontmatter,
	} {
		assert.True(t, reg.Has(kind), "missing processor for %s", kind)
	}

	assert.False(t, reg.Has(mdast.NodeParagraph))
	assert.Equal(t, transform.BaseProcessor{}, reg.Lookup(mdast.NodeParagraph))

	kinds := reg.Kinds()
	for i := 1; i < len(kinds); i++ {
		assert.Less(t, kinds[i-1], kinds[i])
	}

	custom := policyProcessor{}
	reg.SetDefault(custom)
	assert.Equal(t, custom, reg.Lookup(mdast.NodeParagraph))
}

func TestHideMarkers(t *testing.T) {
	t.Parallel()

	n := &mdast.Node{Kind: mdast.NodeBold, StartOffset: 2, EndOffset: 6}

	assert.True(t, transform.HideMarkers(n, mdast.Caret(0)))
	assert.True(t, transform.HideMarkers(n, mdast.Caret(6)))
	assert.False(t, transform.HideMarkers(n, mdast.Caret(2)))
	assert.False(t, transform.HideMarkers(n, mdast.Caret(5)))
	assert.False(t, transform.HideMarkers(n, mdast.Selection{Start: 0, End: 1}))
}

//nolint:gochecknoglobals // Shared read-only samples.
var samples = []string{
	"",
	"plain text",
	"**bold** and *italic* and ***both***",
	"# Heading with [[Note#Sub|alias]] ^id",
	"> [!warning]- Title\n> body with ==mark== and ~~gone~~\n> > nested",
	"> [!note]\n> - [ ] task\n>   - [x] sub",
	"- a\n- b\n  1. c\n  2. d",
	"```go\nfmt.Println()\n```\n\n$$\nx^2\n$$\n\n%%\nnote\n%%",
	"---\ntitle: t\ntags: [a]\n---\n# H\n",
	"text[^1] and ^[inline *note*]\n\n[^1]: def\n    more",
	"![[image.png|100]] ![alt](a.png) [l](http://x.io \"t\") <http://y.io> http://z.io.",
	"#tag #nested/tag and `code` and $x$ and %%hidden%%",
	"***\n\nunterminated **bold and [[link",
	"> quote\nlazy\n\n***x*** _y_ __z__",
}

// interior reports whether o is inside a marker where a round trip is not
// expected to restore it.
func interior(markers []marker.Marker, o int) bool {
	for _, m := range markers {
		if m.StartOffset < o && o < m.EndOffset {
			return true
		}
		if m.StartOffset == o && m.Len() > 0 && m.Replacement == "" {
			return true
		}
	}
	return false
}

func checkTransform(t *testing.T, tr *transform.Transformer, text string, sel mdast.Selection) {
	t.Helper()

	res, err := tr.Transform(text, sel)
	if err != nil {
		t.Fatalf("transform %q at %+v: %v", text, sel, err)
	}
	if len(res.Text) != res.Mapper.TransformedLen() {
		t.Fatalf("transformed length %d, mapper says %d", len(res.Text), res.Mapper.TransformedLen())
	}
	if err := mdast.Validate(res.Document.Root, len(text)); err != nil {
		t.Fatalf("invalid tree for %q: %v", text, err)
	}

	for o := 0; o <= len(text); o++ {
		if interior(res.Markers, o) {
			continue
		}
		got := res.Mapper.OriginalToTransformed(o)
		if back := res.Mapper.TransformedToOriginal(got); back != o {
			t.Fatalf("%q caret %+v: round trip %d -> %d -> %d", text, sel, o, got, back)
		}
	}

	for _, s := range res.Styles {
		if s.Start < 0 || s.End > len(res.Text) || s.Start >= s.End {
			t.Fatalf("%q: style %+v outside transformed text of length %d", text, s, len(res.Text))
		}
	}
}

func TestTransform_RoundTripProperty(t *testing.T) {
	t.Parallel()

	for _, text := range samples {
		tr := transform.New()
		for caret := 0; caret <= len(text); caret++ {
			checkTransform(t, tr, text, mdast.Caret(caret))
		}
		checkTransform(t, tr, text, mdast.Selection{Start: 0, End: len(text)})
	}
}

func FuzzTransform(f *testing.F) {
	for _, s := range samples {
		f.Add(s, 0)
		f.Add(s, len(s))
	}

	f.Fuzz(func(t *testing.T, text string, caret int) {
		checkTransform(t, transform.New(), text, mdast.Caret(caret))
	})
}
