package transform

import (
	"strings"

	"github.com/yaklabco/gomdlive/pkg/marker"
	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// HeadingProcessor hides the "#" run and the space after it.
type HeadingProcessor struct {
	BaseProcessor
}

func (HeadingProcessor) syntax(n *mdast.Node) []marker.Marker {
	end := n.Attr().MarkerEnd
	if end <= n.StartOffset || end > n.EndOffset {
		return nil
	}
	return []marker.Marker{hidden(n.StartOffset, end)}
}

// Styles implements Processor.
func (p HeadingProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	return append(markerStyles(p.syntax(n)), styled(n.StartOffset, n.EndOffset, Style{
		Kind:      StyleHeading,
		Level:     n.Attr().Level,
		Paragraph: true,
	}))
}

// Markers implements Processor.
func (p HeadingProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return p.syntax(n)
}

func prefixMarkers(n *mdast.Node) []marker.Marker {
	b := marker.NewBuilder()
	for _, r := range n.Attr().Prefixes {
		b.HideRange(r)
	}
	return b.Markers
}

// QuoteProcessor hides the "> " prefix of every quote line and indents
// the quote.
type QuoteProcessor struct {
	BaseProcessor
}

// Styles implements Processor.
func (QuoteProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	return append(markerStyles(prefixMarkers(n)), styled(n.StartOffset, n.EndOffset, Style{
		Kind:      StyleQuote,
		Level:     n.Attr().Level,
		Indent:    1,
		Paragraph: true,
	}))
}

// Markers implements Processor.
func (QuoteProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return prefixMarkers(n)
}

// CalloutProcessor handles "> [!type] Title" quotes. With a custom title the
// header and the space before the title are hidden; without one the header
// is replaced by the capitalized type.
type CalloutProcessor struct {
	BaseProcessor
}

func (CalloutProcessor) syntax(n *mdast.Node) []marker.Marker {
	syntax := prefixMarkers(n)

	c := n.Attr().Callout
	if c == nil || c.Header.IsEmpty() {
		return syntax
	}

	if c.TitleRange.IsEmpty() {
		return append(syntax, replaced(c.Header.StartOffset, c.Header.EndOffset, calloutTitle(c.Type)))
	}
	return append(syntax, hidden(c.Header.StartOffset, c.TitleRange.StartOffset))
}

func calloutTitle(kind string) string {
	if kind == "" {
		return ""
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}

// Styles implements Processor.
func (p CalloutProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	style := Style{
		Kind:      StyleCallout,
		Level:     n.Attr().Level,
		Indent:    1,
		Paragraph: true,
	}
	if c := n.Attr().Callout; c != nil {
		style.Annotation = c.Type
	}
	return append(markerStyles(p.syntax(n)), styled(n.StartOffset, n.EndOffset, style))
}

// Markers implements Processor.
func (p CalloutProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return p.syntax(n)
}

// ListProcessor indents ordered and unordered lists. Nested lists indent
// further.
type ListProcessor struct {
	BaseProcessor
}

// Styles implements Processor.
func (ListProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	return []StyleRange{styled(n.StartOffset, n.EndOffset, Style{
		Kind:      StyleList,
		Level:     n.Attr().Level,
		Indent:    1,
		Paragraph: true,
	})}
}

// ListItemProcessor replaces unordered bullets and task boxes with glyphs.
// Ordered list numbers stay visible. An empty glyph keeps the source text.
type ListItemProcessor struct {
	BaseProcessor

	Bullet   string
	TaskOpen string
	TaskDone string
}

// Styles implements Processor.
func (ListItemProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	la := n.Attr().List
	if la == nil {
		return nil
	}

	level := 0
	if n.Parent != nil {
		level = n.Parent.Attr().Level
	}

	styles := []StyleRange{styled(la.Marker.StartOffset, la.Marker.EndOffset, Style{
		Kind:  StyleListBullet,
		Level: level,
	})}
	if la.Task {
		styles = append(styles, styled(la.TaskBox.StartOffset, la.TaskBox.EndOffset, Style{
			Kind:       StyleTask,
			Annotation: "task",
			Checked:    la.Checked,
		}))
	}
	return styles
}

// Child implements Processor. The paragraph wrapping an item's text is
// transparent: its inline children are walked as the item's own.
func (ListItemProcessor) Child(kind mdast.NodeKind) ChildPolicy {
	if kind == mdast.NodeParagraph {
		return SkipParent
	}
	return ProcessChildren
}

// Markers implements Processor.
func (p ListItemProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	la := n.Attr().List
	if la == nil {
		return nil
	}

	b := marker.NewBuilder()
	if !la.Ordered && p.Bullet != "" {
		b.Replace(la.Marker.StartOffset, la.Marker.EndOffset, p.Bullet)
	}
	if la.Task {
		glyph := p.TaskOpen
		if la.Checked {
			glyph = p.TaskDone
		}
		if glyph != "" {
			b.Replace(la.TaskBox.StartOffset, la.TaskBox.EndOffset, glyph)
		}
	}
	return b.Markers
}

// FenceProcessor handles fenced code, math and comment blocks. The fence
// lines are hidden. Resolve, when set, names the code language.
type FenceProcessor struct {
	BaseProcessor

	Style   StyleKind
	Resolve func(info string, body []byte) string
}

func fenceMarkers(n *mdast.Node) []marker.Marker {
	fa := n.Attr().Fence
	if fa == nil {
		return nil
	}

	var syntax []marker.Marker
	if !fa.Open.IsEmpty() {
		syntax = append(syntax, hidden(fa.Open.StartOffset, fa.Open.EndOffset))
	}
	if fa.Closed && !fa.Close.IsEmpty() {
		syntax = append(syntax, hidden(fa.Close.StartOffset, fa.Close.EndOffset))
	}
	return syntax
}

// Styles implements Processor.
func (p FenceProcessor) Styles(n *mdast.Node, text string) []StyleRange {
	fa := n.Attr().Fence
	if fa == nil {
		return nil
	}

	style := Style{Kind: p.Style, Paragraph: true}
	if p.Resolve != nil {
		style.Language = p.Resolve(fa.Info, []byte(text[fa.Content.StartOffset:fa.Content.EndOffset]))
	}
	return append(markerStyles(fenceMarkers(n)), styled(fa.Content.StartOffset, fa.Content.EndOffset, style))
}

// Markers implements Processor.
func (FenceProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return fenceMarkers(n)
}

// Child implements Processor.
func (FenceProcessor) Child(mdast.NodeKind) ChildPolicy {
	return Skip
}

// FrontmatterProcessor hides the "---" fences of YAML frontmatter, or the
// whole block when Hide is set.
type FrontmatterProcessor struct {
	BaseProcessor

	Hide bool
}

// Styles implements Processor.
func (FrontmatterProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	fa := n.Attr().Fence
	if fa == nil {
		return nil
	}
	return append(markerStyles(fenceMarkers(n)), styled(fa.Content.StartOffset, fa.Content.EndOffset, Style{
		Kind:      StyleFrontmatter,
		Language:  "yaml",
		Paragraph: true,
	}))
}

// Markers implements Processor.
func (p FrontmatterProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	if p.Hide {
		return []marker.Marker{hidden(n.StartOffset, n.EndOffset)}
	}
	return fenceMarkers(n)
}

// Child implements Processor.
func (FrontmatterProcessor) Child(mdast.NodeKind) ChildPolicy {
	return Skip
}

// FootnoteDefinitionProcessor hides the brackets and colon of "[^label]:"
// and keeps the label visible.
type FootnoteDefinitionProcessor struct {
	BaseProcessor
}

func (FootnoteDefinitionProcessor) syntax(n *mdast.Node) []marker.Marker {
	a := n.Attr()
	labelStart := n.StartOffset + len("[^")
	labelEnd := labelStart + len(a.Name)
	closeEnd := labelEnd + len("]:")
	if a.Name == "" || closeEnd > a.MarkerEnd || a.MarkerEnd > n.EndOffset {
		return nil
	}
	return []marker.Marker{
		hidden(n.StartOffset, labelStart),
		hidden(labelEnd, closeEnd),
	}
}

// Styles implements Processor.
func (p FootnoteDefinitionProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	syntax := p.syntax(n)
	styles := []StyleRange{styled(n.StartOffset, n.EndOffset, Style{Kind: StyleFootnote, Paragraph: true})}
	if syntax == nil {
		return styles
	}

	styles = append(styles, markerStyles(syntax)...)
	return append(styles, styled(syntax[0].EndOffset, syntax[1].StartOffset, Style{
		Kind:       StyleFootnote,
		Annotation: n.Attr().Name,
	}))
}

// Markers implements Processor.
func (p FootnoteDefinitionProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return p.syntax(n)
}

// RuleProcessor styles thematic breaks. The rule text stays in place for
// the renderer to draw over.
type RuleProcessor struct {
	BaseProcessor
}

// Styles implements Processor.
func (RuleProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	return []StyleRange{styled(n.StartOffset, n.EndOffset, Style{Kind: StyleRule, Paragraph: true})}
}
