package transform

import (
	"github.com/yaklabco/gomdlive/pkg/marker"
	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// markerStyles marks each non-empty syntax range with StyleMarker.
// Hidden ranges collapse to nothing once mapped and are dropped.
func markerStyles(syntax []marker.Marker) []StyleRange {
	styles := make([]StyleRange, 0, len(syntax))
	for _, m := range syntax {
		if m.Len() > 0 {
			styles = append(styles, styled(m.StartOffset, m.EndOffset, kindStyle(StyleMarker)))
		}
	}
	return styles
}

func hidden(start, end int) marker.Marker {
	return marker.Marker{StartOffset: start, EndOffset: end}
}

func replaced(start, end int, text string) marker.Marker {
	return marker.Marker{StartOffset: start, EndOffset: end, Replacement: text}
}

// DelimitedProcessor handles constructs wrapped in symmetric delimiter runs:
// bold, italic, strikethrough, highlight, code spans, inline math and
// comments. Opaque constructs do not style their children.
type DelimitedProcessor struct {
	BaseProcessor

	Style  StyleKind
	Opaque bool
}

func (p DelimitedProcessor) delimiters(n *mdast.Node) []marker.Marker {
	w := n.Attr().DelimWidth
	if w <= 0 || 2*w > n.EndOffset-n.StartOffset {
		return nil
	}
	return []marker.Marker{
		hidden(n.StartOffset, n.StartOffset+w),
		hidden(n.EndOffset-w, n.EndOffset),
	}
}

// Styles implements Processor.
func (p DelimitedProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	delims := p.delimiters(n)
	if delims == nil {
		return []StyleRange{styled(n.StartOffset, n.EndOffset, kindStyle(p.Style))}
	}
	return append(markerStyles(delims), styled(delims[0].EndOffset, delims[1].StartOffset, kindStyle(p.Style)))
}

// Markers implements Processor.
func (p DelimitedProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return p.delimiters(n)
}

// Child implements Processor.
func (p DelimitedProcessor) Child(mdast.NodeKind) ChildPolicy {
	if p.Opaque {
		return Skip
	}
	return ProcessChildren
}

// HashtagProcessor styles tags. The '#' stays visible.
type HashtagProcessor struct {
	BaseProcessor
}

// Styles implements Processor.
func (HashtagProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	return []StyleRange{styled(n.StartOffset, n.EndOffset, Style{
		Kind:       StyleHashtag,
		Annotation: "#" + n.Attr().Name,
	})}
}

// linkTarget returns the note target of a wiki link, with its subpath.
func linkTarget(la *mdast.LinkAttrs) string {
	if la.Subpath != "" {
		return la.Destination + "#" + la.Subpath
	}
	return la.Destination
}

// InternalLinkProcessor handles [[target]] and [[target|alias]]. Hidden
// markers leave only the visible label.
type InternalLinkProcessor struct {
	BaseProcessor
}

func (InternalLinkProcessor) syntax(n *mdast.Node) []marker.Marker {
	la := n.Attr().Link
	if la == nil {
		return nil
	}

	syntax := []marker.Marker{hidden(n.StartOffset, la.Target.StartOffset)}
	if la.Label.StartOffset > la.Target.StartOffset {
		syntax = append(syntax, hidden(la.Target.StartOffset, la.Label.StartOffset))
	}
	return append(syntax, hidden(la.Label.EndOffset, n.EndOffset))
}

// Styles implements Processor.
func (p InternalLinkProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	la := n.Attr().Link
	if la == nil {
		return nil
	}
	return append(markerStyles(p.syntax(n)), styled(la.Label.StartOffset, la.Label.EndOffset, Style{
		Kind:       StyleInternalLink,
		Annotation: linkTarget(la),
	}))
}

// Markers implements Processor.
func (p InternalLinkProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return p.syntax(n)
}

// EmbedProcessor collapses ![[target]] to a placeholder followed by the
// alias or target.
type EmbedProcessor struct {
	BaseProcessor

	Placeholder string
}

// Styles implements Processor.
func (EmbedProcessor) Styles(n *mdast.Node, text string) []StyleRange {
	la := n.Attr().Link
	if la == nil {
		return nil
	}
	return []StyleRange{styled(n.StartOffset, n.EndOffset, Style{
		Kind:       StyleEmbed,
		Annotation: text[la.Target.StartOffset:la.Target.EndOffset],
	})}
}

// Markers implements Processor.
func (p EmbedProcessor) Markers(n *mdast.Node, text string) []marker.Marker {
	la := n.Attr().Link
	if la == nil {
		return nil
	}

	label := la.Alias
	if label == "" {
		label = text[la.Target.StartOffset:la.Target.EndOffset]
	}
	return []marker.Marker{replaced(n.StartOffset, n.EndOffset, p.Placeholder+label)}
}

// LinkProcessor handles [label](url) links and ![alt](url) images. Hidden
// markers leave only the label.
type LinkProcessor struct {
	BaseProcessor

	Style StyleKind
}

func (LinkProcessor) syntax(n *mdast.Node) []marker.Marker {
	la := n.Attr().Link
	if la == nil {
		return nil
	}
	return []marker.Marker{
		hidden(n.StartOffset, la.Label.StartOffset),
		hidden(la.Label.EndOffset, n.EndOffset),
	}
}

// Styles implements Processor.
func (p LinkProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	la := n.Attr().Link
	if la == nil {
		return nil
	}
	return append(markerStyles(p.syntax(n)), styled(la.Label.StartOffset, la.Label.EndOffset, Style{
		Kind:       p.Style,
		Annotation: la.Destination,
	}))
}

// Markers implements Processor.
func (p LinkProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return p.syntax(n)
}

// AutolinkProcessor handles <scheme:...> autolinks and bare URLs.
type AutolinkProcessor struct {
	BaseProcessor
}

func (AutolinkProcessor) syntax(n *mdast.Node, text string) []marker.Marker {
	if n.EndOffset-n.StartOffset < 2 || text[n.StartOffset] != '<' {
		return nil
	}
	return []marker.Marker{
		hidden(n.StartOffset, n.StartOffset+1),
		hidden(n.EndOffset-1, n.EndOffset),
	}
}

// Styles implements Processor.
func (p AutolinkProcessor) Styles(n *mdast.Node, text string) []StyleRange {
	la := n.Attr().Link
	if la == nil {
		return nil
	}
	return append(markerStyles(p.syntax(n, text)), styled(la.Label.StartOffset, la.Label.EndOffset, Style{
		Kind:       StyleLink,
		Annotation: la.Destination,
	}))
}

// Markers implements Processor.
func (p AutolinkProcessor) Markers(n *mdast.Node, text string) []marker.Marker {
	return p.syntax(n, text)
}

// bracketed returns the syntax of a construct with an opening of width open
// and a one-byte closing bracket: "[^x]", "^[x]".
func bracketed(n *mdast.Node, open int) []marker.Marker {
	if n.EndOffset-n.StartOffset < open+1 {
		return nil
	}
	return []marker.Marker{
		hidden(n.StartOffset, n.StartOffset+open),
		hidden(n.EndOffset-1, n.EndOffset),
	}
}

// FootnoteLinkProcessor handles [^label] references.
type FootnoteLinkProcessor struct {
	BaseProcessor
}

// Styles implements Processor.
func (FootnoteLinkProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	syntax := bracketed(n, 2)
	if syntax == nil {
		return nil
	}
	return append(markerStyles(syntax), styled(syntax[0].EndOffset, syntax[1].StartOffset, Style{
		Kind:       StyleFootnote,
		Annotation: n.Attr().Name,
	}))
}

// Markers implements Processor.
func (FootnoteLinkProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return bracketed(n, 2)
}

// InlineFootnoteProcessor handles ^[inline note] footnotes.
type InlineFootnoteProcessor struct {
	BaseProcessor
}

// Styles implements Processor.
func (InlineFootnoteProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	syntax := bracketed(n, 2)
	if syntax == nil {
		return nil
	}
	return append(markerStyles(syntax), styled(syntax[0].EndOffset, syntax[1].StartOffset, kindStyle(StyleFootnote)))
}

// Markers implements Processor.
func (InlineFootnoteProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return bracketed(n, 2)
}

// BlockIDProcessor hides ^block-id anchors.
type BlockIDProcessor struct {
	BaseProcessor
}

// Styles implements Processor.
func (BlockIDProcessor) Styles(n *mdast.Node, _ string) []StyleRange {
	return []StyleRange{styled(n.StartOffset, n.EndOffset, Style{
		Kind:       StyleBlockID,
		Annotation: n.Attr().Name,
	})}
}

// Markers implements Processor.
func (BlockIDProcessor) Markers(n *mdast.Node, _ string) []marker.Marker {
	return []marker.Marker{hidden(n.StartOffset, n.EndOffset)}
}
