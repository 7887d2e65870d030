package transform

import (
	"cmp"
	"slices"

	"github.com/yaklabco/gomdlive/pkg/config"
	"github.com/yaklabco/gomdlive/pkg/langdetect"
	"github.com/yaklabco/gomdlive/pkg/marker"
	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// ChildPolicy tells the accumulator how to treat a child node.
type ChildPolicy uint8

const (
	// ProcessChildren processes the child with its own processor.
	ProcessChildren ChildPolicy = iota

	// SkipParent skips the child's own processing but walks its children
	// under the current processor's policy.
	SkipParent

	// Skip drops the child and its subtree.
	Skip
)

// String returns the policy name.
func (p ChildPolicy) String() string {
	switch p {
	case ProcessChildren:
		return "process-children"
	case SkipParent:
		return "skip-parent"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// Processor computes styles and decoration markers for one node kind.
type Processor interface {
	// Styles returns the style annotations for the node, in original
	// coordinates.
	Styles(n *mdast.Node, text string) []StyleRange

	// Markers returns the decoration ranges of the node. It is called only
	// when the node's markers are hidden.
	Markers(n *mdast.Node, text string) []marker.Marker

	// Child returns the traversal policy for a child of the given kind.
	Child(kind mdast.NodeKind) ChildPolicy
}

// BaseProcessor is a pass-through processor. Embed it in processors and
// override methods as needed.
type BaseProcessor struct{}

// Styles returns no styles.
func (BaseProcessor) Styles(*mdast.Node, string) []StyleRange { return nil }

// Markers returns no markers.
func (BaseProcessor) Markers(*mdast.Node, string) []marker.Marker { return nil }

// Child processes every child.
func (BaseProcessor) Child(mdast.NodeKind) ChildPolicy { return ProcessChildren }

// Registry maps node kinds to processors. Unregistered kinds use the
// default processor.
type Registry struct {
	byKind   map[mdast.NodeKind]Processor
	fallback Processor
}

// NewRegistry creates an empty registry whose fallback is a pass-through
// processor.
func NewRegistry() *Registry {
	return &Registry{
		byKind:   make(map[mdast.NodeKind]Processor),
		fallback: BaseProcessor{},
	}
}

// Register sets the processor for kind, replacing any previous one.
func (r *Registry) Register(kind mdast.NodeKind, p Processor) {
	r.byKind[kind] = p
}

// SetDefault replaces the fallback processor.
func (r *Registry) SetDefault(p Processor) {
	r.fallback = p
}

// Lookup returns the processor for kind, or the fallback.
func (r *Registry) Lookup(kind mdast.NodeKind) Processor {
	if p, ok := r.byKind[kind]; ok {
		return p
	}
	return r.fallback
}

// Has reports whether kind has its own processor.
func (r *Registry) Has(kind mdast.NodeKind) bool {
	_, ok := r.byKind[kind]
	return ok
}

// Kinds returns the registered kinds in ascending order.
func (r *Registry) Kinds() []mdast.NodeKind {
	kinds := make([]mdast.NodeKind, 0, len(r.byKind))
	for k := range r.byKind {
		kinds = append(kinds, k)
	}
	slices.SortFunc(kinds, func(a, b mdast.NodeKind) int {
		return cmp.Compare(a, b)
	})
	return kinds
}

// DefaultRegistry builds the registry for every construct with the default
// render settings.
func DefaultRegistry() *Registry {
	return NewRegistryFor(config.NewRender())
}

// NewRegistryFor builds the registry for every construct with the given
// render settings.
func NewRegistryFor(render config.Render) *Registry {
	r := NewRegistry()

	r.Register(mdast.NodeHeading, HeadingProcessor{})
	r.Register(mdast.NodeBold, DelimitedProcessor{Style: StyleStrong})
	r.Register(mdast.NodeItalic, DelimitedProcessor{Style: StyleEmphasis})
	r.Register(mdast.NodeStrikethrough, DelimitedProcessor{Style: StyleStrike})
	r.Register(mdast.NodeHighlight, DelimitedProcessor{Style: StyleHighlight})
	r.Register(mdast.NodeCodeSpan, DelimitedProcessor{Style: StyleCode, Opaque: true})
	r.Register(mdast.NodeInlineMath, DelimitedProcessor{Style: StyleMath, Opaque: true})
	r.Register(mdast.NodeComment, DelimitedProcessor{Style: StyleComment, Opaque: true})
	r.Register(mdast.NodeHashtag, HashtagProcessor{})
	r.Register(mdast.NodeInternalLink, InternalLinkProcessor{})
	r.Register(mdast.NodeEmbed, EmbedProcessor{Placeholder: render.EmbedPlaceholder})
	r.Register(mdast.NodeInlineLink, LinkProcessor{Style: StyleLink})
	r.Register(mdast.NodeImage, LinkProcessor{Style: StyleImage})
	r.Register(mdast.NodeAutolink, AutolinkProcessor{})
	r.Register(mdast.NodeFootnoteLink, FootnoteLinkProcessor{})
	r.Register(mdast.NodeInlineFootnote, InlineFootnoteProcessor{})
	r.Register(mdast.NodeBlockID, BlockIDProcessor{})

	r.Register(mdast.NodeBlockQuote, QuoteProcessor{})
	r.Register(mdast.NodeCallout, CalloutProcessor{})
	r.Register(mdast.NodeOrderedList, ListProcessor{})
	r.Register(mdast.NodeUnorderedList, ListProcessor{})
	r.Register(mdast.NodeListItem, ListItemProcessor{
		Bullet:   render.BulletGlyph,
		TaskOpen: render.TaskOpenGlyph,
		TaskDone: render.TaskDoneGlyph,
	})
	r.Register(mdast.NodeCodeFence, FenceProcessor{Style: StyleCodeBlock, Resolve: langdetect.Resolve})
	r.Register(mdast.NodeMathBlock, FenceProcessor{Style: StyleMath})
	r.Register(mdast.NodeCommentBlock, FenceProcessor{Style: StyleComment})
	r.Register(mdast.NodeFrontmatter, FrontmatterProcessor{Hide: render.HideFrontmatter})
	r.Register(mdast.NodeFootnoteDefinition, FootnoteDefinitionProcessor{})
	r.Register(mdast.NodeHorizontalRule, RuleProcessor{})

	return r
}
