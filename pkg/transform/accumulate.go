package transform

import (
	"fmt"

	"github.com/yaklabco/gomdlive/pkg/marker"
	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// Accumulation holds the styles and markers of a document in original
// coordinates. Markers are sorted by start offset and do not overlap.
type Accumulation struct {
	Styles  []StyleRange
	Markers []marker.Marker
}

// HideMarkers reports whether the markers of n are hidden for sel: the
// selection is a caret and the caret is outside the node. An active
// selection shows every marker.
func HideMarkers(n *mdast.Node, sel mdast.Selection) bool {
	return sel.Collapsed() && !n.Range().Contains(sel.Start)
}

// frame is an entry of the traversal stack.
type frame struct {
	node *mdast.Node

	// flatten is set for children under SkipParent: the node is not
	// processed and its children follow flatten's policy.
	flatten Processor
}

// paragraphScope is an active ancestor paragraph style.
type paragraphScope struct {
	start  int
	end    int
	indent int
}

type accumulator struct {
	registry *Registry
	text     string
	sel      mdast.Selection

	stack  []frame
	scopes []paragraphScope
	out    Accumulation
}

// Accumulate walks the document depth-first and collects the styles of
// every node and the markers of every node whose markers are hidden for
// sel. Invariant violations are returned as ErrInvariant.
func Accumulate(doc *mdast.Document, registry *Registry, sel mdast.Selection) (*Accumulation, error) {
	a := &accumulator{
		registry: registry,
		text:     doc.Content,
		sel:      sel.Normalized(),
	}
	if doc.Root == nil {
		return &a.out, nil
	}

	a.pushChildren(registry.Lookup(doc.Root.Kind), doc.Root)
	for len(a.stack) > 0 {
		f := a.stack[len(a.stack)-1]
		a.stack = a.stack[:len(a.stack)-1]

		if f.flatten != nil {
			a.pushChildren(f.flatten, f.node)
			continue
		}
		if err := a.visit(f.node); err != nil {
			return nil, err
		}
	}

	marker.Sort(a.out.Markers)
	if err := marker.DetectConflicts(a.out.Markers); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvariant, err)
	}

	return &a.out, nil
}

// pushChildren pushes the children of parent in reverse so they pop in
// source order.
func (a *accumulator) pushChildren(p Processor, parent *mdast.Node) {
	for c := parent.LastChild; c != nil; c = c.Prev {
		switch p.Child(c.Kind) {
		case ProcessChildren:
			a.stack = append(a.stack, frame{node: c})
		case SkipParent:
			a.stack = append(a.stack, frame{node: c, flatten: p})
		case Skip:
		}
	}
}

func (a *accumulator) visit(n *mdast.Node) error {
	p := a.registry.Lookup(n.Kind)

	styles := p.Styles(n, a.text)
	for _, s := range styles {
		if err := checkRange("style "+s.Style.Kind.String(), n, s.Start, s.End); err != nil {
			return err
		}
	}
	a.addStyles(n, styles)

	if HideMarkers(n, a.sel) {
		for _, m := range p.Markers(n, a.text) {
			if err := checkRange("marker", n, m.StartOffset, m.EndOffset); err != nil {
				return err
			}
			a.out.Markers = append(a.out.Markers, m)
		}
	}

	a.pushChildren(p, n)
	return nil
}

// addStyles appends styles, merging paragraph styles with the active
// ancestor paragraph styles. Indentation is additive.
func (a *accumulator) addStyles(n *mdast.Node, styles []StyleRange) {
	for len(a.scopes) > 0 {
		top := a.scopes[len(a.scopes)-1]
		if top.start <= n.StartOffset && n.EndOffset <= top.end {
			break
		}
		a.scopes = a.scopes[:len(a.scopes)-1]
	}

	base := 0
	if len(a.scopes) > 0 {
		base = a.scopes[len(a.scopes)-1].indent
	}

	own, paragraph := 0, false
	for _, s := range styles {
		if s.Style.Paragraph {
			paragraph = true
			own += s.Style.Indent
			s.Style.Indent += base
		}
		a.out.Styles = append(a.out.Styles, s)
	}

	if paragraph {
		a.scopes = append(a.scopes, paragraphScope{
			start:  n.StartOffset,
			end:    n.EndOffset,
			indent: base + own,
		})
	}
}
