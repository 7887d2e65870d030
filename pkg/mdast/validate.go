package mdast

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// RangeError describes a node whose range breaks a tree invariant.
type RangeError struct {
	Node    *Node
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s [%d:%d]: %s", e.Node.Kind, e.Node.StartOffset, e.Node.EndOffset, e.Message)
}

// Validate checks the structural invariants of a tree against a content of
// length contentLen:
//   - every node has 0 <= start <= end <= contentLen,
//   - every child range lies within its parent range,
//   - siblings are ordered by start offset and do not overlap.
//
// All violations are reported, not just the first.
func Validate(root *Node, contentLen int) error {
	var result *multierror.Error

	_ = Walk(root, func(n *Node) error {
		if n.StartOffset < 0 || n.StartOffset > n.EndOffset || n.EndOffset > contentLen {
			result = multierror.Append(result, &RangeError{Node: n, Message: "range out of bounds"})
		}

		for child := n.FirstChild; child != nil; child = child.Next {
			if !n.Range().ContainsRange(child.Range()) {
				result = multierror.Append(result, &RangeError{
					Node:    child,
					Message: fmt.Sprintf("not contained in parent %s [%d:%d]", n.Kind, n.StartOffset, n.EndOffset),
				})
			}
			if prev := child.Prev; prev != nil && prev.EndOffset > child.StartOffset {
				result = multierror.Append(result, &RangeError{
					Node:    child,
					Message: fmt.Sprintf("overlaps previous sibling %s [%d:%d]", prev.Kind, prev.StartOffset, prev.EndOffset),
				})
			}
		}
		return nil
	})

	return result.ErrorOrNil()
}
