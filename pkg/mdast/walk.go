package mdast

import "errors"

// WalkFunc is called for each node visited by Walk.
type WalkFunc func(n *Node) error

// errFound ends a search walk once a match is seen.
var errFound = errors.New("found")

// Walk visits root and its descendants in document order: a node before
// its children, children before later siblings. A non-nil error from
// walkFunc stops the walk and is returned. Deeply nested quotes and lists
// do not grow the call stack.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := walkFunc(n); err != nil {
			return err
		}
		for child := n.LastChild; child != nil; child = child.Prev {
			stack = append(stack, child)
		}
	}
	return nil
}

// Count returns the number of nodes in the tree rooted at root.
func Count(root *Node) int {
	count := 0
	_ = Walk(root, func(*Node) error {
		count++
		return nil
	})
	return count
}

// FindFirst returns the first node in document order matching predicate,
// or nil.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node
	_ = Walk(root, func(n *Node) error {
		if predicate(n) {
			found = n
			return errFound
		}
		return nil
	})
	return found
}

// FirstOfKind returns the first node of kind, or nil.
func FirstOfKind(root *Node, kind NodeKind) *Node {
	return FindFirst(root, func(n *Node) bool { return n.Kind == kind })
}

// FindByKind returns every node of kind in document order.
func FindByKind(root *Node, kind NodeKind) []*Node {
	var nodes []*Node
	_ = Walk(root, func(n *Node) error {
		if n.Kind == kind {
			nodes = append(nodes, n)
		}
		return nil
	})
	return nodes
}

// Covering returns the nodes whose range holds offset, outermost first.
// An offset at the end of a node counts as inside it.
func Covering(root *Node, offset int) []*Node {
	var chain []*Node
	for n := root; n != nil; {
		if offset < n.StartOffset || offset > n.EndOffset {
			break
		}
		chain = append(chain, n)

		var next *Node
		for child := n.FirstChild; child != nil; child = child.Next {
			if child.StartOffset <= offset && offset <= child.EndOffset {
				next = child
				break
			}
		}
		n = next
	}
	return chain
}
