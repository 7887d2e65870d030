package mdast

// NewNode returns a detached node of kind covering [start, end).
func NewNode(kind NodeKind, start, end int) *Node {
	return &Node{Kind: kind, StartOffset: start, EndOffset: end}
}

// NewDocument returns a document root spanning n bytes of content.
func NewDocument(n int) *Node {
	return NewNode(NodeDocument, 0, n)
}

// AppendChild makes child the last child of parent, detaching it from its
// previous parent first. The parser emits children in source order, so
// appending keeps siblings sorted.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	Detach(child)

	child.Parent = parent
	child.Prev = parent.LastChild
	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
}

// Detach unlinks n from its parent and siblings. Its children stay.
func Detach(n *Node) {
	if n == nil || n.Parent == nil {
		return
	}

	parent := n.Parent
	if n.Prev != nil {
		n.Prev.Next = n.Next
	} else {
		parent.FirstChild = n.Next
	}
	if n.Next != nil {
		n.Next.Prev = n.Prev
	} else {
		parent.LastChild = n.Prev
	}

	n.Parent, n.Prev, n.Next = nil, nil, nil
}
