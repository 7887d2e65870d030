package mdast

// NodeKind classifies the type of an AST node.
type NodeKind uint16

// Node kinds for block-level and inline-level elements of the Obsidian dialect.
const (
	// NodeText is the default kind. Gaps between sibling nodes are implicit text.
	NodeText NodeKind = iota

	NodeDocument

	// Block-level nodes.
	NodeParagraph
	NodeHeading
	NodeBlockQuote
	NodeCallout
	NodeOrderedList
	NodeUnorderedList
	NodeListItem
	NodeCodeFence
	NodeMathBlock
	NodeCommentBlock
	NodeFootnoteDefinition
	NodeHorizontalRule
	NodeFrontmatter

	// Inline-level nodes.
	NodeBold
	NodeItalic
	NodeStrikethrough
	NodeHighlight
	NodeCodeSpan
	NodeInlineMath
	NodeComment
	NodeHashtag
	NodeInternalLink
	NodeEmbed
	NodeInlineLink
	NodeImage
	NodeAutolink
	NodeFootnoteLink
	NodeInlineFootnote
	NodeBlockID

	nodeKindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var nodeKindNames = [nodeKindCount]string{
	NodeText:               "Text",
	NodeDocument:           "Document",
	NodeParagraph:          "Paragraph",
	NodeHeading:            "Heading",
	NodeBlockQuote:         "BlockQuote",
	NodeCallout:            "Callout",
	NodeOrderedList:        "OrderedList",
	NodeUnorderedList:      "UnorderedList",
	NodeListItem:           "ListItem",
	NodeCodeFence:          "CodeFence",
	NodeMathBlock:          "MathBlock",
	NodeCommentBlock:       "CommentBlock",
	NodeFootnoteDefinition: "FootnoteDefinition",
	NodeHorizontalRule:     "HorizontalRule",
	NodeFrontmatter:        "Frontmatter",
	NodeBold:               "Bold",
	NodeItalic:             "Italic",
	NodeStrikethrough:      "Strikethrough",
	NodeHighlight:          "Highlight",
	NodeCodeSpan:           "CodeSpan",
	NodeInlineMath:         "InlineMath",
	NodeComment:            "Comment",
	NodeHashtag:            "Hashtag",
	NodeInternalLink:       "InternalLink",
	NodeEmbed:              "Embed",
	NodeInlineLink:         "InlineLink",
	NodeImage:              "Image",
	NodeAutolink:           "Autolink",
	NodeFootnoteLink:       "FootnoteLink",
	NodeInlineFootnote:     "InlineFootnote",
	NodeBlockID:            "BlockID",
}

// String returns the kind name without the Node prefix.
func (k NodeKind) String() string {
	if k < nodeKindCount {
		return nodeKindNames[k]
	}
	return "NodeKind(?)"
}

// Node represents a single node in the Markdown AST.
// Nodes form a tree structure with parent/child/sibling relationships.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// StartOffset is the byte index where the node begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the node ends (exclusive).
	EndOffset int

	// Attrs holds kind-specific attributes. Nil for nodes that need none.
	Attrs *Attrs
}

// IsBlock returns true if this is a block-level node.
func (n *Node) IsBlock() bool {
	return n.Kind >= NodeDocument && n.Kind <= NodeFrontmatter
}

// IsInline returns true if this is an inline-level node.
func (n *Node) IsInline() bool {
	return n.Kind >= NodeBold && n.Kind < nodeKindCount
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// Range returns the byte range covered by the node.
func (n *Node) Range() SourceRange {
	return SourceRange{StartOffset: n.StartOffset, EndOffset: n.EndOffset}
}

// Text returns the source text for this node.
// Returns "" if the node range does not fit the content.
func (n *Node) Text(content string) string {
	if n.StartOffset < 0 || n.EndOffset > len(content) || n.StartOffset > n.EndOffset {
		return ""
	}
	return content[n.StartOffset:n.EndOffset]
}

// Attr returns the node attributes, never nil.
func (n *Node) Attr() *Attrs {
	if n.Attrs == nil {
		return &Attrs{}
	}
	return n.Attrs
}
