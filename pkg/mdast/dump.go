package mdast

import (
	"fmt"
	"strings"
)

// Dump renders the tree rooted at n as an indented outline, one node per line:
//
//	Document [0:8]
//	  Paragraph [0:8]
//	    Bold [0:8] "**bold**"
//
// Two trees are structurally equal when their dumps are equal. Leaf nodes
// include their quoted source text when content is non-empty.
func Dump(n *Node, content string) string {
	var sb strings.Builder
	dumpNode(&sb, n, content, 0)
	return sb.String()
}

// DumpChain renders nodes one per line, each indented one level deeper
// than the one before, as returned by Covering.
func DumpChain(nodes []*Node, content string) string {
	var sb strings.Builder
	for depth, n := range nodes {
		writeNodeLine(&sb, n, content, depth)
	}
	return sb.String()
}

func dumpNode(sb *strings.Builder, n *Node, content string, depth int) {
	if n == nil {
		return
	}

	writeNodeLine(sb, n, content, depth)
	for child := n.FirstChild; child != nil; child = child.Next {
		dumpNode(sb, child, content, depth+1)
	}
}

func writeNodeLine(sb *strings.Builder, n *Node, content string, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(sb, "%s [%d:%d]", n.Kind, n.StartOffset, n.EndOffset)
	if extra := describeAttrs(n); extra != "" {
		sb.WriteString(" ")
		sb.WriteString(extra)
	}
	if !n.HasChildren() && content != "" {
		fmt.Fprintf(sb, " %q", n.Text(content))
	}
	sb.WriteByte('\n')
}

func describeAttrs(n *Node) string {
	attrs := n.Attrs
	if attrs == nil {
		return ""
	}

	var parts []string
	switch n.Kind {
	case NodeHeading:
		parts = append(parts, fmt.Sprintf("level=%d", attrs.Level))
	case NodeHashtag, NodeFootnoteLink, NodeFootnoteDefinition, NodeBlockID:
		parts = append(parts, "name="+attrs.Name)
	case NodeCallout:
		if attrs.Callout != nil {
			parts = append(parts, "type="+attrs.Callout.Type)
		}
	case NodeListItem:
		if attrs.List != nil && attrs.List.Task {
			parts = append(parts, fmt.Sprintf("task checked=%t", attrs.List.Checked))
		}
	case NodeCodeFence:
		if attrs.Fence != nil && attrs.Fence.Info != "" {
			parts = append(parts, "info="+attrs.Fence.Info)
		}
	}

	if link := attrs.Link; link != nil {
		parts = append(parts, "dest="+link.Destination)
		if link.Subpath != "" {
			parts = append(parts, "subpath="+link.Subpath)
		}
		if link.Alias != "" {
			parts = append(parts, "alias="+link.Alias)
		}
	}

	return strings.Join(parts, " ")
}
