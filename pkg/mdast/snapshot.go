// Package mdast provides the Markdown AST representation for gomdlive.
// It defines an immutable view of a note at a specific time:
// - Document: the raw content, line index, token stream and tree
// - Token stream: every byte classified
// - AST nodes: typed byte ranges into the content
package mdast

// Document is an immutable view of a note's content and its parse.
// A Document is produced once per text snapshot and never mutated afterwards.
type Document struct {
	// Content is the full note text.
	Content string

	// Lines contains metadata for each line in the note.
	Lines []LineInfo

	// Tokens is the full token stream covering every byte.
	Tokens []Token

	// Root is the AST root node (Document).
	Root *Node

	// Frontmatter holds the decoded YAML frontmatter, if the note has one.
	Frontmatter map[string]any

	// FrontmatterErr records a YAML decoding failure. The frontmatter node
	// is still present in the tree when this is set.
	FrontmatterErr error
}

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// NewDocumentShell creates a Document from content with its line index built.
// It does not tokenize or parse (that requires a parser).
func NewDocumentShell(content string) *Document {
	return &Document{
		Content: content,
		Lines:   BuildLines(content),
	}
}
