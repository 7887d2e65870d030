package parser

import (
	"strings"

	"github.com/yaklabco/gomdlive/pkg/lexer"
	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// tabStop is the tab width used when measuring indentation.
const tabStop = 4

// Line is one source line as seen by a container, with the container's
// prefixes ("> ", list indentation) already stripped.
type Line struct {
	// Start is the offset of the first byte after the container prefixes.
	Start int

	// End is the offset of the line terminator (or end of content).
	End int

	// LineEnd is the offset just past the line terminator.
	LineEnd int
}

// Range returns the line content range, without the terminator.
func (l Line) Range() mdast.SourceRange {
	return mdast.SourceRange{StartOffset: l.Start, EndOffset: l.End}
}

// BlockRecognizer recognizes one kind of block at the start of a line.
type BlockRecognizer interface {
	Name() string

	// Open tries to open a block at lines[i]. On success it appends the
	// block to parent and returns the index of the first line after it.
	Open(s *BlockState, parent *mdast.Node, lines []Line, i int) (next int, ok bool)

	// Interrupts reports whether the line starts a block that ends an open
	// paragraph.
	Interrupts(s *BlockState, line Line) bool
}

// constraint records an open container while its children are parsed.
type constraint struct {
	kind   mdast.NodeKind
	indent int
}

// BlockState is the working state of the block pass over one note.
type BlockState struct {
	// Content is the note text.
	Content string

	// Tokens is the full token stream of the note.
	Tokens []mdast.Token

	parser      *Parser
	doc         *mdast.Document
	constraints []constraint
}

// Text returns the content of a line.
func (s *BlockState) Text(l Line) string {
	return s.Content[l.Start:l.End]
}

// IsBlank reports whether a line holds only whitespace.
func (s *BlockState) IsBlank(l Line) bool {
	return strings.TrimSpace(s.Text(l)) == ""
}

// Depth returns how many open containers of the given kinds enclose the
// block being parsed.
func (s *BlockState) Depth(kinds ...mdast.NodeKind) int {
	depth := 0
	for _, c := range s.constraints {
		for _, k := range kinds {
			if c.kind == k {
				depth++
				break
			}
		}
	}
	return depth
}

// ParseContainer parses lines as the children of parent, which becomes the
// innermost open container for the duration of the call.
func (s *BlockState) ParseContainer(parent *mdast.Node, lines []Line, indent int) {
	s.constraints = append(s.constraints, constraint{kind: parent.Kind, indent: indent})
	s.parseBlocks(parent, lines)
	s.constraints = s.constraints[:len(s.constraints)-1]
}

// ParseInline parses the given ranges as the inline content of node.
func (s *BlockState) ParseInline(node *mdast.Node, ranges ...mdast.SourceRange) {
	tokens := lexer.Clip(s.Tokens, ranges)
	if len(tokens) == 0 {
		return
	}

	state := newInlineState(s.Content, tokens, s.parser.inlines, 0)
	for _, n := range state.run() {
		mdast.AppendChild(node, n)
	}
}

// Interrupts reports whether any recognizer would end a paragraph at line.
func (s *BlockState) Interrupts(line Line) bool {
	for _, r := range s.parser.blocks {
		if r.Interrupts(s, line) {
			return true
		}
	}
	return false
}

func (s *BlockState) parseBlocks(parent *mdast.Node, lines []Line) {
	i := 0
	for i < len(lines) {
		if s.IsBlank(lines[i]) {
			i++
			continue
		}

		matched := false
		for _, r := range s.parser.blocks {
			if next, ok := r.Open(s, parent, lines, i); ok && next > i {
				i = next
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
}

// documentLines builds the top-level line list of a note.
func documentLines(doc *mdast.Document) []Line {
	lines := make([]Line, 0, len(doc.Lines))
	for _, li := range doc.Lines {
		r := li.Range()
		lines = append(lines, Line{Start: r.StartOffset, End: r.EndOffset, LineEnd: li.EndOffset})
	}
	return lines
}

// indentWidth measures the leading whitespace of text in columns, expanding
// tabs, and returns the column count and byte count.
func indentWidth(text string) (int, int) {
	cols := 0
	for idx := range len(text) {
		switch text[idx] {
		case ' ':
			cols++
		case '\t':
			cols += tabStop - cols%tabStop
		default:
			return cols, idx
		}
	}
	return cols, len(text)
}

// stripIndent removes up to cols columns of leading whitespace from l.
func (s *BlockState) stripIndent(l Line, cols int) Line {
	width := 0
	pos := l.Start
	for pos < l.End && width < cols {
		switch s.Content[pos] {
		case ' ':
			width++
		case '\t':
			width += tabStop - width%tabStop
		default:
			return Line{Start: pos, End: l.End, LineEnd: l.LineEnd}
		}
		pos++
	}
	return Line{Start: pos, End: l.End, LineEnd: l.LineEnd}
}

// nonIndented returns the offset of the first non-space byte of l when it is
// indented by at most three columns.
func (s *BlockState) nonIndented(l Line) (int, bool) {
	const maxIndent = 3
	cols, n := indentWidth(s.Text(l))
	if cols > maxIndent {
		return 0, false
	}
	return l.Start + n, true
}

// lineSpan returns the range from the start of the first line to the end of
// the last, including the terminators between them.
func lineSpan(lines []Line, from, to int) []mdast.SourceRange {
	ranges := make([]mdast.SourceRange, 0, to-from)
	for k := from; k < to; k++ {
		end := lines[k].End
		if k < to-1 {
			end = lines[k].LineEnd
		}
		ranges = append(ranges, mdast.SourceRange{StartOffset: lines[k].Start, EndOffset: end})
	}
	return ranges
}
