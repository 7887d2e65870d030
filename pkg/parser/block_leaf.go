package parser

import (
	"strings"

	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// fenceSpan describes where a fenced block starts and ends.
type fenceSpan struct {
	openStart int
	openIdx   int
	// closeIdx is the index of the closing line, or -1 when unterminated.
	closeIdx int
	close    mdast.SourceRange
	lastIdx  int
	// bodyOnClose is set when body text precedes the closing delimiter on
	// its line ("a+b$$").
	bodyOnClose bool
}

// buildFence creates a fenced node and fills in its open, close and content
// ranges. The open range includes its line terminator only when another line
// of the block follows, so markers never leave the node. For single-line
// blocks the caller sets fa.Open.
func buildFence(kind mdast.NodeKind, lines []Line, span fenceSpan, fa *mdast.FenceAttrs) *mdast.Node {
	node := mdast.NewNode(kind, span.openStart, lines[span.lastIdx].End)
	node.Attrs = &mdast.Attrs{Fence: fa}

	if span.closeIdx >= 0 {
		fa.Close = span.close
		fa.Closed = true
		node.EndOffset = span.close.EndOffset
	}

	if span.closeIdx == span.openIdx {
		fa.Content = mdast.SourceRange{StartOffset: fa.Open.EndOffset, EndOffset: span.close.StartOffset}
		return node
	}

	openLine := lines[span.openIdx]
	openEnd := openLine.End
	if span.lastIdx > span.openIdx {
		openEnd = openLine.LineEnd
	}
	fa.Open = mdast.SourceRange{StartOffset: span.openStart, EndOffset: openEnd}

	if span.lastIdx == span.openIdx {
		fa.Content = mdast.SourceRange{StartOffset: openEnd, EndOffset: openEnd}
		return node
	}

	contentStart := lines[span.openIdx+1].Start
	contentEnd := lines[span.lastIdx].End
	if span.closeIdx >= 0 {
		switch {
		case span.bodyOnClose:
			contentEnd = span.close.StartOffset
		case span.closeIdx > span.openIdx+1:
			contentEnd = lines[span.closeIdx-1].End
		default:
			contentStart, contentEnd = openEnd, openEnd
		}
	}
	fa.Content = mdast.SourceRange{StartOffset: contentStart, EndOffset: contentEnd}

	return node
}

// FrontmatterRecognizer handles YAML frontmatter delimited by "---" lines at
// the very start of a note.
type FrontmatterRecognizer struct{}

// Name implements BlockRecognizer.
func (FrontmatterRecognizer) Name() string { return "frontmatter" }

// Interrupts implements BlockRecognizer.
func (FrontmatterRecognizer) Interrupts(*BlockState, Line) bool { return false }

// Open implements BlockRecognizer.
func (FrontmatterRecognizer) Open(s *BlockState, parent *mdast.Node, lines []Line, i int) (int, bool) {
	if parent.Kind != mdast.NodeDocument || i != 0 || lines[0].Start != 0 {
		return i, false
	}
	if strings.TrimRight(s.Text(lines[0]), " \t") != "---" {
		return i, false
	}

	for j := 1; j < len(lines); j++ {
		text := strings.TrimRight(s.Text(lines[j]), " \t")
		if text != "---" && text != "..." {
			continue
		}

		fa := &mdast.FenceAttrs{FenceChar: '-', FenceLength: 3}
		node := buildFence(mdast.NodeFrontmatter, lines, fenceSpan{
			openStart: lines[0].Start,
			openIdx:   0,
			closeIdx:  j,
			close:     lines[j].Range(),
			lastIdx:   j,
		}, fa)
		mdast.AppendChild(parent, node)

		s.doc.Frontmatter, s.doc.FrontmatterErr = decodeFrontmatter(s.Content[fa.Content.StartOffset:fa.Content.EndOffset])
		return j + 1, true
	}

	return i, false
}

// FenceRecognizer handles fenced code blocks opened by ``` or ~~~.
type FenceRecognizer struct{}

// Name implements BlockRecognizer.
func (FenceRecognizer) Name() string { return "fence" }

// Interrupts implements BlockRecognizer.
func (FenceRecognizer) Interrupts(s *BlockState, l Line) bool {
	_, _, _, ok := openFence(s, l)
	return ok
}

// Open implements BlockRecognizer.
func (FenceRecognizer) Open(s *BlockState, parent *mdast.Node, lines []Line, i int) (int, bool) {
	start, char, length, ok := openFence(s, lines[i])
	if !ok {
		return i, false
	}

	info := strings.TrimSpace(s.Content[start+length : lines[i].End])
	span := fenceSpan{openStart: start, openIdx: i, closeIdx: -1, lastIdx: len(lines) - 1}

	for j := i + 1; j < len(lines); j++ {
		if r, ok := closeFence(s, lines[j], char, length); ok {
			span.closeIdx = j
			span.close = r
			span.lastIdx = j
			break
		}
	}

	fa := &mdast.FenceAttrs{FenceChar: char, FenceLength: length, Info: info}
	mdast.AppendChild(parent, buildFence(mdast.NodeCodeFence, lines, span, fa))

	return span.lastIdx + 1, true
}

func openFence(s *BlockState, l Line) (int, byte, int, bool) {
	const minFence = 3

	start, ok := s.nonIndented(l)
	if !ok || start >= l.End {
		return 0, 0, 0, false
	}

	char := s.Content[start]
	if char != '`' && char != '~' {
		return 0, 0, 0, false
	}

	length := runLength(s.Content[start:l.End], char)
	if length < minFence {
		return 0, 0, 0, false
	}
	if char == '`' && strings.IndexByte(s.Content[start+length:l.End], '`') >= 0 {
		return 0, 0, 0, false
	}

	return start, char, length, true
}

func closeFence(s *BlockState, l Line, char byte, minLength int) (mdast.SourceRange, bool) {
	start, ok := s.nonIndented(l)
	if !ok || start >= l.End || s.Content[start] != char {
		return mdast.SourceRange{}, false
	}

	length := runLength(s.Content[start:l.End], char)
	if length < minLength || strings.TrimSpace(s.Content[start+length:l.End]) != "" {
		return mdast.SourceRange{}, false
	}

	return mdast.SourceRange{StartOffset: start, EndOffset: start + length}, true
}

func runLength(text string, char byte) int {
	n := 0
	for n < len(text) && text[n] == char {
		n++
	}
	return n
}

// MathBlockRecognizer handles display math delimited by "$$", either on
// its own lines or as "$$x$$" on one line.
type MathBlockRecognizer struct{}

// Name implements BlockRecognizer.
func (MathBlockRecognizer) Name() string { return "math-block" }

// Interrupts implements BlockRecognizer.
func (MathBlockRecognizer) Interrupts(s *BlockState, l Line) bool {
	_, _, ok := delimitedOpening(s, l, "$$")
	return ok
}

// Open implements BlockRecognizer.
func (MathBlockRecognizer) Open(s *BlockState, parent *mdast.Node, lines []Line, i int) (int, bool) {
	return openDelimitedBlock(s, parent, lines, i, mdast.NodeMathBlock, "$$")
}

// CommentBlockRecognizer handles comment blocks delimited by "%%".
type CommentBlockRecognizer struct{}

// Name implements BlockRecognizer.
func (CommentBlockRecognizer) Name() string { return "comment-block" }

// Interrupts implements BlockRecognizer.
func (CommentBlockRecognizer) Interrupts(s *BlockState, l Line) bool {
	_, _, ok := delimitedOpening(s, l, "%%")
	return ok
}

// Open implements BlockRecognizer.
func (CommentBlockRecognizer) Open(s *BlockState, parent *mdast.Node, lines []Line, i int) (int, bool) {
	return openDelimitedBlock(s, parent, lines, i, mdast.NodeCommentBlock, "%%")
}

// delimitedOpening reports whether l opens a delimited block: the line is
// either delim alone or delim...delim. It returns the delimiter offset and
// the trimmed line text.
func delimitedOpening(s *BlockState, l Line, delim string) (int, string, bool) {
	start, ok := s.nonIndented(l)
	if !ok {
		return 0, "", false
	}

	text := strings.TrimRight(s.Content[start:l.End], " \t")
	if text == delim || (len(text) >= 2*len(delim) && strings.HasPrefix(text, delim) &&
		strings.HasSuffix(text, delim) && strings.Count(text, delim) == 2) {
		return start, text, true
	}
	return 0, "", false
}

// openDelimitedBlock opens a block whose first line is delim alone and whose
// last line ends with delim, or a single "delim...delim" line. Unterminated
// blocks are left to the paragraph recognizer.
func openDelimitedBlock(s *BlockState, parent *mdast.Node, lines []Line, i int, kind mdast.NodeKind, delim string) (int, bool) {
	start, first, ok := delimitedOpening(s, lines[i], delim)
	if !ok {
		return i, false
	}

	fa := &mdast.FenceAttrs{FenceChar: delim[0], FenceLength: len(delim)}

	if first != delim {
		end := start + len(first)
		fa.Open = mdast.SourceRange{StartOffset: start, EndOffset: start + len(delim)}
		span := fenceSpan{
			openStart: start,
			openIdx:   i,
			closeIdx:  i,
			close:     mdast.SourceRange{StartOffset: end - len(delim), EndOffset: end},
			lastIdx:   i,
		}
		mdast.AppendChild(parent, buildFence(kind, lines, span, fa))
		return i + 1, true
	}

	for j := i + 1; j < len(lines); j++ {
		text := strings.TrimRight(s.Text(lines[j]), " \t")
		if !strings.HasSuffix(text, delim) {
			continue
		}

		end := lines[j].Start + len(text)
		span := fenceSpan{
			openStart:   start,
			openIdx:     i,
			closeIdx:    j,
			close:       mdast.SourceRange{StartOffset: end - len(delim), EndOffset: end},
			lastIdx:     j,
			bodyOnClose: strings.TrimSpace(text[:len(text)-len(delim)]) != "",
		}
		mdast.AppendChild(parent, buildFence(kind, lines, span, fa))
		return j + 1, true
	}

	return i, false
}

// RuleRecognizer handles thematic breaks: ---, ***, ___ (spaces allowed).
type RuleRecognizer struct{}

// Name implements BlockRecognizer.
func (RuleRecognizer) Name() string { return "horizontal-rule" }

// Interrupts implements BlockRecognizer.
func (RuleRecognizer) Interrupts(s *BlockState, l Line) bool {
	_, ok := isRule(s, l)
	return ok
}

// Open implements BlockRecognizer.
func (RuleRecognizer) Open(s *BlockState, parent *mdast.Node, lines []Line, i int) (int, bool) {
	start, ok := isRule(s, lines[i])
	if !ok {
		return i, false
	}

	end := start + len(strings.TrimRight(s.Content[start:lines[i].End], " \t"))
	mdast.AppendChild(parent, mdast.NewNode(mdast.NodeHorizontalRule, start, end))

	return i + 1, true
}

func isRule(s *BlockState, l Line) (int, bool) {
	const minRule = 3

	start, ok := s.nonIndented(l)
	if !ok || start >= l.End {
		return 0, false
	}

	char := s.Content[start]
	if char != '-' && char != '*' && char != '_' {
		return 0, false
	}

	count := 0
	for _, b := range []byte(s.Content[start:l.End]) {
		switch b {
		case char:
			count++
		case ' ', '\t':
		default:
			return 0, false
		}
	}

	return start, count >= minRule
}

// HeadingRecognizer handles ATX headings: "# Title" through "###### Title".
type HeadingRecognizer struct{}

// Name implements BlockRecognizer.
func (HeadingRecognizer) Name() string { return "heading" }

// Interrupts implements BlockRecognizer.
func (HeadingRecognizer) Interrupts(s *BlockState, l Line) bool {
	_, _, _, ok := scanHeading(s, l)
	return ok
}

// Open implements BlockRecognizer.
func (HeadingRecognizer) Open(s *BlockState, parent *mdast.Node, lines []Line, i int) (int, bool) {
	start, level, markerEnd, ok := scanHeading(s, lines[i])
	if !ok {
		return i, false
	}

	end := lines[i].End
	node := mdast.NewNode(mdast.NodeHeading, start, end)
	node.Attrs = &mdast.Attrs{Level: level, MarkerEnd: markerEnd}
	s.ParseInline(node, mdast.SourceRange{StartOffset: markerEnd, EndOffset: end})
	mdast.AppendChild(parent, node)

	return i + 1, true
}

func scanHeading(s *BlockState, l Line) (int, int, int, bool) {
	const maxLevel = 6

	start, ok := s.nonIndented(l)
	if !ok {
		return 0, 0, 0, false
	}

	level := runLength(s.Content[start:l.End], '#')
	if level == 0 || level > maxLevel {
		return 0, 0, 0, false
	}

	markerEnd := start + level
	if markerEnd < l.End {
		if b := s.Content[markerEnd]; b != ' ' && b != '\t' {
			return 0, 0, 0, false
		}
		markerEnd++
	}

	return start, level, markerEnd, true
}

// ParagraphRecognizer collects consecutive non-blank lines. It always
// matches and must be last in the chain.
type ParagraphRecognizer struct{}

// Name implements BlockRecognizer.
func (ParagraphRecognizer) Name() string { return "paragraph" }

// Interrupts implements BlockRecognizer.
func (ParagraphRecognizer) Interrupts(*BlockState, Line) bool { return false }

// Open implements BlockRecognizer.
func (ParagraphRecognizer) Open(s *BlockState, parent *mdast.Node, lines []Line, i int) (int, bool) {
	j := i + 1
	for j < len(lines) && !s.IsBlank(lines[j]) && !s.Interrupts(lines[j]) {
		j++
	}

	node := mdast.NewNode(mdast.NodeParagraph, lines[i].Start, lines[j-1].End)
	s.ParseInline(node, lineSpan(lines, i, j)...)
	mdast.AppendChild(parent, node)

	return j, true
}
