package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/gomdlive/pkg/lexer"
	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// CodeSpanParser handles code spans: `code`, ``co`de``.
// A backtick run closes only on a run of the same length.
type CodeSpanParser struct{}

// Name implements InlineParser.
func (CodeSpanParser) Name() string { return "code-span" }

// Parse implements InlineParser.
func (CodeSpanParser) Parse(s *InlineState, i int) (int, bool) {
	if !s.Is(i, mdast.TokBacktick) {
		return i, false
	}

	width := s.Tokens[i].Len()
	j := s.findClosing(i+1, mdast.TokBacktick, width, false)
	if j < 0 {
		return i, false
	}

	node := mdast.NewNode(mdast.NodeCodeSpan, s.Tokens[i].StartOffset, s.Tokens[j].EndOffset)
	node.Attrs = &mdast.Attrs{DelimWidth: width}
	s.Emit(node)

	return j + 1, true
}

// MathParser handles inline math: $x^2$ and $$x$$ on a single line.
// The opening '$' must be followed by a non-space and the closing '$' must
// be preceded by a non-space and not followed by a digit, so prices such
// as "$5 and $6" stay text.
type MathParser struct{}

// Name implements InlineParser.
func (MathParser) Name() string { return "math" }

// Parse implements InlineParser.
func (MathParser) Parse(s *InlineState, i int) (int, bool) {
	if !s.Is(i, mdast.TokDollar) {
		return i, false
	}

	width := s.Tokens[i].Len()
	const maxMathDelim = 2
	if width > maxMathDelim || i+1 >= s.Len() || s.Is(i+1, mdast.TokWhitespace) || s.Is(i+1, mdast.TokNewline) {
		return i, false
	}

	for j := i + 1; j < s.Len(); j++ {
		j = s.findClosing(j, mdast.TokDollar, width, true)
		if j < 0 {
			return i, false
		}
		if s.Is(j-1, mdast.TokWhitespace) {
			continue
		}

		end := s.Tokens[j].EndOffset
		if end < len(s.Content) && s.Content[end] >= '0' && s.Content[end] <= '9' {
			continue
		}

		node := mdast.NewNode(mdast.NodeInlineMath, s.Tokens[i].StartOffset, end)
		node.Attrs = &mdast.Attrs{DelimWidth: width}
		s.Emit(node)
		return j + 1, true
	}

	return i, false
}

// HashtagParser handles tags: #tag, #nested/tag.
type HashtagParser struct{}

// Name implements InlineParser.
func (HashtagParser) Name() string { return "hashtag" }

// Parse implements InlineParser.
func (HashtagParser) Parse(s *InlineState, i int) (int, bool) {
	if !s.Is(i, mdast.TokHashtag) {
		return i, false
	}

	tok := s.Tokens[i]
	if tok.StartOffset > 0 {
		prev, _ := utf8.DecodeLastRuneInString(s.Content[:tok.StartOffset])
		if lexer.IsTagRune(prev) || prev == '#' || prev == '&' {
			return i, false
		}
	}

	node := mdast.NewNode(mdast.NodeHashtag, tok.StartOffset, tok.EndOffset)
	node.Attrs = &mdast.Attrs{Name: s.Content[tok.StartOffset+1 : tok.EndOffset]}
	s.Emit(node)

	return i + 1, true
}

// BlockIDParser handles block identifiers: " ^block-id" at the end of a line.
type BlockIDParser struct{}

// Name implements InlineParser.
func (BlockIDParser) Name() string { return "block-id" }

// Parse implements InlineParser.
func (BlockIDParser) Parse(s *InlineState, i int) (int, bool) {
	if !s.Is(i, mdast.TokCaret) {
		return i, false
	}

	start := s.Tokens[i].StartOffset
	if start > 0 && !isSpaceByte(s.Content[start-1]) {
		return i, false
	}

	j := i + 1
	for j < s.Len() && (s.Is(j, mdast.TokText) || s.Is(j, mdast.TokDash)) && isBlockIDText(s.Text(j)) {
		j++
	}
	if j == i+1 {
		return i, false
	}

	// Only trailing whitespace may follow on the line.
	k := j
	for s.Is(k, mdast.TokWhitespace) {
		k++
	}
	if k < s.Len() && !s.Is(k, mdast.TokNewline) {
		return i, false
	}

	end := s.Tokens[j-1].EndOffset
	node := mdast.NewNode(mdast.NodeBlockID, start, end)
	node.Attrs = &mdast.Attrs{Name: s.Content[start+1 : end]}
	s.Emit(node)

	return j, true
}

func isBlockIDText(text string) bool {
	for _, r := range text {
		if !(r == '-' || r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			return false
		}
	}
	return true
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
