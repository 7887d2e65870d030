package parser

import (
	"unicode/utf8"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// delimiter is an entry on the emphasis delimiter stack. start and end
// track the unmatched part of the run; they shrink as pairs are matched.
type delimiter struct {
	char     byte
	start    int
	end      int
	origLen  int
	canOpen  bool
	canClose bool
}

func (d *delimiter) remaining() int {
	return d.end - d.start
}

// EmphasisParser handles the emphasis group: comments ("%%"), bold and
// italic ("*", "_"), strikethrough ("~~") and highlight ("==").
// Delimiter runs are pushed on a stack and paired after the whole run has
// been scanned, so constructs claimed earlier in the chain always win.
type EmphasisParser struct {
	Comments      bool
	Strikethrough bool
	Highlight     bool
}

// Name implements InlineParser.
func (p EmphasisParser) Name() string { return "emphasis" }

// Parse implements InlineParser.
func (p EmphasisParser) Parse(s *InlineState, i int) (int, bool) {
	tok := s.Tokens[i]

	switch tok.Kind {
	case mdast.TokPercent:
		if !p.Comments || tok.Len() != 2 {
			return i, false
		}
		return parseComment(s, i)
	case mdast.TokStar, mdast.TokUnderscore:
	case mdast.TokTilde:
		if !p.Strikethrough || tok.Len() != 2 {
			return i, false
		}
	case mdast.TokEqual:
		if !p.Highlight || tok.Len() != 2 {
			return i, false
		}
	default:
		return i, false
	}

	canOpen, canClose := flanking(s.Content, tok)
	if !canOpen && !canClose {
		return i, false
	}

	s.delims = append(s.delims, delimiter{
		char:     s.Content[tok.StartOffset],
		start:    tok.StartOffset,
		end:      tok.EndOffset,
		origLen:  tok.Len(),
		canOpen:  canOpen,
		canClose: canClose,
	})

	return i + 1, true
}

// parseComment consumes "%%...%%". The comment body is never parsed.
func parseComment(s *InlineState, i int) (int, bool) {
	j := s.findClosing(i+1, mdast.TokPercent, 2, false)
	if j < 0 {
		return i, false
	}

	node := mdast.NewNode(mdast.NodeComment, s.Tokens[i].StartOffset, s.Tokens[j].EndOffset)
	node.Attrs = &mdast.Attrs{DelimWidth: 2}
	s.Emit(node)

	return j + 1, true
}

// flanking computes whether a delimiter run can open and close emphasis.
// The rules follow CommonMark left/right-flanking runs; '_' additionally
// refuses intraword emphasis.
func flanking(content string, tok mdast.Token) (bool, bool) {
	before := ' '
	if tok.StartOffset > 0 {
		before, _ = utf8.DecodeLastRuneInString(content[:tok.StartOffset])
	}
	after := ' '
	if tok.EndOffset < len(content) {
		after, _ = utf8.DecodeRuneInString(content[tok.EndOffset:])
	}

	beforeSpace := util.IsSpaceRune(before)
	afterSpace := util.IsSpaceRune(after)
	beforePunct := util.IsPunctRune(before)
	afterPunct := util.IsPunctRune(after)

	leftFlanking := !afterSpace && (!afterPunct || beforeSpace || beforePunct)
	rightFlanking := !beforeSpace && (!beforePunct || afterSpace || afterPunct)

	if content[tok.StartOffset] == '_' {
		return leftFlanking && (!rightFlanking || beforePunct),
			rightFlanking && (!leftFlanking || afterPunct)
	}

	return leftFlanking, rightFlanking
}

// emphasisKind maps a delimiter character and match width to a node kind.
func emphasisKind(char byte, width int) mdast.NodeKind {
	switch char {
	case '~':
		return mdast.NodeStrikethrough
	case '=':
		return mdast.NodeHighlight
	}
	if width == 2 {
		return mdast.NodeBold
	}
	return mdast.NodeItalic
}

type openersBottomKey struct {
	char    byte
	canOpen bool
	mod3    int
}

// processEmphasis pairs delimiters above stackBottom, innermost first, and
// wraps the nodes emitted between each pair.
func (s *InlineState) processEmphasis(stackBottom int) {
	openersBottom := make(map[openersBottomKey]int)

	cur := stackBottom
	for cur < len(s.delims) {
		closer := &s.delims[cur]
		if !closer.canClose {
			cur++
			continue
		}

		key := openersBottomKey{char: closer.char, canOpen: closer.canOpen, mod3: closer.origLen % 3}
		bottom := stackBottom
		if b, ok := openersBottom[key]; ok && b > bottom {
			bottom = b
		}

		found := -1
		for j := cur - 1; j >= bottom; j-- {
			opener := &s.delims[j]
			if opener.char == closer.char && opener.canOpen && canPair(opener, closer) {
				found = j
				break
			}
		}

		if found < 0 {
			openersBottom[key] = cur
			if !closer.canOpen {
				s.delims = append(s.delims[:cur], s.delims[cur+1:]...)
				continue
			}
			cur++
			continue
		}

		opener := &s.delims[found]
		width := 2
		if (closer.char == '*' || closer.char == '_') && (opener.remaining() < 2 || closer.remaining() < 2) {
			width = 1
		}

		node := mdast.NewNode(emphasisKind(closer.char, width), opener.end-width, closer.start+width)
		node.Attrs = &mdast.Attrs{DelimWidth: width}
		opener.end -= width
		closer.start += width
		s.wrap(node)

		// Delimiters between the pair can no longer match.
		s.delims = append(s.delims[:found+1], s.delims[cur:]...)
		cur = found + 1

		if s.delims[found].remaining() == 0 {
			s.delims = append(s.delims[:found], s.delims[found+1:]...)
			cur--
		}
		if s.delims[cur].remaining() == 0 {
			s.delims = append(s.delims[:cur], s.delims[cur+1:]...)
		}
	}

	s.delims = s.delims[:stackBottom]
}

// canPair applies the "rule of three" for '*' and '_' runs and the exact
// width requirement for '~~' and '=='.
func canPair(opener, closer *delimiter) bool {
	switch closer.char {
	case '~', '=':
		return opener.remaining() == 2 && closer.remaining() == 2
	}

	if opener.canClose || closer.canOpen {
		sum := opener.origLen + closer.origLen
		if sum%3 == 0 && (opener.origLen%3 != 0 || closer.origLen%3 != 0) {
			return false
		}
	}
	return true
}
