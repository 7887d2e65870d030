package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gomdlive/pkg/lexer"
	"github.com/yaklabco/gomdlive/pkg/mdast"
)

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	uriAutolinkRe   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]{1,31}:[^\s<>]*$`)
	emailAutolinkRe = regexp.MustCompile(`^[A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]{0,61}[A-Za-z0-9])?)*$`)
)

// AutolinkParser handles <scheme:...> and <user@host> autolinks, and bare
// http(s) URLs in text.
type AutolinkParser struct{}

// Name implements InlineParser.
func (AutolinkParser) Name() string { return "autolink" }

// Parse implements InlineParser.
func (AutolinkParser) Parse(s *InlineState, i int) (int, bool) {
	if s.Is(i, mdast.TokLt) {
		return parseAngleAutolink(s, i)
	}
	if s.Is(i, mdast.TokText) {
		return parseBareURL(s, i)
	}
	return i, false
}

func parseAngleAutolink(s *InlineState, i int) (int, bool) {
	for j := i + 1; j < s.Len(); j++ {
		switch s.Tokens[j].Kind {
		case mdast.TokWhitespace, mdast.TokNewline, mdast.TokLt:
			return i, false
		case mdast.TokGt:
			start := s.Tokens[i].EndOffset
			end := s.Tokens[j].StartOffset
			dest := s.Content[start:end]

			switch {
			case uriAutolinkRe.MatchString(dest):
			case emailAutolinkRe.MatchString(dest):
				dest = "mailto:" + dest
			default:
				return i, false
			}

			node := mdast.NewNode(mdast.NodeAutolink, s.Tokens[i].StartOffset, s.Tokens[j].EndOffset)
			node.Attrs = &mdast.Attrs{Link: &mdast.LinkAttrs{
				Destination: dest,
				Label:       mdast.SourceRange{StartOffset: start, EndOffset: end},
				Target:      mdast.SourceRange{StartOffset: start, EndOffset: end},
			}}
			s.Emit(node)
			return j + 1, true
		}
	}
	return i, false
}

// parseBareURL recognizes "http://" and "https://" URLs inside plain text.
// The URL ends at whitespace or '<'; trailing punctuation and unbalanced
// closing parentheses are left out.
func parseBareURL(s *InlineState, i int) (int, bool) {
	start := s.Tokens[i].StartOffset
	rest := s.Content[start:]
	if !strings.HasPrefix(rest, "http://") && !strings.HasPrefix(rest, "https://") {
		return i, false
	}
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(s.Content[:start])
		if lexer.IsTagRune(prev) {
			return i, false
		}
	}

	end := start
	limit := s.EndOffset()
	for end < limit {
		b := s.Content[end]
		if isSpaceByte(b) || b == '<' {
			break
		}
		end++
	}
	end = trimURLTail(s.Content, start, end)

	schemeEnd := start + strings.Index(rest, "//") + 2
	if end <= schemeEnd {
		return i, false
	}

	next := s.SplitAt(end)

	node := mdast.NewNode(mdast.NodeAutolink, start, end)
	node.Attrs = &mdast.Attrs{Link: &mdast.LinkAttrs{
		Destination: s.Content[start:end],
		Label:       mdast.SourceRange{StartOffset: start, EndOffset: end},
		Target:      mdast.SourceRange{StartOffset: start, EndOffset: end},
	}}
	s.Emit(node)

	return next, true
}

func trimURLTail(content string, start, end int) int {
	for end > start {
		switch content[end-1] {
		case '.', ',', ':', ';', '!', '?', '"', '\'', '*', '_', '~':
			end--
			continue
		case ')':
			url := content[start:end]
			if strings.Count(url, "(") < strings.Count(url, ")") {
				end--
				continue
			}
		}
		break
	}
	return end
}
