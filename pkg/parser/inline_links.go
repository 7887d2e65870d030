package parser

import (
	"strings"

	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// InternalLinkParser handles wiki links: [[Note]], [[Note#Heading|Alias]].
type InternalLinkParser struct{}

// Name implements InlineParser.
func (InternalLinkParser) Name() string { return "internal-link" }

// Parse implements InlineParser.
func (InternalLinkParser) Parse(s *InlineState, i int) (int, bool) {
	return parseWikiLink(s, i, mdast.NodeInternalLink)
}

// EmbedParser handles embeds: ![[Note]], ![[image.png|300]].
type EmbedParser struct{}

// Name implements InlineParser.
func (EmbedParser) Name() string { return "embed" }

// Parse implements InlineParser.
func (EmbedParser) Parse(s *InlineState, i int) (int, bool) {
	if !s.Is(i, mdast.TokBang) {
		return i, false
	}
	next, ok := parseWikiLink(s, i+1, mdast.NodeEmbed)
	if !ok {
		return i, false
	}

	// Widen the embed to cover the leading '!'.
	s.nodes[len(s.nodes)-1].StartOffset = s.Tokens[i].StartOffset

	return next, true
}

// parseWikiLink parses "[[target|alias]]" starting at token i.
func parseWikiLink(s *InlineState, i int, kind mdast.NodeKind) (int, bool) {
	if !s.Is(i, mdast.TokLBracket) || !s.Is(i+1, mdast.TokLBracket) {
		return i, false
	}

	pipe := -1
	closeAt := -1
	for j := i + 2; j < s.Len(); j++ {
		switch s.Tokens[j].Kind {
		case mdast.TokNewline, mdast.TokLBracket:
			return i, false
		case mdast.TokPipe:
			if pipe < 0 {
				pipe = j
			}
		case mdast.TokRBracket:
			if s.Is(j+1, mdast.TokRBracket) {
				closeAt = j
			} else {
				return i, false
			}
		}
		if closeAt >= 0 {
			break
		}
	}
	if closeAt < 0 || closeAt == i+2 {
		return i, false
	}

	contentStart := s.Tokens[i+1].EndOffset
	contentEnd := s.Tokens[closeAt].StartOffset

	targetEnd := contentEnd
	if pipe >= 0 {
		targetEnd = s.Tokens[pipe].StartOffset
	}
	if targetEnd == contentStart {
		return i, false
	}

	link := &mdast.LinkAttrs{
		Target: mdast.SourceRange{StartOffset: contentStart, EndOffset: targetEnd},
		Label:  mdast.SourceRange{StartOffset: contentStart, EndOffset: targetEnd},
	}

	target := s.Content[contentStart:targetEnd]
	if hash := strings.IndexByte(target, '#'); hash >= 0 {
		link.Destination = strings.TrimSpace(target[:hash])
		link.Subpath = strings.TrimSpace(target[hash+1:])
	} else {
		link.Destination = strings.TrimSpace(target)
	}

	if pipe >= 0 {
		aliasStart := s.Tokens[pipe].EndOffset
		link.Alias = s.Content[aliasStart:contentEnd]
		link.Label = mdast.SourceRange{StartOffset: aliasStart, EndOffset: contentEnd}
	}

	node := mdast.NewNode(kind, s.Tokens[i].StartOffset, s.Tokens[closeAt+1].EndOffset)
	node.Attrs = &mdast.Attrs{Link: link}
	s.Emit(node)

	return closeAt + 2, true
}

// InlineLinkParser handles Markdown links: [label](destination "title").
// The label is parsed recursively.
type InlineLinkParser struct{}

// Name implements InlineParser.
func (InlineLinkParser) Name() string { return "inline-link" }

// Parse implements InlineParser.
func (InlineLinkParser) Parse(s *InlineState, i int) (int, bool) {
	if !s.Is(i, mdast.TokLBracket) || s.Is(i+1, mdast.TokLBracket) || s.Is(i+1, mdast.TokCaret) {
		return i, false
	}

	labelEnd, destOpen, destClose, ok := s.scanLinkTail(i)
	if !ok {
		return i, false
	}

	node := mdast.NewNode(mdast.NodeInlineLink, s.Tokens[i].StartOffset, s.Tokens[destClose].EndOffset)
	node.Attrs = &mdast.Attrs{Link: s.linkAttrs(i, labelEnd, destOpen, destClose)}
	s.ParseNested(node, i+1, labelEnd)
	s.Emit(node)

	return destClose + 1, true
}

// ImageParser handles Markdown images: ![alt](destination).
type ImageParser struct{}

// Name implements InlineParser.
func (ImageParser) Name() string { return "image" }

// Parse implements InlineParser.
func (ImageParser) Parse(s *InlineState, i int) (int, bool) {
	if !s.Is(i, mdast.TokBang) || !s.Is(i+1, mdast.TokLBracket) || s.Is(i+2, mdast.TokLBracket) {
		return i, false
	}

	labelEnd, destOpen, destClose, ok := s.scanLinkTail(i + 1)
	if !ok {
		return i, false
	}

	node := mdast.NewNode(mdast.NodeImage, s.Tokens[i].StartOffset, s.Tokens[destClose].EndOffset)
	node.Attrs = &mdast.Attrs{Link: s.linkAttrs(i+1, labelEnd, destOpen, destClose)}
	s.Emit(node)

	return destClose + 1, true
}

// scanLinkTail matches "[label](dest)" with the '[' at token i and returns
// the indexes of the closing ']', the '(' and the ')'.
func (s *InlineState) scanLinkTail(i int) (int, int, int, bool) {
	labelEnd := s.matchBracket(i, mdast.TokLBracket, mdast.TokRBracket)
	if labelEnd < 0 || !s.Is(labelEnd+1, mdast.TokLParen) {
		return 0, 0, 0, false
	}

	destOpen := labelEnd + 1
	destClose := s.matchBracket(destOpen, mdast.TokLParen, mdast.TokRParen)
	if destClose < 0 {
		return 0, 0, 0, false
	}

	return labelEnd, destOpen, destClose, true
}

func (s *InlineState) linkAttrs(open, labelEnd, destOpen, destClose int) *mdast.LinkAttrs {
	destStart := s.Tokens[destOpen].EndOffset
	destEnd := s.Tokens[destClose].StartOffset
	dest, title := splitDestination(s.Content[destStart:destEnd])

	return &mdast.LinkAttrs{
		Destination: dest,
		Title:       title,
		Label: mdast.SourceRange{
			StartOffset: s.Tokens[open].EndOffset,
			EndOffset:   s.Tokens[labelEnd].StartOffset,
		},
		Target: mdast.SourceRange{StartOffset: destStart, EndOffset: destEnd},
	}
}

// splitDestination separates `url "title"` into its parts. Angle-bracketed
// destinations may contain spaces.
func splitDestination(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "<") {
		if end := strings.IndexByte(raw, '>'); end > 0 {
			return raw[1:end], unquoteTitle(strings.TrimSpace(raw[end+1:]))
		}
	}

	dest, rest, found := strings.Cut(raw, " ")
	if !found {
		return raw, ""
	}
	return dest, unquoteTitle(strings.TrimSpace(rest))
}

func unquoteTitle(s string) string {
	const minQuoted = 2
	if len(s) < minQuoted {
		return ""
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '(' && last == ')') {
		return s[1 : len(s)-1]
	}
	return ""
}

// FootnoteLinkParser handles footnote references: [^label].
type FootnoteLinkParser struct{}

// Name implements InlineParser.
func (FootnoteLinkParser) Name() string { return "footnote-link" }

// Parse implements InlineParser.
func (FootnoteLinkParser) Parse(s *InlineState, i int) (int, bool) {
	if !s.Is(i, mdast.TokLBracket) || !s.Is(i+1, mdast.TokCaret) {
		return i, false
	}

	j := i + 2
	for ; j < s.Len(); j++ {
		switch s.Tokens[j].Kind {
		case mdast.TokRBracket:
			if j == i+2 {
				return i, false
			}
			labelStart := s.Tokens[i+1].EndOffset
			labelEnd := s.Tokens[j].StartOffset

			node := mdast.NewNode(mdast.NodeFootnoteLink, s.Tokens[i].StartOffset, s.Tokens[j].EndOffset)
			node.Attrs = &mdast.Attrs{Name: s.Content[labelStart:labelEnd]}
			s.Emit(node)
			return j + 1, true
		case mdast.TokWhitespace, mdast.TokNewline, mdast.TokLBracket:
			return i, false
		}
	}

	return i, false
}

// InlineFootnoteParser handles inline footnotes: ^[note text].
type InlineFootnoteParser struct{}

// Name implements InlineParser.
func (InlineFootnoteParser) Name() string { return "inline-footnote" }

// Parse implements InlineParser.
func (InlineFootnoteParser) Parse(s *InlineState, i int) (int, bool) {
	if !s.Is(i, mdast.TokCaret) || !s.Is(i+1, mdast.TokLBracket) {
		return i, false
	}

	end := s.matchBracket(i+1, mdast.TokLBracket, mdast.TokRBracket)
	if end < 0 || end == i+2 {
		return i, false
	}

	node := mdast.NewNode(mdast.NodeInlineFootnote, s.Tokens[i].StartOffset, s.Tokens[end].EndOffset)
	s.ParseNested(node, i+2, end)
	s.Emit(node)

	return end + 1, true
}
