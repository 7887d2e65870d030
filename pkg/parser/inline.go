package parser

import (
	"sort"

	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// maxInlineNesting bounds recursive inline parsing (link labels, inline
// footnotes) so pathological input cannot blow the stack.
const maxInlineNesting = 16

// InlineParser recognizes one inline construct in a token run.
//
// Parse tries to consume a construct starting at token i. On success it
// emits one or more nodes through the state and returns the index of the
// first token after the construct. On failure it must leave the state
// untouched and return ok == false so the next parser in the chain can try.
type InlineParser interface {
	Name() string
	Parse(s *InlineState, i int) (next int, ok bool)
}

// InlineState is the working state for one inline run (the content of a
// leaf block, or the label of a link).
type InlineState struct {
	// Content is the whole note text. Token offsets index into it.
	Content string

	// Tokens is the run being parsed. The state owns this slice.
	Tokens []mdast.Token

	chain  []InlineParser
	nodes  []*mdast.Node
	delims []delimiter
	depth  int
}

func newInlineState(content string, tokens []mdast.Token, chain []InlineParser, depth int) *InlineState {
	return &InlineState{
		Content: content,
		Tokens:  tokens,
		chain:   chain,
		depth:   depth,
	}
}

// Len returns the number of tokens in the run.
func (s *InlineState) Len() int {
	return len(s.Tokens)
}

// Is reports whether token i exists and has the given kind.
func (s *InlineState) Is(i int, kind mdast.TokenKind) bool {
	return i >= 0 && i < len(s.Tokens) && s.Tokens[i].Kind == kind
}

// Text returns the source text of token i.
func (s *InlineState) Text(i int) string {
	return s.Tokens[i].Text(s.Content)
}

// Emit appends a node. Nodes must be emitted in source order.
func (s *InlineState) Emit(n *mdast.Node) {
	s.nodes = append(s.nodes, n)
}

// EndOffset returns the end offset of the run.
func (s *InlineState) EndOffset() int {
	if len(s.Tokens) == 0 {
		return 0
	}
	return s.Tokens[len(s.Tokens)-1].EndOffset
}

// SplitAt makes sure a token boundary exists at offset and returns the
// index of the token starting there (len(Tokens) when offset is at the end).
func (s *InlineState) SplitAt(offset int) int {
	idx := sort.Search(len(s.Tokens), func(i int) bool {
		return s.Tokens[i].EndOffset > offset
	})
	if idx >= len(s.Tokens) {
		return len(s.Tokens)
	}

	tok := s.Tokens[idx]
	if tok.StartOffset >= offset {
		return idx
	}

	left := mdast.Token{Kind: tok.Kind, StartOffset: tok.StartOffset, EndOffset: offset}
	right := mdast.Token{Kind: tok.Kind, StartOffset: offset, EndOffset: tok.EndOffset}
	s.Tokens = append(s.Tokens[:idx+1], s.Tokens[idx:]...)
	s.Tokens[idx] = left
	s.Tokens[idx+1] = right

	return idx + 1
}

// ParseNested parses tokens [from, to) as a separate run and appends the
// resulting nodes as children of parent. Delimiters inside the nested run
// never pair with delimiters outside it.
func (s *InlineState) ParseNested(parent *mdast.Node, from, to int) {
	if s.depth >= maxInlineNesting || from >= to {
		return
	}

	tokens := make([]mdast.Token, to-from)
	copy(tokens, s.Tokens[from:to])

	nested := newInlineState(s.Content, tokens, s.chain, s.depth+1)
	for _, n := range nested.run() {
		mdast.AppendChild(parent, n)
	}
}

// run applies the parser chain at every token, then resolves emphasis.
func (s *InlineState) run() []*mdast.Node {
	i := 0
	for i < len(s.Tokens) {
		next, ok := s.try(i)
		if !ok || next <= i {
			i++
			continue
		}
		i = next
	}

	s.processEmphasis(0)

	return s.nodes
}

// try runs the chain at token i. The first parser that matches wins.
func (s *InlineState) try(i int) (int, bool) {
	for _, p := range s.chain {
		if next, ok := p.Parse(s, i); ok {
			return next, true
		}
	}
	return i, false
}

// wrap makes n the parent of every already-emitted node lying inside it and
// puts n in their place.
func (s *InlineState) wrap(n *mdast.Node) {
	lo := sort.Search(len(s.nodes), func(k int) bool {
		return s.nodes[k].StartOffset >= n.StartOffset
	})
	hi := lo
	for hi < len(s.nodes) && s.nodes[hi].EndOffset <= n.EndOffset {
		mdast.AppendChild(n, s.nodes[hi])
		hi++
	}

	s.nodes = append(s.nodes[:lo], append([]*mdast.Node{n}, s.nodes[hi:]...)...)
}

// findClosing returns the index of the first token after from with the
// given kind and length, or -1. A newline ends the search when sameLine is set.
func (s *InlineState) findClosing(from int, kind mdast.TokenKind, length int, sameLine bool) int {
	for j := from; j < len(s.Tokens); j++ {
		tok := s.Tokens[j]
		if sameLine && tok.Kind == mdast.TokNewline {
			return -1
		}
		if tok.Kind == kind && tok.Len() == length {
			return j
		}
	}
	return -1
}

// matchBracket returns the index of the token closing the open token at i,
// tracking nesting of the same pair, or -1. Newlines end the search.
func (s *InlineState) matchBracket(i int, open, closeKind mdast.TokenKind) int {
	depth := 0
	for j := i; j < len(s.Tokens); j++ {
		switch s.Tokens[j].Kind {
		case open:
			depth++
		case closeKind:
			depth--
			if depth == 0 {
				return j
			}
		case mdast.TokNewline:
			return -1
		}
	}
	return -1
}
