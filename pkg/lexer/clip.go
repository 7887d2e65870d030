package lexer

import (
	"sort"

	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// Clip returns the tokens restricted to the given byte ranges. Ranges must
// be sorted and non-overlapping. Tokens crossing a range edge are split at
// the edge and keep their kind, so container prefixes ("> ", list indentation)
// never leak into the inline content of a block.
func Clip(tokens []mdast.Token, ranges []mdast.SourceRange) []mdast.Token {
	var out []mdast.Token

	for _, r := range ranges {
		if r.IsEmpty() {
			continue
		}

		idx := IndexAt(tokens, r.StartOffset)
		for ; idx < len(tokens) && tokens[idx].StartOffset < r.EndOffset; idx++ {
			tok := tokens[idx]
			if tok.StartOffset < r.StartOffset {
				tok.StartOffset = r.StartOffset
			}
			if tok.EndOffset > r.EndOffset {
				tok.EndOffset = r.EndOffset
			}
			if !tok.IsEmpty() {
				out = append(out, tok)
			}
		}
	}

	return out
}

// IndexAt returns the index of the token containing offset, or len(tokens)
// when offset is at or past the end of the stream.
func IndexAt(tokens []mdast.Token, offset int) int {
	return sort.Search(len(tokens), func(i int) bool {
		return tokens[i].EndOffset > offset
	})
}
