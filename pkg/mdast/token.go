package mdast

// TokenKind classifies the type of a token in the Markdown source.
type TokenKind uint16

// Token kinds cover every byte in the source. Kinds are lexical only; deciding
// whether a '#' run starts a heading or a '*' run opens emphasis is left to
// the parsers.
const (
	TokText TokenKind = iota
	TokWhitespace
	TokNewline

	TokStar        // run of '*'
	TokUnderscore  // run of '_'
	TokTilde       // run of '~'
	TokBacktick    // run of '`'
	TokDollar      // run of '$'
	TokHash        // run of '#'
	TokHashtag     // '#' immediately followed by a tag word
	TokEqual       // run of '='
	TokPercent     // run of '%'
	TokDash        // run of '-'
	TokPlus        // run of '+'
	TokCaret       // '^'
	TokPipe        // '|'
	TokLBracket    // '['
	TokRBracket    // ']'
	TokLParen      // '('
	TokRParen      // ')'
	TokBang        // '!'
	TokGt          // '>'
	TokLt          // '<'
	TokColon       // ':'
	TokEscapedChar // '\' + punctuation

	tokenKindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var tokenKindNames = [tokenKindCount]string{
	TokText:        "Text",
	TokWhitespace:  "Whitespace",
	TokNewline:     "Newline",
	TokStar:        "Star",
	TokUnderscore:  "Underscore",
	TokTilde:       "Tilde",
	TokBacktick:    "Backtick",
	TokDollar:      "Dollar",
	TokHash:        "Hash",
	TokHashtag:     "Hashtag",
	TokEqual:       "Equal",
	TokPercent:     "Percent",
	TokDash:        "Dash",
	TokPlus:        "Plus",
	TokCaret:       "Caret",
	TokPipe:        "Pipe",
	TokLBracket:    "LBracket",
	TokRBracket:    "RBracket",
	TokLParen:      "LParen",
	TokRParen:      "RParen",
	TokBang:        "Bang",
	TokGt:          "Gt",
	TokLt:          "Lt",
	TokColon:       "Colon",
	TokEscapedChar: "EscapedChar",
}

// String returns the kind name without the Tok prefix.
func (k TokenKind) String() string {
	if k < tokenKindCount {
		return tokenKindNames[k]
	}
	return "TokenKind(?)"
}

// IsDelimiterRun returns true for kinds the lexer emits as a single token per run.
func (k TokenKind) IsDelimiterRun() bool {
	switch k {
	case TokStar, TokUnderscore, TokTilde, TokBacktick, TokDollar, TokHash,
		TokEqual, TokPercent, TokDash, TokPlus:
		return true
	default:
		return false
	}
}

// Token is a classified span of bytes. A token stream is gapless and
// covers [0, len(content)).
type Token struct {
	Kind        TokenKind
	StartOffset int
	EndOffset   int
}

// Text returns the token's bytes in content, or "" when the token does not
// fit content.
func (t Token) Text(content string) string {
	if t.StartOffset < 0 || t.StartOffset > t.EndOffset || t.EndOffset > len(content) {
		return ""
	}
	return content[t.StartOffset:t.EndOffset]
}

// Len returns the token length in bytes.
func (t Token) Len() int {
	return t.EndOffset - t.StartOffset
}

// IsEmpty reports whether the token has no bytes.
func (t Token) IsEmpty() bool {
	return t.Len() == 0
}

// ValidateTokens reports whether tokens are non-empty, each starting where
// the previous one ended, and together cover exactly contentLen bytes.
func ValidateTokens(tokens []Token, contentLen int) bool {
	next := 0
	for _, tok := range tokens {
		if tok.StartOffset != next || tok.EndOffset <= tok.StartOffset {
			return false
		}
		next = tok.EndOffset
	}
	return next == contentLen
}
