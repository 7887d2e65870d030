// Package lexer tokenizes Obsidian-flavoured Markdown into a flat, gapless
// token stream. The lexer is purely lexical: it never decides what a token
// means, so it cannot fail.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// lexer performs a single-pass tokenization of note content.
// It produces a contiguous, non-overlapping token stream covering [0, len(content)).
type lexer struct {
	content string
	tokens  []mdast.Token
	pos     int
}

// Tokenize performs a single-pass tokenization of the given content.
// Returns a slice of tokens that are contiguous, non-overlapping, and cover [0, len(content)).
func Tokenize(content string) []mdast.Token {
	if len(content) == 0 {
		return nil
	}

	const initialCapacityDivisor = 3 // reasonable initial capacity estimate
	lex := &lexer{
		content: content,
		tokens:  make([]mdast.Token, 0, len(content)/initialCapacityDivisor+1),
	}

	for lex.pos < len(lex.content) {
		lex.next()
	}

	return lex.tokens
}

// next emits exactly one token starting at the current position.
func (l *lexer) next() {
	ch := l.content[l.pos]

	switch ch {
	case '\n':
		l.emitSingle(mdast.TokNewline)
	case '\r':
		l.consumeNewline()
	case ' ', '\t':
		l.consumeRun(mdast.TokWhitespace, func(b byte) bool { return b == ' ' || b == '\t' })
	case '\\':
		l.consumeEscapedChar()
	case '#':
		l.consumeHash()
	case '*':
		l.consumeSame(mdast.TokStar)
	case '_':
		l.consumeSame(mdast.TokUnderscore)
	case '~':
		l.consumeSame(mdast.TokTilde)
	case '`':
		l.consumeSame(mdast.TokBacktick)
	case '$':
		l.consumeSame(mdast.TokDollar)
	case '=':
		l.consumeSame(mdast.TokEqual)
	case '%':
		l.consumeSame(mdast.TokPercent)
	case '-':
		l.consumeSame(mdast.TokDash)
	case '+':
		l.consumeSame(mdast.TokPlus)
	case '^':
		l.emitSingle(mdast.TokCaret)
	case '|':
		l.emitSingle(mdast.TokPipe)
	case '[':
		l.emitSingle(mdast.TokLBracket)
	case ']':
		l.emitSingle(mdast.TokRBracket)
	case '(':
		l.emitSingle(mdast.TokLParen)
	case ')':
		l.emitSingle(mdast.TokRParen)
	case '!':
		l.emitSingle(mdast.TokBang)
	case '>':
		l.emitSingle(mdast.TokGt)
	case '<':
		l.emitSingle(mdast.TokLt)
	case ':':
		l.emitSingle(mdast.TokColon)
	default:
		l.consumeText()
	}
}

// consumeNewline consumes a newline (CRLF or a lone CR).
func (l *lexer) consumeNewline() {
	start := l.pos
	l.pos++
	if l.pos < len(l.content) && l.content[l.pos] == '\n' {
		l.pos++
	}
	l.emit(mdast.TokNewline, start, l.pos)
}

// consumeEscapedChar consumes a backslash escape sequence.
func (l *lexer) consumeEscapedChar() {
	start := l.pos
	l.pos++ // consume '\'

	if l.pos < len(l.content) && isPunctuation(l.content[l.pos]) {
		l.pos++ // consume escaped char
		l.emit(mdast.TokEscapedChar, start, l.pos)
		return
	}

	// Not a valid escape, emit as text.
	l.emit(mdast.TokText, start, l.pos)
}

// consumeHash emits either a hashtag token ("#tag") or a run of '#'.
// A single '#' directly followed by a tag word is a hashtag candidate; the
// parsers decide whether it really is one.
func (l *lexer) consumeHash() {
	start := l.pos
	end := start
	for end < len(l.content) && l.content[end] == '#' {
		end++
	}

	if end-start == 1 {
		if wordEnd := scanTagWord(l.content, end); wordEnd > end {
			l.pos = wordEnd
			l.emit(mdast.TokHashtag, start, wordEnd)
			return
		}
	}

	l.pos = end
	l.emit(mdast.TokHash, start, end)
}

// consumeSame consumes a run of the character at the current position.
func (l *lexer) consumeSame(kind mdast.TokenKind) {
	marker := l.content[l.pos]
	l.consumeRun(kind, func(b byte) bool { return b == marker })
}

// consumeRun consumes bytes while accept returns true.
func (l *lexer) consumeRun(kind mdast.TokenKind, accept func(byte) bool) {
	start := l.pos
	for l.pos < len(l.content) && accept(l.content[l.pos]) {
		l.pos++
	}
	l.emit(kind, start, l.pos)
}

// consumeText consumes regular text content up to the next special byte.
func (l *lexer) consumeText() {
	start := l.pos

	for l.pos < len(l.content) && !isSpecial(l.content[l.pos]) {
		l.pos++
	}

	// Guard against a special byte that next() did not handle.
	if l.pos == start {
		l.pos++
	}

	l.emit(mdast.TokText, start, l.pos)
}

// emit adds a token to the token list.
func (l *lexer) emit(kind mdast.TokenKind, start, end int) {
	l.tokens = append(l.tokens, mdast.Token{
		Kind:        kind,
		StartOffset: start,
		EndOffset:   end,
	})
}

// emitSingle emits a single-byte token and advances position.
func (l *lexer) emitSingle(kind mdast.TokenKind) {
	l.emit(kind, l.pos, l.pos+1)
	l.pos++
}

// isSpecial reports whether b starts a token other than text.
func isSpecial(b byte) bool {
	switch b {
	case '\n', '\r', ' ', '\t', '\\', '#', '*', '_', '~', '`', '$', '=', '%', '-', '+',
		'^', '|', '[', ']', '(', ')', '!', '>', '<', ':':
		return true
	default:
		return false
	}
}

// isPunctuation returns true if the byte is ASCII punctuation (escapable).
func isPunctuation(b byte) bool {
	switch b {
	case '!', '"', '#', '$', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
		':', ';', '<', '=', '>', '?', '@', '[', '\\', ']', '^', '_', '`', '{', '|', '}', '~':
		return true
	default:
		return false
	}
}

// IsTagRune reports whether r may appear in a hashtag name.
func IsTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '/'
}

// scanTagWord returns the end of the tag word starting at pos, or pos when
// there is none. Purely numeric words ("#123") are not tags.
func scanTagWord(content string, pos int) int {
	end := pos
	hasNonDigit := false

	for end < len(content) {
		r, size := utf8.DecodeRuneInString(content[end:])
		if !IsTagRune(r) {
			break
		}
		if !unicode.IsDigit(r) {
			hasNonDigit = true
		}
		end += size
	}

	if !hasNonDigit {
		return pos
	}

	return end
}
