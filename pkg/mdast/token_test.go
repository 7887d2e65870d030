package mdast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomdlive/pkg/mdast"
)

func tok(kind mdast.TokenKind, start, end int) mdast.Token {
	return mdast.Token{Kind: kind, StartOffset: start, EndOffset: end}
}

func TestToken_Text(t *testing.T) {
	t.Parallel()

	content := "[[Note|Alias]]"

	tests := []struct {
		name  string
		token mdast.Token
		want  string
	}{
		{"opening brackets", tok(mdast.TokLBracket, 0, 2), "[["},
		{"target", tok(mdast.TokText, 2, 6), "Note"},
		{"pipe", tok(mdast.TokPipe, 6, 7), "|"},
		{"empty", tok(mdast.TokText, 7, 7), ""},
		{"negative start", tok(mdast.TokText, -1, 2), ""},
		{"past content", tok(mdast.TokText, 12, 40), ""},
		{"reversed", tok(mdast.TokText, 6, 2), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.token.Text(content))
		})
	}
}

func TestToken_Len(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, tok(mdast.TokEqual, 0, 2).Len())
	assert.False(t, tok(mdast.TokEqual, 0, 2).IsEmpty())
	assert.Zero(t, tok(mdast.TokText, 4, 4).Len())
	assert.True(t, tok(mdast.TokText, 4, 4).IsEmpty())
}

func TestTokenKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hashtag", mdast.TokHashtag.String())
	assert.Equal(t, "Equal", mdast.TokEqual.String())
	assert.Equal(t, "Percent", mdast.TokPercent.String())
	assert.Equal(t, "EscapedChar", mdast.TokEscapedChar.String())
	assert.Equal(t, "TokenKind(?)", mdast.TokenKind(999).String())
}

func TestTokenKind_IsDelimiterRun(t *testing.T) {
	t.Parallel()

	runs := []mdast.TokenKind{
		mdast.TokStar, mdast.TokUnderscore, mdast.TokTilde, mdast.TokBacktick,
		mdast.TokDollar, mdast.TokHash, mdast.TokEqual, mdast.TokPercent,
	}
	for _, kind := range runs {
		assert.True(t, kind.IsDelimiterRun(), kind.String())
	}

	for _, kind := range []mdast.TokenKind{mdast.TokText, mdast.TokHashtag, mdast.TokPipe, mdast.TokCaret} {
		assert.False(t, kind.IsDelimiterRun(), kind.String())
	}
}

func TestValidateTokens(t *testing.T) {
	t.Parallel()

	// "==hi=="
	valid := []mdast.Token{tok(mdast.TokEqual, 0, 2), tok(mdast.TokText, 2, 4), tok(mdast.TokEqual, 4, 6)}

	tests := []struct {
		name   string
		tokens []mdast.Token
		length int
		want   bool
	}{
		{"empty note", nil, 0, true},
		{"no tokens for text", nil, 3, false},
		{"gapless", valid, 6, true},
		{"short of the end", valid, 7, false},
		{"gap", []mdast.Token{tok(mdast.TokEqual, 0, 2), tok(mdast.TokText, 3, 6)}, 6, false},
		{"overlap", []mdast.Token{tok(mdast.TokEqual, 0, 3), tok(mdast.TokText, 2, 6)}, 6, false},
		{"late start", []mdast.Token{tok(mdast.TokText, 1, 6)}, 6, false},
		{"empty token", []mdast.Token{tok(mdast.TokText, 0, 0), tok(mdast.TokText, 0, 6)}, 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mdast.ValidateTokens(tt.tokens, tt.length))
		})
	}
}
