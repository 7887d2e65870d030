package pretty

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gomdlive/pkg/transform"
)

// syntaxSpan colours [start, end) of the preview text.
type syntaxSpan struct {
	start int
	end   int
	style lipgloss.Style
}

// syntaxSpans tokenises every code block and frontmatter range of styles
// that carries a language chroma knows. Plain text tokens get no span.
func (s *Styles) syntaxSpans(text string, styles []transform.StyleRange) []syntaxSpan {
	if !s.syntax {
		return nil
	}

	var spans []syntaxSpan
	for _, st := range styles {
		if st.Style.Language == "" || st.Start >= st.End || st.End > len(text) {
			continue
		}
		if st.Style.Kind != transform.StyleCodeBlock && st.Style.Kind != transform.StyleFrontmatter {
			continue
		}
		spans = append(spans, s.highlight(text, st)...)
	}
	return spans
}

func (s *Styles) highlight(text string, st transform.StyleRange) []syntaxSpan {
	lexer := lexers.Get(st.Style.Language)
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, text[st.Start:st.End])
	if err != nil {
		return nil
	}

	var spans []syntaxSpan
	offset := st.Start
	for _, tok := range iterator.Tokens() {
		start := offset
		offset += len(tok.Value)
		end := min(offset, st.End)
		if start >= end {
			break
		}
		if style, ok := s.tokenStyle(tok.Type); ok {
			spans = append(spans, syntaxSpan{start: start, end: end, style: style})
		}
	}
	return spans
}

// tokenStyle maps a chroma token type to a terminal colour.
func (s *Styles) tokenStyle(tt chroma.TokenType) (lipgloss.Style, bool) {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}

	switch {
	case tt.InCategory(chroma.Comment):
		return fg("8").Italic(true), true
	case tt == chroma.KeywordType:
		return fg("14"), true
	case tt.InCategory(chroma.Keyword):
		return fg("13"), true
	case tt.InSubCategory(chroma.LiteralString):
		return fg("10"), true
	case tt.InSubCategory(chroma.LiteralNumber):
		return fg("11"), true
	case tt == chroma.NameFunction, tt == chroma.NameBuiltin:
		return fg("12"), true
	case tt == chroma.NameTag, tt == chroma.NameAttribute:
		return fg("12"), true
	default:
		return lipgloss.Style{}, false
	}
}

// spanAt returns the syntax span covering [from, to).
func spanAt(spans []syntaxSpan, from, to int) (lipgloss.Style, bool) {
	for _, sp := range spans {
		if sp.start <= from && to <= sp.end {
			return sp.style, true
		}
	}
	return lipgloss.Style{}, false
}
