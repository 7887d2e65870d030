package pretty

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/transform"
)

// Preview formatting constants.
const (
	defaultTermWidth = 80
	tabWidth         = 4
	ruleGlyph        = "─"
	quoteBarGlyph    = "│ "
	caretGlyph       = "^"
)

// PreviewOptions controls RenderPreview.
type PreviewOptions struct {
	// Width is the column count horizontal rules are drawn to. Zero uses
	// the default terminal width.
	Width int

	// ShowCaret draws a caret under the line holding a collapsed selection.
	ShowCaret bool
}

// TerminalWidth returns the width of the terminal behind writer, or the
// default width when writer is not a terminal.
func TerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}

// textLine is a line of the transformed text, without its terminator.
type textLine struct {
	start int
	end   int
}

func (l textLine) holds(offset int) bool {
	return l.start <= offset && offset <= l.end
}

// RenderPreview renders the transformed text of res with its styles. Quote
// and callout lines get a bar per nesting level, rules are drawn across the
// width, and a non-empty selection is shown in reverse video.
func (s *Styles) RenderPreview(res *transform.Result, opts PreviewOptions) string {
	if res == nil {
		return ""
	}

	width := opts.Width
	if width <= 0 {
		width = defaultTermWidth
	}

	text := res.Text
	sel := res.Selection.Normalized()
	lines := splitTextLines(text)
	if opts.ShowCaret && sel.Collapsed() && sel.Start == len(text) && (len(lines) == 0 || lines[len(lines)-1].end < len(text)) {
		lines = append(lines, textLine{start: len(text), end: len(text)})
	}

	spans := s.syntaxSpans(text, res.Styles)

	var builder strings.Builder
	for _, line := range lines {
		gutter, gutterWidth := s.gutter(res.Styles, line)
		builder.WriteString(gutter)

		if lineHasKind(res.Styles, line, transform.StyleRule) {
			builder.WriteString(s.Rule.Render(strings.Repeat(ruleGlyph, max(width-gutterWidth, 1))))
		} else {
			builder.WriteString(s.renderLine(text, line, res.Styles, spans, sel))
		}
		builder.WriteByte('\n')

		if opts.ShowCaret && sel.Collapsed() && line.holds(sel.Start) {
			col := gutterWidth + displayWidth(text[line.start:sel.Start])
			builder.WriteString(strings.Repeat(" ", col) + s.Caret.Render(caretGlyph) + "\n")
		}
	}

	return builder.String()
}

// CaretColumn returns the 1-based display column of offset within its line.
func CaretColumn(text string, offset int) int {
	offset = min(max(offset, 0), len(text))
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	return displayWidth(text[lineStart:offset]) + 1
}

// gutter returns the quote bars for line and their display width.
func (s *Styles) gutter(styles []transform.StyleRange, line textLine) (string, int) {
	var builder strings.Builder
	bars := 0
	for _, st := range styles {
		if !st.Style.Paragraph || st.Start > line.start || line.start >= st.End {
			continue
		}
		switch st.Style.Kind {
		case transform.StyleQuote:
			builder.WriteString(s.QuoteBar.Render(quoteBarGlyph))
		case transform.StyleCallout:
			builder.WriteString(s.For(transform.StyleCallout).Render(quoteBarGlyph))
		default:
			continue
		}
		bars++
	}
	return builder.String(), bars * runewidth.StringWidth(quoteBarGlyph)
}

// renderLine styles the segments of a line. Each segment gets the styles
// covering it, innermost first, below any syntax colour.
func (s *Styles) renderLine(text string, line textLine, styles []transform.StyleRange, spans []syntaxSpan, sel mdast.Selection) string {
	cuts := []int{line.start, line.end}
	clip := func(offset int) int { return min(max(offset, line.start), line.end) }
	for _, st := range styles {
		if st.End <= line.start || st.Start >= line.end {
			continue
		}
		cuts = append(cuts, clip(st.Start), clip(st.End))
	}
	for _, sp := range spans {
		if sp.end <= line.start || sp.start >= line.end {
			continue
		}
		cuts = append(cuts, clip(sp.start), clip(sp.end))
	}
	if !sel.Collapsed() {
		cuts = append(cuts, clip(sel.Start), clip(sel.End))
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	var builder strings.Builder
	for i := 0; i+1 < len(cuts); i++ {
		from, to := cuts[i], cuts[i+1]
		style := s.segmentStyle(styles, spans, from, to, sel)
		builder.WriteString(style.Render(expandTabs(text[from:to])))
	}
	return builder.String()
}

func (s *Styles) segmentStyle(styles []transform.StyleRange, spans []syntaxSpan, from, to int, sel mdast.Selection) lipgloss.Style {
	var active []transform.StyleRange
	for _, st := range styles {
		if st.Start <= from && to <= st.End {
			active = append(active, st)
		}
	}
	slices.SortStableFunc(active, func(a, b transform.StyleRange) int {
		return a.Len() - b.Len()
	})

	style := lipgloss.NewStyle()
	if !sel.Collapsed() && sel.Start <= from && to <= sel.End {
		style = style.Inherit(s.Selection)
	}
	if syntax, ok := spanAt(spans, from, to); ok {
		style = style.Inherit(syntax)
	}
	for _, st := range active {
		style = style.Inherit(s.For(st.Style.Kind))
	}
	return style
}

func lineHasKind(styles []transform.StyleRange, line textLine, kind transform.StyleKind) bool {
	for _, st := range styles {
		if st.Style.Kind == kind && st.Start <= line.start && line.end <= st.End && line.start < line.end {
			return true
		}
	}
	return false
}

// splitTextLines splits text at "\n", "\r\n" and "\r". A trailing line
// terminator does not start a new line.
func splitTextLines(text string) []textLine {
	var lines []textLine
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, textLine{start: start, end: i})
			start = i + 1
		case '\r':
			lines = append(lines, textLine{start: start, end: i})
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, textLine{start: start, end: len(text)})
	}
	return lines
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}
