// Package pretty provides styled terminal output for gomdlive previews.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/gomdlive/pkg/transform"
)

// Styles contains all Lipgloss styles for terminal output.
type Styles struct {
	// Preview text, indexed by style kind.
	kinds map[transform.StyleKind]lipgloss.Style

	// syntax enables code block highlighting.
	syntax bool

	// Preview decorations
	Caret     lipgloss.Style
	Selection lipgloss.Style
	QuoteBar  lipgloss.Style
	Rule      lipgloss.Style

	// Diff styles
	DiffAdd    lipgloss.Style
	DiffRemove lipgloss.Style
	DiffHeader lipgloss.Style
	DiffHunk   lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style
	TableHidden    lipgloss.Style
	TableReplaced  lipgloss.Style
	TableLegend    lipgloss.Style

	// Misc
	Bold     lipgloss.Style
	Dim      lipgloss.Style
	FilePath lipgloss.Style
}

// NewStyles creates styles based on color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

func newColorStyles() *Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &Styles{
		kinds: map[transform.StyleKind]lipgloss.Style{
			transform.StyleStrong:       lipgloss.NewStyle().Bold(true),
			transform.StyleEmphasis:     lipgloss.NewStyle().Italic(true),
			transform.StyleStrike:       lipgloss.NewStyle().Strikethrough(true),
			transform.StyleHighlight:    lipgloss.NewStyle().Background(lipgloss.Color("11")).Foreground(lipgloss.Color("0")),
			transform.StyleCode:         fg("14"),
			transform.StyleCodeBlock:    fg("14"),
			transform.StyleHeading:      fg("12").Bold(true),
			transform.StyleQuote:        fg("7").Italic(true),
			transform.StyleCallout:      fg("13"),
			transform.StyleListBullet:   fg("11"),
			transform.StyleTask:         fg("10"),
			transform.StyleLink:         fg("12").Underline(true),
			transform.StyleInternalLink: fg("13").Underline(true),
			transform.StyleEmbed:        fg("13"),
			transform.StyleImage:        fg("13"),
			transform.StyleHashtag:      fg("10"),
			transform.StyleComment:      fg("8"),
			transform.StyleFootnote:     fg("6"),
			transform.StyleBlockID:      fg("8"),
			transform.StyleMath:         fg("5"),
			transform.StyleRule:         fg("8"),
			transform.StyleFrontmatter:  fg("8"),
			transform.StyleMarker:       fg("8"),
		},
		syntax: true,

		Caret:     fg("9").Bold(true),
		Selection: lipgloss.NewStyle().Reverse(true),
		QuoteBar:  fg("8"),
		Rule:      fg("8"),

		DiffAdd:    fg("10"),
		DiffRemove: fg("9"),
		DiffHeader: lipgloss.NewStyle().Bold(true),
		DiffHunk:   fg("14"),

		SummaryTitle: lipgloss.NewStyle().Bold(true).Underline(true),
		SummaryValue: lipgloss.NewStyle().Bold(true),
		Success:      fg("10"),
		Failure:      fg("9").Bold(true),

		TableHeader:    lipgloss.NewStyle().Bold(true),
		TableSeparator: fg("8"),
		TableHidden:    fg("9"),
		TableReplaced:  fg("11"),
		TableLegend:    fg("8"),

		Bold:     lipgloss.NewStyle().Bold(true),
		Dim:      fg("8"),
		FilePath: fg("12").Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		kinds: map[transform.StyleKind]lipgloss.Style{},

		Caret:     plain,
		Selection: plain,
		QuoteBar:  plain,
		Rule:      plain,

		DiffAdd:    plain,
		DiffRemove: plain,
		DiffHeader: plain,
		DiffHunk:   plain,

		SummaryTitle: plain,
		SummaryValue: plain,
		Success:      plain,
		Failure:      plain,

		TableHeader:    plain,
		TableSeparator: plain,
		TableHidden:    plain,
		TableReplaced:  plain,
		TableLegend:    plain,

		Bold:     plain,
		Dim:      plain,
		FilePath: plain,
	}
}

// For returns the preview style of a style kind. Kinds without a visual
// treatment get the zero style.
func (s *Styles) For(kind transform.StyleKind) lipgloss.Style {
	if st, ok := s.kinds[kind]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// IsColorEnabled determines if color output should be enabled.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
