package pretty

import (
	"fmt"
	"strings"
)

// Severity levels of a diagnostic.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Diagnostic is a problem found in a note, such as frontmatter that does
// not decode.
type Diagnostic struct {
	Path     string
	Line     int
	Column   int
	Severity string
	Message  string
}

// FormatDiagnostic formats a single diagnostic for terminal output. When
// sourceLine is set it is printed below with a caret under the column.
func (s *Styles) FormatDiagnostic(diag Diagnostic, sourceLine string) string {
	var builder strings.Builder

	location := s.FilePath.Render(diag.Path)
	if diag.Line > 0 {
		location += fmt.Sprintf(":%d:%d", diag.Line, diag.Column)
	}

	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		diag.Message,
	))

	if sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.Column))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev string) string {
	switch sev {
	case SeverityError:
		return s.Failure.Render(sev)
	case SeverityWarning:
		return s.TableReplaced.Render(sev)
	case SeverityInfo:
		return s.DiffHunk.Render(sev)
	default:
		return sev
	}
}

// FormatSourceContext formats the source line with a caret marker under
// the 1-based display column.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "    "

	builder.WriteString(indent + expandTabs(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render(caretGlyph) + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header with an optional dimmed detail.
func (s *Styles) FormatFileHeader(path, detail string) string {
	header := s.FilePath.Render(path)
	if detail != "" {
		header += s.Dim.Render(" (" + detail + ")")
	}
	return header
}
