package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/transform"
)

const summaryDividerWidth = 40

// Stats describes one transform run.
type Stats struct {
	Path          string
	SourceBytes   int
	PreviewBytes  int
	Lines         int
	Nodes         int
	Markers       int
	HiddenMarkers int
	Styles        int
	CaretLine     int
	CaretColumn   int
	Elapsed       time.Duration
}

// NewStats collects the statistics of res.
func NewStats(path string, res *transform.Result, elapsed time.Duration) Stats {
	stats := Stats{Path: path, Elapsed: elapsed}
	if res == nil {
		return stats
	}

	stats.PreviewBytes = len(res.Text)
	stats.Markers = len(res.Markers)
	stats.Styles = len(res.Styles)
	for _, m := range res.Markers {
		if m.Replacement == "" {
			stats.HiddenMarkers++
		}
	}

	if doc := res.Document; doc != nil {
		stats.SourceBytes = len(doc.Content)
		stats.Lines = doc.LineCount()
		stats.Nodes = mdast.Count(doc.Root)
		if res.Mapper != nil {
			caret := res.Mapper.TransformedToOriginal(res.Selection.Start)
			stats.CaretLine, stats.CaretColumn = doc.LineAt(caret)
		}
	}

	return stats
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "42 nodes, 6 markers (4 hidden, 2 replaced), 9 styles, 120 → 104 bytes in 1ms".
func (s *Styles) FormatSummaryOneLine(stats Stats) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d nodes", stats.Nodes))

	if stats.Markers == 0 {
		parts = append(parts, s.Dim.Render("no markers"))
	} else {
		replaced := stats.Markers - stats.HiddenMarkers
		parts = append(parts, fmt.Sprintf("%d markers (%s, %s)", stats.Markers,
			s.TableHidden.Render(fmt.Sprintf("%d hidden", stats.HiddenMarkers)),
			s.TableReplaced.Render(fmt.Sprintf("%d replaced", replaced))))
	}

	parts = append(parts, fmt.Sprintf("%d styles", stats.Styles))

	line := strings.Join(parts, ", ") +
		fmt.Sprintf(", %d → %d bytes", stats.SourceBytes, stats.PreviewBytes)
	if stats.Elapsed > 0 {
		line += s.Dim.Render(" in " + stats.Elapsed.Round(time.Microsecond).String())
	}
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	title := "Summary"
	if stats.Path != "" {
		title += " " + s.FilePath.Render(stats.Path)
	}
	builder.WriteString(s.SummaryTitle.Render(title))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label string, value int) {
		builder.WriteString(fmt.Sprintf("  %-18s %s\n", label+":", s.SummaryValue.Render(strconv.Itoa(value))))
	}

	row("Source bytes", stats.SourceBytes)
	row("Preview bytes", stats.PreviewBytes)
	row("Lines", stats.Lines)
	row("Nodes", stats.Nodes)
	builder.WriteString("\n")

	row("Markers", stats.Markers)
	if stats.HiddenMarkers > 0 {
		builder.WriteString("    Hidden:          " +
			s.TableHidden.Render(strconv.Itoa(stats.HiddenMarkers)) + "\n")
	}
	if replaced := stats.Markers - stats.HiddenMarkers; replaced > 0 {
		builder.WriteString("    Replaced:        " +
			s.TableReplaced.Render(strconv.Itoa(replaced)) + "\n")
	}
	row("Styles", stats.Styles)

	if stats.CaretLine > 0 {
		builder.WriteString(fmt.Sprintf("  %-18s %s\n", "Caret:",
			s.SummaryValue.Render(fmt.Sprintf("%d:%d", stats.CaretLine, stats.CaretColumn))))
	}

	builder.WriteString("\n")
	if stats.Elapsed > 0 {
		builder.WriteString(s.Success.Render("Transformed in " + stats.Elapsed.Round(time.Microsecond).String()))
	} else {
		builder.WriteString(s.Success.Render("Transformed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
