package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gomdlive/pkg/marker"
	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/offsetmap"
)

// Table formatting constants.
const (
	tablePadding   = 2
	minRangeWidth  = 9
	minTextWidth   = 12
	heavySeparator = "="
	lightSeparator = "-"
	ellipsis       = "..."
)

// column describes one table column. A flexible column shrinks when the
// table is wider than the terminal.
type column struct {
	title    string
	minWidth int
	flexible bool
}

// tableRow is a formatted row and the style it is rendered with.
type tableRow struct {
	cells []string
	style lipgloss.Style
}

// TableFormatter formats markers and tokens as styled tables.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FormatMarkerTable lists the markers applied to source: the original
// range, where it lands in the preview, the hidden text and its
// replacement.
func (t *TableFormatter) FormatMarkerTable(source string, markers []marker.Marker, mapper *offsetmap.Mapper) string {
	if len(markers) == 0 {
		return ""
	}

	columns := []column{
		{title: "RANGE", minWidth: minRangeWidth},
		{title: "PREVIEW", minWidth: len("PREVIEW")},
		{title: "SOURCE", minWidth: minTextWidth, flexible: true},
		{title: "SHOWN AS", minWidth: minTextWidth, flexible: true},
	}

	rows := make([]tableRow, 0, len(markers))
	var hidden, replaced int
	for _, m := range markers {
		style := t.styles.TableHidden
		shown := ""
		if m.Replacement != "" {
			style = t.styles.TableReplaced
			shown = strconv.Quote(m.Replacement)
			replaced++
		} else {
			hidden++
		}

		preview := "-"
		if mapper != nil {
			preview = strconv.Itoa(mapper.OriginalToTransformed(m.StartOffset))
		}

		rows = append(rows, tableRow{
			cells: []string{
				formatRange(m.StartOffset, m.EndOffset),
				preview,
				strconv.Quote(sliceText(source, m.StartOffset, m.EndOffset)),
				shown,
			},
			style: style,
		})
	}

	summary := fmt.Sprintf(" %d markers | %d hidden | %d replaced", len(markers), hidden, replaced)
	return t.render(columns, [][]tableRow{rows}, t.formatMarkerLegend(), summary)
}

// FormatTokenTable lists tokens, one row each. Lines are separated by a
// light rule.
func (t *TableFormatter) FormatTokenTable(source string, tokens []mdast.Token) string {
	if len(tokens) == 0 {
		return ""
	}

	columns := []column{
		{title: "KIND", minWidth: len("Whitespace")},
		{title: "RANGE", minWidth: minRangeWidth},
		{title: "TEXT", minWidth: minTextWidth, flexible: true},
	}

	var groups [][]tableRow
	var current []tableRow
	for _, tok := range tokens {
		current = append(current, tableRow{
			cells: []string{
				tok.Kind.String(),
				formatRange(tok.StartOffset, tok.EndOffset),
				strconv.Quote(tok.Text(source)),
			},
			style: lipgloss.NewStyle(),
		})
		if tok.Kind == mdast.TokNewline {
			groups = append(groups, current)
			current = nil
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	summary := fmt.Sprintf(" %d tokens | %d bytes", len(tokens), len(source))
	return t.render(columns, groups, "", summary)
}

// render lays out grouped rows under a header, followed by an optional
// legend and a summary line.
func (t *TableFormatter) render(columns []column, groups [][]tableRow, legend, summary string) string {
	widths := t.calculateColumnWidths(columns, groups)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(columns, widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")

	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.formatSeparator(widths, lightSeparator))
			builder.WriteString("\n")
		}
		for _, row := range group {
			builder.WriteString(t.formatRow(row, widths))
			builder.WriteString("\n")
		}
	}

	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")

	if legend != "" {
		builder.WriteString(legend)
		builder.WriteString("\n")
	}
	builder.WriteString(t.styles.Dim.Render(summary))
	builder.WriteString("\n")

	return builder.String()
}

// calculateColumnWidths determines column widths from content, then
// shrinks flexible columns to fit the terminal.
func (t *TableFormatter) calculateColumnWidths(columns []column, groups [][]tableRow) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = max(col.minWidth, runewidth.StringWidth(col.title))
	}

	for _, group := range groups {
		for _, row := range group {
			for i, cell := range row.cells {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	for i := len(columns) - 1; i >= 0; i-- {
		excess := totalWidth(widths) - t.termWidth
		if excess <= 0 {
			break
		}
		if columns[i].flexible {
			widths[i] = max(columns[i].minWidth, widths[i]-excess)
		}
	}

	return widths
}

func totalWidth(widths []int) int {
	total := 1
	for _, w := range widths {
		total += w + tablePadding
	}
	return total
}

// formatHeader formats the table header row.
func (t *TableFormatter) formatHeader(columns []column, widths []int) string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = col.title
	}
	return t.styles.TableHeader.Render(formatCells(cells, widths))
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(widths []int, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, totalWidth(widths)))
}

// formatRow formats a single table row with its style.
func (t *TableFormatter) formatRow(row tableRow, widths []int) string {
	cells := make([]string, len(row.cells))
	for i, cell := range row.cells {
		cells[i] = truncateString(cell, widths[i])
	}
	return row.style.Render(formatCells(cells, widths))
}

// formatMarkerLegend explains the marker row colors.
func (t *TableFormatter) formatMarkerLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: empty SHOWN AS = hidden")
	}

	hiddenSample := t.styles.TableHidden.Render("hidden")
	replacedSample := t.styles.TableReplaced.Render("replaced")
	return t.styles.TableLegend.Render(fmt.Sprintf(" Legend: %s  %s", hiddenSample, replacedSample))
}

// formatCells pads cells to their column widths.
func formatCells(cells []string, widths []int) string {
	var builder strings.Builder
	builder.WriteString(" ")
	for i, cell := range cells {
		builder.WriteString(cell)
		if i < len(cells)-1 {
			builder.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)+tablePadding))
		}
	}
	return builder.String()
}

func formatRange(start, end int) string {
	return fmt.Sprintf("%d-%d", start, end)
}

func sliceText(source string, start, end int) string {
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return source[start:end]
}

// truncateString truncates a string to maxWidth display columns, adding
// "..." if truncated.
func truncateString(str string, maxWidth int) string {
	if runewidth.StringWidth(str) <= maxWidth {
		return str
	}
	if maxWidth <= len(ellipsis) {
		return runewidth.Truncate(str, maxWidth, "")
	}
	return runewidth.Truncate(str, maxWidth, ellipsis)
}
