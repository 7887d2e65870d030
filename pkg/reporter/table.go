package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gomdlive/internal/ui/pretty"
)

// TableReporter lists the applied markers as a table.
type TableReporter struct {
	opts         Options
	styles       *pretty.Styles
	colorEnabled bool
	bw           *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TableReporter{
		opts:         opts,
		styles:       pretty.NewStyles(colorEnabled),
		colorEnabled: colorEnabled,
		bw:           bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(ctx context.Context, preview *Preview) (err error) {
	if err := checkPreview(ctx, preview); err != nil {
		return err
	}
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	res := preview.Result
	if len(res.Markers) == 0 {
		fmt.Fprintln(r.bw, r.styles.Dim.Render("no markers"))
	} else {
		width := r.opts.Width
		if width <= 0 {
			width = pretty.TerminalWidth(r.opts.Writer)
		}
		table := pretty.NewTableFormatter(r.styles, r.colorEnabled, width)
		fmt.Fprint(r.bw, table.FormatMarkerTable(preview.Source, res.Markers, res.Mapper))
	}

	caret := res.Selection.Start
	line, col := 0, 0
	if res.Document != nil && res.Mapper != nil {
		line, col = res.Document.LineAt(res.Mapper.TransformedToOriginal(caret))
	}
	fmt.Fprintf(r.bw, "caret %d:%d -> preview offset %d, column %d\n",
		line, col, caret, pretty.CaretColumn(res.Text, caret))

	return nil
}
