package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gomdlive/internal/ui/pretty"
	"github.com/yaklabco/gomdlive/pkg/diff"
)

// DiffReporter writes a unified line diff between source and preview.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(ctx context.Context, preview *Preview) (err error) {
	if err := checkPreview(ctx, preview); err != nil {
		return err
	}
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	d := diff.Compare(preview.Path, preview.Source, preview.Result.Text)
	if d == nil {
		fmt.Fprintln(r.bw, r.styles.Dim.Render("no differences"))
		return nil
	}

	fmt.Fprint(r.bw, r.styles.FormatDiff(d))
	return nil
}
