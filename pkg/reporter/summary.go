package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gomdlive/internal/ui/pretty"
)

// SummaryReporter writes only the run statistics.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. Compact output is a single line.
func (r *SummaryReporter) Report(ctx context.Context, preview *Preview) (err error) {
	if err := checkPreview(ctx, preview); err != nil {
		return err
	}
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if r.opts.Compact {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(preview.Stats()))
	} else {
		fmt.Fprint(r.bw, r.styles.FormatSummary(preview.Stats()))
	}
	return nil
}
