package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gomdlive/internal/ui/pretty"
)

// TextReporter writes the styled preview.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, preview *Preview) (err error) {
	if err := checkPreview(ctx, preview); err != nil {
		return err
	}
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	width := r.opts.Width
	if width <= 0 {
		width = pretty.TerminalWidth(r.opts.Writer)
	}

	fmt.Fprint(r.bw, r.styles.RenderPreview(preview.Result, pretty.PreviewOptions{
		Width:     width,
		ShowCaret: r.opts.ShowCaret,
	}))

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummary(preview.Stats()))
	}

	return nil
}

// PlainReporter writes the transformed text without styling.
type PlainReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewPlainReporter creates a new plain text reporter.
func NewPlainReporter(opts Options) *PlainReporter {
	return &PlainReporter{
		opts:   opts,
		styles: pretty.NewStyles(false),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. A missing final newline is added.
func (r *PlainReporter) Report(ctx context.Context, preview *Preview) (err error) {
	if err := checkPreview(ctx, preview); err != nil {
		return err
	}
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	text := preview.Result.Text
	fmt.Fprint(r.bw, text)
	if text != "" && text[len(text)-1] != '\n' {
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummary(preview.Stats()))
	}

	return nil
}
