// Package reporter writes transform results in the supported output
// formats.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/gomdlive/internal/ui/pretty"
	"github.com/yaklabco/gomdlive/pkg/transform"
)

// Preview is one transformed note.
type Preview struct {
	// Path is the note path, or "<stdin>".
	Path string

	// Source is the original note text.
	Source string

	// Result is the transform output.
	Result *transform.Result

	// Elapsed is how long the transform took.
	Elapsed time.Duration
}

// Stats returns the statistics of the preview.
func (p *Preview) Stats() pretty.Stats {
	return pretty.NewStats(p.Path, p.Result, p.Elapsed)
}

// Reporter formats and writes previews.
type Reporter interface {
	// Report writes formatted output for the given preview.
	Report(ctx context.Context, preview *Preview) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var constructors = map[Format]func(Options) Reporter{
	FormatText:    func(o Options) Reporter { return NewTextReporter(o) },
	FormatPlain:   func(o Options) Reporter { return NewPlainReporter(o) },
	FormatJSON:    func(o Options) Reporter { return NewJSONReporter(o) },
	FormatTable:   func(o Options) Reporter { return NewTableReporter(o) },
	FormatDiff:    func(o Options) Reporter { return NewDiffReporter(o) },
	FormatSummary: func(o Options) Reporter { return NewSummaryReporter(o) },
}

// New returns the reporter for opts.Format, text when unset.
//
//nolint:ireturn // Reporter is the package's own interface.
func New(opts Options) (Reporter, error) {
	opts = opts.withDefaults()
	newReporter, ok := constructors[opts.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	return newReporter(opts), nil
}

// checkPreview rejects previews without a result.
func checkPreview(ctx context.Context, preview *Preview) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("report cancelled: %w", err)
	}
	if preview == nil || preview.Result == nil {
		return errors.New("report: no transform result")
	}
	return nil
}
