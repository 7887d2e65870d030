package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the output buffer of every reporter.
const bufWriterSize = 64 * 1024

// Options configures a reporter.
type Options struct {
	Writer io.Writer
	Format Format

	// Color is "auto", "always" or "never".
	Color string

	// Width of rules and tables in columns. Zero asks the terminal behind
	// Writer.
	Width int

	// ShowCaret draws the caret line under a text preview.
	ShowCaret bool

	// ShowSummary appends statistics to text and plain output.
	ShowSummary bool

	// Compact prints JSON on one line.
	Compact bool
}

// DefaultOptions returns a coloured-when-possible text reporter on stdout
// that shows the caret.
func DefaultOptions() Options {
	return Options{
		Writer:    os.Stdout,
		Format:    FormatText,
		Color:     "auto",
		ShowCaret: true,
	}
}

// withDefaults fills the fields left zero that have no useful zero value.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Writer == nil {
		o.Writer = def.Writer
	}
	if o.Format == "" {
		o.Format = def.Format
	}
	if o.Color == "" {
		o.Color = def.Color
	}
	return o
}
