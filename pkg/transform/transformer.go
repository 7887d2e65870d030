// Package transform turns a note and a cursor into the live-preview view of
// the note: the text with decoration markers hidden or replaced, style
// annotations over that text and an offset mapper between the two.
package transform

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdlive/pkg/config"
	"github.com/yaklabco/gomdlive/pkg/marker"
	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/offsetmap"
	"github.com/yaklabco/gomdlive/pkg/parser"
)

// State is the stage a Transformer reached on its last call.
type State uint8

const (
	// StateIdle means no text has been transformed yet.
	StateIdle State = iota

	// StateParsed means the tree for the current text is cached.
	StateParsed

	// StateAccumulated means styles and markers are computed.
	StateAccumulated

	// StateTransformed means the output is ready.
	StateTransformed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateParsed:
		return "parsed"
	case StateAccumulated:
		return "accumulated"
	case StateTransformed:
		return "transformed"
	default:
		return "unknown"
	}
}

// Result is the output of a transform.
type Result struct {
	// Text is the transformed text.
	Text string

	// Styles are the style annotations in transformed coordinates. Styles
	// over hidden text are dropped.
	Styles []StyleRange

	// Mapper translates offsets between the original and transformed text.
	Mapper *offsetmap.Mapper

	// Document is the parsed note.
	Document *mdast.Document

	// Markers are the applied markers in original coordinates.
	Markers []marker.Marker

	// Selection is the input selection in transformed coordinates.
	Selection mdast.Selection
}

// Transformer runs the parse, accumulate and transform pipeline. It caches
// the tree of the last text it parsed. A Transformer is not safe for
// concurrent use.
type Transformer struct {
	parser   *parser.Parser
	registry *Registry
	logger   *log.Logger

	state     State
	cacheText string
	cacheDoc  *mdast.Document
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithParser sets the parser.
func WithParser(p *parser.Parser) Option {
	return func(t *Transformer) {
		t.parser = p
	}
}

// WithRegistry sets the processor registry.
func WithRegistry(r *Registry) Option {
	return func(t *Transformer) {
		t.registry = r
	}
}

// WithLogger sets the logger for cache and timing messages.
func WithLogger(logger *log.Logger) Option {
	return func(t *Transformer) {
		t.logger = logger
	}
}

// WithConfig sets the parser dialect and the render settings from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(t *Transformer) {
		t.parser = parser.New(parser.WithDialect(cfg.Dialect))
		t.registry = NewRegistryFor(cfg.Render)
	}
}

// New creates a Transformer with the full dialect and default render
// settings unless options say otherwise.
func New(opts ...Option) *Transformer {
	t := &Transformer{
		parser:   parser.New(),
		registry: DefaultRegistry(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the stage reached by the last call.
func (t *Transformer) State() State {
	return t.state
}

// Parse returns the tree for text, reusing the cached tree when text is
// identical to the last parsed text.
func (t *Transformer) Parse(text string) *mdast.Document {
	if t.cacheDoc != nil && text == t.cacheText {
		t.logger.Debug("parse cache hit", "bytes", len(text))
		t.state = StateParsed
		return t.cacheDoc
	}

	start := time.Now()
	doc := t.parser.Parse(text)
	t.logger.Debug("parse cache miss", "bytes", len(text), "tokens", len(doc.Tokens), "elapsed", time.Since(start))

	t.cacheText = text
	t.cacheDoc = doc
	t.state = StateParsed
	return doc
}

// Transform parses text (or reuses the cached tree), collects styles and
// the markers hidden for sel, and builds the transformed text, its styles
// and the offset mapper. Errors are processor invariant violations.
func (t *Transformer) Transform(text string, sel mdast.Selection) (*Result, error) {
	sel = clampSelection(sel.Normalized(), len(text))
	doc := t.Parse(text)

	start := time.Now()
	acc, err := Accumulate(doc, t.registry, sel)
	if err != nil {
		t.state = StateIdle
		return nil, err
	}
	t.state = StateAccumulated

	mapper := offsetmap.New(acc.Markers, len(text))
	result := &Result{
		Text:      marker.Apply(text, acc.Markers),
		Styles:    remapStyles(acc.Styles, mapper),
		Mapper:    mapper,
		Document:  doc,
		Markers:   acc.Markers,
		Selection: mapper.MapSelection(sel),
	}
	t.state = StateTransformed

	t.logger.Debug("transformed",
		"markers", len(acc.Markers),
		"styles", len(result.Styles),
		"elapsed", time.Since(start))

	return result, nil
}

// Reset drops the cached tree.
func (t *Transformer) Reset() {
	t.cacheText = ""
	t.cacheDoc = nil
	t.state = StateIdle
}

// remapStyles maps styles into transformed coordinates and drops the ones
// that became empty.
func remapStyles(styles []StyleRange, m *offsetmap.Mapper) []StyleRange {
	out := make([]StyleRange, 0, len(styles))
	for _, s := range styles {
		start := m.OriginalToTransformed(s.Start)
		end := m.OriginalToTransformed(s.End)
		if start >= end {
			continue
		}
		out = append(out, StyleRange{Start: start, End: end, Style: s.Style})
	}
	return out
}

func clampSelection(sel mdast.Selection, n int) mdast.Selection {
	return mdast.Selection{
		Start: min(max(sel.Start, 0), n),
		End:   min(max(sel.End, 0), n),
	}
}

