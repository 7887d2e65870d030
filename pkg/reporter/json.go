package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
)

// jsonSchemaVersion is the version of the JSON output layout.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version   string        `json:"version"`
	Path      string        `json:"path"`
	Text      string        `json:"text"`
	Selection JSONSelection `json:"selection"`
	Caret     JSONPosition  `json:"caret"`
	Markers   []JSONMarker  `json:"markers"`
	Styles    []JSONStyle   `json:"styles"`
	Summary   JSONSummary   `json:"summary"`
}

// JSONSelection is a selection in transformed coordinates.
type JSONSelection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// JSONPosition is a 1-based line and byte column in the source.
type JSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// JSONMarker is an applied marker in source coordinates.
type JSONMarker struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	Replacement string `json:"replacement,omitempty"`
	Hidden      bool   `json:"hidden"`
}

// JSONStyle is a style range in transformed coordinates.
type JSONStyle struct {
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Kind       string `json:"kind"`
	Level      int    `json:"level,omitempty"`
	Annotation string `json:"annotation,omitempty"`
	Language   string `json:"language,omitempty"`
	Indent     int    `json:"indent,omitempty"`
	Paragraph  bool   `json:"paragraph,omitempty"`
	Checked    bool   `json:"checked,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	SourceBytes  int   `json:"sourceBytes"`
	PreviewBytes int   `json:"previewBytes"`
	Lines        int   `json:"lines"`
	Nodes        int   `json:"nodes"`
	Markers      int   `json:"markers"`
	Hidden       int   `json:"hidden"`
	Replaced     int   `json:"replaced"`
	Styles       int   `json:"styles"`
	ElapsedNanos int64 `json:"elapsedNanos"`
}

// JSONReporter formats previews as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(ctx context.Context, preview *Preview) (err error) {
	if err := checkPreview(ctx, preview); err != nil {
		return err
	}
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(buildOutput(preview)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	return nil
}

func buildOutput(preview *Preview) *JSONOutput {
	res := preview.Result
	stats := preview.Stats()

	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Path:    preview.Path,
		Text:    res.Text,
		Selection: JSONSelection{
			Start: res.Selection.Start,
			End:   res.Selection.End,
		},
		Caret:   JSONPosition{Line: stats.CaretLine, Column: stats.CaretColumn},
		Markers: make([]JSONMarker, 0, len(res.Markers)),
		Styles:  make([]JSONStyle, 0, len(res.Styles)),
		Summary: JSONSummary{
			SourceBytes:  stats.SourceBytes,
			PreviewBytes: stats.PreviewBytes,
			Lines:        stats.Lines,
			Nodes:        stats.Nodes,
			Markers:      stats.Markers,
			Hidden:       stats.HiddenMarkers,
			Replaced:     stats.Markers - stats.HiddenMarkers,
			Styles:       stats.Styles,
			ElapsedNanos: stats.Elapsed.Nanoseconds(),
		},
	}

	for _, m := range res.Markers {
		output.Markers = append(output.Markers, JSONMarker{
			StartOffset: m.StartOffset,
			EndOffset:   m.EndOffset,
			Replacement: m.Replacement,
			Hidden:      m.Replacement == "",
		})
	}

	for _, st := range res.Styles {
		output.Styles = append(output.Styles, JSONStyle{
			Start:      st.Start,
			End:        st.End,
			Kind:       st.Style.Kind.String(),
			Level:      st.Style.Level,
			Annotation: st.Style.Annotation,
			Language:   st.Style.Language,
			Indent:     st.Style.Indent,
			Paragraph:  st.Style.Paragraph,
			Checked:    st.Style.Checked,
		})
	}

	return output
}
