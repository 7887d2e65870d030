package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/reporter"
	"github.com/yaklabco/gomdlive/pkg/transform"
)

func newPreview(t *testing.T, text string, caret int) *reporter.Preview {
	t.Helper()

	res, err := transform.New().Transform(text, mdast.Caret(caret))
	require.NoError(t, err)
	return &reporter.Preview{Path: "note.md", Source: text, Result: res, Elapsed: time.Millisecond}
}

func report(t *testing.T, opts reporter.Options, preview *reporter.Preview) string {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"
	rep, err := reporter.New(opts)
	require.NoError(t, err)
	require.NoError(t, rep.Report(context.Background(), preview))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "plain", input: "plain", want: reporter.FormatPlain},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "case insensitive", input: "JSON", want: reporter.FormatJSON},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestFormats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text, plain, json, table, diff, summary", reporter.Formats())

	_, err := reporter.ParseFormat("sarif")
	require.Error(t, err)
	assert.Contains(t, err.Error(), reporter.Formats())
}

func TestNew_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: "xml"})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	preview := newPreview(t, "# Title\n**b**", 0)

	out := report(t, reporter.Options{Format: reporter.FormatText, Width: 40}, preview)
	assert.Equal(t, "# Title\nb\n", out)

	out = report(t, reporter.Options{Format: reporter.FormatText, Width: 40, ShowSummary: true}, preview)
	assert.Contains(t, out, "Summary note.md")
	assert.Contains(t, out, "Transformed in 1ms")
}

func TestPlainReporter(t *testing.T) {
	t.Parallel()

	out := report(t, reporter.Options{Format: reporter.FormatPlain}, newPreview(t, "a ==b== c", 0))
	assert.Equal(t, "a b c\n", out)

	out = report(t, reporter.Options{Format: reporter.FormatPlain}, newPreview(t, "", 0))
	assert.Empty(t, out)
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	preview := newPreview(t, "x **b**", 0)
	out := report(t, reporter.Options{Format: reporter.FormatJSON}, preview)

	var got reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "1.0.0", got.Version)
	assert.Equal(t, "note.md", got.Path)
	assert.Equal(t, "x b", got.Text)
	assert.Equal(t, reporter.JSONSelection{Start: 0, End: 0}, got.Selection)
	assert.Equal(t, reporter.JSONPosition{Line: 1, Column: 1}, got.Caret)
	assert.Equal(t, []reporter.JSONMarker{
		{StartOffset: 2, EndOffset: 4, Hidden: true},
		{StartOffset: 5, EndOffset: 7, Hidden: true},
	}, got.Markers)
	assert.Equal(t, 2, got.Summary.Hidden)
	assert.Equal(t, 0, got.Summary.Replaced)
	assert.Equal(t, int64(time.Millisecond), got.Summary.ElapsedNanos)

	var strong []reporter.JSONStyle
	for _, st := range got.Styles {
		if st.Kind == "strong" {
			strong = append(strong, st)
		}
	}
	require.Len(t, strong, 1)
	assert.Equal(t, 2, strong[0].Start)
	assert.Equal(t, 3, strong[0].End)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	out := report(t, reporter.Options{Format: reporter.FormatJSON, Compact: true}, newPreview(t, "a", 0))
	assert.NotContains(t, out, "\n  ")
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	out := report(t, reporter.Options{Format: reporter.FormatTable, Width: 80}, newPreview(t, "x **b**", 0))
	assert.Contains(t, out, "RANGE")
	assert.Contains(t, out, " 2 markers | 2 hidden | 0 replaced")
	assert.Contains(t, out, "caret 1:1 -> preview offset 0, column 1\n")

	out = report(t, reporter.Options{Format: reporter.FormatTable}, newPreview(t, "plain", 0))
	assert.Contains(t, out, "no markers\n")
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	out := report(t, reporter.Options{Format: reporter.FormatDiff}, newPreview(t, "# T\nbody\n", 9))
	assert.Contains(t, out, "--- a/note.md (source)\n")
	assert.Contains(t, out, "-# T\n")

	out = report(t, reporter.Options{Format: reporter.FormatDiff}, newPreview(t, "body\n", 0))
	assert.Equal(t, "no differences\n", out)
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	text := "**b**"
	preview := newPreview(t, text, len(text))

	out := report(t, reporter.Options{Format: reporter.FormatSummary, Compact: true}, preview)
	assert.Contains(t, out, "2 markers (2 hidden, 0 replaced)")
	assert.Contains(t, out, "5 → 1 bytes in 1ms\n")

	out = report(t, reporter.Options{Format: reporter.FormatSummary}, preview)
	assert.Contains(t, out, "Summary note.md")
}

func TestReport_Errors(t *testing.T) {
	t.Parallel()

	rep, err := reporter.New(reporter.Options{Format: reporter.FormatPlain, Writer: &bytes.Buffer{}})
	require.NoError(t, err)

	require.Error(t, rep.Report(context.Background(), nil))
	require.Error(t, rep.Report(context.Background(), &reporter.Preview{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, rep.Report(ctx, newPreview(t, "a", 0)), context.Canceled)
}
