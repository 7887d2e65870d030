package offsetmap_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdlive/pkg/marker"
	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/offsetmap"
)

// mapAll maps every offset in [0, n] with fn.
func mapAll(n int, fn func(int) int) []int {
	out := make([]int, n+1)
	for i := range out {
		out[i] = fn(i)
	}
	return out
}

func TestMapper(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		markers []marker.Marker
		wantO2T []int
		wantT2O []int
	}{
		{
			name:    "no markers is identity",
			text:    "abc",
			wantO2T: []int{0, 1, 2, 3},
			wantT2O: []int{0, 1, 2, 3},
		},
		{
			name: "bold delimiters",
			text: "**bold**",
			markers: []marker.Marker{
				{StartOffset: 0, EndOffset: 2},
				{StartOffset: 6, EndOffset: 8},
			},
			wantO2T: []int{0, 0, 0, 1, 2, 3, 4, 4, 4},
			wantT2O: []int{2, 3, 4, 5, 8},
		},
		{
			name: "heading prefix",
			text: "# Hi",
			markers: []marker.Marker{
				{StartOffset: 0, EndOffset: 2},
			},
			wantO2T: []int{0, 0, 0, 1, 2},
			wantT2O: []int{2, 3, 4},
		},
		{
			name: "replacement longer than marker",
			text: "- a",
			markers: []marker.Marker{
				{StartOffset: 0, EndOffset: 1, Replacement: "•"},
			},
			// "•" is three bytes.
			wantO2T: []int{0, 3, 4, 5},
			wantT2O: []int{0, 0, 0, 1, 2, 3},
		},
		{
			name: "replacement shorter than marker",
			text: "> [!note] x",
			markers: []marker.Marker{
				{StartOffset: 0, EndOffset: 9, Replacement: "N"},
			},
			wantO2T: []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3},
			wantT2O: []int{0, 9, 10, 11},
		},
		{
			name: "insertion",
			text: "ab",
			markers: []marker.Marker{
				{StartOffset: 1, EndOffset: 1, Replacement: "X"},
			},
			wantO2T: []int{0, 2, 3},
			wantT2O: []int{0, 1, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			markers, err := marker.Prepare(tt.markers, len(tt.text))
			require.NoError(t, err)

			m := offsetmap.New(markers, len(tt.text))
			transformed := marker.Apply(tt.text, markers)
			require.Equal(t, len(transformed), m.TransformedLen())

			if diff := cmp.Diff(tt.wantO2T, mapAll(len(tt.text), m.OriginalToTransformed)); diff != "" {
				t.Errorf("OriginalToTransformed mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantT2O, mapAll(m.TransformedLen(), m.TransformedToOriginal)); diff != "" {
				t.Errorf("TransformedToOriginal mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapperClamps(t *testing.T) {
	t.Parallel()

	m := offsetmap.New([]marker.Marker{{StartOffset: 0, EndOffset: 2}}, 8)

	assert.Equal(t, 0, m.OriginalToTransformed(-5))
	assert.Equal(t, 6, m.OriginalToTransformed(100))
	assert.Equal(t, 2, m.TransformedToOriginal(-1))
	assert.Equal(t, 8, m.TransformedToOriginal(100))
}

func TestMapperIdentity(t *testing.T) {
	t.Parallel()

	m := offsetmap.Identity(5)
	assert.Equal(t, 5, m.TransformedLen())
	assert.Equal(t, 5, m.OriginalLen())
	assert.Empty(t, m.Markers())
	for i := 0; i <= 5; i++ {
		assert.Equal(t, i, m.OriginalToTransformed(i))
		assert.Equal(t, i, m.TransformedToOriginal(i))
	}
}

func TestMapRange(t *testing.T) {
	t.Parallel()

	// "a **b** c" with the bold delimiters hidden.
	m := offsetmap.New([]marker.Marker{
		{StartOffset: 2, EndOffset: 4},
		{StartOffset: 5, EndOffset: 7},
	}, 9)

	got := m.MapRange(mdast.SourceRange{StartOffset: 2, EndOffset: 7})
	assert.Equal(t, mdast.SourceRange{StartOffset: 2, EndOffset: 3}, got)

	sel := m.MapSelection(mdast.Selection{Start: 8, End: 9})
	assert.Equal(t, mdast.Selection{Start: 4, End: 5}, sel)
}

func TestMapperElidedMarkerStart(t *testing.T) {
	t.Parallel()

	// "**bold**" with both delimiters hidden.
	m := offsetmap.New([]marker.Marker{
		{StartOffset: 0, EndOffset: 2},
		{StartOffset: 6, EndOffset: 8},
	}, 8)

	assert.Equal(t, 0, m.OriginalToTransformed(0))
	assert.Equal(t, 2, m.TransformedToOriginal(m.OriginalToTransformed(0)))
	assert.Equal(t, 2, m.TransformedToOriginal(m.OriginalToTransformed(2)))
	assert.Equal(t, 8, m.TransformedToOriginal(m.OriginalToTransformed(8)))
	assert.Equal(t, 4, m.TransformedToOriginal(m.OriginalToTransformed(4)))
}

func TestMapperDoesNotAliasInput(t *testing.T) {
	t.Parallel()

	in := []marker.Marker{{StartOffset: 0, EndOffset: 2}}
	m := offsetmap.New(in, 4)
	in[0].EndOffset = 4

	assert.Equal(t, 2, m.TransformedLen())
}

// interior reports whether o is inside a marker in the sense where a round
// trip is not expected to restore it.
func interior(markers []marker.Marker, o int) bool {
	for _, mk := range markers {
		if mk.StartOffset < o && o < mk.EndOffset {
			return true
		}
		if mk.StartOffset == o && mk.Len() > 0 && mk.Replacement == "" {
			return true
		}
	}
	return false
}

// kept reports whether the byte at o survives the transform unchanged.
func kept(markers []marker.Marker, o int) bool {
	for _, mk := range markers {
		if mk.StartOffset <= o && o < mk.EndOffset {
			return false
		}
	}
	return true
}

func checkMapperProperties(t *testing.T, text string, markers []marker.Marker) {
	t.Helper()

	m := offsetmap.New(markers, len(text))
	transformed := marker.Apply(text, markers)
	if len(transformed) != m.TransformedLen() {
		t.Fatalf("TransformedLen = %d, want %d", m.TransformedLen(), len(transformed))
	}

	prev := 0
	for o := 0; o <= len(text); o++ {
		got := m.OriginalToTransformed(o)
		if got < prev {
			t.Fatalf("OriginalToTransformed not monotonic at %d: %d < %d", o, got, prev)
		}
		if got < 0 || got > m.TransformedLen() {
			t.Fatalf("OriginalToTransformed(%d) = %d out of range", o, got)
		}
		prev = got

		if !interior(markers, o) {
			if back := m.TransformedToOriginal(got); back != o {
				t.Fatalf("round trip %d -> %d -> %d", o, got, back)
			}
		}
		if o < len(text) && kept(markers, o) && transformed[got] != text[o] {
			t.Fatalf("byte %d (%q) maps to %d (%q)", o, text[o], got, transformed[got])
		}
	}

	prev = 0
	for tOff := 0; tOff <= m.TransformedLen(); tOff++ {
		got := m.TransformedToOriginal(tOff)
		if got < prev {
			t.Fatalf("TransformedToOriginal not monotonic at %d: %d < %d", tOff, got, prev)
		}
		if got < 0 || got > len(text) {
			t.Fatalf("TransformedToOriginal(%d) = %d out of range", tOff, got)
		}
		prev = got
	}
}

func TestMapperProperties(t *testing.T) {
	t.Parallel()

	text := "# Title with **bold** and [[link|alias]] ^id"
	markers, err := marker.Prepare([]marker.Marker{
		{StartOffset: 0, EndOffset: 2},
		{StartOffset: 13, EndOffset: 15},
		{StartOffset: 19, EndOffset: 21},
		{StartOffset: 26, EndOffset: 33},
		{StartOffset: 38, EndOffset: 40},
		{StartOffset: 40, EndOffset: 40, Replacement: "+"},
		{StartOffset: 41, EndOffset: 44, Replacement: "•"},
	}, len(text))
	require.NoError(t, err)

	checkMapperProperties(t, text, markers)
}

// markersFrom derives a valid, sorted marker set from arbitrary bytes.
func markersFrom(plan []byte, n int) []marker.Marker {
	var markers []marker.Marker
	cursor := 0
	for i := 0; i+2 < len(plan); i += 3 {
		start := cursor + int(plan[i]%4)
		end := start + int(plan[i+1]%4)
		if end > n {
			break
		}
		repl := ""
		for j := 0; j < int(plan[i+2]%3); j++ {
			repl += "x"
		}
		if start == end && repl == "" {
			continue
		}
		markers = append(markers, marker.Marker{StartOffset: start, EndOffset: end, Replacement: repl})
		cursor = end
	}
	return markers
}

func FuzzMapper(f *testing.F) {
	f.Add("**bold**", []byte{0, 2, 0, 4, 2, 0})
	f.Add("- item", []byte{0, 1, 1})
	f.Add("ab", []byte{1, 0, 2})
	f.Add("", []byte{})

	f.Fuzz(func(t *testing.T, text string, plan []byte) {
		markers, err := marker.Prepare(markersFrom(plan, len(text)), len(text))
		if err != nil {
			t.Fatalf("generated markers rejected: %v", err)
		}
		checkMapperProperties(t, text, markers)
	})
}
