package marker_test

import (
	"testing"

	"github.com/yaklabco/gomdlive/pkg/marker"
)

func FuzzApply(f *testing.F) {
	f.Add("**bold**", 0, 2, 6, 8, "")
	f.Add("# Title", 0, 2, 2, 2, "")
	f.Add("- item", 0, 1, 1, 2, "•")
	f.Add("", 0, 0, 0, 0, "")

	f.Fuzz(func(t *testing.T, text string, s1, e1, s2, e2 int, repl string) {
		markers, err := marker.Prepare([]marker.Marker{
			{StartOffset: s1, EndOffset: e1},
			{StartOffset: s2, EndOffset: e2, Replacement: repl},
		}, len(text))
		if err != nil {
			return
		}

		removed := 0
		for _, m := range markers {
			removed += m.Removed()
		}

		got := marker.Apply(text, markers)
		if len(got) != len(text)-removed {
			t.Fatalf("len = %d, want %d", len(got), len(text)-removed)
		}
	})
}
