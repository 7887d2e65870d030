package marker

import "strings"

// Apply removes or replaces a sorted, validated slice of markers in text.
// Markers must be prepared with Prepare before calling.
// Returns the transformed text.
func Apply(text string, markers []Marker) string {
	if len(markers) == 0 {
		return text
	}

	delta := 0
	for _, m := range markers {
		delta -= m.Removed()
	}

	var out strings.Builder
	out.Grow(len(text) + delta)

	cursor := 0
	for _, m := range markers {
		out.WriteString(text[cursor:m.StartOffset])
		out.WriteString(m.Replacement)
		cursor = m.EndOffset
	}
	out.WriteString(text[cursor:])

	return out.String()
}
