// Package marker provides decoration markers and the logic that removes or
// replaces them to build the transformed text of a note.
package marker

import "github.com/yaklabco/gomdlive/pkg/mdast"

// Marker is a byte range of the original text that is decoration: it is
// elided from the transformed text, or replaced by Replacement.
type Marker struct {
	// StartOffset is the byte index where the marker begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the marker ends (exclusive).
	EndOffset int

	// Replacement is the text shown instead of the marker. Empty elides it.
	Replacement string
}

// Len returns the length of the marked range in the original text.
func (m Marker) Len() int {
	return m.EndOffset - m.StartOffset
}

// Removed returns how many bytes the marker removes from the text. It is
// negative when the replacement is longer than the marked range.
func (m Marker) Removed() int {
	return m.Len() - len(m.Replacement)
}

// Range returns the marked range.
func (m Marker) Range() mdast.SourceRange {
	return mdast.SourceRange{StartOffset: m.StartOffset, EndOffset: m.EndOffset}
}

// Builder accumulates markers for one node.
type Builder struct {
	Markers []Marker
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		Markers: make([]Marker, 0),
	}
}

// Hide adds a marker that elides bytes [start, end). Empty ranges are ignored.
func (b *Builder) Hide(start, end int) {
	if start >= end {
		return
	}
	b.Markers = append(b.Markers, Marker{StartOffset: start, EndOffset: end})
}

// HideRange adds a marker that elides r.
func (b *Builder) HideRange(r mdast.SourceRange) {
	b.Hide(r.StartOffset, r.EndOffset)
}

// Replace adds a marker that shows text instead of bytes [start, end).
func (b *Builder) Replace(start, end int, text string) {
	if start > end || (start == end && text == "") {
		return
	}
	b.Markers = append(b.Markers, Marker{StartOffset: start, EndOffset: end, Replacement: text})
}
