// Package offsetmap translates offsets between a note's original text and
// its transformed text, where decoration markers have been elided or
// replaced.
package offsetmap

import (
	"sort"

	"github.com/yaklabco/gomdlive/pkg/marker"
	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// Mapper maps offsets between original and transformed coordinates.
// A Mapper is immutable and safe for concurrent use.
//
// Offsets inside a marker collapse to the marker's transformed start.
// Mapping a transformed offset back returns the offset after any elided
// decoration at that position, or the start of a marker whose replacement
// text contains it. Round trips are exact for every original offset outside
// markers and at marker ends; the start of a replacing marker round-trips
// too. The start of an elided marker does not: it maps to the same
// transformed offset as the marker's end and comes back as the end. For
// "**bold**" offset 0 maps to 0 and back to 2.
type Mapper struct {
	markers     []marker.Marker
	originalLen int

	// removedBefore[k] is the number of bytes removed by markers[:k].
	removedBefore []int

	// transformedStart[k] and transformedEnd[k] bound the replacement of
	// markers[k] in transformed coordinates.
	transformedStart []int
	transformedEnd   []int
}

// New builds a mapper from markers sorted by start offset and free of
// overlaps (see marker.Prepare) for an original text of length originalLen.
func New(markers []marker.Marker, originalLen int) *Mapper {
	m := &Mapper{
		markers:          append([]marker.Marker(nil), markers...),
		originalLen:      originalLen,
		removedBefore:    make([]int, len(markers)+1),
		transformedStart: make([]int, len(markers)),
		transformedEnd:   make([]int, len(markers)),
	}

	for k, mk := range m.markers {
		m.transformedStart[k] = mk.StartOffset - m.removedBefore[k]
		m.transformedEnd[k] = m.transformedStart[k] + len(mk.Replacement)
		m.removedBefore[k+1] = m.removedBefore[k] + mk.Removed()
	}

	return m
}

// Identity returns a mapper for a text without markers.
func Identity(originalLen int) *Mapper {
	return New(nil, originalLen)
}

// OriginalLen returns the length of the original text.
func (m *Mapper) OriginalLen() int {
	return m.originalLen
}

// TransformedLen returns the length of the transformed text.
func (m *Mapper) TransformedLen() int {
	return m.originalLen - m.removedBefore[len(m.markers)]
}

// Markers returns the markers the mapper was built from.
func (m *Mapper) Markers() []marker.Marker {
	return m.markers
}

// OriginalToTransformed maps an original offset to transformed coordinates.
// Offsets outside [0, OriginalLen] are clamped first.
func (m *Mapper) OriginalToTransformed(offset int) int {
	offset = clamp(offset, m.originalLen)

	// First marker that does not end at or before offset.
	k := sort.Search(len(m.markers), func(i int) bool {
		return m.markers[i].EndOffset > offset
	})
	if k < len(m.markers) && m.markers[k].StartOffset <= offset {
		return m.transformedStart[k]
	}

	return offset - m.removedBefore[k]
}

// TransformedToOriginal maps a transformed offset back to original
// coordinates. Offsets outside [0, TransformedLen] are clamped first.
func (m *Mapper) TransformedToOriginal(offset int) int {
	offset = clamp(offset, m.TransformedLen())

	// First marker whose replacement ends after offset.
	k := sort.Search(len(m.markers), func(i int) bool {
		return m.transformedEnd[i] > offset
	})
	if k < len(m.markers) && m.transformedStart[k] <= offset {
		return m.markers[k].StartOffset
	}

	return clamp(offset+m.removedBefore[k], m.originalLen)
}

// MapRange maps an original range to transformed coordinates.
func (m *Mapper) MapRange(r mdast.SourceRange) mdast.SourceRange {
	return mdast.SourceRange{
		StartOffset: m.OriginalToTransformed(r.StartOffset),
		EndOffset:   m.OriginalToTransformed(r.EndOffset),
	}
}

// MapSelection maps an original selection to transformed coordinates.
func (m *Mapper) MapSelection(sel mdast.Selection) mdast.Selection {
	return mdast.Selection{
		Start: m.OriginalToTransformed(sel.Start),
		End:   m.OriginalToTransformed(sel.End),
	}
}

func clamp(offset, limit int) int {
	if offset < 0 {
		return 0
	}
	if offset > limit {
		return limit
	}
	return offset
}
