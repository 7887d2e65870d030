package marker

import (
	"fmt"
	"sort"
)

// ValidationError describes a marker with an invalid range.
type ValidationError struct {
	Marker  Marker
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid marker [%d:%d]: %s", e.Marker.StartOffset, e.Marker.EndOffset, e.Message)
}

// ConflictError describes overlapping markers.
type ConflictError struct {
	Marker1 Marker
	Marker2 Marker
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping markers: [%d:%d] and [%d:%d]",
		e.Marker1.StartOffset, e.Marker1.EndOffset,
		e.Marker2.StartOffset, e.Marker2.EndOffset)
}

// Validate checks that all markers have valid ranges for a text of length textLen.
// Returns nil if all markers are valid, or the first validation error encountered.
func Validate(markers []Marker, textLen int) error {
	for _, m := range markers {
		if m.StartOffset < 0 {
			return &ValidationError{Marker: m, Message: "start offset is negative"}
		}
		if m.EndOffset < m.StartOffset {
			return &ValidationError{Marker: m, Message: "end offset is before start offset"}
		}
		if m.EndOffset > textLen {
			return &ValidationError{
				Marker:  m,
				Message: fmt.Sprintf("end offset %d exceeds text length %d", m.EndOffset, textLen),
			}
		}
	}
	return nil
}

// Sort stable-sorts markers by start offset. Markers starting at the same
// offset keep their emission order.
func Sort(markers []Marker) {
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].StartOffset < markers[j].StartOffset
	})
}

// DetectConflicts checks for overlapping markers in a sorted slice.
// Returns nil if no conflicts, or the first conflict found.
// Markers must be sorted by Sort before calling.
func DetectConflicts(markers []Marker) error {
	for i := 1; i < len(markers); i++ {
		prev := markers[i-1]
		curr := markers[i]
		if curr.StartOffset < prev.EndOffset {
			return &ConflictError{Marker1: prev, Marker2: curr}
		}
	}
	return nil
}

// Prepare validates, sorts, and checks for conflicts.
// Returns a sorted copy of the markers and any error encountered.
func Prepare(markers []Marker, textLen int) ([]Marker, error) {
	if len(markers) == 0 {
		return nil, nil
	}

	if err := Validate(markers, textLen); err != nil {
		return nil, err
	}

	result := make([]Marker, len(markers))
	copy(result, markers)
	Sort(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}

	return result, nil
}
