package mdast

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// ContainsRange returns true if other lies entirely within this range.
func (r SourceRange) ContainsRange(other SourceRange) bool {
	return other.StartOffset >= r.StartOffset && other.EndOffset <= r.EndOffset
}

// Overlaps returns true if the two ranges share at least one byte.
func (r SourceRange) Overlaps(other SourceRange) bool {
	return r.StartOffset < other.EndOffset && other.StartOffset < r.EndOffset
}

// Selection is a cursor or selection range in original-text coordinates.
// A selection with Start == End is a collapsed caret.
type Selection struct {
	Start int
	End   int
}

// Caret returns a collapsed selection at offset.
func Caret(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// Collapsed returns true if the selection is a pure caret.
func (s Selection) Collapsed() bool {
	return s.Start == s.End
}

// Normalized returns the selection with Start <= End.
func (s Selection) Normalized() Selection {
	if s.Start > s.End {
		return Selection{Start: s.End, End: s.Start}
	}
	return s
}

// ContainsSelection returns true if the selection lies within the range.
// A collapsed caret is contained when the range contains its offset.
func (r SourceRange) ContainsSelection(sel Selection) bool {
	sel = sel.Normalized()
	if sel.Collapsed() {
		return r.Contains(sel.Start)
	}
	return sel.Start >= r.StartOffset && sel.End <= r.EndOffset
}

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}
