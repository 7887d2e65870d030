package mdast

import (
	"slices"
	"strings"
)

// BuildLines indexes the lines of content. A trailing newline opens a
// final empty line so that a caret after it has a line of its own. CRLF
// endings count as one newline.
func BuildLines(content string) []LineInfo {
	if content == "" {
		return []LineInfo{}
	}

	lines := make([]LineInfo, 0, strings.Count(content, "\n")+1)
	start := 0
	for {
		idx := strings.IndexByte(content[start:], '\n')
		if idx < 0 {
			break
		}
		nl := start + idx
		text := nl
		if text > start && content[text-1] == '\r' {
			text--
		}
		lines = append(lines, LineInfo{StartOffset: start, NewlineStart: text, EndOffset: nl + 1})
		start = nl + 1
	}
	return append(lines, LineInfo{StartOffset: start, NewlineStart: len(content), EndOffset: len(content)})
}

// Range returns the line's text without its newline.
func (l LineInfo) Range() SourceRange {
	return SourceRange{StartOffset: l.StartOffset, EndOffset: l.NewlineStart}
}

// LineCount returns the number of lines in the note.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// lineIndex returns the 0-based index of the line holding offset.
// Offsets past the end belong to the last line.
func (d *Document) lineIndex(offset int) int {
	idx, _ := slices.BinarySearchFunc(d.Lines, offset, func(l LineInfo, target int) int {
		if l.EndOffset <= target {
			return -1
		}
		if l.StartOffset > target {
			return 1
		}
		return 0
	})
	return min(idx, len(d.Lines)-1)
}

// LineAt converts a byte offset to a 1-based line and byte column. An
// offset at or past the end of the note lands on the last line. Negative
// offsets give (0, 0).
func (d *Document) LineAt(offset int) (int, int) {
	if offset < 0 || len(d.Lines) == 0 {
		return 0, 0
	}
	idx := d.lineIndex(offset)
	return idx + 1, offset - d.Lines[idx].StartOffset + 1
}

// Offset converts a 1-based line and byte column to an offset. The column
// may point just past the newline so a caret can sit at the line end.
func (d *Document) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(d.Lines) || col < 1 {
		return 0, false
	}
	l := d.Lines[line-1]
	offset := l.StartOffset + col - 1
	if offset > l.EndOffset {
		return 0, false
	}
	return offset, true
}

// LineContent returns a 1-based line without its newline, or "".
func (d *Document) LineContent(line int) string {
	if line < 1 || line > len(d.Lines) {
		return ""
	}
	r := d.Lines[line-1].Range()
	return d.Content[r.StartOffset:r.EndOffset]
}
