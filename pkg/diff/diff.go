// Package diff compares the source of a note with its live preview line by
// line and formats the result as a unified diff.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// LineKind indicates the type of diff line.
type LineKind int

const (
	// LineContext is a line shared by source and preview.
	LineContext LineKind = iota

	// LineAdd is a line only the preview has.
	LineAdd

	// LineRemove is a line only the source has.
	LineRemove
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// Line is a single line of a hunk, without its prefix.
type Line struct {
	Kind    LineKind
	Content string
}

// Hunk is a run of changes with surrounding context. Starts are 1-based;
// an empty side starts at the line before the change, as in GNU diff.
type Hunk struct {
	SourceStart  int
	SourceCount  int
	PreviewStart int
	PreviewCount int
	Lines        []Line
}

// Diff is a line diff between a source and its preview.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// Compare diffs source against preview. It returns nil when the two have
// the same lines.
func Compare(path, source, preview string) *Diff {
	src := splitLines(source)
	prv := splitLines(preview)

	matcher := difflib.NewMatcherWithJunk(src, prv, false, nil)
	groups := matcher.GetGroupedOpCodes(contextLines)
	if len(groups) == 0 {
		return nil
	}

	d := &Diff{Path: path, Hunks: make([]Hunk, 0, len(groups))}
	for _, group := range groups {
		hunk := buildHunk(group, src, prv)
		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineAdd:
				d.Additions++
			case LineRemove:
				d.Deletions++
			}
		}
		d.Hunks = append(d.Hunks, hunk)
	}
	return d
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// Header returns the hunk header line, "@@ -s,c +s,c @@".
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.SourceStart, h.SourceCount, h.PreviewStart, h.PreviewCount)
}

// String returns the diff in unified format.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n", path)
	fmt.Fprintf(&builder, "+++ b/%s\n", path)

	for _, hunk := range d.Hunks {
		builder.WriteString(hunk.Header())
		builder.WriteByte('\n')
		for _, line := range hunk.Lines {
			builder.WriteString(Prefix(line.Kind))
			builder.WriteString(line.Content)
			builder.WriteByte('\n')
		}
	}

	return builder.String()
}

// Prefix returns the unified diff prefix of a line kind.
func Prefix(kind LineKind) string {
	switch kind {
	case LineAdd:
		return "+"
	case LineRemove:
		return "-"
	default:
		return " "
	}
}

// splitLines splits text at "\n", dropping the empty string after a
// trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// buildHunk turns one group of opcodes into a hunk. A replacement lists
// its removals before its additions.
func buildHunk(group []difflib.OpCode, src, prv []string) Hunk {
	first, last := group[0], group[len(group)-1]

	hunk := Hunk{
		SourceStart:  hunkStart(first.I1, last.I2),
		SourceCount:  last.I2 - first.I1,
		PreviewStart: hunkStart(first.J1, last.J2),
		PreviewCount: last.J2 - first.J1,
	}

	for _, op := range group {
		if op.Tag == 'e' {
			for _, text := range src[op.I1:op.I2] {
				hunk.Lines = append(hunk.Lines, Line{Kind: LineContext, Content: text})
			}
			continue
		}
		if op.Tag == 'r' || op.Tag == 'd' {
			for _, text := range src[op.I1:op.I2] {
				hunk.Lines = append(hunk.Lines, Line{Kind: LineRemove, Content: text})
			}
		}
		if op.Tag == 'r' || op.Tag == 'i' {
			for _, text := range prv[op.J1:op.J2] {
				hunk.Lines = append(hunk.Lines, Line{Kind: LineAdd, Content: text})
			}
		}
	}
	return hunk
}

func hunkStart(from, to int) int {
	if to == from {
		return from
	}
	return from + 1
}
