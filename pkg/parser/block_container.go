package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdlive/pkg/mdast"
)

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	calloutHeaderRe = regexp.MustCompile(`^\[!([A-Za-z0-9_-]+)\]([+-]?)(?:[ \t]+(.*?))?[ \t]*$`)
	footnoteDefRe   = regexp.MustCompile(`^\[\^([^\]\s]+)\]:[ \t]?`)
)

// QuoteRecognizer handles block quotes and, when Callouts is set, turns a
// quote whose first line is "[!type]" into a callout.
type QuoteRecognizer struct {
	Callouts bool
}

// Name implements BlockRecognizer.
func (QuoteRecognizer) Name() string { return "blockquote" }

// Interrupts implements BlockRecognizer.
func (QuoteRecognizer) Interrupts(s *BlockState, l Line) bool {
	_, _, ok := quotePrefix(s, l)
	return ok
}

// Open implements BlockRecognizer.
func (r QuoteRecognizer) Open(s *BlockState, parent *mdast.Node, lines []Line, i int) (int, bool) {
	var (
		inner    []Line
		prefixes []mdast.SourceRange
	)

	j := i
	for ; j < len(lines); j++ {
		stripped, prefix, ok := quotePrefix(s, lines[j])
		if !ok {
			break
		}
		inner = append(inner, stripped)
		prefixes = append(prefixes, prefix)
	}
	if len(inner) == 0 {
		return i, false
	}

	node := mdast.NewNode(mdast.NodeBlockQuote, prefixes[0].StartOffset, lines[j-1].End)
	node.Attrs = &mdast.Attrs{
		Level:    s.Depth(mdast.NodeBlockQuote, mdast.NodeCallout) + 1,
		Prefixes: prefixes,
	}

	if r.Callouts {
		if callout, ok := parseCalloutHeader(s, inner[0]); ok {
			node.Kind = mdast.NodeCallout
			node.Attrs.Callout = callout
			if !callout.TitleRange.IsEmpty() {
				s.ParseInline(node, callout.TitleRange)
			}
			inner = inner[1:]
		}
	}

	s.ParseContainer(node, inner, 0)
	mdast.AppendChild(parent, node)

	return j, true
}

// quotePrefix strips "> " from l and returns the rest with the prefix range.
func quotePrefix(s *BlockState, l Line) (Line, mdast.SourceRange, bool) {
	start, ok := s.nonIndented(l)
	if !ok || start >= l.End || s.Content[start] != '>' {
		return Line{}, mdast.SourceRange{}, false
	}

	end := start + 1
	if end < l.End && (s.Content[end] == ' ' || s.Content[end] == '\t') {
		end++
	}

	return Line{Start: end, End: l.End, LineEnd: l.LineEnd},
		mdast.SourceRange{StartOffset: start, EndOffset: end}, true
}

func parseCalloutHeader(s *BlockState, l Line) (*mdast.CalloutAttrs, bool) {
	m := calloutHeaderRe.FindStringSubmatchIndex(s.Text(l))
	if m == nil {
		return nil, false
	}

	text := s.Text(l)
	callout := &mdast.CalloutAttrs{
		Type:   strings.ToLower(text[m[2]:m[3]]),
		Header: mdast.SourceRange{StartOffset: l.Start + m[0], EndOffset: l.Start + m[5]},
	}
	if m[5] > m[4] {
		callout.Fold = text[m[4]]
	}
	if m[6] >= 0 && m[7] > m[6] {
		callout.Title = text[m[6]:m[7]]
		callout.TitleRange = mdast.SourceRange{StartOffset: l.Start + m[6], EndOffset: l.Start + m[7]}
	}

	return callout, true
}

// listMarker describes the marker at the start of a list item line.
type listMarker struct {
	ordered bool
	bullet  byte
	number  int
	delim   byte

	// start and end delimit the bullet or number marker.
	start int
	end   int

	// contentStart is the offset where item content begins.
	contentStart int

	// contentIndent is the column continuation lines must reach.
	contentIndent int
}

func (m listMarker) sameList(other listMarker) bool {
	if m.ordered != other.ordered {
		return false
	}
	if m.ordered {
		return m.delim == other.delim
	}
	return m.bullet == other.bullet
}

func scanListMarker(s *BlockState, l Line) (listMarker, bool) {
	const (
		maxIndent    = 3
		maxDigits    = 9
		maxMarkerGap = 4
	)

	text := s.Text(l)
	cols, n := indentWidth(text)
	if cols > maxIndent || n >= len(text) {
		return listMarker{}, false
	}

	m := listMarker{start: l.Start + n}
	switch c := text[n]; c {
	case '-', '+', '*':
		m.bullet = c
		m.end = m.start + 1
	default:
		digits := 0
		for n+digits < len(text) && text[n+digits] >= '0' && text[n+digits] <= '9' {
			digits++
		}
		if digits == 0 || digits > maxDigits || n+digits >= len(text) {
			return listMarker{}, false
		}
		if d := text[n+digits]; d != '.' && d != ')' {
			return listMarker{}, false
		}
		m.ordered = true
		m.number, _ = strconv.Atoi(text[n : n+digits])
		m.delim = text[n+digits]
		m.end = m.start + digits + 1
	}

	markerWidth := m.end - m.start
	if m.end == l.End {
		m.contentStart = m.end
		m.contentIndent = cols + markerWidth + 1
		return m, true
	}

	if b := s.Content[m.end]; b != ' ' && b != '\t' {
		return listMarker{}, false
	}

	gap, gapBytes := indentWidth(s.Content[m.end:l.End])
	if gap > maxMarkerGap || m.end+gapBytes == l.End {
		gap, gapBytes = 1, 1
	}
	m.contentStart = m.end + gapBytes
	m.contentIndent = cols + markerWidth + gap

	return m, true
}

// ListRecognizer handles bullet and ordered lists, including task items.
// Consecutive items with the same marker type form one list.
type ListRecognizer struct{}

// Name implements BlockRecognizer.
func (ListRecognizer) Name() string { return "list" }

// Interrupts implements BlockRecognizer.
func (ListRecognizer) Interrupts(s *BlockState, l Line) bool {
	_, ok := scanListMarker(s, l)
	return ok
}

// Open implements BlockRecognizer.
func (ListRecognizer) Open(s *BlockState, parent *mdast.Node, lines []Line, i int) (int, bool) {
	m, ok := scanListMarker(s, lines[i])
	if !ok {
		return i, false
	}

	kind := mdast.NodeUnorderedList
	listAttrs := &mdast.ListAttrs{Ordered: m.ordered}
	if m.ordered {
		kind = mdast.NodeOrderedList
		listAttrs.StartNumber = m.number
		listAttrs.Delimiter = string(m.delim)
	} else {
		listAttrs.BulletMarker = string(m.bullet)
	}

	list := mdast.NewNode(kind, m.start, m.start)
	list.Attrs = &mdast.Attrs{
		Level: s.Depth(mdast.NodeListItem) + 1,
		List:  listAttrs,
	}

	next := i
	for {
		item, after := s.parseListItem(lines, next, m)
		mdast.AppendChild(list, item)
		list.EndOffset = item.EndOffset
		next = after

		k := next
		for k < len(lines) && s.IsBlank(lines[k]) {
			k++
		}
		if k >= len(lines) {
			break
		}
		nm, ok := scanListMarker(s, lines[k])
		if !ok || !m.sameList(nm) {
			break
		}
		next, m = k, nm
	}

	mdast.AppendChild(parent, list)
	return next, true
}

// parseListItem builds the item starting at lines[i] and returns it with
// the index of the first line after it.
func (s *BlockState) parseListItem(lines []Line, i int, m listMarker) (*mdast.Node, int) {
	first := lines[i]
	itemAttrs := &mdast.ListAttrs{
		Ordered:       m.ordered,
		StartNumber:   m.number,
		Marker:        mdast.SourceRange{StartOffset: m.start, EndOffset: m.end},
		ContentIndent: m.contentIndent,
	}
	if m.ordered {
		itemAttrs.Delimiter = string(m.delim)
	} else {
		itemAttrs.BulletMarker = string(m.bullet)
	}

	contentStart := m.contentStart
	if box, checked, ok := scanTaskBox(s.Content[contentStart:first.End]); ok {
		itemAttrs.Task = true
		itemAttrs.Checked = checked
		itemAttrs.TaskBox = mdast.SourceRange{StartOffset: contentStart, EndOffset: contentStart + box}
		contentStart += box
		if contentStart < first.End && (s.Content[contentStart] == ' ' || s.Content[contentStart] == '\t') {
			contentStart++
		}
	}

	itemLines := []Line{{Start: contentStart, End: first.End, LineEnd: first.LineEnd}}
	last := s.collectContinuation(mdast.NodeListItem, lines, i, m.contentIndent, &itemLines)

	item := mdast.NewNode(mdast.NodeListItem, m.start, lines[last].End)
	item.Attrs = &mdast.Attrs{List: itemAttrs}
	s.ParseContainer(item, itemLines, m.contentIndent)

	return item, last + 1
}

// collectContinuation appends to out the lines after lines[i] that belong
// to a container of the given kind and content indent: lines indented at
// least that far, blank lines followed by such lines, and lazy continuation
// lines of a paragraph left open at the end of the container. It returns
// the index of the last line taken.
func (s *BlockState) collectContinuation(kind mdast.NodeKind, lines []Line, i, indent int, out *[]Line) int {
	last := i
	// paragraph caches whether *out ends in an open paragraph; nil means
	// it must be worked out again.
	var paragraph *bool
	for j := i + 1; j < len(lines); j++ {
		l := lines[j]
		if s.IsBlank(l) {
			continue
		}

		cols, _ := indentWidth(s.Text(l))
		if cols < indent {
			if j != last+1 || s.IsBlank(lines[last]) || s.Interrupts(l) {
				break
			}
			if paragraph == nil {
				open := s.endsInParagraph(kind, *out, indent)
				paragraph = &open
			}
			if !*paragraph {
				break
			}
		} else {
			paragraph = nil
		}

		for k := last + 1; k <= j; k++ {
			*out = append(*out, s.stripIndent(lines[k], indent))
		}
		last = j
	}
	return last
}

// endsInParagraph reports whether lines, parsed as the children of a
// container, end inside a paragraph.
func (s *BlockState) endsInParagraph(kind mdast.NodeKind, lines []Line, indent int) bool {
	if len(lines) == 0 {
		return false
	}

	scratch := mdast.NewNode(kind, lines[0].Start, lines[len(lines)-1].End)
	s.ParseContainer(scratch, lines, indent)

	node := scratch
	for node.LastChild != nil && node.Kind != mdast.NodeParagraph {
		node = node.LastChild
	}
	return node.Kind == mdast.NodeParagraph && node.EndOffset == lines[len(lines)-1].End
}

func scanTaskBox(text string) (int, bool, bool) {
	const boxWidth = 3
	if len(text) < boxWidth || text[0] != '[' || text[2] != ']' {
		return 0, false, false
	}
	if len(text) > boxWidth && text[boxWidth] != ' ' && text[boxWidth] != '\t' {
		return 0, false, false
	}

	switch text[1] {
	case ' ':
		return boxWidth, false, true
	case 'x', 'X':
		return boxWidth, true, true
	default:
		return 0, false, false
	}
}

// FootnoteDefinitionRecognizer handles footnote definitions: "[^id]: text".
// Continuation lines are indented by four columns.
type FootnoteDefinitionRecognizer struct{}

// Name implements BlockRecognizer.
func (FootnoteDefinitionRecognizer) Name() string { return "footnote-definition" }

// Interrupts implements BlockRecognizer.
func (FootnoteDefinitionRecognizer) Interrupts(s *BlockState, l Line) bool {
	start, ok := s.nonIndented(l)
	return ok && footnoteDefRe.MatchString(s.Content[start:l.End])
}

// Open implements BlockRecognizer.
func (FootnoteDefinitionRecognizer) Open(s *BlockState, parent *mdast.Node, lines []Line, i int) (int, bool) {
	const continuationIndent = 4

	start, ok := s.nonIndented(lines[i])
	if !ok {
		return i, false
	}
	m := footnoteDefRe.FindStringSubmatchIndex(s.Content[start:lines[i].End])
	if m == nil {
		return i, false
	}

	markerEnd := start + m[1]
	defLines := []Line{{Start: markerEnd, End: lines[i].End, LineEnd: lines[i].LineEnd}}
	last := s.collectContinuation(mdast.NodeFootnoteDefinition, lines, i, continuationIndent, &defLines)

	node := mdast.NewNode(mdast.NodeFootnoteDefinition, start, lines[last].End)
	node.Attrs = &mdast.Attrs{
		Name:      s.Content[start+m[2] : start+m[3]],
		MarkerEnd: markerEnd,
	}
	s.ParseContainer(node, defLines, continuationIndent)
	mdast.AppendChild(parent, node)

	return last + 1, true
}
