package transform

// StyleKind classifies a style annotation.
type StyleKind uint8

// Style kinds. Visual values (colours, fonts) belong to the renderer.
const (
	StyleNone StyleKind = iota
	StyleStrong
	StyleEmphasis
	StyleStrike
	StyleHighlight
	StyleCode
	StyleCodeBlock
	StyleHeading
	StyleQuote
	StyleCallout
	StyleList
	StyleListBullet
	StyleTask
	StyleLink
	StyleInternalLink
	StyleEmbed
	StyleImage
	StyleHashtag
	StyleComment
	StyleFootnote
	StyleBlockID
	StyleMath
	StyleRule
	StyleFrontmatter

	// StyleMarker covers visible decoration syntax (delimiters, brackets).
	StyleMarker

	styleKindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var styleKindNames = [styleKindCount]string{
	StyleNone:         "none",
	StyleStrong:       "strong",
	StyleEmphasis:     "emphasis",
	StyleStrike:       "strike",
	StyleHighlight:    "highlight",
	StyleCode:         "code",
	StyleCodeBlock:    "code-block",
	StyleHeading:      "heading",
	StyleQuote:        "quote",
	StyleCallout:      "callout",
	StyleList:         "list",
	StyleListBullet:   "list-bullet",
	StyleTask:         "task",
	StyleLink:         "link",
	StyleInternalLink: "internal-link",
	StyleEmbed:        "embed",
	StyleImage:        "image",
	StyleHashtag:      "hashtag",
	StyleComment:      "comment",
	StyleFootnote:     "footnote",
	StyleBlockID:      "block-id",
	StyleMath:         "math",
	StyleRule:         "rule",
	StyleFrontmatter:  "frontmatter",
	StyleMarker:       "marker",
}

// String returns the kebab-case name of the kind.
func (k StyleKind) String() string {
	if k < styleKindCount {
		return styleKindNames[k]
	}
	return "unknown"
}

// Style is the payload of a style annotation.
type Style struct {
	Kind StyleKind

	// Level is the heading level, or the nesting depth of quotes, callouts
	// and lists.
	Level int

	// Annotation is a clickable or string annotation: a link destination,
	// a note target, a tag, a callout type.
	Annotation string

	// Language is the resolved language of a code block.
	Language string

	// Indent is the paragraph indentation. Nested paragraph styles add up.
	Indent int

	// Paragraph marks block-level styles that apply to whole lines.
	Paragraph bool

	// Checked is set on completed task boxes.
	Checked bool
}

// StyleRange is a style over [Start, End).
type StyleRange struct {
	Start int
	End   int
	Style Style
}

// Len returns the length of the range.
func (r StyleRange) Len() int {
	return r.End - r.Start
}

func styled(start, end int, style Style) StyleRange {
	return StyleRange{Start: start, End: end, Style: style}
}

func kindStyle(kind StyleKind) Style {
	return Style{Kind: kind}
}
