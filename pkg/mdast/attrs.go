package mdast

// Attrs holds kind-specific attributes of a node. Only the fields relevant
// to the node's kind are populated; offsets are absolute byte offsets into
// the document content.
type Attrs struct {
	// Level is the heading level (1-6) for NodeHeading, the nesting depth for
	// quotes, callouts and lists.
	Level int

	// MarkerEnd is the offset just past the leading syntax of a block
	// (heading "# ", footnote definition "[^id]: ").
	MarkerEnd int

	// DelimWidth is the width of each delimiter run for symmetric inline
	// constructs (2 for "**", 1 for "*", n for a code span of n backticks).
	DelimWidth int

	// Prefixes are the per-line container prefixes ("> ") of a block quote
	// or callout.
	Prefixes []SourceRange

	// Link holds link-like attributes for links, embeds, images and autolinks.
	Link *LinkAttrs

	// List holds list and list item attributes.
	List *ListAttrs

	// Fence holds fenced block attributes for code, math, comment and
	// frontmatter blocks.
	Fence *FenceAttrs

	// Callout holds callout attributes.
	Callout *CalloutAttrs

	// Name is the hashtag name (without "#"), footnote label or block id.
	Name string
}

// LinkAttrs holds attributes for link-like nodes.
type LinkAttrs struct {
	// Destination is the URL or note target (without subpath for internal links).
	Destination string

	// Subpath is the "#heading" or "#^block" part of an internal link, without "#".
	Subpath string

	// Alias is the display alias of an internal link or embed.
	Alias string

	// Title is the optional title of an inline link or image.
	Title string

	// Label is the visible label range (link text, alias, alt text).
	Label SourceRange

	// Target is the range of the target part ("Note#H" in "[[Note#H|A]]",
	// "url" in "[a](url)").
	Target SourceRange
}

// ListAttrs holds attributes for list and list item nodes.
type ListAttrs struct {
	// Ordered is true for ordered lists (1., 2., etc.).
	Ordered bool

	// BulletMarker is the bullet character used ("-", "+", "*").
	BulletMarker string

	// StartNumber is the number of an ordered list item.
	StartNumber int

	// Delimiter is the delimiter for ordered lists ("." or ")").
	Delimiter string

	// Marker is the range of the bullet or number marker.
	Marker SourceRange

	// ContentIndent is the column where item content starts, relative to
	// the line content start of the item.
	ContentIndent int

	// Task is true when the item starts with a "[ ]" or "[x]" box.
	Task bool

	// Checked is true for "[x]" / "[X]" boxes.
	Checked bool

	// TaskBox is the range of the task box, when Task is set.
	TaskBox SourceRange
}

// FenceAttrs holds attributes for fenced blocks.
type FenceAttrs struct {
	// FenceChar is the fence character ('`', '~', '$', '%' or '-').
	FenceChar byte

	// FenceLength is the number of fence characters.
	FenceLength int

	// Info is the info string (language identifier, etc.).
	Info string

	// Open is the opening fence line range, including its newline.
	Open SourceRange

	// Close is the closing fence range. Empty when the block is unterminated.
	Close SourceRange

	// Content is the range between the fences.
	Content SourceRange

	// Closed is true when a closing fence was found.
	Closed bool
}

// CalloutAttrs holds attributes for callout nodes.
type CalloutAttrs struct {
	// Type is the callout type keyword ("note", "warning", ...), lower-cased.
	Type string

	// Fold is '+' or '-' for foldable callouts, 0 otherwise.
	Fold byte

	// Title is the custom title, if any.
	Title string

	// Header is the range of "[!type]" plus the fold character.
	Header SourceRange

	// TitleRange is the range of the custom title. Empty when no title is given.
	TitleRange SourceRange
}
