// Package export converts notes to HTML with goldmark. Dialect syntax that
// goldmark does not know (internal links, embeds, highlights, callouts,
// comments) is first rewritten to plain Markdown using the note's tree.
package export

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/yaklabco/gomdlive/pkg/marker"
	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/parser"
)

// Flavors of the Markdown handed to goldmark.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// DefaultLinkSuffix is appended to internal link targets.
const DefaultLinkSuffix = ".html"

//nolint:gochecknoglobals // Read-only lookup table.
var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".bmp": true, ".avif": true,
}

// Exporter converts notes to HTML.
type Exporter struct {
	parser     *parser.Parser
	md         goldmark.Markdown
	flavor     string
	linkSuffix string
	standalone bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithParser sets the parser used to find dialect syntax.
func WithParser(p *parser.Parser) Option {
	return func(e *Exporter) {
		e.parser = p
	}
}

// WithFlavor selects the goldmark extensions. Unknown flavors fall back to
// GFM.
func WithFlavor(flavor string) Option {
	return func(e *Exporter) {
		e.flavor = flavorOrDefault(flavor)
	}
}

// WithLinkSuffix sets the suffix appended to internal link targets.
func WithLinkSuffix(suffix string) Option {
	return func(e *Exporter) {
		e.linkSuffix = suffix
	}
}

// WithStandalone wraps the output in a complete HTML page.
func WithStandalone(standalone bool) Option {
	return func(e *Exporter) {
		e.standalone = standalone
	}
}

// New creates an Exporter. The default is GFM with footnotes and the
// default parser.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		flavor:     FlavorGFM,
		linkSuffix: DefaultLinkSuffix,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.parser == nil {
		e.parser = parser.New()
	}
	e.md = newGoldmarkInstance(e.flavor)
	return e
}

// Flavor returns the configured Markdown flavor.
func (e *Exporter) Flavor() string {
	return e.flavor
}

// flavorOrDefault returns the flavor if valid, otherwise GFM.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorGFM
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
// Raw HTML is let through for the <mark> and <sup> tags the rewrite emits.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	opts := []goldmark.Option{
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	}

	switch flavor {
	case FlavorGFM:
		opts = append(opts, goldmark.WithExtensions(extension.GFM, extension.Footnote))
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}

// Convert writes the HTML of text to w.
func (e *Exporter) Convert(ctx context.Context, text string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("export cancelled: %w", err)
	}

	doc := e.parser.Parse(text)
	rewritten, err := e.rewrite(doc)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	if err := e.md.Convert([]byte(rewritten), &body); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}

	if !e.standalone {
		_, err = w.Write(body.Bytes())
		return err
	}

	_, err = fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(Title(doc)), body.String())
	return err
}

// Rewrite returns text with dialect syntax replaced by plain Markdown.
func (e *Exporter) Rewrite(text string) (string, error) {
	return e.rewrite(e.parser.Parse(text))
}

func (e *Exporter) rewrite(doc *mdast.Document) (string, error) {
	b := marker.NewBuilder()
	e.collect(b, doc.Root, doc.Content)

	markers, err := marker.Prepare(b.Markers, len(doc.Content))
	if err != nil {
		return "", fmt.Errorf("rewrite dialect syntax: %w", err)
	}
	return marker.Apply(doc.Content, markers), nil
}

// collect adds the rewrite markers of n. Nodes replaced as a whole are not
// descended into.
func (e *Exporter) collect(b *marker.Builder, n *mdast.Node, content string) {
	start, end := n.StartOffset, n.EndOffset

	switch n.Kind {
	case mdast.NodeInternalLink:
		b.Replace(start, end, e.internalLink(n, content))
		return
	case mdast.NodeEmbed:
		b.Replace(start, end, e.embed(n, content))
		return
	case mdast.NodeComment, mdast.NodeCommentBlock, mdast.NodeBlockID, mdast.NodeFrontmatter:
		b.Hide(start, end)
		return
	case mdast.NodeHighlight:
		width := n.Attr().DelimWidth
		if width > 0 && end-start >= 2*width {
			b.Replace(start, start+width, "<mark>")
			b.Replace(end-width, end, "</mark>")
		}
	case mdast.NodeInlineFootnote:
		b.Replace(start, start+len("^["), "<sup>")
		b.Replace(end-len("]"), end, "</sup>")
	case mdast.NodeCallout:
		if c := n.Attr().Callout; c != nil && !c.Header.IsEmpty() {
			title := calloutTitle(c.Type)
			if c.TitleRange.IsEmpty() {
				b.Replace(c.Header.StartOffset, c.Header.EndOffset, "**"+title+"**")
			} else {
				b.Replace(c.Header.StartOffset, c.TitleRange.StartOffset, "**"+title+":** ")
			}
		}
	}

	for child := n.FirstChild; child != nil; child = child.Next {
		e.collect(b, child, content)
	}
}

func (e *Exporter) internalLink(n *mdast.Node, content string) string {
	link := n.Attr().Link
	if link == nil {
		return n.Text(content)
	}
	return "[" + linkLabel(link) + "](" + e.noteURL(link) + ")"
}

func (e *Exporter) embed(n *mdast.Node, content string) string {
	link := n.Attr().Link
	if link == nil {
		return n.Text(content)
	}
	if imageExtensions[strings.ToLower(path.Ext(link.Destination))] {
		return "![" + link.Alias + "](" + url.PathEscape(link.Destination) + ")"
	}
	return "[" + linkLabel(link) + "](" + e.noteURL(link) + ")"
}

func (e *Exporter) noteURL(link *mdast.LinkAttrs) string {
	target := ""
	if link.Destination != "" {
		target = url.PathEscape(link.Destination) + e.linkSuffix
	}
	if link.Subpath != "" {
		target += "#" + url.PathEscape(link.Subpath)
	}
	return target
}

func linkLabel(link *mdast.LinkAttrs) string {
	if link.Alias != "" {
		return link.Alias
	}
	if link.Subpath != "" {
		return link.Destination + "#" + link.Subpath
	}
	return link.Destination
}

func calloutTitle(kind string) string {
	if kind == "" {
		return ""
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}

// Title returns the page title of a note: the frontmatter "title" key, or
// the text of the first heading.
func Title(doc *mdast.Document) string {
	if doc == nil {
		return ""
	}
	if title, ok := doc.Frontmatter["title"].(string); ok && title != "" {
		return title
	}
	if heading := mdast.FirstOfKind(doc.Root, mdast.NodeHeading); heading != nil {
		return strings.TrimSpace(doc.Content[heading.Attr().MarkerEnd:heading.EndOffset])
	}
	return ""
}
