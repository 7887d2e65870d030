// Package parser turns Obsidian-flavoured Markdown into an mdast tree.
//
// Parsing runs in two passes over the token stream produced by the lexer:
// a line-based block pass that recognizes containers and leaf blocks, and
// an inline pass over each leaf block's content. Each pass is an ordered
// chain of small recognizers; the first one that matches wins.
package parser

import (
	"github.com/yaklabco/gomdlive/pkg/config"
	"github.com/yaklabco/gomdlive/pkg/lexer"
	"github.com/yaklabco/gomdlive/pkg/mdast"
)

// Parser holds an inline parser chain and a block recognizer chain.
// A Parser is immutable after New and safe for concurrent use.
type Parser struct {
	inlines []InlineParser
	blocks  []BlockRecognizer
}

// Option configures a Parser.
type Option func(*Parser)

// WithInlineParsers replaces the inline parser chain.
func WithInlineParsers(parsers ...InlineParser) Option {
	return func(p *Parser) {
		p.inlines = append([]InlineParser(nil), parsers...)
	}
}

// WithBlockRecognizers replaces the block recognizer chain. The chain
// should end with a ParagraphRecognizer.
func WithBlockRecognizers(recognizers ...BlockRecognizer) Option {
	return func(p *Parser) {
		p.blocks = append([]BlockRecognizer(nil), recognizers...)
	}
}

// WithDialect rebuilds both chains with only the enabled dialect features.
func WithDialect(d config.Dialect) Option {
	return func(p *Parser) {
		p.inlines = DialectInlineParsers(d)
		p.blocks = DialectBlockRecognizers(d)
	}
}

// New creates a Parser with the full Obsidian dialect unless options say
// otherwise.
func New(opts ...Option) *Parser {
	p := &Parser{
		inlines: DefaultInlineParsers(),
		blocks:  DefaultBlockRecognizers(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultInlineParsers returns the inline chain for the full dialect.
func DefaultInlineParsers() []InlineParser {
	return DialectInlineParsers(config.NewDialect())
}

// DefaultBlockRecognizers returns the block chain for the full dialect.
func DefaultBlockRecognizers() []BlockRecognizer {
	return DialectBlockRecognizers(config.NewDialect())
}

// DialectInlineParsers returns the inline chain for d, in priority order:
// autolinks, block ids, inline footnotes, code spans, math, images,
// footnote links, embeds, internal links, inline links, hashtags, then the
// emphasis group.
func DialectInlineParsers(d config.Dialect) []InlineParser {
	var chain []InlineParser
	add := func(enabled bool, p InlineParser) {
		if enabled {
			chain = append(chain, p)
		}
	}

	add(d.Autolinks, AutolinkParser{})
	add(d.BlockIDs, BlockIDParser{})
	add(d.Footnotes, InlineFootnoteParser{})
	add(true, CodeSpanParser{})
	add(d.Math, MathParser{})
	add(true, ImageParser{})
	add(d.Footnotes, FootnoteLinkParser{})
	add(d.Embeds, EmbedParser{})
	add(d.InternalLinks, InternalLinkParser{})
	add(true, InlineLinkParser{})
	add(d.Hashtags, HashtagParser{})
	add(true, EmphasisParser{Comments: d.Comments, Strikethrough: d.Strikethrough, Highlight: d.Highlight})

	return chain
}

// DialectBlockRecognizers returns the block chain for d, in priority order.
func DialectBlockRecognizers(d config.Dialect) []BlockRecognizer {
	var chain []BlockRecognizer
	add := func(enabled bool, r BlockRecognizer) {
		if enabled {
			chain = append(chain, r)
		}
	}

	add(d.Frontmatter, FrontmatterRecognizer{})
	add(true, FenceRecognizer{})
	add(d.Math, MathBlockRecognizer{})
	add(d.Comments, CommentBlockRecognizer{})
	add(true, RuleRecognizer{})
	add(true, HeadingRecognizer{})
	add(true, QuoteRecognizer{Callouts: d.Callouts})
	add(true, ListRecognizer{})
	add(d.Footnotes, FootnoteDefinitionRecognizer{})
	add(true, ParagraphRecognizer{})

	return chain
}

// InlineParsers returns a copy of the inline chain.
func (p *Parser) InlineParsers() []InlineParser {
	return append([]InlineParser(nil), p.inlines...)
}

// BlockRecognizers returns a copy of the block chain.
func (p *Parser) BlockRecognizers() []BlockRecognizer {
	return append([]BlockRecognizer(nil), p.blocks...)
}

// Parse tokenizes and parses content. Parsing never fails: any input
// yields a tree whose nodes lie within [0, len(content)), with unmatched
// syntax left as plain text.
func (p *Parser) Parse(content string) *mdast.Document {
	doc := mdast.NewDocumentShell(content)
	doc.Tokens = lexer.Tokenize(content)
	doc.Root = mdast.NewDocument(len(content))

	if len(content) == 0 {
		return doc
	}

	state := &BlockState{
		Content: content,
		Tokens:  doc.Tokens,
		parser:  p,
		doc:     doc,
	}
	state.ParseContainer(doc.Root, documentLines(doc), 0)

	return doc
}
