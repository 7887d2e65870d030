package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/yaklabco/gomdlive/pkg/fsutil"
	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/transform"
)

// maxBlockProbes bounds the carets placed at block starts.
const maxBlockProbes = 64

// noteChecker checks single notes. It is not safe for concurrent use: each
// worker owns one.
type noteChecker struct {
	transformer *transform.Transformer
	index       *Index
	skipLinks   bool
}

// check reads and checks the note at path.
func (c *noteChecker) check(ctx context.Context, path, rel string) FileOutcome {
	outcome := FileOutcome{Path: path, Rel: rel}

	note, err := fsutil.ReadNote(ctx, path, nil)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	doc := c.transformer.Parse(note.Content)
	outcome.Nodes = mdast.Count(doc.Root)

	var diags []Diagnostic
	report := func(offset int, sev Severity, check, format string, args ...any) {
		offset = min(max(offset, 0), len(doc.Content))
		line, col := doc.LineAt(offset)
		diags = append(diags, Diagnostic{
			Line:     line,
			Column:   col,
			Offset:   offset,
			Severity: sev,
			Check:    check,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	checkStructure(doc, report)
	checkFrontmatter(doc, report)
	c.checkTransform(doc, report)
	if !c.skipLinks {
		outcome.Links = c.checkLinks(doc, report)
	}

	sortDiagnostics(diags)
	outcome.Diagnostics = diags
	return outcome
}

type reportFunc func(offset int, sev Severity, check, format string, args ...any)

func checkStructure(doc *mdast.Document, report reportFunc) {
	err := mdast.Validate(doc.Root, len(doc.Content))
	if err == nil {
		return
	}

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		report(0, SeverityError, CheckStructure, "%v", err)
		return
	}
	for _, e := range merr.Errors {
		var rangeErr *mdast.RangeError
		if errors.As(e, &rangeErr) {
			report(rangeErr.Node.StartOffset, SeverityError, CheckStructure, "%s", rangeErr.Error())
			continue
		}
		report(0, SeverityError, CheckStructure, "%v", e)
	}
}

func checkFrontmatter(doc *mdast.Document, report reportFunc) {
	if doc.FrontmatterErr == nil {
		return
	}
	offset := 0
	if fm := mdast.FirstOfKind(doc.Root, mdast.NodeFrontmatter); fm != nil {
		offset = fm.StartOffset
	}
	report(offset, SeverityWarning, CheckFrontmatter, "frontmatter does not decode: %v", doc.FrontmatterErr)
}

// checkTransform runs the transform with the caret at the start and end of
// the note, at each top-level block and with the whole note selected. It
// stops at the first failure.
func (c *noteChecker) checkTransform(doc *mdast.Document, report reportFunc) {
	content := doc.Content
	probes := []mdast.Selection{mdast.Caret(0), mdast.Caret(len(content)), {Start: 0, End: len(content)}}
	for i, n := 0, doc.Root.FirstChild; n != nil && i < maxBlockProbes; i, n = i+1, n.Next {
		probes = append(probes, mdast.Caret(n.StartOffset))
	}

	for _, sel := range probes {
		res, err := c.transformer.Transform(content, sel)
		if err != nil {
			report(sel.Start, SeverityError, CheckTransform, "transform failed: %v", err)
			return
		}
		if res.Mapper != nil && res.Mapper.TransformedLen() != len(res.Text) {
			report(sel.Start, SeverityError, CheckTransform,
				"offset map covers %d bytes, preview has %d", res.Mapper.TransformedLen(), len(res.Text))
			return
		}
	}
}

// checkLinks checks internal links, embeds and footnote references. It
// returns the number of note links resolved against the index.
func (c *noteChecker) checkLinks(doc *mdast.Document, report reportFunc) int {
	headings := make(map[string]struct{})
	blocks := make(map[string]int)
	footnotes := make(map[string]struct{})
	var links, refs []*mdast.Node

	_ = mdast.Walk(doc.Root, func(n *mdast.Node) error {
		switch n.Kind {
		case mdast.NodeHeading:
			text := strings.TrimSpace(doc.Content[n.Attr().MarkerEnd:n.EndOffset])
			headings[fold(strings.TrimRight(text, "# "))] = struct{}{}
		case mdast.NodeBlockID:
			name := n.Attr().Name
			if first, dup := blocks[name]; dup {
				line, _ := doc.LineAt(first)
				report(n.StartOffset, SeverityWarning, CheckDuplicateBlock,
					"block id ^%s already defined on line %d", name, line)
				return nil
			}
			blocks[name] = n.StartOffset
		case mdast.NodeFootnoteDefinition:
			footnotes[n.Attr().Name] = struct{}{}
		case mdast.NodeInternalLink, mdast.NodeEmbed:
			if n.Attr().Link != nil {
				links = append(links, n)
			}
		case mdast.NodeFootnoteLink:
			refs = append(refs, n)
		}
		return nil
	})

	for _, n := range refs {
		if _, ok := footnotes[n.Attr().Name]; !ok {
			report(n.StartOffset, SeverityWarning, CheckMissingFootnote, "footnote [^%s] has no definition", n.Attr().Name)
		}
	}

	resolved := 0
	for _, n := range links {
		link := n.Attr().Link
		if link.Destination == "" {
			checkSubpath(n, link.Subpath, headings, blocks, report)
			continue
		}
		found, checked := c.index.Resolve(link.Destination)
		switch {
		case !checked:
		case found:
			resolved++
		default:
			report(n.StartOffset, SeverityWarning, CheckUnresolvedLink, "no note named %q", link.Destination)
		}
	}
	return resolved
}

// checkSubpath checks a link into the same note. In "[[#A#B]]" the last
// heading is the target.
func checkSubpath(n *mdast.Node, subpath string, headings map[string]struct{}, blocks map[string]int, report reportFunc) {
	if subpath == "" {
		return
	}
	if id, ok := strings.CutPrefix(subpath, "^"); ok {
		if _, found := blocks[id]; !found {
			report(n.StartOffset, SeverityWarning, CheckMissingBlock, "no block ^%s in this note", id)
		}
		return
	}
	parts := strings.Split(subpath, "#")
	heading := fold(strings.TrimSpace(parts[len(parts)-1]))
	if _, found := headings[heading]; !found {
		report(n.StartOffset, SeverityWarning, CheckMissingHeading, "no heading %q in this note", parts[len(parts)-1])
	}
}
