package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gomdlive/pkg/diff"
)

// FormatDiff formats a source/preview diff with colored lines.
func (s *Styles) FormatDiff(d *diff.Diff) string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	builder.WriteString(s.DiffHeader.Render("--- a/"+path+" (source)") + "\n")
	builder.WriteString(s.DiffHeader.Render("+++ b/"+path+" (preview)") + "\n")

	for _, hunk := range d.Hunks {
		builder.WriteString(s.DiffHunk.Render(hunk.Header()) + "\n")
		for _, line := range hunk.Lines {
			text := diff.Prefix(line.Kind) + expandTabs(line.Content)
			switch line.Kind {
			case diff.LineAdd:
				text = s.DiffAdd.Render(text)
			case diff.LineRemove:
				text = s.DiffRemove.Render(text)
			}
			builder.WriteString(text + "\n")
		}
	}

	builder.WriteString(s.Dim.Render(fmt.Sprintf("%d source lines, %d preview lines", d.Deletions, d.Additions)) + "\n")

	return builder.String()
}
