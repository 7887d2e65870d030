package runner

import (
	"cmp"
	"slices"

	"github.com/hashicorp/go-multierror"
)

// Severity grades a diagnostic.
type Severity string

// Severities, from most to least severe.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Check names.
const (
	CheckStructure       = "structure"
	CheckFrontmatter     = "frontmatter"
	CheckTransform       = "transform"
	CheckUnresolvedLink  = "unresolved-link"
	CheckMissingHeading  = "missing-heading"
	CheckMissingBlock    = "missing-block"
	CheckDuplicateBlock  = "duplicate-block-id"
	CheckMissingFootnote = "missing-footnote"
)

// Diagnostic is a problem found in a note.
type Diagnostic struct {
	// Line and Column are 1-based. Column counts bytes.
	Line   int
	Column int

	// Offset is the byte offset the diagnostic points at.
	Offset int

	Severity Severity
	Check    string
	Message  string
}

// FileOutcome is the result of checking one note.
type FileOutcome struct {
	// Path is the absolute path of the note.
	Path string

	// Rel is Path relative to the vault root.
	Rel string

	// Diagnostics are ordered by position.
	Diagnostics []Diagnostic

	// Nodes is the number of AST nodes of the note.
	Nodes int

	// Links is the number of internal links and embeds that were resolved.
	Links int

	// Error is set if the note could not be read.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesChecked    int
	FilesErrored    int
	FilesWithIssues int

	DiagnosticsTotal      int
	DiagnosticsBySeverity map[Severity]int
	DiagnosticsByCheck    map[string]int

	Nodes int
	Links int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether a note could not be read or has an error
// diagnostic.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.DiagnosticsBySeverity[SeverityError] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

// Err combines the errors of the notes that could not be read, or returns
// nil.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	var result *multierror.Error
	for _, f := range r.Files {
		if f.Error != nil {
			result = multierror.Append(result, f.Error)
		}
	}
	return result.ErrorOrNil()
}

func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[Severity]int),
		DiagnosticsByCheck:    make(map[string]int),
	}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesChecked++
	r.Stats.Nodes += outcome.Nodes
	r.Stats.Links += outcome.Links

	if len(outcome.Diagnostics) > 0 {
		r.Stats.FilesWithIssues++
	}
	r.Stats.DiagnosticsTotal += len(outcome.Diagnostics)
	for _, diag := range outcome.Diagnostics {
		r.Stats.DiagnosticsBySeverity[diag.Severity]++
		r.Stats.DiagnosticsByCheck[diag.Check]++
	}
}

func sortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return cmp.Or(cmp.Compare(a.Offset, b.Offset), cmp.Compare(a.Check, b.Check))
	})
}
