package cli

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdlive/internal/logging"
	"github.com/yaklabco/gomdlive/internal/ui/pretty"
	"github.com/yaklabco/gomdlive/pkg/runner"
)

// checkFlags holds the flags for the check command.
type checkFlags struct {
	vault          string
	include        []string
	exclude        []string
	extensions     []string
	jobs           int
	followSymlinks bool
	noLinks        bool
	strict         bool
	quiet          bool
	format         string
}

func newCheckCommand(gf *globalFlags) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [PATH...]",
		Short: "Check every note of a vault",
		Long: `Check the notes of a vault. Each note is parsed and previewed with the caret
at several positions, and its internal links, embeds, block references and
footnotes are resolved. Link targets resolve against every note of the vault,
even when only some paths are checked.

Hidden files and directories, such as .obsidian, are skipped.

Examples:
  gomdlive check                      Check the enclosing vault
  gomdlive check daily projects       Check two folders
  gomdlive check --exclude 'templates/**'
  gomdlive check --strict             Fail on warnings too`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, gf, flags)
		},
	}

	cmd.Flags().StringVar(&flags.vault, "vault", "", "vault root (default: the enclosing vault, else the current directory)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only check notes matching these globs")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "skip notes and folders matching these globs")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "note extensions (default .md,.markdown)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of workers (default: number of CPUs)")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked folders")
	cmd.Flags().BoolVar(&flags.noLinks, "no-links", false, "skip link, embed and footnote checks")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with status 1 on warnings too")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "print only the summary")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func runCheck(cmd *cobra.Command, paths []string, gf *globalFlags, flags *checkFlags) error {
	if flags.format != "text" && flags.format != "json" {
		return fmt.Errorf("%w: unsupported format %q (use text or json)", ErrUsage, flags.format)
	}

	s, err := newSession(cmd, gf)
	if err != nil {
		return err
	}

	// Paths are relative to --vault when given, else to the working
	// directory.
	vault := flags.vault
	if vault == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		for i, p := range paths {
			if !filepath.IsAbs(p) {
				paths[i] = filepath.Join(wd, p)
			}
		}
		vault = cmp.Or(s.vaultRoot, wd)
	}

	extensions := make([]string, 0, len(flags.extensions))
	for _, ext := range flags.extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions = append(extensions, ext)
	}

	res, err := runner.New(s.logger).Run(commandContext(cmd), runner.Options{
		Paths:          paths,
		WorkingDir:     vault,
		Extensions:     extensions,
		IncludeGlobs:   flags.include,
		ExcludeGlobs:   flags.exclude,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           flags.jobs,
		SkipLinks:      flags.noLinks,
		Config:         s.cfg,
	})
	if err != nil {
		return err
	}

	s.logger.Debug("vault checked",
		logging.FieldWorkingDir, vault,
		logging.FieldFiles, res.Stats.FilesChecked,
		logging.FieldDiagnostics, res.Stats.DiagnosticsTotal)

	if flags.format == "json" {
		err = writeCheckJSON(s, res)
	} else {
		writeCheckText(s, res, flags.quiet)
	}
	if err != nil {
		return err
	}

	if res.HasFailures() || flags.strict && res.HasIssues() {
		return ErrIssuesFound
	}
	return nil
}

func writeCheckText(s *session, res *runner.Result, quiet bool) {
	if !quiet {
		for _, f := range res.Files {
			if f.Error == nil && len(f.Diagnostics) == 0 {
				continue
			}
			fmt.Fprintln(s.out, s.styles.FormatFileHeader(f.Rel, issueCount(f)))
			if f.Error != nil {
				fmt.Fprint(s.out, s.styles.FormatDiagnostic(pretty.Diagnostic{
					Path:     f.Rel,
					Severity: pretty.SeverityError,
					Message:  f.Error.Error(),
				}, ""))
			}
			for _, d := range f.Diagnostics {
				fmt.Fprint(s.out, s.styles.FormatDiagnostic(pretty.Diagnostic{
					Path:     f.Rel,
					Line:     d.Line,
					Column:   d.Column,
					Severity: string(d.Severity),
					Message:  d.Message + s.styles.Dim.Render(" ("+d.Check+")"),
				}, ""))
			}
			fmt.Fprintln(s.out)
		}
	}

	stats := res.Stats
	errorCount := stats.DiagnosticsBySeverity[runner.SeverityError] + stats.FilesErrored
	warnings := stats.DiagnosticsBySeverity[runner.SeverityWarning]
	line := fmt.Sprintf("%s checked, %s, %s, %s resolved",
		plural(stats.FilesChecked, "note"), plural(errorCount, "error"), plural(warnings, "warning"), plural(stats.Links, "link"))

	switch {
	case errorCount > 0:
		line = s.styles.Failure.Render(line)
	case warnings > 0:
		line = s.styles.TableReplaced.Render(line)
	default:
		line = s.styles.Success.Render(line)
	}
	fmt.Fprintln(s.out, line)
}

func issueCount(f runner.FileOutcome) string {
	if f.Error != nil {
		return "unreadable"
	}
	return plural(len(f.Diagnostics), "issue")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// checkJSON is the JSON form of a vault check.
type checkJSON struct {
	Files   []checkFileJSON `json:"files"`
	Summary checkSummary    `json:"summary"`
}

type checkFileJSON struct {
	Path        string          `json:"path"`
	Error       string          `json:"error,omitempty"`
	Diagnostics []checkDiagJSON `json:"diagnostics"`
}

type checkDiagJSON struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Offset   int    `json:"offset"`
	Severity string `json:"severity"`
	Check    string `json:"check"`
	Message  string `json:"message"`
}

type checkSummary struct {
	Files       int            `json:"files"`
	Errored     int            `json:"errored"`
	WithIssues  int            `json:"withIssues"`
	Diagnostics int            `json:"diagnostics"`
	BySeverity  map[string]int `json:"bySeverity"`
	ByCheck     map[string]int `json:"byCheck"`
	Links       int            `json:"links"`
}

func writeCheckJSON(s *session, res *runner.Result) error {
	out := checkJSON{
		Files: make([]checkFileJSON, 0, len(res.Files)),
		Summary: checkSummary{
			Files:       res.Stats.FilesChecked,
			Errored:     res.Stats.FilesErrored,
			WithIssues:  res.Stats.FilesWithIssues,
			Diagnostics: res.Stats.DiagnosticsTotal,
			BySeverity:  make(map[string]int, len(res.Stats.DiagnosticsBySeverity)),
			ByCheck:     res.Stats.DiagnosticsByCheck,
			Links:       res.Stats.Links,
		},
	}
	for sev, n := range res.Stats.DiagnosticsBySeverity {
		out.Summary.BySeverity[string(sev)] = n
	}

	for _, f := range res.Files {
		file := checkFileJSON{
			Path:        f.Rel,
			Diagnostics: make([]checkDiagJSON, 0, len(f.Diagnostics)),
		}
		if f.Error != nil {
			file.Error = f.Error.Error()
		}
		for _, d := range f.Diagnostics {
			file.Diagnostics = append(file.Diagnostics, checkDiagJSON{
				Line:     d.Line,
				Column:   d.Column,
				Offset:   d.Offset,
				Severity: string(d.Severity),
				Check:    d.Check,
				Message:  d.Message,
			})
		}
		out.Files = append(out.Files, file)
	}

	encoder := json.NewEncoder(s.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
