package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdlive/internal/logging"
	"github.com/yaklabco/gomdlive/pkg/fsutil"
	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/reporter"
	"github.com/yaklabco/gomdlive/pkg/transform"
)

// renderFlags holds the flags for the render command.
type renderFlags struct {
	position positionFlags
	format   string
	width    int
	noCaret  bool
	summary  bool
	compact  bool
	watch    bool
	debounce time.Duration
}

func newRenderCommand(gf *globalFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render the live preview of a note",
		Long: `Render a note the way a live-preview editor shows it. Syntax markers are
hidden or replaced, except for the constructs holding the caret or touched by
the selection. Use "-" to read the note from stdin.

Examples:
  gomdlive render note.md                 Preview with the caret at the end
  gomdlive render note.md --cursor 3:5    Caret on line 3, column 5
  gomdlive render note.md --selection 10:42
  gomdlive render note.md --format plain  Transformed text without styling
  gomdlive render note.md --format json   Text, markers and styles as JSON
  gomdlive render note.md --watch         Re-render when the file changes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], gf, flags)
		},
	}

	flags.position.register(cmd)
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: "+reporter.Formats())
	cmd.Flags().IntVar(&flags.width, "width", 0, "width of rules and tables (default: terminal width)")
	cmd.Flags().BoolVar(&flags.noCaret, "no-caret", false, "do not draw the caret line")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "append transform statistics")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output (json, summary)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-render when the file changes")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", fsutil.DefaultDebounce,
		"how long --watch waits for writes to settle")

	return cmd
}

func runRender(cmd *cobra.Command, path string, gf *globalFlags, flags *renderFlags) error {
	if flags.watch && path == fsutil.StdinPath {
		return fmt.Errorf("%w: --watch needs a file, not stdin", ErrUsage)
	}
	if flags.watch && flags.debounce <= 0 {
		return fmt.Errorf("%w: --debounce must be positive", ErrUsage)
	}
	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	s, err := newSession(cmd, gf)
	if err != nil {
		return err
	}

	note, err := s.readNote(cmd, path)
	if err != nil {
		return err
	}

	opts := reporter.Options{
		Format:      format,
		Width:       flags.width,
		ShowCaret:   !flags.noCaret,
		ShowSummary: flags.summary,
		Compact:     flags.compact,
	}
	if _, err := s.report(cmd, note, &flags.position, opts); err != nil {
		return err
	}

	if !flags.watch {
		return nil
	}
	return s.watch(cmd, note, flags, opts)
}

// watch renders note again whenever its file changes, until the command
// context is cancelled.
func (s *session) watch(cmd *cobra.Command, note *fsutil.Note, flags *renderFlags, opts reporter.Options) error {
	ctx := commandContext(cmd)

	watcher, err := fsutil.NewWatcher(note.Path, flags.debounce)
	if err != nil {
		return err
	}
	defer watcher.Close()

	s.logger.Info("watching for changes", logging.FieldPath, note.Path)

	return watcher.Run(ctx, func() error {
		changed, err := note.Changed(ctx)
		if err != nil || !changed {
			return nil //nolint:nilerr // A failed stat is retried on the next event.
		}

		next, err := s.readNote(cmd, note.Path)
		if err != nil {
			// The editor may be between truncating and rewriting the file.
			s.logger.Warn("reread failed", logging.FieldPath, note.Path, logging.FieldError, err)
			return nil
		}
		note = next

		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, s.styles.FormatFileHeader(note.Path, "changed "+note.ModTime.Format(time.TimeOnly)))
		if _, err := s.report(cmd, note, &flags.position, opts); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})
}

// report transforms note and writes it in the format of opts.
func (s *session) report(
	cmd *cobra.Command, note *fsutil.Note, position *positionFlags, opts reporter.Options,
) (*reporter.Preview, error) {
	res, elapsed, err := s.transform(note, position)
	if err != nil {
		return nil, err
	}

	opts.Writer = s.out
	opts.Color = s.cfg.Color
	rep, err := reporter.New(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	preview := &reporter.Preview{
		Path:    displayPath(note.Path),
		Source:  note.Content,
		Result:  res,
		Elapsed: elapsed,
	}
	if err := rep.Report(commandContext(cmd), preview); err != nil {
		return nil, err
	}
	return preview, nil
}

// transform parses note, resolves the position flags against it and runs
// the transform.
func (s *session) transform(note *fsutil.Note, position *positionFlags) (*transform.Result, time.Duration, error) {
	doc := s.transformer.Parse(note.Content)
	s.reportFrontmatter(note.Path, doc)

	sel, err := position.resolve(doc, s.cfg.Caret)
	if err != nil {
		return nil, 0, err
	}

	start := time.Now()
	res, err := s.transformer.Transform(note.Content, sel)
	elapsed := time.Since(start)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrTransform, displayPath(note.Path), err)
	}

	s.logger.Debug("rendered",
		logging.FieldPath, note.Path,
		logging.FieldSelection, formatSelection(sel),
		logging.FieldMarkers, len(res.Markers),
		logging.FieldStyles, len(res.Styles),
		logging.FieldElapsed, elapsed)

	return res, elapsed, nil
}

func formatSelection(sel mdast.Selection) string {
	if sel.Collapsed() {
		return fmt.Sprintf("%d", sel.Start)
	}
	return fmt.Sprintf("%d:%d", sel.Start, sel.End)
}
