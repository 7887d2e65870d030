package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdlive/internal/logging"
	"github.com/yaklabco/gomdlive/pkg/export"
	"github.com/yaklabco/gomdlive/pkg/fsutil"
	"github.com/yaklabco/gomdlive/pkg/parser"
)

// exportFlags holds the flags for the export command.
type exportFlags struct {
	flavor     string
	linkSuffix string
	standalone bool
	output     string
}

func newExportCommand(gf *globalFlags) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Convert a note to HTML",
		Long: `Convert a note to HTML. Internal links become links to "<note><suffix>",
image embeds become images, highlights become <mark>, callout headers become
bold titles and comments are dropped. Use "-" to read the note from stdin.

Examples:
  gomdlive export note.md                         HTML fragment on stdout
  gomdlive export note.md --standalone -o note.html
  gomdlive export note.md --flavor commonmark --link-suffix ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], gf, flags)
		},
	}

	cmd.Flags().StringVar(&flags.flavor, "flavor", export.FlavorGFM, "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.linkSuffix, "link-suffix", export.DefaultLinkSuffix,
		"suffix appended to internal link targets")
	cmd.Flags().BoolVar(&flags.standalone, "standalone", false, "write a complete HTML page")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, path string, gf *globalFlags, flags *exportFlags) error {
	if flags.flavor != export.FlavorGFM && flags.flavor != export.FlavorCommonMark {
		return fmt.Errorf("%w: unknown flavor %q: must be commonmark or gfm", ErrUsage, flags.flavor)
	}

	s, err := newSession(cmd, gf)
	if err != nil {
		return err
	}
	note, err := s.readNote(cmd, path)
	if err != nil {
		return err
	}

	p := parser.New(parser.WithDialect(s.cfg.Dialect))
	s.reportFrontmatter(note.Path, p.Parse(note.Content))

	exporter := export.New(
		export.WithParser(p),
		export.WithFlavor(flags.flavor),
		export.WithLinkSuffix(flags.linkSuffix),
		export.WithStandalone(flags.standalone),
	)

	ctx := commandContext(cmd)
	if flags.output == "" {
		return exporter.Convert(ctx, note.Content, s.out)
	}

	var buf bytes.Buffer
	if err := exporter.Convert(ctx, note.Content, &buf); err != nil {
		return err
	}
	if err := fsutil.WriteAtomic(ctx, flags.output, buf.Bytes(), fsutil.DefaultFileMode); err != nil {
		return err
	}

	s.logger.Info("exported", logging.FieldInput, displayPath(note.Path), logging.FieldOutput, flags.output)
	return nil
}
