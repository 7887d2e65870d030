package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdlive/internal/ui/pretty"
	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/reporter"
)

func newTreeCommand(gf *globalFlags) *cobra.Command {
	var (
		validate bool
		at       string
	)

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the parse tree of a note",
		Long: `Print the syntax tree of a note, one node per line with its byte range and
attributes. Use "-" to read the note from stdin.

With --at only the nodes holding that position are printed, outermost first.

Examples:
  gomdlive tree note.md
  gomdlive tree note.md --at 3:7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, gf)
			if err != nil {
				return err
			}
			note, err := s.readNote(cmd, args[0])
			if err != nil {
				return err
			}

			doc := s.transformer.Parse(note.Content)
			s.reportFrontmatter(note.Path, doc)

			if validate {
				if err := mdast.Validate(doc.Root, len(doc.Content)); err != nil {
					return fmt.Errorf("%w: %s: %w", ErrTransform, displayPath(note.Path), err)
				}
			}

			if at != "" {
				offset, err := parseCursor(doc, at)
				if err != nil {
					return err
				}
				fmt.Fprint(s.out, mdast.DumpChain(mdast.Covering(doc.Root, offset), doc.Content))
				return nil
			}

			fmt.Fprint(s.out, mdast.Dump(doc.Root, doc.Content))
			return nil
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "check node ranges before printing")
	cmd.Flags().StringVar(&at, "at", "", "print only the nodes holding a byte offset (42) or line:column (3:7)")

	return cmd
}

func newTokensCommand(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the lexer tokens of a note",
		Long: `Print the token stream of a note as a table, one token per row and one group
per line. Use "-" to read the note from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, gf)
			if err != nil {
				return err
			}
			note, err := s.readNote(cmd, args[0])
			if err != nil {
				return err
			}

			doc := s.transformer.Parse(note.Content)
			table := pretty.NewTableFormatter(s.styles, s.colorEnabled, pretty.TerminalWidth(s.out))
			fmt.Fprint(s.out, table.FormatTokenTable(doc.Content, doc.Tokens))
			return nil
		},
	}
}

func newMarkersCommand(gf *globalFlags) *cobra.Command {
	flags := &positionFlags{}

	cmd := &cobra.Command{
		Use:     "markers FILE",
		Aliases: []string{"map"},
		Short:   "List the markers a transform applies",
		Long: `List the markers hidden or replaced for the given caret or selection: the
source range, where it lands in the preview, the hidden text and what it is
shown as. Use "-" to read the note from stdin.

Examples:
  gomdlive markers note.md
  gomdlive markers note.md --cursor 2:4   Markers next to the caret stay visible`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, gf)
			if err != nil {
				return err
			}
			note, err := s.readNote(cmd, args[0])
			if err != nil {
				return err
			}

			_, err = s.report(cmd, note, flags, reporter.Options{Format: reporter.FormatTable})
			return err
		},
	}

	flags.register(cmd)

	return cmd
}
