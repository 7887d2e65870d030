package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdlive/pkg/diff"
	"github.com/yaklabco/gomdlive/pkg/reporter"
)

func newDiffCommand(gf *globalFlags) *cobra.Command {
	flags := &positionFlags{}
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "diff FILE",
		Short: "Show a line diff between a note and its preview",
		Long: `Show a unified line diff between the source of a note and its transformed
preview text. Use "-" to read the note from stdin.`,
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

			preview, err := s.report(cmd, note, flags, reporter.Options{Format: reporter.FormatDiff})
			if err != nil {
				return err
			}
			if exitCode && diff.Compare(preview.Path, preview.Source, preview.Result.Text) != nil {
				return ErrPreviewDiffers
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with status 1 when the preview differs")

	return cmd
}
