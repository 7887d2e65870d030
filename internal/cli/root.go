// Package cli provides the Cobra command structure for gomdlive.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdlive/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	logLevel   string
	configPath string
	color      string
	enable     []string
	disable    []string
}

// NewRootCommand creates the root gomdlive command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gomdlive",
		Short: "Live preview of Obsidian-flavoured Markdown in the terminal",
		Long: `gomdlive renders Obsidian-flavoured Markdown the way a live-preview editor
shows it: syntax markers are hidden or replaced everywhere except around the
caret, and the remaining text is styled.

Besides the preview it can show the parse tree, the lexer tokens, the markers
a transform applies, a line diff between source and preview, export a note to
HTML and check every note of a vault.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			switch {
			case flags.debug:
				logging.SetLevel("debug")
			case flags.logLevel != "":
				logging.SetLevel(flags.logLevel)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "",
		"log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringSliceVar(&flags.enable, "enable", nil,
		"dialect features to turn on (e.g. hashtags,math)")
	rootCmd.PersistentFlags().StringSliceVar(&flags.disable, "disable", nil,
		"dialect features to turn off")

	// Cobra strips flags before it resolves the subcommand, and only knows
	// --help is a bool once it exists; without it "--help --config x"
	// takes "x" for a command name.
	rootCmd.InitDefaultHelpFlag()

	// Add subcommands.
	addGrouped(rootCmd, groupPreview,
		newRenderCommand(flags), newDiffCommand(flags), newExportCommand(flags))
	addGrouped(rootCmd, groupInspect,
		newTreeCommand(flags), newTokensCommand(flags), newMarkersCommand(flags))
	addGrouped(rootCmd, groupVault, newCheckCommand(flags))
	rootCmd.AddCommand(newInitCommand(), newVersionCommand(info))

	applyHelp(rootCmd, func() string { return flags.color })

	return rootCmd
}

func addGrouped(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = group
		root.AddCommand(cmd)
	}
}
