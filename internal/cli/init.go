package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdlive/internal/configloader"
	"github.com/yaklabco/gomdlive/internal/logging"
	"github.com/yaklabco/gomdlive/pkg/config"
	"github.com/yaklabco/gomdlive/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force    bool
	resolved bool
	format   string
	output   string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gomdlive configuration file",
		Long: `Create a new .gomdlive.yml configuration file in the current directory
holding the default dialect and render settings.

Examples:
  gomdlive init                      Create .gomdlive.yml
  gomdlive init --format json        Create .gomdlive.json instead
  gomdlive init --resolved           Write the settings currently in effect
  gomdlive init --output custom.yml  Write to a custom file path

Environment variables override the file:
` + configloader.EnvHelp(),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.resolved, "resolved", false,
		"Write the configuration resolved from existing files and environment")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .gomdlive.yml or .gomdlive.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	// Validate format
	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrUsage, flags.format)
	}
	if flags.resolved && flags.format != "yaml" {
		return fmt.Errorf("%w: --resolved writes yaml only", ErrUsage)
	}

	// Determine output path
	outputPath := flags.output
	if outputPath == "" {
		if flags.format == "json" {
			outputPath = ".gomdlive.json"
		} else {
			outputPath = ".gomdlive.yml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	if flags.resolved {
		loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
			WorkingDir: filepath.Dir(absPath),
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}
		if err := configloader.WriteConfig(commandContext(cmd), loadResult.Config, absPath, true); err != nil {
			return err
		}
	} else {
		content, err := config.GenerateTemplate(config.TemplateOptions{Format: flags.format})
		if err != nil {
			return fmt.Errorf("generate template: %w", err)
		}
		if err := fsutil.WriteAtomic(commandContext(cmd), absPath, content, 0); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'gomdlive render --help' to preview a note with it")

	return nil
}
