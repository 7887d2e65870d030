package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdlive/internal/logging"
	"github.com/yaklabco/gomdlive/pkg/config"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the version, commit and build date of gomdlive, the Go version it was
built with and the dialect features it knows. --short prints the version only.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return
			}

			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{})
			logger.Info("gomdlive",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				"go", runtime.Version(),
				"platform", runtime.GOOS+"/"+runtime.GOARCH,
				"features", strings.Join(config.DialectFeatures(), ","),
			)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print the version only")

	return cmd
}
