// Command gomdlive previews Obsidian-flavoured Markdown notes in the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaklabco/gomdlive/internal/cli"
	"github.com/yaklabco/gomdlive/internal/logging"
)

// Set with -ldflags "-X main.version=..." by the stavefile build targets.
//
//nolint:gochecknoglobals // ldflags injection needs package variables.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date}).ExecuteContext(ctx)
	if err == nil {
		return cli.ExitSuccess
	}
	if !cli.IsReported(err) {
		logging.Default().Error("gomdlive failed", logging.FieldError, err)
	}
	return cli.ExitCode(err)
}
