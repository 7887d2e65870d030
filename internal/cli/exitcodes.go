package cli

import (
	"errors"

	"github.com/yaklabco/gomdlive/pkg/fsutil"
)

// Exit codes for gomdlive.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates a failure without a more specific code.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates input that cannot be previewed.
	ExitDataError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 78
)

var (
	// ErrUsage marks errors in command-line arguments.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration loading errors.
	ErrConfig = errors.New("failed to load configuration")

	// ErrTransform marks processor invariant violations during a transform.
	ErrTransform = errors.New("transform failed")

	// ErrPreviewDiffers signals "diff --exit-code" found differences. It is
	// not logged.
	ErrPreviewDiffers = errors.New("preview differs from source")

	// ErrIssuesFound signals that check found errors, or warnings with
	// --strict. It is not logged.
	ErrIssuesFound = errors.New("check found issues")
)

// IsReported reports whether err only selects the exit code because the
// command already printed its findings.
func IsReported(err error) bool {
	return errors.Is(err, ErrPreviewDiffers) || errors.Is(err, ErrIssuesFound)
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage), errors.Is(err, ErrInvalidPosition):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrBinary):
		return ExitDataError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	case errors.Is(err, ErrTransform):
		return ExitInternalError
	default:
		return ExitFailure
	}
}
