// Package logging configures the charmbracelet/log loggers of the gomdlive
// command line.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Process-wide default logger.
var defaultLogger atomic.Pointer[log.Logger]

//nolint:gochecknoglobals // Read-only lookup table.
var levels = map[string]log.Level{
	"debug":   log.DebugLevel,
	"info":    log.InfoLevel,
	"warn":    log.WarnLevel,
	"warning": log.WarnLevel,
	"error":   log.ErrorLevel,
}

// New returns a logger writing to stderr at level. Unknown levels mean
// info.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a logger writing to w at level.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{})
	logger.SetLevel(levelOf(level))
	return logger
}

// NewInteractive returns an info logger prefixed with the program name,
// for commands that talk to a user rather than report on notes.
func NewInteractive() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "gomdlive"})
	logger.SetLevel(log.InfoLevel)
	return logger
}

// ParseLevel reports whether level names a known level.
func ParseLevel(level string) bool {
	_, ok := levels[strings.ToLower(level)]
	return ok
}

// Default returns the process-wide logger, creating an info logger on
// first use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(levelOf(level))
}

func levelOf(level string) log.Level {
	if l, ok := levels[strings.ToLower(level)]; ok {
		return l
	}
	return log.InfoLevel
}
