package logging_test

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdlive/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"DEBUG":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"Warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.InfoLevel,
		"verbose": log.InfoLevel,
	}

	for level, want := range tests {
		t.Run(level, func(t *testing.T) {
			t.Parallel()
			logger := logging.New(level)
			require.NotNil(t, logger)
			assert.Equal(t, want, logger.GetLevel())
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug")

	logger.Debug("parse cache miss", logging.FieldBytes, 12, logging.FieldTokens, 5)
	out := buf.String()
	assert.Contains(t, out, "parse cache miss")
	assert.Contains(t, out, "bytes=12")
	assert.Contains(t, out, "tokens=5")

	buf.Reset()
	quiet := logging.NewWithWriter(&buf, "error")
	quiet.Info("hidden")
	quiet.Warn("hidden too")
	assert.Empty(t, buf.String())
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	logger := logging.NewInteractive()
	require.NotNil(t, logger)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	assert.Equal(t, "gomdlive", logger.GetPrefix())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"debug", "INFO", "warn", "warning", "error"} {
		assert.True(t, logging.ParseLevel(level), level)
	}
	for _, level := range []string{"", "trace", "fatal"} {
		assert.False(t, logging.ParseLevel(level), level)
	}
}

// The tests below swap the process-wide default and do not run in parallel.

func TestDefault_Lazy(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	logging.SetDefault(nil)
	logger := logging.Default()
	require.NotNil(t, logger)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	assert.Same(t, logger, logging.Default())
}

func TestSetDefault(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	replacement := logging.New("error")
	logging.SetDefault(replacement)
	assert.Same(t, replacement, logging.Default())
}

func TestSetLevel(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	var buf bytes.Buffer
	logging.SetDefault(logging.NewWithWriter(&buf, "info"))

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, logging.Default().GetLevel())
	logging.Default().Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	logging.SetLevel("error")
	assert.Equal(t, log.ErrorLevel, logging.Default().GetLevel())
}
