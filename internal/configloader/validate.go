package configloader

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomdlive/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "render.bullet_glyph").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown fields).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownLogLevels lists valid log level values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	config.LogLevelDebug: true,
	config.LogLevelInfo:  true,
	config.LogLevelWarn:  true,
	config.LogLevelError: true,
}

// knownColorModes lists valid color mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownColorModes = map[string]bool{
	config.ColorAuto:   true,
	config.ColorAlways: true,
	config.ColorNever:  true,
}

// knownKeys lists the keys accepted in config files, by section.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownKeys = map[string][]string{
	"":        {"log_level", "dialect", "render"},
	"dialect": config.DialectFeatures(),
	"render":  {"embed_placeholder", "bullet_glyph", "task_open_glyph", "task_done_glyph", "hide_frontmatter"},
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.LogLevel != "" && !knownLogLevels[strings.ToLower(cfg.LogLevel)] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	if cfg.Color != "" && !knownColorModes[cfg.Color] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	validateRender(cfg.Render, result)

	return result
}

// validateRender checks the replacement glyphs. Replacements are inline text
// and must stay on one line.
func validateRender(render config.Render, result *ValidationResult) {
	glyphs := []struct {
		field string
		value string
	}{
		{"render.embed_placeholder", render.EmbedPlaceholder},
		{"render.bullet_glyph", render.BulletGlyph},
		{"render.task_open_glyph", render.TaskOpenGlyph},
		{"render.task_done_glyph", render.TaskDoneGlyph},
	}

	for _, g := range glyphs {
		if strings.ContainsAny(g.value, "\r\n") {
			result.Errors = append(result.Errors, ValidationError{
				Field:   g.field,
				Value:   g.value,
				Message: "must not contain line breaks",
			})
		}
	}

	if render.TaskOpenGlyph != "" && render.TaskOpenGlyph == render.TaskDoneGlyph {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "render.task_done_glyph",
			Value:   render.TaskDoneGlyph,
			Message: "open and done task glyphs are identical; checked state will not be visible",
		})
	}
}

// checkKeys reports keys of a YAML document that no config field reads.
func checkKeys(content []byte) []ValidationError {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil || len(doc.Content) == 0 {
		return nil
	}

	var warnings []ValidationError
	var walk func(section string, node *yaml.Node)
	walk = func(section string, node *yaml.Node) {
		if node.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			field := key.Value
			if section != "" {
				field = section + "." + key.Value
			}

			if !slices.Contains(knownKeys[section], key.Value) {
				warnings = append(warnings, ValidationError{
					Field:   field,
					Value:   key.Value,
					Message: "unknown key; it will be ignored",
					Line:    key.Line,
				})
				continue
			}
			if _, isSection := knownKeys[key.Value]; isSection && section == "" {
				walk(key.Value, node.Content[i+1])
			}
		}
	}
	walk("", doc.Content[0])

	return warnings
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidLogLevel returns true if the log level is valid.
func IsValidLogLevel(level string) bool {
	return knownLogLevels[strings.ToLower(level)]
}

// IsValidColorMode returns true if the color mode is valid.
func IsValidColorMode(mode string) bool {
	return knownColorModes[mode]
}
