// Package config defines core configuration types for gomdlive.
// These types are pure data structures with no external dependencies on Viper or other config loaders.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Log levels accepted in LogLevel.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Color modes for terminal previews.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Dialect toggles the Obsidian syntax extensions the parser recognizes.
// CommonMark core constructs (headings, quotes, lists, fences, emphasis,
// links, code spans) are always on.
type Dialect struct {
	Hashtags      bool `json:"hashtags" yaml:"hashtags"`
	Highlight     bool `json:"highlight" yaml:"highlight"`
	Strikethrough bool `json:"strikethrough" yaml:"strikethrough"`
	Comments      bool `json:"comments" yaml:"comments"`
	Callouts      bool `json:"callouts" yaml:"callouts"`
	Math          bool `json:"math" yaml:"math"`
	Footnotes     bool `json:"footnotes" yaml:"footnotes"`
	Embeds        bool `json:"embeds" yaml:"embeds"`
	InternalLinks bool `json:"internal_links" yaml:"internal_links"`
	BlockIDs      bool `json:"block_ids" yaml:"block_ids"`
	Autolinks     bool `json:"autolinks" yaml:"autolinks"`
	Frontmatter   bool `json:"frontmatter" yaml:"frontmatter"`
}

// NewDialect returns the full Obsidian dialect.
func NewDialect() Dialect {
	return Dialect{
		Hashtags:      true,
		Highlight:     true,
		Strikethrough: true,
		Comments:      true,
		Callouts:      true,
		Math:          true,
		Footnotes:     true,
		Embeds:        true,
		InternalLinks: true,
		BlockIDs:      true,
		Autolinks:     true,
		Frontmatter:   true,
	}
}

// dialectFeatures lists the feature names accepted by Dialect.Set, in the
// order of the yaml keys.
//
//nolint:gochecknoglobals // Read-only lookup table.
var dialectFeatures = []string{
	"hashtags", "highlight", "strikethrough", "comments", "callouts", "math",
	"footnotes", "embeds", "internal_links", "block_ids", "autolinks", "frontmatter",
}

// DialectFeatures returns the names of the toggleable dialect features.
func DialectFeatures() []string {
	return append([]string(nil), dialectFeatures...)
}

// field returns the toggle for a feature name, or nil.
func (d *Dialect) field(name string) *bool {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "_")) {
	case "hashtags":
		return &d.Hashtags
	case "highlight":
		return &d.Highlight
	case "strikethrough":
		return &d.Strikethrough
	case "comments":
		return &d.Comments
	case "callouts":
		return &d.Callouts
	case "math":
		return &d.Math
	case "footnotes":
		return &d.Footnotes
	case "embeds":
		return &d.Embeds
	case "internal_links":
		return &d.InternalLinks
	case "block_ids":
		return &d.BlockIDs
	case "autolinks":
		return &d.Autolinks
	case "frontmatter":
		return &d.Frontmatter
	default:
		return nil
	}
}

// Set turns the named feature on or off. Names match the yaml keys; dashes
// are accepted in place of underscores.
func (d *Dialect) Set(name string, on bool) error {
	f := d.field(name)
	if f == nil {
		return fmt.Errorf("unknown dialect feature %q", name)
	}
	*f = on
	return nil
}

// Enabled reports whether the named feature is on. Unknown names are off.
func (d Dialect) Enabled(name string) bool {
	f := d.field(name)
	return f != nil && *f
}

// Render controls how decorations are replaced in transformed text.
type Render struct {
	// EmbedPlaceholder prefixes the target of an embed ("![[x]]" -> "📎 x").
	EmbedPlaceholder string `json:"embed_placeholder" yaml:"embed_placeholder"`

	// BulletGlyph replaces unordered list bullets. Empty keeps the bullet.
	BulletGlyph string `json:"bullet_glyph" yaml:"bullet_glyph"`

	// TaskOpenGlyph replaces "[ ]" task boxes.
	TaskOpenGlyph string `json:"task_open_glyph" yaml:"task_open_glyph"`

	// TaskDoneGlyph replaces "[x]" task boxes.
	TaskDoneGlyph string `json:"task_done_glyph" yaml:"task_done_glyph"`

	// HideFrontmatter hides the whole frontmatter block instead of only its fences.
	HideFrontmatter bool `json:"hide_frontmatter" yaml:"hide_frontmatter"`
}

// NewRender returns the default render settings.
func NewRender() Render {
	return Render{
		EmbedPlaceholder: "📎 ",
		BulletGlyph:      "•",
		TaskOpenGlyph:    "☐",
		TaskDoneGlyph:    "☑",
	}
}

// Config is the root configuration structure for gomdlive.
type Config struct {
	// Dialect selects the recognized syntax.
	Dialect Dialect `json:"dialect" yaml:"dialect"`

	// Render controls marker replacements.
	Render Render `json:"render" yaml:"render"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// CLI-level options (not persisted to config files).

	// Color selects terminal color output: auto, always or never.
	Color string `json:"-" yaml:"-"`

	// Caret is the caret offset used by preview commands. Negative means none.
	Caret int `json:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Dialect:  NewDialect(),
		Render:   NewRender(),
		LogLevel: LogLevelWarn,
		Color:    ColorAuto,
		Caret:    -1,
	}
}

// Validate checks field values and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.LogLevel) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, "":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever, "":
	default:
		errs = append(errs, fmt.Errorf("color: unknown mode %q", c.Color))
	}

	return errors.Join(errs...)
}
