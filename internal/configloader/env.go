package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdlive/pkg/config"
)

// EnvPrefix starts every environment variable the loader reads.
const EnvPrefix = "GOMDLIVE_"

// EnvVar is one environment override.
type EnvVar struct {
	// Name is the variable name without EnvPrefix.
	Name string

	// Field is the config key it sets, as written in a config file.
	Field string

	Usage string

	apply func(cfg *config.Config, value string) error
}

func stringVar(set func(cfg *config.Config, value string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}
}

func featureVar(on bool) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		for name := range strings.SplitSeq(value, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if err := cfg.Dialect.Set(name, on); err != nil {
				return err
			}
		}
		return nil
	}
}

// envVars lists the overrides in the order they apply; DISABLE follows
// ENABLE so a feature named in both ends up off.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []EnvVar{
	{"LOG_LEVEL", "log_level", "Log level: debug, info, warn or error",
		stringVar(func(c *config.Config, v string) { c.LogLevel = v })},
	{"COLOR", "color", "Terminal colors: auto, always or never",
		stringVar(func(c *config.Config, v string) { c.Color = v })},
	{"EMBED_PLACEHOLDER", "render.embed_placeholder", "Text shown before the target of a hidden embed",
		stringVar(func(c *config.Config, v string) { c.Render.EmbedPlaceholder = v })},
	{"BULLET_GLYPH", "render.bullet_glyph", "Replacement for unordered list bullets",
		stringVar(func(c *config.Config, v string) { c.Render.BulletGlyph = v })},
	{"TASK_OPEN_GLYPH", "render.task_open_glyph", "Replacement for open task boxes",
		stringVar(func(c *config.Config, v string) { c.Render.TaskOpenGlyph = v })},
	{"TASK_DONE_GLYPH", "render.task_done_glyph", "Replacement for checked task boxes",
		stringVar(func(c *config.Config, v string) { c.Render.TaskDoneGlyph = v })},
	{"HIDE_FRONTMATTER", "render.hide_frontmatter", "Hide the whole frontmatter block: true or false",
		func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("want true or false, got %q", v)
			}
			c.Render.HideFrontmatter = b
			return nil
		}},
	{"ENABLE", "dialect", "Comma-separated dialect features to turn on", featureVar(true)},
	{"DISABLE", "dialect", "Comma-separated dialect features to turn off", featureVar(false)},
}

// EnvVars returns the supported environment overrides in the order they
// apply.
func EnvVars() []EnvVar {
	return envVars
}

// LoadFromEnv applies GOMDLIVE_* variables to cfg. Variables set to ""
// are ignored.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}
	for _, ev := range envVars {
		name := EnvPrefix + ev.Name
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		if err := ev.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// EnvHelp formats the overrides as an aligned help block.
func EnvHelp() string {
	width := 0
	for _, ev := range envVars {
		width = max(width, len(EnvPrefix+ev.Name))
	}

	var sb strings.Builder
	for _, ev := range envVars {
		fmt.Fprintf(&sb, "  %-*s  %s\n", width, EnvPrefix+ev.Name, ev.Usage)
	}
	return sb.String()
}
