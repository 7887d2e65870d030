package config_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdlive/pkg/config"
)

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var cfg *config.Config
		data, err := cfg.ToYAML("")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("default config serializes", func(t *testing.T) {
		t.Parallel()

		data, err := config.NewConfig().ToYAML("")
		require.NoError(t, err)
		assert.Contains(t, string(data), "log_level: warn")
		assert.Contains(t, string(data), "  internal_links: true")
		assert.NotContains(t, string(data), "caret")
	})

	t.Run("sections are commented", func(t *testing.T) {
		t.Parallel()

		data, err := config.NewConfig().ToYAML("")
		require.NoError(t, err)
		assert.Contains(t, string(data), "# Obsidian syntax extensions")
		assert.Contains(t, string(data), "# Log level: debug, info, warn or error\nlog_level: warn")
	})

	t.Run("header is prepended", func(t *testing.T) {
		t.Parallel()

		data, err := config.NewConfig().ToYAML("# header")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "# header\n\n"))
	})
}

func TestConfigDecode_Layers(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	require.NoError(t, cfg.Decode([]byte("dialect:\n  math: false\n")))
	require.NoError(t, cfg.Decode([]byte("render:\n  bullet_glyph: \"-\"\n")))

	assert.False(t, cfg.Dialect.Math)
	assert.True(t, cfg.Dialect.Hashtags)
	assert.Equal(t, "-", cfg.Render.BulletGlyph)

	err := cfg.Decode([]byte("render: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestFromYAML(t *testing.T) {
	t.Run("parses valid YAML", func(t *testing.T) {
		data := []byte(`
log_level: debug
dialect:
  hashtags: false
render:
  bullet_glyph: "*"
`)
		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, config.LogLevelDebug, cfg.LogLevel)
		assert.False(t, cfg.Dialect.Hashtags)
		assert.Equal(t, "*", cfg.Render.BulletGlyph)
	})

	t.Run("missing keys keep defaults", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte(`log_level: info`))
		require.NoError(t, err)
		assert.Equal(t, config.NewDialect(), cfg.Dialect)
		assert.Equal(t, config.NewRender(), cfg.Render)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		_, err := config.FromYAML([]byte("dialect: [unclosed"))
		require.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		original := config.NewConfig()
		original.Render.HideFrontmatter = true

		data, err := original.ToYAML(config.DefaultTemplateHeader())
		require.NoError(t, err)

		parsed, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, original.Render, parsed.Render)
		assert.Equal(t, original.Dialect, parsed.Dialect)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{name: "bad level", mutate: func(c *config.Config) { c.LogLevel = "loud" }, wantErr: "log_level"},
		{name: "bad color", mutate: func(c *config.Config) { c.Color = "rainbow" }, wantErr: "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	yamlTemplate, err := config.GenerateTemplate(config.TemplateOptions{})
	require.NoError(t, err)

	cfg, err := config.FromYAML(yamlTemplate)
	require.NoError(t, err)
	assert.Equal(t, config.NewDialect(), cfg.Dialect)
	assert.Equal(t, config.NewRender(), cfg.Render)

	jsonTemplate, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jsonTemplate, &decoded))
	assert.Contains(t, decoded, "dialect")
}
