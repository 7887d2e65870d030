package config

import (
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate returns a configuration file holding the default values,
// as commented YAML or as JSON.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}

	return NewConfig().ToYAML(DefaultTemplateHeader())
}

// templateToJSON renders the defaults as indented JSON.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	jsonBytes, err := json.MarshalIndent(map[string]any{
		"log_level": cfg.LogLevel,
		"dialect":   cfg.Dialect,
		"render":    cfg.Render,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gomdlive configuration
# See: https://github.com/yaklabco/gomdlive`
}
