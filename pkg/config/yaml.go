package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation of written configuration files.
const yamlIndent = 2

//nolint:gochecknoglobals // Read-only lookup table.
var sectionComments = map[string]string{
	"dialect":   "# Obsidian syntax extensions. CommonMark core syntax is always on.",
	"render":    "# Replacement text for rendered decorations",
	"log_level": "# Log level: debug, info, warn or error",
}

// Decode applies the YAML document data over c. Keys absent from data keep
// their current values, so files can be layered.
func (c *Config) Decode(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// FromYAML parses a configuration over the defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.Decode(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToYAML encodes c with a comment above each section. A non-empty header
// opens the document, followed by a blank line.
func (c *Config) ToYAML(header string) ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var node yaml.Node
	if err := node.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	mapping := &node
	if mapping.Kind == yaml.DocumentNode && len(mapping.Content) > 0 {
		mapping = mapping.Content[0]
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if comment, ok := sectionComments[mapping.Content[i].Value]; ok {
			mapping.Content[i].HeadComment = comment
		}
	}

	var buf bytes.Buffer
	if header != "" {
		buf.WriteString(header)
		if header[len(header)-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(&node); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
