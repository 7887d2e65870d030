package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// decodeFrontmatter decodes a YAML frontmatter body. An empty body yields
// an empty map.
func decodeFrontmatter(body string) (map[string]any, error) {
	values := make(map[string]any)
	if err := yaml.Unmarshal([]byte(body), &values); err != nil {
		return nil, fmt.Errorf("decode frontmatter: %w", err)
	}
	return values, nil
}
