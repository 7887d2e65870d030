package parser_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/gomdlive/pkg/parser"
)

func BenchmarkParse(b *testing.B) {
	text := strings.Repeat("# Title\n\nSome **bold**, [[link]] and `code`.\n\n> quote\n\n- item\n", 50)
	p := parser.New()
	b.ResetTimer()
	for range b.N {
		p.Parse(text)
	}
}
