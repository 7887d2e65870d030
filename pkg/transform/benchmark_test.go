package transform_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/gomdlive/pkg/mdast"
	"github.com/yaklabco/gomdlive/pkg/transform"
)

const benchNote = `---
tags: [bench]
---
# Heading with **bold** and ==highlight==

> [!tip] Callout title
> Body with [[Internal Link|alias]] and #hashtag.

- [ ] open task with ` + "`code`" + `
- [x] done task with $x^2$
1. ordered *item* ^block-id

%%hidden comment%% text with a footnote[^1] and ![[image.png]].

[^1]: The footnote.
`

func BenchmarkTransform(b *testing.B) {
	text := strings.Repeat(benchNote, 20)
	sel := mdast.Caret(len(text) / 2)
	b.ResetTimer()
	for range b.N {
		// A new transformer per iteration defeats the parse cache.
		if _, err := transform.New().Transform(text, sel); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTransformCached(b *testing.B) {
	text := strings.Repeat(benchNote, 20)
	tr := transform.New()
	b.ResetTimer()
	for i := range b.N {
		if _, err := tr.Transform(text, mdast.Caret(i%len(text))); err != nil {
			b.Fatal(err)
		}
	}
}
