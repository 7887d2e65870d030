// Package langdetect resolves the language of fenced code blocks.
// Info strings are normalized through go-enry's alias table; blocks without
// an info string are classified from their content.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language identifiers returned by the package.
const (
	langGo         = "go"
	langPython     = "python"
	langJavaScript = "javascript"
	langJSON       = "json"
	langYAML       = "yaml"
	langHTML       = "html"
	langSQL        = "sql"
	langRust       = "rust"
	langDockerfile = "dockerfile"
	langText       = "text"
	langBash       = "bash"
)

// Fence languages rendered by the editor itself rather than highlighted.
// They are returned unchanged.
//
//nolint:gochecknoglobals // Read-only lookup table.
var editorLanguages = map[string]bool{
	"mermaid":    true,
	"dataview":   true,
	"dataviewjs": true,
	"query":      true,
	"math":       true,
	"tasks":      true,
}

//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Resolve returns the language of a code block from its info string, or
// from its body when the info string is empty. The first word of the info
// string is used ("go title=x" resolves as "go"). Unknown info words are
// returned lower-cased.
func Resolve(info string, body []byte) string {
	word, _, _ := strings.Cut(strings.TrimSpace(info), " ")
	word = strings.TrimPrefix(strings.Trim(word, "{}"), ".")
	if word == "" {
		return Detect(body)
	}

	lower := strings.ToLower(word)
	if editorLanguages[lower] {
		return lower
	}
	if lang, ok := enry.GetLanguageByAlias(lower); ok {
		return normalize(lang)
	}
	return lower
}

// Detect returns the detected language for code content.
// Returns "text" if detection fails or confidence is low.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return langText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return langText
}

// pattern is a cheap content check that is highly indicative of a language.
type pattern struct {
	lang  string
	match func(content, trimmed []byte, text string) bool
}

// Patterns in order of specificity.
//
//nolint:gochecknoglobals // Read-only pattern table.
var patterns = []pattern{
	{langGo, func(_, trimmed []byte, _ string) bool {
		return bytes.HasPrefix(trimmed, []byte("package "))
	}},
	{langPython, func(_, _ []byte, text string) bool {
		return isPython(text)
	}},
	{langHTML, func(_, trimmed []byte, _ string) bool {
		lower := bytes.ToLower(trimmed)
		return containsAny(lower, "<!doctype html", "<html", "<head>", "<body>")
	}},
	{langJSON, func(_, trimmed []byte, _ string) bool {
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`"`))
	}},
	{langDockerfile, func(content, trimmed []byte, _ string) bool {
		return bytes.HasPrefix(trimmed, []byte("FROM ")) ||
			containsAll(content, "\nFROM ", "\nRUN ") ||
			containsAll(content, "WORKDIR ", "COPY ")
	}},
	{langSQL, func(_, _ []byte, text string) bool {
		upper := strings.ToUpper(strings.TrimSpace(text))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{langRust, func(content, _ []byte, _ string) bool {
		return containsAny(content, "fn main()", "println!", "let mut ")
	}},
	{langJavaScript, func(content, _ []byte, _ string) bool {
		return containsAny(content, "=>", "const ", "let ", "console.log")
	}},
	{langYAML, func(content, _ []byte, _ string) bool {
		return yamlKeyCount(content) >= 2
	}},
}

func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	text := string(content)

	for _, p := range patterns {
		if p.match(content, trimmed, text) {
			return p.lang
		}
	}
	return ""
}

func isPython(text string) bool {
	if strings.Contains(text, "def ") && strings.Contains(text, "):") {
		return true
	}
	// Go uses "import (".
	if strings.Contains(text, "import ") && !strings.Contains(text, "import (") &&
		(strings.Contains(text, "from ") || strings.HasPrefix(strings.TrimSpace(text), "import ")) {
		return true
	}
	return strings.Contains(text, "__name__") || strings.Contains(text, "__main__")
}

// yamlKeyCount counts "key: value" lines and root list items, ignoring
// lines that look like code.
func yamlKeyCount(content []byte) int {
	count := 0
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !containsAny(line, "(", "{") && line[0] != '"' {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count
}

func containsAny(b []byte, subs ...string) bool {
	for _, s := range subs {
		if bytes.Contains(b, []byte(s)) {
			return true
		}
	}
	return false
}

func containsAll(b []byte, subs ...string) bool {
	for _, s := range subs {
		if !bytes.Contains(b, []byte(s)) {
			return false
		}
	}
	return true
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(lang)
}
