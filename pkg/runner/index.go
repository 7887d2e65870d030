package runner

import (
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// Index resolves internal link targets against the notes of a vault. A
// target matches a note by its vault-relative path or by its base name,
// without extension and under Unicode case folding.
type Index struct {
	extensions []string
	names      map[string]struct{}
}

// NewIndex indexes files, absolute note paths below root.
func NewIndex(root string, files []string, extensions []string) *Index {
	idx := &Index{
		extensions: extensions,
		names:      make(map[string]struct{}, 2*len(files)),
	}
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			rel = f
		}
		key := idx.key(filepath.ToSlash(rel))
		idx.names[key] = struct{}{}
		idx.names[path.Base(key)] = struct{}{}
	}
	return idx
}

// Len returns the number of indexed keys.
func (x *Index) Len() int {
	return len(x.names)
}

// Resolve reports whether target names a note of the vault. Targets with
// an extension other than a note extension are attachments: checked is
// false for them and they are not resolved.
func (x *Index) Resolve(target string) (found, checked bool) {
	target = strings.TrimSpace(filepath.ToSlash(target))
	target = strings.TrimLeft(strings.TrimPrefix(target, "./"), "/")
	if target == "" {
		return false, false
	}
	if isAttachment(target, x.extensions) {
		return false, false
	}
	_, found = x.names[x.key(target)]
	return found, true
}

func (x *Index) key(rel string) string {
	if hasExtension(rel, x.extensions) {
		rel = strings.TrimSuffix(rel, path.Ext(rel))
	}
	return fold(rel)
}

// fold returns the case folded form of s. A Caser is stateful, so each call
// gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// isAttachment reports whether target ends in a file extension other than a
// note extension. "Release 1.2" has no extension: an extension is a short
// run of letters and digits holding a letter.
func isAttachment(target string, extensions []string) bool {
	const maxExtLen = 5

	ext := strings.TrimPrefix(path.Ext(target), ".")
	if ext == "" || len(ext) > maxExtLen || hasExtension(target, extensions) {
		return false
	}
	letter := false
	for _, r := range ext {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return letter
}
