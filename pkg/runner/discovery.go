package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds the notes matching opts. It returns a sorted list of
// absolute paths without duplicates.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	w, err := newWalker(workDir, opts)
	if err != nil {
		return nil, err
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			if err := w.walk(ctx, absPath); err != nil {
				return nil, err
			}
		} else if w.matchesNote(absPath) {
			w.add(absPath)
		}
	}

	slices.Sort(w.files)
	return w.files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// walker collects notes below a vault root.
type walker struct {
	workDir        string
	extensions     []string
	include        globSet
	exclude        globSet
	followSymlinks bool

	seen  map[string]struct{}
	files []string
}

func newWalker(workDir string, opts Options) (*walker, error) {
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}
	return &walker{
		workDir:        workDir,
		extensions:     opts.effectiveExtensions(),
		include:        include,
		exclude:        exclude,
		followSymlinks: opts.FollowSymlinks,
		seen:           make(map[string]struct{}),
	}, nil
}

func (w *walker) add(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

// walk collects the notes below root. Hidden files and directories, such
// as the ".obsidian" settings folder, are skipped.
func (w *walker) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || w.exclude.matches(w.rel(path), true) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(realPath)
			if err != nil {
				return nil //nolint:nilerr // Unreadable symlink targets are skipped.
			}
			if info.IsDir() {
				if !w.followSymlinks || w.exclude.matches(w.rel(path), true) {
					return nil
				}
				// Walk the target: WalkDir does not descend into a symlinked root.
				return w.walk(ctx, realPath)
			}
		}

		if w.matchesNote(path) {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// rel returns path relative to the vault root, with forward slashes.
func (w *walker) rel(p string) string {
	rel, err := filepath.Rel(w.workDir, p)
	if err != nil {
		rel = p
	}
	return filepath.ToSlash(rel)
}

func (w *walker) matchesNote(p string) bool {
	if !hasExtension(p, w.extensions) {
		return false
	}
	rel := w.rel(p)
	if w.exclude.matches(rel, false) {
		return false
	}
	return len(w.include) == 0 || w.include.matches(rel, false)
}

func hasExtension(p string, extensions []string) bool {
	ext := filepath.Ext(p)
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// globSet is a list of compiled glob patterns. "*" stops at "/" while
// "**" crosses directories.
type globSet []glob.Glob

func compileGlobs(patterns []string) (globSet, error) {
	set := make(globSet, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		set = append(set, g)
	}
	return set, nil
}

// matches reports whether rel or its base name matches a pattern. A
// directory also matches patterns for its contents, so "drafts/**" skips
// the "drafts" directory.
func (s globSet) matches(rel string, dir bool) bool {
	base := path.Base(rel)
	for _, g := range s {
		if g.Match(rel) || g.Match(base) || dir && g.Match(rel+"/") {
			return true
		}
	}
	return false
}
