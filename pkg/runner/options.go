// Package runner checks every note of a vault concurrently.
package runner

import "github.com/yaklabco/gomdlive/pkg/config"

// Options controls a vault check.
type Options struct {
	// Paths are the files or directories to check. If empty, the working
	// directory is checked.
	Paths []string

	// WorkingDir is the vault root. Relative Paths, globs and link targets
	// resolve against it. If empty, the process working directory is used.
	WorkingDir string

	// Extensions is the set of note extensions (lowercase, with leading dot).
	// Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict the check to matching notes. Empty means every
	// note matching Extensions.
	IncludeGlobs []string

	// ExcludeGlobs skip matching notes and directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the maximum number of concurrent workers. 0 or negative means
	// runtime.NumCPU().
	Jobs int

	// SkipLinks disables the internal link, embed and footnote checks.
	SkipLinks bool

	// Config is the resolved configuration. Nil means config.NewConfig().
	Config *config.Config
}

// DefaultExtensions returns the default set of note extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveConfig() *config.Config {
	if o.Config == nil {
		return config.NewConfig()
	}
	return o.Config
}
