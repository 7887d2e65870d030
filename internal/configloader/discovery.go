package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// VaultMarker is the directory Obsidian keeps at the root of a vault.
const VaultMarker = ".obsidian"

// ConfigPaths holds the configuration files found for a working directory.
// Empty fields mean nothing was found.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string

	// Vault is the vault root enclosing the working directory, if the
	// upward search reached one.
	Vault string
}

//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigNames = []string{".gomdlive.yml", ".gomdlive.yaml", "gomdlive.yml", "gomdlive.yaml"}

//nolint:gochecknoglobals // Read-only lookup table.
var globalConfigNames = []string{"config.yaml", "config.yml"}

// repoMarkers end the upward search like a vault root does.
//
//nolint:gochecknoglobals // Read-only lookup table.
var repoMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds the system, user and project configuration for
// workDir. The system file lives in /etc/gomdlive (%ProgramData%\gomdlive
// on Windows), the user file in $XDG_CONFIG_HOME/gomdlive.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, vault, err := searchUp(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), globalConfigNames),
		User:    firstFile(userConfigDir(), globalConfigNames),
		Project: project,
		Vault:   vault,
	}, nil
}

// searchUp walks from startDir towards the root looking for a project
// config. The walk ends at a vault or repository root, the home directory
// or the filesystem root; the vault root is returned when one was met.
func searchUp(ctx context.Context, startDir string) (string, string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", "", fmt.Errorf("resolve %s: %w", startDir, err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", "", fmt.Errorf("discover config: %w", err)
		}

		vault := ""
		if isDir(filepath.Join(dir, VaultMarker)) {
			vault = dir
		}
		if path := firstFile(dir, projectConfigNames); path != "" {
			return path, vault, nil
		}
		if vault != "" {
			return "", vault, nil
		}

		parent := filepath.Dir(dir)
		if isRepoRoot(dir) || dir == home || parent == dir {
			return "", "", nil
		}
		dir = parent
	}
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/gomdlive"
	}
	base := os.Getenv("ProgramData")
	if base == "" {
		base = `C:\ProgramData`
	}
	return filepath.Join(base, "gomdlive")
}

func userConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "gomdlive")
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		if path := filepath.Join(dir, name); fileExists(path) {
			return path
		}
	}
	return ""
}

func isRepoRoot(dir string) bool {
	for _, marker := range repoMarkers {
		if isDir(filepath.Join(dir, marker)) {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
