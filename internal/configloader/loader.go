// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, layered loading,
// environment variable support and validation.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/gomdlive/pkg/config"
	"github.com/yaklabco/gomdlive/pkg/fsutil"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// If set, project config discovery is skipped.
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Overrides apply CLI flag values. They run last and take highest
	// precedence.
	Overrides []func(*config.Config)
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by layering all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.Overrides)
//  2. Environment variables (GOMDLIVE_*)
//  3. Explicit config file (opts.ExplicitPath), or
//     project config (.gomdlive.yml upward search)
//  4. User config ($XDG_CONFIG_HOME/gomdlive/config.yaml)
//  5. System config (/etc/gomdlive/config.yaml)
//  6. Defaults
//
// Each file only overrides the keys it sets, so "hashtags: false" in a
// project file turns hashtags off even though the default is on.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name string
		path string
		skip bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig || opts.ExplicitPath != ""},
		{"explicit", opts.ExplicitPath, false},
	}
	if opts.ExplicitPath != "" {
		paths.Explicit = opts.ExplicitPath
	}

	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}
		if err := applyConfigFile(cfg, layer.path, result); err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	for _, override := range opts.Overrides {
		override(cfg)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// applyConfigFile decodes a YAML file over cfg. Keys absent from the file
// keep their current values.
func applyConfigFile(cfg *config.Config, path string, result *LoadResult) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	if err := cfg.Decode(content); err != nil {
		return err
	}

	for _, w := range checkKeys(content) {
		w.FilePath = path
		result.Warnings = append(result.Warnings, w.Error())
	}

	fileResult := ValidateWithFile(cfg, path)
	if !fileResult.Valid() {
		return &fileResult.Errors[0]
	}

	return nil
}

// WriteConfig writes cfg to path as YAML with the standard header. An
// existing file is only replaced when force is set.
func WriteConfig(ctx context.Context, cfg *config.Config, path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	content, err := cfg.ToYAML(config.DefaultTemplateHeader())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return fsutil.WriteAtomic(ctx, path, content, 0)
}
