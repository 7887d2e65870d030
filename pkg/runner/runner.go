package runner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdlive/pkg/transform"
)

// Runner checks the notes of a vault with a pool of workers. Each worker
// owns a transformer.
type Runner struct {
	logger *log.Logger
}

// New creates a Runner. A nil logger discards messages.
func New(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{logger: logger}
}

// Run discovers the notes under opts.Paths and checks them concurrently.
// Outcomes are ordered by path.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	opts.WorkingDir = workDir

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	index, err := r.buildIndex(ctx, opts)
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	r.logger.Debug("checking vault",
		"working_dir", workDir,
		"files", len(files),
		"jobs", jobs,
		"index", index.Len())

	cfg := opts.effectiveConfig()
	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checker := &noteChecker{
				transformer: transform.New(transform.WithConfig(cfg), transform.WithLogger(r.logger)),
				index:       index,
				skipLinks:   opts.SkipLinks,
			}
			r.worker(ctx, workDir, checker, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

// buildIndex indexes every note of the vault, so links resolve even when
// only part of it is checked.
func (r *Runner) buildIndex(ctx context.Context, opts Options) (*Index, error) {
	if opts.SkipLinks {
		return NewIndex(opts.WorkingDir, nil, opts.effectiveExtensions()), nil
	}

	all, err := Discover(ctx, Options{
		WorkingDir:     opts.WorkingDir,
		Extensions:     opts.Extensions,
		FollowSymlinks: opts.FollowSymlinks,
	})
	if err != nil {
		return nil, fmt.Errorf("index vault: %w", err)
	}
	return NewIndex(opts.WorkingDir, all, opts.effectiveExtensions()), nil
}

func (r *Runner) worker(
	ctx context.Context,
	workDir string,
	checker *noteChecker,
	workCh <-chan string,
	outCh chan<- FileOutcome,
) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		rel, err := filepath.Rel(workDir, path)
		if err != nil {
			rel = path
		}

		outcome := checker.check(ctx, path, rel)
		if outcome.Error != nil {
			r.logger.Debug("check failed", "path", rel, "error", outcome.Error)
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
