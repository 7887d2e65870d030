package fsutil

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a Watcher waits for a burst of events to
// settle before reporting a change.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to a single file. It watches the parent
// directory, so editors that save by writing a temporary file and renaming
// it over the original are seen too.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching path. Call Close to release the watch.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, debounce: debounce, watcher: w}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls onChange once per settled burst of events on the file, until
// ctx is done or onChange returns an error.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", w.path, err)

		case <-fire:
			fire = nil
			if err := onChange(); err != nil {
				return err
			}
		}
	}
}
