package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gomdlive/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes new file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.html")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("<p>hi</p>"), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if string(got) != "<p>hi</p>" {
			t.Errorf("content = %q", got)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != fsutil.DefaultFileMode {
			t.Errorf("mode = %v, want %v", info.Mode().Perm(), fsutil.DefaultFileMode)
		}
	})

	t.Run("overwrites and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.html")
		if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
			t.Fatal(err)
		}

		if err := fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0o600); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the target file, got %d entries", len(entries))
		}
	})

	t.Run("zero mode keeps existing mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "note.md")
		if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
			t.Fatal(err)
		}

		if err := fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("mode = %v, want 0600", info.Mode().Perm())
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nope", "out.html")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		path := filepath.Join(t.TempDir(), "out.html")
		if err := fsutil.WriteAtomic(ctx, path, []byte("x"), 0); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file should not exist")
		}
	})
}
