// Package fsutil reads notes from disk or standard input and writes
// exported files atomically.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-enry/go-enry/v2"
)

// StdinPath is the path that names standard input.
const StdinPath = "-"

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrBinary indicates the file is not text.
	ErrBinary = errors.New("not a text file")
)

// Note is the content of a note and the state of its file when it was read.
type Note struct {
	// Path is the path the note was read from, or StdinPath.
	Path string

	// Content is the note text.
	Content string

	// ModTime is the file's modification time. Zero for standard input.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64

	// Hash is the SHA-256 hash of the content.
	Hash [32]byte
}

// IsStdin reports whether the note was read from standard input.
func (n *Note) IsStdin() bool {
	return n.Path == StdinPath
}

// ReadNote reads the note at path. StdinPath reads stdin to EOF instead.
func ReadNote(ctx context.Context, path string, stdin io.Reader) (*Note, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("read note: %w", ctx.Err())
	default:
	}

	if path == StdinPath {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return newNote(path, content, time.Time{})
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, classify(path, err)
	}

	return newNote(path, content, stat.ModTime())
}

func newNote(path string, content []byte, modTime time.Time) (*Note, error) {
	if enry.IsBinary(content) {
		return nil, fmt.Errorf("%w: %s", ErrBinary, path)
	}
	return &Note{
		Path:    path,
		Content: string(content),
		ModTime: modTime,
		Size:    int64(len(content)),
		Hash:    sha256.Sum256(content),
	}, nil
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}

// Changed reports whether the file behind note differs from what was read.
// Mod time and size are compared first; the content hash settles the rest.
// A deleted file counts as changed. Notes read from stdin never change.
func (n *Note) Changed(ctx context.Context) (bool, error) {
	if n.IsStdin() {
		return false, nil
	}

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("check note: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(n.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", n.Path, err)
	}

	if !stat.ModTime().Equal(n.ModTime) || stat.Size() != n.Size {
		return true, nil
	}

	content, err := os.ReadFile(n.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", n.Path, err)
	}
	return sha256.Sum256(content) != n.Hash, nil
}
