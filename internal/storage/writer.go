package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileWriter writes recordings atomically: data goes to a temporary file in
// the destination directory which is synced and renamed into place
type FileWriter struct {
	// Perm is the mode of written files. Defaults to 0644.
	Perm os.FileMode
}

// WriteFile writes data to path and returns the final path, which gains a
// .webm extension when path has none
func (w *FileWriter) WriteFile(ctx context.Context, path string, data []byte) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrIO)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}

	path = WithExtension(path)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: failed to create %s: %w", ErrIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}

	perm := w.Perm
	if perm == 0 {
		perm = 0644
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}

	return path, nil
}

// WithExtension appends .webm to paths without an extension
func WithExtension(path string) string {
	if filepath.Ext(path) == "" {
		return path + Extension
	}
	return path
}
