// Package filesystem implements ports.FileSystem on top of the operating system.
package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// OS is a filesystem backed by the os package. Reads are cached for the
// lifetime of the instance; any write, remove or rename below a path evicts it.
type OS struct {
	cache *contentCache
}

// NewOS creates a filesystem with an empty read cache.
func NewOS() *OS {
	return &OS{cache: newContentCache()}
}

func key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// ReadFile returns the content of path, served from the cache after the first read.
func (f *OS) ReadFile(path string) ([]byte, error) {
	k := key(path)
	if data, ok := f.cache.get(k); ok {
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	f.cache.put(k, data)
	return data, nil
}

// WriteFile writes data to a temporary sibling and renames it over path.
func (f *OS) WriteFile(path string, data []byte) error {
	if err := f.MkdirAll(filepath.Dir(path)); err != nil {
		return err
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", tempFile, err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	f.cache.put(key(path), data)
	return nil
}

// Create opens path for writing, creating parent directories as needed.
func (f *OS) Create(path string) (io.WriteCloser, error) {
	if err := f.MkdirAll(filepath.Dir(path)); err != nil {
		return nil, err
	}
	f.cache.invalidate(key(path))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return file, nil
}

// Exists reports whether anything exists at path.
func (f *OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory.
func (f *OS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// MkdirAll creates path and any missing parents.
func (f *OS) MkdirAll(path string) error {
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// RemoveAll deletes path recursively. A missing path is not an error.
func (f *OS) RemoveAll(path string) error {
	f.cache.invalidate(key(path))
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// Rename moves from to to.
func (f *OS) Rename(from, to string) error {
	f.cache.invalidate(key(from))
	f.cache.invalidate(key(to))
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", from, to, err)
	}
	return nil
}

// ReadDir lists the entries of path sorted by name.
func (f *OS) ReadDir(path string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("directory %s does not exist: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	return entries, nil
}

// FS returns a read-only view rooted at root.
func (f *OS) FS(root string) fs.FS {
	return os.DirFS(root)
}

var _ ports.FileSystem = (*OS)(nil)
