package ports

import (
	"context"
	"io"
	"io/fs"

	"github.com/k0psutin/gdm-sub000/internal/core/projectfile"
	"github.com/k0psutin/gdm-sub000/internal/core/registry"
)

// LockStore persists the registry of installed plugins
type LockStore interface {
	// Load returns the persisted registry. A missing lock file yields an empty registry.
	Load(ctx context.Context) (registry.Registry, error)

	// Save replaces the persisted registry in a single atomic write
	Save(ctx context.Context, reg registry.Registry) error
}

// ProjectStore reads and patches the host project's configuration file
type ProjectStore interface {
	// Manifest re-reads the project file
	Manifest(ctx context.Context) (projectfile.Manifest, error)

	// EnablePlugins rewrites the [editor_plugins] section to list exactly descriptorPaths
	EnablePlugins(ctx context.Context, descriptorPaths []string) error
}

// FileSystem abstracts the file operations used by gdm. Every error carries the offending path.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces path atomically.
	WriteFile(path string, data []byte) error
	Create(path string) (io.WriteCloser, error)
	Exists(path string) bool
	IsDir(path string) bool
	MkdirAll(path string) error
	RemoveAll(path string) error
	Rename(from, to string) error
	ReadDir(path string) ([]fs.DirEntry, error)
	// FS returns a read-only view rooted at root.
	FS(root string) fs.FS
}
