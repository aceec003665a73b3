// Package lockfile persists the plugin registry as gdm.json.
package lockfile

import (
	"context"
	"fmt"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/registry"
)

// DefaultFileName is the lock file created next to the project file.
const DefaultFileName = "gdm.json"

// Store manages the registry of installed plugins in a JSON file
type Store struct {
	fs       ports.FileSystem
	filePath string
}

// NewStore creates a lock store backed by filePath
func NewStore(fsys ports.FileSystem, filePath string) *Store {
	if filePath == "" {
		filePath = DefaultFileName
	}
	return &Store{fs: fsys, filePath: filePath}
}

// Path returns the lock file location
func (s *Store) Path() string {
	return s.filePath
}

// Load loads the registry. A missing lock file yields an empty registry.
func (s *Store) Load(ctx context.Context) (registry.Registry, error) {
	if !s.fs.Exists(s.filePath) {
		return registry.Empty(), nil
	}

	data, err := s.fs.ReadFile(s.filePath)
	if err != nil {
		return registry.Registry{}, fmt.Errorf("failed to read lock file: %w", err)
	}

	reg, err := registry.Unmarshal(data)
	if err != nil {
		return registry.Registry{}, fmt.Errorf("failed to parse lock file %s: %w", s.filePath, err)
	}
	return reg, nil
}

// Save replaces the lock file with reg in one atomic write
func (s *Store) Save(ctx context.Context, reg registry.Registry) error {
	data, err := registry.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := s.fs.WriteFile(s.filePath, data); err != nil {
		return fmt.Errorf("failed to save lock file: %w", err)
	}
	return nil
}

var _ ports.LockStore = (*Store)(nil)
