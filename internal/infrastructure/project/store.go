// Package project reads and patches the host project's project.godot file.
package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/projectfile"
)

// DefaultFileName is the project file at the project root.
const DefaultFileName = "project.godot"

// ErrProjectFileNotFound indicates the configured project file does not exist.
var ErrProjectFileNotFound = errors.New("no project.godot file found")

// Store gives access to one project file. Every call re-reads the file.
type Store struct {
	fs       ports.FileSystem
	filePath string
}

// NewStore creates a project store for filePath.
func NewStore(fsys ports.FileSystem, filePath string) *Store {
	if filePath == "" {
		filePath = DefaultFileName
	}
	return &Store{fs: fsys, filePath: filePath}
}

// Path returns the project file location.
func (s *Store) Path() string {
	return s.filePath
}

func (s *Store) lines() ([]string, error) {
	if !s.fs.Exists(s.filePath) {
		return nil, fmt.Errorf("%w at %s", ErrProjectFileNotFound, s.filePath)
	}
	data, err := s.fs.ReadFile(s.filePath)
	if err != nil {
		return nil, err
	}
	return projectfile.SplitLines(string(data)), nil
}

// Manifest reads the engine and plugin settings of the project.
func (s *Store) Manifest(ctx context.Context) (projectfile.Manifest, error) {
	lines, err := s.lines()
	if err != nil {
		return projectfile.Manifest{}, err
	}
	return projectfile.ParseManifest(lines), nil
}

// EnablePlugins rewrites the [editor_plugins] section to list exactly descriptorPaths.
// The file is left untouched when the patch changes nothing.
func (s *Store) EnablePlugins(ctx context.Context, descriptorPaths []string) error {
	lines, err := s.lines()
	if err != nil {
		return err
	}

	patched := projectfile.JoinLines(projectfile.Patch(lines, descriptorPaths))
	if patched == projectfile.JoinLines(lines) {
		return nil
	}
	if err := s.fs.WriteFile(s.filePath, []byte(patched)); err != nil {
		return fmt.Errorf("failed to update project file: %w", err)
	}
	return nil
}

var _ ports.ProjectStore = (*Store)(nil)
