// Package staging materializes downloads in an isolated scratch directory and
// moves the discovered plugin folders into the live addon directory.
package staging

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/discovery"
	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
)

// Area is one staging directory.
type Area struct {
	Key string
	// Root is <cache dir>/<key>.
	Root string
	// ContainerName is the name of the addon container below Root.
	ContainerName string
}

// Container returns the path of the addon container inside the area.
func (a Area) Container() string {
	return filepath.Join(a.Root, a.ContainerName)
}

// Populator fills the addon container of a freshly created area.
type Populator func(ctx context.Context, area Area) error

// Request describes one staged install.
type Request struct {
	Key          string
	Source       plugin.Source
	ExpectedName string
	Populate     Populator
}

// Outcome is a committed install.
type Outcome struct {
	Folder string
	Record plugin.Record
}

// Stager runs the create, populate, discover, validate, commit and cleanup sequence.
type Stager struct {
	fs            ports.FileSystem
	cacheDir      string
	addonDir      string
	containerName string
	logger        *slog.Logger
}

// NewStager creates a Stager that stages below cacheDir and commits into addonDir.
// The staged container mirrors the base name of addonDir.
func NewStager(fsys ports.FileSystem, cacheDir, addonDir string, logger *slog.Logger) *Stager {
	return &Stager{
		fs:            fsys,
		cacheDir:      cacheDir,
		addonDir:      addonDir,
		containerName: filepath.Base(addonDir),
		logger:        logger.With("subsystem", "staging"),
	}
}

// ContainerName returns the name of the addon container used in staged trees.
func (s *Stager) ContainerName() string {
	return s.containerName
}

// Run stages, validates and commits one plugin. The staging directory is
// removed when Run returns, whatever the outcome.
func (s *Stager) Run(ctx context.Context, req Request) (Outcome, error) {
	area, err := s.Create(req.Key)
	if err != nil {
		return Outcome{}, err
	}
	defer func() {
		if err := s.Cleanup(area); err != nil {
			s.logger.Warn("failed to clean up staging area", "path", area.Root, "error", err)
		}
	}()

	if err := req.Populate(ctx, area); err != nil {
		return Outcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	result, err := discovery.Discover(s.fs.FS(area.Root), area.ContainerName, req.Source, req.ExpectedName)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to discover plugins in %s: %w", area.Root, err)
	}

	if err := s.Validate(area, result.Record); err != nil {
		return Outcome{}, err
	}

	if err := s.Commit(area, result.Folders); err != nil {
		return Outcome{}, err
	}

	s.logger.Debug("committed plugin", "folder", result.Folder, "folders", result.Folders, "title", result.Record.Title)
	return Outcome{Folder: result.Folder, Record: result.Record}, nil
}

// Create makes an empty area for key, destroying any stale one first.
func (s *Stager) Create(key string) (Area, error) {
	area := Area{Key: key, Root: filepath.Join(s.cacheDir, key), ContainerName: s.containerName}

	if s.fs.Exists(area.Root) {
		s.logger.Debug("removing stale staging area", "path", area.Root)
		if err := s.fs.RemoveAll(area.Root); err != nil {
			return Area{}, err
		}
	}
	if err := s.fs.MkdirAll(area.Container()); err != nil {
		return Area{}, err
	}
	return area, nil
}

// Validate refuses records without a title or whose descriptor is missing from the area.
func (s *Stager) Validate(area Area, rec plugin.Record) error {
	if rec.Title == "" {
		return fmt.Errorf("plugin in %s has empty title", area.Container())
	}
	if rec.DescriptorPath != "" {
		descriptor := filepath.Join(area.Root, filepath.FromSlash(path.Clean(rec.DescriptorPath)))
		if !s.fs.Exists(descriptor) {
			return fmt.Errorf("plugin descriptor not found at %s", descriptor)
		}
	}
	return nil
}

// Commit replaces each folder in the live addon directory with its staged
// counterpart. The first failure stops the commit; folders already moved stay in place.
func (s *Stager) Commit(area Area, folders []string) error {
	for _, folder := range folders {
		src := filepath.Join(area.Container(), folder)
		dst := filepath.Join(s.addonDir, folder)

		if !s.fs.IsDir(src) {
			return fmt.Errorf("staged folder %s does not exist", src)
		}
		if s.fs.Exists(dst) {
			if err := s.fs.RemoveAll(dst); err != nil {
				return err
			}
		}
		if err := s.fs.MkdirAll(filepath.Dir(dst)); err != nil {
			return err
		}
		if err := s.fs.Rename(src, dst); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup removes the area.
func (s *Stager) Cleanup(area Area) error {
	return s.fs.RemoveAll(area.Root)
}
