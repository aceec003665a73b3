// Package services implements the gdm use cases on top of the ports.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/discovery"
	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
	"github.com/k0psutin/gdm-sub000/internal/core/registry"
)

// ErrNoPluginsInstalled indicates the lock file lists no plugin.
var ErrNoPluginsInstalled = errors.New("no plugins installed")

// Dependencies are the collaborators of PluginService.
type Dependencies struct {
	Lock       ports.LockStore
	Project    ports.ProjectStore
	Catalog    ports.CatalogClient
	FS         ports.FileSystem
	Dispatcher *Dispatcher
	Reporter   ports.Reporter
	// ProjectRoot is the directory holding the project file.
	ProjectRoot string
	// AddonDir is the live addon directory.
	AddonDir string
	// Out receives user-facing messages.
	Out    io.Writer
	Logger *slog.Logger
}

// PluginService orchestrates installs, removals and updates and keeps the
// lock file and the project file in sync with the addon directory.
type PluginService struct {
	lock        ports.LockStore
	project     ports.ProjectStore
	catalog     ports.CatalogClient
	fs          ports.FileSystem
	dispatcher  *Dispatcher
	reporter    ports.Reporter
	projectRoot string
	addonDir    string
	out         io.Writer
	logger      *slog.Logger
}

// NewPluginService creates a PluginService.
func NewPluginService(deps Dependencies) *PluginService {
	out := deps.Out
	if out == nil {
		out = io.Discard
	}
	return &PluginService{
		lock:        deps.Lock,
		project:     deps.Project,
		catalog:     deps.Catalog,
		fs:          deps.FS,
		dispatcher:  deps.Dispatcher,
		reporter:    deps.Reporter,
		projectRoot: deps.ProjectRoot,
		addonDir:    deps.AddonDir,
		out:         out,
		logger:      deps.Logger.With("subsystem", "service"),
	}
}

// load reads the registry and checks the project file is present before any work starts.
func (s *PluginService) load(ctx context.Context) (registry.Registry, error) {
	reg, err := s.lock.Load(ctx)
	if err != nil {
		return registry.Registry{}, err
	}
	if _, err := s.project.Manifest(ctx); err != nil {
		return registry.Registry{}, err
	}
	return reg, nil
}

// InstallAll reinstalls every plugin listed in the lock file.
func (s *PluginService) InstallAll(ctx context.Context) error {
	reg, err := s.load(ctx)
	if err != nil {
		return err
	}
	if reg.IsEmpty() {
		return ErrNoPluginsInstalled
	}

	jobs := make([]ports.InstallJob, 0, reg.Len())
	for _, e := range reg.Entries() {
		jobs = append(jobs, ports.InstallJob{Record: e.Record})
	}
	return s.install(ctx, reg, "Installing plugins", jobs)
}

// install dispatches jobs and persists whatever succeeded, then reports failures.
func (s *PluginService) install(ctx context.Context, reg registry.Registry, operation string, jobs []ports.InstallJob) error {
	installed, dispatchErr := s.dispatcher.Dispatch(ctx, operation, jobs, s.reporter)
	if err := s.finish(ctx, reg, installed); err != nil {
		return errors.Join(err, dispatchErr)
	}
	return dispatchErr
}

// finish merges installed into reg, saves the lock file and enables every
// registered plugin in the project file. Nothing is written when installed is empty.
func (s *PluginService) finish(ctx context.Context, reg registry.Registry, installed map[string]plugin.Record) error {
	if len(installed) == 0 {
		return nil
	}
	return s.persist(ctx, reg.Merge(installed))
}

func (s *PluginService) persist(ctx context.Context, reg registry.Registry) error {
	if err := s.lock.Save(ctx, reg); err != nil {
		return err
	}
	paths, err := s.descriptorPaths(reg)
	if err != nil {
		return err
	}
	return s.project.EnablePlugins(ctx, paths)
}

// descriptorPaths locates the plugin.cfg of every registered folder in the
// live addon directory, relative to the project root. Folders without a
// descriptor are skipped.
func (s *PluginService) descriptorPaths(reg registry.Registry) ([]string, error) {
	root := s.projectRoot
	if root == "" {
		root = "."
	}
	addonRel, err := filepath.Rel(root, s.addonDir)
	if err != nil {
		addonRel = filepath.Base(s.addonDir)
	}
	addonRel = filepath.ToSlash(addonRel)
	fsys := s.fs.FS(root)

	paths := []string{}
	for _, key := range reg.Keys() {
		dir := path.Join(addonRel, key)
		if _, err := fs.Stat(fsys, dir); err != nil {
			s.logger.Warn("plugin folder missing from addon directory", "folder", key)
			continue
		}
		found, ok, err := discovery.FindDescriptor(fsys, dir)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.Warn("plugin folder has no descriptor", "folder", key)
			continue
		}
		paths = append(paths, found)
	}
	return paths, nil
}

func (s *PluginService) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}
