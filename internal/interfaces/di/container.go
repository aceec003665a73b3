package di

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/k0psutin/gdm-sub000/internal/application/services"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/catalog"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/config"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/filesystem"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/git"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/installers"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/lockfile"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/project"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/staging"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/ui"
	"github.com/k0psutin/gdm-sub000/internal/interfaces/cli"
	"github.com/k0psutin/gdm-sub000/internal/logging"
)

// Container holds all dependencies of one gdm invocation
type Container struct {
	Config config.Config
	Logger *slog.Logger

	// Infrastructure
	FS      *filesystem.OS
	Catalog *catalog.Client
	Git     *git.Client
	Stager  *staging.Stager
	Lock    *lockfile.Store
	Project *project.Store

	// Application
	Dispatcher    *services.Dispatcher
	PluginService *services.PluginService
}

// Paths are the absolute locations derived from the configuration.
type Paths struct {
	ProjectFile string
	ProjectRoot string
	LockFile    string
	CacheDir    string
	AddonDir    string
}

// ResolvePaths makes every configured path absolute against workDir.
// The addon directory is relative to the project root.
func ResolvePaths(cfg config.Config, workDir string) Paths {
	abs := func(base, p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}

	projectFile := abs(workDir, cfg.ProjectFile)
	root := filepath.Dir(projectFile)
	return Paths{
		ProjectFile: projectFile,
		ProjectRoot: root,
		LockFile:    abs(workDir, cfg.LockFile),
		CacheDir:    abs(workDir, cfg.CacheDir),
		AddonDir:    abs(root, cfg.AddonDir),
	}
}

// NewContainer creates and configures the dependency injection container
func NewContainer(cfg config.Config, paths Paths, opts cli.Options) *Container {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	c := &Container{Config: cfg, Logger: logger}

	// 1. Infrastructure
	c.FS = filesystem.NewOS()
	c.Catalog = catalog.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	c.Stager = staging.NewStager(c.FS, paths.CacheDir, paths.AddonDir, logger)
	c.Git = git.NewClient(c.FS, c.Stager.ContainerName(), logger)
	c.Lock = lockfile.NewStore(c.FS, paths.LockFile)
	c.Project = project.NewStore(c.FS, paths.ProjectFile)

	// 2. Installers, one per source kind
	c.Dispatcher = services.NewDispatcher(cfg.Concurrency, logger,
		installers.NewCatalogInstaller(c.Catalog, c.FS, c.Stager, logger),
		installers.NewGitInstaller(c.Git, c.Stager, logger),
	)

	// 3. Application services
	c.PluginService = services.NewPluginService(services.Dependencies{
		Lock:        c.Lock,
		Project:     c.Project,
		Catalog:     c.Catalog,
		FS:          c.FS,
		Dispatcher:  c.Dispatcher,
		Reporter:    ui.NewReporter(opts.Progress, opts.Stderr),
		ProjectRoot: paths.ProjectRoot,
		AddonDir:    paths.AddonDir,
		Out:         opts.Stdout,
		Logger:      logger,
	})

	logger.Debug("container initialized",
		"config", cfg.Source,
		"project", paths.ProjectFile,
		"lock", paths.LockFile,
		"addons", paths.AddonDir,
		"concurrency", cfg.Concurrency)
	return c
}

// CLIContainer returns the dependencies used by the commands
func (c *Container) CLIContainer() *cli.CLIContainer {
	return &cli.CLIContainer{
		Plugins: c.PluginService,
		Logger:  c.Logger,
	}
}

// NewCLIContainer loads the configuration for opts and wires a container in
// the current working directory. It satisfies cli.Factory.
func NewCLIContainer(ctx context.Context, opts cli.Options) (*cli.CLIContainer, error) {
	cfg, err := config.Load(config.Options{
		File:      opts.ConfigFile,
		Overrides: config.Overrides{Concurrency: opts.Concurrency},
	})
	if err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	return NewContainer(cfg, ResolvePaths(cfg, wd), opts).CLIContainer(), nil
}

var _ cli.Factory = NewCLIContainer
