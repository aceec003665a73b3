package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/application/services"
	"github.com/k0psutin/gdm-sub000/internal/flags/enum"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/ui"
	"github.com/k0psutin/gdm-sub000/internal/logging"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// Global flag names
const (
	configFlag      = "config"
	concurrencyFlag = "concurrency"
	progressFlag    = "progress"
)

// PluginManager is the set of use cases driven by the commands
type PluginManager interface {
	InstallAll(ctx context.Context) error
	Add(ctx context.Context, req services.AddRequest) error
	Remove(ctx context.Context, name string) error
	Update(ctx context.Context) error
	Outdated(ctx context.Context) ([]services.OutdatedEntry, error)
	Search(ctx context.Context, name, godotVersion string) ([]ports.Asset, error)
}

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Plugins PluginManager
	Logger  *slog.Logger
}

// Options are the global settings a container is built from
type Options struct {
	// ConfigFile is the --config value, empty when not given.
	ConfigFile string
	// Concurrency is set only when --concurrency was given.
	Concurrency *int
	Progress    string
	Logger      *slog.Logger
	Stdout      io.Writer
	Stderr      io.Writer
}

// Factory builds the container of one invocation
type Factory func(ctx context.Context, opts Options) (*CLIContainer, error)

// app carries the container from the root's pre-run to the subcommands.
type app struct {
	factory   Factory
	container *CLIContainer
}

func (a *app) plugins() PluginManager {
	return a.container.Plugins
}

// NewRootCommand RootCommand represents the base command when called without any subcommands
func NewRootCommand(factory Factory) *cobra.Command {
	a := &app{factory: factory}

	rootCmd := &cobra.Command{
		Use:   "gdm",
		Short: "gdm - Godot plugin dependency manager",
		Long: `gdm installs Godot engine plugins from the Godot Asset Library or from git
repositories into the project's addons directory.

Installed plugins are recorded in gdm.json and enabled in project.godot, so
that "gdm install" reproduces the same addons on any machine.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts, err := optionsFromFlags(cmd)
			if err != nil {
				return err
			}
			container, err := a.factory(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to initialize gdm: %w", err)
			}
			a.container = container
			return nil
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	flags := rootCmd.PersistentFlags()
	flags.String(configFlag, "", "Config file path (default is ./gdm.yaml when present)")
	flags.Int(concurrencyFlag, -1, "Maximum number of concurrent installs, -1 for no limit")
	enum.Var(flags, progressFlag, ui.Modes, "Progress display")
	logging.RegisterFlags(flags)

	rootCmd.AddCommand(
		NewInstallCommand(a),
		NewAddCommand(a),
		NewRemoveCommand(a),
		NewUpdateCommand(a),
		NewOutdatedCommand(a),
		NewSearchCommand(a),
	)

	return rootCmd
}

// optionsFromFlags reads the global flags of cmd.
func optionsFromFlags(cmd *cobra.Command) (Options, error) {
	flags := cmd.Flags()
	opts := Options{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}

	var err error
	if opts.ConfigFile, err = flags.GetString(configFlag); err != nil {
		return Options{}, err
	}
	if flags.Changed(concurrencyFlag) {
		n, err := flags.GetInt(concurrencyFlag)
		if err != nil {
			return Options{}, err
		}
		opts.Concurrency = &n
	}
	if opts.Progress, err = enum.Get(flags, progressFlag); err != nil {
		return Options{}, err
	}
	if opts.Logger, err = newLogger(flags, opts.Stdout, opts.Stderr); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func newLogger(flags *pflag.FlagSet, stdout, stderr io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(flags, stdout, stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute runs the root command and exits with status 1 on error.
func Execute(ctx context.Context, factory Factory) {
	rootCmd := NewRootCommand(factory)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
