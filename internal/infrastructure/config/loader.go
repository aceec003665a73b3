package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvAPIBaseURL  = "API_BASE_URL"
	EnvLockFile    = "CONFIG_FILE_PATH"
	EnvCacheDir    = "CACHE_FOLDER_PATH"
	EnvProjectFile = "GODOT_PROJECT_FILE_PATH"
	EnvAddonDir    = "ADDON_FOLDER_PATH"
	EnvConcurrency = "GDM_CONCURRENCY"
	EnvHTTPTimeout = "GDM_HTTP_TIMEOUT"
)

// Overrides are values set on the command line. Nil fields leave the loaded value alone.
type Overrides struct {
	Concurrency *int
}

// Options controls where Load looks for settings.
type Options struct {
	// File is an explicit YAML file. When empty, DefaultFileName is read if it exists.
	File      string
	Overrides Overrides
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// ReadFile defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

// Load resolves the configuration from defaults, the YAML file, the
// environment and overrides, in increasing priority, and validates it.
func Load(opts Options) (Config, error) {
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}

	cfg := Default()

	if err := loadFile(&cfg, opts); err != nil {
		return Config{}, err
	}
	if err := loadEnv(&cfg, opts.LookupEnv); err != nil {
		return Config{}, err
	}
	if opts.Overrides.Concurrency != nil {
		cfg.Concurrency = *opts.Overrides.Concurrency
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFile(cfg *Config, opts Options) error {
	path := opts.File
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := opts.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Source = path
	return nil
}

func loadEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvAPIBaseURL, &cfg.APIBaseURL)
	str(EnvLockFile, &cfg.LockFile)
	str(EnvCacheDir, &cfg.CacheDir)
	str(EnvProjectFile, &cfg.ProjectFile)
	str(EnvAddonDir, &cfg.AddonDir)

	if v, ok := lookup(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvConcurrency, v, err)
		}
		cfg.Concurrency = n
	}
	if v, ok := lookup(EnvHTTPTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvHTTPTimeout, v, err)
		}
		cfg.HTTPTimeout = d
	}
	return nil
}
