// Package config builds the single configuration value used by one gdm invocation.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Default values used when no other source sets a field.
const (
	DefaultAPIBaseURL  = "https://godotengine.org/asset-library/api"
	DefaultLockFile    = "gdm.json"
	DefaultCacheDir    = ".gdm"
	DefaultProjectFile = "project.godot"
	DefaultAddonDir    = "addons"
	DefaultFileName    = "gdm.yaml"

	// UnlimitedConcurrency runs every install at once.
	UnlimitedConcurrency = -1
	DefaultHTTPTimeout   = 60 * time.Second
)

// Config holds the resolved settings.
type Config struct {
	APIBaseURL  string        `yaml:"api_base_url"`
	LockFile    string        `yaml:"lock_file"`
	CacheDir    string        `yaml:"cache_dir"`
	ProjectFile string        `yaml:"project_file"`
	AddonDir    string        `yaml:"addon_dir"`
	Concurrency int           `yaml:"concurrency"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Source is the YAML file the configuration was read from, empty when none.
	Source string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL:  DefaultAPIBaseURL,
		LockFile:    DefaultLockFile,
		CacheDir:    DefaultCacheDir,
		ProjectFile: DefaultProjectFile,
		AddonDir:    DefaultAddonDir,
		Concurrency: UnlimitedConcurrency,
		HTTPTimeout: DefaultHTTPTimeout,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if err := validateBaseURL(c.APIBaseURL); err != nil {
		errs = append(errs, err)
	}
	for name, value := range map[string]string{
		"lock file":    c.LockFile,
		"cache dir":    c.CacheDir,
		"project file": c.ProjectFile,
		"addon dir":    c.AddonDir,
	} {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s cannot be empty", name))
		}
	}
	if c.Concurrency == 0 || c.Concurrency < UnlimitedConcurrency {
		errs = append(errs, fmt.Errorf("concurrency must be positive or %d for unlimited, got %d", UnlimitedConcurrency, c.Concurrency))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTP timeout must be positive, got %s", c.HTTPTimeout))
	}

	return errors.Join(errs...)
}

func validateBaseURL(endpoint string) error {
	if endpoint == "" {
		return errors.New("API base URL cannot be empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL must include host")
	}
	return nil
}
