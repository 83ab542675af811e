// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/cronparse/lib/cron"
)

// EnvironmentVariable names the environment variable [Load] reads the
// configuration path from.
const EnvironmentVariable = "CRONPARSE_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the configuration shared by the CLI and the job runner.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Root is the base directory for cronparse state. Available to
	// other paths as ${CRONPARSE_ROOT}.
	Root string `yaml:"root"`

	// Location is the IANA time zone name schedules are evaluated in.
	// "Local" uses the host zone.
	Location string `yaml:"location"`

	// Log configures the command logger.
	Log LogConfig `yaml:"log"`

	// Store configures the persistent job store.
	Store StoreConfig `yaml:"store"`

	// Scheduler configures the job runner.
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Jobs are the schedules "cronparse run" keeps in sync with the
	// store.
	Jobs []JobConfig `yaml:"jobs"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Root      string           `yaml:"root,omitempty"`
	Location  string           `yaml:"location,omitempty"`
	Log       *LogConfig       `yaml:"log,omitempty"`
	Store     *StoreConfig     `yaml:"store,omitempty"`
	Scheduler *SchedulerConfig `yaml:"scheduler,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info (development), warn (production)
	Level string `yaml:"level"`
}

// StoreConfig configures the SQLite job store.
type StoreConfig struct {
	// Path is the database file. Its parent directory is created by
	// EnsurePaths.
	// Default: ${CRONPARSE_ROOT}/jobs.db
	Path string `yaml:"path"`
}

// SchedulerConfig configures the job runner.
type SchedulerConfig struct {
	// DrainTimeout bounds how long shutdown waits for running jobs.
	// Default: 30s
	DrainTimeout string `yaml:"drain_timeout"`
}

// JobConfig declares one scheduled command.
type JobConfig struct {
	// Name identifies the job; unique within the file.
	Name string `yaml:"name"`

	// Schedule is a 5- or 6-field crontab string.
	Schedule string `yaml:"schedule"`

	// Command is the argv executed on each firing. The first element
	// is resolved through PATH.
	Command []string `yaml:"command"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Environment: Development,
		Root:        filepath.Join(homeDir, ".local", "state", "cronparse"),
		Location:    "Local",
		Log:         LogConfig{Level: "info"},
		Store:       StoreConfig{Path: "${CRONPARSE_ROOT}/jobs.db"},
		Scheduler:   SchedulerConfig{DrainTimeout: "30s"},
	}
}

// Load loads configuration from the CRONPARSE_CONFIG environment variable.
//
// There are no fallbacks or defaults - if CRONPARSE_CONFIG is not set,
// this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your cronparse.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables do not
// override config values. The only expansion performed is on path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: quieter logs.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Log: &LogConfig{Level: "warn"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Root != "" {
		c.Root = overrides.Root
	}
	if overrides.Location != "" {
		c.Location = overrides.Location
	}
	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
	if overrides.Store != nil && overrides.Store.Path != "" {
		c.Store.Path = overrides.Store.Path
	}
	if overrides.Scheduler != nil && overrides.Scheduler.DrainTimeout != "" {
		c.Scheduler.DrainTimeout = overrides.Scheduler.DrainTimeout
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"CRONPARSE_ROOT": c.Root,
		"HOME":           os.Getenv("HOME"),
	}

	c.Root = expandVars(c.Root, vars)
	vars["CRONPARSE_ROOT"] = c.Root // Update for dependent paths.

	c.Store.Path = expandVars(c.Store.Path, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. Every problem is
// reported, not only the first.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Root == "" {
		errs = append(errs, fmt.Errorf("root is required"))
	}

	if c.Store.Path == "" {
		errs = append(errs, fmt.Errorf("store.path is required"))
	}

	if _, err := time.LoadLocation(c.Location); err != nil {
		errs = append(errs, fmt.Errorf("location: %w", err))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.DrainTimeout(); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]bool, len(c.Jobs))
	for index, job := range c.Jobs {
		switch {
		case job.Name == "":
			errs = append(errs, fmt.Errorf("jobs[%d].name is required", index))
		case seen[job.Name]:
			errs = append(errs, fmt.Errorf("jobs[%d].name %q is a duplicate", index, job.Name))
		}
		seen[job.Name] = true

		if _, err := cron.ParseFields(job.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("jobs[%d] (%s).schedule: %w", index, job.Name, err))
		}
		if len(job.Command) == 0 || job.Command[0] == "" {
			errs = append(errs, fmt.Errorf("jobs[%d] (%s).command is required", index, job.Name))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// LoadLocation resolves Location.
func (c *Config) LoadLocation() (*time.Location, error) {
	location, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}
	return location, nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level must be one of debug, info, warn, error: got %q", c.Log.Level)
	}
	return level, nil
}

// DrainTimeout parses Scheduler.DrainTimeout.
func (c *Config) DrainTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.Scheduler.DrainTimeout)
	if err != nil {
		return 0, fmt.Errorf("scheduler.drain_timeout: %w", err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("scheduler.drain_timeout must not be negative: %s", timeout)
	}
	return timeout, nil
}

// EnsurePaths creates the root directory and the store's parent
// directory if they don't exist.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Root,
		filepath.Dir(c.Store.Path),
	}

	for _, path := range paths {
		if path == "" || path == "." {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}

	return nil
}
