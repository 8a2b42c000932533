// Package config loads settings for the pupcal HTTP service.
//
// Settings come from three layers, later ones winning: built-in defaults, an
// optional YAML file, and PUPCAL_* environment variables (which may be
// supplied through a .env file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/recovibe/pupcal/internal/logger"
)

const (
	DefaultListen   = "127.0.0.1:8080"
	DefaultRefresh  = "0 */6 * * *"
	DefaultLogLevel = "info"

	// RefreshOff disables the background refresh job
	RefreshOff = "off"
)

// Environment variables that override file settings
const (
	EnvListen   = "PUPCAL_LISTEN"
	EnvRefresh  = "PUPCAL_REFRESH"
	EnvLogLevel = "PUPCAL_LOG_LEVEL"
)

// Config is the service configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// Refresh is a standard five-field cron schedule for re-fetching the
	// calendar in the background, or "off".
	Refresh string `yaml:"refresh" json:"refresh"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   DefaultListen,
		Refresh:  DefaultRefresh,
		LogLevel: DefaultLogLevel,
	}
}

// Normalize fills in missing values with defaults.
func (c *Config) Normalize() {
	c.Listen = strings.TrimSpace(c.Listen)
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	c.Refresh = strings.TrimSpace(c.Refresh)
	if c.Refresh == "" {
		c.Refresh = DefaultRefresh
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.RefreshEnabled() {
		if _, err := cron.ParseStandard(c.Refresh); err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", c.Refresh, err)
		}
	}
	return nil
}

// RefreshEnabled reports whether a background refresh schedule is configured
func (c *Config) RefreshEnabled() bool {
	return !strings.EqualFold(c.Refresh, RefreshOff)
}

// Level returns the parsed log level. Call Validate first.
func (c *Config) Level() logger.Level {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}

// Load reads configuration from the YAML file at path, applies environment
// overrides, normalizes and validates the result.
//
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("Config file not found, using defaults", logger.Fields{"path": path})
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from the environment
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvListen); ok && v != "" {
		c.Listen = v
	}
	if v, ok := lookup(EnvRefresh); ok && v != "" {
		c.Refresh = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment without overriding variables already set.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}
