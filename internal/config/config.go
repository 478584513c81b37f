// Package config loads and validates the application configuration from a
// YAML file. A missing file yields the defaults; unknown enum values fail
// validation instead of silently defaulting.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
)

// Config is the root application configuration.
type Config struct {
	// DataDir holds the database and settings files. Defaults to
	// ~/.local/share/solia (or the platform equivalent via os.UserConfigDir
	// fallback).
	DataDir string `yaml:"data_dir"`

	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Timer    TimerConfig    `yaml:"timer"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Watch    WatchConfig    `yaml:"watch"`
}

type DatabaseConfig struct {
	// Path to the SQLite file. Relative paths resolve against DataDir.
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TimerConfig struct {
	// TickInterval between elapsed-time notifications while a timer runs.
	TickInterval time.Duration `yaml:"tick_interval"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// Load reads the config file at path. A missing file is not an error; the
// returned config then carries only defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read config file").
			Fatal().WithContext("path", path).Build()
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse config file").
				Fatal().WithContext("path", path).Build()
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.Database.Path == "" {
		c.Database.Path = "solia.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = string(LogLevelInfo)
	}
	if c.Logging.Format == "" {
		c.Logging.Format = string(LogFormatText)
	}
	if c.Timer.TickInterval == 0 {
		c.Timer.TickInterval = time.Second
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = "127.0.0.1:9914"
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 250 * time.Millisecond
	}
}

// Validate rejects configurations that cannot work at runtime.
func (c *Config) Validate() error {
	if _, err := logLevelNormalizer.NormalizeWithError(c.Logging.Level); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.level").Fatal().Build()
	}
	if _, err := logFormatNormalizer.NormalizeWithError(c.Logging.Format); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.format").Fatal().Build()
	}
	if c.Timer.TickInterval < 100*time.Millisecond {
		return ferrors.ConfigError("timer.tick_interval below 100ms").
			WithContext("tick_interval", c.Timer.TickInterval.String()).Build()
	}
	if c.Watch.Debounce < 0 {
		return ferrors.ConfigError("watch.debounce must not be negative").Build()
	}
	return nil
}

// DatabasePath resolves the SQLite file path against DataDir.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Database.Path) {
		return c.Database.Path
	}
	return filepath.Join(c.DataDir, c.Database.Path)
}

// SettingsPath is the JSON settings file next to the database.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.DataDir, "settings.json")
}

// Level returns the normalized log level.
func (c *Config) Level() LogLevel { return NormalizeLogLevel(c.Logging.Level) }

// Format returns the normalized log format.
func (c *Config) Format() LogFormat { return NormalizeLogFormat(c.Logging.Format) }

func defaultDataDir() string {
	if dir := os.Getenv("SOLIA_DATA_DIR"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "solia")
	}
	return "."
}
