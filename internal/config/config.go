package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config represents the complete fsel configuration
type Config struct {
	Selection SelectionConfig `mapstructure:"selection" yaml:"selection"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// SelectionConfig controls where the selection state files live
type SelectionConfig struct {
	// StateDir is the directory holding the path log, hash index and lock token.
	// Empty means the system temporary directory ($TMPDIR, falling back to /tmp).
	StateDir string `mapstructure:"state_dir" yaml:"state_dir"`
	// Prefix is the file name prefix of every state file (default: "fsel")
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// OutputConfig controls terminal output
type OutputConfig struct {
	// Color styles validation marks when stdout is a terminal (default: true)
	Color bool `mapstructure:"color" yaml:"color"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Enabled turns on structured logging (default: false)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// File is the log file path. Empty means <state_dir>/<prefix>_<uid>.log
	File string `mapstructure:"file" yaml:"file"`
	// MaxSizeMB is the size at which the log file is rotated (default: 1)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is how many rotated files are kept (default: 2)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// StatePaths names the files that make up one user's selection.
type StatePaths struct {
	Log   string
	Index string
	Lock  string
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Selection: SelectionConfig{
			StateDir: "",
			Prefix:   "fsel",
		},
		Output: OutputConfig{
			Color: true,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Level:      "info",
			File:       "",
			MaxSizeMB:  1,
			MaxBackups: 2,
		},
	}
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	// Selection defaults
	v.SetDefault("selection.state_dir", defaults.Selection.StateDir)
	v.SetDefault("selection.prefix", defaults.Selection.Prefix)

	// Output defaults
	v.SetDefault("output.color", defaults.Output.Color)

	// Logging defaults
	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// StateDir returns the directory the state files live in
func (c *Config) StateDir() string {
	if c.Selection.StateDir != "" {
		return c.Selection.StateDir
	}
	return os.TempDir()
}

// StatePaths returns the state file paths for the given user id
func (c *Config) StatePaths(uid int) StatePaths {
	base := c.stateBase(uid)
	return StatePaths{
		Log:   base + ".tmp",
		Index: base + ".idx",
		Lock:  base + ".lock",
	}
}

// LogFile returns the log file path for the given user id
func (c *Config) LogFile(uid int) string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return c.stateBase(uid) + ".log"
}

func (c *Config) stateBase(uid int) string {
	return filepath.Join(c.StateDir(), c.Selection.Prefix+"_"+strconv.Itoa(uid))
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fsel")
	}
	// Fall back to ~/.config/fsel
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fsel"
	}
	return filepath.Join(home, ".config", "fsel")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
