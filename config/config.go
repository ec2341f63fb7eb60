// Package config loads ermparse's YAML configuration, following the layered
// defaults-then-file-then-env pattern other example repos in this codebase's
// lineage use for their own YAML-backed configs (an AppConfig struct with
// yaml tags, a Defaults constructor, and a small set of env var overrides).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ava12/erm"
	"github.com/ava12/erm/reader"
)

// Config holds the settings ermparse needs across every file it parses.
type Config struct {
	// MaxLineLength is the maximum physical-line length in bytes.
	MaxLineLength int `yaml:"max_line_length"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
	// LogFormat is "console" or "json".
	LogFormat string `yaml:"log_format"`
	// LogFile, if set, additionally writes rotated JSON logs there.
	LogFile string `yaml:"log_file"`
}

// Defaults returns the built-in configuration used when no config file and
// no environment overrides are present.
func Defaults() Config {
	return Config{
		MaxLineLength: reader.DefaultMaxLineLength,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Load reads a YAML config file at path, starting from Defaults and applying
// only the fields the file actually sets. An empty path skips the file step
// entirely. Environment variables ERM_LOG_LEVEL, ERM_LOG_FORMAT,
// ERM_LOG_FILE and ERM_MAX_LINE_LEN are applied afterward, taking precedence
// over both the defaults and the file.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, erm.FormatError(erm.ConfigErrors, "cannot read config file %s: %v", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, erm.FormatError(erm.ConfigErrors, "cannot parse config file %s: %v", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.MaxLineLength <= 0 {
		return Config{}, erm.FormatError(erm.ConfigErrors, "max_line_length must be positive, got %d", cfg.MaxLineLength)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ERM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ERM_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("ERM_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("ERM_MAX_LINE_LEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxLineLength = n
		}
	}
}

func (c Config) String() string {
	return fmt.Sprintf("max_line_length=%d log_level=%s log_format=%s log_file=%s",
		c.MaxLineLength, c.LogLevel, c.LogFormat, c.LogFile)
}
