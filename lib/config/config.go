// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file for Load.
const EnvironmentVariable = "MKTORRENT_CONFIG"

// ProgressMode selects when the progress bar is drawn.
type ProgressMode string

const (
	// ProgressAuto draws the bar when stderr is a terminal.
	ProgressAuto ProgressMode = "auto"
	// ProgressAlways draws the bar unconditionally.
	ProgressAlways ProgressMode = "always"
	// ProgressNever disables the bar.
	ProgressNever ProgressMode = "never"
)

// Config is the mktorrent configuration. Every field can also be set on
// the command line, which takes precedence.
type Config struct {
	// Announce is the tracker URL written to the torrent.
	Announce string `yaml:"announce"`

	// PieceLengthExponent is log2 of the piece length in bytes, 14
	// (16 KiB) through 40. Zero means unset; the command line must
	// then supply it.
	PieceLengthExponent int `yaml:"piece_length_exponent"`

	// Workers bounds concurrent piece hashing. Zero means one worker
	// per CPU.
	Workers int `yaml:"workers"`

	// MinBatchBytes is the smallest amount of file data handed to a
	// worker at once. Zero means the hashing default (128 MiB).
	MinBatchBytes int64 `yaml:"min_batch_bytes"`

	// Progress selects when the progress bar is drawn.
	// Default: auto
	Progress ProgressMode `yaml:"progress"`

	// LogLevel is one of debug, info, warn, error.
	// Default: warn
	LogLevel string `yaml:"log_level"`

	// Report, if set, is the path of a CBOR build report written after
	// a successful build.
	Report string `yaml:"report"`
}

// Default returns the default configuration, used as the base before
// a config file is applied and on its own when there is none.
func Default() *Config {
	return &Config{
		Progress: ProgressAuto,
		LogLevel: "warn",
	}
}

// Load loads configuration from the file named by MKTORRENT_CONFIG. If
// the variable is unset, Load returns the defaults.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Unknown keys
// are an error, so a misspelled setting cannot silently fall back to
// its default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// string fields that hold URLs and paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Announce = expandVars(c.Announce, vars)
	c.Report = expandVars(c.Report, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, looking in
// vars first and then the environment.
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

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for errors, reporting every
// problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.PieceLengthExponent != 0 && (c.PieceLengthExponent < 14 || c.PieceLengthExponent > 40) {
		errs = append(errs, fmt.Errorf("piece_length_exponent must be between 14 and 40, got %d", c.PieceLengthExponent))
	}

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}

	if c.MinBatchBytes < 0 {
		errs = append(errs, fmt.Errorf("min_batch_bytes must not be negative, got %d", c.MinBatchBytes))
	}

	switch c.Progress {
	case ProgressAuto, ProgressAlways, ProgressNever:
	default:
		errs = append(errs, fmt.Errorf("progress must be one of auto, always, never; got %q", c.Progress))
	}

	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of: %v", logLevels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
