// Package config loads bp2html settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-bp2html/internal/fileutil"
	"github.com/alnah/go-bp2html/internal/logging"
	"github.com/alnah/go-bp2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config field")
)

// appDir is the directory under the user config directory searched for
// named configs.
const appDir = "go-bp2html"

// Field limits.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxLocalKeyLength = 100
	MaxLocals         = 200
	MaxWorkers        = 64
)

// Config holds the settings a config file may provide. Field names follow
// the render options of the library.
type Config struct {
	Template    string         `yaml:"template"`    // Name or path (empty = default)
	FilterInput *bool          `yaml:"filterInput"` // Nil = true
	CondenseNav *bool          `yaml:"condenseNav"` // Nil = true
	FullWidth   bool           `yaml:"fullWidth"`
	IncludePath string         `yaml:"includePath"` // Empty = input file directory
	TemplateDir string         `yaml:"templateDir"` // Empty = built-in templates
	Locals      map[string]any `yaml:"locals"`
	Output      OutputConfig   `yaml:"output"`
	Workers     int            `yaml:"workers"` // 0 = auto
	Timeout     string         `yaml:"timeout"` // Go duration, PDF page load
	Log         LogConfig      `yaml:"log"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to the input
}

// LogConfig defines diagnostic logging options.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console, json, pretty
}

// Filter reports whether input normalization is enabled.
func (c *Config) Filter() bool {
	return c.FilterInput == nil || *c.FilterInput
}

// Condense reports whether navigation condensing is enabled.
func (c *Config) Condense() bool {
	return c.CondenseNav == nil || *c.CondenseNav
}

// TimeoutDuration returns the parsed timeout, or 0 when unset.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout: %v", ErrInvalidField, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout: must be positive, got %s", ErrInvalidField, c.Timeout)
	}
	return d, nil
}

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for consumers who
// construct Config manually.
func (c *Config) Validate() error {
	paths := []struct{ name, value string }{
		{"template", c.Template},
		{"includePath", c.IncludePath},
		{"templateDir", c.TemplateDir},
		{"output.defaultDir", c.Output.DefaultDir},
	}
	for _, p := range paths {
		if err := validateFieldLength(p.name, p.value, MaxPathLength); err != nil {
			return err
		}
	}

	if len(c.Locals) > MaxLocals {
		return fmt.Errorf("%w: locals (%d entries, max %d)", ErrFieldTooLong, len(c.Locals), MaxLocals)
	}
	for key := range c.Locals {
		if key == "" {
			return fmt.Errorf("%w: locals: empty key", ErrInvalidField)
		}
		if err := validateFieldLength("locals."+key, key, MaxLocalKeyLength); err != nil {
			return err
		}
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidField, MaxWorkers, c.Workers)
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	if err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidField, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json", "pretty":
	default:
		return fmt.Errorf("%w: log.format: invalid value %q (must be console, json, or pretty)", ErrInvalidField, c.Log.Format)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths returns the files LoadConfig tries for a config name, in
// order: current directory, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file of SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
