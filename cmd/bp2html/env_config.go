package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-bp2html/internal/config"
)

// envPrefix is the prefix of the environment variables read by bp2html.
const envPrefix = "BP2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // BP2HTML_CONFIG: config file name or path
	Template    string        // BP2HTML_TEMPLATE: template name or path
	TemplateDir string        // BP2HTML_TEMPLATE_DIR: custom template directory
	IncludePath string        // BP2HTML_INCLUDE_PATH: include resolution directory
	OutputDir   string        // BP2HTML_OUTPUT_DIR: default output directory
	Timeout     time.Duration // BP2HTML_TIMEOUT: PDF page load timeout
	Workers     int           // BP2HTML_WORKERS: parallel workers
}

// knownEnvVars lists valid BP2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"BP2HTML_CONFIG":       true,
	"BP2HTML_TEMPLATE":     true,
	"BP2HTML_TEMPLATE_DIR": true,
	"BP2HTML_INCLUDE_PATH": true,
	"BP2HTML_OUTPUT_DIR":   true,
	"BP2HTML_TIMEOUT":      true,
	"BP2HTML_WORKERS":      true,
	"BP2HTML_CONTAINER":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("BP2HTML_CONFIG"),
		Template:    os.Getenv("BP2HTML_TEMPLATE"),
		TemplateDir: os.Getenv("BP2HTML_TEMPLATE_DIR"),
		IncludePath: os.Getenv("BP2HTML_INCLUDE_PATH"),
		OutputDir:   os.Getenv("BP2HTML_OUTPUT_DIR"),
	}

	if timeout := os.Getenv("BP2HTML_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("BP2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for every unrecognized BP2HTML_*
// variable, so that BP2HTML_TEMPLTE does not go unnoticed.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills empty config values from the environment.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Template != "" && cfg.Template == "" {
		cfg.Template = env.Template
	}
	if env.TemplateDir != "" && cfg.TemplateDir == "" {
		cfg.TemplateDir = env.TemplateDir
	}
	if env.IncludePath != "" && cfg.IncludePath == "" {
		cfg.IncludePath = env.IncludePath
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Timeout > 0 && cfg.Timeout == "" {
		cfg.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}
