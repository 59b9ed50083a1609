package main

import (
	bp2html "github.com/alnah/go-bp2html"
	"github.com/alnah/go-bp2html/internal/config"
	"github.com/alnah/go-bp2html/internal/logging"
)

// loggerName is the go-logger name of the renderer's entries.
const loggerName = "bp2html"

// newLogger returns a go-logger backed Logger when cfg asks for logging,
// or nil so that the renderer stays silent. Logging is opt-in because
// rendered HTML may be written to standard output.
func newLogger(cfg config.LogConfig) (bp2html.Logger, error) {
	if cfg.Level == "" && cfg.Format == "" {
		return nil, nil
	}
	level := cfg.Level
	if level == "" {
		level = "info"
	}

	provider, err := logging.NewProvider(logging.Config{
		Level:  level,
		Format: cfg.Format,
	})
	if err != nil {
		return nil, err
	}
	return provider.GetLogger(loggerName), nil
}
