package main

import (
	"errors"
	"os"

	bp2html "github.com/alnah/go-bp2html"
	"github.com/alnah/go-bp2html/internal/config"
	"github.com/alnah/go-bp2html/internal/yamlutil"
)

// Exit codes for the bp2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful render
	ExitGeneral = 1 // General/unexpected error, failed batch
	ExitUsage   = 2 // Invalid flags, config, or template
	ExitIO      = 3 // Input, include, or output file errors
	ExitParse   = 4 // Blueprint parse errors
	ExitBrowser = 5 // Browser/Chrome errors
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// Usage is checked before I/O since a missing template directory also
// wraps fs.ErrNotExist.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 5)
	if errors.Is(err, bp2html.ErrBrowserConnect) ||
		errors.Is(err, bp2html.ErrPageCreate) ||
		errors.Is(err, bp2html.ErrPageLoad) ||
		errors.Is(err, bp2html.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Parse errors (exit 4)
	if errors.Is(err, bp2html.ErrParse) {
		return ExitParse
	}

	// Usage/config/template errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrStdioBatch) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, yamlutil.ErrInvalidAssignment) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, bp2html.ErrTemplateNotFound) ||
		errors.Is(err, bp2html.ErrTemplateRender) ||
		errors.Is(err, bp2html.ErrHTMLConversion) ||
		errors.Is(err, bp2html.ErrInvalidTemplateDir) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, bp2html.ErrReadInput) ||
		errors.Is(err, bp2html.ErrWriteOutput) ||
		errors.Is(err, bp2html.ErrInclude) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoBlueprints) {
		return ExitIO
	}

	return ExitGeneral
}
