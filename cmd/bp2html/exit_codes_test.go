package main

// Notes:
// - exitCodeFor: we test the sentinel errors of every category plus wrapped
//   errors, so the errors.Is() chain is covered.
// - Errors that match two categories (a missing template directory wraps
//   fs.ErrNotExist) must resolve to the earlier category.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"testing"

	bp2html "github.com/alnah/go-bp2html"
	"github.com/alnah/go-bp2html/internal/config"
	"github.com/alnah/go-bp2html/internal/yamlutil"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 5)
		{"browser connect", bp2html.ErrBrowserConnect, ExitBrowser},
		{"page create", bp2html.ErrPageCreate, ExitBrowser},
		{"page load", bp2html.ErrPageLoad, ExitBrowser},
		{"pdf generation", bp2html.ErrPDFGeneration, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("failed: %w", bp2html.ErrBrowserConnect), ExitBrowser},

		// Parse errors (exit 4)
		{"parse", bp2html.ErrParse, ExitParse},
		{"parse error value", &bp2html.ParseError{Message: "bad"}, ExitParse},

		// Usage/config/template errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"invalid workers", ErrInvalidWorkerCount, ExitUsage},
		{"stdin batch", ErrStdioBatch, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"invalid local", yamlutil.ErrInvalidAssignment, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid field", config.ErrInvalidField, ExitUsage},
		{"template not found", bp2html.ErrTemplateNotFound, ExitUsage},
		{"template render", bp2html.ErrTemplateRender, ExitUsage},
		{"html conversion", bp2html.ErrHTMLConversion, ExitUsage},
		{"invalid template dir", bp2html.ErrInvalidTemplateDir, ExitUsage},
		{"template dir missing", fmt.Errorf("%w: %w", bp2html.ErrInvalidTemplateDir, fs.ErrNotExist), ExitUsage},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read input", bp2html.ErrReadInput, ExitIO},
		{"write output", bp2html.ErrWriteOutput, ExitIO},
		{"include", bp2html.ErrInclude, ExitIO},
		{"circular include", fmt.Errorf("%w: %w", bp2html.ErrInclude, bp2html.ErrCircularInclude), ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"no blueprints", ErrNoBlueprints, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// General errors (exit 1)
		{"batch failed", fmt.Errorf("%w: 1 of 2 file(s)", ErrBatchFailed), ExitGeneral},
		{"unknown error", errors.New("unknown"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeFor_HintedError(t *testing.T) {
	t.Parallel()

	err := withHint(fmt.Errorf("%w: missing.apib", bp2html.ErrReadInput), "\n  hint: check the path")
	if got := exitCodeFor(err); got != ExitIO {
		t.Errorf("exitCodeFor() = %d, want %d", got, ExitIO)
	}
}

func TestExitCodes_Values(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitParse, ExitBrowser}
	seen := make(map[int]bool)
	for i, code := range codes {
		if code != i {
			t.Errorf("exit code #%d = %d, want %d", i, code, i)
		}
		if code >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", code)
		}
		if seen[code] {
			t.Errorf("duplicate exit code %d", code)
		}
		seen[code] = true
	}
}
