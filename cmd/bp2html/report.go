package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	bp2html "github.com/alnah/go-bp2html"
	"github.com/alnah/go-bp2html/internal/config"
	"github.com/alnah/go-bp2html/internal/fileutil"
	"github.com/alnah/go-bp2html/internal/hints"
)

// excerptIndent prefixes source lines printed under a diagnostic.
const excerptIndent = "    "

// inputLabel names an input in diagnostics.
func inputLabel(in string) string {
	if in == bp2html.Stdio {
		return "stdin"
	}
	return in
}

// printWarnings writes every warning as "label: warning: line N: msg (code C)"
// followed by the source lines it covers.
func printWarnings(w io.Writer, label string, warnings *bp2html.Warnings) {
	if warnings.Len() == 0 {
		return
	}
	for _, item := range warnings.Items {
		fmt.Fprintf(w, "%s: warning: %s\n", label, warnings.Describe(item))
		if len(item.Location) > 0 {
			printExcerpt(w, warnings.Excerpt(item.Location[0]))
		}
	}
}

// printParseExcerpt writes the source lines a parse error points at.
func printParseExcerpt(w io.Writer, err error) {
	var pe *bp2html.ParseError
	if !errors.As(err, &pe) || len(pe.Locations) == 0 {
		return
	}
	src := &bp2html.Warnings{Input: pe.SourceText}
	printExcerpt(w, src.Excerpt(pe.Locations[0]))
}

func printExcerpt(w io.Writer, excerpt string) {
	if excerpt == "" {
		return
	}
	for _, line := range strings.Split(excerpt, "\n") {
		fmt.Fprintln(w, excerptIndent+line)
	}
}

// printCreated reports a successful job on w, unless quiet or the output
// is standard output.
func printCreated(w io.Writer, r bp2html.JobResult, common commonFlags) {
	if common.quiet || r.Job.Output == bp2html.Stdio {
		return
	}
	if common.verbose {
		fmt.Fprintf(w, "%s -> %s (%v)\n", r.Job.Input, r.Job.Output, r.Duration.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(w, "Created %s\n", r.Job.Output)
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Warnings  int
}

// countResults tallies a batch.
func countResults(results []bp2html.JobResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Warnings += r.Warnings.Len()
	}
	return summary
}

// printResults outputs batch results and returns the number of failures.
// Failures and warnings go to stderr, progress to stdout.
func printResults(results []bp2html.JobResult, common commonFlags, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Job.Input, r.Err)
			continue
		}
		if !common.quiet {
			printWarnings(env.Stderr, inputLabel(r.Job.Input), r.Warnings)
		}
		printCreated(env.Stdout, r, common)
	}

	if !common.quiet {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed, %d warning(s)\n",
			summary.Succeeded, summary.Failed, summary.Warnings)
	}

	return summary.Failed
}

// hintedError appends an actionable hint to an error message.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }
func (e *hintedError) Unwrap() error { return e.err }

// withHint attaches hint to err. It returns err unchanged when either is
// empty or err already carries a hint.
func withHint(err error, hint string) error {
	var he *hintedError
	if err == nil || hint == "" || errors.As(err, &he) {
		return err
	}
	return &hintedError{err: err, hint: hint}
}

// templateLister is the part of the renderer hintFor needs.
type templateLister interface {
	Templates() ([]string, error)
}

var _ templateLister = (*bp2html.Renderer)(nil)

// hintFor returns the hint matching err, or "". templates may be nil.
func hintFor(err error, configName string, templates templateLister) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, bp2html.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, bp2html.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		if fileutil.IsFilePath(configName) {
			return hints.ForConfigNotFound(nil)
		}
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, bp2html.ErrTemplateNotFound):
		var names []string
		if templates != nil {
			names, _ = templates.Templates()
		}
		return hints.ForTemplateNotFound(names)
	case errors.Is(err, bp2html.ErrInclude) && !errors.Is(err, bp2html.ErrCircularInclude):
		return hints.ForInclude()
	case errors.Is(err, bp2html.ErrParse):
		return hints.ForParseError()
	case errors.Is(err, bp2html.ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
