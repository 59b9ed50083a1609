package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags controlling what the CLI reports.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// ioFlags holds input, output and mode flags.
type ioFlags struct {
	input   string
	output  string
	compile bool
	list    bool
	pdf     bool
	workers int
	timeout string
}

// templateFlags holds flags shaping the rendered page.
type templateFlags struct {
	template    string
	templateDir string
	includePath string
	noFilter    bool
	noCondense  bool
	fullWidth   bool
	locals      []string
}

// renderFlags holds all flags of the render command.
type renderFlags struct {
	common   commonFlags
	io       ioFlags
	template templateFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVar(&f.config, "config", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and debug logs")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json, pretty")
}

// addIOFlags adds input and output flags to a FlagSet.
func addIOFlags(fs *flag.FlagSet, f *ioFlags) {
	fs.StringVarP(&f.input, "input", "i", "", "input file, directory, or - for stdin")
	fs.StringVarP(&f.output, "output", "o", "", "output file, directory, or - for stdout")
	fs.BoolVarP(&f.compile, "compile", "c", false, "write the input with includes expanded, do not render")
	fs.BoolVarP(&f.list, "list", "l", false, "list available templates")
	fs.BoolVar(&f.pdf, "pdf", false, "derive .pdf output names instead of .html")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.timeout, "timeout", "", "PDF page load timeout (e.g., 30s, 2m)")
}

// addTemplateFlags adds template flags to a FlagSet.
func addTemplateFlags(fs *flag.FlagSet, f *templateFlags) {
	fs.StringVarP(&f.template, "template", "t", "", "template name or file path")
	fs.StringVar(&f.templateDir, "template-dir", "", "directory replacing the built-in templates")
	fs.StringVar(&f.includePath, "include-path", "", "directory include paths are resolved from")
	fs.BoolVar(&f.noFilter, "no-filter", false, "do not normalize line endings and tabs")
	fs.BoolVar(&f.noCondense, "no-condense", false, "list every action in the navigation")
	fs.BoolVar(&f.fullWidth, "full-width", false, "use the full window width")
	fs.StringArrayVar(&f.locals, "local", nil, "template local as key=value (repeatable)")
}

// newRenderFlagSet registers every render flag into f. The same FlagSet
// drives parsing and shell completion.
func newRenderFlagSet(f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("bp2html", flag.ContinueOnError)
	addIOFlags(fs, &f.io)
	addTemplateFlags(fs, &f.template)
	addCommonFlags(fs, &f.common)
	return fs
}

// parseRenderFlags parses render flags and returns positional args.
// pflag's own error and usage output is discarded; the caller reports errors.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newRenderFlagSet(f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
