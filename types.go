package bp2html

import "github.com/alnah/go-bp2html/internal/assets"

// DefaultTemplate is the built-in template used when Options.Template is empty.
const DefaultTemplate = assets.DefaultTemplateName

// Stdio is the locator that designates standard input or standard output
// in the file entry points.
const Stdio = "-"

// Options configures one render. The zero value renders with the default
// template, filters the input, condenses the navigation and uses a fixed
// width layout.
type Options struct {
	// Template is a template name or the path of a template file.
	Template string

	// SkipFilter hands the expanded text to the parser without normalizing
	// line endings and tabs.
	SkipFilter bool

	// ExpandNav lists every action in the navigation, even for resources
	// with a single action.
	ExpandNav bool

	// FullWidth lets the page use the whole window width.
	FullWidth bool

	// IncludePath is the directory include markers are resolved from.
	// Empty means the current directory, or the input file's directory for
	// the file entry points.
	IncludePath string

	// Locals are added to the render context after the built-in helpers and
	// may shadow them. The map is never modified.
	Locals map[string]any
}

// TemplateOptions returns Options selecting template with every other
// setting at its default.
func TemplateOptions(template string) Options {
	return Options{Template: template}
}

// FilterInput reports whether the input is normalized before parsing.
func (o Options) FilterInput() bool { return !o.SkipFilter }

// CondenseNav reports whether single-action resources collapse in the
// navigation.
func (o Options) CondenseNav() bool { return !o.ExpandNav }

// Location is a byte range of the text submitted to the parser.
type Location struct {
	Index  int
	Length int
}

// Warning is a non-fatal diagnostic reported by the parser.
type Warning struct {
	Code     int
	Message  string
	Location []Location
}

// Warnings are the diagnostics of one render. Input is the exact text that
// was submitted to the parser, which the warning locations refer to.
type Warnings struct {
	Items []Warning
	Input string
}

// Len returns the number of warnings.
func (w *Warnings) Len() int {
	if w == nil {
		return 0
	}
	return len(w.Items)
}

// Result is the output of a successful render.
type Result struct {
	HTML     []byte
	Warnings Warnings
}

// Outcome is the value delivered by RenderAsync.
type Outcome struct {
	Result *Result
	Err    error
}
