package assets

import (
	"path"
	"strings"
)

// TemplateExt is the extension of template files.
const TemplateExt = ".html"

// DefaultTemplateName is the name of the built-in template used when none is
// requested.
const DefaultTemplateName = "default"

// partialPrefix marks files that are parsed with every template but never
// selected on their own.
const partialPrefix = "_"

// Template is a resolved template with its partials.
type Template struct {
	Name     string    // Name without extension, used as the template's define name
	Path     string    // File path when resolved from a path, empty for store templates
	Content  string    // Template source
	Partials []Partial // Parsed in order before Content
}

// Partial is a named template fragment shared by templates.
type Partial struct {
	Name    string // File name without extension, e.g. "_layout"
	Content string
}

// IsPartial reports whether the file name designates a partial.
func IsPartial(name string) bool {
	return strings.HasPrefix(path.Base(name), partialPrefix)
}

// templateName strips the template extension from a file name.
func templateName(file string) string {
	return strings.TrimSuffix(path.Base(file), TemplateExt)
}
