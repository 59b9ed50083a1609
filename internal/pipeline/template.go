package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
)

// ErrTemplateRender indicates a template failed to parse or execute.
var ErrTemplateRender = errors.New("template rendering failed")

// TemplateFile is one named template source.
type TemplateFile struct {
	Name    string
	Content string
}

// TemplateSource is a resolved template together with the partials it may
// reference. Partials are parsed in order, so a later partial redefines
// blocks of an earlier one.
type TemplateSource struct {
	Main     TemplateFile
	Partials []TemplateFile
}

// TemplateRenderer abstracts the template engine.
type TemplateRenderer interface {
	Render(src TemplateSource, locals map[string]any) ([]byte, error)
}

// HTMLTemplateRenderer renders templates with html/template. Templates are
// parsed on every call since the function set depends on the locals.
type HTMLTemplateRenderer struct{}

// Render parses src with the functions found in locals and executes it with
// locals as data.
func (HTMLTemplateRenderer) Render(src TemplateSource, locals map[string]any) ([]byte, error) {
	tmpl := template.New(src.Main.Name).Funcs(FuncMap(locals))

	// Partials first so the main template's definitions win over blocks.
	for _, p := range src.Partials {
		if _, err := tmpl.New(p.Name).Parse(p.Content); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplateRender, p.Name, err)
		}
	}
	if _, err := tmpl.Parse(src.Main.Content); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplateRender, src.Main.Name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, src.Main.Name, locals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.Bytes(), nil
}
