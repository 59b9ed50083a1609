package assets

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var embedded embed.FS

// NewEmbeddedStore creates a TemplateStore serving the built-in templates.
func NewEmbeddedStore() *TemplateStore {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err) // unreachable: constant, valid directory name
	}
	return &TemplateStore{fsys: sub, origin: "built-in templates"}
}
