// Package assets stores and resolves the HTML templates pages are rendered
// with.
//
// # Template Stores
//
// A TemplateStore wraps an fs.FS holding a flat set of templates:
//
//	{root}/
//	├── default.html      # selectable template "default"
//	├── slate.html        # selectable template "slate"
//	├── _layout.html      # partial, parsed with every template
//	└── _action.html      # partial
//
// Files whose name starts with an underscore are partials: they are never
// listed or selectable, and every selected template can reference them by
// name without extension ({{template "_layout" .}}).
//
// NewEmbeddedStore serves the built-in templates compiled into the binary.
// NewDirStore serves a directory on disk, with path traversal protection and
// symlink resolution.
//
// # Resolution
//
// Resolve accepts either a path to an existing template file, used as is, or
// the name of a template in the store. Partials sitting next to a template
// file are parsed after the store's partials and may redefine them.
//
// # Security
//
// Template names are validated so they can never reach outside the store.
package assets
