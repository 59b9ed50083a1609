package assets

// TemplateLoader defines the contract for finding page templates.
// Implementations may serve embedded files, a directory, or any fs.FS.
type TemplateLoader interface {
	// Resolve returns the template designated by spec, either a path to a
	// template file or the name of a template in the store.
	// Returns ErrTemplateNotFound if spec designates neither.
	Resolve(spec string) (*Template, error)

	// List returns the names of the selectable templates, sorted.
	List() ([]string, error)
}
