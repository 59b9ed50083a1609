package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// TemplateStore serves templates from a flat fs.FS.
// Implements TemplateLoader interface.
type TemplateStore struct {
	fsys     fs.FS
	origin   string // Shown in errors: "embedded" or a directory
	basePath string // Set for directory stores, enables containment checks
}

// NewTemplateStore creates a TemplateStore serving the templates at the root
// of fsys.
func NewTemplateStore(fsys fs.FS) *TemplateStore {
	return &TemplateStore{fsys: fsys, origin: "custom filesystem"}
}

// Resolve returns the template designated by ref. An existing regular file
// at ref is used verbatim; otherwise ref names a template of the store.
// An empty ref selects DefaultTemplateName.
func (s *TemplateStore) Resolve(ref string) (*Template, error) {
	if ref == "" {
		ref = DefaultTemplateName
	}
	if isRegularFile(ref) {
		return s.loadFile(ref)
	}
	return s.Lookup(ref)
}

// Lookup returns the store template called name, without extension.
func (s *TemplateStore) Lookup(name string) (*Template, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, fmt.Errorf("%w: %q is not a file or template name: %w", ErrTemplateNotFound, name, err)
	}
	if IsPartial(name) {
		return nil, fmt.Errorf("%w: %q is a partial", ErrTemplateNotFound, name)
	}

	content, err := s.read(name + TemplateExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q in %s", ErrTemplateNotFound, name, s.origin)
		}
		return nil, err
	}

	partials, err := s.Partials()
	if err != nil {
		return nil, err
	}

	return &Template{Name: name, Content: content, Partials: partials}, nil
}

// List returns the names of the selectable templates of the store, sorted,
// without extension. Partials are left out.
func (s *TemplateStore) List() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", ErrAssetRead, s.origin, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || IsPartial(e.Name()) || !strings.HasSuffix(e.Name(), TemplateExt) {
			continue
		}
		names = append(names, templateName(e.Name()))
	}
	slices.Sort(names)
	return names, nil
}

// Partials returns the partials of the store, sorted by name.
func (s *TemplateStore) Partials() ([]Partial, error) {
	files, err := fs.Glob(s.fsys, partialPrefix+"*"+TemplateExt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	partials := make([]Partial, 0, len(files))
	for _, file := range files {
		content, err := s.read(file)
		if err != nil {
			return nil, err
		}
		partials = append(partials, Partial{Name: templateName(file), Content: content})
	}
	return partials, nil
}

// read returns the content of a file of the store.
func (s *TemplateStore) read(file string) (string, error) {
	if s.basePath != "" {
		if err := verifyPathContainment(s.basePath, filepath.Join(s.basePath, file)); err != nil {
			return "", err
		}
	}

	content, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// loadFile loads a template from a path on disk. Partials found next to the
// file come after the store's partials.
func (s *TemplateStore) loadFile(path string) (*Template, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- template path chosen by the caller
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	partials, err := s.Partials()
	if err != nil {
		return nil, err
	}
	siblings, err := siblingPartials(path)
	if err != nil {
		return nil, err
	}

	return &Template{
		Name:     templateName(filepath.Base(path)),
		Path:     path,
		Content:  string(content),
		Partials: append(partials, siblings...),
	}, nil
}

// siblingPartials reads the partials in the directory of path, sorted by
// name. The template itself is skipped.
func siblingPartials(path string) ([]Partial, error) {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	var partials []Partial
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !IsPartial(name) || !strings.HasSuffix(name, TemplateExt) || name == filepath.Base(path) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, name)) // #nosec G304 -- sibling of a caller chosen template
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
		partials = append(partials, Partial{Name: templateName(name), Content: string(content)})
	}
	return partials, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Compile-time interface check.
var _ TemplateLoader = (*TemplateStore)(nil)
