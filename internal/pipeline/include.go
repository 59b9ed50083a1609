package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// ErrCircularInclude indicates a file includes itself, directly or through
// one of the files it includes.
var ErrCircularInclude = errors.New("circular include")

// includePattern matches an include marker anywhere in a line. Group 1 holds
// the spaces in front of the marker, group 2 the referenced filename.
var includePattern = regexp.MustCompile(`(?i)( *)<!-- include\((.*)\) -->`)

// IncludeMatch describes one include marker found in a text.
type IncludeMatch struct {
	Start, End int    // byte span of the marker, prefix included
	Indent     string // leading spaces reproduced on every included line
	Name       string // filename as written in the marker
}

// FindIncludes returns the include markers of text, left to right.
func FindIncludes(text string) []IncludeMatch {
	idx := includePattern.FindAllStringSubmatchIndex(text, -1)
	if len(idx) == 0 {
		return nil
	}
	matches := make([]IncludeMatch, 0, len(idx))
	for _, m := range idx {
		matches = append(matches, IncludeMatch{
			Start:  m[0],
			End:    m[1],
			Indent: text[m[2]:m[3]],
			Name:   text[m[4]:m[5]],
		})
	}
	return matches
}

// ResolveIncludePath joins an include filename with the directory of the
// file that references it.
func ResolveIncludePath(baseDir, name string) string {
	return filepath.Join(baseDir, filepath.FromSlash(name))
}

// ExpandIncludes replaces every include marker in text with the contents of
// the referenced file. Paths resolve against baseDir; nested markers resolve
// against the directory of the file that contains them.
func ExpandIncludes(baseDir, text string) (string, error) {
	return expandIncludes(baseDir, text, nil)
}

// ExpandIncludesFrom is ExpandIncludes for text read from the file origin,
// so that origin itself counts as part of the include chain.
func ExpandIncludesFrom(origin, baseDir, text string) (string, error) {
	return expandIncludes(baseDir, text, []string{chainKey(origin)})
}

func expandIncludes(baseDir, text string, chain []string) (string, error) {
	matches := FindIncludes(text)
	if len(matches) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0

	for _, m := range matches {
		fullPath := ResolveIncludePath(baseDir, m.Name)
		next, err := extendChain(chain, fullPath)
		if err != nil {
			return "", err
		}

		content, err := readInclude(fullPath)
		if err != nil {
			return "", err
		}

		lines := strings.Split(content, "\n")
		indented := m.Indent + strings.Join(lines, "\n"+m.Indent)

		expanded, err := expandIncludes(filepath.Dir(fullPath), indented, next)
		if err != nil {
			return "", err
		}

		b.WriteString(text[last:m.Start])
		b.WriteString(expanded)
		last = m.End
	}
	b.WriteString(text[last:])

	return b.String(), nil
}

// CollectIncludePaths returns the resolved path of every file reachable
// through include markers, depth first in discovery order. A file included
// several times appears several times.
func CollectIncludePaths(baseDir, text string) ([]string, error) {
	var paths []string
	if err := collectIncludePaths(baseDir, text, nil, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func collectIncludePaths(baseDir, text string, chain []string, paths *[]string) error {
	for _, m := range FindIncludes(text) {
		fullPath := ResolveIncludePath(baseDir, m.Name)
		next, err := extendChain(chain, fullPath)
		if err != nil {
			return err
		}
		*paths = append(*paths, fullPath)

		content, err := readInclude(fullPath)
		if err != nil {
			return err
		}
		if err := collectIncludePaths(filepath.Dir(fullPath), content, next, paths); err != nil {
			return err
		}
	}
	return nil
}

// readInclude reads an included file with line endings folded to "\n".
func readInclude(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- include paths come from the document author
	if err != nil {
		return "", fmt.Errorf("reading include: %w", err)
	}
	return NormalizeLineEndings(string(data)), nil
}

// extendChain returns chain plus path, or ErrCircularInclude when path is
// already one of its ancestors. The returned slice never aliases chain.
func extendChain(chain []string, path string) ([]string, error) {
	key := chainKey(path)
	if slices.Contains(chain, key) {
		cycle := append(slices.Clone(chain), key)
		return nil, fmt.Errorf("%w: %s", ErrCircularInclude, strings.Join(cycle, " -> "))
	}
	return append(slices.Clip(chain), key), nil
}

// chainKey identifies a file for cycle detection.
func chainKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
