package pipeline

import (
	"crypto/md5" // #nosec G501 -- content fingerprint for templates, not security
	"encoding/hex"
	"fmt"
	"html/template"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/alnah/go-bp2html/internal/dateutil"
)

// Keys of the render context that are always present.
const (
	LocalAPI          = "api"
	LocalCondenseNav  = "condenseNav"
	LocalFullWidth    = "fullWidth"
	LocalFilterInput  = "filterInput"
	LocalDate         = "date"
	LocalMarkdown     = "markdown"
	LocalHighlight    = "highlight"
	LocalSlug         = "slug"
	LocalAnchor       = "anchor"
	LocalHash         = "hash"
	LocalHighlightCSS = "highlightCSS"
)

// slugSpace matches the characters Slug turns into hyphens.
var slugSpace = regexp.MustCompile(`[ \t\n]`)

// funcName matches names html/template accepts in a FuncMap.
var funcName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// LocalsConfig carries the per-render display flags and caller overrides.
type LocalsConfig struct {
	CondenseNav bool
	FullWidth   bool
	FilterInput bool
	Locals      map[string]any
}

// Helpers are the collaborators behind the context functions.
type Helpers struct {
	Markdown     MarkdownConverter
	Highlighter  CodeHighlighter
	HighlightCSS template.CSS
	Now          func() time.Time
}

// AssembleLocals builds a fresh render context for tree. Caller locals are
// copied in last and win over built-in names; cfg.Locals is not modified.
func AssembleLocals(tree any, cfg LocalsConfig, h Helpers) map[string]any {
	now := h.Now
	if now == nil {
		now = time.Now
	}

	locals := make(map[string]any, 11+len(cfg.Locals))
	locals[LocalAPI] = tree
	locals[LocalCondenseNav] = cfg.CondenseNav
	locals[LocalFullWidth] = cfg.FullWidth
	locals[LocalFilterInput] = cfg.FilterInput
	locals[LocalDate] = func(format string, at ...time.Time) (string, error) {
		t := now()
		if len(at) > 0 {
			t = at[0]
		}
		return dateutil.Format(t, format)
	}
	locals[LocalMarkdown] = func(content string) (template.HTML, error) {
		return h.Markdown.ToHTML(content)
	}
	locals[LocalHighlight] = func(code string, lang ...string) (template.HTML, error) {
		var l string
		if len(lang) > 0 {
			l = lang[0]
		}
		return h.Highlighter.Highlight(code, l)
	}
	locals[LocalSlug] = Slug
	locals[LocalAnchor] = Anchor
	locals[LocalHash] = Hash
	locals[LocalHighlightCSS] = h.HighlightCSS

	for key, value := range cfg.Locals {
		locals[key] = value
	}
	return locals
}

// Slug lower-cases value and replaces every space, tab and newline with a
// hyphen.
func Slug(value string) string {
	return slugSpace.ReplaceAllString(strings.ToLower(value), "-")
}

// Anchor returns a URL-safe identifier for value, suitable for element ids.
// Values the slug normalizer rejects fall back to Slug.
func Anchor(value string) string {
	normalized, err := slug.Normalize(value)
	if err != nil || normalized == "" {
		return Slug(value)
	}
	return normalized
}

// Hash returns the hex MD5 digest of the string form of value.
func Hash(value any) string {
	sum := md5.Sum([]byte(fmt.Sprint(value))) // #nosec G401 -- not used for security
	return hex.EncodeToString(sum[:])
}

// FuncMap exposes every function-valued entry of locals as a template
// function, so templates can write {{markdown .api.Description}} and caller
// overrides replace the built-in behavior. Entries html/template could not
// call are left out; they stay reachable as data.
func FuncMap(locals map[string]any) template.FuncMap {
	funcs := make(template.FuncMap, len(locals))
	for name, value := range locals {
		if isTemplateFunc(name, value) {
			funcs[name] = value
		}
	}
	return funcs
}

func isTemplateFunc(name string, value any) bool {
	if !funcName.MatchString(name) || value == nil {
		return false
	}
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Func || v.IsNil() {
		return false
	}
	t := v.Type()
	switch t.NumOut() {
	case 1:
		return true
	case 2:
		return t.Out(1) == errorType
	default:
		return false
	}
}
