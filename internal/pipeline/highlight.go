package pipeline

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightStyle is the chroma style used for code blocks and the
// stylesheet exposed to templates.
const HighlightStyle = "github"

// NoHighlight disables highlighting for a code block.
const NoHighlight = "no-highlight"

// CodeHighlighter abstracts syntax highlighting for templates.
type CodeHighlighter interface {
	Highlight(code, lang string) (template.HTML, error)
	CSS() (template.CSS, error)
}

// ChromaHighlighter highlights code with chroma, emitting CSS classes
// rather than inline styles.
type ChromaHighlighter struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// NewChromaHighlighter creates a ChromaHighlighter using HighlightStyle.
func NewChromaHighlighter() *ChromaHighlighter {
	return &ChromaHighlighter{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		style: styles.Get(HighlightStyle),
	}
}

// Highlight returns code as highlighted HTML. lang is a language name or a
// media type; when empty or unknown chroma guesses from the code.
// NoHighlight returns the code escaped but unstyled.
func (h *ChromaHighlighter) Highlight(code, lang string) (template.HTML, error) {
	if lang == NoHighlight {
		// #nosec G203 -- escaped above
		return template.HTML(html.EscapeString(code)), nil
	}

	lexer := lexerFor(code, lang)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("highlighting %s: %w", lexer.Config().Name, err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("highlighting %s: %w", lexer.Config().Name, err)
	}
	// #nosec G203 -- chroma escapes token text
	return template.HTML(buf.String()), nil
}

// CSS returns the stylesheet matching the classes emitted by Highlight.
func (h *ChromaHighlighter) CSS() (template.CSS, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	// #nosec G203 -- generated by chroma
	return template.CSS(buf.String()), nil
}

func lexerFor(code, lang string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang = strings.TrimSpace(lang); lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil && strings.Contains(lang, "/") {
		// Media types such as "application/json; charset=utf-8"
		mime, _, _ := strings.Cut(lang, ";")
		lexer = lexers.MatchMimeType(strings.TrimSpace(mime))
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
