package bp2html

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"github.com/alnah/go-bp2html/internal/assets"
	"github.com/alnah/go-bp2html/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.InputNormalizer   = pipeline.BlueprintNormalizer{}
	_ pipeline.MarkdownConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CodeHighlighter   = (*pipeline.ChromaHighlighter)(nil)
	_ pipeline.TemplateRenderer  = pipeline.HTMLTemplateRenderer{}
	_ assets.TemplateLoader      = (*assets.TemplateStore)(nil)
)

// Renderer renders API Blueprint documents to HTML.
// A Renderer is safe for concurrent use. Create it with NewRenderer and call
// Close when done if PDF output was requested.
type Renderer struct {
	cfg          rendererConfig
	templates    assets.TemplateLoader
	parser       Parser
	normalizer   pipeline.InputNormalizer
	markdown     pipeline.MarkdownConverter
	highlighter  pipeline.CodeHighlighter
	highlightCSS template.CSS
	engine       pipeline.TemplateRenderer
	logger       Logger
	now          func() time.Time
	stdin        io.Reader
	stdout       io.Writer

	pdfMu sync.Mutex
	pdf   pdfConverter
}

// rendererConfig holds construction-time settings.
type rendererConfig struct {
	templateDir string
	templateFS  fs.FS
	timeout     time.Duration
}

// NewRenderer creates a Renderer using the built-in templates and parser.
// Returns ErrInvalidTemplateDir when WithTemplateDir names an unusable
// directory.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg:         rendererConfig{timeout: defaultTimeout},
		parser:      BlueprintParser{},
		normalizer:  pipeline.BlueprintNormalizer{},
		markdown:    pipeline.NewGoldmarkConverter(),
		highlighter: pipeline.NewChromaHighlighter(),
		engine:      pipeline.HTMLTemplateRenderer{},
		logger:      nopLogger{},
		now:         time.Now,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
	}

	for _, opt := range opts {
		opt(r)
	}

	switch {
	case r.cfg.templateFS != nil:
		r.templates = assets.NewTemplateStore(r.cfg.templateFS)
	case r.cfg.templateDir != "":
		store, err := assets.NewDirStore(r.cfg.templateDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTemplateDir, err)
		}
		r.templates = store
	default:
		r.templates = assets.NewEmbeddedStore()
	}

	css, err := r.highlighter.CSS()
	if err != nil {
		return nil, fmt.Errorf("building highlight stylesheet: %w", err)
	}
	r.highlightCSS = css

	return r, nil
}

// RenderSync runs the whole pipeline on the calling goroutine: include
// expansion, normalization, parsing, context assembly and template
// rendering. Result.Warnings.Input is the exact text given to the parser.
// Recovers from internal panics to prevent crashes from propagating to
// callers.
func (r *Renderer) RenderSync(input string, opts Options) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	baseDir, err := includeBase(opts.IncludePath)
	if err != nil {
		return nil, err
	}

	text, err := pipeline.ExpandIncludes(baseDir, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInclude, err)
	}
	if opts.FilterInput() {
		text = r.normalizer.Normalize(text)
	}

	parsed, err := parse(r.parser, text)
	if err != nil {
		return nil, err
	}

	tmpl, err := r.templates.Resolve(opts.Template)
	if err != nil {
		return nil, err
	}

	locals := pipeline.AssembleLocals(parsed.Tree, pipeline.LocalsConfig{
		CondenseNav: opts.CondenseNav(),
		FullWidth:   opts.FullWidth,
		FilterInput: opts.FilterInput(),
		Locals:      opts.Locals,
	}, r.helpers())

	page, err := r.engine.Render(templateSource(tmpl), locals)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("rendered document",
		"template", tmpl.Name,
		"input_bytes", len(text),
		"html_bytes", len(page),
		"warnings", len(parsed.Warnings))

	return &Result{
		HTML:     page,
		Warnings: Warnings{Items: parsed.Warnings, Input: text},
	}, nil
}

// RenderAsync runs RenderSync on a new goroutine. The returned channel
// receives exactly one Outcome and is then closed.
func (r *Renderer) RenderAsync(input string, opts Options) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		res, err := r.RenderSync(input, opts)
		out <- Outcome{Result: res, Err: err}
	}()
	return out
}

// Render waits for RenderAsync. When ctx is done first it returns ctx.Err();
// the render itself keeps running to completion and its result is dropped.
func (r *Renderer) Render(ctx context.Context, input string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case o := <-r.RenderAsync(input, opts):
		return o.Result, o.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Compile expands the include markers of input and returns the assembled
// text, without normalizing or parsing it. includePath defaults to the
// current directory.
func (r *Renderer) Compile(input, includePath string) (string, error) {
	baseDir, err := includeBase(includePath)
	if err != nil {
		return "", err
	}
	text, err := pipeline.ExpandIncludes(baseDir, input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInclude, err)
	}
	return text, nil
}

// CollectPaths returns the absolute path of every file input includes,
// directly or not, in depth-first order. Files included several times are
// listed several times.
func (r *Renderer) CollectPaths(input, includePath string) ([]string, error) {
	baseDir, err := includeBase(includePath)
	if err != nil {
		return nil, err
	}
	paths, err := pipeline.CollectIncludePaths(baseDir, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInclude, err)
	}
	return paths, nil
}

// Templates lists the names of the templates that can be selected by name,
// sorted.
func (r *Renderer) Templates() ([]string, error) {
	return r.templates.List()
}

// RenderFile renders the file in to out. Either locator may be Stdio. When
// opts.IncludePath is empty, includes are resolved from the directory of
// in, or from the current directory for standard input. An out path ending
// in ".pdf" is printed to PDF through headless Chrome. Nothing is written
// unless the whole pipeline succeeds.
func (r *Renderer) RenderFile(ctx context.Context, in, out string, opts Options) (*Warnings, error) {
	input, err := r.readInput(in)
	if err != nil {
		return nil, err
	}
	if opts.IncludePath == "" {
		if opts.IncludePath, err = inputDir(in); err != nil {
			return nil, err
		}
	}

	res, err := r.Render(ctx, input, opts)
	if err != nil {
		return nil, err
	}

	data := res.HTML
	if isPDF(out) {
		if data, err = r.toPDF(ctx, data, opts.IncludePath); err != nil {
			return nil, err
		}
	}

	if err := r.writeOutput(out, data); err != nil {
		return nil, err
	}
	r.logger.Info("rendered file", "input", in, "output", out, "warnings", len(res.Warnings.Items))
	return &res.Warnings, nil
}

// CompileFile expands the includes of the file in and writes the assembled
// text to out. Either locator may be Stdio.
func (r *Renderer) CompileFile(ctx context.Context, in, out string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	input, err := r.readInput(in)
	if err != nil {
		return err
	}
	dir, err := inputDir(in)
	if err != nil {
		return err
	}

	text, err := r.Compile(input, dir)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.writeOutput(out, []byte(text)); err != nil {
		return err
	}
	r.logger.Info("compiled file", "input", in, "output", out)
	return nil
}

// Close releases the browser started for PDF output, if any.
func (r *Renderer) Close() error {
	r.pdfMu.Lock()
	defer r.pdfMu.Unlock()

	if r.pdf == nil {
		return nil
	}
	err := r.pdf.Close()
	r.pdf = nil
	return err
}

// helpers returns the collaborators of the render context functions.
func (r *Renderer) helpers() pipeline.Helpers {
	return pipeline.Helpers{
		Markdown:     r.markdown,
		Highlighter:  r.highlighter,
		HighlightCSS: r.highlightCSS,
		Now:          r.now,
	}
}

// toPDF prints page, starting the browser on first use.
func (r *Renderer) toPDF(ctx context.Context, page []byte, baseDir string) ([]byte, error) {
	r.pdfMu.Lock()
	if r.pdf == nil {
		r.pdf = newRodConverter(r.cfg.timeout)
	}
	conv := r.pdf
	r.pdfMu.Unlock()

	pdf, err := conv.ToPDF(ctx, page, baseDir)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	return pdf, nil
}

func (r *Renderer) readInput(in string) (string, error) {
	var (
		data []byte
		err  error
	)
	if in == Stdio {
		data, err = io.ReadAll(r.stdin)
	} else {
		data, err = os.ReadFile(in) // #nosec G304 -- user-provided input path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return string(data), nil
}

// writeOutput writes data to out in one step. Files are replaced
// atomically so readers never see a partial page.
func (r *Renderer) writeOutput(out string, data []byte) error {
	if out == Stdio {
		if _, err := r.stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		return nil
	}
	if err := atomic.WriteFile(out, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// templateSource lays a resolved template out for the template engine.
func templateSource(t *assets.Template) pipeline.TemplateSource {
	src := pipeline.TemplateSource{
		Main:     pipeline.TemplateFile{Name: t.Name, Content: t.Content},
		Partials: make([]pipeline.TemplateFile, len(t.Partials)),
	}
	for i, p := range t.Partials {
		src.Partials[i] = pipeline.TemplateFile{Name: p.Name, Content: p.Content}
	}
	return src
}

// includeBase returns the absolute directory includes are resolved from.
func includeBase(includePath string) (string, error) {
	if includePath == "" {
		dir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving include path: %w", err)
		}
		return dir, nil
	}
	dir, err := filepath.Abs(includePath)
	if err != nil {
		return "", fmt.Errorf("resolving include path %q: %w", includePath, err)
	}
	return dir, nil
}

// inputDir returns the default include path for the input locator in.
func inputDir(in string) (string, error) {
	if in == Stdio {
		return includeBase("")
	}
	return includeBase(filepath.Dir(in))
}

func isPDF(out string) bool {
	return out != Stdio && strings.EqualFold(filepath.Ext(out), ".pdf")
}
