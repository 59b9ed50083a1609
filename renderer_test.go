package bp2html

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	r, err := NewRenderer(opts...)
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// treeParser returns a parser producing tree without warnings.
func treeParser(tree any) Parser {
	return ParserFunc(func(string) (*ParseResult, error) {
		return &ParseResult{Tree: tree}, nil
	})
}

const messageBlueprint = "# GET /message\r\n+ Response 200 (text/plain)\r\r\t\tHello!\n"

// ---------------------------------------------------------------------------
// TestNewRenderer - Construction
// ---------------------------------------------------------------------------

func TestNewRenderer_InvalidTemplateDir(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer(WithTemplateDir(filepath.Join(t.TempDir(), "missing")))
	if !errors.Is(err, ErrInvalidTemplateDir) {
		t.Fatalf("expected ErrInvalidTemplateDir, got %v", err)
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero timeout")
		}
	}()
	WithTimeout(0)
}

// ---------------------------------------------------------------------------
// TestRenderSync - Full Pipeline
// ---------------------------------------------------------------------------

func TestRenderSync_MessageScenario(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	res, err := r.RenderSync(messageBlueprint, Options{})
	if err != nil {
		t.Fatalf("RenderSync() error: %v", err)
	}

	if len(res.HTML) == 0 {
		t.Fatal("expected non-empty HTML")
	}
	if !bytes.Contains(res.HTML, []byte("/message")) {
		t.Errorf("HTML does not mention the endpoint:\n%s", res.HTML)
	}

	want := "# GET /message\n+ Response 200 (text/plain)\n\n        Hello!\n"
	if res.Warnings.Input != want {
		t.Errorf("Warnings.Input = %q, want %q", res.Warnings.Input, want)
	}
}

func TestRenderSync_EmptyInput(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	res, err := r.RenderSync("", Options{})
	if err != nil {
		t.Fatalf("RenderSync() error: %v", err)
	}
	if !bytes.Contains(res.HTML, []byte("<html")) {
		t.Errorf("expected the template chrome, got:\n%s", res.HTML)
	}
	if res.Warnings.Input != "" {
		t.Errorf("Warnings.Input = %q, want empty", res.Warnings.Input)
	}
}

func TestRenderSync_InputFilter(t *testing.T) {
	t.Parallel()

	input := "A\r\nB\rC\tD"
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "filtered by default", opts: Options{}, want: "A\nB\nC    D"},
		{name: "skip filter keeps text", opts: Options{SkipFilter: true}, want: input},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			r := newTestRenderer(t, WithParser(ParserFunc(func(src string) (*ParseResult, error) {
				got = src
				return &ParseResult{}, nil
			})), WithTemplateFS(fstest.MapFS{"default.html": {Data: []byte("ok")}}))

			res, err := r.RenderSync(input, tt.opts)
			if err != nil {
				t.Fatalf("RenderSync() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parser input = %q, want %q", got, tt.want)
			}
			if res.Warnings.Input != got {
				t.Errorf("Warnings.Input = %q, parser saw %q", res.Warnings.Input, got)
			}
			if strings.ContainsAny(got, "\r\t") && !tt.opts.SkipFilter {
				t.Errorf("filtered input still has \\r or \\t: %q", got)
			}
		})
	}
}

func TestRenderSync_Includes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"actions.md": "+ one\r\n+ two",
	})

	var got string
	r := newTestRenderer(t, WithParser(ParserFunc(func(src string) (*ParseResult, error) {
		got = src
		return &ParseResult{}, nil
	})), WithTemplateFS(fstest.MapFS{"default.html": {Data: []byte("ok")}}))

	_, err := r.RenderSync("list:\n  <!-- include(actions.md) -->\nend", Options{IncludePath: dir})
	if err != nil {
		t.Fatalf("RenderSync() error: %v", err)
	}

	want := "list:\n  + one\n  + two\nend"
	if got != want {
		t.Errorf("parser input = %q, want %q", got, want)
	}
}

func TestRenderSync_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		opts    Options
		wantErr error
	}{
		{
			name:    "unknown template",
			opts:    Options{Template: "no-such-template"},
			wantErr: ErrTemplateNotFound,
		},
		{
			name:    "missing template path",
			opts:    Options{Template: "./missing/theme.html"},
			wantErr: ErrTemplateNotFound,
		},
		{
			name:    "missing include",
			input:   "<!-- include(missing.md) -->",
			wantErr: fs.ErrNotExist,
		},
		{
			name:    "missing include wraps ErrInclude",
			input:   "<!-- include(missing.md) -->",
			wantErr: ErrInclude,
		},
		{
			name:    "unsupported format",
			input:   "FORMAT: 2A\n\n# API\n",
			wantErr: ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRenderer(t)
			opts := tt.opts
			opts.IncludePath = t.TempDir()

			_, err := r.RenderSync(tt.input, opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRenderSync_CircularInclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.md": "<!-- include(b.md) -->",
		"b.md": "<!-- include(a.md) -->",
	})

	r := newTestRenderer(t)
	_, err := r.RenderSync("<!-- include(a.md) -->", Options{IncludePath: dir})
	if !errors.Is(err, ErrCircularInclude) || !errors.Is(err, ErrInclude) {
		t.Fatalf("expected ErrCircularInclude and ErrInclude, got %v", err)
	}
}

func TestRenderSync_ParseError(t *testing.T) {
	t.Parallel()

	parserErr := errors.New("unexpected token")
	r := newTestRenderer(t, WithParser(ParserFunc(func(string) (*ParseResult, error) {
		return nil, parserErr
	})))

	_, err := r.RenderSync("A\r\nB", Options{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.SourceText != "A\nB" {
		t.Errorf("SourceText = %q, want %q", pe.SourceText, "A\nB")
	}
	if !errors.Is(err, ErrParse) || !errors.Is(err, parserErr) {
		t.Errorf("error should wrap ErrParse and the parser error: %v", err)
	}
}

func TestRenderSync_ParserPanic(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithParser(ParserFunc(func(string) (*ParseResult, error) {
		panic("boom")
	})))

	_, err := r.RenderSync("text", Options{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if !strings.Contains(pe.Message, "boom") || pe.SourceText != "text" {
		t.Errorf("unexpected ParseError: %+v", pe)
	}
}

func TestRenderSync_TemplateRenderError(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithTemplateFS(fstest.MapFS{
		"broken.html": {Data: []byte("{{if}}")},
	}))

	_, err := r.RenderSync("", Options{Template: "broken"})
	if !errors.Is(err, ErrTemplateRender) {
		t.Fatalf("expected ErrTemplateRender, got %v", err)
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		t.Error("template errors must not carry source text")
	}
}

// ---------------------------------------------------------------------------
// TestRenderSync_Locals - Render Context
// ---------------------------------------------------------------------------

func TestRenderSync_Locals(t *testing.T) {
	t.Parallel()

	store := fstest.MapFS{
		"page.html": {Data: []byte(`{{.api.Name}}|{{.greeting}}|{{slug "A B"}}|{{.condenseNav}}|{{.fullWidth}}|{{date "YYYY-MM-DD"}}`)},
	}
	r := newTestRenderer(t,
		WithTemplateFS(store),
		WithParser(treeParser(map[string]any{"Name": "Notes"})))

	tests := []struct {
		name   string
		opts   Options
		locals map[string]any
		want   string
	}{
		{
			name:   "defaults",
			opts:   Options{Template: "page"},
			locals: map[string]any{"greeting": "hello"},
			want:   "Notes|hello|a-b|true|false|2026-03-14",
		},
		{
			name:   "caller values and shadowed helper",
			opts:   Options{Template: "page", ExpandNav: true, FullWidth: true},
			locals: map[string]any{"greeting": "hi", "slug": func(string) string { return "custom" }},
			want:   "Notes|hi|custom|false|true|2026-03-14",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.Locals = tt.locals
			before := len(tt.locals)

			res, err := r.RenderSync("", opts)
			if err != nil {
				t.Fatalf("RenderSync() error: %v", err)
			}
			if string(res.HTML) != tt.want {
				t.Errorf("HTML = %q, want %q", res.HTML, tt.want)
			}
			if len(tt.locals) != before {
				t.Errorf("caller locals were modified: %v", tt.locals)
			}
		})
	}
}

func TestRenderSync_TemplatePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"theme.html": `{{template "_nav" .}}`,
		"_nav.html":  `custom nav`,
	})

	r := newTestRenderer(t)
	res, err := r.RenderSync("", Options{Template: filepath.Join(dir, "theme.html")})
	if err != nil {
		t.Fatalf("RenderSync() error: %v", err)
	}
	if string(res.HTML) != "custom nav" {
		t.Errorf("HTML = %q, want sibling partial to win", res.HTML)
	}
}

// ---------------------------------------------------------------------------
// TestRender - Sync and Async Agreement
// ---------------------------------------------------------------------------

func TestRender_MatchesRenderSync(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	inputs := []string{
		"",
		messageBlueprint,
		"FORMAT: 1A\nHOST: https://api.example.com/\n\n# Notes API\n\n## Notes [/notes]\n### List [GET]\n+ Response 200 (application/json)\n\n        []\n",
	}
	variants := []Options{
		{},
		{ExpandNav: true, FullWidth: true},
		{Template: "slate", SkipFilter: true},
	}

	for _, input := range inputs {
		for _, opts := range variants {
			syncRes, syncErr := r.RenderSync(input, opts)
			asyncRes, asyncErr := r.Render(context.Background(), input, opts)

			if (syncErr == nil) != (asyncErr == nil) {
				t.Fatalf("errors differ: sync=%v async=%v", syncErr, asyncErr)
			}
			if syncErr != nil {
				continue
			}
			if !bytes.Equal(syncRes.HTML, asyncRes.HTML) {
				t.Errorf("HTML differs for input %q opts %+v", input, opts)
			}
			if syncRes.Warnings.Input != asyncRes.Warnings.Input {
				t.Errorf("Warnings.Input differs for input %q", input)
			}
		}
	}
}

func TestRenderAsync_DeliversOnce(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	ch := r.RenderAsync("", Options{Template: "missing-template"})

	o, ok := <-ch
	if !ok {
		t.Fatal("channel closed without an outcome")
	}
	if !errors.Is(o.Err, ErrTemplateNotFound) || o.Result != nil {
		t.Errorf("unexpected outcome: %+v", o)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after the outcome")
	}
}

func TestRender_ContextCancelled(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, "", Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRender_StopsWaiting(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	r := newTestRenderer(t, WithParser(ParserFunc(func(string) (*ParseResult, error) {
		<-release
		return &ParseResult{}, nil
	})))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Render(ctx, "", Options{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestCompile - Include Expansion Only
// ---------------------------------------------------------------------------

func TestCompile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"body.md":       "line 1\r\n<!-- include(sub/nested.md) -->",
		"sub/nested.md": "nested\twith tab",
	})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no markers returns input unchanged",
			input: "# API\r\n\tindented\r",
			want:  "# API\r\n\tindented\r",
		},
		{
			name:  "nested includes resolved from their own directory",
			input: "top\n    <!-- include(body.md) -->\nbottom",
			want:  "top\n    line 1\n    nested\twith tab\nbottom",
		},
	}

	r := newTestRenderer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Compile(tt.input, dir)
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compile() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.md":       "<!-- include(sub/b.md) -->\n<!-- include(c.md) -->",
		"sub/b.md":   "b",
		"c.md":       "c",
		"shared.md":  "s",
		"another.md": "<!-- include(shared.md) -->",
	})

	r := newTestRenderer(t)
	got, err := r.CollectPaths("<!-- include(a.md) -->\n<!-- include(another.md) -->\n<!-- include(shared.md) -->", dir)
	if err != nil {
		t.Fatalf("CollectPaths() error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "sub", "b.md"),
		filepath.Join(dir, "c.md"),
		filepath.Join(dir, "another.md"),
		filepath.Join(dir, "shared.md"),
		filepath.Join(dir, "shared.md"),
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("CollectPaths() =\n%v\nwant\n%v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestTemplates - Listing
// ---------------------------------------------------------------------------

func TestTemplates(t *testing.T) {
	t.Parallel()

	t.Run("built-in", func(t *testing.T) {
		t.Parallel()

		names, err := newTestRenderer(t).Templates()
		if err != nil {
			t.Fatalf("Templates() error: %v", err)
		}
		if strings.Join(names, ",") != "default,slate" {
			t.Errorf("Templates() = %v, want [default slate]", names)
		}
	})

	t.Run("custom directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"alpha.html":  "a",
			"beta.html":   "b",
			"gamma.html":  "c",
			"_nav.html":   "partial",
			"notes.txt":   "ignored",
			"sub/x.html":  "ignored",
			"_extra.html": "partial",
		})

		r := newTestRenderer(t, WithTemplateDir(dir))
		names, err := r.Templates()
		if err != nil {
			t.Fatalf("Templates() error: %v", err)
		}
		if strings.Join(names, ",") != "alpha,beta,gamma" {
			t.Errorf("Templates() = %v, want [alpha beta gamma]", names)
		}
	})
}
