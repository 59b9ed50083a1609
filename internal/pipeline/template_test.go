package pipeline

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestHTMLTemplateRenderer - Template Execution
// ---------------------------------------------------------------------------

func TestHTMLTemplateRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     TemplateSource
		locals  map[string]any
		want    string
		wantErr error
	}{
		{
			name:   "data from locals",
			src:    TemplateSource{Main: TemplateFile{Name: "default", Content: `<h1>{{.api}}</h1>`}},
			locals: map[string]any{LocalAPI: "Notes"},
			want:   "<h1>Notes</h1>",
		},
		{
			name:   "function from locals",
			src:    TemplateSource{Main: TemplateFile{Name: "default", Content: `{{slug "A B"}}`}},
			locals: map[string]any{LocalSlug: Slug},
			want:   "a-b",
		},
		{
			name:   "caller override replaces helper",
			src:    TemplateSource{Main: TemplateFile{Name: "default", Content: `{{slug "A B"}}`}},
			locals: map[string]any{LocalSlug: func(string) string { return "custom" }},
			want:   "custom",
		},
		{
			name: "main template fills partial block",
			src: TemplateSource{
				Main: TemplateFile{Name: "default", Content: `{{template "_layout" .}}{{define "body"}}B{{end}}`},
				Partials: []TemplateFile{
					{Name: "_layout", Content: `[{{block "body" .}}default{{end}}]`},
				},
			},
			want: "[B]",
		},
		{
			name: "later partial redefines earlier one",
			src: TemplateSource{
				Main: TemplateFile{Name: "default", Content: `{{template "_nav" .}}`},
				Partials: []TemplateFile{
					{Name: "_nav", Content: `built-in`},
					{Name: "_nav", Content: `custom`},
				},
			},
			want: "custom",
		},
		{
			name:   "output escaped",
			src:    TemplateSource{Main: TemplateFile{Name: "default", Content: `<p>{{.api}}</p>`}},
			locals: map[string]any{LocalAPI: "<b>"},
			want:   "<p>&lt;b&gt;</p>",
		},
		{
			name:    "parse error",
			src:     TemplateSource{Main: TemplateFile{Name: "broken", Content: `{{if}}`}},
			wantErr: ErrTemplateRender,
		},
		{
			name: "partial parse error",
			src: TemplateSource{
				Main:     TemplateFile{Name: "default", Content: `ok`},
				Partials: []TemplateFile{{Name: "_bad", Content: `{{end}}`}},
			},
			wantErr: ErrTemplateRender,
		},
		{
			name:    "unknown function",
			src:     TemplateSource{Main: TemplateFile{Name: "default", Content: `{{missing}}`}},
			wantErr: ErrTemplateRender,
		},
		{
			name:    "execution error",
			src:     TemplateSource{Main: TemplateFile{Name: "default", Content: `{{template "nope"}}`}},
			wantErr: ErrTemplateRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := HTMLTemplateRenderer{}.Render(tt.src, tt.locals)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Render() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTMLTemplateRenderer_HelperError(t *testing.T) {
	t.Parallel()

	locals := AssembleLocals(nil, LocalsConfig{}, stubHelpers())
	src := TemplateSource{Main: TemplateFile{Name: "default", Content: `{{date "[unclosed"}}`}}

	_, err := HTMLTemplateRenderer{}.Render(src, locals)
	if !errors.Is(err, ErrTemplateRender) {
		t.Fatalf("Render() error = %v, want ErrTemplateRender", err)
	}
	if !strings.Contains(err.Error(), "date") {
		t.Errorf("error should name the failing helper, got %v", err)
	}
}
