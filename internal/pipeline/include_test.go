package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFiles creates files under dir. Keys are slash-separated paths.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestFindIncludes - Marker Detection
// ---------------------------------------------------------------------------

func TestFindIncludes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		wantNames  []string
		wantIndent []string
	}{
		{
			name: "no markers",
			text: "# API\nplain text\n",
		},
		{
			name:       "single marker",
			text:       "<!-- include(a.md) -->",
			wantNames:  []string{"a.md"},
			wantIndent: []string{""},
		},
		{
			name:       "indented marker",
			text:       "+ Body\n    <!-- include(body.json) -->\n",
			wantNames:  []string{"body.json"},
			wantIndent: []string{"    "},
		},
		{
			name:       "case insensitive",
			text:       "<!-- INCLUDE(a.md) -->\n<!-- Include(b.md) -->",
			wantNames:  []string{"a.md", "b.md"},
			wantIndent: []string{"", ""},
		},
		{
			name:       "marker after text keeps only the spaces before it",
			text:       "see  <!-- include(a.md) -->",
			wantNames:  []string{"a.md"},
			wantIndent: []string{"  "},
		},
		{
			name:       "subdirectory name",
			text:       "<!-- include(parts/notes.md) -->",
			wantNames:  []string{"parts/notes.md"},
			wantIndent: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FindIncludes(tt.text)
			if len(got) != len(tt.wantNames) {
				t.Fatalf("FindIncludes() found %d markers, want %d", len(got), len(tt.wantNames))
			}
			for i, m := range got {
				if m.Name != tt.wantNames[i] {
					t.Errorf("match %d name = %q, want %q", i, m.Name, tt.wantNames[i])
				}
				if m.Indent != tt.wantIndent[i] {
					t.Errorf("match %d indent = %q, want %q", i, m.Indent, tt.wantIndent[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveIncludePath - Path Resolution
// ---------------------------------------------------------------------------

func TestResolveIncludePath(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain file", "a.md", filepath.Join(base, "a.md")},
		{"subdirectory", "parts/a.md", filepath.Join(base, "parts", "a.md")},
		{"parent directory", "../a.md", filepath.Join(filepath.Dir(base), "a.md")},
		{"dot segment", "./a.md", filepath.Join(base, "a.md")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolveIncludePath(base, tt.in); got != tt.want {
				t.Errorf("ResolveIncludePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExpandIncludes - Expansion
// ---------------------------------------------------------------------------

func TestExpandIncludes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		text  string
		want  string
	}{
		{
			name: "no markers returns input unchanged",
			text: "# API\r\n\tbody\n",
			want: "# API\r\n\tbody\n",
		},
		{
			name:  "flat include",
			files: map[string]string{"a.md": "Hello"},
			text:  "Start\n<!-- include(a.md) -->\nEnd",
			want:  "Start\nHello\nEnd",
		},
		{
			name:  "indentation applied to every line",
			files: map[string]string{"body.json": "{\n  \"id\": 1\n}"},
			text:  "+ Body\n\n        <!-- include(body.json) -->\n",
			want:  "+ Body\n\n        {\n          \"id\": 1\n        }\n",
		},
		{
			name:  "included line endings normalized",
			files: map[string]string{"a.md": "one\r\ntwo\rthree"},
			text:  "  <!-- include(a.md) -->",
			want:  "  one\n  two\n  three",
		},
		{
			name: "nested include resolves against including file",
			files: map[string]string{
				"parts/a.md": "A\n<!-- include(b.md) -->",
				"parts/b.md": "B",
			},
			text: "<!-- include(parts/a.md) -->",
			want: "A\nB",
		},
		{
			name: "nested indentation accumulates",
			files: map[string]string{
				"a.md": "x\n  <!-- include(b.md) -->",
				"b.md": "y\nz",
			},
			text: "  <!-- include(a.md) -->",
			want: "  x\n    y\n    z",
		},
		{
			name:  "same file included twice expands twice",
			files: map[string]string{"a.md": "A"},
			text:  "<!-- include(a.md) -->\n<!-- include(a.md) -->",
			want:  "A\nA",
		},
		{
			name:  "trailing newline in include kept and indented",
			files: map[string]string{"a.md": "A\n"},
			text:  "  <!-- include(a.md) -->",
			want:  "  A\n  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFiles(t, dir, tt.files)

			got, err := ExpandIncludes(dir, tt.text)
			if err != nil {
				t.Fatalf("ExpandIncludes() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpandIncludes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandIncludes_MissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.md": "<!-- include(missing.md) -->"})

	got, err := ExpandIncludes(dir, "<!-- include(a.md) -->")
	if err == nil {
		t.Fatal("ExpandIncludes() expected error for missing include")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ExpandIncludes() error = %v, want fs.ErrNotExist", err)
	}
	if !strings.Contains(err.Error(), "missing.md") {
		t.Errorf("error should name the missing file, got %v", err)
	}
	if got != "" {
		t.Errorf("ExpandIncludes() returned partial output %q", got)
	}
}

func TestExpandIncludes_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		text  string
	}{
		{
			name:  "self include",
			files: map[string]string{"a.md": "<!-- include(a.md) -->"},
			text:  "<!-- include(a.md) -->",
		},
		{
			name: "transitive include",
			files: map[string]string{
				"a.md":     "<!-- include(sub/b.md) -->",
				"sub/b.md": "<!-- include(../a.md) -->",
			},
			text: "<!-- include(a.md) -->",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFiles(t, dir, tt.files)

			_, err := ExpandIncludes(dir, tt.text)
			if !errors.Is(err, ErrCircularInclude) {
				t.Fatalf("ExpandIncludes() error = %v, want ErrCircularInclude", err)
			}
			if _, err := CollectIncludePaths(dir, tt.text); !errors.Is(err, ErrCircularInclude) {
				t.Errorf("CollectIncludePaths() error = %v, want ErrCircularInclude", err)
			}
		})
	}
}

func TestExpandIncludesFrom_SelfReference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.md": "<!-- include(main.md) -->"})
	origin := filepath.Join(dir, "main.md")

	_, err := ExpandIncludesFrom(origin, dir, "<!-- include(main.md) -->")
	if !errors.Is(err, ErrCircularInclude) {
		t.Fatalf("ExpandIncludesFrom() error = %v, want ErrCircularInclude", err)
	}
}

func TestExpandIncludes_IndependentCalls(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.md": "A"})

	for i := range 3 {
		got, err := ExpandIncludes(dir, "<!-- include(a.md) -->")
		if err != nil {
			t.Fatalf("call %d: ExpandIncludes() error = %v", i, err)
		}
		if got != "A" {
			t.Errorf("call %d: ExpandIncludes() = %q, want %q", i, got, "A")
		}
	}
}

// ---------------------------------------------------------------------------
// TestCollectIncludePaths - Dependency Listing
// ---------------------------------------------------------------------------

func TestCollectIncludePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.md":       "<!-- include(parts/b.md) -->\n<!-- include(c.md) -->",
		"parts/b.md": "<!-- include(d.md) -->",
		"parts/d.md": "D",
		"c.md":       "C",
	})

	got, err := CollectIncludePaths(dir, "<!-- include(a.md) -->\n<!-- include(c.md) -->")
	if err != nil {
		t.Fatalf("CollectIncludePaths() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "parts", "b.md"),
		filepath.Join(dir, "parts", "d.md"),
		filepath.Join(dir, "c.md"),
		filepath.Join(dir, "c.md"),
	}
	if len(got) != len(want) {
		t.Fatalf("CollectIncludePaths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCollectIncludePaths_NoMarkers(t *testing.T) {
	t.Parallel()

	got, err := CollectIncludePaths(t.TempDir(), "# API\n")
	if err != nil {
		t.Fatalf("CollectIncludePaths() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("CollectIncludePaths() = %v, want empty", got)
	}
}

func TestCollectIncludePaths_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := CollectIncludePaths(t.TempDir(), "<!-- include(nope.md) -->")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("CollectIncludePaths() error = %v, want fs.ErrNotExist", err)
	}
}
