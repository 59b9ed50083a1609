package pipeline

import "testing"

// ---------------------------------------------------------------------------
// TestNormalizeInput - Line Endings and Tabs
// ---------------------------------------------------------------------------

func TestNormalizeInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"unix endings unchanged", "a\nb\n", "a\nb\n"},
		{"windows endings", "a\r\nb\r\n", "a\nb\n"},
		{"old mac endings", "a\rb\r", "a\nb\n"},
		{"mixed endings", "a\r\nb\rc\nd", "a\nb\nc\nd"},
		{"double carriage return", "a\r\r\nb", "a\n\nb"},
		{"tab becomes four spaces", "\tx", "    x"},
		{"consecutive tabs", "\t\tx", "        x"},
		{"response example", "# GET /message\r\n+ Response 200 (text/plain)\r\r\t\tHello!\n",
			"# GET /message\n+ Response 200 (text/plain)\n\n        Hello!\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizeInput(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeInput() = %q, want %q", got, tt.want)
			}
			if again := NormalizeInput(got); again != got {
				t.Errorf("NormalizeInput() not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeLineEndings_KeepsTabs(t *testing.T) {
	t.Parallel()

	if got := NormalizeLineEndings("\ta\r\n"); got != "\ta\n" {
		t.Errorf("NormalizeLineEndings() = %q, want %q", got, "\ta\n")
	}
}

func TestBlueprintNormalizer(t *testing.T) {
	t.Parallel()

	var n InputNormalizer = BlueprintNormalizer{}
	if got := n.Normalize("a\r\n\tb"); got != "a\n    b" {
		t.Errorf("Normalize() = %q, want %q", got, "a\n    b")
	}
}
