package main

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Help topics
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		topic string
		want  string
	}{
		{"", "Usage: bp2html [flags] [input...]"},
		{"render", "Usage: bp2html [flags] [input...]"},
		{"version", "Usage: bp2html version"},
		{"help", "Usage: bp2html help [command]"},
		{"completion", "Usage: bp2html completion <shell>"},
		{"doctor", "Usage: bp2html doctor [--json]"},
	}

	for _, tt := range tests {
		t.Run("topic "+tt.topic, func(t *testing.T) {
			t.Parallel()

			var args []string
			if tt.topic != "" {
				args = []string{tt.topic}
			}
			tio := newTestIO("")
			if code := runHelp(args, tio.env); code != ExitSuccess {
				t.Fatalf("exit = %d", code)
			}
			if !strings.Contains(tio.stdout.String(), tt.want) {
				t.Errorf("stdout missing %q:\n%s", tt.want, tio.stdout.String())
			}
		})
	}
}

func TestPrintUsage_DocumentsFlags(t *testing.T) {
	t.Parallel()

	tio := newTestIO("")
	printUsage(tio.stdout)
	out := tio.stdout.String()

	// Every registered flag is documented
	for _, f := range renderFlagDefs() {
		if !strings.Contains(out, "--"+f.Long) {
			t.Errorf("usage does not document --%s", f.Long)
		}
	}
	for _, want := range []string{"include(", "BP2HTML_TEMPLATE"} {
		if !strings.Contains(out, want) {
			t.Errorf("usage missing %q", want)
		}
	}
}
