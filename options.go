package bp2html

import (
	"io"
	"io/fs"
	"time"
)

// Option configures a Renderer.
type Option func(*Renderer)

// defaultTimeout bounds page loading during PDF export.
const defaultTimeout = 30 * time.Second

// WithTemplateDir serves templates from dir instead of the built-in ones.
// The directory must exist; NewRenderer fails with ErrInvalidTemplateDir
// otherwise.
func WithTemplateDir(dir string) Option {
	return func(r *Renderer) {
		r.cfg.templateDir = dir
	}
}

// WithTemplateFS serves templates from the root of fsys instead of the
// built-in ones. It takes precedence over WithTemplateDir.
func WithTemplateFS(fsys fs.FS) Option {
	return func(r *Renderer) {
		r.cfg.templateFS = fsys
	}
}

// WithParser replaces the built-in API Blueprint parser.
func WithParser(p Parser) Option {
	return func(r *Renderer) {
		r.parser = p
	}
}

// WithLogger sets the logger receiving render diagnostics. A nil logger
// keeps the default, which discards everything.
func WithLogger(l Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock sets the time source of the date helper.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithStdio sets the streams used for the "-" locator of the file entry
// points. Nil streams keep the process streams.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(r *Renderer) {
		if in != nil {
			r.stdin = in
		}
		if out != nil {
			r.stdout = out
		}
	}
}

// WithTimeout sets the page load timeout of PDF export.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("bp2html: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}
