package tui

import (
	"io"

	"github.com/goliatone/go-formengine/pkg/state"
)

// Theme captures optional prefixes applied to printed messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// FileInspector resolves a path typed at the photo prompt into a file
// reference. The default stats the file and guesses the type from its
// extension.
type FileInspector func(path string) (state.FileRef, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput sets where the default driver prints messages.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		r.out = out
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithFileInspector replaces how photo paths are resolved.
func WithFileInspector(fn FileInspector) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.inspect = fn
		}
	}
}

// WithMaxAttempts bounds how many submits Fill tries before giving up. Zero
// means keep asking until the user declines.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}
