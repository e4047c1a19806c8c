// Package markdown renders README files for the terminal.
package markdown

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the word wrap width used when none is given
const DefaultWidth = 80

// Renderer wraps glamour with superscript configuration
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// Option configures a renderer
type Option func(*options)

type options struct {
	style string
}

// WithStyle selects a standard glamour style such as "dark", "light" or "notty".
// Without it the style follows the terminal.
func WithStyle(style string) Option {
	return func(o *options) {
		o.style = style
	}
}

// New creates a markdown renderer with the given width. A width of zero uses DefaultWidth.
func New(width int, opts ...Option) (*Renderer, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	styleOption := glamour.WithAutoStyle()
	if o.style != "" {
		styleOption = glamour.WithStandardStyle(o.style)
	}
	r, err := glamour.NewTermRenderer(
		styleOption,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output
func (r *Renderer) Render(markdown string) (string, error) {
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
