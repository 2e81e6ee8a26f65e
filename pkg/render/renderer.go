// Package render is the schema-driven form engine. It turns a field schema, a
// value store and an error map into a list of Controls (a renderer-neutral UI
// description) and applies value edits as copy-on-write store updates.
// Concrete output formats live under pkg/renderers.
package render

import "context"

// View is everything a renderer needs to draw one form section.
type View struct {
	Title      string
	Controls   []Control
	FormErrors []string
	Summary    string
}

// Renderer converts a View into bytes (HTML, terminal output, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View) ([]byte, error)
}
