// Package tui renders course sections in a terminal and walks authors
// through them with interactive prompts.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/render"
)

// Renderer implements render.Renderer as a plain-text summary of a section.
type Renderer struct {
	theme Theme
}

// New constructs the text renderer.
func New(options ...Option) *Renderer {
	cfg := config{theme: DefaultTheme}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Renderer{theme: cfg.theme}
}

var _ render.Renderer = (*Renderer)(nil)

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain"
}

// Render prints the section title, the error banner, each control with its
// value and visible error, then any form-level messages.
func (r *Renderer) Render(ctx context.Context, view render.View) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if view.Title != "" {
		fmt.Fprintln(&buf, view.Title)
		fmt.Fprintln(&buf, strings.Repeat("=", len(view.Title)))
	}
	if view.Summary != "" {
		fmt.Fprintf(&buf, "%s%s\n", r.theme.ErrorPrefix, view.Summary)
	}
	for _, ctrl := range view.Controls {
		fmt.Fprintf(&buf, "%s: %s\n", r.label(ctrl), displayValue(ctrl))
		if ctrl.HasError() {
			fmt.Fprintf(&buf, "  %s%s\n", r.theme.ErrorPrefix, ctrl.Error)
		}
	}
	for _, msg := range view.FormErrors {
		fmt.Fprintf(&buf, "%s%s\n", r.theme.ErrorPrefix, msg)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) label(ctrl render.Control) string {
	if ctrl.Required {
		return ctrl.Label + r.theme.RequiredMark
	}
	return ctrl.Label
}

func displayValue(ctrl render.Control) string {
	switch ctrl.Kind {
	case model.KindSelect:
		if ctrl.Select == nil {
			return ""
		}
		if idx := ctrl.Select.Selected; idx >= 0 && idx < len(ctrl.Select.Options) {
			return ctrl.Select.Options[idx].Label
		}
		return ctrl.Select.Value
	case model.KindMultilineText:
		if ctrl.Multiline == nil {
			return ""
		}
		value := ctrl.Multiline.Value
		if strings.Contains(value, "\n") {
			return "\n    " + strings.ReplaceAll(value, "\n", "\n    ")
		}
		return value
	default:
		if ctrl.Text == nil {
			return ""
		}
		return ctrl.Text.Value
	}
}
