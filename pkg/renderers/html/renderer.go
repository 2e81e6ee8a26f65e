// Package html renders course sections as HTML forms using pongo2 templates.
// Multiline values get a sanitised preview next to the textarea.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/render"
	"github.com/goliatone/go-courseform/pkg/widgets"
)

const formTemplate = "form.html"

type Option func(*config)

type config struct {
	templateFS fs.FS
	policy     *bluemonday.Policy
	widgets    *widgets.Registry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. It must
// contain form.html at its root.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithPolicy replaces the UGC policy used for previews.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithWidgets replaces the registry that picks each control's widget.
func WithWidgets(reg *widgets.Registry) Option {
	return func(cfg *config) {
		if reg != nil {
			cfg.widgets = reg
		}
	}
}

type Renderer struct {
	set     *pongo2.TemplateSet
	policy  *bluemonday.Policy
	widgets *widgets.Registry
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}

	set := pongo2.NewSet("courseform-html", pongo2.NewFSLoader(cfg.templateFS))
	if _, err := set.FromCache(formTemplate); err != nil {
		return nil, fmt.Errorf("html renderer: load %s: %w", formTemplate, err)
	}
	return &Renderer{set: set, policy: cfg.policy, widgets: cfg.widgets}, nil
}

var _ render.Renderer = (*Renderer)(nil)

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, view render.View) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tpl, err := r.set.FromCache(formTemplate)
	if err != nil {
		return nil, fmt.Errorf("html renderer: load %s: %w", formTemplate, err)
	}

	fields := make([]fieldView, 0, len(view.Controls))
	for _, ctrl := range view.Controls {
		fields = append(fields, r.fieldView(ctrl))
	}

	out, err := tpl.ExecuteBytes(pongo2.Context{
		"title":       view.Title,
		"summary":     view.Summary,
		"form_errors": view.FormErrors,
		"fields":      fields,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return out, nil
}

type optionView struct {
	ID       string
	Label    string
	Selected bool
}

type fieldView struct {
	Name        string
	Label       string
	Kind        string
	Widget      string
	Required    bool
	Placeholder string
	Error       string
	Value       string
	InputType   string
	Rows        int
	Options     []optionView
	Preview     string
}

func (r *Renderer) fieldView(ctrl render.Control) fieldView {
	f := fieldView{
		Name:        ctrl.Name,
		Label:       ctrl.Label,
		Kind:        string(ctrl.Kind),
		Widget:      r.widgets.ResolveOr(ctrl, widgets.WidgetText),
		Required:    ctrl.Required,
		Placeholder: ctrl.Placeholder,
		Error:       ctrl.Error,
		InputType:   "text",
	}
	switch {
	case ctrl.Kind == model.KindSelect && ctrl.Select != nil:
		f.Value = ctrl.Select.Value
		for idx, opt := range ctrl.Select.Options {
			f.Options = append(f.Options, optionView{ID: opt.ID, Label: opt.Label, Selected: idx == ctrl.Select.Selected})
		}
	case ctrl.Kind == model.KindMultilineText && ctrl.Multiline != nil:
		f.Value = ctrl.Multiline.Value
		f.Rows = ctrl.Multiline.Rows
		f.Preview = r.preview(ctrl.Multiline.Value)
	case ctrl.Text != nil:
		f.Kind = string(model.KindText)
		f.Value = ctrl.Text.Value
		f.InputType = ctrl.Text.InputType
	}
	return f
}

// preview sanitises author text and keeps its line breaks.
func (r *Renderer) preview(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	cleaned := strings.TrimSpace(r.policy.Sanitize(value))
	return strings.ReplaceAll(cleaned, "\n", "<br>\n")
}
