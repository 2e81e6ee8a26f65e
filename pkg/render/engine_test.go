package render_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/render"
)

func engineSchema() model.Schema {
	return model.Schema{
		{Name: "title", Label: "Title", Kind: model.KindText, Placeholder: "Enter title"},
		{Name: "level", Label: "Level", Kind: model.KindSelect, Options: []model.Option{
			{ID: "beginner", Label: "Beginner"},
			{ID: "advanced", Label: "Advanced"},
		}},
		{Name: "description", Label: "Description", Kind: model.KindMultilineText},
		{Name: "pricing", Label: "Pricing", Kind: model.KindText},
		{Name: "rating", Label: "Rating", Kind: model.Kind("slider"), Required: model.Optional()},
	}
}

func TestRenderDispatchesOnKind(t *testing.T) {
	schema := engineSchema()
	store, err := render.SetValue(model.NewStore(schema), "level", "advanced")
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	controls := render.Render(schema, store, model.FieldErrors{"title": "Title is required"})
	if len(controls) != len(schema) {
		t.Fatalf("controls = %d, want %d", len(controls), len(schema))
	}

	title := controls[0]
	if title.Text == nil || title.Error != "Title is required" || !title.Required {
		t.Fatalf("title control = %+v", title)
	}

	level := controls[1]
	if level.Select == nil || level.Select.Selected != 1 || level.Select.Value != "advanced" {
		t.Fatalf("level control = %+v", level.Select)
	}

	if controls[2].Multiline == nil {
		t.Fatalf("description should render as multiline")
	}
	if controls[3].Text == nil || controls[3].Text.InputType != "number" {
		t.Fatalf("pricing should render as number input, got %+v", controls[3].Text)
	}

	rating := controls[4]
	if rating.Kind != model.KindText || rating.Text == nil || rating.Required {
		t.Fatalf("unknown kind should fall back to optional text, got %+v", rating)
	}
}

func TestSetValueIsolation(t *testing.T) {
	schema := engineSchema()
	base := model.NewStore(schema)

	once, err := render.SetValue(base, "title", "Go")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	twice, err := render.SetValue(once, "title", "Go")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !once.Equal(twice) {
		t.Fatalf("applying the same value twice changed the store")
	}

	other, err := render.SetValue(once, "description", "About")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if other.String("title") != "Go" || once.String("description") != "" {
		t.Fatalf("writes leaked across stores")
	}
}

func TestBuildViewGatesErrorsOnTouch(t *testing.T) {
	schema := engineSchema()
	store := model.NewStore(schema)

	pristine := render.BuildView("Landing", schema, store, model.Touched{}, false)
	for _, ctrl := range pristine.Controls {
		if ctrl.HasError() {
			t.Fatalf("pristine form shows error on %s", ctrl.Name)
		}
	}
	if pristine.Summary != "" {
		t.Fatalf("pristine summary = %q", pristine.Summary)
	}

	touched := render.Touch(model.Touched{}, "title")
	view := render.BuildView("Landing", schema, store, touched, false)
	var shown []string
	for _, ctrl := range view.Controls {
		if ctrl.HasError() {
			shown = append(shown, ctrl.Name)
		}
	}
	if diff := cmp.Diff([]string{"title"}, shown); diff != "" {
		t.Fatalf("visible errors mismatch (-want +got):\n%s", diff)
	}

	forced := render.BuildView("Landing", schema, store, model.Touched{}, true)
	if forced.Summary != "Please fix 4 errors before proceeding" {
		t.Fatalf("forced summary = %q", forced.Summary)
	}
}

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, render.View) ([]byte, error) {
	return []byte(n), nil
}

func TestFormats(t *testing.T) {
	formats, err := render.NewFormats(namedRenderer("tui"), namedRenderer("html"))
	if err != nil {
		t.Fatalf("new formats: %v", err)
	}
	if err := formats.Add(namedRenderer(" HTML ")); err == nil {
		t.Fatalf("expected duplicate format error")
	}
	if err := formats.Add(namedRenderer("  ")); err == nil {
		t.Fatalf("expected blank format error")
	}
	if _, err := render.NewFormats(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}

	got, err := formats.Lookup(" Html")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Name() != "html" {
		t.Fatalf("lookup returned %q", got.Name())
	}

	_, err = formats.Lookup("pdf")
	if !errors.Is(err, render.ErrUnknownFormat) || !strings.Contains(err.Error(), "(available: html, tui)") {
		t.Fatalf("unknown format err = %v", err)
	}
	if diff := cmp.Diff([]string{"html", "tui"}, formats.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
