package html_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/render"
	"github.com/goliatone/go-courseform/pkg/renderers/html"
	"github.com/goliatone/go-courseform/pkg/widgets"
)

func testSchema() model.Schema {
	return model.Schema{
		{Name: "title", Label: "Title", Kind: model.KindText, Placeholder: "Enter course title"},
		{Name: "level", Label: "Level", Kind: model.KindSelect, Options: []model.Option{
			{ID: "beginner", Label: "Beginner"},
			{ID: "advanced", Label: "Advanced"},
		}},
		{Name: "pricing", Label: "Pricing", Kind: model.KindText, Format: model.FormatMoney},
		{Name: "description", Label: "Description", Kind: model.KindMultilineText, Required: model.Optional()},
	}
}

func renderView(t *testing.T, values map[string]any, attempted bool) string {
	t.Helper()
	schema := testSchema()
	store := model.StoreFromValues(schema, values)
	view := render.BuildView("Course Landing Page", schema, store, model.Touched{}, attempted)

	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), view)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderControls(t *testing.T) {
	got := renderView(t, map[string]any{
		"title":       `Go <b>Basics</b>`,
		"level":       "advanced",
		"pricing":     "19.99",
		"description": "Line one\n<script>alert(1)</script><em>Line two</em>",
	}, false)

	for _, want := range []string{
		`<h2 class="course-form__title">Course Landing Page</h2>`,
		`value="Go &lt;b&gt;Basics&lt;/b&gt;"`,
		`<option value="advanced" selected>Advanced</option>`,
		`<div class="field field--price">`,
		`step="0.01" value="19.99"`,
		`<span class="field__required" aria-hidden="true">*</span>`,
		`<em>Line two</em>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("preview was not sanitised:\n%s", got)
	}
	if strings.Contains(got, "field--invalid") {
		t.Fatalf("pristine form rendered errors:\n%s", got)
	}
}

func TestRenderErrorsAfterAttempt(t *testing.T) {
	got := renderView(t, map[string]any{"pricing": "-1"}, true)

	for _, want := range []string{
		`<div class="course-form__summary" role="alert">Please fix 3 errors before proceeding</div>`,
		`<p class="field__error" id="title-error">Title is required</p>`,
		`<p class="field__error" id="pricing-error">Please enter a valid price</p>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRendererContract(t *testing.T) {
	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.Name() != "html" || !strings.HasPrefix(r.ContentType(), "text/html") {
		t.Fatalf("unexpected contract: %s %s", r.Name(), r.ContentType())
	}
	formats, err := render.NewFormats(r)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got, err := formats.Lookup("HTML"); err != nil || got != r {
		t.Fatalf("lookup = %v, %v", got, err)
	}
}

func TestRenderCustomWidget(t *testing.T) {
	reg := widgets.NewRegistry()
	reg.Register("rich-text", 100, func(ctrl render.Control) bool {
		return ctrl.Name == "objectives"
	})
	r, err := html.New(html.WithWidgets(reg))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	schema := course.MustLandingSchema()
	view := render.BuildView("Landing", schema, model.NewStore(schema), model.Touched{}, false)
	out, err := r.Render(context.Background(), view)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, `<div class="field field--rich-text">`) {
		t.Fatalf("custom widget not applied:\n%s", got)
	}
	if !strings.Contains(got, `<input id="objectives" name="objectives" type="text"`) {
		t.Fatalf("unknown widget should fall back to a text input:\n%s", got)
	}
}
