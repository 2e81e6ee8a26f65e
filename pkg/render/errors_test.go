package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	schema := model.Schema{
		{Name: "title", Label: "Title"},
		{Name: "pricing", Label: "Pricing"},
		{Name: "tags", Label: "Tags"},
	}

	payload := map[string][]string{
		"/body/title":              {"Title already taken"},
		"data.pricing":             {" Price too high ", "Price too high"},
		"$.body.tags[0]":           {"Tags must be unique"},
		"non_field_errors":         {"Form level error"},
		"curriculum.0.title":       {"Lecture title missing"},
		"request/body/unknown-key": {"Should fall back to form errors"},
		"":                         {"Unscoped form error"},
	}

	mapped := render.MapErrorPayload(schema, payload)

	wantFields := map[string][]string{
		"title":   {"Title already taken"},
		"pricing": {"Price too high"},
		"tags":    {"Tags must be unique"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Lecture title missing", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	if got := mapped.FieldErrors()["pricing"]; got != "Price too high" {
		t.Fatalf("collapsed pricing error = %q", got)
	}
}

func TestMapErrorPayloadEmpty(t *testing.T) {
	mapped := render.MapErrorPayload(model.Schema{{Name: "title"}}, nil)
	if !mapped.Empty() {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
