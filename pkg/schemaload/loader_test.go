package schemaload_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/schemaload"
)

func TestParseYAMLDocument(t *testing.T) {
	doc := []byte(`
fields:
  - name: title
    label: Title
    componentType: input
  - name: notes
    label: Notes
    componentType: textarea
    required: false
  - name: rating
    label: Rating
    componentType: slider
`)
	schema, err := schemaload.Parse(doc, "inline.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := model.Schema{
		{Name: "title", Label: "Title", Kind: model.KindText},
		{Name: "notes", Label: "Notes", Kind: model.KindMultilineText, Required: model.Optional()},
		{Name: "rating", Label: "Rating", Kind: model.KindText},
	}
	if diff := cmp.Diff(want, schema); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSONList(t *testing.T) {
	doc := []byte(`[{"name":"level","label":"Level","componentType":"select","options":[{"id":"beginner","label":"Beginner"}]}]`)
	schema, err := schemaload.Parse(doc, "inline.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(schema) != 1 || schema[0].Kind != model.KindSelect {
		t.Fatalf("unexpected schema: %+v", schema)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":          "   ",
		"no fields":      "fields: []",
		"duplicate":      "[{\"name\":\"a\"},{\"name\":\"a\"}]",
		"select no opts": "fields:\n  - name: level\n    componentType: select\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := schemaload.Parse([]byte(doc), name); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"schemas/landing.yaml": {Data: []byte("- name: title\n  label: Title\n")},
	}
	schema, err := schemaload.LoadFS(fsys, "schemas/landing.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"title"}, schema.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

const openAPIDoc = `
openapi: 3.0.3
info:
  title: Courses
  version: "1.0"
paths: {}
components:
  schemas:
    CourseLanding:
      type: object
      required: [title, level, pricing]
      properties:
        title:
          type: string
          title: Title
          x-courseform-order: 1
        level:
          type: string
          enum: [beginner, advanced]
          x-courseform-order: 2
        pricing:
          type: number
          x-courseform-order: 3
        welcomeMessage:
          type: string
          format: textarea
`

func TestFromOpenAPI(t *testing.T) {
	schema, err := schemaload.FromOpenAPI(context.Background(), []byte(openAPIDoc), "CourseLanding")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}

	if diff := cmp.Diff([]string{"title", "level", "pricing", "welcomeMessage"}, schema.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	level, _ := schema.Lookup("level")
	if level.Kind != model.KindSelect || len(level.Options) != 2 {
		t.Fatalf("level = %+v, want select with 2 options", level)
	}
	pricing, _ := schema.Lookup("pricing")
	if !pricing.IsMoney() || !pricing.IsRequired() {
		t.Fatalf("pricing = %+v, want required money field", pricing)
	}
	welcome, _ := schema.Lookup("welcomeMessage")
	if welcome.Kind != model.KindMultilineText || welcome.IsRequired() {
		t.Fatalf("welcomeMessage = %+v, want optional multiline field", welcome)
	}
	if welcome.Label != "Welcome Message" {
		t.Fatalf("welcomeMessage label = %q", welcome.Label)
	}
}

func TestFromOpenAPIMissingComponent(t *testing.T) {
	if _, err := schemaload.FromOpenAPI(context.Background(), []byte(openAPIDoc), "Nope"); err == nil {
		t.Fatalf("expected missing component error")
	}
}
