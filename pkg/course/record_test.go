package course_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/model"
)

func TestLandingSchemaBuiltin(t *testing.T) {
	schema, err := course.LandingSchema()
	if err != nil {
		t.Fatalf("landing schema: %v", err)
	}
	want := []string{"title", "category", "level", "primaryLanguage", "subtitle", "description", "pricing", "objectives", "welcomeMessage"}
	if diff := cmp.Diff(want, schema.Names()); diff != "" {
		t.Fatalf("landing fields mismatch (-want +got):\n%s", diff)
	}
	description, _ := schema.Lookup("description")
	if description.Kind != model.KindMultilineText {
		t.Fatalf("description kind = %q", description.Kind)
	}
	pricing, _ := schema.Lookup("pricing")
	if !pricing.IsMoney() {
		t.Fatalf("pricing is not a money field")
	}
}

func TestBuildRecord(t *testing.T) {
	schema := model.Schema{{Name: "title", Label: "Title"}, {Name: "pricing", Label: "Pricing"}}
	landing, _ := model.NewStore(schema).Set("title", "Go")
	landing, _ = landing.Set("pricing", "10")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rec := course.BuildRecord(course.Submission{
		Author:     course.Author{ID: "u1", Name: "Ada"},
		Landing:    landing,
		Curriculum: course.NewCurriculum(course.CurriculumItem{Title: "Intro", VideoURL: "http://x/1", PublicID: "p1", FreePreview: true}),
		Image:      "http://img/1.png",
		ImageID:    "covers/1",
		Now:        now,
	})

	want := course.Record{
		"instructorId":   "u1",
		"instructorName": "Ada",
		"date":           "2026-01-02T03:04:05Z",
		"title":          "Go",
		"pricing":        "10",
		"students":       []any{},
		"curriculum": []any{map[string]any{
			"title": "Intro", "videoUrl": "http://x/1", "public_id": "p1", "freePreview": true,
		}},
		"isPublished":   true,
		"image":         "http://img/1.png",
		"imagePublicId": "covers/1",
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestLandingFromRecordFallsBackToDefaults(t *testing.T) {
	schema := model.Schema{
		{Name: "title", Label: "Title"},
		{Name: "level", Label: "Level", Default: "beginner"},
		{Name: "welcomeMessage", Label: "Welcome", Default: "Hi!"},
	}
	rec := course.Record{"title": "Go", "level": "", "pricing": 12.5}

	store := course.LandingFromRecord(schema, rec)

	want := map[string]any{"title": "Go", "level": "beginner", "welcomeMessage": "Hi!"}
	if diff := cmp.Diff(want, store.Values()); diff != "" {
		t.Fatalf("hydrated landing mismatch (-want +got):\n%s", diff)
	}
}

func TestCurriculumFromRecord(t *testing.T) {
	rec := course.Record{"curriculum": []any{
		map[string]any{"title": "B", "videoUrl": "v2", "public_id": "p2", "freePreview": false},
		map[string]any{"title": "A", "videoUrl": "v1", "public_id": "p1", "freePreview": true},
	}}
	got, err := course.CurriculumFromRecord(rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []course.CurriculumItem{
		{Title: "B", VideoURL: "v2", PublicID: "p2"},
		{Title: "A", VideoURL: "v1", PublicID: "p1", FreePreview: true},
	}
	if diff := cmp.Diff(want, got.Items()); diff != "" {
		t.Fatalf("curriculum mismatch (-want +got):\n%s", diff)
	}

	empty, err := course.CurriculumFromRecord(course.Record{})
	if err != nil || empty.Len() != 0 {
		t.Fatalf("absent curriculum = %v, %v", empty.Items(), err)
	}
}
