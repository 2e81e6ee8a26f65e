// Package testsupport holds fixtures and scripted collaborators shared by the
// package tests.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/schemaload"
)

// LoadSchema reads a schema fixture, failing the test on error.
func LoadSchema(t *testing.T, path string) model.Schema {
	t.Helper()

	schema, err := LoadSchemaFromPath(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return schema
}

// LoadSchemaFromPath returns a schema without requiring testing.T.
func LoadSchemaFromPath(path string) (model.Schema, error) {
	if path == "" {
		return nil, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read schema: %w", err)
	}
	return schemaload.Parse(data, path)
}

// CompleteLanding returns values that satisfy every field of the built-in
// landing schema.
func CompleteLanding() map[string]any {
	return map[string]any{
		"title":           "Go for Services",
		"category":        "backend-development",
		"level":           "intermediate",
		"primaryLanguage": "english",
		"subtitle":        "Build and ship Go APIs",
		"description":     "Hands-on course covering HTTP services.",
		"pricing":         "49.99",
		"objectives":      "Write idiomatic Go",
		"welcomeMessage":  "Welcome aboard",
	}
}

// CompleteLandingStore seeds a store for schema with CompleteLanding.
func CompleteLandingStore(schema model.Schema) model.Store {
	return model.StoreFromValues(schema, CompleteLanding())
}

// CompleteCurriculum returns two uploaded lectures, the first one free.
func CompleteCurriculum() course.Curriculum {
	return course.NewCurriculum(
		course.CurriculumItem{Title: "Intro", VideoURL: "https://media.example.com/intro.mp4", PublicID: "media/intro", FreePreview: true},
		course.CurriculumItem{Title: "Handlers", VideoURL: "https://media.example.com/handlers.mp4", PublicID: "media/handlers"},
	)
}

// SampleRecord is a persisted course as a backend would return it.
func SampleRecord(id string) course.Record {
	rec := course.Record{
		course.KeyID:             id,
		course.KeyInstructorID:   "instructor-1",
		course.KeyInstructorName: "Ada",
		course.KeyDate:           "2024-05-01T10:00:00Z",
		course.KeyStudents:       []any{},
		course.KeyCurriculum:     CompleteCurriculum().Records(),
		course.KeyIsPublished:    true,
		course.KeyImage:          "https://media.example.com/cover.png",
	}
	for key, value := range CompleteLanding() {
		rec[key] = value
	}
	return rec
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
