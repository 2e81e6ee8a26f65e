package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-courseform/pkg/model"
)

func testSchema() model.Schema {
	return model.Schema{
		{Name: "title", Label: "Title", Kind: model.KindText},
		{Name: "level", Label: "Level", Kind: model.KindSelect, Options: []model.Option{{ID: "beginner", Label: "Beginner"}}},
		{Name: "subtitle", Label: "Subtitle", Kind: model.KindText, Required: model.Optional(), Default: "none"},
	}
}

func TestNewStoreSeedsSchemaKeys(t *testing.T) {
	store := model.NewStore(testSchema())

	if diff := cmp.Diff([]string{"level", "subtitle", "title"}, store.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if got := store.String("subtitle"); got != "none" {
		t.Fatalf("subtitle default = %q, want none", got)
	}
	if got := store.String("missing"); got != "" {
		t.Fatalf("absent key = %q, want empty", got)
	}
}

func TestStoreSetIsCopyOnWrite(t *testing.T) {
	base := model.NewStore(testSchema())

	next, err := base.Set("title", "Go in practice")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if base.String("title") != "" {
		t.Fatalf("original store mutated: %q", base.String("title"))
	}
	if next.String("title") != "Go in practice" {
		t.Fatalf("title = %q", next.String("title"))
	}
	if next.String("subtitle") != "none" {
		t.Fatalf("unrelated key changed: %q", next.String("subtitle"))
	}

	twice, err := next.Set("title", "Go in practice")
	if err != nil {
		t.Fatalf("set twice: %v", err)
	}
	if !twice.Equal(next) {
		t.Fatalf("setting the same value twice changed the store")
	}
}

func TestStoreSetRejectsUnknownField(t *testing.T) {
	base := model.NewStore(testSchema())

	got, err := base.Set("stray", "x")
	if !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
	if got.Has("stray") {
		t.Fatalf("stray key leaked into the store")
	}
}

func TestStoreFromValuesDropsStrayKeys(t *testing.T) {
	store := model.StoreFromValues(testSchema(), map[string]any{
		"title": "Intro",
		"tags":  []any{"a", "b"},
	})

	want := map[string]any{"title": "Intro", "level": "", "subtitle": "none"}
	if diff := cmp.Diff(want, store.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKindFallsBackToText(t *testing.T) {
	cases := map[string]struct {
		want model.Kind
		ok   bool
	}{
		"input":    {model.KindText, true},
		"textarea": {model.KindMultilineText, true},
		"select":   {model.KindSelect, true},
		"slider":   {model.KindText, false},
	}
	for raw, tc := range cases {
		kind, ok := model.ParseKind(raw)
		if kind != tc.want || ok != tc.ok {
			t.Errorf("ParseKind(%q) = %q,%v want %q,%v", raw, kind, ok, tc.want, tc.ok)
		}
	}
}

func TestSchemaValidate(t *testing.T) {
	if err := testSchema().Validate(); err != nil {
		t.Fatalf("valid schema rejected: %v", err)
	}
	dup := append(testSchema(), model.Field{Name: "title"})
	if err := dup.Validate(); err == nil {
		t.Fatalf("expected duplicate field error")
	}
	noOpts := model.Schema{{Name: "category", Kind: model.KindSelect}}
	if err := noOpts.Validate(); err == nil {
		t.Fatalf("expected select without options error")
	}
}
