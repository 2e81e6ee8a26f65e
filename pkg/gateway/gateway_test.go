package gateway_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/gateway"
	"github.com/goliatone/go-courseform/pkg/testsupport"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := gateway.NewMemory(gateway.WithIDGenerator(func() string { return "c-1" }))

	rec := testsupport.SampleRecord("")
	delete(rec, course.KeyID)

	created, err := mem.Create(ctx, rec)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.Success || created.Data.String(course.KeyID) != "c-1" {
		t.Fatalf("create response = %+v", created)
	}

	created.Data["title"] = "mutated by caller"
	fetched, err := mem.FetchByID(ctx, "c-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if fetched.Data.String("title") != "Go for Services" {
		t.Fatalf("stored record shares memory with caller: %q", fetched.Data.String("title"))
	}

	rec["title"] = "Renamed"
	if _, err := mem.Update(ctx, "c-1", rec); err != nil {
		t.Fatalf("update: %v", err)
	}
	fetched, _ = mem.FetchByID(ctx, "c-1")
	if fetched.Data.String("title") != "Renamed" {
		t.Fatalf("title after update = %q", fetched.Data.String("title"))
	}
	if diff := cmp.Diff([]string{"c-1"}, mem.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryNotFound(t *testing.T) {
	mem := gateway.NewMemory()
	if _, err := mem.FetchByID(context.Background(), "missing"); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("fetch err = %v", err)
	}
	if _, err := mem.Update(context.Background(), "missing", course.Record{}); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("update err = %v", err)
	}
	if _, err := mem.Update(context.Background(), "", course.Record{}); !errors.Is(err, gateway.ErrMissingID) {
		t.Fatalf("update without id err = %v", err)
	}
}

type apiCall struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

func TestHTTPGatewayRoutes(t *testing.T) {
	var calls []apiCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := apiCall{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &call.Body)
		}
		calls = append(calls, call)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/missing"):
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"success":false,"message":"Course not found!"}`)
		case r.Method == http.MethodGet:
			_, _ = io.WriteString(w, `{"success":true,"data":{"_id":"abc","title":"Go"}}`)
		default:
			_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":{"_id":"abc"}}`)
		}
	}))
	defer srv.Close()

	gw := gateway.NewHTTP(srv.URL+"/", gateway.WithToken("tkn"))
	ctx := context.Background()

	if _, err := gw.Create(ctx, course.Record{"title": "Go"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := gw.Update(ctx, "abc", course.Record{"title": "Go 2"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	resp, err := gw.FetchByID(ctx, "abc")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if resp.Data.String(course.KeyID) != "abc" {
		t.Fatalf("document id not normalised: %+v", resp.Data)
	}

	want := []apiCall{
		{Method: http.MethodPost, Path: "/instructor/course/add", Auth: "Bearer tkn", Body: map[string]any{"title": "Go"}},
		{Method: http.MethodPut, Path: "/instructor/course/update/abc", Auth: "Bearer tkn", Body: map[string]any{"title": "Go 2"}},
		{Method: http.MethodGet, Path: "/instructor/course/get/details/abc", Auth: "Bearer tkn"},
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}

	_, err = gw.FetchByID(ctx, "missing")
	if !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("missing fetch err = %v", err)
	}
	var status *gateway.StatusError
	if !errors.As(err, &status) || status.Response.Message != "Course not found!" {
		t.Fatalf("expected status error with message, got %v", err)
	}
}

func TestHTTPGatewayFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"success":false,"message":"invalid","errors":{"/pricing":["must be positive"]}}`)
	}))
	defer srv.Close()

	_, err := gateway.NewHTTP(srv.URL).Create(context.Background(), course.Record{})
	var status *gateway.StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if !errors.Is(err, gateway.ErrRejected) {
		t.Fatalf("422 should unwrap to ErrRejected")
	}
	if diff := cmp.Diff(map[string][]string{"/pricing": {"must be positive"}}, status.Response.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}
