package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/goliatone/go-courseform/pkg/course"
)

// REST routes of the instructor course API.
const (
	PathCreate  = "/instructor/course/add"
	PathUpdate  = "/instructor/course/update/"
	PathDetails = "/instructor/course/get/details/"
)

// HTTP talks to the course REST API with JSON envelopes.
type HTTP struct {
	baseURL string
	client  *http.Client
	token   string
}

// HTTPOption customises the HTTP gateway.
type HTTPOption func(*HTTP)

// WithClient replaces the default client.
func WithClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) HTTPOption {
	return func(h *HTTP) {
		h.token = token
	}
}

// NewHTTP targets the API rooted at baseURL.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

var _ Gateway = (*HTTP)(nil)

// Create implements Gateway.
func (h *HTTP) Create(ctx context.Context, rec course.Record) (Response, error) {
	return h.do(ctx, "create", http.MethodPost, PathCreate, rec)
}

// Update implements Gateway.
func (h *HTTP) Update(ctx context.Context, id string, rec course.Record) (Response, error) {
	if id == "" {
		return Response{}, ErrMissingID
	}
	return h.do(ctx, "update", http.MethodPut, PathUpdate+url.PathEscape(id), rec)
}

// FetchByID implements Gateway.
func (h *HTTP) FetchByID(ctx context.Context, id string) (Response, error) {
	if id == "" {
		return Response{}, ErrMissingID
	}
	return h.do(ctx, "fetch", http.MethodGet, PathDetails+url.PathEscape(id), nil)
}

func (h *HTTP) do(ctx context.Context, op, method, path string, rec course.Record) (Response, error) {
	var body io.Reader
	if rec != nil {
		payload, err := json.Marshal(rec)
		if err != nil {
			return Response{}, fmt.Errorf("gateway: %s: encode record: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return Response{}, fmt.Errorf("gateway: %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	log.Debug().Str("op", op).Str("method", method).Str("path", path).Msg("course request")

	resp, err := h.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("gateway: %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("gateway: %s: read response: %w", op, err)
	}

	var out Response
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			if resp.StatusCode >= 300 {
				return Response{}, &StatusError{Op: op, Status: resp.StatusCode}
			}
			return Response{}, fmt.Errorf("gateway: %s: decode response: %w", op, err)
		}
	}
	normalizeID(out.Data)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !out.Success {
		return out, &StatusError{Op: op, Status: resp.StatusCode, Response: out}
	}
	return out, nil
}

// normalizeID copies a document store "_id" onto "id" when the backend does
// not send one.
func normalizeID(rec course.Record) {
	if rec == nil {
		return
	}
	if _, ok := rec[course.KeyID]; ok {
		return
	}
	if id, ok := rec["_id"].(string); ok {
		rec[course.KeyID] = id
	}
}
