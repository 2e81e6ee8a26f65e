// Package gateway persists course records. The authoring session only needs
// create, update and fetch-by-id; list views live elsewhere.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goliatone/go-courseform/pkg/course"
)

var (
	// ErrNotFound is returned when no course has the requested id.
	ErrNotFound = errors.New("gateway: course not found")
	// ErrRejected is returned when the backend answered but refused the
	// request.
	ErrRejected = errors.New("gateway: request rejected")
	// ErrMissingID guards Update and FetchByID against empty ids.
	ErrMissingID = errors.New("gateway: course id is required")
)

// Response is the envelope every backend answers with.
type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    course.Record       `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Gateway is the persistence contract used by the authoring session.
type Gateway interface {
	Create(ctx context.Context, rec course.Record) (Response, error)
	Update(ctx context.Context, id string, rec course.Record) (Response, error)
	FetchByID(ctx context.Context, id string) (Response, error)
}

// StatusError carries a refused response so callers can surface the
// backend's message and per-field errors.
type StatusError struct {
	Op       string
	Status   int
	Response Response
}

func (e *StatusError) Error() string {
	msg := e.Response.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Status == 0 {
		return fmt.Sprintf("gateway: %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("gateway: %s: status %d: %s", e.Op, e.Status, msg)
}

// Unwrap maps 404 onto ErrNotFound and everything else onto ErrRejected.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrRejected
}
