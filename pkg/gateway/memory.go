package gateway

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/goliatone/go-courseform/pkg/course"
)

// Memory keeps records in process. Records are copied on the way in and out
// so callers never share maps with the store.
type Memory struct {
	mu      sync.RWMutex
	records map[string]course.Record
	newID   func() string
}

// MemoryOption customises a Memory gateway.
type MemoryOption func(*Memory)

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) MemoryOption {
	return func(m *Memory) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewMemory returns an empty in-process gateway.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		records: make(map[string]course.Record),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

var _ Gateway = (*Memory)(nil)

// Create implements Gateway.
func (m *Memory) Create(ctx context.Context, rec course.Record) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	stored := rec.Clone()
	id := m.newID()
	stored[course.KeyID] = id

	m.mu.Lock()
	m.records[id] = stored
	m.mu.Unlock()

	log.Debug().Str("id", id).Msg("course created")
	return Response{Success: true, Message: "Course created successfully", Data: stored.Clone()}, nil
}

// Update implements Gateway.
func (m *Memory) Update(ctx context.Context, id string, rec course.Record) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if id == "" {
		return Response{}, ErrMissingID
	}
	stored := rec.Clone()
	stored[course.KeyID] = id

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return Response{}, &StatusError{Op: "update", Status: http.StatusNotFound, Response: Response{Message: "Course not found"}}
	}
	m.records[id] = stored

	log.Debug().Str("id", id).Msg("course updated")
	return Response{Success: true, Message: "Course updated successfully", Data: stored.Clone()}, nil
}

// FetchByID implements Gateway.
func (m *Memory) FetchByID(ctx context.Context, id string) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if id == "" {
		return Response{}, ErrMissingID
	}
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return Response{}, &StatusError{Op: "fetch", Status: http.StatusNotFound, Response: Response{Message: "Course not found"}}
	}
	return Response{Success: true, Data: rec.Clone()}, nil
}

// Put stores rec under its id, replacing any existing record.
func (m *Memory) Put(rec course.Record) string {
	stored := rec.Clone()
	id := stored.String(course.KeyID)
	if id == "" {
		id = m.newID()
		stored[course.KeyID] = id
	}
	m.mu.Lock()
	m.records[id] = stored
	m.mu.Unlock()
	return id
}

// IDs lists stored ids in sorted order.
func (m *Memory) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
