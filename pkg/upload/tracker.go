// Package upload tracks the single in-flight media upload of an authoring
// session and provides the transports that move bytes to media storage.
package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	// ErrSuperseded is returned by Begin when a later Begin or Remove
	// replaced the upload before it completed. Its outcome was discarded.
	ErrSuperseded = errors.New("upload: superseded by a newer upload")
	// ErrNoFile is returned when Begin is called without a file.
	ErrNoFile = errors.New("upload: file is required")
	// ErrRejected is returned by transports when storage answers but
	// refuses the file.
	ErrRejected = errors.New("upload: rejected by media storage")

	errNotSeekable = errors.New("upload: reader is not seekable")
)

// Phase is the coarse upload lifecycle position.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseUploading Phase = "uploading"
	PhaseDone      Phase = "done"
	PhaseFailed    Phase = "failed"
)

// State is a snapshot of the tracker.
type State struct {
	Phase      Phase
	Percentage int
}

// Active reports whether an upload is running.
func (s State) Active() bool {
	return s.Phase == PhaseUploading
}

// Result identifies a stored media object.
type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Transport moves a file to media storage, reporting whole percentages of
// bytes sent through progress. Implementations must honour ctx cancellation.
type Transport interface {
	Upload(ctx context.Context, file File, progress func(percent int)) (Result, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, file File, progress func(percent int)) (Result, error)

// Upload implements Transport.
func (fn TransportFunc) Upload(ctx context.Context, file File, progress func(percent int)) (Result, error) {
	return fn(ctx, file, progress)
}

// Tracker runs at most one upload at a time. Starting a new upload cancels
// the running one; late completions of replaced uploads are dropped.
type Tracker struct {
	transport Transport

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
}

// NewTracker returns an idle tracker using transport.
func NewTracker(transport Transport) *Tracker {
	return &Tracker{
		transport: transport,
		state:     State{Phase: PhaseIdle},
	}
}

// State returns the current snapshot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Begin uploads file and blocks until it completes, fails, or is replaced.
// onProgress, when set, receives every state change of this upload while it
// is current: the initial uploading state, each non-decreasing percentage,
// and the terminal state.
func (t *Tracker) Begin(ctx context.Context, file File, onProgress func(State)) (Result, error) {
	if file == nil {
		return Result{}, ErrNoFile
	}
	if t.transport == nil {
		return Result{}, fmt.Errorf("upload: transport is required")
	}

	uploadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	gen := t.gen
	t.cancel = cancel
	t.state = State{Phase: PhaseUploading}
	started := t.state
	t.mu.Unlock()

	notify(onProgress, started)
	log.Debug().Str("file", file.Name()).Int64("size", file.Size()).Uint64("generation", gen).Msg("upload started")

	result, err := t.transport.Upload(uploadCtx, file, func(percent int) {
		if next, ok := t.advance(gen, percent); ok {
			notify(onProgress, next)
		}
	})

	t.mu.Lock()
	if t.gen != gen {
		t.mu.Unlock()
		log.Debug().Str("file", file.Name()).Uint64("generation", gen).Msg("upload superseded")
		return Result{}, ErrSuperseded
	}
	t.cancel = nil
	if err != nil {
		t.state = State{Phase: PhaseFailed, Percentage: t.state.Percentage}
		final := t.state
		t.mu.Unlock()
		notify(onProgress, final)
		log.Warn().Err(err).Str("file", file.Name()).Msg("upload failed")
		return Result{}, fmt.Errorf("upload: %s: %w", file.Name(), err)
	}
	t.state = State{Phase: PhaseDone, Percentage: 100}
	final := t.state
	t.mu.Unlock()

	notify(onProgress, final)
	log.Debug().Str("file", file.Name()).Str("public_id", result.PublicID).Msg("upload finished")
	return result, nil
}

// Remove drops any upload, running or finished, and returns the tracker to
// idle. It is always legal.
func (t *Tracker) Remove() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.gen++
	t.state = State{Phase: PhaseIdle}
}

func (t *Tracker) advance(gen uint64, percent int) (State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen != gen || t.state.Phase != PhaseUploading {
		return State{}, false
	}
	if percent > 100 {
		percent = 100
	}
	if percent <= t.state.Percentage {
		return State{}, false
	}
	t.state.Percentage = percent
	return t.state, true
}

func notify(fn func(State), state State) {
	if fn != nil {
		fn(state)
	}
}
