// Package authoring owns the editing state of one course: the landing form,
// the curriculum, the settings image, the single upload slot and the publish
// transition. A Session is created per editor and disposed with it.
package authoring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/gateway"
	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/upload"
)

// State is the stored lifecycle position. Publishable and incomplete are
// derived from the draft on demand.
type State string

const (
	StateNew        State = "new"
	StateHydrating  State = "hydrating"
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
)

// Draft is an immutable snapshot handed to renderers and listeners.
type Draft struct {
	State            State
	Landing          model.Store
	Touched          model.Touched
	PublishAttempted bool
	Curriculum       course.Curriculum
	ImageURL         string
	ImagePublicID    string
	EditTargetID     *string
	Upload           upload.State
}

// Session is the authoring state machine. All methods are safe for
// concurrent use; network calls run without holding the lock.
type Session struct {
	gw        gateway.Gateway
	tracker   *upload.Tracker
	schema    model.Schema
	author    course.Author
	now       func() time.Time
	logger    zerolog.Logger
	listeners []func(Draft)

	base       context.Context
	baseCancel context.CancelFunc

	mu          sync.Mutex
	initialized bool
	disposed    bool
	state       State
	landing     model.Store
	touched     model.Touched
	attempted   bool
	curriculum  course.Curriculum
	imageURL    string
	imageID     string
	target      *string
	serverErrs  model.FieldErrors
	formErrs    []string
	uploadFail  *UploadFailure
	publishing  bool

	hydrateGen    uint64
	hydrateCancel context.CancelFunc
	uploadGen     uint64
}

// New creates a session around gw and transport. transport may be nil when
// uploads are not needed. Call Init before use.
func New(gw gateway.Gateway, transport upload.Transport, opts ...Option) (*Session, error) {
	if gw == nil {
		return nil, fmt.Errorf("authoring: gateway is required")
	}
	s := &Session{
		gw:     gw,
		now:    time.Now,
		logger: log.Logger.With().Str("component", "authoring").Logger(),
	}
	if transport != nil {
		s.tracker = upload.NewTracker(transport)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.schema == nil {
		schema, err := course.LandingSchema()
		if err != nil {
			return nil, fmt.Errorf("authoring: load landing schema: %w", err)
		}
		s.schema = schema
	}
	if err := s.schema.Validate(); err != nil {
		return nil, fmt.Errorf("authoring: %w", err)
	}
	s.base, s.baseCancel = context.WithCancel(context.Background())
	return s, nil
}

// Init moves the session into create mode. Calling it again is a no-op.
func (s *Session) Init() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.initialized = true
	s.resetLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug().Int("fields", len(s.schema)).Msg("session initialised")
	s.emit(snap)
	return nil
}

// Dispose cancels outstanding hydrate, upload and publish work. Later calls
// return ErrDisposed.
func (s *Session) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	s.hydrateGen++
	s.hydrateCancel = nil
	s.mu.Unlock()

	s.baseCancel()
	if s.tracker != nil {
		s.tracker.Remove()
	}
	s.logger.Debug().Msg("session disposed")
}

// Schema returns the landing schema in use.
func (s *Session) Schema() model.Schema {
	out := make(model.Schema, len(s.schema))
	copy(out, s.schema)
	return out
}

// State returns the stored lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Target returns the id being edited, if any.
func (s *Session) Target() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil {
		return "", false
	}
	return *s.target, true
}

// Snapshot returns the current draft.
func (s *Session) Snapshot() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// StartCreate discards the draft and any outstanding hydrate and upload,
// leaving an empty course in create mode.
func (s *Session) StartCreate() error {
	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.publishing {
		s.mu.Unlock()
		return ErrPublishInFlight
	}
	s.resetLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug().Msg("create mode")
	s.emit(snap)
	return nil
}

// StartEdit targets id and hydrates the draft from the gateway. It blocks
// until the fetch completes. If another StartCreate or StartEdit runs in the
// meantime the response is dropped and ErrStaleResponse returned. A fetch
// failure keeps the target, leaves the session editable and returns a
// *TransportError; Reload retries.
func (s *Session) StartEdit(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.publishing {
		s.mu.Unlock()
		return ErrPublishInFlight
	}
	s.resetLocked()
	target := id
	s.target = &target
	s.state = StateHydrating
	gen := s.hydrateGen
	fetchCtx, cancel := s.bind(ctx)
	s.hydrateCancel = cancel
	snap := s.snapshotLocked()
	s.mu.Unlock()
	defer cancel()

	s.emit(snap)
	s.logger.Debug().Str("id", id).Uint64("generation", gen).Msg("hydrating course")

	resp, err := s.gw.FetchByID(fetchCtx, id)
	if err == nil && !resp.Success {
		err = &gateway.StatusError{Op: "fetch", Response: resp}
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	if gen != s.hydrateGen || s.target == nil || *s.target != id {
		s.mu.Unlock()
		s.logger.Debug().Str("id", id).Msg("discarding stale hydrate response")
		return ErrStaleResponse
	}
	s.hydrateCancel = nil
	s.state = StateEditing

	if err != nil {
		snap = s.snapshotLocked()
		s.mu.Unlock()
		s.emit(snap)
		s.logger.Warn().Err(err).Str("id", id).Msg("hydrate failed")
		return transportError(OpHydrate, err)
	}

	landing := course.LandingFromRecord(s.schema, resp.Data)
	items, decodeErr := course.CurriculumFromRecord(resp.Data)
	s.landing = landing
	s.curriculum = items
	s.imageURL = resp.Data.String(course.KeyImage)
	s.imageID = resp.Data.String(course.KeyImagePublicID)
	snap = s.snapshotLocked()
	s.mu.Unlock()

	s.emit(snap)
	if decodeErr != nil {
		s.logger.Warn().Err(decodeErr).Str("id", id).Msg("course curriculum unreadable")
		return transportError(OpHydrate, decodeErr)
	}
	s.logger.Info().Str("id", id).Int("lectures", items.Len()).Msg("course hydrated")
	return nil
}

// Reload refetches the current edit target.
func (s *Session) Reload(ctx context.Context) error {
	id, ok := s.Target()
	if !ok {
		return ErrNoEditTarget
	}
	return s.StartEdit(ctx, id)
}

// resetLocked returns the draft to an empty course in create mode and drops
// outstanding hydrate and upload work.
func (s *Session) resetLocked() {
	s.hydrateGen++
	if s.hydrateCancel != nil {
		s.hydrateCancel()
		s.hydrateCancel = nil
	}
	s.uploadGen++
	if s.tracker != nil {
		s.tracker.Remove()
	}
	s.state = StateNew
	s.landing = model.NewStore(s.schema)
	s.touched = model.Touched{}
	s.attempted = false
	s.curriculum = course.Curriculum{}
	s.imageURL = ""
	s.imageID = ""
	s.target = nil
	s.serverErrs = nil
	s.formErrs = nil
	s.uploadFail = nil
}

func (s *Session) usableLocked() error {
	if s.disposed {
		return ErrDisposed
	}
	if !s.initialized {
		return ErrNotInitialized
	}
	return nil
}

func (s *Session) snapshotLocked() Draft {
	d := Draft{
		State:            s.state,
		Landing:          s.landing,
		Touched:          s.touched,
		PublishAttempted: s.attempted,
		Curriculum:       s.curriculum,
		ImageURL:         s.imageURL,
		ImagePublicID:    s.imageID,
	}
	if s.target != nil {
		id := *s.target
		d.EditTargetID = &id
	}
	if s.tracker != nil {
		d.Upload = s.tracker.State()
	} else {
		d.Upload = upload.State{Phase: upload.PhaseIdle}
	}
	return d
}

// markEditedLocked moves a fresh or hydrated session into editing.
func (s *Session) markEditedLocked() {
	if s.state == StateNew {
		s.state = StateEditing
	}
}

// bind derives a context from ctx that is also cancelled by Dispose.
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	derived, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.base, cancel)
	return derived, func() {
		stop()
		cancel()
	}
}

func (s *Session) emit(d Draft) {
	for _, fn := range s.listeners {
		fn(d)
	}
}

// mutate runs fn under the lock for a usable session and emits the result.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.emit(snap)
	return nil
}

func transportError(op Op, err error) *TransportError {
	te := &TransportError{Op: op, Err: err}
	var status *gateway.StatusError
	if errors.As(err, &status) {
		te.Message = status.Response.Message
	}
	return te
}
