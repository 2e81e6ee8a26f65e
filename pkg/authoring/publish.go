package authoring

import (
	"context"
	"errors"

	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/gateway"
	"github.com/goliatone/go-courseform/pkg/render"
	"github.com/goliatone/go-courseform/pkg/validation"
)

// Check evaluates the publish gate against the current draft.
func (s *Session) Check() validation.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return validation.Gate(s.schema, s.landing, s.curriculum)
}

// Publishable reports whether Publish would reach the gateway.
func (s *Session) Publishable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateHydrating || s.publishing {
		return false
	}
	if len(validation.RecomputeErrors(s.schema, s.landing)) > 0 {
		return false
	}
	return validation.Gate(s.schema, s.landing, s.curriculum).OK
}

// Publish submits the draft. It marks a publish attempt, so every landing
// error becomes visible, and returns a *SectionIncompleteError without
// contacting the gateway when a section fails. Otherwise it creates or
// updates the course depending on the edit target. Success resets the
// session to an empty course; failure returns a *TransportError and keeps
// the draft.
func (s *Session) Publish(ctx context.Context) (gateway.Response, error) {
	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return gateway.Response{}, err
	}
	if s.publishing {
		s.mu.Unlock()
		return gateway.Response{}, ErrPublishInFlight
	}
	if s.state == StateHydrating {
		s.mu.Unlock()
		return gateway.Response{}, ErrHydrating
	}

	s.attempted = true
	if incomplete := s.incompleteLocked(); incomplete != nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(snap)
		s.logger.Debug().Str("section", string(incomplete.Section)).Msg("publish blocked")
		return gateway.Response{}, incomplete
	}

	rec := course.BuildRecord(course.Submission{
		Author:     s.author,
		Landing:    s.landing,
		Curriculum: s.curriculum,
		Image:      s.imageURL,
		ImageID:    s.imageID,
		Now:        s.now(),
	})
	var target string
	editing := s.target != nil
	if editing {
		target = *s.target
	}
	s.publishing = true
	s.state = StateSubmitting
	s.serverErrs = nil
	s.formErrs = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.emit(snap)

	publishCtx, cancel := s.bind(ctx)
	defer cancel()

	var (
		resp gateway.Response
		err  error
	)
	if editing {
		resp, err = s.gw.Update(publishCtx, target, rec)
	} else {
		resp, err = s.gw.Create(publishCtx, rec)
	}
	if err == nil && !resp.Success {
		op := "create"
		if editing {
			op = "update"
		}
		err = &gateway.StatusError{Op: op, Response: resp}
	}

	s.mu.Lock()
	s.publishing = false
	if s.disposed {
		s.mu.Unlock()
		return resp, ErrDisposed
	}
	if err != nil {
		s.state = StateEditing
		te := transportError(OpPublish, err)
		var status *gateway.StatusError
		if errors.As(err, &status) && len(status.Response.Errors) > 0 {
			mapping := render.MapErrorPayload(s.schema, status.Response.Errors)
			te.Fields = mapping.FieldErrors()
			te.FormErrors = mapping.Form
			s.serverErrs = te.Fields
			s.formErrs = mapping.Form
		}
		if te.Message != "" {
			s.formErrs = render.MergeFormErrors(s.formErrs, te.Message)
		}
		snap = s.snapshotLocked()
		s.mu.Unlock()
		s.emit(snap)
		s.logger.Warn().Err(err).Bool("update", editing).Msg("publish failed")
		return resp, te
	}

	s.resetLocked()
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.emit(snap)

	ev := s.logger.Info().Bool("update", editing)
	if editing {
		ev = ev.Str("id", target)
	} else if id := resp.Data.String(course.KeyID); id != "" {
		ev = ev.Str("id", id)
	}
	ev.Msg("course published")
	return resp, nil
}

func (s *Session) incompleteLocked() *SectionIncompleteError {
	if errs := validation.RecomputeErrors(s.schema, s.landing); len(errs) > 0 {
		return &SectionIncompleteError{
			Section: validation.SectionLanding,
			Reason:  validation.ErrorSummary(errs),
			Fields:  errs,
		}
	}
	res := validation.Gate(s.schema, s.landing, s.curriculum)
	if res.OK {
		return nil
	}
	return &SectionIncompleteError{
		Section:  res.Section,
		Reason:   res.Reason,
		Problems: res.Problems,
	}
}
