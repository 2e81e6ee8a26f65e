package authoring

import (
	"fmt"

	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/render"
	"github.com/goliatone/go-courseform/pkg/validation"
)

// LandingTitle heads the landing section view.
const LandingTitle = "Course Landing Page"

// SetLanding writes one landing value. Server errors reported for the field
// by a previous publish are cleared.
func (s *Session) SetLanding(name string, value any) error {
	return s.mutate(func() error {
		next, err := render.SetValue(s.landing, name, value)
		if err != nil {
			return fmt.Errorf("authoring: %w", err)
		}
		s.landing = next
		if _, ok := s.serverErrs[name]; ok {
			s.serverErrs = s.serverErrs.Clone()
			delete(s.serverErrs, name)
		}
		s.markEditedLocked()
		return nil
	})
}

// TouchLanding marks a landing field as visited so its error shows.
func (s *Session) TouchLanding(name string) error {
	return s.mutate(func() error {
		if _, ok := s.schema.Lookup(name); !ok {
			return fmt.Errorf("authoring: %w: %s", model.ErrUnknownField, name)
		}
		s.touched = render.Touch(s.touched, name)
		return nil
	})
}

// LandingErrors returns the errors to display: validation errors for touched
// fields (all fields after a publish attempt) plus server-side field errors.
func (s *Session) LandingErrors() model.FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleErrorsLocked()
}

// LandingErrorSummary returns the banner for the landing section, or "".
func (s *Session) LandingErrorSummary() string {
	return validation.ErrorSummary(s.LandingErrors())
}

// LandingView renders the landing section with the display policy applied.
func (s *Session) LandingView() render.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	visible := s.visibleErrorsLocked()
	return render.View{
		Title:      LandingTitle,
		Controls:   render.Render(s.schema, s.landing, visible),
		FormErrors: append([]string(nil), s.formErrs...),
		Summary:    validation.ErrorSummary(visible),
	}
}

func (s *Session) visibleErrorsLocked() model.FieldErrors {
	all := validation.RecomputeErrors(s.schema, s.landing)
	visible := validation.VisibleErrors(all, s.touched, s.attempted)
	if len(s.serverErrs) == 0 {
		return visible
	}
	out := visible.Clone()
	if out == nil {
		out = make(model.FieldErrors, len(s.serverErrs))
	}
	for name, msg := range s.serverErrs {
		if _, ok := out[name]; !ok {
			out[name] = msg
		}
	}
	return out
}
