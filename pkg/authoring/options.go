package authoring

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/model"
)

// Option customises a Session.
type Option func(*Session)

// WithSchema replaces the built-in landing schema.
func WithSchema(schema model.Schema) Option {
	return func(s *Session) {
		if len(schema) > 0 {
			s.schema = schema
		}
	}
}

// WithAuthor sets the identity written into published records.
func WithAuthor(author course.Author) Option {
	return func(s *Session) {
		s.author = author
	}
}

// WithClock overrides the timestamp source used for the record date.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// OnChange registers fn to receive a snapshot after every applied change.
// Listeners run outside the session lock, on the goroutine that made the
// change.
func OnChange(fn func(Draft)) Option {
	return func(s *Session) {
		if fn != nil {
			s.listeners = append(s.listeners, fn)
		}
	}
}
