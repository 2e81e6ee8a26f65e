package authoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/validation"
)

var (
	// ErrNotInitialized is returned by operations invoked before Init.
	ErrNotInitialized = errors.New("authoring: session not initialised")
	// ErrDisposed is returned by operations invoked after Dispose.
	ErrDisposed = errors.New("authoring: session disposed")
	// ErrStaleResponse is returned by StartEdit when a newer StartCreate or
	// StartEdit superseded it before its fetch completed.
	ErrStaleResponse = errors.New("authoring: stale hydrate response discarded")
	// ErrPublishInFlight rejects a second Publish, or a mode switch, while a
	// publish is running.
	ErrPublishInFlight = errors.New("authoring: publish already in flight")
	// ErrHydrating rejects Publish while a course is still loading.
	ErrHydrating = errors.New("authoring: course is still loading")
	// ErrNoEditTarget is returned by Reload in create mode.
	ErrNoEditTarget = errors.New("authoring: no course selected for editing")
	// ErrEmptyID rejects StartEdit without an id.
	ErrEmptyID = errors.New("authoring: course id is required")
	// ErrNoTransport is returned by uploads when the session has no
	// upload transport.
	ErrNoTransport = errors.New("authoring: no upload transport configured")
	// ErrLectureRemoved is returned by BeginLectureUpload when its lecture
	// was removed or the curriculum replaced before the upload finished. The
	// uploaded video is not attached anywhere.
	ErrLectureRemoved = errors.New("authoring: lecture removed during upload")
)

// Op names the network operation behind a TransportError.
type Op string

const (
	OpHydrate Op = "hydrate"
	OpUpload  Op = "upload"
	OpPublish Op = "publish"
)

// TransportError reports a failed hydrate, upload or publish. The session
// stays editable and keeps the user's input.
type TransportError struct {
	Op  Op
	Err error
	// Message is the backend's own explanation, when it sent one.
	Message string
	// Fields and FormErrors carry server-side validation mapped onto the
	// landing schema.
	Fields     model.FieldErrors
	FormErrors []string
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("authoring: %s failed: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("authoring: %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UploadTarget names what an upload was for.
type UploadTarget string

const (
	TargetImage   UploadTarget = "image"
	TargetLecture UploadTarget = "lecture"
)

// UploadFailure is the TransportError of an upload that left the tracker in
// the failed phase. Index is the lecture position for TargetLecture.
type UploadFailure struct {
	Target UploadTarget
	Index  int
	Err    *TransportError
}

func (e *UploadFailure) Error() string {
	if e.Target == TargetLecture {
		return fmt.Sprintf("authoring: lecture %d upload failed: %v", e.Index+1, e.Err.Err)
	}
	return fmt.Sprintf("authoring: %s upload failed: %v", e.Target, e.Err.Err)
}

func (e *UploadFailure) Unwrap() error {
	return e.Err
}

// SectionIncompleteError blocks a publish and names the section to fix.
type SectionIncompleteError struct {
	Section validation.Section
	Reason  string
	// Fields lists landing field errors when Section is landing.
	Fields model.FieldErrors
	// Problems holds diagnostic detail for curriculum failures.
	Problems []string
}

func (e *SectionIncompleteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "authoring: %s section incomplete", e.Section)
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}
