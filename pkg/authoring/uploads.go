package authoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/upload"
)

// BeginImageUpload uploads the settings thumbnail and blocks until it
// completes. A newer upload, RemoveUpload or a mode switch supersedes it
// (upload.ErrSuperseded) and its result is discarded. On failure the
// previous image is kept and an *UploadFailure returned.
func (s *Session) BeginImageUpload(ctx context.Context, file upload.File) (upload.Result, error) {
	return s.beginUpload(ctx, file, TargetImage, -1)
}

// BeginLectureUpload uploads the video for the lecture at idx and stores its
// URL and storage id on the lecture. It shares the single upload slot with
// the thumbnail. The lecture is tracked through moves; if it is removed
// before the upload finishes, ErrLectureRemoved is returned and nothing is
// stored.
func (s *Session) BeginLectureUpload(ctx context.Context, idx int, file upload.File) (upload.Result, error) {
	return s.beginUpload(ctx, file, TargetLecture, idx)
}

func (s *Session) beginUpload(ctx context.Context, file upload.File, target UploadTarget, idx int) (upload.Result, error) {
	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return upload.Result{}, err
	}
	if s.tracker == nil {
		s.mu.Unlock()
		return upload.Result{}, ErrNoTransport
	}
	var lecture uint64
	if target == TargetLecture {
		key, err := s.curriculum.KeyAt(idx)
		if err != nil {
			s.mu.Unlock()
			return upload.Result{}, err
		}
		lecture = key
	}
	s.uploadGen++
	gen := s.uploadGen
	s.uploadFail = nil
	s.mu.Unlock()

	uploadCtx, cancel := s.bind(ctx)
	defer cancel()

	res, err := s.tracker.Begin(uploadCtx, file, func(upload.State) {
		s.emit(s.Snapshot())
	})
	if errors.Is(err, upload.ErrSuperseded) || errors.Is(err, upload.ErrNoFile) {
		return upload.Result{}, err
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return upload.Result{}, ErrDisposed
	}
	// RemoveUpload, SetImage, a newer upload or a mode switch may have run
	// after the tracker finished.
	if gen != s.uploadGen {
		s.mu.Unlock()
		s.logger.Debug().Str("target", string(target)).Msg("discarding superseded upload result")
		return upload.Result{}, upload.ErrSuperseded
	}
	if err != nil {
		failure := &UploadFailure{Target: target, Index: idx, Err: transportError(OpUpload, err)}
		s.uploadFail = failure
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(snap)
		s.logger.Warn().Err(err).Str("target", string(target)).Msg("upload failed")
		return upload.Result{}, failure
	}

	switch target {
	case TargetLecture:
		pos := s.curriculum.IndexOf(lecture)
		if pos < 0 {
			s.mu.Unlock()
			s.logger.Warn().Str("public_id", res.PublicID).Msg("lecture removed before its upload finished")
			return upload.Result{}, ErrLectureRemoved
		}
		next, uerr := s.curriculum.Update(pos, func(item course.CurriculumItem) course.CurriculumItem {
			item.VideoURL = res.URL
			item.PublicID = res.PublicID
			return item
		})
		if uerr != nil {
			s.mu.Unlock()
			return upload.Result{}, fmt.Errorf("authoring: %w", uerr)
		}
		s.curriculum = next
	default:
		s.imageURL = res.URL
		s.imageID = res.PublicID
	}
	s.markEditedLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.emit(snap)
	s.logger.Info().Str("target", string(target)).Str("public_id", res.PublicID).Msg("upload stored")
	return res, nil
}

// RemoveUpload abandons any running upload, clears the thumbnail and resets
// the upload phase to idle. It is always legal.
func (s *Session) RemoveUpload() error {
	return s.mutate(func() error {
		s.uploadGen++
		if s.tracker != nil {
			s.tracker.Remove()
		}
		s.imageURL = ""
		s.imageID = ""
		s.uploadFail = nil
		return nil
	})
}

// UploadState reports the upload slot.
func (s *Session) UploadState() upload.State {
	if s.tracker == nil {
		return upload.State{Phase: upload.PhaseIdle}
	}
	return s.tracker.State()
}

// UploadFailure returns the last upload failure, cleared by the next upload
// or RemoveUpload.
func (s *Session) UploadFailure() *UploadFailure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadFail
}

// SetImage records an already hosted thumbnail, for drafts whose media was
// uploaded elsewhere. Any running upload is abandoned.
func (s *Session) SetImage(url, publicID string) error {
	return s.mutate(func() error {
		s.uploadGen++
		if s.tracker != nil {
			s.tracker.Remove()
		}
		s.imageURL = url
		s.imageID = publicID
		s.uploadFail = nil
		s.markEditedLocked()
		return nil
	})
}
