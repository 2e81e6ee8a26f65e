package authoring

import (
	"fmt"

	"github.com/goliatone/go-courseform/pkg/course"
)

// AddLecture appends item and returns its index.
func (s *Session) AddLecture(item course.CurriculumItem) (int, error) {
	idx := -1
	err := s.mutate(func() error {
		s.curriculum = s.curriculum.Append(item)
		idx = s.curriculum.Len() - 1
		s.markEditedLocked()
		return nil
	})
	return idx, err
}

// UpdateLecture replaces the lecture at idx with fn's result.
func (s *Session) UpdateLecture(idx int, fn func(course.CurriculumItem) course.CurriculumItem) error {
	if fn == nil {
		return fmt.Errorf("authoring: update function is required")
	}
	return s.mutate(func() error {
		next, err := s.curriculum.Update(idx, fn)
		if err != nil {
			return fmt.Errorf("authoring: %w", err)
		}
		s.curriculum = next
		s.markEditedLocked()
		return nil
	})
}

// SetLectureTitle is UpdateLecture for the title alone.
func (s *Session) SetLectureTitle(idx int, title string) error {
	return s.UpdateLecture(idx, func(item course.CurriculumItem) course.CurriculumItem {
		item.Title = title
		return item
	})
}

// SetFreePreview flags the lecture at idx as watchable without enrolment.
func (s *Session) SetFreePreview(idx int, free bool) error {
	return s.UpdateLecture(idx, func(item course.CurriculumItem) course.CurriculumItem {
		item.FreePreview = free
		return item
	})
}

// RemoveLecture deletes the lecture at idx.
func (s *Session) RemoveLecture(idx int) error {
	return s.mutate(func() error {
		next, err := s.curriculum.Remove(idx)
		if err != nil {
			return fmt.Errorf("authoring: %w", err)
		}
		s.curriculum = next
		s.markEditedLocked()
		return nil
	})
}

// MoveLecture reorders the curriculum.
func (s *Session) MoveLecture(from, to int) error {
	return s.mutate(func() error {
		next, err := s.curriculum.Move(from, to)
		if err != nil {
			return fmt.Errorf("authoring: %w", err)
		}
		s.curriculum = next
		s.markEditedLocked()
		return nil
	})
}

// ReplaceCurriculum swaps in a whole curriculum, e.g. from a bulk import.
func (s *Session) ReplaceCurriculum(items course.Curriculum) error {
	return s.mutate(func() error {
		s.curriculum = items
		s.markEditedLocked()
		return nil
	})
}

// RemoveLectureVideo clears the uploaded video of the lecture at idx.
func (s *Session) RemoveLectureVideo(idx int) error {
	return s.UpdateLecture(idx, func(item course.CurriculumItem) course.CurriculumItem {
		item.VideoURL = ""
		item.PublicID = ""
		return item
	})
}
