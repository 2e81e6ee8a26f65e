// Package course holds the course authoring domain: the landing page schema,
// the ordered curriculum and the submission record exchanged with the
// persistence gateway.
package course

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
)

// ErrLectureIndex is returned for curriculum operations addressing a position
// outside the sequence.
var ErrLectureIndex = errors.New("course: lecture index out of range")

// CurriculumItem is one lecture. Its position in the Curriculum is its order.
type CurriculumItem struct {
	Title       string `json:"title" yaml:"title"`
	VideoURL    string `json:"videoUrl" yaml:"videoUrl"`
	PublicID    string `json:"public_id" yaml:"public_id"`
	FreePreview bool   `json:"freePreview" yaml:"freePreview"`
}

// Curriculum is an immutable ordered list of lectures. Every operation returns
// a new value and never reorders items unless explicitly asked to (Move).
// Each lecture also carries a key that survives Update and Move, so work
// started against one lecture can find it again after the list changed.
type Curriculum struct {
	items []CurriculumItem
	keys  []uint64
}

var lectureKeys atomic.Uint64

func nextLectureKey() uint64 {
	return lectureKeys.Add(1)
}

// NewCurriculum copies items into a Curriculum.
func NewCurriculum(items ...CurriculumItem) Curriculum {
	keys := make([]uint64, len(items))
	for i := range keys {
		keys[i] = nextLectureKey()
	}
	return Curriculum{items: slices.Clone(items), keys: keys}
}

// Len returns the number of lectures.
func (c Curriculum) Len() int {
	return len(c.items)
}

// Items returns a copy of the lectures in order.
func (c Curriculum) Items() []CurriculumItem {
	return slices.Clone(c.items)
}

// At returns the lecture at idx.
func (c Curriculum) At(idx int) (CurriculumItem, error) {
	if idx < 0 || idx >= len(c.items) {
		return CurriculumItem{}, fmt.Errorf("%w: %d", ErrLectureIndex, idx)
	}
	return c.items[idx], nil
}

// KeyAt returns the stable key of the lecture at idx.
func (c Curriculum) KeyAt(idx int) (uint64, error) {
	if idx < 0 || idx >= len(c.items) {
		return 0, fmt.Errorf("%w: %d", ErrLectureIndex, idx)
	}
	return c.keys[idx], nil
}

// IndexOf returns the current position of the lecture with key, or -1 once
// it has been removed.
func (c Curriculum) IndexOf(key uint64) int {
	return slices.Index(c.keys, key)
}

// Append adds a lecture at the end.
func (c Curriculum) Append(item CurriculumItem) Curriculum {
	next := make([]CurriculumItem, 0, len(c.items)+1)
	next = append(next, c.items...)
	next = append(next, item)
	keys := make([]uint64, 0, len(c.keys)+1)
	keys = append(keys, c.keys...)
	keys = append(keys, nextLectureKey())
	return Curriculum{items: next, keys: keys}
}

// Update replaces the lecture at idx with fn applied to it. The key is kept.
func (c Curriculum) Update(idx int, fn func(CurriculumItem) CurriculumItem) (Curriculum, error) {
	if idx < 0 || idx >= len(c.items) {
		return c, fmt.Errorf("%w: %d", ErrLectureIndex, idx)
	}
	next := slices.Clone(c.items)
	next[idx] = fn(next[idx])
	return Curriculum{items: next, keys: slices.Clone(c.keys)}, nil
}

// Remove drops the lecture at idx, keeping the relative order of the rest.
func (c Curriculum) Remove(idx int) (Curriculum, error) {
	if idx < 0 || idx >= len(c.items) {
		return c, fmt.Errorf("%w: %d", ErrLectureIndex, idx)
	}
	next := slices.Delete(slices.Clone(c.items), idx, idx+1)
	keys := slices.Delete(slices.Clone(c.keys), idx, idx+1)
	return Curriculum{items: next, keys: keys}, nil
}

// Move relocates the lecture at from to position to.
func (c Curriculum) Move(from, to int) (Curriculum, error) {
	if from < 0 || from >= len(c.items) {
		return c, fmt.Errorf("%w: %d", ErrLectureIndex, from)
	}
	if to < 0 || to >= len(c.items) {
		return c, fmt.Errorf("%w: %d", ErrLectureIndex, to)
	}
	next := slices.Clone(c.items)
	item := next[from]
	next = slices.Delete(next, from, from+1)
	next = slices.Insert(next, to, item)

	keys := slices.Clone(c.keys)
	key := keys[from]
	keys = slices.Delete(keys, from, from+1)
	keys = slices.Insert(keys, to, key)
	return Curriculum{items: next, keys: keys}, nil
}

// HasFreePreview reports whether any lecture is a free preview.
func (c Curriculum) HasFreePreview() bool {
	for _, item := range c.items {
		if item.FreePreview {
			return true
		}
	}
	return false
}

// Records converts the lectures into plain maps for submission records, so
// every gateway codec sees the wire field names.
func (c Curriculum) Records() []any {
	out := make([]any, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, map[string]any{
			"title":       item.Title,
			"videoUrl":    item.VideoURL,
			"public_id":   item.PublicID,
			"freePreview": item.FreePreview,
		})
	}
	return out
}
