package course

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-courseform/pkg/model"
)

// Record keys written alongside the landing values.
const (
	KeyID             = "id"
	KeyInstructorID   = "instructorId"
	KeyInstructorName = "instructorName"
	KeyDate           = "date"
	KeyStudents       = "students"
	KeyCurriculum     = "curriculum"
	KeyIsPublished    = "isPublished"
	KeyImage          = "image"
	KeyImagePublicID  = "imagePublicId"
)

// Record is the wire shape of a persisted course: landing field names plus the
// generated keys above.
type Record map[string]any

// Clone deep copies the record through its JSON form.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		out := make(Record, len(r))
		for k, v := range r {
			out[k] = v
		}
		return out
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// String returns a string valued key, or "".
func (r Record) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Author identifies who is publishing.
type Author struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Submission gathers the draft sections a record is built from.
type Submission struct {
	Author     Author
	Landing    model.Store
	Curriculum Curriculum
	Image      string
	ImageID    string
	Now        time.Time
}

// BuildRecord merges the generated fields with the landing values, the
// curriculum and the settings image with its storage id. Landing values cannot override the
// generated students/curriculum/isPublished keys.
func BuildRecord(sub Submission) Record {
	now := sub.Now
	if now.IsZero() {
		now = time.Now()
	}
	rec := Record{
		KeyInstructorID:   sub.Author.ID,
		KeyInstructorName: sub.Author.Name,
		KeyDate:           now.UTC().Format(time.RFC3339Nano),
	}
	for key, value := range sub.Landing.Values() {
		rec[key] = value
	}
	rec[KeyStudents] = []any{}
	rec[KeyCurriculum] = sub.Curriculum.Records()
	rec[KeyIsPublished] = true
	if sub.Image != "" {
		rec[KeyImage] = sub.Image
	} else if _, ok := rec[KeyImage]; !ok {
		rec[KeyImage] = ""
	}
	if sub.Image != "" && sub.ImageID != "" {
		rec[KeyImagePublicID] = sub.ImageID
	}
	return rec
}

// LandingFromRecord hydrates a landing store: for each schema key the fetched
// value is used when present and non-empty, otherwise the schema default. A
// record written before a field existed therefore still yields a complete
// store.
func LandingFromRecord(schema model.Schema, rec Record) model.Store {
	values := make(map[string]any, len(schema))
	for _, field := range schema {
		raw, ok := rec[field.Name]
		if !ok || isBlank(raw) {
			continue
		}
		switch typed := raw.(type) {
		case string, []any, []string:
			values[field.Name] = typed
		default:
			values[field.Name] = fmt.Sprint(typed)
		}
	}
	return model.StoreFromValues(schema, values)
}

// CurriculumFromRecord decodes the record's curriculum in order. An absent or
// null curriculum yields an empty Curriculum.
func CurriculumFromRecord(rec Record) (Curriculum, error) {
	raw, ok := rec[KeyCurriculum]
	if !ok || raw == nil {
		return Curriculum{}, nil
	}
	if typed, ok := raw.(Curriculum); ok {
		return typed, nil
	}
	if typed, ok := raw.([]CurriculumItem); ok {
		return NewCurriculum(typed...), nil
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return Curriculum{}, fmt.Errorf("course: encode curriculum: %w", err)
	}
	var items []CurriculumItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return Curriculum{}, fmt.Errorf("course: decode curriculum: %w", err)
	}
	return NewCurriculum(items...), nil
}

func isBlank(v any) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case []any:
		return len(typed) == 0
	case []string:
		return len(typed) == 0
	default:
		return false
	}
}
