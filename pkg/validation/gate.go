package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/model"
)

// Section identifies one of the authoring areas.
type Section string

const (
	SectionLanding    Section = "landing"
	SectionCurriculum Section = "curriculum"
	SectionSettings   Section = "settings"
)

// Result reports whether a section (or the whole draft) is complete. When OK
// is false, Section names the first failing section and Reason explains why.
// Problems lists every individual violation found, for diagnostics.
type Result struct {
	OK       bool
	Section  Section
	Reason   string
	Problems []string
}

// IsEmpty reports whether v is "", nil, or an empty sequence.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// CheckLanding passes iff every key in the schema holds a non-empty value.
func CheckLanding(schema model.Schema, store model.Store) Result {
	res := Result{OK: true, Section: SectionLanding}
	for _, name := range schema.Names() {
		value, _ := store.Get(name)
		if IsEmpty(value) {
			res.Problems = append(res.Problems, fmt.Sprintf("missing landing data: %s", name))
		}
	}
	if len(res.Problems) > 0 {
		res.OK = false
		res.Reason = "landing page is missing required information"
	}
	return res
}

// CheckCurriculum passes iff the curriculum is non-empty, every item carries
// a title, video URL and storage reference, and at least one item is a free
// preview. All three conditions are required together.
func CheckCurriculum(items course.Curriculum) Result {
	res := Result{OK: true, Section: SectionCurriculum}
	if items.Len() == 0 {
		res.OK = false
		res.Reason = "curriculum has no lectures"
		res.Problems = []string{"no curriculum items found"}
		return res
	}

	hasFreePreview := false
	itemsValid := true
	for idx, item := range items.Items() {
		var missing []string
		if IsEmpty(item.Title) {
			missing = append(missing, "title")
		}
		if IsEmpty(item.VideoURL) {
			missing = append(missing, "videoUrl")
		}
		if IsEmpty(item.PublicID) {
			missing = append(missing, "public_id")
		}
		if len(missing) > 0 {
			itemsValid = false
			res.Problems = append(res.Problems, fmt.Sprintf("lecture %d missing %s", idx+1, strings.Join(missing, ", ")))
		}
		if item.FreePreview {
			hasFreePreview = true
		}
	}
	if !hasFreePreview {
		res.Problems = append(res.Problems, "no free preview lecture")
	}

	switch {
	case !itemsValid:
		res.OK = false
		res.Reason = "every lecture needs a title and an uploaded video"
	case !hasFreePreview:
		res.OK = false
		res.Reason = "at least one lecture must be a free preview"
	}
	return res
}

// Gate evaluates the publish gate: landing AND curriculum. The first failing
// section is reported; problems from both sections are logged at debug level.
func Gate(schema model.Schema, store model.Store, items course.Curriculum) Result {
	landing := CheckLanding(schema, store)
	curriculum := CheckCurriculum(items)

	if !landing.OK || !curriculum.OK {
		ev := log.Debug()
		if len(landing.Problems) > 0 {
			ev = ev.Strs("landing", landing.Problems)
		}
		if len(curriculum.Problems) > 0 {
			ev = ev.Strs("curriculum", curriculum.Problems)
		}
		ev.Msg("publish gate closed")
	}

	if !landing.OK {
		landing.Problems = append(landing.Problems, curriculum.Problems...)
		return landing
	}
	if !curriculum.OK {
		return curriculum
	}
	return Result{OK: true}
}
