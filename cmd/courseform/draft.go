package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-courseform/pkg/authoring"
	"github.com/goliatone/go-courseform/pkg/course"
)

// draftFile is the on-disk form of a course draft. Media in a draft must
// already be hosted; the CLI uploads local files only in interactive mode.
type draftFile struct {
	Landing    map[string]any          `yaml:"landing"`
	Curriculum []course.CurriculumItem `yaml:"curriculum"`
	Image      draftImage              `yaml:"image"`
}

type draftImage struct {
	URL      string `yaml:"url"`
	PublicID string `yaml:"public_id"`
}

func readDraft(path string) (draftFile, error) {
	var d draftFile
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("read draft: %w", err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parse draft %s: %w", path, err)
	}
	return d, nil
}

// applyDraft writes the draft into s. Landing values are set and touched so
// their errors show; a draft with no curriculum leaves the session's
// curriculum untouched.
func applyDraft(s *authoring.Session, d draftFile) error {
	names := make([]string, 0, len(d.Landing))
	for name := range d.Landing {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, err := landingValue(d.Landing[name])
		if err != nil {
			return fmt.Errorf("landing %s: %w", name, err)
		}
		if err := s.SetLanding(name, value); err != nil {
			return err
		}
		if err := s.TouchLanding(name); err != nil {
			return err
		}
	}
	if len(d.Curriculum) > 0 {
		if err := s.ReplaceCurriculum(course.NewCurriculum(d.Curriculum...)); err != nil {
			return err
		}
	}
	if d.Image.URL != "" {
		if err := s.SetImage(d.Image.URL, d.Image.PublicID); err != nil {
			return err
		}
	}
	return nil
}

// landingValue narrows YAML scalars and lists to the string / []string values
// a store accepts.
func landingValue(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out, nil
	case map[string]any:
		return nil, fmt.Errorf("nested values are not supported")
	default:
		return fmt.Sprint(v), nil
	}
}
