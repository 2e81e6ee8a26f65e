// Package schemaload reads form field schemas from JSON or YAML documents and
// from OpenAPI component schemas.
package schemaload

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-courseform/pkg/model"
)

var errEmptyDocument = errors.New("schemaload: document is empty")

type documentFile struct {
	Fields []model.Field `json:"fields" yaml:"fields"`
}

// Parse decodes a schema document. Both a top-level {"fields": [...]} object
// and a bare list of fields are accepted, in JSON or YAML. The result is
// normalised and validated.
func Parse(data []byte, source string) (model.Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", errEmptyDocument, source)
	}

	fields, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("schemaload: parse %s: %w", source, err)
	}

	schema, fallbacks := model.Schema(fields).Normalize()
	for _, name := range fallbacks {
		log.Warn().Str("source", source).Str("field", name).Msg("unknown component type, rendering as text")
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("schemaload: %s: %w", source, err)
	}
	return schema, nil
}

// LoadFS reads and parses the schema stored at path inside fsys.
func LoadFS(fsys fs.FS, path string) (model.Schema, error) {
	if fsys == nil {
		return nil, errors.New("schemaload: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("schemaload: read %s: %w", path, err)
	}
	return Parse(data, path)
}

func decode(data []byte) ([]model.Field, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil && len(doc.Fields) > 0 {
		return doc.Fields, nil
	}
	var list []model.Field
	if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return list, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Fields) > 0 {
		return doc.Fields, nil
	}
	list = nil
	if err := yaml.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return list, nil
	}
	return nil, errors.New("invalid JSON or YAML, or no fields declared")
}
