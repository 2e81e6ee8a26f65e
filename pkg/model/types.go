package model

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed enumeration of control kinds a Field can render as.
type Kind string

const (
	KindText          Kind = "text"
	KindSelect        Kind = "select"
	KindMultilineText Kind = "multilineText"
)

// FormatMoney marks a field whose value must parse as a non-negative number.
const FormatMoney = "money"

var moneyFieldNames = map[string]struct{}{
	"pricing": {},
	"price":   {},
}

// ParseKind resolves a component tag into a Kind. Canonical names and the
// legacy aliases ("input", "textarea") are accepted; anything else falls back
// to KindText and reports ok=false so callers can log the substitution.
func ParseKind(raw string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "text", "input", "string":
		return KindText, true
	case "select", "enum", "dropdown":
		return KindSelect, true
	case "multilinetext", "multiline", "textarea":
		return KindMultilineText, true
	default:
		return KindText, false
	}
}

// Option is a single entry of a select field.
type Option struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Field describes one input of a form. Required is a pointer so that an
// omitted value means "required", matching schema files that only spell out
// the optional fields.
type Field struct {
	Name        string   `json:"name" yaml:"name"`
	Label       string   `json:"label" yaml:"label"`
	Kind        Kind     `json:"componentType" yaml:"componentType"`
	Required    *bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []Option `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Default     string   `json:"default,omitempty" yaml:"default,omitempty"`
	Format      string   `json:"format,omitempty" yaml:"format,omitempty"`
}

// IsRequired reports whether the field must carry a non-blank value.
func (f Field) IsRequired() bool {
	return f.Required == nil || *f.Required
}

// IsMoney reports whether the field holds a price.
func (f Field) IsMoney() bool {
	if strings.EqualFold(f.Format, FormatMoney) {
		return true
	}
	_, ok := moneyFieldNames[f.Name]
	return ok
}

// DisplayLabel returns the label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

// HasOption reports whether id is one of the select options.
func (f Field) HasOption(id string) bool {
	for _, opt := range f.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// Optional is a helper for building schemas in code.
func Optional() *bool {
	v := false
	return &v
}

// Schema is the ordered field list of a form.
type Schema []Field

var (
	errFieldNameMissing = errors.New("model: field name is required")
	errSelectNoOptions  = errors.New("model: select field requires options")
)

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, field := range s {
		names = append(names, field.Name)
	}
	return names
}

// Lookup finds a field by name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, field := range s {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Defaults returns the default value of every field keyed by name.
func (s Schema) Defaults() map[string]string {
	out := make(map[string]string, len(s))
	for _, field := range s {
		out[field.Name] = field.Default
	}
	return out
}

// Validate checks the schema is usable: names are present and unique and
// select fields declare options.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for idx, field := range s {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w (index %d)", errFieldNameMissing, idx)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("model: duplicate field %q", name)
		}
		seen[name] = struct{}{}
		if field.Kind == KindSelect && len(field.Options) == 0 {
			return fmt.Errorf("%w: %q", errSelectNoOptions, name)
		}
	}
	return nil
}

// Normalize trims names and resolves kinds, returning a copy. Unknown kinds
// are reported through the returned slice of field names.
func (s Schema) Normalize() (Schema, []string) {
	out := make(Schema, len(s))
	var fallbacks []string
	for idx, field := range s {
		field.Name = strings.TrimSpace(field.Name)
		kind, ok := ParseKind(string(field.Kind))
		if !ok {
			fallbacks = append(fallbacks, field.Name)
		}
		field.Kind = kind
		if len(field.Options) > 0 {
			field.Options = append([]Option(nil), field.Options...)
		}
		out[idx] = field
	}
	return out, fallbacks
}
