package schemaload

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-courseform/pkg/model"
)

const (
	extComponent = "x-courseform-component"
	extOrder     = "x-courseform-order"
	extLabel     = "x-courseform-label"
)

// FromOpenAPI builds a schema from the named component schema of an OpenAPI
// document. Properties become fields; enum properties become select fields,
// "textarea" formats or the x-courseform-component extension pick multiline
// controls, and properties outside "required" are optional. Field order
// follows x-courseform-order, then the required list, then property name.
func FromOpenAPI(ctx context.Context, data []byte, component string) (model.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("schemaload: openapi document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schemaload: load openapi document: %w", err)
	}
	if doc.Components == nil || doc.Components.Schemas == nil {
		return nil, errors.New("schemaload: openapi document has no component schemas")
	}

	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("schemaload: component schema %q not found", component)
	}
	src := ref.Value

	required := make(map[string]int, len(src.Required))
	for idx, name := range src.Required {
		required[name] = idx
	}

	type entry struct {
		field model.Field
		order int
	}
	entries := make([]entry, 0, len(src.Properties))
	for name, prop := range src.Properties {
		if prop == nil || prop.Value == nil {
			continue
		}
		field := convertProperty(name, prop.Value)
		if _, ok := required[name]; !ok {
			field.Required = model.Optional()
		}
		order, hasOrder := intExtension(prop.Value.Extensions, extOrder)
		if !hasOrder {
			if idx, ok := required[name]; ok {
				order = 1000 + idx
			} else {
				order = 2000
			}
		}
		entries = append(entries, entry{field: field, order: order})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order == entries[j].order {
			return entries[i].field.Name < entries[j].field.Name
		}
		return entries[i].order < entries[j].order
	})

	schema := make(model.Schema, 0, len(entries))
	for _, e := range entries {
		schema = append(schema, e.field)
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("schemaload: component %q: %w", component, err)
	}
	return schema, nil
}

func convertProperty(name string, src *openapi3.Schema) model.Field {
	field := model.Field{
		Name:        name,
		Label:       src.Title,
		Kind:        model.KindText,
		Placeholder: src.Description,
		Format:      src.Format,
	}
	if label, ok := src.Extensions[extLabel].(string); ok && strings.TrimSpace(label) != "" {
		field.Label = label
	}
	if field.Label == "" {
		field.Label = humanize(name)
	}
	if src.Default != nil {
		field.Default = fmt.Sprint(src.Default)
	}

	if src.Type != nil && (src.Type.Is("number") || src.Type.Is("integer")) && strings.Contains(strings.ToLower(name), "pric") {
		field.Format = model.FormatMoney
	}

	switch {
	case len(src.Enum) > 0:
		field.Kind = model.KindSelect
		for _, value := range src.Enum {
			id := fmt.Sprint(value)
			field.Options = append(field.Options, model.Option{ID: id, Label: humanize(id)})
		}
	case strings.EqualFold(src.Format, "textarea"):
		field.Kind = model.KindMultilineText
	}
	if tag, ok := src.Extensions[extComponent].(string); ok {
		kind, _ := model.ParseKind(tag)
		field.Kind = kind
	}
	return field
}

func intExtension(ext map[string]any, key string) (int, bool) {
	switch v := ext[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

func humanize(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return out
	}
	return strings.ToUpper(out[:1]) + out[1:]
}
