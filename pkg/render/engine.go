package render

import (
	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/validation"
)

// Control describes one rendered input. Exactly one of the payload pointers
// is set, matching Kind.
type Control struct {
	Name        string
	Label       string
	Kind        model.Kind
	Required    bool
	Placeholder string
	Error       string

	Text      *TextControl
	Select    *SelectControl
	Multiline *MultilineControl
}

// TextControl is a single-line input.
type TextControl struct {
	Value     string
	InputType string
}

// SelectControl is a choice among fixed options.
type SelectControl struct {
	Value    string
	Options  []model.Option
	Selected int
}

// MultilineControl is a free-text area.
type MultilineControl struct {
	Value string
	Rows  int
}

// HasError reports whether the control carries a message.
func (c Control) HasError() bool {
	return c.Error != ""
}

// Render builds one Control per schema field, in schema order. Absent store
// keys render as empty strings. errs should already be filtered for display
// (see validation.VisibleErrors).
func Render(schema model.Schema, store model.Store, errs model.FieldErrors) []Control {
	controls := make([]Control, 0, len(schema))
	for _, field := range schema {
		controls = append(controls, renderField(field, store.String(field.Name), errs[field.Name]))
	}
	return controls
}

func renderField(field model.Field, value, errMsg string) Control {
	ctrl := Control{
		Name:        field.Name,
		Label:       field.DisplayLabel(),
		Kind:        field.Kind,
		Required:    field.IsRequired(),
		Placeholder: field.Placeholder,
		Error:       errMsg,
	}

	switch field.Kind {
	case model.KindText:
		ctrl.Text = textControl(field, value)
	case model.KindSelect:
		ctrl.Select = &SelectControl{
			Value:    value,
			Options:  append([]model.Option(nil), field.Options...),
			Selected: optionIndex(field.Options, value),
		}
	case model.KindMultilineText:
		ctrl.Multiline = &MultilineControl{Value: value, Rows: 4}
	default:
		// unknown tags degrade to a plain text input
		ctrl.Kind = model.KindText
		ctrl.Text = textControl(field, value)
	}
	return ctrl
}

func textControl(field model.Field, value string) *TextControl {
	inputType := "text"
	if field.IsMoney() {
		inputType = "number"
	}
	return &TextControl{Value: value, InputType: inputType}
}

func optionIndex(options []model.Option, id string) int {
	for idx, opt := range options {
		if opt.ID == id {
			return idx
		}
	}
	return -1
}

// SetValue returns a new store with name set to value. The input store is
// never modified.
func SetValue(store model.Store, name string, value any) (model.Store, error) {
	return store.Set(name, value)
}

// Touch marks name as visited.
func Touch(touched model.Touched, name string) model.Touched {
	return touched.Add(name)
}

// BuildView renders a section with display filtering applied: errors are
// recomputed for every field and shown only for touched fields, or for all
// fields once a publish has been attempted.
func BuildView(title string, schema model.Schema, store model.Store, touched model.Touched, publishAttempted bool) View {
	all := validation.RecomputeErrors(schema, store)
	visible := validation.VisibleErrors(all, touched, publishAttempted)
	return View{
		Title:    title,
		Controls: Render(schema, store, visible),
		Summary:  validation.ErrorSummary(visible),
	}
}
