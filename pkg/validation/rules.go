// Package validation holds the pure rules shared by the form engine and the
// authoring publish gate. Nothing here performs I/O or keeps state.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-courseform/pkg/model"
)

// MessageInvalidPrice is reported for money fields that do not hold a
// non-negative number.
const MessageInvalidPrice = "Please enter a valid price"

// ValidationError describes a single failing field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// ValidateField applies the field rules to value and returns the message to
// show, or "" when the value is acceptable. Required is checked before the
// money rule so an empty required price reads "<label> is required".
func ValidateField(field model.Field, value any) string {
	text, isText := textValue(value)

	if field.IsRequired() {
		if !isText {
			if IsEmpty(value) {
				return requiredMessage(field)
			}
		} else if strings.TrimSpace(text) == "" {
			return requiredMessage(field)
		}
	}

	if field.IsMoney() && isText {
		if !validPrice(text) {
			return MessageInvalidPrice
		}
	}
	return ""
}

// Check wraps ValidateField into an error value.
func Check(field model.Field, value any) error {
	if msg := ValidateField(field, value); msg != "" {
		return ValidationError{Field: field.Name, Message: msg}
	}
	return nil
}

// RecomputeErrors evaluates every schema field against the store. Errors are
// computed regardless of touch state; use VisibleErrors to decide what to
// display.
func RecomputeErrors(schema model.Schema, store model.Store) model.FieldErrors {
	errs := make(model.FieldErrors)
	for _, field := range schema {
		value, _ := store.Get(field.Name)
		if msg := ValidateField(field, value); msg != "" {
			errs[field.Name] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// VisibleErrors filters errs down to the touched fields, or returns all of
// them once a publish attempt has been made.
func VisibleErrors(errs model.FieldErrors, touched model.Touched, publishAttempted bool) model.FieldErrors {
	if len(errs) == 0 {
		return nil
	}
	if publishAttempted {
		return errs.Clone()
	}
	out := make(model.FieldErrors)
	for name, msg := range errs {
		if touched.Has(name) {
			out[name] = msg
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ErrorSummary produces the banner shown above a form with visible errors.
func ErrorSummary(errs model.FieldErrors) string {
	switch n := len(errs); n {
	case 0:
		return ""
	case 1:
		return "Please fix 1 error before proceeding"
	default:
		return fmt.Sprintf("Please fix %d errors before proceeding", n)
	}
}

func requiredMessage(field model.Field) string {
	return field.DisplayLabel() + " is required"
}

func textValue(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", true
	case string:
		return typed, true
	default:
		return "", false
	}
}

func validPrice(raw string) bool {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return false
	}
	return price >= 0
}
