package model

import "sort"

// FieldErrors maps a field name to a human readable message. A missing key
// means the field is valid or untouched.
type FieldErrors map[string]string

// Names returns the erroring field names in sorted order.
func (e FieldErrors) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy, or nil when empty.
func (e FieldErrors) Clone() FieldErrors {
	if len(e) == 0 {
		return nil
	}
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Touched is the immutable set of fields the user has left at least once.
type Touched struct {
	names map[string]struct{}
}

// Add returns a copy of the set including name.
func (t Touched) Add(name string) Touched {
	if t.Has(name) {
		return t
	}
	next := make(map[string]struct{}, len(t.names)+1)
	for k := range t.names {
		next[k] = struct{}{}
	}
	next[name] = struct{}{}
	return Touched{names: next}
}

// Has reports membership.
func (t Touched) Has(name string) bool {
	_, ok := t.names[name]
	return ok
}

// Len returns the set size.
func (t Touched) Len() int {
	return len(t.names)
}
