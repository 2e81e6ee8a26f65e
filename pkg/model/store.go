package model

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrUnknownField is returned when a write targets a name outside the store's
// key set.
var ErrUnknownField = errors.New("model: unknown field")

// Store maps field names to their current value. Values are either string or
// []string (multi-value fields). A Store is immutable: Set returns a new Store
// and leaves the receiver untouched.
type Store struct {
	values map[string]any
}

// NewStore seeds a store with exactly the schema's key set, each key holding
// the field default.
func NewStore(schema Schema) Store {
	values := make(map[string]any, len(schema))
	for _, field := range schema {
		values[field.Name] = field.Default
	}
	return Store{values: values}
}

// StoreFromValues builds a store over schema taking values from src where
// present and defaults elsewhere. Keys in src that are not part of the schema
// are dropped.
func StoreFromValues(schema Schema, src map[string]any) Store {
	store := NewStore(schema)
	for _, field := range schema {
		if v, ok := normalizeValue(src[field.Name]); ok {
			store.values[field.Name] = v
		}
	}
	return store
}

// Set returns a copy of the store with name set to value.
func (s Store) Set(name string, value any) (Store, error) {
	if _, ok := s.values[name]; !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	normalized, ok := normalizeValue(value)
	if !ok {
		return s, fmt.Errorf("model: unsupported value %T for field %q", value, name)
	}
	next := make(map[string]any, len(s.values))
	for k, v := range s.values {
		next[k] = v
	}
	next[name] = normalized
	return Store{values: next}, nil
}

// Get returns the raw value for name.
func (s Store) Get(name string) (any, bool) {
	v, ok := s.values[name]
	if !ok {
		return nil, false
	}
	if list, isList := v.([]string); isList {
		return slices.Clone(list), true
	}
	return v, true
}

// String returns the value for name as a string. Absent keys and multi-value
// fields yield the empty string.
func (s Store) String(name string) string {
	if v, ok := s.values[name].(string); ok {
		return v
	}
	return ""
}

// Has reports whether name belongs to the key set.
func (s Store) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Keys returns the key set in sorted order.
func (s Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (s Store) Len() int {
	return len(s.values)
}

// Values returns a copy of the underlying map.
func (s Store) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		if list, ok := v.([]string); ok {
			out[k] = slices.Clone(list)
			continue
		}
		out[k] = v
	}
	return out
}

// Equal reports whether both stores hold the same keys and values.
func (s Store) Equal(other Store) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for k, v := range s.values {
		ov, ok := other.values[k]
		if !ok {
			return false
		}
		switch typed := v.(type) {
		case string:
			if str, ok := ov.(string); !ok || str != typed {
				return false
			}
		case []string:
			if ol, ok := ov.([]string); !ok || !slices.Equal(ol, typed) {
				return false
			}
		}
	}
	return true
}

func normalizeValue(value any) (any, bool) {
	switch typed := value.(type) {
	case nil:
		return nil, false
	case string:
		return typed, true
	case []string:
		return slices.Clone(typed), true
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				out = append(out, fmt.Sprint(item))
				continue
			}
			out = append(out, s)
		}
		return out, true
	case bool, int, int64, float64:
		return fmt.Sprint(typed), true
	default:
		return nil, false
	}
}
