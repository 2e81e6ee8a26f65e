package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownFormat is returned by Formats.Lookup for a format nobody
// registered.
var ErrUnknownFormat = errors.New("render: unknown output format")

// Formats maps output format names ("tui", "html") onto the renderer that
// produces them. Names are matched case-insensitively, so "HTML" on the
// command line finds the html renderer.
type Formats struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

// NewFormats returns a set holding renderers. It fails on the same errors as
// Add.
func NewFormats(renderers ...Renderer) (*Formats, error) {
	f := &Formats{byName: make(map[string]Renderer, len(renderers))}
	for _, r := range renderers {
		if err := f.Add(r); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Add registers r under its Name. A nil renderer, a blank name or a format
// that is already taken is an error.
func (f *Formats) Add(r Renderer) error {
	if r == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := formatKey(r.Name())
	if name == "" {
		return fmt.Errorf("render: %T has no format name", r)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.byName[name]; taken {
		return fmt.Errorf("render: format %q already registered", name)
	}
	f.byName[name] = r
	return nil
}

// Lookup returns the renderer for format. The error wraps ErrUnknownFormat
// and lists the formats that are available.
func (f *Formats) Lookup(format string) (Renderer, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if r, ok := f.byName[formatKey(format)]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownFormat, format, strings.Join(f.namesLocked(), ", "))
}

// Names returns the registered formats in lexical order.
func (f *Formats) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.namesLocked()
}

func (f *Formats) namesLocked() []string {
	names := make([]string, 0, len(f.byName))
	for name := range f.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func formatKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
