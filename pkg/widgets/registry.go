package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/render"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText     = "text"
	WidgetPrice    = "price"
	WidgetSelect   = "select"
	WidgetTextarea = "textarea"
)

// Matcher decides whether a widget should draw the supplied control.
type Matcher func(ctrl render.Control) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for controls based on registered matchers. Higher
// priority wins; on a tie the latest registration wins, so callers can
// override a builtin at its own priority. An empty registry never resolves a
// widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a control.
func (r *Registry) Resolve(ctrl render.Control) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order > rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(ctrl) {
			return entry.name, true
		}
	}
	return "", false
}

// ResolveOr returns the resolved widget or fallback.
func (r *Registry) ResolveOr(ctrl render.Control, fallback string) string {
	if name, ok := r.Resolve(ctrl); ok {
		return name
	}
	return fallback
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetPrice, 90, func(ctrl render.Control) bool {
		return ctrl.Text != nil && ctrl.Text.InputType == "number"
	})

	r.Register(WidgetSelect, 70, func(ctrl render.Control) bool {
		return ctrl.Kind == model.KindSelect && ctrl.Select != nil
	})

	r.Register(WidgetTextarea, 60, func(ctrl render.Control) bool {
		return ctrl.Kind == model.KindMultilineText && ctrl.Multiline != nil
	})

	r.Register(WidgetText, 0, func(render.Control) bool {
		return true
	})
}
