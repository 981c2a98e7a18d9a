package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formpage/pkg/model"
)

// Built-in component names the registry resolves to.
const (
	ComponentInput    = "input"
	ComponentSelect   = "select"
	ComponentTextarea = "textarea"
)

// Matcher decides whether a component should render the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry picks the component a renderer uses for each field. Higher
// priority wins; ties fall back to registration order.
type Registry struct {
	mu        sync.RWMutex
	rules     []rule
	overrides map[string]string
}

// NewRegistry constructs a registry with the built-in components registered.
func NewRegistry() *Registry {
	reg := &Registry{overrides: make(map[string]string)}
	reg.registerBuiltins()
	return reg
}

// Register adds a component matcher. Blank names and nil matchers are
// ignored.
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

// Override pins the component used for one field key regardless of matchers.
func (r *Registry) Override(key, component string) {
	if r == nil {
		return
	}
	key, component = strings.TrimSpace(key), strings.TrimSpace(component)
	if key == "" || component == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overrides == nil {
		r.overrides = make(map[string]string)
	}
	r.overrides[key] = component
}

// Resolve returns the component name for a field.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if name, ok := r.overrides[field.PropForValue]; ok {
		r.mu.RUnlock()
		return name, true
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	if len(rules) == 0 {
		return "", false
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Assign stamps each widget with the component resolved for its field.
func (r *Registry) Assign(fields []model.Field, widgets []Widget) []Widget {
	out := make([]Widget, len(widgets))
	copy(out, widgets)
	for idx := range out {
		if idx >= len(fields) {
			break
		}
		if name, ok := r.Resolve(fields[idx]); ok {
			out[idx].Component = name
		}
	}
	return out
}

func (r *Registry) registerBuiltins() {
	r.Register(ComponentSelect, 70, func(field model.Field) bool {
		return field.Type == model.FieldTypeSelect
	})
	r.Register(ComponentTextarea, 60, func(field model.Field) bool {
		return field.Type == model.FieldTypeTextarea
	})
	r.Register(ComponentInput, 10, func(field model.Field) bool {
		return field.Type.Valid()
	})
}
