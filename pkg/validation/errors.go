package validation

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formpage/pkg/model"
)

// FieldErrors carries the label of a field and the messages of its failing
// rules.
type FieldErrors struct {
	Name   string   `json:"name"`
	Errors []string `json:"errors"`
}

// ErrorMap groups failing rule messages by field key. A nil map means the
// form is valid.
type ErrorMap map[string]FieldErrors

// Line is one row of the alert panel.
type Line struct {
	Key     string
	Label   string
	Message string
}

// Has reports whether key carries errors. Keys compare case-insensitively.
func (m ErrorMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Get returns the errors recorded for key, matched case-insensitively.
func (m ErrorMap) Get(key string) (FieldErrors, bool) {
	if len(m) == 0 {
		return FieldErrors{}, false
	}
	if entry, ok := m[key]; ok {
		return entry, true
	}
	for candidate, entry := range m {
		if strings.EqualFold(candidate, key) {
			return entry, true
		}
	}
	return FieldErrors{}, false
}

// Keys returns the field keys with errors in sorted order.
func (m ErrorMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Empty reports whether the map holds no errors.
func (m ErrorMap) Empty() bool {
	return len(m) == 0
}

// Clone returns a deep copy of m. The clone of an empty map is nil.
func (m ErrorMap) Clone() ErrorMap {
	if len(m) == 0 {
		return nil
	}
	out := make(ErrorMap, len(m))
	for key, entry := range m {
		out[key] = FieldErrors{Name: entry.Name, Errors: append([]string(nil), entry.Errors...)}
	}
	return out
}

// Lines flattens the map into alert panel rows, ordered by field
// declaration and then by rule order. Entries for keys that no field
// declares follow in key order.
func (m ErrorMap) Lines(fields []model.Field) []Line {
	if len(m) == 0 {
		return nil
	}
	var lines []Line
	seen := make(map[string]struct{}, len(m))
	appendEntry := func(key string, entry FieldErrors) {
		seen[key] = struct{}{}
		for _, message := range entry.Errors {
			lines = append(lines, Line{Key: key, Label: entry.Name, Message: message})
		}
	}
	for _, field := range fields {
		if entry, ok := m[field.PropForValue]; ok {
			appendEntry(field.PropForValue, entry)
		}
	}
	for _, key := range m.Keys() {
		if _, ok := seen[key]; ok {
			continue
		}
		appendEntry(key, m[key])
	}
	return lines
}
