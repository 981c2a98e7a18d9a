package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formpage/pkg/editing"
)

// MethodOverrideField is the hidden input carrying verbs HTML forms cannot
// send natively.
const MethodOverrideField = "_method"

// HiddenField is a hidden form input emitted alongside the visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: editing.Text(value)}
}

// CSRFToken carries a request forgery token under name (e.g. "_csrf").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// RecordID carries the id of the record an update page edits.
func RecordID(name string, id any) HiddenField {
	return Hidden(name, id)
}

// MergeHiddenFields returns a copy of base with fields applied. Blank names
// are ignored; later fields win on collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders hidden fields by name for deterministic output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	out := make([]HiddenField, 0, len(fields))
	for name, value := range fields {
		if key := strings.TrimSpace(name); key != "" {
			out = append(out, HiddenField{Name: key, Value: value})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
