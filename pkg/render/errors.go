package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formpage/pkg/model"
	"github.com/goliatone/go-formpage/pkg/validation"
)

// ErrorMapping splits a server error payload into field errors, shaped like
// client-side validation output, and form-level messages.
type ErrorMapping struct {
	Fields validation.ErrorMap
	Form   []string
}

// MapErrorPayload ties server error keys to page fields. Keys may be plain
// field names, dotted paths or JSON pointers, optionally wrapped in body,
// data or payload segments; they match field keys case-insensitively.
// Unknown keys become form-level messages so nothing is lost.
func MapErrorPayload(page model.Page, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	labels := make(map[string]model.Field, len(page.Fields))
	for _, field := range page.Fields {
		labels[strings.ToLower(field.PropForValue)] = field
	}

	for rawKey, messages := range payload {
		cleaned := normalizeMessages(messages)
		if len(cleaned) == 0 {
			continue
		}
		field, ok := matchField(rawKey, labels)
		if !ok {
			mapping.Form = append(mapping.Form, cleaned...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(validation.ErrorMap)
		}
		entry := mapping.Fields[field.PropForValue]
		entry.Name = field.Label
		entry.Errors = normalizeMessages(append(entry.Errors, cleaned...))
		mapping.Fields[field.PropForValue] = entry
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MergeFormErrors concatenates form-level messages, trimming blanks and
// dropping duplicates while keeping order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func matchField(raw string, fields map[string]model.Field) (model.Field, bool) {
	if isFormLevelKey(raw) {
		return model.Field{}, false
	}
	for _, segment := range pathSegments(raw) {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		if isWrapper(segment) {
			continue
		}
		field, ok := fields[strings.ToLower(segment)]
		return field, ok
	}
	return model.Field{}, false
}

func pathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.NewReplacer("[", ".", "]", "", "~1", "/", "~0", "~").Replace(clean)
	return strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/' || r == '#' || r == '$'
	})
}

func isWrapper(segment string) bool {
	switch strings.ToLower(segment) {
	case "body", "request", "payload", "data", "result", "errors":
		return true
	default:
		return false
	}
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors", "message":
		return true
	default:
		return false
	}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
