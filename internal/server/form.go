package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/form"

	"github.com/goliatone/go-formpage/pkg/editing"
	"github.com/goliatone/go-formpage/pkg/model"
	"github.com/goliatone/go-formpage/pkg/render"
)

var decoder = form.NewDecoder()

// submission is the fixed part of a posted page form. Field values are
// keyed by the page configuration and read separately.
type submission struct {
	Method string `form:"_method"`
}

func decodeSubmission(r *http.Request) (submission, error) {
	var sub submission
	if err := r.ParseForm(); err != nil {
		return sub, err
	}
	if err := decoder.Decode(&sub, r.PostForm); err != nil {
		return sub, err
	}
	sub.Method = strings.ToUpper(strings.TrimSpace(sub.Method))
	return sub, nil
}

// matches reports whether the verb the form carries is the one page
// writes with.
func (s submission) matches(page model.Page) bool {
	_, want := render.FormMethod(render.MethodFor(page))
	return s.Method == want
}

// overlay copies posted values of enabled fields onto base. Disabled
// fields keep their server-side value.
func overlay(page model.Page, base map[string]any, posted url.Values) map[string]any {
	out := make(map[string]any, len(base)+len(page.Fields))
	for key, value := range base {
		out[key] = value
	}
	for _, field := range page.Fields {
		if field.Disabled {
			continue
		}
		values, ok := posted[field.PropForValue]
		if !ok || len(values) == 0 {
			continue
		}
		out[field.PropForValue] = fieldValue(field, values[0])
	}
	return out
}

// fieldValue maps posted text back onto the typed option value of select
// fields. Other fields keep the text.
func fieldValue(field model.Field, raw string) any {
	if field.Type != model.FieldTypeSelect {
		return raw
	}
	for _, option := range field.Values {
		if editing.Text(option.Value) == raw {
			return editing.Normalize(option.Value)
		}
	}
	return raw
}
