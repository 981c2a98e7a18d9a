package pageconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formpage/pkg/model"
)

// Validate checks the invariants a page must satisfy before a controller
// can drive it. All problems are reported together.
func Validate(page model.Page) error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if !page.Kind.Valid() {
		add("page %q: unknown kind %q", page.ID, page.Kind)
	}
	if strings.TrimSpace(page.Entity.Name) == "" {
		add("page %q: entity name is required", page.ID)
	}
	for _, endpoint := range requiredEndpoints(page) {
		if strings.TrimSpace(endpoint.value) == "" {
			add("page %q: api.%s is required for %s pages", page.ID, endpoint.name, page.Kind)
		}
	}
	if len(page.Fields) == 0 {
		add("page %q: at least one field is required", page.ID)
	}

	keys := make(map[string]struct{}, len(page.Fields))
	for idx, field := range page.Fields {
		key := strings.TrimSpace(field.PropForValue)
		if key == "" {
			add("page %q: field %d has no propForValue", page.ID, idx)
			continue
		}
		if _, dup := keys[key]; dup {
			add("page %q: duplicate field %q", page.ID, key)
		}
		keys[key] = struct{}{}
		if field.Type == model.FieldTypeSelect && len(field.Values) == 0 {
			add("page %q: select field %q has no values", page.ID, key)
		}
	}

	for _, field := range page.Fields {
		for _, v := range field.Validators {
			switch rule := v.Rule.(type) {
			case nil:
				add("page %q: field %q has a validator without a rule", page.ID, field.PropForValue)
			case model.MinLength:
				if rule.Length <= 0 {
					add("page %q: field %q minLength must be positive", page.ID, field.PropForValue)
				}
			case model.IsBefore:
				if _, err := time.Parse(model.DateLayout, rule.Date); err != nil {
					add("page %q: field %q isBefore date %q is not YYYY-MM-DD", page.ID, field.PropForValue, rule.Date)
				}
			case model.IsEqual:
				if _, ok := keys[rule.PropForComparedValue]; !ok {
					add("page %q: field %q compares against unknown field %q", page.ID, field.PropForValue, rule.PropForComparedValue)
				}
			}
		}
	}

	return errors.Join(problems...)
}

type endpoint struct {
	name  string
	value string
}

func requiredEndpoints(page model.Page) []endpoint {
	switch page.Kind {
	case model.PageKindCreate:
		return []endpoint{{"create", page.API.Create}}
	case model.PageKindUpdateProfile:
		return []endpoint{{"getById", page.API.GetByID}, {"updateById", page.API.UpdateByID}}
	case model.PageKindUpdateSettings:
		return []endpoint{{"getAll", page.API.GetAll}, {"updateById", page.API.UpdateByID}, {"restore", page.API.Restore}}
	default:
		return nil
	}
}
