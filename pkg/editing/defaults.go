package editing

import (
	"time"

	"github.com/goliatone/go-formpage/pkg/model"
)

// Initialize builds the editing data for a blank form: exactly one entry per
// field, holding that field's default.
func Initialize(fields []model.Field, now time.Time) Data {
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		values[field.PropForValue] = Default(field, now)
	}
	return Data{values: values}
}

// Replace swaps the editing data for a fetched record. Fields the record does
// not carry are backfilled with their defaults so every field keeps an entry.
// Keys the record carries beyond the declared fields are kept; update
// requests send them back untouched.
func Replace(fetched map[string]any, fields []model.Field, now time.Time) Data {
	values := make(map[string]any, len(fetched)+len(fields))
	for key, value := range fetched {
		values[key] = Normalize(deepCopy(value))
	}
	for _, field := range fields {
		if _, ok := values[field.PropForValue]; !ok {
			values[field.PropForValue] = Default(field, now)
		}
	}
	return Data{values: values}
}

// Default returns the blank value of a field: empty text for free-form
// inputs, today's date for date inputs and the first option for selects.
func Default(field model.Field, now time.Time) any {
	value, err := model.VisitField[any](field, defaults{now: now})
	if err != nil {
		return ""
	}
	return value
}

type defaults struct {
	now time.Time
}

func (defaults) Input(model.Field) any    { return "" }
func (defaults) Password(model.Field) any { return "" }
func (defaults) Email(model.Field) any    { return "" }
func (defaults) Textarea(model.Field) any { return "" }

func (d defaults) Date(model.Field) any {
	return d.now.Format(model.DateLayout)
}

func (defaults) Select(field model.Field) any {
	return Normalize(field.FirstOptionValue())
}
