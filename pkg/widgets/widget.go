package widgets

import (
	"strings"

	"github.com/goliatone/go-formpage/pkg/editing"
	"github.com/goliatone/go-formpage/pkg/model"
)

// Variant identifies the widget a field renders as.
type Variant string

const (
	VariantText     Variant = "text"
	VariantPassword Variant = "password"
	VariantEmail    Variant = "email"
	VariantDate     Variant = "date"
	VariantSelect   Variant = "select"
	VariantTextarea Variant = "textarea"
)

// CSS classes reflecting the visual state of a widget.
const (
	ClassDisabled = "form-input-disabled"
	ClassAlert    = "form-input-alert"
	ClassOutline  = "form-input-outline"
)

// Handlers receives widget events. OnChange gets the new value and the
// field key; OnFocus fires when the user enters the widget.
type Handlers struct {
	OnChange func(value any, key string)
	OnFocus  func()
}

// Choice is one option of a select widget.
type Choice struct {
	Value    any
	Text     string
	Label    string
	Selected bool
}

// Widget is the render-ready view of one field bound to its current value.
type Widget struct {
	Variant     Variant
	InputType   string
	Name        string
	Label       string
	Placeholder string
	Description string
	Value       string
	Raw         any
	Disabled    bool
	Invalid     bool
	Choices     []Choice
	Component   string

	disabledClass bool
	handlers      Handlers
}

// Render maps a field and its current value onto a widget wired to handlers.
func Render(field model.Field, current any, handlers Handlers) Widget {
	w, err := model.VisitField[Widget](field, builder{current: current})
	if err != nil {
		w = builder{current: current}.Input(field)
	}
	w.handlers = handlers
	return w
}

// RenderAll renders every field against data, flagging the fields that carry
// errors in invalid.
func RenderAll(fields []model.Field, data editing.Data, invalid func(key string) bool, handlers Handlers) []Widget {
	out := make([]Widget, 0, len(fields))
	for _, field := range fields {
		w := Render(field, data.Value(field.PropForValue), handlers)
		if invalid != nil {
			w.Invalid = invalid(field.PropForValue)
		}
		out = append(out, w)
	}
	return out
}

// Change forwards a user edit. Disabled widgets ignore it.
func (w Widget) Change(value any) {
	if w.Disabled || w.handlers.OnChange == nil {
		return
	}
	w.handlers.OnChange(value, w.Name)
}

// Focus forwards a focus event. Disabled widgets ignore it.
func (w Widget) Focus() {
	if w.Disabled || w.handlers.OnFocus == nil {
		return
	}
	w.handlers.OnFocus()
}

// Class returns the state class of the widget. Date, select and textarea
// widgets never use the disabled class.
func (w Widget) Class() string {
	switch {
	case w.Disabled && w.disabledClass:
		return ClassDisabled
	case w.Invalid:
		return ClassAlert
	default:
		return ClassOutline
	}
}

// Selected returns the choice matching the current value, or nil when none
// matches.
func (w Widget) Selected() *Choice {
	for idx := range w.Choices {
		if w.Choices[idx].Selected {
			choice := w.Choices[idx]
			return &choice
		}
	}
	return nil
}

type builder struct {
	current any
}

func (b builder) base(field model.Field, variant Variant, inputType string) Widget {
	return Widget{
		Variant:     variant,
		InputType:   inputType,
		Name:        field.PropForValue,
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Description: field.Description,
		Value:       editing.Text(b.current),
		Raw:         b.current,
		Disabled:    field.Disabled,
	}
}

func (b builder) Input(field model.Field) Widget {
	w := b.base(field, VariantText, "text")
	w.disabledClass = true
	return w
}

func (b builder) Password(field model.Field) Widget {
	w := b.base(field, VariantPassword, "password")
	w.disabledClass = true
	return w
}

func (b builder) Email(field model.Field) Widget {
	w := b.base(field, VariantEmail, "email")
	w.disabledClass = true
	return w
}

func (b builder) Date(field model.Field) Widget {
	w := b.base(field, VariantDate, "date")
	w.Value = dateValue(w.Value)
	return w
}

func (b builder) Textarea(field model.Field) Widget {
	return b.base(field, VariantTextarea, "")
}

func (b builder) Select(field model.Field) Widget {
	w := b.base(field, VariantSelect, "")
	current := editing.Text(b.current)
	hasCurrent := b.current != nil
	w.Choices = make([]Choice, 0, len(field.Values))
	for _, option := range field.Values {
		text := editing.Text(option.Value)
		w.Choices = append(w.Choices, Choice{
			Value:    option.Value,
			Text:     text,
			Label:    option.Label,
			Selected: hasCurrent && text == current,
		})
	}
	return w
}

func dateValue(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > len(model.DateLayout) && text[len(model.DateLayout)] == 'T' {
		return text[:len(model.DateLayout)]
	}
	return text
}
