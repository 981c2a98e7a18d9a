package model

import "fmt"

// FieldVisitor handles each field type once. Implementations that miss a
// variant fail to compile, which is the point: defaults, widgets and
// terminal prompts all stay in step with FieldTypes.
type FieldVisitor[T any] interface {
	Input(Field) T
	Password(Field) T
	Email(Field) T
	Date(Field) T
	Select(Field) T
	Textarea(Field) T
}

// VisitField dispatches field to the visitor method matching its type.
// Fields decoded through this package always carry a valid type; a zero or
// hand-built unknown type returns an error.
func VisitField[T any](field Field, visitor FieldVisitor[T]) (T, error) {
	switch field.Type {
	case FieldTypeInput:
		return visitor.Input(field), nil
	case FieldTypePassword:
		return visitor.Password(field), nil
	case FieldTypeEmail:
		return visitor.Email(field), nil
	case FieldTypeDate:
		return visitor.Date(field), nil
	case FieldTypeSelect:
		return visitor.Select(field), nil
	case FieldTypeTextarea:
		return visitor.Textarea(field), nil
	}
	var zero T
	return zero, fmt.Errorf("model: field %q has unsupported type %q", field.PropForValue, field.Type)
}
