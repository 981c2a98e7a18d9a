package model

import (
	"fmt"
	"strings"
)

// FieldType enumerates the six input kinds a page can declare.
type FieldType string

const (
	FieldTypeInput    FieldType = "input"
	FieldTypePassword FieldType = "password"
	FieldTypeEmail    FieldType = "email"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeTextarea FieldType = "textarea"
)

// FieldTypes lists every supported field type in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeInput,
		FieldTypePassword,
		FieldTypeEmail,
		FieldTypeDate,
		FieldTypeSelect,
		FieldTypeTextarea,
	}
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	for _, known := range FieldTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// UnmarshalText rejects unknown field types so configuration errors surface
// at load time rather than during rendering.
func (t *FieldType) UnmarshalText(text []byte) error {
	candidate := FieldType(strings.TrimSpace(string(text)))
	if !candidate.Valid() {
		return fmt.Errorf("model: unknown field type %q", string(text))
	}
	*t = candidate
	return nil
}

// DateLayout is the wire and display format used for date values.
const DateLayout = "2006-01-02"

const (
	defaultItemValueKey = "value"
	defaultItemTextKey  = "label"
)

// Option is a single choice offered by a select field.
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// Field describes one form input: its widget kind, label, binding key and
// validation rules. Fields are immutable once loaded.
type Field struct {
	Type             FieldType   `json:"type"`
	Label            string      `json:"label"`
	PropForValue     string      `json:"propForValue"`
	Placeholder      string      `json:"placeholder,omitempty"`
	Description      string      `json:"description,omitempty"`
	Disabled         bool        `json:"disabled,omitempty"`
	Validators       []Validator `json:"validators,omitempty"`
	Values           []Option    `json:"values,omitempty"`
	PropForItemValue string      `json:"propForItemValue,omitempty"`
	PropForItemText  string      `json:"propForItemText,omitempty"`
}

// HasValidators reports whether the field declares at least one rule.
func (f Field) HasValidators() bool {
	return len(f.Validators) > 0
}

// FirstOptionValue returns the value of the first select option, or nil when
// the field carries no options.
func (f Field) FirstOptionValue() any {
	if len(f.Values) == 0 {
		return nil
	}
	return f.Values[0].Value
}

// ItemValueKey returns the key select options read their value from.
func (f Field) ItemValueKey() string {
	if key := strings.TrimSpace(f.PropForItemValue); key != "" {
		return key
	}
	return defaultItemValueKey
}

// ItemTextKey returns the key select options read their label from.
func (f Field) ItemTextKey() string {
	if key := strings.TrimSpace(f.PropForItemText); key != "" {
		return key
	}
	return defaultItemTextKey
}

// Validator pairs a rule with the message shown when it fails.
type Validator struct {
	Rule    Rule
	Message string
}

// PageKind selects which controller flow a page configuration drives.
type PageKind string

const (
	PageKindCreate         PageKind = "create"
	PageKindUpdateProfile  PageKind = "update-profile"
	PageKindUpdateSettings PageKind = "update-settings"
)

// Valid reports whether k is a supported page kind.
func (k PageKind) Valid() bool {
	switch k {
	case PageKindCreate, PageKindUpdateProfile, PageKindUpdateSettings:
		return true
	default:
		return false
	}
}

// UnmarshalText validates page kinds during decoding.
func (k *PageKind) UnmarshalText(text []byte) error {
	candidate := PageKind(strings.TrimSpace(string(text)))
	if !candidate.Valid() {
		return fmt.Errorf("model: unknown page kind %q", string(text))
	}
	*k = candidate
	return nil
}

// Entity names the record type a page edits.
type Entity struct {
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

// API lists the REST endpoints a page talks to. Only the endpoints relevant
// to the page kind need to be set.
type API struct {
	Create     string `json:"create,omitempty" yaml:"create,omitempty"`
	GetByID    string `json:"getById,omitempty" yaml:"getById,omitempty"`
	GetAll     string `json:"getAll,omitempty" yaml:"getAll,omitempty"`
	UpdateByID string `json:"updateById,omitempty" yaml:"updateById,omitempty"`
	Restore    string `json:"restore,omitempty" yaml:"restore,omitempty"`
}

// Page is the complete configuration of one form page.
type Page struct {
	ID     string   `json:"id"`
	Kind   PageKind `json:"kind"`
	Entity Entity   `json:"entity"`
	API    API      `json:"api"`
	Fields []Field  `json:"fields"`
}

// Field returns the descriptor bound to key.
func (p Page) Field(key string) (Field, bool) {
	for _, field := range p.Fields {
		if field.PropForValue == key {
			return field, true
		}
	}
	return Field{}, false
}

// ListPath is the list view a page navigates back to.
func (p Page) ListPath() string {
	return "/quan-ly/" + strings.Trim(p.Entity.Slug, "/")
}
