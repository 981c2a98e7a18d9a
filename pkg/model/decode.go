package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type fieldFile struct {
	Type             FieldType        `json:"type" yaml:"type"`
	Label            string           `json:"label" yaml:"label"`
	PropForValue     string           `json:"propForValue" yaml:"propForValue"`
	Placeholder      string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description      string           `json:"description,omitempty" yaml:"description,omitempty"`
	Disabled         bool             `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Validators       []Validator      `json:"validators,omitempty" yaml:"validators,omitempty"`
	Values           []map[string]any `json:"values,omitempty" yaml:"values,omitempty"`
	PropForItemValue string           `json:"propForItemValue,omitempty" yaml:"propForItemValue,omitempty"`
	PropForItemText  string           `json:"propForItemText,omitempty" yaml:"propForItemText,omitempty"`
}

type validatorFile struct {
	Rule                 RuleName `json:"rule" yaml:"rule"`
	Message              string   `json:"message" yaml:"message"`
	Length               *int     `json:"length,omitempty" yaml:"length,omitempty"`
	Date                 string   `json:"date,omitempty" yaml:"date,omitempty"`
	PropForComparedValue string   `json:"propForComparedValue,omitempty" yaml:"propForComparedValue,omitempty"`
}

type pageFile struct {
	Kind   PageKind `json:"kind" yaml:"kind"`
	Entity Entity   `json:"entity" yaml:"entity"`
	API    API      `json:"api" yaml:"api"`
	Fields []Field  `json:"fields" yaml:"fields"`
}

// UnmarshalJSON decodes the flat field shape, reading select options through
// the configured item keys.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	field, err := raw.build()
	if err != nil {
		return err
	}
	*f = field
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML page files.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	var raw fieldFile
	if err := node.Decode(&raw); err != nil {
		return err
	}
	field, err := raw.build()
	if err != nil {
		return err
	}
	*f = field
	return nil
}

// MarshalJSON writes the field back in its configuration shape.
func (f Field) MarshalJSON() ([]byte, error) {
	raw := fieldFile{
		Type:             f.Type,
		Label:            f.Label,
		PropForValue:     f.PropForValue,
		Placeholder:      f.Placeholder,
		Description:      f.Description,
		Disabled:         f.Disabled,
		Validators:       f.Validators,
		PropForItemValue: f.PropForItemValue,
		PropForItemText:  f.PropForItemText,
	}
	if len(f.Values) > 0 {
		raw.Values = make([]map[string]any, len(f.Values))
		for idx, option := range f.Values {
			raw.Values[idx] = map[string]any{
				f.ItemValueKey(): option.Value,
				f.ItemTextKey():  option.Label,
			}
		}
	}
	return json.Marshal(raw)
}

func (raw fieldFile) build() (Field, error) {
	if !raw.Type.Valid() {
		return Field{}, fmt.Errorf("model: field %q: missing or unknown type %q", raw.PropForValue, raw.Type)
	}
	field := Field{
		Type:             raw.Type,
		Label:            strings.TrimSpace(raw.Label),
		PropForValue:     strings.TrimSpace(raw.PropForValue),
		Placeholder:      raw.Placeholder,
		Description:      raw.Description,
		Disabled:         raw.Disabled,
		Validators:       raw.Validators,
		PropForItemValue: strings.TrimSpace(raw.PropForItemValue),
		PropForItemText:  strings.TrimSpace(raw.PropForItemText),
	}
	if len(raw.Values) > 0 {
		valueKey, textKey := field.ItemValueKey(), field.ItemTextKey()
		field.Values = make([]Option, 0, len(raw.Values))
		for idx, item := range raw.Values {
			value, ok := item[valueKey]
			if !ok {
				return Field{}, fmt.Errorf("model: field %q option %d has no %q key", field.PropForValue, idx, valueKey)
			}
			label := fmt.Sprint(value)
			if text, ok := item[textKey]; ok && text != nil {
				label = fmt.Sprint(text)
			}
			field.Values = append(field.Values, Option{Value: value, Label: label})
		}
	}
	return field, nil
}

// UnmarshalJSON decodes the flat validator shape into the matching rule
// variant.
func (v *Validator) UnmarshalJSON(data []byte) error {
	var raw validatorFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return v.assign(raw)
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML page files.
func (v *Validator) UnmarshalYAML(node *yaml.Node) error {
	var raw validatorFile
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return v.assign(raw)
}

// MarshalJSON flattens the rule parameters next to the rule name.
func (v Validator) MarshalJSON() ([]byte, error) {
	if v.Rule == nil {
		return nil, fmt.Errorf("model: validator has no rule")
	}
	raw := validatorFile{Rule: v.Rule.Name(), Message: v.Message}
	switch rule := v.Rule.(type) {
	case MinLength:
		length := rule.Length
		raw.Length = &length
	case IsBefore:
		raw.Date = rule.Date
	case IsEqual:
		raw.PropForComparedValue = rule.PropForComparedValue
	}
	return json.Marshal(raw)
}

func (v *Validator) assign(raw validatorFile) error {
	rule, err := parseRule(raw.Rule, raw)
	if err != nil {
		return err
	}
	v.Rule = rule
	v.Message = raw.Message
	return nil
}

// parseRule builds the rule variant named by name from its flat parameters.
func parseRule(name RuleName, params validatorFile) (Rule, error) {
	switch RuleName(strings.TrimSpace(string(name))) {
	case RuleNotEmpty:
		return NotEmpty{}, nil
	case RuleMinLength:
		if params.Length == nil {
			return nil, fmt.Errorf("model: rule %q requires length", name)
		}
		return MinLength{Length: *params.Length}, nil
	case RuleIsBefore:
		if strings.TrimSpace(params.Date) == "" {
			return nil, fmt.Errorf("model: rule %q requires date", name)
		}
		return IsBefore{Date: strings.TrimSpace(params.Date)}, nil
	case RuleIsNumeric:
		return IsNumeric{}, nil
	case RuleIsPhoneNumber:
		return IsPhoneNumber{}, nil
	case RuleIsEmail:
		return IsEmail{}, nil
	case RuleIsEqual:
		if strings.TrimSpace(params.PropForComparedValue) == "" {
			return nil, fmt.Errorf("model: rule %q requires propForComparedValue", name)
		}
		return IsEqual{PropForComparedValue: strings.TrimSpace(params.PropForComparedValue)}, nil
	case "":
		return nil, fmt.Errorf("model: validator is missing its rule")
	}
	return nil, fmt.Errorf("model: unknown rule %q", name)
}

// DecodePage decodes one page configuration from JSON or YAML. The id is
// supplied by the caller since page files key pages by id.
func DecodePage(id string, data []byte) (Page, error) {
	var raw pageFile
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = pageFile{}
		if yamlErr := yaml.Unmarshal(data, &raw); yamlErr != nil {
			return Page{}, fmt.Errorf("model: decode page %q: %w", id, yamlErr)
		}
	}
	return raw.page(id), nil
}

// UnmarshalYAML decodes a page body. The id is assigned by the loader.
func (p *Page) UnmarshalYAML(node *yaml.Node) error {
	var raw pageFile
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*p = raw.page(p.ID)
	return nil
}

func (raw pageFile) page(id string) Page {
	return Page{
		ID:     id,
		Kind:   raw.Kind,
		Entity: raw.Entity,
		API:    raw.API,
		Fields: raw.Fields,
	}
}
