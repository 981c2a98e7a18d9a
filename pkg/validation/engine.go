package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formpage/pkg/editing"
	"github.com/goliatone/go-formpage/pkg/model"
)

const (
	tagPhone   = "vnphone"
	tagDigits  = "numericstr"
	tagDate    = "datetime=" + model.DateLayout
	tagEmail   = "email"
	tagPresent = "required"
)

// DefaultPhonePattern matches Vietnamese mobile numbers: a 0 or +84 prefix,
// a carrier prefix and seven digits. Legacy eleven digit 01x numbers are
// still accepted.
var DefaultPhonePattern = regexp.MustCompile(`^(?:0|\+84)(?:(?:3[2-9]|5[25689]|7[06-9]|8[1-9]|9[0-9])[0-9]{7}|1[2689][0-9]{8})$`)

// Engine evaluates field rules against editing data. It is safe for
// concurrent use.
type Engine struct {
	validate *validator.Validate
	phone    *regexp.Regexp
}

// Option customises an Engine.
type Option func(*Engine)

// WithPhonePattern replaces the phone number shape accepted by isPhoneNumber.
func WithPhonePattern(pattern *regexp.Regexp) Option {
	return func(e *Engine) {
		if pattern != nil {
			e.phone = pattern
		}
	}
}

// New constructs an Engine backed by a go-playground validator with the
// phone and digit-string checks registered.
func New(options ...Option) *Engine {
	engine := &Engine{
		validate: validator.New(),
		phone:    DefaultPhonePattern,
	}
	for _, opt := range options {
		if opt != nil {
			opt(engine)
		}
	}

	phone := engine.phone
	must(engine.validate.RegisterValidation(tagPhone, func(fl validator.FieldLevel) bool {
		return phone.MatchString(stripPhoneSeparators(fl.Field().String()))
	}))
	must(engine.validate.RegisterValidation(tagDigits, func(fl validator.FieldLevel) bool {
		return isDigits(fl.Field().String())
	}))
	return engine
}

var defaultEngine = sync.OnceValue(func() *Engine { return New() })

// Default returns the shared engine used by the package level helpers.
func Default() *Engine {
	return defaultEngine()
}

// ValidateAll runs every rule of every field using the shared engine.
func ValidateAll(fields []model.Field, data editing.Data) ErrorMap {
	return Default().ValidateAll(fields, data)
}

// ValidateField runs one field's rules using the shared engine.
func ValidateField(field model.Field, data editing.Data) []string {
	return Default().ValidateField(field, data)
}

// ValidateAll evaluates every rule of every field that declares validators.
// It returns nil when nothing fails; otherwise the map holds exactly the
// fields with at least one failing rule.
func (e *Engine) ValidateAll(fields []model.Field, data editing.Data) ErrorMap {
	var errs ErrorMap
	for _, field := range fields {
		if !field.HasValidators() {
			continue
		}
		messages := e.ValidateField(field, data)
		if len(messages) == 0 {
			continue
		}
		if errs == nil {
			errs = make(ErrorMap)
		}
		errs[field.PropForValue] = FieldErrors{Name: field.Label, Errors: messages}
	}
	return errs
}

// ValidateField returns the messages of every failing rule of field, in the
// order the rules are declared. Later rules run even when an earlier one
// fails.
func (e *Engine) ValidateField(field model.Field, data editing.Data) []string {
	if !field.HasValidators() {
		return nil
	}
	check := ruleCheck{engine: e, text: data.Text(field.PropForValue), data: data}
	var messages []string
	for _, v := range field.Validators {
		if v.Rule == nil || v.Rule.Accept(check) {
			continue
		}
		messages = append(messages, v.Message)
	}
	return messages
}

// ruleCheck evaluates each rule variant against the text form of the field
// value.
type ruleCheck struct {
	engine *Engine
	text   string
	data   editing.Data
}

func (c ruleCheck) is(value any, tag string) bool {
	return c.engine.validate.Var(value, tag) == nil
}

func (c ruleCheck) NotEmpty(model.NotEmpty) bool {
	return c.is(strings.TrimSpace(c.text), tagPresent)
}

func (c ruleCheck) MinLength(rule model.MinLength) bool {
	if rule.Length <= 0 {
		return true
	}
	return c.is(c.text, fmt.Sprintf("min=%d", rule.Length))
}

func (c ruleCheck) IsBefore(rule model.IsBefore) bool {
	value := dateOnly(c.text)
	if !c.is(value, tagDate) {
		return false
	}
	limit, err := time.Parse(model.DateLayout, dateOnly(rule.Date))
	if err != nil {
		return false
	}
	parsed, _ := time.Parse(model.DateLayout, value)
	return parsed.Before(limit)
}

func (c ruleCheck) IsNumeric(model.IsNumeric) bool {
	return c.is(c.text, tagDigits)
}

func (c ruleCheck) IsPhoneNumber(model.IsPhoneNumber) bool {
	return c.is(c.text, tagPhone)
}

func (c ruleCheck) IsEmail(model.IsEmail) bool {
	return c.is(c.text, tagEmail)
}

func (c ruleCheck) IsEqual(rule model.IsEqual) bool {
	return c.text == c.data.Text(rule.PropForComparedValue)
}

// dateOnly keeps the calendar part of an ISO timestamp so records fetched
// with a time component still compare as dates.
func dateOnly(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > len(model.DateLayout) && text[len(model.DateLayout)] == 'T' {
		return text[:len(model.DateLayout)]
	}
	return text
}

func isDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func stripPhoneSeparators(text string) string {
	return strings.NewReplacer(" ", "", ".", "", "-", "").Replace(strings.TrimSpace(text))
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("validation: register rule: %v", err))
	}
}
