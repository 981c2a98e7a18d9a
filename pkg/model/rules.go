package model

// RuleName is the configuration identifier of a validation rule.
type RuleName string

const (
	RuleNotEmpty      RuleName = "notEmpty"
	RuleMinLength     RuleName = "minLength"
	RuleIsBefore      RuleName = "isBefore"
	RuleIsNumeric     RuleName = "isNumeric"
	RuleIsPhoneNumber RuleName = "isPhoneNumber"
	RuleIsEmail       RuleName = "isEmail"
	RuleIsEqual       RuleName = "isEqual"
)

// Rule is a closed set of validation rules. Each variant carries only the
// parameters it needs; consumers dispatch through RuleVisitor so adding a
// variant breaks every implementation until it handles the new case.
type Rule interface {
	Name() RuleName
	Accept(v RuleVisitor) bool
	sealed()
}

// RuleVisitor evaluates one rule variant and reports whether it passed.
type RuleVisitor interface {
	NotEmpty(NotEmpty) bool
	MinLength(MinLength) bool
	IsBefore(IsBefore) bool
	IsNumeric(IsNumeric) bool
	IsPhoneNumber(IsPhoneNumber) bool
	IsEmail(IsEmail) bool
	IsEqual(IsEqual) bool
}

// NotEmpty requires a non-blank value.
type NotEmpty struct{}

// MinLength requires at least Length characters.
type MinLength struct {
	Length int
}

// IsBefore requires a date strictly earlier than Date (YYYY-MM-DD).
type IsBefore struct {
	Date string
}

// IsNumeric requires the value to be made of digits only.
type IsNumeric struct{}

// IsPhoneNumber requires a phone-number shaped value.
type IsPhoneNumber struct{}

// IsEmail requires an email address shaped value.
type IsEmail struct{}

// IsEqual requires the value to equal another field's value.
type IsEqual struct {
	PropForComparedValue string
}

func (NotEmpty) Name() RuleName      { return RuleNotEmpty }
func (MinLength) Name() RuleName     { return RuleMinLength }
func (IsBefore) Name() RuleName      { return RuleIsBefore }
func (IsNumeric) Name() RuleName     { return RuleIsNumeric }
func (IsPhoneNumber) Name() RuleName { return RuleIsPhoneNumber }
func (IsEmail) Name() RuleName       { return RuleIsEmail }
func (IsEqual) Name() RuleName       { return RuleIsEqual }

func (r NotEmpty) Accept(v RuleVisitor) bool      { return v.NotEmpty(r) }
func (r MinLength) Accept(v RuleVisitor) bool     { return v.MinLength(r) }
func (r IsBefore) Accept(v RuleVisitor) bool      { return v.IsBefore(r) }
func (r IsNumeric) Accept(v RuleVisitor) bool     { return v.IsNumeric(r) }
func (r IsPhoneNumber) Accept(v RuleVisitor) bool { return v.IsPhoneNumber(r) }
func (r IsEmail) Accept(v RuleVisitor) bool       { return v.IsEmail(r) }
func (r IsEqual) Accept(v RuleVisitor) bool       { return v.IsEqual(r) }

func (NotEmpty) sealed()      {}
func (MinLength) sealed()     {}
func (IsBefore) sealed()      {}
func (IsNumeric) sealed()     {}
func (IsPhoneNumber) sealed() {}
func (IsEmail) sealed()       {}
func (IsEqual) sealed()       {}
