// Package model defines the declarative page configuration consumed by the
// editing store, the validation engine, the widget layer and the page
// controller. Field kinds and validation rules are closed sets: FieldType is
// dispatched through FieldVisitor and Rule through RuleVisitor, so a new
// variant forces every consumer to handle it.
//
// Descriptors decode from the flat JSON/YAML shape used by page files:
//
//	{"type": "input", "label": "Tên", "propForValue": "ten",
//	 "validators": [{"rule": "minLength", "length": 3, "message": "..."}]}
package model
