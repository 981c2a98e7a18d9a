package components

import "github.com/goliatone/go-formpage/pkg/widgets"

// Canonical component names, shared with the widget registry.
const (
	NameInput    = widgets.ComponentInput
	NameSelect   = widgets.ComponentSelect
	NameTextarea = widgets.ComponentTextarea
)
