package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formpage/pkg/editing"
	"github.com/goliatone/go-formpage/pkg/model"
	"github.com/goliatone/go-formpage/pkg/notify"
	"github.com/goliatone/go-formpage/pkg/validation"
)

// RenderOptions carry the per-request view state of a page. Renderers never
// mutate them.
type RenderOptions struct {
	// Values binds each widget to its current editing value.
	Values editing.Data
	// Errors drives the invalid outline of each widget. The alert panel
	// lists them only while ShowAlert is set.
	Errors validation.ErrorMap
	// FormErrors holds server messages that could not be tied to a field.
	// They are only populated when server error surfacing is enabled.
	FormErrors []string
	ShowAlert  bool
	// Loading marks a fetch or write in flight.
	Loading      bool
	Notification *notify.Message
	// Hidden inputs emitted inside the form, e.g. a CSRF token.
	Hidden map[string]string
	// Method is the HTTP verb the page writes with. Browser forms only speak
	// GET and POST, so other verbs travel as a _method hidden input.
	Method string
	// Action is the form target; empty posts back to the current URL.
	Action string
	// RestoreAction is the target of the restore button on settings pages.
	RestoreAction string
	Theme  *theme.RendererConfig
}

// AlertLines returns the alert panel rows, or nil when the panel is hidden.
func (o RenderOptions) AlertLines(fields []model.Field) []validation.Line {
	if !o.ShowAlert {
		return nil
	}
	return o.Errors.Lines(fields)
}
