package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-formpage/pkg/render"
	"github.com/goliatone/go-formpage/pkg/widgets"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry returns a registry with the input, select and textarea
// components.
func NewDefaultRegistry() *Registry {
	registry := New()
	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer(render.PartialInput, templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer(render.PartialSelect, templatePrefix+"select.tmpl"),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer(render.PartialTextarea, templatePrefix+"textarea.tmpl"),
	})
	return registry
}

// ControlID is the DOM id of the control rendered for a field key.
func ControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "fp-" + trimmed
}

// View flattens a widget into the values component templates read.
func View(widget widgets.Widget) map[string]any {
	choices := make([]map[string]any, 0, len(widget.Choices))
	for _, choice := range widget.Choices {
		choices = append(choices, map[string]any{
			"value":    choice.Text,
			"label":    choice.Label,
			"selected": choice.Selected,
		})
	}
	return map[string]any{
		"id":          ControlID(widget.Name),
		"name":        widget.Name,
		"type":        widget.InputType,
		"variant":     string(widget.Variant),
		"label":       widget.Label,
		"placeholder": widget.Placeholder,
		"value":       widget.Value,
		"disabled":    widget.Disabled,
		"invalid":     widget.Invalid,
		"class":       widget.Class(),
		"choices":     choices,
	}
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, widget widgets.Widget, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolved := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			resolved = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolved, map[string]any{"widget": View(widget)})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
