package vanilla

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-formpage/pkg/render/template"
	"github.com/goliatone/go-formpage/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formpage/pkg/widgets"
)

// componentRenderer renders the form groups of one page and remembers which
// components it used.
type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string

	used []string
	seen map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates: templates,
		registry:  registry,
		partials:  partials,
		seen:      make(map[string]struct{}),
	}
}

func (r *componentRenderer) render(widget widgets.Widget) (map[string]any, error) {
	name := widget.Component
	if name == "" {
		name = components.NameInput
	}
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return nil, fmt.Errorf("component %q not registered for field %q", name, widget.Name)
	}

	var control bytes.Buffer
	data := components.ComponentData{Template: r.templates, Partials: r.partials}
	if err := descriptor.Renderer(&control, widget, data); err != nil {
		return nil, fmt.Errorf("render component %q for field %q: %w", name, widget.Name, err)
	}

	if _, ok := r.seen[name]; !ok {
		r.seen[name] = struct{}{}
		r.used = append(r.used, name)
	}

	return map[string]any{
		"id":          components.ControlID(widget.Name),
		"name":        widget.Name,
		"label":       widget.Label,
		"component":   name,
		"control":     control.String(),
		"description": sanitizeDescription(widget.Description),
	}, nil
}
