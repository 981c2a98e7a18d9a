package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formpage/pkg/editing"
	"github.com/goliatone/go-formpage/pkg/model"
	"github.com/goliatone/go-formpage/pkg/render"
	"github.com/goliatone/go-formpage/pkg/validation"
	"github.com/goliatone/go-formpage/pkg/widgets"
)

// Renderer implements render.Renderer for terminal sessions. Every enabled
// widget becomes a prompt; answers flow back through the widget handlers.
type Renderer struct {
	driver           PromptDriver
	outputFormat     OutputFormat
	inlineValidation bool
	theme            Theme
	validator        *validation.Engine
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:           NewSurveyDriver(),
		outputFormat:     OutputFormatJSON,
		inlineValidation: true,
		theme:            Theme{TitlePrefix: "==", AlertPrefix: "!", InfoPrefix: "-"},
		validator:        validation.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prints the page header and alert panel, prompts every field and
// returns the collected editing data in the configured format.
func (r *Renderer) Render(ctx context.Context, page model.Page, opts render.RenderOptions) ([]byte, error) {
	data := opts.Values
	handlers := widgets.Handlers{
		OnChange: func(value any, key string) {
			data = data.With(key, value)
		},
	}
	if err := r.Fill(ctx, page, opts, func() editing.Data { return data }, handlers); err != nil {
		return nil, err
	}
	return r.serialize(data)
}

// Fill prints the page chrome, then prompts each enabled widget in field
// order. current returns the editing data as it stands, so answers given
// earlier in the session are visible to later prompts and rules.
func (r *Renderer) Fill(ctx context.Context, page model.Page, opts render.RenderOptions, current func() editing.Data, handlers widgets.Handlers) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if current == nil {
		values := opts.Values
		current = func() editing.Data { return values }
	}

	if err := r.Header(ctx, page, opts); err != nil {
		return err
	}

	for _, field := range page.Fields {
		widget := widgets.Render(field, current().Value(field.PropForValue), handlers)
		widget.Invalid = opts.Errors.Has(field.PropForValue)
		if widget.Disabled {
			if err := r.info(ctx, r.theme.InfoPrefix, fmt.Sprintf("%s: %s", widget.Label, widget.Value)); err != nil {
				return err
			}
			continue
		}
		if err := r.promptWidget(ctx, field, widget, current); err != nil {
			return err
		}
	}
	return nil
}

// Header prints the section title, the notification and the alert panel.
func (r *Renderer) Header(ctx context.Context, page model.Page, opts render.RenderOptions) error {
	section := render.SectionFor(page)
	crumbs := make([]string, 0, len(section.Breadcrumbs))
	for _, crumb := range section.Breadcrumbs {
		crumbs = append(crumbs, crumb.Label)
	}
	if err := r.info(ctx, "", strings.Join(crumbs, " / ")); err != nil {
		return err
	}
	if err := r.info(ctx, r.theme.TitlePrefix, section.Title); err != nil {
		return err
	}
	if err := r.info(ctx, "", section.Subtitle); err != nil {
		return err
	}
	if opts.Notification != nil && opts.Notification.Text != "" {
		if err := r.info(ctx, r.theme.InfoPrefix, opts.Notification.Text); err != nil {
			return err
		}
	}
	return r.Alert(ctx, page, opts)
}

// Alert prints one line per failing rule while the alert panel is shown.
func (r *Renderer) Alert(ctx context.Context, page model.Page, opts render.RenderOptions) error {
	for _, line := range opts.AlertLines(page.Fields) {
		if err := r.info(ctx, r.theme.AlertPrefix, fmt.Sprintf("%s: %s", line.Label, line.Message)); err != nil {
			return err
		}
	}
	for _, message := range opts.FormErrors {
		if err := r.info(ctx, r.theme.AlertPrefix, message); err != nil {
			return err
		}
	}
	return nil
}

// Confirm asks a yes/no question through the driver.
func (r *Renderer) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	return r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def})
}

func (r *Renderer) promptWidget(ctx context.Context, field model.Field, widget widgets.Widget, current func() editing.Data) error {
	for {
		value, err := r.ask(ctx, widget)
		if err != nil {
			return err
		}
		if r.inlineValidation {
			messages := r.validator.ValidateField(field, current().With(field.PropForValue, value))
			if len(messages) > 0 {
				for _, message := range messages {
					if err := r.info(ctx, r.theme.AlertPrefix, fmt.Sprintf("%s: %s", widget.Label, message)); err != nil {
						return err
					}
				}
				continue
			}
		}
		widget.Focus()
		widget.Change(value)
		return nil
	}
}

func (r *Renderer) ask(ctx context.Context, widget widgets.Widget) (any, error) {
	help := stripTags(widget.Description)
	switch widget.Variant {
	case widgets.VariantPassword:
		return r.driver.Password(ctx, InputConfig{Message: widget.Label, Default: widget.Value, Help: help})
	case widgets.VariantTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: widget.Label, Default: widget.Value, Help: help})
	case widgets.VariantSelect:
		if len(widget.Choices) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoChoices, widget.Name)
		}
		labels := make([]string, len(widget.Choices))
		selected := 0
		for idx, choice := range widget.Choices {
			labels[idx] = choice.Label
			if choice.Selected {
				selected = idx
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: widget.Label, Options: labels, DefaultIndex: selected, Help: help})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(widget.Choices) {
			return nil, fmt.Errorf("tui: select index %d out of range for %s", idx, widget.Name)
		}
		return widget.Choices[idx].Value, nil
	case widgets.VariantDate:
		if help == "" {
			help = model.DateLayout
		}
		answer, err := r.driver.Input(ctx, InputConfig{Message: widget.Label, Default: widget.Value, Help: help})
		return strings.TrimSpace(answer), err
	default:
		if help == "" {
			help = widget.Placeholder
		}
		return r.driver.Input(ctx, InputConfig{Message: widget.Label, Default: widget.Value, Help: help})
	}
}

func (r *Renderer) info(ctx context.Context, prefix, msg string) error {
	if strings.TrimSpace(msg) == "" {
		return nil
	}
	if prefix != "" {
		msg = prefix + " " + msg
	}
	return r.driver.Info(ctx, msg)
}

func (r *Renderer) serialize(data editing.Data) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := make(url.Values, data.Len())
		for _, key := range data.Keys() {
			values.Set(key, data.Text(key))
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, key := range data.Keys() {
			fmt.Fprintf(&b, "%s: %s\n", key, data.Text(key))
		}
		return []byte(b.String()), nil
	default:
		out, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

var plainText = bluemonday.StrictPolicy()

// stripTags drops markup from descriptions before they reach the terminal.
func stripTags(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}
