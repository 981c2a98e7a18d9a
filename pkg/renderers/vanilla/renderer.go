package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formpage/pkg/model"
	"github.com/goliatone/go-formpage/pkg/render"
	rendertemplate "github.com/goliatone/go-formpage/pkg/render/template"
	gotemplate "github.com/goliatone/go-formpage/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formpage/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formpage/pkg/widgets"
)

const (
	templatePage  = "templates/page.tmpl"
	templateAlert = "templates/alert.tmpl"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	widgets          *widgets.Registry
	stylesheets      []string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the component set used for field controls.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithWidgetRegistry replaces the field to component resolution.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// WithStylesheets links extra stylesheets after the theme stylesheet.
func WithStylesheets(hrefs ...string) Option {
	return func(cfg *config) {
		for _, href := range hrefs {
			if trimmed := strings.TrimSpace(href); trimmed != "" {
				cfg.stylesheets = append(cfg.stylesheets, trimmed)
			}
		}
	}
}

// Renderer writes a complete HTML page for a form page configuration.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	components  *components.Registry
	widgets     *widgets.Registry
	stylesheets []string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:   renderer,
		components:  cfg.components,
		widgets:     cfg.widgets,
		stylesheets: cfg.stylesheets,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the page chrome, the alert panel, one form group per field
// and the footer actions.
func (r *Renderer) Render(ctx context.Context, page model.Page, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	partials := themePartials(options.Theme)
	fields := newComponentRenderer(r.templates, r.components, partials)
	list := widgets.RenderAll(page.Fields, options.Values, options.Errors.Has, widgets.Handlers{})
	list = r.widgets.Assign(page.Fields, list)

	groups := make([]map[string]any, 0, len(list))
	for _, widget := range list {
		group, err := fields.render(widget)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		groups = append(groups, group)
	}

	alert, err := r.renderAlert(page, options, partials)
	if err != nil {
		return nil, err
	}

	method := options.Method
	if method == "" {
		method = render.MethodFor(page)
	}
	formMethod, override := render.FormMethod(method)
	hidden := options.Hidden
	if override != "" {
		hidden = render.MergeHiddenFields(hidden, render.Hidden(render.MethodOverrideField, override))
	}
	hiddenFields := make([]map[string]any, 0, len(hidden))
	for _, field := range render.SortedHiddenFields(hidden) {
		hiddenFields = append(hiddenFields, map[string]any{"name": field.Name, "value": field.Value})
	}

	data := map[string]any{
		"home_title":     render.HomeTitle,
		"page_id":        page.ID,
		"kind":           string(page.Kind),
		"section":        sectionView(render.SectionFor(page)),
		"actions":        actionsView(render.ActionsFor(page)),
		"groups":         groups,
		"alert":          alert,
		"loading":        options.Loading,
		"form_method":    formMethod,
		"action":         options.Action,
		"restore_action": options.RestoreAction,
		"hidden_fields":  hiddenFields,
		"stylesheets":    r.stylesheetsFor(options.Theme, fields.used),
	}
	if options.Notification != nil && strings.TrimSpace(options.Notification.Text) != "" {
		data["notification"] = map[string]any{
			"kind": string(options.Notification.Kind),
			"text": options.Notification.Text,
		}
	}
	if options.Theme != nil {
		data["css_vars"] = render.CSSVarsStyle(options.Theme.CSSVars)
		data["theme_variant"] = options.Theme.Variant
	}

	name := templatePage
	if candidate := strings.TrimSpace(partials[render.PartialPage]); candidate != "" {
		name = candidate
	}
	result, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderAlert(page model.Page, options render.RenderOptions, partials map[string]string) (string, error) {
	lines := options.AlertLines(page.Fields)
	if len(lines) == 0 && len(options.FormErrors) == 0 {
		return "", nil
	}
	rows := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, map[string]any{"key": line.Key, "label": line.Label, "message": line.Message})
	}

	name := templateAlert
	if candidate := strings.TrimSpace(partials[render.PartialAlert]); candidate != "" {
		name = candidate
	}
	out, err := r.templates.RenderTemplate(name, map[string]any{
		"lines":       rows,
		"form_errors": options.FormErrors,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render alert: %w", err)
	}
	return out, nil
}

func (r *Renderer) stylesheetsFor(cfg *theme.RendererConfig, used []string) []string {
	var out []string
	if cfg != nil && cfg.AssetURL != nil {
		if href := cfg.AssetURL(render.AssetStylesheet); href != "" {
			out = append(out, href)
		}
	}
	out = append(out, r.components.Stylesheets(used)...)
	return append(out, r.stylesheets...)
}

func themePartials(cfg *theme.RendererConfig) map[string]string {
	if cfg == nil {
		return nil
	}
	return cfg.Partials
}

func sectionView(section render.Section) map[string]any {
	crumbs := make([]map[string]any, 0, len(section.Breadcrumbs))
	for _, crumb := range section.Breadcrumbs {
		crumbs = append(crumbs, map[string]any{"label": crumb.Label, "href": crumb.Href})
	}
	return map[string]any{
		"breadcrumbs": crumbs,
		"title":       section.Title,
		"subtitle":    section.Subtitle,
	}
}

func actionsView(actions []render.Action) []map[string]any {
	out := make([]map[string]any, 0, len(actions))
	for _, action := range actions {
		out = append(out, map[string]any{
			"kind":    string(action.Kind),
			"label":   action.Label,
			"href":    action.Href,
			"icon":    action.Icon,
			"primary": action.Primary,
		})
	}
	return out
}
