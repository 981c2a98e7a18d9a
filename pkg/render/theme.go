package render

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Partial keys resolved through the theme. Renderers fall back to their
// bundled templates when a theme does not override a key.
const (
	PartialPage     = "forms.page"
	PartialAlert    = "forms.alert"
	PartialInput    = "forms.input"
	PartialSelect   = "forms.select"
	PartialTextarea = "forms.textarea"
	AssetStylesheet = "forms.stylesheet"
)

// Selector resolves themes from manifests registered in memory.
type Selector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector returns a selector that falls back to defaultTheme and
// defaultVariant when callers ask for none.
func NewSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*Selector, error) {
	s := &Selector{
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest. Names must be unique.
func (s *Selector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("render: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("render: theme %q already registered", manifest.Name)
	}
	s.manifests[manifest.Name] = manifest
	return nil
}

// Select implements theme.ThemeSelector.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name, variant = strings.TrimSpace(name), strings.TrimSpace(variant)
	if name == "" {
		name = s.defaultTheme
		if variant == "" {
			variant = s.defaultVariant
		}
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("render: theme %q not registered", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ThemeConfig flattens a selection into renderer configuration. Variant
// tokens, templates and asset files override the base manifest; fallbacks
// fill partials the theme leaves unset.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	partials := mergeStrings(fallbacks, manifest.Templates, variant.Templates)
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)
	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// CSSVarsStyle renders CSS custom properties as a :root rule.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		fmt.Fprintf(&b, " %s: %s;", key, vars[key])
	}
	b.WriteString(" }")
	return b.String()
}

// DefaultManifest is the bundled admin panel theme with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "sportyfind",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      "#1f8f4e",
			"alert":      "#d64545",
			"surface":    "#ffffff",
			"text":       "#1d2733",
			"muted-text": "#6b7785",
		},
		Assets: theme.Assets{
			Prefix: "/static/themes/sportyfind",
			Files: map[string]string{
				AssetStylesheet: "forms.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#14191f",
					"text":    "#e6edf3",
				},
			},
		},
	}
}

func mergeStrings(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for key, value := range layer {
			if strings.TrimSpace(value) != "" {
				out[key] = value
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
