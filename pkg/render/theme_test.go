package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpage/pkg/render"
)

func TestSelectorAndThemeConfig(t *testing.T) {
	selector, err := render.NewSelector("sportyfind", "", render.DefaultManifest())
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if err := selector.Register(render.DefaultManifest()); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select default: %v", err)
	}
	cfg := render.ThemeConfig(selection, map[string]string{render.PartialInput: "components/input.tmpl"})
	if cfg.Partials[render.PartialInput] != "components/input.tmpl" {
		t.Fatalf("expected fallback partial, got %v", cfg.Partials)
	}
	if got := cfg.AssetURL(render.AssetStylesheet); got != "/static/themes/sportyfind/forms.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}

	dark, err := selector.Select("sportyfind", "dark")
	if err != nil {
		t.Fatalf("select dark: %v", err)
	}
	darkCfg := render.ThemeConfig(dark, nil)
	if darkCfg.Tokens["surface"] != "#14191f" || darkCfg.CSSVars["--brand"] != "#1f8f4e" {
		t.Fatalf("variant tokens not merged: %v", darkCfg.Tokens)
	}

	if _, err := selector.Select("sportyfind", "sepia"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
	if _, err := selector.Select("other", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}

func TestCSSVarsStyle(t *testing.T) {
	got := render.CSSVarsStyle(map[string]string{"--text": "#000", "--brand": "#1f8f4e"})
	want := ":root { --brand: #1f8f4e; --text: #000; }"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("css mismatch (-want +got):\n%s", diff)
	}
	if render.CSSVarsStyle(nil) != "" {
		t.Fatalf("expected empty style for no vars")
	}
}
