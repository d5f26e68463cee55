package render_test

import (
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/pkg/render"
)

func TestThemes_SelectDefaultsAndVariants(t *testing.T) {
	themes, err := render.NewThemes("", "high-contrast", render.GOVUKManifest())
	if err != nil {
		t.Fatalf("new themes: %v", err)
	}

	sel, err := themes.Select("", "")
	if err != nil {
		t.Fatalf("select default: %v", err)
	}
	if sel.Theme != "govuk" || sel.Variant != "high-contrast" {
		t.Fatalf("unexpected default selection %s/%s", sel.Theme, sel.Variant)
	}

	if _, err := themes.Select("govuk", "neon"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
	if _, err := themes.Select("acme", ""); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestRendererConfig_MergesVariantOverBase(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456", "text": "#000"},
		Templates: map[string]string{
			"layout": "themes/acme/layout.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{render.AssetStylesheet: "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{"brand": "#654321"},
				Assets: theme.Assets{Files: map[string]string{render.AssetScript: "dark.js"}},
			},
		},
	}
	themes, err := render.NewThemes("acme", "", manifest)
	if err != nil {
		t.Fatalf("new themes: %v", err)
	}
	sel, err := themes.Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	cfg := render.RendererConfig(sel, map[string]string{"layout": "fallback.tmpl", "step": "step.tmpl"})
	if cfg.Tokens["brand"] != "#654321" || cfg.Tokens["text"] != "#000" {
		t.Fatalf("unexpected tokens %v", cfg.Tokens)
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived from variant tokens: %v", cfg.CSSVars)
	}
	if cfg.Partials["layout"] != "themes/acme/layout.tmpl" || cfg.Partials["step"] != "step.tmpl" {
		t.Fatalf("unexpected partials %v", cfg.Partials)
	}
	if got := cfg.AssetURL(render.AssetStylesheet); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL(render.AssetScript); got != "/assets/themes/acme/dark.js" {
		t.Fatalf("unexpected script url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
}

func TestCSSVarsStyle(t *testing.T) {
	got := render.CSSVarsStyle(map[string]string{"--b": "2", "--a": "1"})
	want := ":root {\n  --a: 1;\n  --b: 2;\n}"
	if got != want {
		t.Fatalf("unexpected style %q", got)
	}
}
