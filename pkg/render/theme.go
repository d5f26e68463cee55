package render

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Asset keys resolved through the theme manifest.
const (
	AssetStylesheet = "govuk.stylesheet"
	AssetScript     = "govuk.script"
)

// Themes is a fixed set of theme manifests with a default selection.
type Themes struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers manifests. The first manifest is the default when
// defaultTheme is empty.
func NewThemes(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*Themes, error) {
	if len(manifests) == 0 {
		return nil, fmt.Errorf("render: at least one theme manifest is required")
	}
	t := &Themes{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, m := range manifests {
		if m == nil || strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("render: theme manifest name is required")
		}
		if _, exists := t.manifests[m.Name]; exists {
			return nil, fmt.Errorf("render: theme %q already registered", m.Name)
		}
		t.manifests[m.Name] = m
	}
	if t.defaultTheme == "" {
		t.defaultTheme = manifests[0].Name
	}
	if _, ok := t.manifests[t.defaultTheme]; !ok {
		return nil, fmt.Errorf("render: default theme %q not registered", t.defaultTheme)
	}
	return t, nil
}

// Select resolves a theme and variant, falling back to the defaults for
// empty names.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = t.defaultTheme
	}
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	variant = strings.TrimSpace(variant)
	if variant == "" && name == t.defaultTheme {
		variant = t.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection into renderer configuration. Variant
// tokens, templates and asset files override the base manifest; fallbacks
// fill partials neither defines.
func RendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	m := selection.Manifest

	tokens := copyStrings(m.Tokens)
	partials := copyStrings(fallbacks)
	for k, v := range m.Templates {
		partials[k] = v
	}
	prefix := m.Assets.Prefix
	files := copyStrings(m.Assets.Files)

	if v, ok := m.Variants[selection.Variant]; ok {
		for k, val := range v.Tokens {
			tokens[k] = val
		}
		for k, val := range v.Templates {
			partials[k] = val
		}
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
		for k, val := range v.Assets.Files {
			files[k] = val
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for k, v := range tokens {
		cssVars["--"+k] = v
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
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// CSSVarsStyle renders CSS custom properties as a :root block.
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
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// GOVUKManifest is the built-in theme used when no other theme is
// configured. The "high-contrast" variant swaps the palette.
func GOVUKManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "govuk",
		Version: "1.0.0",
		Tokens: map[string]string{
			"text-colour":   "#0b0c0c",
			"brand-colour":  "#1d70b8",
			"error-colour":  "#d4351c",
			"border-colour": "#b1b4b6",
			"focus-colour":  "#ffdd00",
			"font-family":   "Arial, sans-serif",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				AssetStylesheet: "govuk.css",
			},
		},
		Variants: map[string]theme.Variant{
			"high-contrast": {
				Tokens: map[string]string{
					"text-colour":  "#000000",
					"brand-colour": "#003078",
				},
			},
		},
	}
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
