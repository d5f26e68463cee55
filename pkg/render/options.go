package render

import theme "github.com/goliatone/go-theme"

// RenderOptions carry per-request data that is not part of the page itself.
type RenderOptions struct {
	// Theme is the resolved theme configuration. Renderers fall back to their
	// built-in styling when nil.
	Theme *theme.RendererConfig
	// Hidden is merged into every form rendered on the page.
	Hidden map[string]string
	// RequestID is echoed in page chrome for support requests.
	RequestID string
}
