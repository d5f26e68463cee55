// Package formwizard is the entry point for embedding the grant-application
// question wizard. It re-exports the engine and the GOV.UK renderer so
// callers can mount the wizard without reaching into sub-packages.
package formwizard

import (
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/draftstore"
	"github.com/goliatone/go-formwizard/pkg/gateway"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/govuk"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Engine runs the wizard against a backend gateway and a draft store.
type Engine = wizard.Engine

// Outcome is a Redirect or a Page.
type Outcome = wizard.Outcome

// Redirect and Page are the two outcomes of a wizard request.
type (
	Redirect = wizard.Redirect
	Page     = wizard.Page
)

// RenderOptions carry per-request render data such as the theme.
type RenderOptions = render.RenderOptions

// NewEngine constructs a wizard engine.
func NewEngine(gw gateway.Gateway, drafts draftstore.Store, options ...wizard.Option) (*Engine, error) {
	return wizard.New(gw, drafts, options...)
}

// NewRenderer constructs the GOV.UK HTML renderer.
func NewRenderer(options ...govuk.Option) (*govuk.Renderer, error) {
	return govuk.New(options...)
}

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// and override them through govuk.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return govuk.TemplatesFS()
}

// AssetsFS exposes the stylesheet the built-in templates link to.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formwizard.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return govuk.AssetsFS()
}
