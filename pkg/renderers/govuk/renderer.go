package govuk

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/render"
	rendertemplate "github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/render/template/gotemplate"
)

// Name is the renderer's registry name.
const Name = "govuk"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	serviceName      string
}

// WithTemplatesFS supplies an alternate template bundle.
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

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithServiceName sets the header text. Defaults to "Apply for funding".
func WithServiceName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.serviceName = trimmed
		}
	}
}

// Renderer renders wizard pages as GOV.UK Design System HTML.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	serviceName string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), serviceName: "Apply for funding"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("govuk renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer, serviceName: cfg.serviceName}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the template named by page.Template.
func (r *Renderer) Render(_ context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("govuk renderer: template renderer is nil")
	}
	data, err := r.pageContext(page, options)
	if err != nil {
		return nil, err
	}
	result, err := r.templates.RenderTemplate(page.Template, data)
	if err != nil {
		return nil, fmt.Errorf("govuk renderer: render %s: %w", page.Template, err)
	}
	return []byte(result), nil
}

func (r *Renderer) pageContext(page render.Page, options render.RenderOptions) (map[string]any, error) {
	data := map[string]any{
		"service":   r.serviceName,
		"title":     page.Title,
		"backLink":  page.BackLink,
		"requestId": options.RequestID,
		"theme":     themeContext(options),
	}

	switch page.Template {
	case render.TemplateQuestionContent, render.TemplateQuestionType,
		render.TemplateQuestionOptions, render.TemplateAddWordCount:
		if page.Step == nil {
			return nil, fmt.Errorf("govuk renderer: %s page has no step view", page.Template)
		}
		data["step"] = stepContext(page.Step, options.Hidden)
	case render.TemplateSection:
		if page.Section == nil {
			return nil, fmt.Errorf("govuk renderer: section page has no section view")
		}
		data["section"] = sectionContext(page.Section, options.Hidden)
	case render.TemplateDashboard:
		if page.Dashboard == nil {
			return nil, fmt.Errorf("govuk renderer: dashboard page has no dashboard view")
		}
		data["dashboard"] = dashboardContext(page.Dashboard, options.Hidden)
	case render.TemplateServiceError:
		if page.ServiceError == nil {
			return nil, fmt.Errorf("govuk renderer: service error page has no view")
		}
		data["error"] = *page.ServiceError
	default:
		return nil, fmt.Errorf("govuk renderer: unknown template %q", page.Template)
	}
	return data, nil
}
