package govuk_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/govuk"
)

func newRenderer(t *testing.T) *govuk.Renderer {
	t.Helper()
	r, err := govuk.New(govuk.WithServiceName("Grants builder"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func renderPage(t *testing.T, page render.Page, options render.RenderOptions) string {
	t.Helper()
	out, err := newRenderer(t).Render(context.Background(), page, options)
	if err != nil {
		t.Fatalf("render %s: %v", page.Template, err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func TestRenderer_Metadata(t *testing.T) {
	r := newRenderer(t)
	if r.Name() != "govuk" {
		t.Fatalf("unexpected name %q", r.Name())
	}
	if r.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRender_ContentStepWithErrors(t *testing.T) {
	page := render.Page{
		Template: render.TemplateQuestionContent,
		Title:    "Add a question",
		BackLink: "/build-application/app-1/sec-1",
		Step: &render.StepView{
			Step:   render.TemplateQuestionContent,
			Action: "/build-application/app-1/sec-1/question-content?backTo=dashboard",
			Values: render.QuestionValues{HintText: "<b>bold</b>", Optional: "true"},
			Errors: []render.FieldError{{FieldName: "fieldTitle", ErrorMessage: "Enter the question text"}},
			Messages: map[string][]string{
				"fieldTitle": {"Enter the question text"},
			},
		},
	}

	html := renderPage(t, page, render.RenderOptions{RequestID: "req-42"})

	assertContains(t, html,
		"<title>Error: Add a question - Grants builder</title>",
		`<a href="#fieldTitle">Enter the question text</a>`,
		"govuk-form-group--error",
		`action="/build-application/app-1/sec-1/question-content?backTo=dashboard"`,
		`href="/build-application/app-1/sec-1" class="govuk-back-link"`,
		"&lt;b&gt;bold&lt;/b&gt;",
		`value="true" checked`,
		"Reference: req-42",
		`href="/assets/govuk.css"`,
	)
}

func TestRender_OptionsStepListsInputsAndButtons(t *testing.T) {
	page := render.Page{
		Template: render.TemplateQuestionOptions,
		Title:    "Enter the options",
		Step: &render.StepView{
			Step:   render.TemplateQuestionOptions,
			Action: "/build-application/app-1/sec-1/question-options",
			Values: render.QuestionValues{Options: []string{"Red", ""}},
			Errors: []render.FieldError{{FieldName: "options[1]", ErrorMessage: "Enter an option"}},
			Messages: map[string][]string{
				"options[1]": {"Enter an option"},
			},
		},
	}

	html := renderPage(t, page, render.RenderOptions{})

	assertContains(t, html,
		`id="options-0" name="options[0]" type="text" value="Red"`,
		`id="options-1" name="options[1]"`,
		`<a href="#options-1">Enter an option</a>`,
		`name="delete_0"`,
		`name="delete_1"`,
		`name="add-another-option"`,
		`name="save"`,
	)
}

func TestRender_TypeStepChecksCurrentChoice(t *testing.T) {
	page := render.Page{
		Template: render.TemplateQuestionType,
		Title:    "Choose a question type",
		Step: &render.StepView{
			Step:   render.TemplateQuestionType,
			Values: render.QuestionValues{ResponseType: "Dropdown"},
			Choices: []render.ResponseTypeChoice{
				{Value: "ShortAnswer", Label: "Short answer"},
				{Value: "Dropdown", Label: "Multiple choice", Description: "Pick one"},
			},
		},
	}

	html := renderPage(t, page, render.RenderOptions{})

	assertContains(t, html,
		`value="Dropdown" checked`,
		"Multiple choice",
		"Pick one",
	)
	if strings.Contains(html, `value="ShortAnswer" checked`) {
		t.Fatalf("unexpected checked ShortAnswer choice")
	}
}

func TestRender_SectionPageMoveControls(t *testing.T) {
	page := render.Page{
		Template: render.TemplateSection,
		Title:    "Eligibility",
		Section: &render.SectionView{
			AppID:           "app-1",
			SectionID:       "sec-1",
			SectionTitle:    "Eligibility",
			AddQuestionLink: "/build-application/app-1/sec-1/question-content",
			Questions: []render.QuestionRow{
				{
					QuestionID:        "q-1",
					Title:             "Organisation name",
					ResponseTypeLabel: "Short answer",
					EditLink:          "/build-application/app-1/sec-1/q-1/edit/question-content",
					MoveAction:        "/build-application/app-1/sec-1/q-1/move",
					Up:                render.MoveControl{Enabled: false, Direction: "up"},
					Down:              render.MoveControl{Enabled: true, Direction: "down"},
				},
			},
			Hidden: []render.HiddenField{render.VersionField(3)},
		},
	}

	html := renderPage(t, page, render.RenderOptions{Hidden: map[string]string{"csrf": "tok"}})

	assertContains(t, html,
		`<h1 class="govuk-heading-l">Eligibility</h1>`,
		`action="/build-application/app-1/sec-1/q-1/move"`,
		`<input type="hidden" name="version" value="3">`,
		`<input type="hidden" name="csrf" value="tok">`,
		`name="direction" value="down"`,
		"Short answer",
		`href="/build-application/app-1/sec-1/question-content"`,
	)
	if strings.Contains(html, `value="up"`) {
		t.Fatalf("disabled move up control should not render")
	}
}

func TestRender_DashboardAndServiceError(t *testing.T) {
	dashboard := renderPage(t, render.Page{
		Template: render.TemplateDashboard,
		Title:    "Community Fund 2026",
		Dashboard: &render.DashboardView{
			AppID:           "app-1",
			ApplicationName: "Community Fund 2026",
			Sections: []render.SectionRow{
				{SectionID: "sec-1", Title: "Eligibility", Link: "/build-application/app-1/sec-1"},
			},
		},
	}, render.RenderOptions{})
	assertContains(t, dashboard, "Community Fund 2026", `href="/build-application/app-1/sec-1">Eligibility</a>`)

	errPage := renderPage(t, render.Page{
		Template: render.TemplateServiceError,
		Title:    "Sorry, there is a problem with the service",
		ServiceError: &render.ServiceErrorView{
			Message:  "Something went wrong",
			LinkHref: "/build-application/app-1/dashboard",
			LinkText: "Back to the dashboard",
		},
	}, render.RenderOptions{})
	assertContains(t, errPage,
		"Something went wrong",
		`href="/build-application/app-1/dashboard">Back to the dashboard</a>`,
	)
}

func TestRender_ThemeVariant(t *testing.T) {
	themes, err := render.NewThemes("govuk", "", render.GOVUKManifest())
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	selection, err := themes.Select("govuk", "high-contrast")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	html := renderPage(t, render.Page{
		Template:     render.TemplateServiceError,
		Title:        "Sorry",
		ServiceError: &render.ServiceErrorView{Message: "m", LinkHref: "/", LinkText: "Start"},
	}, render.RenderOptions{Theme: render.RendererConfig(selection, nil)})

	assertContains(t, html,
		`data-theme-variant="high-contrast"`,
		"--text-colour: #000000;",
		`href="/assets/govuk.css"`,
	)
}

func TestRender_RejectsMismatchedPages(t *testing.T) {
	r := newRenderer(t)
	cases := []render.Page{
		{Template: "unknown"},
		{Template: render.TemplateQuestionContent},
		{Template: render.TemplateSection},
		{Template: render.TemplateDashboard},
		{Template: render.TemplateServiceError},
	}
	for _, page := range cases {
		if _, err := r.Render(context.Background(), page, render.RenderOptions{}); err == nil {
			t.Fatalf("expected error for %q", page.Template)
		}
	}
}

func TestEmbeddedBundles(t *testing.T) {
	for _, name := range []string{
		render.TemplateQuestionContent, render.TemplateQuestionType, render.TemplateQuestionOptions,
		render.TemplateAddWordCount, render.TemplateSection, render.TemplateDashboard,
		render.TemplateServiceError, "layout",
	} {
		if _, err := fs.Stat(govuk.TemplatesFS(), name+".tmpl"); err != nil {
			t.Fatalf("template %s missing: %v", name, err)
		}
	}
	if _, err := fs.Stat(govuk.AssetsFS(), govuk.StylesheetName); err != nil {
		t.Fatalf("stylesheet missing: %v", err)
	}
}
