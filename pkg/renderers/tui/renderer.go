package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/draftstore"
	"github.com/goliatone/go-formwizard/pkg/optionlist"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// SubmissionContentType is the encoding of every Render result.
const SubmissionContentType = "application/x-www-form-urlencoded"

// Reserved submission keys. Everything else in a submission is form data.
const (
	FieldMethod = "_method"
	FieldTarget = "_target"
	// MethodQuit ends a session.
	MethodQuit = "QUIT"
)

// Renderer prompts for a page in the terminal. The rendered bytes are the
// user's answer: a form-urlencoded submission naming the next request.
type Renderer struct {
	driver PromptDriver
	theme  Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer backed by survey unless a driver is given.
func New(options ...Option) *Renderer {
	r := &Renderer{theme: Theme{ErrorPrefix: "Error: "}}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the submission encoding returned by Render.
func (r *Renderer) ContentType() string {
	return SubmissionContentType
}

// Submission is a decoded Render result.
type Submission struct {
	Method string
	Target string
	Form   url.Values
}

// Quit reports whether the user chose to leave.
func (s Submission) Quit() bool {
	return s.Method == MethodQuit
}

func (s Submission) encode() []byte {
	values := url.Values{}
	for key, vals := range s.Form {
		values[key] = append([]string(nil), vals...)
	}
	values.Set(FieldMethod, s.Method)
	values.Set(FieldTarget, s.Target)
	return []byte(values.Encode())
}

// DecodeSubmission parses bytes produced by Render.
func DecodeSubmission(raw []byte) (Submission, error) {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return Submission{}, fmt.Errorf("tui: decode submission: %w", err)
	}
	s := Submission{Method: values.Get(FieldMethod), Target: values.Get(FieldTarget)}
	if s.Method == "" {
		return Submission{}, errors.New("tui: submission has no method")
	}
	values.Del(FieldMethod)
	values.Del(FieldTarget)
	s.Form = values
	return s, nil
}

// Render prompts for the page and returns the encoded submission.
func (r *Renderer) Render(ctx context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		sub Submission
		err error
	)
	switch page.Template {
	case render.TemplateQuestionContent, render.TemplateQuestionType,
		render.TemplateQuestionOptions, render.TemplateAddWordCount:
		sub, err = r.step(ctx, page, options)
	case render.TemplateSection:
		sub, err = r.section(ctx, page, options)
	case render.TemplateDashboard:
		sub, err = r.dashboard(ctx, page, options)
	case render.TemplateServiceError:
		sub, err = r.serviceError(ctx, page)
	default:
		return nil, fmt.Errorf("tui: unknown template %q", page.Template)
	}
	if err != nil {
		return nil, err
	}
	return sub.encode(), nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) step(ctx context.Context, page render.Page, options render.RenderOptions) (Submission, error) {
	step := page.Step
	if step == nil {
		return Submission{}, fmt.Errorf("%w: %s", ErrNoPage, page.Template)
	}
	if err := r.info(ctx, page.Title); err != nil {
		return Submission{}, err
	}
	for _, fe := range step.Errors {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+fe.ErrorMessage); err != nil {
			return Submission{}, err
		}
	}

	form := url.Values{}
	for _, h := range render.WithHidden(step.Hidden, options.Hidden) {
		form.Set(h.Name, h.Value)
	}

	var err error
	switch page.Template {
	case render.TemplateQuestionContent:
		err = r.contentFields(ctx, step, form)
	case render.TemplateQuestionType:
		err = r.typeField(ctx, step, form)
	case render.TemplateQuestionOptions:
		err = r.optionFields(ctx, step, form)
	case render.TemplateAddWordCount:
		err = r.wordLimitField(ctx, step, form)
	}
	if err != nil {
		return Submission{}, err
	}
	return Submission{Method: http.MethodPost, Target: step.Action, Form: form}, nil
}

func (r *Renderer) contentFields(ctx context.Context, step *render.StepView, form url.Values) error {
	title, err := r.driver.Input(ctx, InputConfig{Message: "Question text", Default: step.Values.FieldTitle})
	if err != nil {
		return err
	}
	hint, err := r.driver.TextArea(ctx, TextAreaConfig{Message: "Hint text (optional)", Default: step.Values.HintText})
	if err != nil {
		return err
	}
	optional, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: "Is this question optional?",
		Default: step.Values.Optional == "true",
	})
	if err != nil {
		return err
	}
	form.Set(draftstore.FieldTitle, title)
	form.Set(draftstore.FieldHintText, hint)
	form.Set(draftstore.FieldOptional, strconv.FormatBool(optional))
	return nil
}

func (r *Renderer) typeField(ctx context.Context, step *render.StepView, form url.Values) error {
	if len(step.Choices) == 0 {
		return fmt.Errorf("%w: no response types to choose from", ErrNoPage)
	}
	labels := make([]string, len(step.Choices))
	current := 0
	for i, c := range step.Choices {
		labels[i] = c.Label
		if c.Value == step.Values.ResponseType {
			current = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: "Question type", Options: labels, DefaultIndex: current})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(step.Choices) {
		return fmt.Errorf("tui: choice %d out of range", idx)
	}
	form.Set(draftstore.FieldResponseType, step.Choices[idx].Value)
	return nil
}

const (
	optionSave   = "Save and continue"
	optionAdd    = "Add another option"
	optionDelete = "Delete an option"
)

func (r *Renderer) optionFields(ctx context.Context, step *render.StepView, form url.Values) error {
	values := step.Values.Options
	for i, current := range values {
		msg := fmt.Sprintf("Option %d", i+1)
		if errs := step.FieldMessages(optionlist.InputName(i)); len(errs) > 0 {
			msg += " (" + strings.Join(errs, " ") + ")"
		}
		answer, err := r.driver.Input(ctx, InputConfig{Message: msg, Default: current})
		if err != nil {
			return err
		}
		form.Set(optionlist.InputName(i), answer)
	}

	actions := []string{optionSave, optionAdd}
	if len(values) > 0 {
		actions = append(actions, optionDelete)
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: "What next?", Options: actions})
	if err != nil {
		return err
	}
	switch {
	case idx == 1:
		form.Set("add-another-option", "add")
	case idx == 2 && len(values) > 0:
		labels := make([]string, len(values))
		for i := range values {
			labels[i] = fmt.Sprintf("Option %d: %s", i+1, form.Get(optionlist.InputName(i)))
		}
		which, err := r.driver.Select(ctx, SelectConfig{Message: "Delete which option?", Options: labels})
		if err != nil {
			return err
		}
		form.Set("delete_"+strconv.Itoa(which), "Delete")
	default:
		form.Set("save", "save")
	}
	return nil
}

func (r *Renderer) wordLimitField(ctx context.Context, step *render.StepView, form url.Values) error {
	answer, err := r.driver.Input(ctx, InputConfig{
		Message: "Maximum number of words",
		Default: step.Values.MaxWords,
		Validator: func(s string) error {
			if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
				return errors.New("enter a whole number")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	form.Set(draftstore.FieldMaxWords, strings.TrimSpace(answer))
	return nil
}

// choice is one entry of a navigation menu.
type choice struct {
	label string
	sub   Submission
}

func (r *Renderer) menu(ctx context.Context, message string, choices []choice) (Submission, error) {
	choices = append(choices, choice{label: "Quit", sub: Submission{Method: MethodQuit}})
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.label
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: labels, PageSize: 15})
	if err != nil {
		return Submission{}, err
	}
	if idx < 0 || idx >= len(choices) {
		return Submission{}, fmt.Errorf("tui: choice %d out of range", idx)
	}
	return choices[idx].sub, nil
}

func moveChoices(title, action string, up, down render.MoveControl, hidden url.Values) []choice {
	var out []choice
	for _, c := range []render.MoveControl{up, down} {
		if !c.Enabled {
			continue
		}
		form := url.Values{"direction": {c.Direction}}
		for k, v := range hidden {
			form[k] = v
		}
		out = append(out, choice{
			label: fmt.Sprintf("Move %s: %s", c.Direction, title),
			sub:   Submission{Method: http.MethodPost, Target: action, Form: form},
		})
	}
	return out
}

func hiddenValues(fields []render.HiddenField, extra map[string]string) url.Values {
	out := url.Values{}
	for _, h := range render.WithHidden(fields, extra) {
		out.Set(h.Name, h.Value)
	}
	return out
}

func (r *Renderer) section(ctx context.Context, page render.Page, options render.RenderOptions) (Submission, error) {
	view := page.Section
	if view == nil {
		return Submission{}, fmt.Errorf("%w: %s", ErrNoPage, page.Template)
	}
	if err := r.info(ctx, view.SectionTitle); err != nil {
		return Submission{}, err
	}
	hidden := hiddenValues(view.Hidden, options.Hidden)

	choices := []choice{{label: "Add a question", sub: get(view.AddQuestionLink)}}
	for i, q := range view.Questions {
		if err := r.info(ctx, fmt.Sprintf("%d. %s (%s)", i+1, q.Title, q.ResponseTypeLabel)); err != nil {
			return Submission{}, err
		}
		choices = append(choices, choice{label: "Edit: " + q.Title, sub: get(q.EditLink)})
		choices = append(choices, moveChoices(q.Title, q.MoveAction, q.Up, q.Down, hidden)...)
	}
	choices = append(choices, choice{label: "Back to the dashboard", sub: get(wizard.DashboardPath(view.AppID))})
	return r.menu(ctx, "What would you like to do?", choices)
}

func (r *Renderer) dashboard(ctx context.Context, page render.Page, options render.RenderOptions) (Submission, error) {
	view := page.Dashboard
	if view == nil {
		return Submission{}, fmt.Errorf("%w: %s", ErrNoPage, page.Template)
	}
	if err := r.info(ctx, view.ApplicationName); err != nil {
		return Submission{}, err
	}
	hidden := hiddenValues(view.Hidden, options.Hidden)

	var choices []choice
	for _, s := range view.Sections {
		choices = append(choices, choice{label: "Open: " + s.Title, sub: get(s.Link)})
		choices = append(choices, moveChoices(s.Title, s.MoveAction, s.Up, s.Down, hidden)...)
	}
	return r.menu(ctx, "Choose a section", choices)
}

func (r *Renderer) serviceError(ctx context.Context, page render.Page) (Submission, error) {
	view := page.ServiceError
	if view == nil {
		return Submission{}, fmt.Errorf("%w: %s", ErrNoPage, page.Template)
	}
	if err := r.driver.Info(ctx, r.theme.ErrorPrefix+view.Message); err != nil {
		return Submission{}, err
	}
	ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: view.LinkText + "?", Default: true})
	if err != nil {
		return Submission{}, err
	}
	if !ok {
		return Submission{Method: MethodQuit}, nil
	}
	return get(view.LinkHref), nil
}

func get(target string) Submission {
	return Submission{Method: http.MethodGet, Target: target}
}
