package wizard

import (
	"context"
	"net/url"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/draftstore"
	"github.com/goliatone/go-formwizard/pkg/gateway"
	"github.com/goliatone/go-formwizard/pkg/optionlist"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/responsetype"
)

// Local validation messages for steps that do not reach the backend.
const (
	MessageTitleRequired    = "Enter a question"
	MessageTypeRequired     = "Select a question type"
	MessageTypeUnknown      = "Select a valid question type"
	MessageMaxWordsRequired = "Enter the maximum number of words"
)

var stepTitles = map[Step]string{
	StepContent:   "Add a question",
	StepType:      "Choose a question type",
	StepOptions:   "Enter the options",
	StepWordLimit: "Set a word limit",
}

// Load handles a GET for a step: the persisted question (when editing) with
// the draft over it pre-populates the form. Any load failure redirects to the
// service error page.
func (e *Engine) Load(ctx context.Context, req Request) (Outcome, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	fields, err := e.current(ctx, req)
	if err != nil {
		return e.escalate("load step", req.AppID, req.SectionID, req.QuestionID, req.Continuity, err), nil
	}
	return Page{View: e.stepPage(req, fields, nil)}, nil
}

// Submit handles a POST for a step. It returns a Page when the same step must
// be shown again and a Redirect otherwise.
func (e *Engine) Submit(ctx context.Context, req Request) (Outcome, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Form == nil {
		req.Form = url.Values{}
	}
	switch req.Step {
	case StepContent:
		return e.submitContent(ctx, req), nil
	case StepType:
		return e.submitType(ctx, req), nil
	case StepOptions:
		return e.submitOptions(ctx, req), nil
	default:
		return e.submitWordLimit(ctx, req), nil
	}
}

func (e *Engine) submitContent(ctx context.Context, req Request) Outcome {
	step := draftstore.Fields{
		draftstore.FieldTitle:    strings.TrimSpace(req.Form.Get(draftstore.FieldTitle)),
		draftstore.FieldHintText: e.sanitizeText(req.Form.Get(draftstore.FieldHintText)),
		draftstore.FieldOptional: optionalFlag(req.Form.Get(draftstore.FieldOptional)),
	}
	if _, ok := req.Form[draftstore.FieldDisplayText]; ok {
		step[draftstore.FieldDisplayText] = e.sanitizeMarkup(req.Form.Get(draftstore.FieldDisplayText))
	}

	if step[draftstore.FieldTitle] == "" {
		return e.reject(ctx, req, step, render.FieldError{FieldName: draftstore.FieldTitle, ErrorMessage: MessageTitleRequired})
	}
	if req.Workflow() == WorkflowEdit {
		return e.commit(ctx, req, step)
	}
	if err := e.mergeDraft(ctx, req, step); err != nil {
		return e.escalate("save content", req.AppID, req.SectionID, req.QuestionID, req.Continuity, err)
	}
	return Redirect{Location: req.Continuity.Link(req.path(StepType))}
}

func (e *Engine) submitType(ctx context.Context, req Request) Outcome {
	tag := strings.TrimSpace(req.Form.Get(draftstore.FieldResponseType))
	step := draftstore.Fields{draftstore.FieldResponseType: tag}
	if tag == "" {
		return e.reject(ctx, req, step, render.FieldError{FieldName: draftstore.FieldResponseType, ErrorMessage: MessageTypeRequired})
	}
	class, err := e.catalog.Classify(tag)
	if err != nil {
		return e.reject(ctx, req, step, render.FieldError{FieldName: draftstore.FieldResponseType, ErrorMessage: MessageTypeUnknown})
	}
	if !class.RequiresExtraStep() {
		return e.commit(ctx, req, step)
	}

	if err := e.mergeDraft(ctx, req, step); err != nil {
		return e.escalate("save type", req.AppID, req.SectionID, req.QuestionID, req.Continuity, err)
	}
	next := class.CreateRedirect(req.AppID, req.SectionID)
	if req.Workflow() == WorkflowEdit {
		next = class.EditRedirect(req.AppID, req.SectionID, req.QuestionID)
	}
	return Redirect{Location: req.Continuity.FromTypeStep().Link(next)}
}

func (e *Engine) submitOptions(ctx context.Context, req Request) Outcome {
	options := optionlist.Values(req.Form)
	action := optionlist.Decode(req.Form)
	if optionlist.Commits(action) {
		return e.commit(ctx, req, draftstore.Fields{draftstore.FieldOptions: options})
	}

	updated, err := optionlist.Apply(action, options)
	if err != nil {
		e.logger.Warn("option edit ignored", "error", err)
	}
	// Add and delete re-render from the draft and the posted list only.
	fields, err := e.draft(ctx, req)
	if err != nil {
		return e.escalate("edit options", req.AppID, req.SectionID, req.QuestionID, req.Continuity, err)
	}
	fields = fields.Overlay(draftstore.Fields{draftstore.FieldOptions: updated})
	return Page{View: e.stepPage(req, fields, nil)}
}

func (e *Engine) submitWordLimit(ctx context.Context, req Request) Outcome {
	maxWords := strings.TrimSpace(req.Form.Get(draftstore.FieldMaxWords))
	step := draftstore.Fields{draftstore.FieldMaxWords: maxWords}
	if maxWords == "" {
		return e.reject(ctx, req, step, render.FieldError{FieldName: draftstore.FieldMaxWords, ErrorMessage: MessageMaxWordsRequired})
	}
	return e.commit(ctx, req, step)
}

// commit assembles draft ⊕ step fields ⊕ validation block and creates or
// patches the question.
func (e *Engine) commit(ctx context.Context, req Request, step draftstore.Fields) Outcome {
	current, err := e.current(ctx, req)
	if err != nil {
		return e.escalate("commit question", req.AppID, req.SectionID, req.QuestionID, req.Continuity, err)
	}
	merged := current.Overlay(step)
	draft := draftstore.Decode(merged)

	payload, err := e.payload(draft)
	if err != nil {
		return e.escalate("commit question", req.AppID, req.SectionID, req.QuestionID, req.Continuity, err)
	}

	questionID := req.QuestionID
	if req.Workflow() == WorkflowEdit {
		err = e.gateway.PatchQuestion(ctx, req.AppID, req.SectionID, req.QuestionID, payload)
	} else {
		questionID, err = e.gateway.CreateQuestion(ctx, req.AppID, req.SectionID, payload)
	}
	if err != nil {
		if ve, ok := gateway.IsValidation(err); ok {
			errs := render.TranslateErrors(fieldErrors(ve.Fields), map[string]int{
				draftstore.FieldOptions: len(draft.Options),
			})
			return Page{View: e.stepPage(req, merged, errs)}
		}
		return e.escalate("commit question", req.AppID, req.SectionID, req.QuestionID, req.Continuity, err)
	}

	e.discardDraft(ctx, req)
	e.logger.Info("question saved",
		"workflow", string(req.Workflow()),
		"app_id", req.AppID,
		"section_id", req.SectionID,
		"question_id", questionID,
		"response_type", payload.ResponseType,
	)
	return Redirect{Location: ReturnTarget(req.AppID, req.SectionID, req.Continuity)}
}

func (e *Engine) payload(d draftstore.QuestionDraft) (gateway.QuestionPayload, error) {
	class, err := e.catalog.Classify(d.ResponseType)
	if err != nil {
		return gateway.QuestionPayload{}, err
	}
	p := gateway.QuestionPayload{
		FieldTitle:     d.FieldTitle,
		ResponseType:   string(class.Tag),
		HintText:       d.HintText,
		DisplayText:    d.DisplayText,
		QuestionSuffix: d.QuestionSuffix,
		Validation:     &gateway.Validation{Mandatory: d.Optional != "true"},
	}
	if class.RequiresWordLimit {
		p.Validation.MaxWords = d.MaxWords
	}
	if class.RequiresOptions {
		p.Options = append([]string{}, d.Options...)
	}
	return p, nil
}

// reject re-renders the step with local errors and the submitted values.
func (e *Engine) reject(ctx context.Context, req Request, step draftstore.Fields, errs ...render.FieldError) Outcome {
	current, err := e.current(ctx, req)
	if err != nil {
		return e.escalate("load step", req.AppID, req.SectionID, req.QuestionID, req.Continuity, err)
	}
	return Page{View: e.stepPage(req, current.Overlay(step), errs)}
}

func (e *Engine) stepPage(req Request, fields draftstore.Fields, errs []render.FieldError) render.Page {
	d := draftstore.Decode(fields)
	if req.Step == StepOptions && len(d.Options) == 0 {
		d.Options = []string{"", ""}
	}

	view := &render.StepView{
		Step:    string(req.Step),
		Editing: req.Workflow() == WorkflowEdit,
		Action:  req.Continuity.Link(req.path(req.Step)),
		Values: render.QuestionValues{
			FieldTitle:     d.FieldTitle,
			HintText:       d.HintText,
			DisplayText:    d.DisplayText,
			QuestionSuffix: d.QuestionSuffix,
			ResponseType:   d.ResponseType,
			Optional:       d.Optional,
			MaxWords:       d.MaxWords,
			Options:        d.Options,
		},
		Errors:   errs,
		Messages: render.ErrorsByField(errs),
	}
	if req.Step == StepType {
		view.Choices = choices(e.catalog)
	}

	return render.Page{
		Template: string(req.Step),
		Title:    stepTitles[req.Step],
		BackLink: e.backLink(req),
		Step:     view,
	}
}

// backLink is computed per request from the request's own continuity.
func (e *Engine) backLink(req Request) string {
	c := req.Continuity.WithoutFrom()
	switch req.Step {
	case StepContent:
		return ReturnTarget(req.AppID, req.SectionID, req.Continuity)
	case StepType:
		return c.Link(req.path(StepContent))
	default:
		if req.Continuity.From == FromQuestionType || req.Workflow() == WorkflowCreate {
			return c.Link(req.path(StepType))
		}
		return c.Link(req.path(StepContent))
	}
}

func choices(catalog *responsetype.Catalog) []render.ResponseTypeChoice {
	defs := catalog.Definitions()
	out := make([]render.ResponseTypeChoice, 0, len(defs))
	for _, def := range defs {
		out = append(out, render.ResponseTypeChoice{
			Value:       string(def.Tag),
			Label:       def.Label,
			Description: def.Description,
		})
	}
	return out
}

func fieldErrors(in []gateway.FieldError) []render.FieldError {
	out := make([]render.FieldError, 0, len(in))
	for _, fe := range in {
		out = append(out, render.FieldError{FieldName: fe.FieldName, ErrorMessage: fe.ErrorMessage})
	}
	return out
}

func optionalFlag(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "true") {
		return "true"
	}
	return "false"
}
