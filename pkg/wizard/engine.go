package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/goliatone/go-formwizard/pkg/draftstore"
	"github.com/goliatone/go-formwizard/pkg/gateway"
	"github.com/goliatone/go-formwizard/pkg/ordering"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/responsetype"
)

// fieldQuestionID ties an edit draft to the question it was started for.
const fieldQuestionID = "questionId"

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCatalog replaces the embedded response-type catalog.
func WithCatalog(catalog *responsetype.Catalog) Option {
	return func(e *Engine) {
		if catalog != nil {
			e.catalog = catalog
		}
	}
}

// WithTextSanitizer replaces the sanitiser applied to hint text.
func WithTextSanitizer(fn func(string) string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.sanitizeText = fn
		}
	}
}

// WithMarkupSanitizer replaces the sanitiser applied to display text.
func WithMarkupSanitizer(fn func(string) string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.sanitizeMarkup = fn
		}
	}
}

// Engine runs the question wizard against a backend gateway and a draft
// store. It holds no per-request state and is safe for concurrent use.
type Engine struct {
	gateway        gateway.Gateway
	drafts         draftstore.Store
	catalog        *responsetype.Catalog
	mover          *ordering.Controller
	logger         *slog.Logger
	sanitizeText   func(string) string
	sanitizeMarkup func(string) string
}

// New constructs an Engine.
func New(gw gateway.Gateway, drafts draftstore.Store, options ...Option) (*Engine, error) {
	if gw == nil {
		return nil, errors.New("wizard: gateway is required")
	}
	if drafts == nil {
		return nil, errors.New("wizard: draft store is required")
	}
	e := &Engine{
		gateway:        gw,
		drafts:         drafts,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sanitizeText:   render.SanitizeText,
		sanitizeMarkup: render.SanitizeMarkup,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.catalog == nil {
		catalog, err := responsetype.DefaultCatalog()
		if err != nil {
			return nil, fmt.Errorf("wizard: load response types: %w", err)
		}
		e.catalog = catalog
	}
	e.mover = ordering.New(gw, ordering.WithLogger(e.logger))
	return e, nil
}

// Catalog returns the response-type catalog the engine classifies with.
func (e *Engine) Catalog() *responsetype.Catalog {
	return e.catalog
}

// current loads the persisted question when editing and overlays the draft.
// Draft fields win.
func (e *Engine) current(ctx context.Context, req Request) (draftstore.Fields, error) {
	base := draftstore.Fields{}
	if req.Workflow() == WorkflowEdit {
		q, err := e.gateway.GetQuestion(ctx, req.AppID, req.SectionID, req.QuestionID)
		if err != nil {
			return nil, err
		}
		base = questionFields(q)
	} else {
		if _, err := e.gateway.GetSection(ctx, req.AppID, req.SectionID); err != nil {
			return nil, err
		}
	}

	draft, err := e.draft(ctx, req)
	if err != nil {
		return nil, err
	}
	return base.Overlay(draft), nil
}

// draft reads the workflow's draft. An edit draft started for another
// question is ignored.
func (e *Engine) draft(ctx context.Context, req Request) (draftstore.Fields, error) {
	draft, err := e.drafts.Get(ctx, req.SessionID, req.Namespace())
	if err != nil {
		return nil, fmt.Errorf("wizard: read draft: %w", err)
	}
	if req.Workflow() == WorkflowEdit {
		if owner, ok := draft.String(fieldQuestionID); ok && owner != req.QuestionID {
			return draftstore.Fields{}, nil
		}
	}
	delete(draft, fieldQuestionID)
	return draft, nil
}

func (e *Engine) mergeDraft(ctx context.Context, req Request, fields draftstore.Fields) error {
	if req.Workflow() == WorkflowEdit {
		fields = fields.Overlay(draftstore.Fields{fieldQuestionID: req.QuestionID})
	}
	if err := e.drafts.Merge(ctx, req.SessionID, req.Namespace(), fields); err != nil {
		return fmt.Errorf("wizard: merge draft: %w", err)
	}
	return nil
}

func (e *Engine) discardDraft(ctx context.Context, req Request) {
	discarder, ok := e.drafts.(draftstore.Discarder)
	if !ok {
		return
	}
	if err := discarder.Discard(ctx, req.SessionID, req.Namespace()); err != nil {
		e.logger.Warn("draft discard failed",
			"namespace", string(req.Namespace()),
			"error", err,
		)
	}
}

// escalate logs a non-validation failure and redirects to the service error
// page.
func (e *Engine) escalate(op, appID, sectionID, questionID string, c Continuity, err error) Outcome {
	e.logger.Error("wizard request failed",
		"op", op,
		"app_id", appID,
		"section_id", sectionID,
		"question_id", questionID,
		"error", err,
	)
	return Redirect{Location: serviceErrorFor(err, appID, sectionID, c).Location()}
}

func questionFields(q gateway.Question) draftstore.Fields {
	fields := draftstore.Fields{
		draftstore.FieldTitle:        q.FieldTitle,
		draftstore.FieldResponseType: q.ResponseType,
		draftstore.FieldOptional:     strconv.FormatBool(!q.Validation.Mandatory),
	}
	if q.HintText != "" {
		fields[draftstore.FieldHintText] = q.HintText
	}
	if q.DisplayText != "" {
		fields[draftstore.FieldDisplayText] = q.DisplayText
	}
	if q.QuestionSuffix != "" {
		fields[draftstore.FieldQuestionSuffix] = q.QuestionSuffix
	}
	if q.Validation.MaxWords != "" {
		fields[draftstore.FieldMaxWords] = q.Validation.MaxWords
	}
	if len(q.Options) > 0 {
		fields[draftstore.FieldOptions] = append([]string(nil), q.Options...)
	}
	return fields
}
