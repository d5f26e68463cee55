package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/gateway"
	"github.com/goliatone/go-formwizard/pkg/ordering"
	"github.com/goliatone/go-formwizard/pkg/render"
)

// MoveRequest is a submitted reorder form. Version is the form version the
// page was rendered with.
type MoveRequest struct {
	AppID      string
	SectionID  string
	QuestionID string
	Direction  string
	Version    string
}

func (m MoveRequest) parse() (ordering.Direction, int, error) {
	if strings.TrimSpace(m.AppID) == "" || strings.TrimSpace(m.SectionID) == "" {
		return 0, 0, fmt.Errorf("%w: application and section ids are required", ErrInvalidRequest)
	}
	dir, err := ordering.ParseDirection(m.Direction)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	version, err := strconv.Atoi(strings.TrimSpace(m.Version))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: version %q", ErrInvalidRequest, m.Version)
	}
	return dir, version, nil
}

// SectionPage lists a section's questions with edit links and move controls.
func (e *Engine) SectionPage(ctx context.Context, appID, sectionID string) Outcome {
	section, err := e.gateway.GetSection(ctx, appID, sectionID)
	if err != nil {
		return e.escalate("load section", appID, sectionID, "", Continuity{BackTo: BackToDashboard}, err)
	}

	controls := ordering.Controls(len(section.Questions))
	rows := make([]render.QuestionRow, 0, len(section.Questions))
	for i, q := range section.Questions {
		label := q.ResponseType
		if def, ok := e.catalog.Lookup(q.ResponseType); ok {
			label = def.Label
		}
		rows = append(rows, render.QuestionRow{
			QuestionID:        q.QuestionID,
			Title:             q.FieldTitle,
			ResponseTypeLabel: label,
			EditLink:          StepPath(appID, sectionID, q.QuestionID, StepContent),
			MoveAction:        QuestionMovePath(appID, sectionID, q.QuestionID),
			Up:                render.MoveControl{Enabled: controls[i].Up, Direction: ordering.Up.String()},
			Down:              render.MoveControl{Enabled: controls[i].Down, Direction: ordering.Down.String()},
		})
	}

	return Page{View: render.Page{
		Template: render.TemplateSection,
		Title:    section.SectionTitle,
		BackLink: DashboardPath(appID),
		Section: &render.SectionView{
			AppID:           appID,
			SectionID:       section.SectionID,
			SectionTitle:    section.SectionTitle,
			AddQuestionLink: StepPath(appID, sectionID, "", StepContent),
			Questions:       rows,
			Hidden:          []render.HiddenField{render.VersionField(section.Version)},
		},
	}}
}

// Dashboard lists the sections of an application form with move controls.
func (e *Engine) Dashboard(ctx context.Context, appID string) Outcome {
	form, err := e.gateway.GetApplicationForm(ctx, appID)
	if err != nil {
		e.logger.Error("wizard request failed", "op", "load dashboard", "app_id", appID, "error", err)
		return Redirect{Location: ServiceError{
			ErrorInformation: messageFor(err),
			LinkAttributes:   LinkAttributes{Href: "/", LinkText: "Back to the start"},
		}.Location()}
	}

	controls := ordering.Controls(len(form.Sections))
	rows := make([]render.SectionRow, 0, len(form.Sections))
	for i, s := range form.Sections {
		rows = append(rows, render.SectionRow{
			SectionID:  s.SectionID,
			Title:      s.SectionTitle,
			Link:       SectionPath(appID, s.SectionID),
			MoveAction: SectionMovePath(appID, s.SectionID),
			Up:         render.MoveControl{Enabled: controls[i].Up, Direction: ordering.Up.String()},
			Down:       render.MoveControl{Enabled: controls[i].Down, Direction: ordering.Down.String()},
		})
	}

	return Page{View: render.Page{
		Template: render.TemplateDashboard,
		Title:    form.ApplicationName,
		Dashboard: &render.DashboardView{
			AppID:           appID,
			ApplicationName: form.ApplicationName,
			Sections:        rows,
			Hidden:          []render.HiddenField{render.VersionField(form.Version)},
		},
	}}
}

// MoveQuestion moves a question one place within its section. Moving the
// first question up or the last down changes nothing and sends nothing.
func (e *Engine) MoveQuestion(ctx context.Context, m MoveRequest) (Outcome, error) {
	dir, version, err := m.parse()
	if err != nil {
		return nil, err
	}
	back := SectionPath(m.AppID, m.SectionID)
	section, err := e.gateway.GetSection(ctx, m.AppID, m.SectionID)
	if err != nil {
		return e.escalate("move question", m.AppID, m.SectionID, m.QuestionID, Continuity{}, err), nil
	}
	position := -1
	for i, q := range section.Questions {
		if q.QuestionID == m.QuestionID {
			position = i
			break
		}
	}
	if position < 0 {
		err := &gateway.NotFoundError{Resource: "question", ID: m.QuestionID}
		return e.escalate("move question", m.AppID, m.SectionID, m.QuestionID, Continuity{}, err), nil
	}

	op := ordering.MoveQuestion(m.AppID, m.SectionID, m.QuestionID, dir, version)
	if _, err := e.mover.Move(ctx, op, position, len(section.Questions)); err != nil {
		return e.escalate("move question", m.AppID, m.SectionID, m.QuestionID, Continuity{}, err), nil
	}
	return Redirect{Location: back}, nil
}

// MoveSection moves a section one place within the form.
func (e *Engine) MoveSection(ctx context.Context, m MoveRequest) (Outcome, error) {
	dir, version, err := m.parse()
	if err != nil {
		return nil, err
	}
	dashboard := Continuity{BackTo: BackToDashboard}
	form, err := e.gateway.GetApplicationForm(ctx, m.AppID)
	if err != nil {
		return e.escalate("move section", m.AppID, m.SectionID, "", dashboard, err), nil
	}
	position := -1
	for i, s := range form.Sections {
		if s.SectionID == m.SectionID {
			position = i
			break
		}
	}
	if position < 0 {
		err := &gateway.NotFoundError{Resource: "section", ID: m.SectionID}
		return e.escalate("move section", m.AppID, m.SectionID, "", dashboard, err), nil
	}

	op := ordering.MoveSection(m.AppID, m.SectionID, dir, version)
	if _, err := e.mover.Move(ctx, op, position, len(form.Sections)); err != nil {
		return e.escalate("move section", m.AppID, m.SectionID, "", dashboard, err), nil
	}
	return Redirect{Location: DashboardPath(m.AppID)}, nil
}

// ServiceErrorPage renders the service error payload from a query.
func ServiceErrorPage(e ServiceError) Page {
	return Page{View: render.Page{
		Template: render.TemplateServiceError,
		Title:    "Sorry, there is a problem with the service",
		BackLink: e.LinkAttributes.Href,
		ServiceError: &render.ServiceErrorView{
			Message:  e.ErrorInformation,
			LinkHref: e.LinkAttributes.Href,
			LinkText: e.LinkAttributes.LinkText,
		},
	}}
}
