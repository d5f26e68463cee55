package wizard

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/draftstore"
)

// ErrInvalidRequest marks requests that cannot address a wizard step.
var ErrInvalidRequest = errors.New("wizard: invalid request")

// Request is everything one step needs from the incoming HTTP request.
type Request struct {
	SessionID  string
	AppID      string
	SectionID  string
	QuestionID string
	Step       Step
	Continuity Continuity
	Form       url.Values
}

// Workflow reports whether the request edits an existing question.
func (r Request) Workflow() Workflow {
	if r.QuestionID != "" {
		return WorkflowEdit
	}
	return WorkflowCreate
}

// Namespace is the draft namespace of the request's workflow.
func (r Request) Namespace() draftstore.Namespace {
	if r.Workflow() == WorkflowEdit {
		return draftstore.NamespaceUpdated
	}
	return draftstore.NamespaceNew
}

func (r Request) validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.AppID) == "" || strings.TrimSpace(r.SectionID) == "" {
		return fmt.Errorf("%w: application and section ids are required", ErrInvalidRequest)
	}
	if _, err := ParseStep(string(r.Step)); err != nil {
		return err
	}
	return nil
}

func (r Request) path(step Step) string {
	return StepPath(r.AppID, r.SectionID, r.QuestionID, step)
}
