package wizard

import (
	"fmt"
	"net/url"
	"strings"
)

// Step is one wizard page.
type Step string

const (
	StepContent   Step = "question-content"
	StepType      Step = "question-type"
	StepOptions   Step = "question-options"
	StepWordLimit Step = "add-word-count"
)

// ParseStep validates a step path segment.
func ParseStep(raw string) (Step, error) {
	switch s := Step(strings.TrimSpace(raw)); s {
	case StepContent, StepType, StepOptions, StepWordLimit:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown step %q", ErrInvalidRequest, raw)
	}
}

// Workflow distinguishes creating a question from editing one.
type Workflow string

const (
	WorkflowCreate Workflow = "create"
	WorkflowEdit   Workflow = "edit"
)

const (
	basePath         = "/build-application"
	ServiceErrorPath = "/service-error"
)

// SectionPath is the section page listing its questions.
func SectionPath(appID, sectionID string) string {
	return basePath + "/" + url.PathEscape(appID) + "/" + url.PathEscape(sectionID)
}

// DashboardPath is the application form dashboard.
func DashboardPath(appID string) string {
	return basePath + "/" + url.PathEscape(appID) + "/dashboard"
}

// StepPath is the path of a step. Edit paths carry the question id.
func StepPath(appID, sectionID, questionID string, step Step) string {
	if questionID == "" {
		return SectionPath(appID, sectionID) + "/" + string(step)
	}
	return SectionPath(appID, sectionID) + "/" + url.PathEscape(questionID) + "/edit/" + string(step)
}

// QuestionMovePath receives question reorder posts.
func QuestionMovePath(appID, sectionID, questionID string) string {
	return SectionPath(appID, sectionID) + "/" + url.PathEscape(questionID) + "/move"
}

// SectionMovePath receives section reorder posts.
func SectionMovePath(appID, sectionID string) string {
	return SectionPath(appID, sectionID) + "/move"
}

// ReturnTarget is where a run ends: the dashboard when it started there,
// otherwise the section page.
func ReturnTarget(appID, sectionID string, c Continuity) string {
	if c.ToDashboard() {
		return DashboardPath(appID)
	}
	return SectionPath(appID, sectionID)
}
