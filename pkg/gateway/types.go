package gateway

import (
	"context"
	"encoding/json"
)

// Validation is the derived validation block sent with every question write.
type Validation struct {
	Mandatory bool   `json:"mandatory"`
	MaxWords  string `json:"maxWords,omitempty"`
}

// QuestionPayload is the body of create and patch calls. The wizard always
// sends the whole merged question, so the text fields and options are written
// even when empty: the backend treats a missing key as "leave unchanged" and
// a cleared hint must reach it as "".
type QuestionPayload struct {
	FieldTitle     string      `json:"fieldTitle,omitempty"`
	ResponseType   string      `json:"responseType,omitempty"`
	HintText       string      `json:"hintText"`
	DisplayText    string      `json:"displayText"`
	QuestionSuffix string      `json:"questionSuffix"`
	Validation     *Validation `json:"validation,omitempty"`
	Options        []string    `json:"options"`
}

// MarshalJSON encodes nil Options as an empty list so a type change away from
// a choice question clears the stored options.
func (p QuestionPayload) MarshalJSON() ([]byte, error) {
	type wire QuestionPayload
	w := wire(p)
	if w.Options == nil {
		w.Options = []string{}
	}
	return json.Marshal(w)
}

// Question is a persisted question as returned by the backend.
type Question struct {
	QuestionID     string     `json:"questionId"`
	FieldTitle     string     `json:"fieldTitle"`
	HintText       string     `json:"hintText,omitempty"`
	DisplayText    string     `json:"displayText,omitempty"`
	QuestionSuffix string     `json:"questionSuffix,omitempty"`
	ResponseType   string     `json:"responseType"`
	Validation     Validation `json:"validation"`
	Options        []string   `json:"options,omitempty"`
}

// Section is one section of an application form with its ordered questions.
// Version is the optimistic-concurrency version of the owning form.
type Section struct {
	SectionID    string     `json:"sectionId"`
	SectionTitle string     `json:"sectionTitle"`
	Questions    []Question `json:"questions"`
	Version      int        `json:"version"`
}

// SectionSummary is a section entry on the form dashboard.
type SectionSummary struct {
	SectionID    string `json:"sectionId"`
	SectionTitle string `json:"sectionTitle"`
}

// ApplicationForm is the form summary shown on the dashboard.
type ApplicationForm struct {
	ApplicationID   string           `json:"applicationId"`
	ApplicationName string           `json:"applicationName"`
	Version         int              `json:"version"`
	Sections        []SectionSummary `json:"sections"`
}

// Gateway is the backend question and section service. Calls block until the
// backend answers; nothing is retried.
type Gateway interface {
	GetApplicationForm(ctx context.Context, appID string) (ApplicationForm, error)
	GetSection(ctx context.Context, appID, sectionID string) (Section, error)
	GetQuestion(ctx context.Context, appID, sectionID, questionID string) (Question, error)
	CreateQuestion(ctx context.Context, appID, sectionID string, payload QuestionPayload) (string, error)
	PatchQuestion(ctx context.Context, appID, sectionID, questionID string, payload QuestionPayload) error
	ReorderQuestion(ctx context.Context, appID, sectionID, questionID string, increment, version int) error
	ReorderSection(ctx context.Context, appID, sectionID string, increment, version int) error
}
