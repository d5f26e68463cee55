package testsupport

import (
	"bytes"
	"io"
	"testing"

	"github.com/goliatone/go-formwizard/pkg/gateway"
)

// Fixture identifiers shared by package tests.
const (
	AppID          = "app-1"
	SectionID      = "sec-1"
	OtherSectionID = "sec-2"
	SessionID      = "session-1"
)

// SampleForm returns the application form summary used across tests.
func SampleForm() gateway.ApplicationForm {
	return gateway.ApplicationForm{
		ApplicationID:   AppID,
		ApplicationName: "Community Fund 2026",
		Version:         1,
		Sections: []gateway.SectionSummary{
			{SectionID: SectionID, SectionTitle: "Eligibility"},
			{SectionID: OtherSectionID, SectionTitle: "Project details"},
			{SectionID: "sec-3", SectionTitle: "Declarations"},
		},
	}
}

// SampleSections returns the sections of SampleForm keyed by id. Questions in
// sec-1 cover a plain type, a multi-choice type and a word-limited type.
func SampleSections() map[string]gateway.Section {
	return map[string]gateway.Section{
		SectionID: {
			SectionID:    SectionID,
			SectionTitle: "Eligibility",
			Version:      1,
			Questions: []gateway.Question{
				{
					QuestionID:   "q-1",
					FieldTitle:   "What is your organisation called?",
					ResponseType: "ShortAnswer",
					Validation:   gateway.Validation{Mandatory: true},
				},
				{
					QuestionID:   "q-2",
					FieldTitle:   "What type of organisation are you?",
					HintText:     "Choose the closest match",
					ResponseType: "Dropdown",
					Validation:   gateway.Validation{Mandatory: true},
					Options:      []string{"Charity", "Company"},
				},
				{
					QuestionID:   "q-3",
					FieldTitle:   "Describe your project",
					ResponseType: "LongAnswer",
					Validation:   gateway.Validation{Mandatory: false, MaxWords: "500"},
				},
			},
		},
		OtherSectionID: {
			SectionID:    OtherSectionID,
			SectionTitle: "Project details",
			Version:      1,
		},
		"sec-3": {
			SectionID:    "sec-3",
			SectionTitle: "Declarations",
			Version:      1,
		},
	}
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
