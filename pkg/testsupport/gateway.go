package testsupport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/gateway"
)

// Call records one request received by FakeGateway.
type Call struct {
	Method     string
	AppID      string
	SectionID  string
	QuestionID string
	Payload    gateway.QuestionPayload
	Increment  int
	Version    int
}

// FakeGateway is an in-memory gateway.Gateway. Reorders enforce the form
// version the same way the backend does and bump it on success.
type FakeGateway struct {
	mu       sync.Mutex
	form     gateway.ApplicationForm
	sections map[string]gateway.Section
	nextID   int
	calls    []Call
	reads    []Call

	// Errors injected per operation, returned before any state change.
	GetErr     error
	CreateErr  error
	PatchErr   error
	ReorderErr error
}

var _ gateway.Gateway = (*FakeGateway)(nil)

// NewFakeGateway returns a fake seeded with SampleForm and SampleSections.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		form:     SampleForm(),
		sections: SampleSections(),
		nextID:   100,
	}
}

// Calls returns the recorded writes.
func (f *FakeGateway) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Reads returns the recorded reads, in order.
func (f *FakeGateway) Reads() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.reads...)
}

// Version returns the current form version.
func (f *FakeGateway) Version() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form.Version
}

func (f *FakeGateway) GetApplicationForm(_ context.Context, appID string) (gateway.ApplicationForm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, Call{Method: "get-form", AppID: appID})
	if f.GetErr != nil {
		return gateway.ApplicationForm{}, f.GetErr
	}
	if appID != f.form.ApplicationID {
		return gateway.ApplicationForm{}, &gateway.NotFoundError{Resource: "application form", ID: appID}
	}
	out := f.form
	out.Sections = append([]gateway.SectionSummary(nil), f.form.Sections...)
	return out, nil
}

func (f *FakeGateway) GetSection(_ context.Context, appID, sectionID string) (gateway.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, Call{Method: "get-section", AppID: appID, SectionID: sectionID})
	if f.GetErr != nil {
		return gateway.Section{}, f.GetErr
	}
	section, err := f.section(appID, sectionID)
	if err != nil {
		return gateway.Section{}, err
	}
	section.Version = f.form.Version
	section.Questions = append([]gateway.Question(nil), section.Questions...)
	return section, nil
}

func (f *FakeGateway) GetQuestion(_ context.Context, appID, sectionID, questionID string) (gateway.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, Call{Method: "get-question", AppID: appID, SectionID: sectionID, QuestionID: questionID})
	if f.GetErr != nil {
		return gateway.Question{}, f.GetErr
	}
	section, err := f.section(appID, sectionID)
	if err != nil {
		return gateway.Question{}, err
	}
	for _, q := range section.Questions {
		if q.QuestionID == questionID {
			q.Options = append([]string(nil), q.Options...)
			return q, nil
		}
	}
	return gateway.Question{}, &gateway.NotFoundError{Resource: "question", ID: questionID}
}

func (f *FakeGateway) CreateQuestion(_ context.Context, appID, sectionID string, payload gateway.QuestionPayload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: "create", AppID: appID, SectionID: sectionID, Payload: payload})
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	section, err := f.section(appID, sectionID)
	if err != nil {
		return "", err
	}
	f.nextID++
	id := "q-" + strconv.Itoa(f.nextID)
	q := gateway.Question{
		QuestionID:     id,
		FieldTitle:     payload.FieldTitle,
		HintText:       payload.HintText,
		DisplayText:    payload.DisplayText,
		QuestionSuffix: payload.QuestionSuffix,
		ResponseType:   payload.ResponseType,
		Options:        payload.Options,
	}
	if payload.Validation != nil {
		q.Validation = *payload.Validation
	}
	section.Questions = append(section.Questions, q)
	f.sections[sectionID] = section
	return id, nil
}

func (f *FakeGateway) PatchQuestion(_ context.Context, appID, sectionID, questionID string, payload gateway.QuestionPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: "patch", AppID: appID, SectionID: sectionID, QuestionID: questionID, Payload: payload})
	if f.PatchErr != nil {
		return f.PatchErr
	}
	section, err := f.section(appID, sectionID)
	if err != nil {
		return err
	}
	present, err := wireKeys(payload)
	if err != nil {
		return err
	}
	for i, q := range section.Questions {
		if q.QuestionID != questionID {
			continue
		}
		if present["fieldTitle"] {
			q.FieldTitle = payload.FieldTitle
		}
		if present["responseType"] {
			q.ResponseType = payload.ResponseType
		}
		if present["hintText"] {
			q.HintText = payload.HintText
		}
		if present["displayText"] {
			q.DisplayText = payload.DisplayText
		}
		if present["questionSuffix"] {
			q.QuestionSuffix = payload.QuestionSuffix
		}
		if present["validation"] {
			q.Validation = *payload.Validation
		}
		if present["options"] {
			q.Options = append([]string(nil), payload.Options...)
		}
		section.Questions[i] = q
		return nil
	}
	return &gateway.NotFoundError{Resource: "question", ID: questionID}
}

// wireKeys reports which keys payload carries on the wire. Patch applies only
// those, like the real backend.
func wireKeys(payload gateway.QuestionPayload) (map[string]bool, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("testsupport: encode payload: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("testsupport: decode payload: %w", err)
	}
	out := make(map[string]bool, len(fields))
	for k := range fields {
		out[k] = true
	}
	return out, nil
}

func (f *FakeGateway) ReorderQuestion(_ context.Context, appID, sectionID, questionID string, increment, version int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: "reorder-question", AppID: appID, SectionID: sectionID, QuestionID: questionID, Increment: increment, Version: version})
	if err := f.checkReorder("reorder question", version); err != nil {
		return err
	}
	section, err := f.section(appID, sectionID)
	if err != nil {
		return err
	}
	for i, q := range section.Questions {
		if q.QuestionID != questionID {
			continue
		}
		j := i + increment
		if j < 0 || j >= len(section.Questions) {
			return &gateway.TransportError{Op: "reorder question", Status: http.StatusBadRequest}
		}
		section.Questions[i], section.Questions[j] = section.Questions[j], section.Questions[i]
		f.form.Version++
		return nil
	}
	return &gateway.NotFoundError{Resource: "question", ID: questionID}
}

func (f *FakeGateway) ReorderSection(_ context.Context, appID, sectionID string, increment, version int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: "reorder-section", AppID: appID, SectionID: sectionID, Increment: increment, Version: version})
	if err := f.checkReorder("reorder section", version); err != nil {
		return err
	}
	if appID != f.form.ApplicationID {
		return &gateway.NotFoundError{Resource: "application form", ID: appID}
	}
	for i, s := range f.form.Sections {
		if s.SectionID != sectionID {
			continue
		}
		j := i + increment
		if j < 0 || j >= len(f.form.Sections) {
			return &gateway.TransportError{Op: "reorder section", Status: http.StatusBadRequest}
		}
		f.form.Sections[i], f.form.Sections[j] = f.form.Sections[j], f.form.Sections[i]
		f.form.Version++
		return nil
	}
	return &gateway.NotFoundError{Resource: "section", ID: sectionID}
}

func (f *FakeGateway) checkReorder(op string, version int) error {
	if f.ReorderErr != nil {
		return f.ReorderErr
	}
	if version != f.form.Version {
		return &gateway.TransportError{
			Op:     op,
			Status: http.StatusConflict,
			Err:    fmt.Errorf("%w: expected %d, stored %d", gateway.ErrVersionConflict, version, f.form.Version),
		}
	}
	return nil
}

func (f *FakeGateway) section(appID, sectionID string) (gateway.Section, error) {
	if appID != f.form.ApplicationID {
		return gateway.Section{}, &gateway.NotFoundError{Resource: "application form", ID: appID}
	}
	section, ok := f.sections[sectionID]
	if !ok {
		return gateway.Section{}, &gateway.NotFoundError{Resource: "section", ID: sectionID}
	}
	return section, nil
}
