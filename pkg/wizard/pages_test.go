package wizard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func move(t *testing.T, engine *wizard.Engine, questionID, direction, version string) string {
	t.Helper()
	out, err := engine.MoveQuestion(context.Background(), wizard.MoveRequest{
		AppID:      testsupport.AppID,
		SectionID:  testsupport.SectionID,
		QuestionID: questionID,
		Direction:  direction,
		Version:    version,
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	return redirectTo(t, out)
}

func TestMoveQuestion_GuardVersionAndConflict(t *testing.T) {
	engine, gw, _ := newEngine(t)

	if loc := move(t, engine, "q-1", "up", "1"); loc != "/build-application/app-1/sec-1" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if calls := gw.Calls(); len(calls) != 0 {
		t.Fatalf("expected first-up move not submitted, got %+v", calls)
	}

	if loc := move(t, engine, "q-2", "up", "1"); loc != "/build-application/app-1/sec-1" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	want := []testsupport.Call{{
		Method:     "reorder-question",
		AppID:      testsupport.AppID,
		SectionID:  testsupport.SectionID,
		QuestionID: "q-2",
		Increment:  -1,
		Version:    1,
	}}
	if diff := cmp.Diff(want, gw.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}

	loc := move(t, engine, "q-3", "up", "1")
	got := serviceError(t, loc)
	if got.ErrorInformation != wizard.MessageConflict {
		t.Fatalf("expected conflict message, got %q", got.ErrorInformation)
	}
	if got.LinkAttributes.Href != "/build-application/app-1/sec-1" {
		t.Fatalf("unexpected return link %q", got.LinkAttributes.Href)
	}
}

func TestMoveQuestion_RejectsMalformedForm(t *testing.T) {
	engine, gw, _ := newEngine(t)

	_, err := engine.MoveQuestion(context.Background(), wizard.MoveRequest{
		AppID: testsupport.AppID, SectionID: testsupport.SectionID, QuestionID: "q-2",
		Direction: "sideways", Version: "1",
	})
	if !errors.Is(err, wizard.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	_, err = engine.MoveQuestion(context.Background(), wizard.MoveRequest{
		AppID: testsupport.AppID, SectionID: testsupport.SectionID, QuestionID: "q-2",
		Direction: "up",
	})
	if !errors.Is(err, wizard.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing version, got %v", err)
	}
	if calls := gw.Calls(); len(calls) != 0 {
		t.Fatalf("expected no backend calls, got %+v", calls)
	}
}

func TestMoveSection_LastDownIsNoop(t *testing.T) {
	engine, gw, _ := newEngine(t)

	out, err := engine.MoveSection(context.Background(), wizard.MoveRequest{
		AppID: testsupport.AppID, SectionID: "sec-3", Direction: "down", Version: "1",
	})
	if err != nil {
		t.Fatalf("move section: %v", err)
	}
	if loc := redirectTo(t, out); loc != "/build-application/app-1/dashboard" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if calls := gw.Calls(); len(calls) != 0 {
		t.Fatalf("expected no backend calls, got %+v", calls)
	}

	out, err = engine.MoveSection(context.Background(), wizard.MoveRequest{
		AppID: testsupport.AppID, SectionID: testsupport.OtherSectionID, Direction: "up", Version: "1",
	})
	if err != nil {
		t.Fatalf("move section: %v", err)
	}
	redirectTo(t, out)
	if gw.Version() != 2 {
		t.Fatalf("expected version bumped to 2, got %d", gw.Version())
	}
}

func TestSectionPage_ListsQuestionsWithControls(t *testing.T) {
	engine, _, _ := newEngine(t)

	page := pageOf(t, engine.SectionPage(context.Background(), testsupport.AppID, testsupport.SectionID))
	if page.Template != render.TemplateSection || page.Section == nil {
		t.Fatalf("expected section page, got %+v", page)
	}

	type row struct {
		ID, Label string
		Up, Down  bool
	}
	var got []row
	for _, q := range page.Section.Questions {
		got = append(got, row{ID: q.QuestionID, Label: q.ResponseTypeLabel, Up: q.Up.Enabled, Down: q.Down.Enabled})
	}
	want := []row{
		{ID: "q-1", Label: "Short answer", Up: false, Down: true},
		{ID: "q-2", Label: "Multiple choice", Up: true, Down: true},
		{ID: "q-3", Label: "Long answer", Up: true, Down: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]render.HiddenField{{Name: "version", Value: "1"}}, page.Section.Hidden); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
	if page.Section.Questions[1].EditLink != "/build-application/app-1/sec-1/q-2/edit/question-content" {
		t.Fatalf("unexpected edit link %q", page.Section.Questions[1].EditLink)
	}
}

func TestDashboard_FailureRedirects(t *testing.T) {
	engine, _, _ := newEngine(t)

	loc := redirectTo(t, engine.Dashboard(context.Background(), "app-unknown"))
	if got := serviceError(t, loc); got.ErrorInformation != wizard.MessageNotFound {
		t.Fatalf("unexpected message %q", got.ErrorInformation)
	}

	page := pageOf(t, engine.Dashboard(context.Background(), testsupport.AppID))
	if len(page.Dashboard.Sections) != 3 || page.Dashboard.Sections[0].Up.Enabled {
		t.Fatalf("unexpected dashboard %+v", page.Dashboard)
	}
}
