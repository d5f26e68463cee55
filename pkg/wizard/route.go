package wizard

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/render"
)

// Route identifies the kind of page a location addresses.
type Route string

const (
	RouteStep         Route = "step"
	RouteSection      Route = "section"
	RouteDashboard    Route = "dashboard"
	RouteQuestionMove Route = "question-move"
	RouteSectionMove  Route = "section-move"
	RouteServiceError Route = "service-error"
)

// Location is a parsed wizard URL.
type Location struct {
	Route      Route
	AppID      string
	SectionID  string
	QuestionID string
	Step       Step
	Query      url.Values
}

// ParseLocation resolves a path produced by this package (StepPath,
// SectionPath, DashboardPath, the move paths or a service error location).
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	loc := Location{Query: u.Query()}
	if u.Path == ServiceErrorPath {
		loc.Route = RouteServiceError
		return loc, nil
	}

	rest, ok := strings.CutPrefix(u.EscapedPath(), basePath+"/")
	if !ok {
		return Location{}, fmt.Errorf("%w: unknown path %q", ErrInvalidRequest, u.Path)
	}
	segments := strings.Split(strings.Trim(rest, "/"), "/")
	for i, s := range segments {
		unescaped, err := url.PathUnescape(s)
		if err != nil || unescaped == "" {
			return Location{}, fmt.Errorf("%w: bad path segment %q", ErrInvalidRequest, s)
		}
		segments[i] = unescaped
	}

	loc.AppID = segments[0]
	switch {
	case len(segments) == 2 && segments[1] == "dashboard":
		loc.Route = RouteDashboard
	case len(segments) == 2:
		loc.Route, loc.SectionID = RouteSection, segments[1]
	case len(segments) == 3 && segments[2] == "move":
		loc.Route, loc.SectionID = RouteSectionMove, segments[1]
	case len(segments) == 3:
		step, err := ParseStep(segments[2])
		if err != nil {
			return Location{}, err
		}
		loc.Route, loc.SectionID, loc.Step = RouteStep, segments[1], step
	case len(segments) == 4 && segments[3] == "move":
		loc.Route, loc.SectionID, loc.QuestionID = RouteQuestionMove, segments[1], segments[2]
	case len(segments) == 5 && segments[3] == "edit":
		step, err := ParseStep(segments[4])
		if err != nil {
			return Location{}, err
		}
		loc.Route, loc.SectionID, loc.QuestionID, loc.Step = RouteStep, segments[1], segments[2], step
	default:
		return Location{}, fmt.Errorf("%w: unknown path %q", ErrInvalidRequest, u.Path)
	}
	return loc, nil
}

// Dispatch routes one in-process request to the matching engine operation.
// It backs clients that follow redirects without an HTTP server, such as the
// terminal wizard.
func (e *Engine) Dispatch(ctx context.Context, sessionID, method, target string, form url.Values) (Outcome, error) {
	loc, err := ParseLocation(target)
	if err != nil {
		return nil, err
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	get, post := method == http.MethodGet, method == http.MethodPost

	switch {
	case loc.Route == RouteStep && (get || post):
		req := Request{
			SessionID:  sessionID,
			AppID:      loc.AppID,
			SectionID:  loc.SectionID,
			QuestionID: loc.QuestionID,
			Step:       loc.Step,
			Continuity: ParseContinuity(loc.Query),
			Form:       form,
		}
		if get {
			return e.Load(ctx, req)
		}
		return e.Submit(ctx, req)
	case loc.Route == RouteSection && get:
		return e.SectionPage(ctx, loc.AppID, loc.SectionID), nil
	case loc.Route == RouteDashboard && get:
		return e.Dashboard(ctx, loc.AppID), nil
	case loc.Route == RouteQuestionMove && post:
		return e.MoveQuestion(ctx, moveRequest(loc, form))
	case loc.Route == RouteSectionMove && post:
		return e.MoveSection(ctx, moveRequest(loc, form))
	case loc.Route == RouteServiceError && get:
		return ServiceErrorPage(ParseServiceError(loc.Query)), nil
	default:
		return nil, fmt.Errorf("%w: %s not allowed on %s", ErrInvalidRequest, method, loc.Route)
	}
}

func moveRequest(loc Location, form url.Values) MoveRequest {
	return MoveRequest{
		AppID:      loc.AppID,
		SectionID:  loc.SectionID,
		QuestionID: loc.QuestionID,
		Direction:  form.Get("direction"),
		Version:    form.Get(render.VersionFieldName),
	}
}
