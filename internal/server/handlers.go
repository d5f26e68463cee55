package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) serviceError(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, wizard.ServiceErrorPage(wizard.ParseServiceError(r.URL.Query())), nil)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.engine.Dashboard(r.Context(), param(r, "appId")), nil)
}

func (s *Server) section(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.engine.SectionPage(r.Context(), param(r, "appId"), param(r, "sectionId")), nil)
}

func (s *Server) step(w http.ResponseWriter, r *http.Request) {
	step, err := wizard.ParseStep(param(r, "step"))
	if err != nil {
		s.respond(w, r, nil, err)
		return
	}
	req := wizard.Request{
		SessionID:  sessionIDFromContext(r.Context()),
		AppID:      param(r, "appId"),
		SectionID:  param(r, "sectionId"),
		QuestionID: param(r, "questionId"),
		Step:       step,
		Continuity: wizard.ParseContinuity(r.URL.Query()),
	}

	if r.Method != http.MethodPost {
		out, err := s.engine.Load(r.Context(), req)
		s.respond(w, r, out, err)
		return
	}
	if req.Form, err = s.readForm(w, r); err != nil {
		s.respond(w, r, nil, err)
		return
	}
	out, err := s.engine.Submit(r.Context(), req)
	s.respond(w, r, out, err)
}

func (s *Server) moveSection(w http.ResponseWriter, r *http.Request) {
	s.move(w, r, s.engine.MoveSection)
}

func (s *Server) moveQuestion(w http.ResponseWriter, r *http.Request) {
	s.move(w, r, s.engine.MoveQuestion)
}

func (s *Server) move(w http.ResponseWriter, r *http.Request, apply func(context.Context, wizard.MoveRequest) (wizard.Outcome, error)) {
	form, err := s.readForm(w, r)
	if err != nil {
		s.respond(w, r, nil, err)
		return
	}
	out, err := apply(r.Context(), wizard.MoveRequest{
		AppID:      param(r, "appId"),
		SectionID:  param(r, "sectionId"),
		QuestionID: param(r, "questionId"),
		Direction:  form.Get("direction"),
		Version:    form.Get(render.VersionFieldName),
	})
	s.respond(w, r, out, err)
}

var errFormTooLarge = errors.New("server: form too large")

func (s *Server) readForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxForm)
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errFormTooLarge
		}
		return nil, errors.Join(wizard.ErrInvalidRequest, err)
	}
	return r.PostForm, nil
}

// respond writes an outcome: redirects use 302 and pages go through the
// renderer with the request's theme and id.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, out wizard.Outcome, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	switch o := out.(type) {
	case wizard.Redirect:
		http.Redirect(w, r, o.Location, http.StatusFound)
	case wizard.Page:
		body, err := s.renderer.Render(r.Context(), o.View, render.RenderOptions{
			Theme:     s.theme,
			RequestID: requestIDFromContext(r.Context()),
		})
		if err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", s.renderer.ContentType())
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write(body)
		}
	default:
		s.fail(w, r, errors.New("server: engine returned no outcome"))
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := mapError(err)
	fields := []any{
		"operation", "wizard_request",
		"outcome", "failure",
		"status_code", status,
		"request_id", requestIDFromContext(r.Context()),
		"error", err.Error(),
	}
	if status >= 500 {
		s.logger.ErrorContext(r.Context(), "wizard request failed", fields...)
	} else {
		s.logger.WarnContext(r.Context(), "wizard request failed", fields...)
	}
	s.writeStatus(w, status)
}

func (s *Server) writeStatus(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func mapError(err error) int {
	switch {
	case errors.Is(err, errFormTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, wizard.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// param returns a decoded route parameter. chi matches on the escaped path
// when one is present.
func param(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
