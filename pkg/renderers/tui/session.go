package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Dispatcher routes an in-process request. *wizard.Engine implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, sessionID, method, target string, form url.Values) (wizard.Outcome, error)
}

// Session walks the wizard in the terminal, following redirects the way a
// browser would.
type Session struct {
	engine    Dispatcher
	renderer  render.Renderer
	sessionID string
	options   render.RenderOptions
	logger    *slog.Logger
	// maxHops bounds consecutive redirects without a page.
	maxHops int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRenderOptions sets the options passed to every Render call.
func WithRenderOptions(options render.RenderOptions) SessionOption {
	return func(s *Session) {
		s.options = options
	}
}

// WithSessionLogger overrides the discard logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession binds an engine and renderer to one draft session id.
func NewSession(engine Dispatcher, renderer render.Renderer, sessionID string, options ...SessionOption) (*Session, error) {
	if engine == nil || renderer == nil {
		return nil, errors.New("tui: engine and renderer are required")
	}
	if sessionID == "" {
		return nil, errors.New("tui: session id is required")
	}
	if renderer.ContentType() != SubmissionContentType {
		return nil, fmt.Errorf("tui: renderer %q does not return submissions", renderer.Name())
	}
	s := &Session{
		engine:    engine,
		renderer:  renderer,
		sessionID: sessionID,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxHops:   10,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Run starts at location and returns when the user quits. ErrAborted is
// returned on interrupt.
func (s *Session) Run(ctx context.Context, start string) error {
	method, target, form := http.MethodGet, start, url.Values(nil)
	hops := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.logger.Debug("dispatch", "method", method, "target", target)

		out, err := s.engine.Dispatch(ctx, s.sessionID, method, target, form)
		if errors.Is(err, wizard.ErrInvalidRequest) && method == http.MethodGet && target != start {
			s.logger.Warn("unroutable location, returning to start", "target", target, "error", err)
			method, target, form = http.MethodGet, start, nil
			continue
		}
		if err != nil {
			return fmt.Errorf("tui: %s %s: %w", method, target, err)
		}

		switch o := out.(type) {
		case wizard.Redirect:
			hops++
			if hops > s.maxHops {
				return fmt.Errorf("tui: too many redirects ending at %s", o.Location)
			}
			method, target, form = http.MethodGet, o.Location, nil
		case wizard.Page:
			hops = 0
			raw, err := s.renderer.Render(ctx, o.View, s.options)
			if err != nil {
				return err
			}
			sub, err := DecodeSubmission(raw)
			if err != nil {
				return err
			}
			if sub.Quit() {
				return nil
			}
			method, target, form = sub.Method, sub.Target, sub.Form
		default:
			return fmt.Errorf("tui: unexpected outcome %T", out)
		}
	}
}
