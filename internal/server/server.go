package server

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/components/responsetypes"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const (
	defaultCookieName = "session_id"
	defaultMaxForm    = 1 << 20
)

type Option func(*Server)

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCookieName names the session cookie.
func WithCookieName(name string) Option {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			s.cookieName = trimmed
		}
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(s *Server) {
		s.secureCookie = secure
	}
}

// WithTheme sets the theme configuration passed to every render.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithAssets serves files under /assets/.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		s.assets = files
	}
}

// WithMaxFormBytes caps the size of submitted forms.
func WithMaxFormBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxForm = n
		}
	}
}

// Server is the HTTP adapter of the wizard engine.
type Server struct {
	engine       *wizard.Engine
	renderer     render.Renderer
	logger       *slog.Logger
	cookieName   string
	secureCookie bool
	theme        *theme.RendererConfig
	assets       fs.FS
	maxForm      int64
	router       chi.Router
}

// New wires the router. engine and renderer are required.
func New(engine *wizard.Engine, renderer render.Renderer, options ...Option) (*Server, error) {
	if engine == nil {
		return nil, errors.New("server: engine is required")
	}
	if renderer == nil {
		return nil, errors.New("server: renderer is required")
	}
	s := &Server{
		engine:     engine,
		renderer:   renderer,
		logger:     slog.Default(),
		cookieName: defaultCookieName,
		maxForm:    defaultMaxForm,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = s.logger.With("module", "http")

	router, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.router = router
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() (chi.Router, error) {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.recoverPanics)
	r.Use(s.logRequests)

	r.Get("/healthz", s.healthz)
	if s.assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))
	}

	types := responsetypes.New(
		responsetypes.WithCatalog(s.engine.Catalog()),
		responsetypes.WithEmptySearchMode(responsetypes.EmptySearchAll),
	)
	if _, err := types.RegisterRoutes(r, ""); err != nil {
		return nil, err
	}

	r.Get("/service-error", s.serviceError)

	r.Route("/build-application/{appId}", func(r chi.Router) {
		r.Use(s.session)

		r.Get("/dashboard", s.dashboard)
		r.Get("/{sectionId}", s.section)
		r.Post("/{sectionId}/move", s.moveSection)
		r.Get("/{sectionId}/{step}", s.step)
		r.Post("/{sectionId}/{step}", s.step)
		r.Post("/{sectionId}/{questionId}/move", s.moveQuestion)
		r.Get("/{sectionId}/{questionId}/edit/{step}", s.step)
		r.Post("/{sectionId}/{questionId}/edit/{step}", s.step)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeStatus(w, http.StatusNotFound)
	})
	return r, nil
}
