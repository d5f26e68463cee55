package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/internal/server"
	"github.com/goliatone/go-formwizard/pkg/renderers/govuk"
)

// Runtime owns the HTTP server and the resources behind it.
type Runtime struct {
	cfg        config.Config
	logger     *slog.Logger
	httpServer *http.Server
	cleanupFn  func()
}

// NewRuntime loads configPath and wires the HTTP server.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return NewRuntimeFromConfig(ctx, cfg, NewLogger(cfg, nil))
}

// NewRuntimeFromConfig wires the HTTP server from a resolved config.
func NewRuntimeFromConfig(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	logger.Info("bootstrapping question wizard",
		"http_port", cfg.HTTPPort,
		"draft_store", cfg.DraftStore,
		"backend_url", cfg.BackendURL,
		"renderer", cfg.Renderer,
	)

	engine, cleanup, err := NewEngine(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	registry, err := NewRenderers(cfg)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("init renderers: %w", err)
	}
	renderer, err := HTTPRenderer(cfg, registry)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("select renderer: %w", err)
	}
	themeCfg, err := ResolveTheme(cfg)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("resolve theme: %w", err)
	}

	srv, err := server.New(engine, renderer,
		server.WithLogger(logger),
		server.WithCookieName(cfg.SessionCookie),
		server.WithSecureCookie(cfg.SecureCookie),
		server.WithTheme(themeCfg),
		server.WithAssets(govuk.AssetsFS()),
	)
	if err != nil {
		cleanup()
		return nil, err
	}

	return &Runtime{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           srv.Handler(),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		cleanupFn: cleanup,
	}, nil
}

// Handler exposes the root handler.
func (r *Runtime) Handler() http.Handler {
	return r.httpServer.Handler
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down within the configured timeout.
func (r *Runtime) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer r.cleanupFn()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		r.logger.Error("server failure", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.ShutdownTimeout)
	defer cancel()
	if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("http shutdown incomplete", "error", err)
	}
	r.logger.Info("question wizard stopped")
	return runErr
}
