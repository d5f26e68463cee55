package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/internal/contract"
	"github.com/goliatone/go-formwizard/pkg/draftstore"
	"github.com/goliatone/go-formwizard/pkg/draftstore/httpstore"
	"github.com/goliatone/go-formwizard/pkg/draftstore/redisstore"
	"github.com/goliatone/go-formwizard/pkg/gateway"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/govuk"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// NewLogger returns a JSON logger at the configured level tagged with the
// service id.
func NewLogger(cfg config.Config, out io.Writer) *slog.Logger {
	if out == nil {
		out = os.Stdout
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})).
		With("service", cfg.ServiceID)
}

// NewEngine builds the gateway, the draft store and the engine. The returned
// cleanup releases store connections.
func NewEngine(ctx context.Context, cfg config.Config, logger *slog.Logger) (*wizard.Engine, func(), error) {
	gwOpts := []gateway.Option{gateway.WithTimeout(cfg.BackendTimeout)}
	if cfg.ValidateContract {
		validator, err := contract.Default(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load backend contract: %w", err)
		}
		gwOpts = append(gwOpts, gateway.WithContract(validator))
	}
	gw, err := gateway.New(cfg.BackendURL, gwOpts...)
	if err != nil {
		return nil, nil, err
	}

	drafts, cleanup, err := NewDraftStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	engine, err := wizard.New(gw, drafts,
		wizard.WithLogger(logger),
		wizard.WithTextSanitizer(render.SanitizeText),
		wizard.WithMarkupSanitizer(render.SanitizeMarkup),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return engine, cleanup, nil
}

// NewDraftStore opens the configured draft store.
func NewDraftStore(ctx context.Context, cfg config.Config) (draftstore.Store, func(), error) {
	noop := func() {}
	switch cfg.DraftStore {
	case config.DraftStoreMemory:
		return draftstore.NewMemoryStore(), noop, nil
	case config.DraftStoreRedis:
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return redisstore.New(client, redisstore.WithTTL(cfg.DraftTTL)), func() { _ = client.Close() }, nil
	case config.DraftStoreHTTP:
		store, err := httpstore.New(cfg.SessionsURL,
			httpstore.WithCookieName(cfg.SessionCookie),
			httpstore.WithTimeout(cfg.SessionsTimeout),
		)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown draft store %q", cfg.DraftStore)
	}
}

// NewRenderer builds the GOV.UK renderer, reading templates from disk when
// a directory is configured.
func NewRenderer(cfg config.Config) (*govuk.Renderer, error) {
	return govuk.New(
		govuk.WithTemplatesDir(cfg.TemplatesDir),
		govuk.WithServiceName(cfg.ServiceName),
	)
}

// NewRenderers registers every page renderer the binaries can select by
// name: the GOV.UK HTML renderer and the terminal renderer.
func NewRenderers(cfg config.Config, tuiOptions ...tui.Option) (*render.Registry, error) {
	html, err := NewRenderer(cfg)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(html, tui.New(tuiOptions...))
}

// HTTPRenderer returns the configured renderer and rejects one that does not
// produce HTML.
func HTTPRenderer(cfg config.Config, registry *render.Registry) (render.Renderer, error) {
	renderer, err := registry.Get(cfg.Renderer)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(renderer.ContentType(), "text/html") {
		return nil, fmt.Errorf("bootstrap: renderer %q cannot serve http (content type %s)", renderer.Name(), renderer.ContentType())
	}
	return renderer, nil
}

// ResolveTheme selects the configured theme once at startup.
func ResolveTheme(cfg config.Config) (*theme.RendererConfig, error) {
	themes, err := render.NewThemes(cfg.Theme, cfg.ThemeVariant, render.GOVUKManifest())
	if err != nil {
		return nil, err
	}
	selection, err := themes.Select(cfg.Theme, cfg.ThemeVariant)
	if err != nil {
		return nil, err
	}
	return render.RendererConfig(selection, nil), nil
}
