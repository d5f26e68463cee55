package bootstrap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-formwizard/internal/bootstrap"
	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/pkg/draftstore"
	"github.com/goliatone/go-formwizard/pkg/draftstore/httpstore"
	"github.com/goliatone/go-formwizard/pkg/render"
)

func memoryConfig() config.Config {
	cfg := config.Default()
	cfg.DraftStore = config.DraftStoreMemory
	cfg.ValidateContract = false
	return cfg
}

func TestNewLogger_LevelAndServiceTag(t *testing.T) {
	cfg := memoryConfig()
	cfg.LogLevel = "warn"
	var buf bytes.Buffer
	logger := bootstrap.NewLogger(cfg, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "shown" || entry["service"] != cfg.ServiceID {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestNewDraftStore_Kinds(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()

	store, cleanup, err := bootstrap.NewDraftStore(ctx, cfg)
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	cleanup()
	if _, ok := store.(*draftstore.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}

	cfg.DraftStore = config.DraftStoreHTTP
	store, cleanup, err = bootstrap.NewDraftStore(ctx, cfg)
	if err != nil {
		t.Fatalf("http store: %v", err)
	}
	cleanup()
	if _, ok := store.(*httpstore.Store); !ok {
		t.Fatalf("expected http store, got %T", store)
	}

	cfg.DraftStore = "disk"
	if _, _, err := bootstrap.NewDraftStore(ctx, cfg); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}

func TestResolveTheme(t *testing.T) {
	cfg := memoryConfig()
	cfg.ThemeVariant = "high-contrast"
	got, err := bootstrap.ResolveTheme(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Theme != "govuk" || got.Variant != "high-contrast" {
		t.Fatalf("unexpected theme %+v", got)
	}

	cfg.Theme = "unknown"
	if _, err := bootstrap.ResolveTheme(cfg); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestNewRuntimeFromConfig_ServesHealth(t *testing.T) {
	cfg := memoryConfig()
	cfg.ValidateContract = true
	var logs bytes.Buffer

	rt, err := bootstrap.NewRuntimeFromConfig(context.Background(), cfg, bootstrap.NewLogger(cfg, &logs))
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}

	rec := httptest.NewRecorder()
	rt.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(logs.String(), "bootstrapping question wizard") {
		t.Fatalf("expected bootstrap log, got %q", logs.String())
	}
}

func TestNewRuntimeFromConfig_RejectsBadTheme(t *testing.T) {
	cfg := memoryConfig()
	cfg.Theme = "missing"
	if _, err := bootstrap.NewRuntimeFromConfig(context.Background(), cfg, bootstrap.NewLogger(cfg, &bytes.Buffer{})); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestNewRenderers_RegistersHTMLAndTerminal(t *testing.T) {
	cfg := memoryConfig()
	registry, err := bootstrap.NewRenderers(cfg)
	if err != nil {
		t.Fatalf("renderers: %v", err)
	}
	if got := strings.Join(registry.List(), ","); got != "govuk,tui" {
		t.Fatalf("unexpected renderers %q", got)
	}

	renderer, err := bootstrap.HTTPRenderer(cfg, registry)
	if err != nil {
		t.Fatalf("http renderer: %v", err)
	}
	if renderer.Name() != "govuk" {
		t.Fatalf("expected govuk renderer, got %q", renderer.Name())
	}

	cfg.Renderer = "tui"
	if _, err := bootstrap.HTTPRenderer(cfg, registry); err == nil {
		t.Fatalf("expected terminal renderer rejected for http")
	}
}

func TestNewRuntimeFromConfig_RejectsUnknownRenderer(t *testing.T) {
	cfg := memoryConfig()
	cfg.Renderer = "pdf"
	_, err := bootstrap.NewRuntimeFromConfig(context.Background(), cfg, bootstrap.NewLogger(cfg, &bytes.Buffer{}))
	if !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected unknown renderer error, got %v", err)
	}
}
