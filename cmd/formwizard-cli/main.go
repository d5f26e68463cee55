package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formwizard/internal/bootstrap"
	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "configuration file (optional)")
	appID := flag.String("app", "", "application form id")
	start := flag.String("start", "", "wizard path to open (defaults to the application dashboard)")
	sessionID := flag.String("session", "", "draft session id (random when empty)")
	rendererName := flag.String("renderer", tui.Name, "registered renderer that prompts for each page")
	flag.Parse()

	target := strings.TrimSpace(*start)
	if target == "" {
		if strings.TrimSpace(*appID) == "" {
			log.Fatalf("either -app or -start is required")
		}
		target = wizard.DashboardPath(strings.TrimSpace(*appID))
	}
	session := strings.TrimSpace(*sessionID)
	if session == "" {
		session = uuid.NewString()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := bootstrap.NewLogger(cfg, os.Stderr)

	ctx := context.Background()
	engine, cleanup, err := bootstrap.NewEngine(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("init wizard: %v", err)
	}
	defer cleanup()

	registry, err := bootstrap.NewRenderers(cfg)
	if err != nil {
		log.Fatalf("init renderers: %v", err)
	}
	renderer, err := registry.Get(*rendererName)
	if err != nil {
		log.Fatalf("select renderer: %v", err)
	}

	runner, err := tui.NewSession(engine, renderer, session,
		tui.WithSessionLogger(logger),
		tui.WithRenderOptions(render.RenderOptions{RequestID: session}),
	)
	if err != nil {
		log.Fatalf("init session: %v", err)
	}

	if err := runner.Run(ctx, target); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(os.Stderr, "aborted")
			return
		}
		log.Printf("wizard session failed: %v", err)
		cleanup()
		os.Exit(1)
	}
}
