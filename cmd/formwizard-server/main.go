package main

import (
	"context"
	"flag"
	"log"

	"github.com/goliatone/go-formwizard/internal/bootstrap"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "configuration file (optional)")
	flag.Parse()

	ctx := context.Background()
	runtime, err := bootstrap.NewRuntime(ctx, *configPath)
	if err != nil {
		log.Fatalf("bootstrap question wizard: %v", err)
	}
	if err := runtime.Run(ctx); err != nil {
		log.Fatalf("run question wizard: %v", err)
	}
}
