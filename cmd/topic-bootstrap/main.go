// Command topic-bootstrap idempotently provisions every bus topic
// declared in a YAML manifest, as a separate step from service startup.
package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/iaros/concierge/internal/bus"
	"github.com/iaros/concierge/internal/config"
	"github.com/iaros/concierge/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Service:     "topic-bootstrap",
		Environment: cfg.Environment,
		Format:      cfg.Logging.Format,
	})

	manifestPath := cfg.Bus.ManifestPath
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}

	manifest, err := bus.LoadManifest(manifestPath)
	if err != nil {
		logger.Fatal("failed to load topic manifest", zap.Error(err))
	}

	if err := bus.Bootstrap(context.Background(), cfg.Bus.BootstrapServers, manifest, logger); err != nil {
		logger.Fatal("failed to bootstrap topics", zap.Error(err))
	}

	logger.Info("topic bootstrap complete")
}
