// Package main implements the entry point for the Nova analysis service,
// the background-analysis subsystem of the Econova CRM. It accepts analysis
// requests for uploaded sales data and documents, runs them against the
// Gemini-backed assistant, and serves the polling API for results.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/econova/nova-api/internal/config"
	"github.com/econova/nova-api/internal/platform/logger"
)

func main() {
	ctx := context.Background()

	cfg, appLogger, err := initialize()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initialize loads configuration and sets up structured logging.
func initialize() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"store_max_entries", cfg.Analysis.StoreMaxEntries,
		"gemini_configured", cfg.LLM.GeminiAPIKey != "")

	return cfg, appLogger, nil
}
