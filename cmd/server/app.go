package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/econova/nova-api/internal/config"
	"github.com/econova/nova-api/internal/nova"
	"github.com/econova/nova-api/internal/platform/gemini"
	"github.com/econova/nova-api/internal/service/auth"
)

// application holds the wired dependencies of the running service.
type application struct {
	config       *config.Config
	logger       *slog.Logger
	jwtService   auth.JWTService
	store        *nova.MemoryStore
	reaper       *nova.Reaper
	orchestrator *nova.Orchestrator
}

// newApplication builds the dependency graph: JWT validation for caller
// identity, the Gemini agent, and the analysis orchestrator with its shared
// store, limiter, and reaper. The reaper is started here and stopped by
// cleanup during shutdown.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	agent, err := gemini.NewAgent(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis agent: %w", err)
	}

	store := nova.NewMemoryStore(cfg.Analysis.StoreMaxEntries)
	limiter := nova.NewLimiter(map[string]int{
		nova.FamilySalesUpload: cfg.Analysis.MaxConcurrentSales,
		nova.FamilyDocument:    cfg.Analysis.MaxConcurrentDocument,
		nova.FamilyVoucher:     cfg.Analysis.MaxConcurrentVoucher,
	})
	orchestrator := nova.NewOrchestrator(store, limiter, agent, cfg.Analysis, logger)

	reaper := nova.NewReaper(store, cfg.Analysis.ReapInterval, cfg.Analysis.RetentionWindow, logger)
	reaper.Start()

	return &application{
		config:       cfg,
		logger:       logger,
		jwtService:   jwtService,
		store:        store,
		reaper:       reaper,
		orchestrator: orchestrator,
	}, nil
}

// cleanup releases background resources during shutdown: the reaper ticker
// stops first, then we wait for in-flight analyses to finish writing their
// terminal records.
func (app *application) cleanup() {
	app.reaper.Stop()
	app.orchestrator.Wait()
}
