package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/worldloom/internal/application/handlers"
	"github.com/ersonp/worldloom/internal/domain/ports"
	"github.com/ersonp/worldloom/internal/domain/services"
	"github.com/ersonp/worldloom/internal/infrastructure/config"
	"github.com/ersonp/worldloom/internal/infrastructure/docstore/sqlite"
	llm "github.com/ersonp/worldloom/internal/infrastructure/llm/openai"
	"github.com/ersonp/worldloom/internal/infrastructure/tenant"
)

// Deps holds high-level dependencies for commands. Only handlers are exposed;
// services and the router are wired internally.
type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Router   *tenant.Router
	Worlds   *handlers.WorldHandler
	Populate *handlers.PopulateHandler
	Admin    *handlers.AdminHandler
}

// withDeps loads config and builds dependencies, then calls the provided
// function. Cached tenant handles are released afterwards.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	generator, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating generation client: %w", err)
	}

	router := tenant.NewRouter(func(_ context.Context, tenantID string) (ports.Store, error) {
		return sqlite.Open(config.TenantDir(cwd, tenantID), logger)
	})
	defer router.DropAll()

	match := services.MatchConfig{
		MinMarriageAge:    cfg.Match.MinMarriageAge,
		MaxAgeGap:         cfg.Match.MaxAgeGap,
		MaxMarriageLength: cfg.Match.MaxMarriageLength,
	}

	builder := services.NewWorldBuilder(generator, logger)
	pacts := services.NewPactCompleter(generator, logger)
	populator := services.NewPopulator(generator, match, logger)

	deps := &Deps{
		Config:   cfg,
		Logger:   logger,
		Router:   router,
		Worlds:   handlers.NewWorldHandler(router, builder, pacts, cwd, logger),
		Populate: handlers.NewPopulateHandler(router, populator),
		Admin:    handlers.NewAdminHandler(router, cwd, logger),
	}

	return fn(deps)
}
