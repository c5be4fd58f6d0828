// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ersonp/worldloom/internal/domain/entities"
	"github.com/ersonp/worldloom/internal/domain/ports"
	"github.com/ersonp/worldloom/internal/domain/services"
	"github.com/ersonp/worldloom/internal/infrastructure/config"
	"github.com/ersonp/worldloom/internal/infrastructure/tenant"
)

// WorldHandler handles world creation and top-level content generation.
type WorldHandler struct {
	router   ports.TenantStores
	builder  *services.WorldBuilder
	pacts    *services.PactCompleter
	basePath string
	logger   *slog.Logger

	// regMu serializes read-modify-write cycles on the registry file.
	regMu sync.Mutex
}

// NewWorldHandler creates a new world handler.
func NewWorldHandler(router ports.TenantStores, builder *services.WorldBuilder, pacts *services.PactCompleter, basePath string, logger *slog.Logger) *WorldHandler {
	return &WorldHandler{
		router:   router,
		builder:  builder,
		pacts:    pacts,
		basePath: basePath,
		logger:   logger,
	}
}

// CreateWorld generates a new world, registers its tenant and persists the
// world document in the tenant's own namespace.
func (h *WorldHandler) CreateWorld(ctx context.Context, creator string) (*entities.World, error) {
	world, err := h.builder.CreateWorld(ctx, creator)
	if err != nil {
		return nil, err
	}

	tenantID, err := tenant.Sanitize(world.ID)
	if err != nil {
		return nil, err
	}

	store, err := h.router.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := store.SaveWorld(ctx, world); err != nil {
		return nil, err
	}

	h.regMu.Lock()
	defer h.regMu.Unlock()
	registry, err := config.LoadRegistry(h.basePath)
	if err != nil {
		return nil, fmt.Errorf("loading tenant registry: %w", err)
	}
	registry.Add(tenantID, config.TenantEntry{Name: world.Name, Creator: creator})
	if err := registry.Save(h.basePath); err != nil {
		return nil, fmt.Errorf("registering tenant: %w", err)
	}

	return world, nil
}

// GetWorld fetches a world document from its tenant store.
func (h *WorldHandler) GetWorld(ctx context.Context, worldID string) (*entities.World, error) {
	store, err := h.router.Get(ctx, worldID)
	if err != nil {
		return nil, err
	}
	return store.GetWorld(ctx)
}

// FillWorld generates races and factions for an existing world and completes
// the diplomatic graph between the factions.
func (h *WorldHandler) FillWorld(ctx context.Context, worldID string, raceCount, factionCount int) error {
	store, err := h.router.Get(ctx, worldID)
	if err != nil {
		return err
	}

	world, err := store.GetWorld(ctx)
	if err != nil {
		return err
	}
	if world == nil {
		return fmt.Errorf("world %s not found", worldID)
	}

	if _, err := h.builder.GenerateRaces(ctx, store, world, raceCount); err != nil {
		return err
	}
	if _, err := h.builder.GenerateFactions(ctx, store, world, factionCount); err != nil {
		return err
	}

	pacts, err := h.pacts.CompleteMissing(ctx, store, world)
	if err != nil {
		return err
	}
	h.logger.Info("world filled", "world", world.Name, "pacts", len(pacts))
	return nil
}

// CompletePacts runs a pact completion pass for an existing world.
func (h *WorldHandler) CompletePacts(ctx context.Context, worldID string) ([]*entities.FactionPact, error) {
	store, err := h.router.Get(ctx, worldID)
	if err != nil {
		return nil, err
	}
	world, err := store.GetWorld(ctx)
	if err != nil {
		return nil, err
	}
	if world == nil {
		return nil, fmt.Errorf("world %s not found", worldID)
	}
	return h.pacts.CompleteMissing(ctx, store, world)
}
