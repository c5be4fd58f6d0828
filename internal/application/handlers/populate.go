package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/worldloom/internal/domain/entities"
	"github.com/ersonp/worldloom/internal/domain/ports"
	"github.com/ersonp/worldloom/internal/domain/services"
)

// PopulateHandler handles locale population requests.
type PopulateHandler struct {
	router    ports.TenantStores
	populator *services.Populator
}

// NewPopulateHandler creates a new populate handler.
func NewPopulateHandler(router ports.TenantStores, populator *services.Populator) *PopulateHandler {
	return &PopulateHandler{router: router, populator: populator}
}

// PopulateResult contains the outcome of one locale population.
type PopulateResult struct {
	Locale     *entities.Locale
	Characters []*entities.Character
	// Existed is true when a locale already occupied the coordinates and
	// nothing was generated.
	Existed bool
}

// PopulateLocale generates and commits the locale at (x, y) for the world.
// The seed scopes all randomness to this request.
func (h *PopulateHandler) PopulateLocale(ctx context.Context, worldID string, x, y int, seed int64) (*PopulateResult, error) {
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

	locale, characters, err := h.populator.PopulateLocale(ctx, store, world, x, y, seed)
	if err != nil {
		return nil, err
	}

	return &PopulateResult{
		Locale:     locale,
		Characters: characters,
		Existed:    characters == nil,
	}, nil
}

// GetLocale fetches an existing locale without generating anything.
func (h *PopulateHandler) GetLocale(ctx context.Context, worldID string, x, y int) (*entities.Locale, error) {
	store, err := h.router.Get(ctx, worldID)
	if err != nil {
		return nil, err
	}
	return store.GetLocaleAt(ctx, x, y)
}
