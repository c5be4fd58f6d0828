package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ersonp/worldloom/internal/domain/ports"
	"github.com/ersonp/worldloom/internal/infrastructure/config"
	"github.com/ersonp/worldloom/internal/infrastructure/tenant"
)

// AdminHandler handles administrative tenant lifecycle operations.
type AdminHandler struct {
	router   ports.TenantStores
	basePath string
	logger   *slog.Logger

	regMu sync.Mutex
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(router ports.TenantStores, basePath string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{router: router, basePath: basePath, logger: logger}
}

// DropAllTenants enumerates the registry and wipes every tenant: the storage
// namespace is deleted, the cached handle released and the registration
// removed, as one unit per tenant. A failing tenant does not stop the wipe of
// the others; the count of successfully dropped tenants is returned together
// with the first error. Re-running after a partial failure is safe.
func (h *AdminHandler) DropAllTenants(ctx context.Context) (int, error) {
	h.regMu.Lock()
	defer h.regMu.Unlock()

	registry, err := config.LoadRegistry(h.basePath)
	if err != nil {
		return 0, fmt.Errorf("loading tenant registry: %w", err)
	}

	dropped := 0
	var firstErr error
	for _, id := range registry.IDs() {
		if err := h.dropTenant(ctx, id); err != nil {
			h.logger.Error("failed to drop tenant", "tenant", id, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		registry.Remove(id)
		dropped++
	}

	if err := registry.Save(h.basePath); err != nil {
		return dropped, fmt.Errorf("saving tenant registry: %w", err)
	}
	return dropped, firstErr
}

// DropTenant wipes a single tenant: namespace, cached handle and registry
// entry. Dropping an unregistered tenant still removes any leftover namespace.
func (h *AdminHandler) DropTenant(ctx context.Context, tenantID string) error {
	id, err := tenant.Sanitize(tenantID)
	if err != nil {
		return err
	}

	h.regMu.Lock()
	defer h.regMu.Unlock()

	registry, err := config.LoadRegistry(h.basePath)
	if err != nil {
		return fmt.Errorf("loading tenant registry: %w", err)
	}

	if err := h.dropTenant(ctx, id); err != nil {
		return err
	}

	registry.Remove(id)
	if err := registry.Save(h.basePath); err != nil {
		return fmt.Errorf("saving tenant registry: %w", err)
	}
	return nil
}

// dropTenant deletes one tenant's namespace and releases its handle.
func (h *AdminHandler) dropTenant(ctx context.Context, id string) error {
	store, err := h.router.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := store.DropNamespace(ctx); err != nil {
		return err
	}
	return h.router.Drop(id)
}
