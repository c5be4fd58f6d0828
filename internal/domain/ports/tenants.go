package ports

import "context"

// TenantStores resolves tenant ids to their cached store handles. The
// implementation guarantees at most one handle is ever opened per normalized
// id, even under concurrent callers racing on a cold cache.
type TenantStores interface {
	// Get returns the store handle for the tenant, opening it on first use.
	Get(ctx context.Context, tenantID string) (Store, error)

	// Drop closes and forgets the cached handle if present. Idempotent.
	Drop(tenantID string) error
}
