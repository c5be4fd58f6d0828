// Package tenant routes world identifiers to their isolated storage handles.
//
// Handles are expensive to open and long-lived; the router caches one per
// normalized tenant id and reuses it for every operation on that tenant.
// There is no TTL or automatic eviction: handles live until Drop or DropAll.
package tenant

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ersonp/worldloom/internal/domain/entities"
	"github.com/ersonp/worldloom/internal/domain/ports"
)

// reInvalidIDChars matches everything outside the allowed tenant id alphabet.
var reInvalidIDChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Sanitize strips all characters outside the alphanumeric/underscore set.
// Sanitize is deterministic: the same raw input always yields the same
// normalized id. An id that sanitizes to nothing is invalid.
func Sanitize(raw string) (string, error) {
	id := reInvalidIDChars.ReplaceAllString(raw, "")
	if id == "" {
		return "", fmt.Errorf("%w: %q", entities.ErrInvalidTenantID, raw)
	}
	return id, nil
}

// OpenFunc opens a fresh store handle for a normalized tenant id. The router
// ensures the schema on the handle it caches, so OpenFunc only has to open.
type OpenFunc func(ctx context.Context, tenantID string) (ports.Store, error)

// Router implements ports.TenantStores. It is safe for concurrent use; cold
// opens for the same id collapse onto a single in-flight open via
// singleflight, so at most one handle is ever opened per normalized id.
// Unrelated tenants never block each other beyond the cache map access.
type Router struct {
	open OpenFunc

	mu      sync.RWMutex
	handles map[string]ports.Store
	opening singleflight.Group
}

var _ ports.TenantStores = (*Router)(nil)

// NewRouter creates a Router that opens handles with open.
func NewRouter(open OpenFunc) *Router {
	return &Router{
		open:    open,
		handles: make(map[string]ports.Store),
	}
}

// Get returns the cached handle for the tenant, opening and caching it on
// first use. All concurrent callers for the same uncached id observe the
// identical handle instance.
func (r *Router) Get(ctx context.Context, tenantID string) (ports.Store, error) {
	id, err := Sanitize(tenantID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	handle, ok := r.handles[id]
	r.mu.RUnlock()
	if ok {
		return handle, nil
	}

	v, err, _ := r.opening.Do(id, func() (any, error) {
		// Re-check under the flight: a previous flight may have filled the
		// cache between the miss above and this call.
		r.mu.RLock()
		handle, ok := r.handles[id]
		r.mu.RUnlock()
		if ok {
			return handle, nil
		}

		store, err := r.open(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("opening store for tenant %s: %w", id, err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensuring schema for tenant %s: %w", id, err)
		}

		r.mu.Lock()
		r.handles[id] = store
		r.mu.Unlock()
		return store, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(ports.Store), nil
}

// Drop closes and removes the cached handle if present. Dropping an unknown
// or already-dropped tenant is a no-op.
func (r *Router) Drop(tenantID string) error {
	id, err := Sanitize(tenantID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	handle, ok := r.handles[id]
	delete(r.handles, id)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	if err := handle.Close(); err != nil {
		return fmt.Errorf("closing store for tenant %s: %w", id, err)
	}
	return nil
}

// DropAll closes and removes every cached handle. The first close error is
// returned after all handles have been dropped.
func (r *Router) DropAll() error {
	r.mu.Lock()
	handles := r.handles
	r.handles = make(map[string]ports.Store)
	r.mu.Unlock()

	var firstErr error
	for id, handle := range handles {
		if err := handle.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing store for tenant %s: %w", id, err)
		}
	}
	return firstErr
}

// Cached reports whether a handle is currently cached for the tenant.
func (r *Router) Cached(tenantID string) bool {
	id, err := Sanitize(tenantID)
	if err != nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handles[id]
	return ok
}
