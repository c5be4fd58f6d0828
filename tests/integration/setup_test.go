package integration

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/worldloom/internal/domain/ports"
	"github.com/ersonp/worldloom/internal/infrastructure/config"
	"github.com/ersonp/worldloom/internal/infrastructure/docstore/sqlite"
	"github.com/ersonp/worldloom/internal/infrastructure/tenant"
)

// newRouter builds a tenant router backed by real sqlite stores under a
// test-scoped base directory.
func newRouter(t *testing.T, basePath string) *tenant.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := tenant.NewRouter(func(_ context.Context, id string) (ports.Store, error) {
		return sqlite.Open(config.TenantDir(basePath, id), logger)
	})
	t.Cleanup(func() { r.DropAll() })
	return r
}

func openTenant(t *testing.T, r *tenant.Router, id string) ports.Store {
	t.Helper()
	store, err := r.Get(context.Background(), id)
	require.NoError(t, err)
	return store
}
