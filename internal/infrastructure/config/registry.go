package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// TenantRegistry is the central registration of known tenants (read/write).
// Administrative wipe enumerates this registry; each tenant's namespace drop
// and registry removal are treated as one unit.
type TenantRegistry struct {
	Tenants map[string]TenantEntry `yaml:"tenants,omitempty"`
}

// TenantEntry holds registration data for one tenant.
type TenantEntry struct {
	Name    string `yaml:"name"`
	Creator string `yaml:"creator,omitempty"`
}

// LoadRegistry loads the tenant registry from the .worldloom directory.
func LoadRegistry(basePath string) (*TenantRegistry, error) {
	registryFile := TenantsFilePath(basePath)

	data, err := os.ReadFile(registryFile)
	if os.IsNotExist(err) {
		return &TenantRegistry{Tenants: make(map[string]TenantEntry)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tenants file: %w", err)
	}

	var reg TenantRegistry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing tenants file: %w", err)
	}

	if reg.Tenants == nil {
		reg.Tenants = make(map[string]TenantEntry)
	}

	return &reg, nil
}

// Save writes the registry to the tenants file.
func (r *TenantRegistry) Save(basePath string) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling tenant registry: %w", err)
	}

	if err := os.WriteFile(TenantsFilePath(basePath), data, 0600); err != nil {
		return fmt.Errorf("writing tenants file: %w", err)
	}

	return nil
}

// Add registers a tenant.
func (r *TenantRegistry) Add(tenantID string, entry TenantEntry) {
	if r.Tenants == nil {
		r.Tenants = make(map[string]TenantEntry)
	}
	r.Tenants[tenantID] = entry
}

// Remove unregisters a tenant.
func (r *TenantRegistry) Remove(tenantID string) {
	if r.Tenants != nil {
		delete(r.Tenants, tenantID)
	}
}

// Exists checks if a tenant is registered.
func (r *TenantRegistry) Exists(tenantID string) bool {
	if r.Tenants == nil {
		return false
	}
	_, ok := r.Tenants[tenantID]
	return ok
}

// IDs returns all registered tenant ids, sorted for deterministic iteration.
func (r *TenantRegistry) IDs() []string {
	ids := make([]string, 0, len(r.Tenants))
	for id := range r.Tenants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
