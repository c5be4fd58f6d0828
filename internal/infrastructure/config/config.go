// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for worldloom configuration.
	DefaultConfigDir = ".worldloom"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultTenantsFile is the default tenant registry file name.
	DefaultTenantsFile = "tenants.yaml"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	LLM    LLMConfig    `yaml:"llm,omitempty"`
	Server ServerConfig `yaml:"server,omitempty"`
	Match  MatchConfig  `yaml:"match,omitempty"`
}

// LLMConfig holds configuration for the generation service provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// MatchConfig holds the spouse-matching bounds.
type MatchConfig struct {
	MinMarriageAge    int `yaml:"min_marriage_age,omitempty"`
	MaxAgeGap         int `yaml:"max_age_gap,omitempty"`
	MaxMarriageLength int `yaml:"max_marriage_length,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Match: MatchConfig{
			MinMarriageAge:    18,
			MaxAgeGap:         10,
			MaxMarriageLength: 40,
		},
	}
}

// Load loads configuration from the .worldloom directory in the given path.
// A missing config file yields the defaults.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	cfg := Default()

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
}

// ConfigDir returns the path to the .worldloom config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// TenantsFilePath returns the path to the tenant registry file.
func TenantsFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultTenantsFile)
}

// TenantDir returns the storage namespace directory for a normalized tenant id.
func TenantDir(basePath, tenantID string) string {
	return filepath.Join(basePath, DefaultConfigDir, "tenants", tenantID)
}
