// Package config reads and writes ledgerline.yaml and applies environment
// overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a workspace.
const FileName = "ledgerline.yaml"

// Config represents the top-level ledgerline.yaml configuration.
type Config struct {
	Organization OrganizationConfig `yaml:"organization"`
	Import       ImportConfig       `yaml:"import"`
	Backend      BackendConfig      `yaml:"backend"`
	Logging      LoggingConfig      `yaml:"logging"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// OrganizationConfig identifies the business.
type OrganizationConfig struct {
	ID            string `yaml:"id,omitempty"` // assigned by the backend
	Name          string `yaml:"name"`
	Industry      string `yaml:"industry"`
	EntityType    string `yaml:"entity_type"`
	VATRegistered bool   `yaml:"vat_registered"`
	YearEnd       string `yaml:"year_end"` // "MM-DD" format, e.g. "02-28"
}

// ImportConfig controls statement imports.
type ImportConfig struct {
	DefaultBank string `yaml:"default_bank"`
	ReviewRows  int    `yaml:"review_rows"`
}

// BackendConfig points at the hosted backend. Keys are never written to disk.
type BackendConfig struct {
	URL             string        `yaml:"url"`
	AnonKey         string        `yaml:"-"`
	ServiceKey      string        `yaml:"-"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	InitialBackoff  time.Duration `yaml:"initial_backoff"`
	FeatureCacheTTL time.Duration `yaml:"feature_cache_ttl"`
}

// Enabled reports whether there is enough configuration to call the backend.
func (b BackendConfig) Enabled() bool {
	return b.URL != "" && (b.AnonKey != "" || b.ServiceKey != "")
}

// LoggingConfig sets the zap log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig controls the Prometheus textfile output. Empty disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads a ledgerline.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(name, entityType, industry string) *Config {
	return &Config{
		Organization: OrganizationConfig{
			Name:       name,
			Industry:   industry,
			EntityType: entityType,
			YearEnd:    "02-28",
		},
		Import: ImportConfig{
			DefaultBank: "generic",
			ReviewRows:  50,
		},
		Backend: BackendConfig{
			Timeout:         10 * time.Second,
			MaxRetries:      3,
			InitialBackoff:  200 * time.Millisecond,
			FeatureCacheTTL: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
