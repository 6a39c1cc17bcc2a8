package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables that override ledgerline.yaml.
const (
	EnvSupabaseURL        = "SUPABASE_URL"
	EnvSupabaseAnonKey    = "SUPABASE_ANON_KEY"
	EnvSupabaseServiceKey = "SUPABASE_SERVICE_ROLE_KEY"
	EnvLogLevel           = "LEDGERLINE_LOG_LEVEL"
	EnvOrgID              = "LEDGERLINE_ORG_ID"
)

// LoadDotEnv loads <root>/.env into the process environment. Variables already
// set are not overwritten; a missing file is not an error.
func LoadDotEnv(root string) error {
	err := godotenv.Load(filepath.Join(root, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// ApplyEnv overrides backend endpoints, secrets, the log level and the
// organization id from the environment.
func ApplyEnv(cfg *Config) {
	cfg.Backend.URL = getEnv(EnvSupabaseURL, cfg.Backend.URL)
	cfg.Backend.AnonKey = getEnv(EnvSupabaseAnonKey, cfg.Backend.AnonKey)
	cfg.Backend.ServiceKey = getEnv(EnvSupabaseServiceKey, cfg.Backend.ServiceKey)
	cfg.Logging.Level = getEnv(EnvLogLevel, cfg.Logging.Level)
	cfg.Organization.ID = getEnv(EnvOrgID, cfg.Organization.ID)
}

// LoadWorkspace reads <root>/.env and <root>/ledgerline.yaml, then applies
// environment overrides.
func LoadWorkspace(root string) (*Config, error) {
	if err := LoadDotEnv(root); err != nil {
		return nil, err
	}
	cfg, err := Load(filepath.Join(root, FileName))
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SaveOrganizationID records id in <root>/ledgerline.yaml. The file is reread
// without environment overrides so only the organization id changes on disk.
func SaveOrganizationID(root, id string) error {
	path := filepath.Join(root, FileName)
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	cfg.Organization.ID = id
	return Save(path, cfg)
}
