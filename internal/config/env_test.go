package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvSupabaseURL, "https://env.supabase.co")
	t.Setenv(EnvSupabaseAnonKey, "anon")
	t.Setenv(EnvSupabaseServiceKey, "")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvOrgID, "org-123")

	cfg := Default("Acme", "pty_ltd", "other")
	cfg.Backend.URL = "https://file.supabase.co"
	ApplyEnv(cfg)

	assert.Equal(t, "https://env.supabase.co", cfg.Backend.URL)
	assert.Equal(t, "anon", cfg.Backend.AnonKey)
	assert.Empty(t, cfg.Backend.ServiceKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "org-123", cfg.Organization.ID)
	assert.True(t, cfg.Backend.Enabled())
}

func TestApplyEnv_EmptyKeepsFile(t *testing.T) {
	for _, k := range []string{EnvSupabaseURL, EnvSupabaseAnonKey, EnvSupabaseServiceKey, EnvLogLevel, EnvOrgID} {
		unsetEnv(t, k)
	}

	cfg := Default("Acme", "pty_ltd", "other")
	cfg.Backend.URL = "https://file.supabase.co"
	cfg.Organization.ID = "from-file"
	ApplyEnv(cfg)

	assert.Equal(t, "https://file.supabase.co", cfg.Backend.URL)
	assert.Equal(t, "from-file", cfg.Organization.ID)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWorkspace(t *testing.T) {
	for _, k := range []string{EnvSupabaseURL, EnvSupabaseAnonKey, EnvSupabaseServiceKey, EnvLogLevel, EnvOrgID} {
		unsetEnv(t, k)
	}
	t.Setenv(EnvLogLevel, "warn")

	root := t.TempDir()
	require.NoError(t, Save(filepath.Join(root, FileName), Default("Acme", "pty_ltd", "retail")))
	dotenv := "SUPABASE_URL=https://dotenv.supabase.co\nSUPABASE_ANON_KEY=anon-from-dotenv\nLEDGERLINE_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(dotenv), 0o600))

	cfg, err := LoadWorkspace(root)
	require.NoError(t, err)

	assert.Equal(t, "https://dotenv.supabase.co", cfg.Backend.URL)
	assert.Equal(t, "anon-from-dotenv", cfg.Backend.AnonKey)
	// Variables already in the environment win over .env.
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "Acme", cfg.Organization.Name)
}

func TestLoadWorkspace_NoDotEnv(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(filepath.Join(root, FileName), Default("Acme", "pty_ltd", "retail")))

	cfg, err := LoadWorkspace(root)
	require.NoError(t, err)
	assert.Equal(t, "Acme", cfg.Organization.Name)
}

func TestLoadWorkspace_NotAWorkspace(t *testing.T) {
	_, err := LoadWorkspace(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveOrganizationID_KeepsEnvOverridesOffDisk(t *testing.T) {
	t.Setenv(EnvSupabaseURL, "https://env.supabase.co")
	t.Setenv(EnvSupabaseAnonKey, "anon-from-env")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvOrgID, "org-env")

	root := t.TempDir()
	path := filepath.Join(root, FileName)
	require.NoError(t, Save(path, Default("Acme", "pty_ltd", "retail")))

	cfg, err := LoadWorkspace(root)
	require.NoError(t, err)
	require.NoError(t, SaveOrganizationID(root, cfg.Organization.ID))

	onDisk, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "org-env", onDisk.Organization.ID)
	assert.Equal(t, "Acme", onDisk.Organization.Name)
	assert.Empty(t, onDisk.Backend.URL)
	assert.Empty(t, onDisk.Backend.AnonKey)
	assert.Equal(t, Default("", "", "").Logging.Level, onDisk.Logging.Level)
}
