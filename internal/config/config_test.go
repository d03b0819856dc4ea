package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDirScaffoldsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitDir(dir))

	assert.FileExists(t, filepath.Join(dir, "config.yaml"))
	assert.DirExists(t, filepath.Join(dir, "logs"))

	// A second init must not clobber an edited config.
	custom := []byte("version: 1\nbackend:\n  url: https://api.example.com\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), custom, 0o644))
	require.NoError(t, InitDir(dir))
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, custom, data)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCRIBE_BACKEND_URL", "")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.URL)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 5, cfg.Outline.SuggestedSections)
	assert.Equal(t, filepath.Join(dir, "token"), cfg.TokenPath())
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogDir())
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCRIBE_BACKEND_URL", "")
	yaml := `version: 1
backend:
  url: https://writer.example.com
  timeout_seconds: 30
auth:
  token_file: /secrets/nexwrit-token
  email: dana@example.com
outline:
  suggested_sections: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://writer.example.com", cfg.Backend.URL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "/secrets/nexwrit-token", cfg.TokenPath(), "absolute token paths stay put")
	assert.Equal(t, "dana@example.com", cfg.Auth.Email)
	assert.Equal(t, 8, cfg.Outline.SuggestedSections)
}

func TestLoadEnvOverridesBackendURL(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCRIBE_BACKEND_URL", "https://staging.example.com")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", cfg.Backend.URL)
}

func TestDirHonorsOverride(t *testing.T) {
	t.Setenv(EnvDirOverride, "/tmp/scribe-test-home")
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/scribe-test-home", dir)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: ["), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}
