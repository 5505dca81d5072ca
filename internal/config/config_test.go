package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "gobrain", cfg.Service.Name)
	assert.Equal(t, 8080, cfg.Service.Port)
	assert.Equal(t, 10*time.Second, cfg.Extraction.FetchTimeout.Std())
	assert.Equal(t, 50_000, cfg.Extraction.MaxContentLength)
	assert.Equal(t, 5, cfg.Extraction.MaxRedirects)
	assert.Equal(t, "uploads/media", cfg.Storage.MediaDir)
	assert.Equal(t, "digital-brain-notes", cfg.Storage.NotesDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 4000, cfg.AI.MaxTokens)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	data := `
service:
  name: brain-test
  port: 9090
ai:
  model: test-model
  timeout: 5s
storage:
  media_dir: /tmp/media
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "brain-test", cfg.Service.Name)
	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, "test-model", cfg.AI.Model)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout.Std())
	assert.Equal(t, "/tmp/media", cfg.Storage.MediaDir)
	// Unset values still get defaults.
	assert.Equal(t, "digital-brain-notes", cfg.Storage.NotesDir)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("AI_API_KEY", "secret")
	t.Setenv("AI_TIMEOUT", "90s")
	t.Setenv("DEBUG", "yes")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Service.Port)
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout.Std())
	assert.True(t, cfg.Service.Debug)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	assert.NoError(t, cfg.Validate())

	cfg.Service.Port = -1
	assert.Error(t, cfg.Validate())

	cfg.Service.Port = 8080
	cfg.AI.APIKey = "k"
	cfg.AI.APIURL = ""
	assert.Error(t, cfg.Validate())
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "config.yml", GetConfigPath("config.yml"))
	t.Setenv("CONFIG_PATH", "/etc/gobrain/config.yml")
	assert.Equal(t, "/etc/gobrain/config.yml", GetConfigPath("config.yml"))
}
