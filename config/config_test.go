package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pinEnv blanks every environment key Load consults so results do not
// depend on the host shell. t.Setenv restores the originals afterwards.
func pinEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AZURE_STORAGE_CONNECTION_STRING",
		"CHAT_CONTAINER",
		"MODEL_PROVIDER",
		"AZURE_OPENAI_ENDPOINT",
		"AZURE_OPENAI_API_KEY",
		"AZURE_OPENAI_DEPLOYMENT",
		"AZURE_OPENAI_API_VERSION",
		"ANTHROPIC_API_KEY",
		"ANTHROPIC_MODEL",
		"CHATVAULT_ADDR",
		"CHATVAULT_ALLOWED_ORIGINS",
		"CHATVAULT_LOG_LEVEL",
		"CHATVAULT_LOG_FORMAT",
		"CHATVAULT_SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "chat-history", cfg.Storage.Container)
	assert.Equal(t, "azure-openai", cfg.Model.Provider)
	assert.Equal(t, "2024-10-21", cfg.Model.AzureOpenAI.APIVersion)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost:4200")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_YAMLFile(t *testing.T) {
	pinEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  container: custom-history
model:
  provider: anthropic
  anthropic:
    api_key: yaml-key
    model: claude-sonnet-4-20250514
server:
  addr: ":9000"
  allowed_origins:
    - https://app.example.com
log:
  level: debug
  format: text
shutdown_timeout: 30s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-history", cfg.Storage.Container)
	assert.Equal(t, "anthropic", cfg.Model.Provider)
	assert.Equal(t, "yaml-key", cfg.Model.Anthropic.APIKey)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	pinEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_MalformedFile(t *testing.T) {
	pinEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [not a map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	pinEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  container: from-file
server:
  addr: ":9000"
`), 0o600))

	t.Setenv("CHAT_CONTAINER", "from-env")
	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")
	t.Setenv("CHATVAULT_ADDR", ":7000")
	t.Setenv("CHATVAULT_LOG_LEVEL", "warn")
	t.Setenv("CHATVAULT_SHUTDOWN_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Storage.Container)
	assert.Equal(t, "UseDevelopmentStorage=true", cfg.Storage.ConnectionString)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_OriginsFromEnv(t *testing.T) {
	pinEnv(t)
	t.Setenv("CHATVAULT_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidShutdownTimeoutIgnored(t *testing.T) {
	pinEnv(t)
	t.Setenv("CHATVAULT_SHUTDOWN_TIMEOUT", "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
