package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "ollama", cfg.Providers[0].Name)
	assert.Equal(t, DefaultMaxValidationRetries, cfg.Agent.MaxValidationRetries)
	assert.NoError(t, cfg.Validate())
}

func TestRetryBudgetClampsToOne(t *testing.T) {
	for _, n := range []int{-3, 0} {
		a := AgentConfig{MaxValidationRetries: n}
		assert.Equal(t, 1, a.RetryBudget())
	}
	a := AgentConfig{MaxValidationRetries: 5}
	assert.Equal(t, 5, a.RetryBudget())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
providers:
  - name: anthropic
    model: claude-sonnet-4-20250514
    api_key: file-key
  - name: ollama
    model: llama3.2
agent:
  max_validation_retries: 5
logging:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Providers, 2)
	assert.Equal(t, "anthropic", cfg.Providers[0].Name)
	assert.Equal(t, "file-key", cfg.Providers[0].APIKey)
	assert.Equal(t, "llama3.2", cfg.Providers[1].Model)
	assert.Equal(t, 5, cfg.Agent.MaxValidationRetries)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadExpandsEnvInFile(t *testing.T) {
	t.Setenv("TEST_GOATCODE_KEY", "expanded-key")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
providers:
  - name: openai
    model: gpt-4o
    api_key: ${TEST_GOATCODE_KEY}
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded-key", cfg.Providers[0].APIKey)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("GOATCODE_LOG_LEVEL", "warn")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
providers:
  - name: anthropic
    model: claude-sonnet-4-20250514
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Providers[0].APIKey)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Providers, cfg.Providers)
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Config{}).Validate())

	cfg := &Config{Providers: []ProviderConfig{{Name: "ollama"}}}
	assert.Error(t, cfg.Validate())

	cfg.Providers[0].Model = "llama3.2"
	assert.NoError(t, cfg.Validate())
}
