package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "FASSIMO_LLM_PROVIDER", "FASSIMO_LLM_MODEL", "FASSIMO_DB_PATH"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_CreatesDefaultOnFirstRun(t *testing.T) {
	clearProviderEnv(t)
	ws := t.TempDir()

	cfg, err := Load(ws)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.FileExists(t, Path(ws))

	t.Run("second load reads the written file", func(t *testing.T) {
		cfg.LLM.Model = "gemini-custom"
		require.NoError(t, cfg.Save(ws))

		again, err := Load(ws)
		require.NoError(t, err)
		assert.Equal(t, "gemini-custom", again.LLM.Model)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY fills key, keeps provider", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "g-key", cfg.LLM.APIKey)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
	})

	t.Run("ANTHROPIC_API_KEY switches provider", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "a-key")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "a-key", cfg.LLM.APIKey)
		assert.Equal(t, "anthropic", cfg.LLM.Provider)
	})

	t.Run("precedence: openai over anthropic over gemini", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")
		t.Setenv("ANTHROPIC_API_KEY", "a-key")
		t.Setenv("OPENAI_API_KEY", "o-key")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "o-key", cfg.LLM.APIKey)
		assert.Equal(t, "openai", cfg.LLM.Provider)
	})

	t.Run("FASSIMO_LLM_PROVIDER wins over key-derived provider", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "o-key")
		t.Setenv("FASSIMO_LLM_PROVIDER", "anthropic")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "anthropic", cfg.LLM.Provider)
	})

	t.Run("FASSIMO_DB_PATH enables persistence", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("FASSIMO_DB_PATH", "/tmp/f.db")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Storage.Persist)
		assert.Equal(t, "/tmp/f.db", cfg.Storage.DatabasePath)
	})
}

func TestLLMConfig_TimeoutDuration(t *testing.T) {
	assert.Equal(t, 120*time.Second, LLMConfig{}.TimeoutDuration())
	assert.Equal(t, 30*time.Second, LLMConfig{Timeout: "30s"}.TimeoutDuration())
	assert.Equal(t, 120*time.Second, LLMConfig{Timeout: "bogus"}.TimeoutDuration())
}
