package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_RetryAndCacheDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 200, cfg.CacheSize)
	assert.Equal(t, time.Hour, cfg.CacheTTL())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ACTAI_LLM_PROVIDER", "ollama")
	t.Setenv("ACTAI_LLM_MODEL", "llama3.2")
	t.Setenv("ACTAI_LLM_TIMEOUT_MS", "9000")
	t.Setenv("ACTAI_LLM_MAX_RETRIES", "0")
	t.Setenv("ACTAI_LLM_CACHE_SIZE", "10")

	cfg := LoadConfig()

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "llama3.2", cfg.Model)
	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 10, cfg.CacheSize)
}

func TestLoadConfig_InvalidNumbersIgnored(t *testing.T) {
	t.Setenv("ACTAI_LLM_TIMEOUT_MS", "not-a-number")
	t.Setenv("ACTAI_LLM_MAX_RETRIES", "-3")

	cfg := LoadConfig()

	assert.Equal(t, 30000, cfg.TimeoutMs)
	assert.Equal(t, 2, cfg.MaxRetries)
}

func TestLoadConfig_ProviderSpecificKeyFallback(t *testing.T) {
	t.Setenv("ACTAI_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	cfg := LoadConfig()
	assert.Equal(t, "sk-openai", cfg.APIKey)

	t.Setenv("ACTAI_LLM_PROVIDER", "gemini")
	cfg = LoadConfig()
	assert.Equal(t, "gm-key", cfg.APIKey)
}
