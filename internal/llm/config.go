package llm

import (
	"os"
	"strconv"
	"time"
)

// Provider identifies which text-generation backend to talk to.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderGemini Provider = "gemini"
)

// Config holds all configuration for the LLM subsystem.
type Config struct {
	Provider     Provider `yaml:"provider"`
	Endpoint     string   `yaml:"endpoint"`
	Model        string   `yaml:"model"`
	APIKey       string   `yaml:"api_key"`
	TimeoutMs    int      `yaml:"timeout_ms"`
	MaxRetries   int      `yaml:"max_retries"`
	RetryDelayMs int      `yaml:"retry_delay_ms"`
	CacheSize    int      `yaml:"cache_size"`
	CacheTTLSec  int      `yaml:"cache_ttl_sec"`
	LogCalls     bool     `yaml:"log_calls"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:     ProviderOpenAI,
		Endpoint:     "https://api.openai.com/v1",
		Model:        "gpt-4.1-mini",
		TimeoutMs:    30000,
		MaxRetries:   2,
		RetryDelayMs: 1000,
		CacheSize:    200,
		CacheTTLSec:  3600,
		LogCalls:     true,
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays ACTAI_LLM_* environment variables onto cfg.
// OPENAI_API_KEY and GEMINI_API_KEY are honored when ACTAI_LLM_API_KEY is unset.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("ACTAI_LLM_PROVIDER"); v != "" {
		cfg.Provider = Provider(v)
	}
	if v := os.Getenv("ACTAI_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("ACTAI_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ACTAI_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	applyIntEnv(&cfg.TimeoutMs, "ACTAI_LLM_TIMEOUT_MS", 1)
	applyIntEnv(&cfg.MaxRetries, "ACTAI_LLM_MAX_RETRIES", 0)
	applyIntEnv(&cfg.RetryDelayMs, "ACTAI_LLM_RETRY_DELAY_MS", 0)
	applyIntEnv(&cfg.CacheSize, "ACTAI_LLM_CACHE_SIZE", 0)
	applyIntEnv(&cfg.CacheTTLSec, "ACTAI_LLM_CACHE_TTL_SEC", 1)

	switch {
	case os.Getenv("ACTAI_LLM_API_KEY") != "":
		cfg.APIKey = os.Getenv("ACTAI_LLM_API_KEY")
	case cfg.APIKey != "":
	case cfg.Provider == ProviderOpenAI:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	case cfg.Provider == ProviderGemini:
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Timeout is the per-attempt call timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// RetryDelay is the fixed pause between attempts.
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// CacheTTL is how long a generated text stays reusable.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

func applyIntEnv(dst *int, envName string, min int) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return
	}
	*dst = n
}
