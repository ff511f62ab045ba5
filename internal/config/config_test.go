//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"API_KEY", "REDIS_URL", "REDIS_PASSWORD", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"DATABASE_URL", "NATS_URL", "NATS_TOKEN", "CALLBACK_URL", "PORT",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFromEnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("API_KEY", "secret")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, "none", cfg.AI.Provider)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 45*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, DefaultCallbackURL, cfg.Report.CallbackURL)
	assert.Equal(t, 5*time.Second, cfg.Report.CallbackTimeout)
	assert.Equal(t, "honeypot.reports", cfg.NATS.Subject)
	assert.Equal(t, "gemini-2.5-flash", cfg.Agent.Model)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	path := writeConfig(t, `
server:
  port: 8100
  api_key: from-file
  rate_limit: 30
redis:
  url: redis://cache:6379/1
  ttl: 30m
agent:
  llm_timeout: 5s
  gate:
    window_cap: 2
report:
  workers: 8
`)

	cfg, err := LoadConfig(path, false)
	require.NoError(t, err)

	assert.Equal(t, 8100, cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.Server.APIKey)
	assert.Equal(t, 30, cfg.Server.RateLimit)
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Agent.Model)
	assert.Equal(t, 5*time.Second, cfg.Agent.LLMTimeout)
	assert.Equal(t, 2, cfg.Agent.Gate.WindowCap)
	assert.Equal(t, 8, cfg.Report.Workers)
}

func TestLoadConfigDevAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := LoadConfig("does-not-exist.yaml", true)
	require.NoError(t, err)
	assert.Equal(t, DevAPIKey, cfg.Server.APIKey)
	assert.True(t, cfg.Runtime.Dev)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("should require redis", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "k")
		_, err := LoadConfig("does-not-exist.yaml", false)
		assert.ErrorContains(t, err, "redis.url")
	})

	t.Run("should require an api key outside dev", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REDIS_URL", "redis://localhost:6379/0")
		_, err := LoadConfig("does-not-exist.yaml", false)
		assert.ErrorContains(t, err, "api_key")
	})

	t.Run("should require the key of the chosen provider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("API_KEY", "k")
		_, err := LoadConfig(writeConfig(t, "ai:\n  provider: gemini\n"), false)
		assert.ErrorContains(t, err, "gemini_key")
	})

	t.Run("should reject unknown providers", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("API_KEY", "k")
		_, err := LoadConfig(writeConfig(t, "ai:\n  provider: bard\n"), false)
		assert.ErrorContains(t, err, "unknown ai.provider")
	})

	t.Run("should reject malformed yaml", func(t *testing.T) {
		clearEnv(t)
		_, err := LoadConfig(writeConfig(t, "server: [\n"), false)
		assert.ErrorContains(t, err, "parse config")
	})
}
