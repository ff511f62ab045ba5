// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"scam-honeypot/internal/agent"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	APIKey         string        `yaml:"api_key"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// RateLimit caps inbound requests per session per minute; 0 disables it.
	RateLimit int `yaml:"rate_limit"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // optional; enables the report archive
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

type AIConfig struct {
	Provider        string `yaml:"provider"` // gemini|openai|none
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	OpenAIKey       string `yaml:"openai_key"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	ConcurrentLimit int    `yaml:"concurrent_limit"` // max concurrent AI calls
	Encoding        string `yaml:"encoding"`         // tiktoken encoding for prompt budgeting
}

type ReportConfig struct {
	CallbackURL     string        `yaml:"callback_url"`
	CallbackTimeout time.Duration `yaml:"callback_timeout"`
	Workers         int           `yaml:"workers"`
}

type NATSConfig struct {
	URL     string `yaml:"url"` // optional; enables report publishing
	Token   string `yaml:"token"`
	Subject string `yaml:"subject"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Agent    agent.Config   `yaml:"agent"`
	Report   ReportConfig   `yaml:"report"`
	NATS     NATSConfig     `yaml:"nats"`

	Runtime RuntimeConfig `yaml:"-"`
}

const (
	DefaultCallbackURL = "https://hackathon.guvi.in/api/updateHoneyPotFinalResult"
	DevAPIKey          = "dev_key"
)

// LoadConfig reads the YAML file at path (a missing file is allowed), applies
// environment overrides for secrets and fills defaults.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env-only deployment
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.Runtime.Dev = dev
	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	envStr("API_KEY", &cfg.Server.APIKey)
	envStr("REDIS_URL", &cfg.Redis.URL)
	envStr("REDIS_PASSWORD", &cfg.Redis.Password)
	envStr("GEMINI_API_KEY", &cfg.AI.GeminiKey)
	envStr("OPENAI_API_KEY", &cfg.AI.OpenAIKey)
	envStr("DATABASE_URL", &cfg.Database.URL)
	envStr("NATS_URL", &cfg.NATS.URL)
	envStr("NATS_TOKEN", &cfg.NATS.Token)
	envStr("CALLBACK_URL", &cfg.Report.CallbackURL)
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.APIKey == "" && cfg.Runtime.Dev {
		cfg.Server.APIKey = DevAPIKey
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL, time.Hour)
	cfg.Redis.LockTTL = normalizeTTL(cfg.Redis.LockTTL, 45*time.Second)
	if cfg.AI.Provider == "" {
		switch {
		case cfg.AI.GeminiKey != "":
			cfg.AI.Provider = "gemini"
		case cfg.AI.OpenAIKey != "":
			cfg.AI.Provider = "openai"
		default:
			cfg.AI.Provider = "none"
		}
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 256
	}
	if cfg.AI.Encoding == "" {
		cfg.AI.Encoding = "cl100k_base"
	}
	if cfg.Agent.Model == "" {
		switch cfg.AI.Provider {
		case "openai":
			cfg.Agent.Model = "gpt-4o-mini"
		default:
			cfg.Agent.Model = "gemini-2.5-flash"
		}
	}
	if cfg.Report.CallbackURL == "" {
		cfg.Report.CallbackURL = DefaultCallbackURL
	}
	if cfg.Report.CallbackTimeout <= 0 {
		cfg.Report.CallbackTimeout = 5 * time.Second
	}
	if cfg.Report.Workers <= 0 {
		cfg.Report.Workers = 4
	}
	if cfg.NATS.Subject == "" {
		cfg.NATS.Subject = "honeypot.reports"
	}
}

// Validate performs the minimal checks needed to start serving.
func (c *Config) Validate() error {
	if c.Redis.URL == "" {
		return errors.New("redis.url is required")
	}
	if c.Server.APIKey == "" {
		return errors.New("server.api_key is required")
	}
	switch c.AI.Provider {
	case "gemini":
		if c.AI.GeminiKey == "" {
			return errors.New("ai.gemini_key is required for provider gemini")
		}
	case "openai":
		if c.AI.OpenAIKey == "" {
			return errors.New("ai.openai_key is required for provider openai")
		}
	case "none":
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}
	return nil
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func normalizeTTL(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
