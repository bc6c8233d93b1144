// Package common provides shared utilities for saveplan
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for saveplan
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Explain     ExplainConfig `toml:"explain"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects the key-value backend used for drafts and flags.
type StorageConfig struct {
	Backend string `toml:"backend"` // "file" (default), "badger" or "memory"
	Path    string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Optimizer OptimizerConfig `toml:"optimizer"`
	Chat      ChatConfig      `toml:"chat"`
	Gemini    GeminiConfig    `toml:"gemini"`
}

// OptimizerConfig holds the savings optimisation backend configuration
type OptimizerConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *OptimizerConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ChatConfig holds the OpenAI-compatible chat completions configuration
type ChatConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration.
// Streams can run long, so the default is generous.
func (c *ChatConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 2 * time.Minute
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// ExplainConfig controls the plan explanation feature.
type ExplainConfig struct {
	Provider  string `toml:"provider"`   // "chat" (default) or "gemini"
	RedisAddr string `toml:"redis_addr"` // shared explanation cache; in-memory when empty
	CacheTTL  string `toml:"cache_ttl"`
}

// GetCacheTTL parses and returns the cache entry lifetime. Zero means no expiry.
func (c *ExplainConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "data",
		},
		Clients: ClientsConfig{
			Optimizer: OptimizerConfig{
				BaseURL:   "http://localhost:5001",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Chat: ChatConfig{
				BaseURL:   "https://api.openai.com",
				Model:     "gpt-4o-mini",
				MaxTokens: 600,
				Timeout:   "2m",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Explain: ExplainConfig{
			Provider: "chat",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SAVEPLAN_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("SAVEPLAN_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("SAVEPLAN_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("SAVEPLAN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("SAVEPLAN_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if backend := os.Getenv("SAVEPLAN_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	// API_URL is the name the front-end has always used for the backend
	if u := os.Getenv("API_URL"); u != "" {
		config.Clients.Optimizer.BaseURL = u
	}
	if u := os.Getenv("SAVEPLAN_API_URL"); u != "" {
		config.Clients.Optimizer.BaseURL = u
	}

	for _, name := range []string{"OPENAI_API_KEY", "SAVEPLAN_CHAT_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			config.Clients.Chat.APIKey = v
		}
	}
	if v := os.Getenv("SAVEPLAN_CHAT_BASE_URL"); v != "" {
		config.Clients.Chat.BaseURL = v
	}
	if v := os.Getenv("SAVEPLAN_CHAT_MODEL"); v != "" {
		config.Clients.Chat.Model = v
	}

	for _, name := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "SAVEPLAN_GEMINI_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			config.Clients.Gemini.APIKey = v
		}
	}

	if v := os.Getenv("SAVEPLAN_EXPLAIN_PROVIDER"); v != "" {
		config.Explain.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("SAVEPLAN_REDIS_ADDR"); v != "" {
		config.Explain.RedisAddr = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ExplainEnabled reports whether the configured explanation provider has credentials.
func (c *Config) ExplainEnabled() bool {
	switch c.Explain.Provider {
	case "gemini":
		return c.Clients.Gemini.APIKey != ""
	default:
		return c.Clients.Chat.APIKey != ""
	}
}

// ResolvePaths makes the storage path absolute relative to baseDir.
func (c *Config) ResolvePaths(baseDir string) {
	if c.Storage.Path != "" && !filepath.IsAbs(c.Storage.Path) {
		c.Storage.Path = filepath.Join(baseDir, c.Storage.Path)
	}
}
