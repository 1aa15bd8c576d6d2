// Package config loads service configuration from a TOML file with
// environment-variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects and configures the vector store implementation.
type StoreConfig struct {
	// Type is one of "snapshot", "sqlite", "bleve".
	Type string `toml:"type"`
	// Path is the durable artifact location: a snapshot file, a sqlite
	// database file, or a bleve index directory depending on Type.
	Path string `toml:"path"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is one of "google", "openai". Ignored for the bleve store,
	// which retrieves lexically.
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
}

// LLMConfig selects and configures the answer generator.
type LLMConfig struct {
	// Provider is one of "google", "openai", "anthropic".
	Provider    string `toml:"provider"`
	Model       string `toml:"model"`
	MaxTokens   int    `toml:"max_tokens"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// RetrievalConfig configures passage retrieval.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Config is the root service configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Store     StoreConfig     `toml:"store"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Log       LogConfig       `toml:"log"`

	// APIKeys are read from the environment, never from the TOML file.
	GeminiAPIKey    string `toml:"-"`
	OpenAIAPIKey    string `toml:"-"`
	AnthropicAPIKey string `toml:"-"`
}

// StandardPaths returns the config file locations in order of priority.
func StandardPaths() []string {
	paths := []string{"careerguide.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "careerguide", "careerguide.toml"))
	}
	return paths
}

// Load reads the config from the given path. An empty path searches
// StandardPaths and falls back to defaults when no file exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, p := range StandardPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.loadEnv()
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Addr: ":8000"},
		Store:     StoreConfig{Type: "snapshot"},
		Embedding: EmbeddingConfig{Provider: "google", Model: "text-embedding-004"},
		LLM: LLMConfig{
			Provider:    "google",
			Model:       "gemini-2.0-flash",
			MaxTokens:   500,
			TimeoutSecs: 60,
		},
		Retrieval: RetrievalConfig{TopK: 4},
		Log:       LogConfig{Level: "info"},
	}
}

// GenerateTimeout returns the deadline applied to generative model calls.
func (c *Config) GenerateTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSecs) * time.Second
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Store.Type == "" {
		c.Store.Type = d.Store.Type
	}
	if c.Store.Path == "" {
		switch c.Store.Type {
		case "sqlite":
			c.Store.Path = "resume_index.db"
		case "bleve":
			c.Store.Path = "resume_index.bleve"
		default:
			c.Store.Path = "resume_index"
		}
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = d.Embedding.Provider
	}
	if c.Embedding.Model == "" {
		switch c.Embedding.Provider {
		case "openai":
			c.Embedding.Model = "text-embedding-3-small"
		default:
			c.Embedding.Model = d.Embedding.Model
		}
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = d.LLM.Provider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = d.LLM.Model
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = d.LLM.MaxTokens
	}
	if c.LLM.TimeoutSecs == 0 {
		c.LLM.TimeoutSecs = d.LLM.TimeoutSecs
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = d.Retrieval.TopK
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

func (c *Config) loadEnv() {
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	if addr := os.Getenv("CAREERGUIDE_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("CAREERGUIDE_STORE_PATH"); path != "" {
		c.Store.Path = path
	}
}

// Validate checks configuration consistency. A missing API key is not an
// error here; the service starts and the failure surfaces inside the
// generator's error-wrapped path.
func (c *Config) Validate() error {
	switch c.Store.Type {
	case "snapshot", "sqlite", "bleve":
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	switch c.Embedding.Provider {
	case "google", "openai", "mock":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.LLM.Provider {
	case "google", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval top_k must be positive, got %d", c.Retrieval.TopK)
	}
	return nil
}
