// Package config loads application configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Store backend names accepted by Config.StoreBackend.
const (
	BackendChromem = "chromem"
	BackendQdrant  = "qdrant"
)

// Config holds all application configuration, populated from environment
// variables (a .env file is loaded by the entrypoints before parsing).
type Config struct {
	// Document source
	DataDir string `env:"DATA_DIR" envDefault:"./data/docs"`

	// Optional GitHub document source. When Owner and Repo are set, the
	// index CLI can pull documents from a repository directory instead
	// of the local folder.
	GitHubOwner string `env:"GITHUB_OWNER"`
	GitHubRepo  string `env:"GITHUB_REPO"`
	GitHubPath  string `env:"GITHUB_PATH"`
	GitHubRef   string `env:"GITHUB_REF"`

	// Vector store
	StoreBackend string `env:"STORE_BACKEND" envDefault:"chromem"`
	IndexPath    string `env:"INDEX_PATH" envDefault:"./data/index.chromem"`
	QdrantHost   string `env:"QDRANT_HOST" envDefault:"localhost"`
	QdrantPort   int    `env:"QDRANT_PORT" envDefault:"6334"`

	// LLM / embeddings. OpenAIBaseURL may point at any OpenAI-compatible
	// endpoint (Groq, vLLM, ...).
	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `env:"OPENAI_BASE_URL"`
	ChatModel      string `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	EmbedModel     string `env:"EMBED_MODEL" envDefault:"text-embedding-3-small"`
	EmbedDimension int    `env:"EMBED_DIMENSION" envDefault:"1536"`

	// Retrieval parameters
	ChunkSize    int     `env:"CHUNK_SIZE" envDefault:"500"`
	ChunkOverlap int     `env:"CHUNK_OVERLAP" envDefault:"50"`
	TopK         int     `env:"TOP_K" envDefault:"3"`
	MinScore     float64 `env:"MIN_SCORE" envDefault:"0.4"`

	// HTTP server
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be in [0, chunk size %d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top-K must be positive, got %d", c.TopK)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("min score %g must be in [0, 1]", c.MinScore)
	}
	if c.EmbedDimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.EmbedDimension)
	}
	switch c.StoreBackend {
	case BackendChromem, BackendQdrant:
	default:
		return fmt.Errorf("unknown store backend %q (want %q or %q)", c.StoreBackend, BackendChromem, BackendQdrant)
	}
	return nil
}
