package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DataDir:        "./data/docs",
		StoreBackend:   BackendChromem,
		OpenAIAPIKey:   "sk-test",
		ChatModel:      "gpt-4o-mini",
		EmbedModel:     "text-embedding-3-small",
		EmbedDimension: 1536,
		ChunkSize:      500,
		ChunkOverlap:   50,
		TopK:           3,
		MinScore:       0.4,
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAIAPIKey = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestValidate_OverlapNotSmallerThanChunkSize(t *testing.T) {
	cfg := validConfig()
	cfg.ChunkOverlap = cfg.ChunkSize
	assert.Error(t, cfg.Validate())

	cfg.ChunkOverlap = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_TopKAndScore(t *testing.T) {
	cfg := validConfig()
	cfg.TopK = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.MinScore = 1.5
	assert.Error(t, cfg.Validate())
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := validConfig()
	cfg.StoreBackend = "faiss"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store backend")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, BackendChromem, cfg.StoreBackend)
	assert.Equal(t, 1536, cfg.EmbedDimension)
}
