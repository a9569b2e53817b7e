// Package app wires the configured components together so the commands
// share one construction path.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/answer"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/chunker"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/config"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/document"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/embedding"
	ghclient "github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/github"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/indexer"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store/chromem"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store/qdrant"
)

// App holds the wired components.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     store.Store
	Loader    *document.Loader
	Embedder  *embedding.Embedder
	Generator *answer.Generator
	Pipeline  *indexer.Pipeline

	// Fetcher is set when the GitHub source is in use.
	Fetcher *ghclient.Fetcher
}

// NewLogger builds a text slog logger at the given level.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// Options tweaks construction beyond the environment configuration.
type Options struct {
	// UseGitHub indexes from the configured GitHub repository instead of
	// the local documents folder.
	UseGitHub bool
}

// New builds the application from configuration.
func New(cfg *config.Config, opts Options) (*App, error) {
	logger := NewLogger(cfg.LogLevel)

	st, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	client, err := embedding.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	embedder := embedding.NewEmbedder(client, cfg.EmbedModel, cfg.EmbedDimension, 0)

	loader := document.NewLoader(cfg.DataDir, logger)

	var source indexer.Source = loader
	var fetcher *ghclient.Fetcher
	if opts.UseGitHub {
		if cfg.GitHubOwner == "" || cfg.GitHubRepo == "" {
			st.Close()
			return nil, fmt.Errorf("github source requires GITHUB_OWNER and GITHUB_REPO")
		}
		gh, err := ghclient.NewClient()
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("create github client: %w", err)
		}
		fetcher = ghclient.NewFetcher(gh, cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubPath, cfg.GitHubRef, logger)
		source = fetcher
	}

	factory := chunker.NewFactory(chunker.Config{Size: cfg.ChunkSize, Overlap: cfg.ChunkOverlap})
	pipeline := indexer.NewPipeline(source, factory, embedder, st, logger)

	retriever := answer.NewRetriever(embedder, st, cfg.TopK, cfg.MinScore, logger)
	generator := answer.NewGenerator(client.Client(), retriever, cfg.ChatModel, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     st,
		Loader:    loader,
		Embedder:  embedder,
		Generator: generator,
		Pipeline:  pipeline,
		Fetcher:   fetcher,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendQdrant:
		return qdrant.New(cfg.QdrantHost, cfg.QdrantPort, cfg.EmbedDimension)
	case config.BackendChromem:
		return chromem.New(cfg.IndexPath, cfg.EmbedDimension)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
