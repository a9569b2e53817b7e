// Package answer turns a user question into a grounded, streamed response:
// retrieve the most similar chunks, build a prompt from them, and ask the
// chat model.
package answer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

// Embedder produces a query embedding.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever finds the chunks most relevant to a question.
type Retriever struct {
	embedder Embedder
	store    store.Store
	topK     int
	minScore float64
	logger   *slog.Logger
}

// NewRetriever creates a retriever with the given search parameters.
func NewRetriever(embedder Embedder, st store.Store, topK int, minScore float64, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		embedder: embedder,
		store:    st,
		topK:     topK,
		minScore: minScore,
		logger:   logger,
	}
}

// Retrieve embeds the question and returns the top matching chunks, best
// first. An empty result means nothing scored above the minimum.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]store.ScoredChunk, error) {
	embeddings, err := r.embedder.GenerateEmbeddings(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("embed question: expected 1 embedding, got %d", len(embeddings))
	}

	results, err := r.store.Search(ctx, embeddings[0], r.topK, r.minScore)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	r.logger.Debug("Retrieved chunks", "question_len", len(question), "results", len(results))
	return results, nil
}
