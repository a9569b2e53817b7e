// Package indexer orchestrates the ingestion pipeline: load documents,
// chunk them, embed the chunks, and upsert everything into the vector store.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/chunker"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/document"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

// Source provides the documents to index. The local folder loader and the
// GitHub fetcher both satisfy it.
type Source interface {
	Load(ctx context.Context) ([]document.Document, error)
}

// Embedder turns chunk texts into embedding vectors.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// IndexResult contains statistics about an indexing operation.
type IndexResult struct {
	TotalDocs      int
	TotalChunks    int
	SuccessfulDocs int
	FailedDocs     []FailedDoc
	Duration       time.Duration
}

// FailedDoc represents a document that failed to index.
type FailedDoc struct {
	Path   string
	Reason string
}

// Pipeline orchestrates the full indexing process from loading to storage.
type Pipeline struct {
	source   Source
	chunkers *chunker.Factory
	embedder Embedder
	store    store.Store
	logger   *slog.Logger
}

// NewPipeline creates a new indexing pipeline with the given components.
func NewPipeline(
	source Source,
	chunkers *chunker.Factory,
	embedder Embedder,
	st store.Store,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:   source,
		chunkers: chunkers,
		embedder: embedder,
		store:    st,
		logger:   logger,
	}
}

// IndexAll loads all documents from the source and indexes them into the
// store. Documents that fail are skipped and reported in the result so one
// broken file never aborts the run. The store is persisted at the end.
func (p *Pipeline) IndexAll(ctx context.Context) (*IndexResult, error) {
	return p.indexAll(ctx, p.chunkers)
}

func (p *Pipeline) indexAll(ctx context.Context, chunkers *chunker.Factory) (*IndexResult, error) {
	start := time.Now()
	result := &IndexResult{}

	docs, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	result.TotalDocs = len(docs)
	p.logger.Info("Starting indexing", "documents", len(docs))

	for _, doc := range docs {
		chunks, err := p.processDocument(ctx, chunkers, doc)
		if err != nil {
			p.logger.Warn("Failed to process document", "path", doc.Path, "error", err)
			result.FailedDocs = append(result.FailedDocs, FailedDoc{
				Path:   doc.Path,
				Reason: err.Error(),
			})
			continue
		}
		result.SuccessfulDocs++
		result.TotalChunks += chunks
	}

	if err := p.store.Persist(ctx); err != nil {
		return nil, fmt.Errorf("persist index: %w", err)
	}

	result.Duration = time.Since(start)
	p.logger.Info("Indexing complete",
		"successful", result.SuccessfulDocs,
		"failed", len(result.FailedDocs),
		"chunks", result.TotalChunks,
		"duration", result.Duration,
	)

	return result, nil
}

// Reindex clears the store and rebuilds it from scratch. A non-zero cfg
// overrides the chunking parameters for this run only, so callers can
// rebuild with a different chunk size without restarting.
func (p *Pipeline) Reindex(ctx context.Context, cfg chunker.Config) (*IndexResult, error) {
	chunkers := p.chunkers
	if cfg != (chunker.Config{}) {
		chunkers = chunker.NewFactory(cfg)
	}
	if err := p.store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset store: %w", err)
	}
	return p.indexAll(ctx, chunkers)
}

// processDocument chunks, embeds, and stores a single document.
// Returns the number of chunks created.
func (p *Pipeline) processDocument(ctx context.Context, chunkers *chunker.Factory, doc document.Document) (int, error) {
	ck := chunkers.ForFile(doc.Path)
	chunks, err := ck.Chunk(doc.Content, doc.Path)
	if err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	p.logger.Debug("Chunked document",
		"path", doc.Path, "chunker", ck.Name(), "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.EmbeddingText()
	}

	embeddings, err := p.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embeddings: %w", err)
	}

	storeChunks := make([]*store.Chunk, len(chunks))
	for i, chunk := range chunks {
		storeChunks[i] = &store.Chunk{
			ID:        uuid.New().String(),
			DocID:     doc.ID,
			Source:    doc.Path,
			Section:   chunk.Section,
			Index:     chunk.Index,
			Text:      chunk.Text,
			Embedding: embeddings[i],
		}
	}

	if err := p.store.Upsert(ctx, storeChunks); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}

	p.logger.Info("Indexed document", "path", doc.Path, "chunks", len(chunks))
	return len(chunks), nil
}
