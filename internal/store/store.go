// Package store defines the vector store boundary used for chunk indexing
// and similarity search.
package store

import "context"

// Chunk is an indexed piece of a document together with its embedding.
type Chunk struct {
	ID        string    // UUID
	DocID     string    // Parent document ID
	Source    string    // Document file name, e.g. "packing-list.txt"
	Section   string    // Header hierarchy for markdown chunks, empty otherwise
	Index     int       // Position in document (0, 1, 2...)
	Text      string    // Chunk text content
	Embedding []float32 // Vector; length must match the store dimension
}

// ScoredChunk is a search hit with its cosine similarity score.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64
}

// Store is implemented by the vector store backends. All implementations
// reject embeddings whose length differs from the configured dimension.
type Store interface {
	// Upsert adds or replaces chunks in the index.
	Upsert(ctx context.Context, chunks []*Chunk) error
	// Search returns up to topK chunks ordered by similarity descending,
	// all scoring at least minScore.
	Search(ctx context.Context, embedding []float32, topK int, minScore float64) ([]ScoredChunk, error)
	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int, error)
	// Reset removes all indexed chunks.
	Reset(ctx context.Context) error
	// Persist writes the index to durable storage where the backend
	// supports it; otherwise it is a no-op.
	Persist(ctx context.Context) error
	// Health reports whether the backend is reachable.
	Health(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}
