// Package chromem provides an embedded vector store backed by chromem-go,
// persisted to a single index file on disk.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

const collectionName = "chunks"

// Store is an embedded chromem-go vector store.
type Store struct {
	db        *chromem.DB
	col       *chromem.Collection
	path      string
	dimension int
}

// embeddings are computed upstream; the collection must never embed text
// on its own.
func rejectEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("collection expects precomputed embeddings")
}

// New opens the index file at path, creating an empty store if it does not
// exist yet.
func New(path string, dimension int) (*Store, error) {
	db := chromem.NewDB()

	if _, err := os.Stat(path); err == nil {
		if err := db.ImportFromFile(path, "", collectionName); err != nil {
			return nil, fmt.Errorf("import index file %s: %w", path, err)
		}
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, rejectEmbedding)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}

	return &Store{
		db:        db,
		col:       col,
		path:      path,
		dimension: dimension,
	}, nil
}

// Upsert adds or replaces chunks in the collection.
func (s *Store) Upsert(ctx context.Context, chunks []*store.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		if len(chunk.Embedding) != s.dimension {
			return fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				store.ErrDimensionMismatch, i, len(chunk.Embedding), s.dimension)
		}
		docs[i] = chromem.Document{
			ID:        chunk.ID,
			Content:   chunk.Text,
			Embedding: chunk.Embedding,
			Metadata: map[string]string{
				"doc_id":      chunk.DocID,
				"source":      chunk.Source,
				"section":     chunk.Section,
				"chunk_index": strconv.Itoa(chunk.Index),
			},
		}
	}

	if err := s.col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// Search returns the topK most similar chunks scoring at least minScore.
func (s *Store) Search(ctx context.Context, embedding []float32, topK int, minScore float64) ([]store.ScoredChunk, error) {
	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			store.ErrDimensionMismatch, len(embedding), s.dimension)
	}

	// chromem rejects queries asking for more results than stored
	count := s.col.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := s.col.QueryEmbedding(ctx, embedding, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	scored := make([]store.ScoredChunk, 0, len(results))
	for _, r := range results {
		score := float64(r.Similarity)
		if score < minScore {
			continue
		}
		index, _ := strconv.Atoi(r.Metadata["chunk_index"])
		scored = append(scored, store.ScoredChunk{
			Chunk: &store.Chunk{
				ID:      r.ID,
				DocID:   r.Metadata["doc_id"],
				Source:  r.Metadata["source"],
				Section: r.Metadata["section"],
				Index:   index,
				Text:    r.Content,
			},
			Score: score,
		})
	}
	return scored, nil
}

// Count returns the number of indexed chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.col.Count(), nil
}

// Reset drops all indexed chunks and removes the persisted index file.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	col, err := s.db.GetOrCreateCollection(collectionName, nil, rejectEmbedding)
	if err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	s.col = col

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove index file: %w", err)
	}
	return nil
}

// Persist writes the index to the configured file.
func (s *Store) Persist(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	if err := s.db.ExportToFile(s.path, true, "", collectionName); err != nil {
		return fmt.Errorf("export index file %s: %w", s.path, err)
	}
	return nil
}

// Health always succeeds; the store runs in-process.
func (s *Store) Health(ctx context.Context) error {
	return nil
}

// Close is a no-op; the store holds no external resources.
func (s *Store) Close() error {
	return nil
}
