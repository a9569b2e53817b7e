// Package qdrant provides a Qdrant-backed vector store for server
// deployments where the index outlives the process.
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

const collectionName = "chunks"

// upserts are batched to keep request sizes bounded
const upsertBatchSize = 100

// Store wraps the Qdrant gRPC client with connection management and
// health checks.
type Store struct {
	client    *qdrant.Client
	dimension int
}

// New creates a Qdrant store and validates connectivity. The health check
// retries with exponential backoff and fails fast if Qdrant stays
// unreachable.
func New(host string, port, dimension int) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	s := &Store{client: client, dimension: dimension}

	ctx := context.Background()
	if err := s.healthCheckWithRetry(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnreachable, err)
	}
	if err := s.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) healthCheckWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, backoff.WithContext(b, ctx))
}

// Health performs a single health check against Qdrant.
func (s *Store) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// ensureCollection creates the chunks collection with cosine distance and
// payload indexes on the filterable fields. Idempotent.
func (s *Store) ensureCollection(ctx context.Context) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, name := range collections {
		if name == collectionName {
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	// Without payload indexes, filtered queries degrade badly.
	for _, field := range []string{"source", "doc_id"} {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: collectionName,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("create index for field %s: %w", field, err)
		}
	}
	return nil
}

// Upsert stores chunks in batches with retry on transient failures.
func (s *Store) Upsert(ctx context.Context, chunks []*store.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for i, chunk := range chunks {
		if len(chunk.Embedding) != s.dimension {
			return fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				store.ErrDimensionMismatch, i, len(chunk.Embedding), s.dimension)
		}
	}

	for i := 0; i < len(chunks); i += upsertBatchSize {
		end := min(i+upsertBatchSize, len(chunks))
		batch := chunks[i:end]

		points := make([]*qdrant.PointStruct, len(batch))
		for j, chunk := range batch {
			points[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(chunk.ID),
				Vectors: qdrant.NewVectors(chunk.Embedding...),
				Payload: qdrant.NewValueMap(map[string]any{
					"doc_id":      chunk.DocID,
					"source":      chunk.Source,
					"section":     chunk.Section,
					"chunk_index": chunk.Index,
					"text":        chunk.Text,
				}),
			}
		}

		if err := s.upsertWithRetry(ctx, points); err != nil {
			return fmt.Errorf("upsert batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

func (s *Store) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collectionName,
			Points:         points,
		})
		return err
	}, backoff.WithContext(b, ctx))
}

// Search performs similarity search, returning up to topK scored chunks.
func (s *Store) Search(ctx context.Context, embedding []float32, topK int, minScore float64) ([]store.ScoredChunk, error) {
	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			store.ErrDimensionMismatch, len(embedding), s.dimension)
	}

	query := &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if minScore > 0 {
		query.ScoreThreshold = qdrant.PtrOf(float32(minScore))
	}

	results, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	scored := make([]store.ScoredChunk, 0, len(results))
	for _, result := range results {
		payload := result.Payload
		scored = append(scored, store.ScoredChunk{
			Chunk: &store.Chunk{
				ID:      result.Id.GetUuid(),
				DocID:   payload["doc_id"].GetStringValue(),
				Source:  payload["source"].GetStringValue(),
				Section: payload["section"].GetStringValue(),
				Index:   int(payload["chunk_index"].GetIntegerValue()),
				Text:    payload["text"].GetStringValue(),
			},
			Score: float64(result.Score),
		})
	}
	return scored, nil
}

// Count returns the number of points in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	info, err := s.client.GetCollectionInfo(ctx, collectionName)
	if err != nil {
		return 0, fmt.Errorf("get collection info: %w", err)
	}
	return int(info.GetPointsCount()), nil
}

// Reset deletes the collection and recreates it empty.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, collectionName); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return s.ensureCollection(ctx)
}

// Persist is a no-op; Qdrant manages its own durability.
func (s *Store) Persist(ctx context.Context) error {
	return nil
}

// Close closes the Qdrant client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
