package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

type fakeEmbedder struct {
	embedding []float32
	err       error
	lastTexts []string
}

func (e *fakeEmbedder) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	e.lastTexts = texts
	if e.err != nil {
		return nil, e.err
	}
	return [][]float32{e.embedding}, nil
}

type fakeSearchStore struct {
	store.Store

	results      []store.ScoredChunk
	err          error
	lastTopK     int
	lastMinScore float64
}

func (s *fakeSearchStore) Search(_ context.Context, _ []float32, topK int, minScore float64) ([]store.ScoredChunk, error) {
	s.lastTopK = topK
	s.lastMinScore = minScore
	return s.results, s.err
}

func TestRetrieve_PassesParametersThrough(t *testing.T) {
	embedder := &fakeEmbedder{embedding: []float32{1, 0}}
	st := &fakeSearchStore{results: []store.ScoredChunk{
		{Chunk: &store.Chunk{Source: "a.txt", Text: "hit"}, Score: 0.8},
	}}

	r := NewRetriever(embedder, st, 3, 0.4, nil)
	results, err := r.Retrieve(context.Background(), "where is the spa?")
	require.NoError(t, err)

	assert.Equal(t, []string{"where is the spa?"}, embedder.lastTexts)
	assert.Equal(t, 3, st.lastTopK)
	assert.Equal(t, 0.4, st.lastMinScore)
	require.Len(t, results, 1)
	assert.Equal(t, "a.txt", results[0].Chunk.Source)
}

func TestRetrieve_EmbedderError(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("api down")}
	r := NewRetriever(embedder, &fakeSearchStore{}, 3, 0.4, nil)

	_, err := r.Retrieve(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed question")
}

func TestRetrieve_StoreError(t *testing.T) {
	embedder := &fakeEmbedder{embedding: []float32{1}}
	st := &fakeSearchStore{err: errors.New("index gone")}
	r := NewRetriever(embedder, st, 3, 0.4, nil)

	_, err := r.Retrieve(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search index")
}

func TestRetrieve_EmptyResultsIsNotAnError(t *testing.T) {
	embedder := &fakeEmbedder{embedding: []float32{1}}
	r := NewRetriever(embedder, &fakeSearchStore{}, 3, 0.4, nil)

	results, err := r.Retrieve(context.Background(), "unknown topic")
	require.NoError(t, err)
	assert.Empty(t, results)
}
