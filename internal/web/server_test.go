package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/answer"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/chunker"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/indexer"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

type stubAnswerer struct {
	tokens  []string
	chunks  []store.ScoredChunk
	sources []string
	err     error
}

func (a *stubAnswerer) Stream(_ context.Context, question string, ev answer.StreamEvents) (*answer.Answer, error) {
	if a.err != nil {
		return nil, a.err
	}
	if ev.OnSource != nil {
		for _, c := range a.chunks {
			ev.OnSource(c)
		}
	}
	var full strings.Builder
	for _, tok := range a.tokens {
		full.WriteString(tok)
		if ev.OnToken != nil {
			ev.OnToken(tok)
		}
	}
	return &answer.Answer{Text: full.String(), Sources: a.sources}, nil
}

type stubReindexer struct {
	result *indexer.IndexResult
	err    error

	gotCfg chunker.Config
}

func (r *stubReindexer) Reindex(_ context.Context, cfg chunker.Config) (*indexer.IndexResult, error) {
	r.gotCfg = cfg
	return r.result, r.err
}

type stubStore struct {
	store.Store

	count     int
	healthErr error
}

func (s *stubStore) Count(_ context.Context) (int, error) { return s.count, nil }
func (s *stubStore) Health(_ context.Context) error       { return s.healthErr }

type stubLister struct {
	names []string
}

func (l *stubLister) List() ([]string, error) { return l.names, nil }

func newTestServer(cfg *Config) *Server {
	if cfg.Store == nil {
		cfg.Store = &stubStore{}
	}
	if cfg.Docs == nil {
		cfg.Docs = &stubLister{}
	}
	return NewServer(":0", cfg)
}

func TestAsk_StreamsSourcesTokensAndDone(t *testing.T) {
	answerer := &stubAnswerer{
		tokens: []string{"Dinner ", "is at 7pm."},
		chunks: []store.ScoredChunk{
			{Chunk: &store.Chunk{Source: "dining.md", Section: "# Dining"}, Score: 0.9},
		},
		sources: []string{"dining.md"},
	}
	srv := newTestServer(&Config{Answerer: answerer})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ask",
		strings.NewReader(`{"question":"When is dinner?"}`))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `event: source`)
	assert.Contains(t, body, `"source":"dining.md"`)
	assert.Contains(t, body, "event: token\ndata: \"Dinner \"")
	assert.Contains(t, body, `event: done`)
	assert.Contains(t, body, `"answer":"Dinner is at 7pm."`)

	// Sources arrive before the first token.
	assert.Less(t, strings.Index(body, "event: source"), strings.Index(body, "event: token"))
}

func TestAsk_ErrorEvent(t *testing.T) {
	srv := newTestServer(&Config{Answerer: &stubAnswerer{err: errors.New("model unavailable")}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ask",
		strings.NewReader(`{"question":"hi"}`))
	srv.Handler().ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), "event: error")
	assert.Contains(t, rec.Body.String(), "model unavailable")
}

func TestAsk_RejectsEmptyQuestion(t *testing.T) {
	srv := newTestServer(&Config{Answerer: &stubAnswerer{}})

	for _, body := range []string{`{}`, `{"question":"   "}`, `not json`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(body))
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestReindex(t *testing.T) {
	reindexer := &stubReindexer{result: &indexer.IndexResult{
		TotalDocs:      3,
		SuccessfulDocs: 2,
		TotalChunks:    12,
		FailedDocs:     []indexer.FailedDoc{{Path: "bad.txt", Reason: "boom"}},
		Duration:       1500 * time.Millisecond,
	}}
	srv := newTestServer(&Config{Reindexer: reindexer})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reindex", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ReindexResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.SuccessfulDocs)
	assert.Equal(t, 12, resp.TotalChunks)
	assert.Equal(t, []string{"bad.txt"}, resp.FailedDocs)
	assert.Equal(t, int64(1500), resp.DurationMS)
	assert.Equal(t, chunker.Config{}, reindexer.gotCfg, "empty body keeps the configured chunking")
}

func TestReindex_WithChunkConfig(t *testing.T) {
	reindexer := &stubReindexer{result: &indexer.IndexResult{}}
	srv := newTestServer(&Config{
		Reindexer: reindexer,
		Page:      PageConfig{ChunkSize: 500, Overlap: 50},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reindex",
		strings.NewReader(`{"chunk_size":200,"chunk_overlap":20}`))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, chunker.Config{Size: 200, Overlap: 20}, reindexer.gotCfg)
}

func TestReindex_PartialBodyInheritsConfig(t *testing.T) {
	reindexer := &stubReindexer{result: &indexer.IndexResult{}}
	srv := newTestServer(&Config{
		Reindexer: reindexer,
		Page:      PageConfig{ChunkSize: 500, Overlap: 50},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reindex",
		strings.NewReader(`{"chunk_size":300}`))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, chunker.Config{Size: 300, Overlap: 50}, reindexer.gotCfg)
}

func TestReindex_RejectsBadChunkConfig(t *testing.T) {
	for _, body := range []string{
		`{"chunk_size":0}`,
		`{"chunk_size":-5}`,
		`{"chunk_size":100,"chunk_overlap":100}`,
		`{"chunk_overlap":-1}`,
		`not json`,
	} {
		reindexer := &stubReindexer{result: &indexer.IndexResult{}}
		srv := newTestServer(&Config{
			Reindexer: reindexer,
			Page:      PageConfig{ChunkSize: 500, Overlap: 50},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/reindex", strings.NewReader(body))
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestReindex_Error(t *testing.T) {
	srv := newTestServer(&Config{Reindexer: &stubReindexer{err: errors.New("store down")}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reindex", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "store down")
}

func TestStatus(t *testing.T) {
	srv := newTestServer(&Config{
		Store:   &stubStore{count: 42},
		Docs:    &stubLister{names: []string{"guide.txt", "faq.md"}},
		Backend: "chromem",
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "chromem", resp.Backend)
	assert.Equal(t, 2, resp.Documents)
	assert.Equal(t, 42, resp.Chunks)
	assert.True(t, resp.Indexed)
}

func TestHealth(t *testing.T) {
	for _, tc := range []struct {
		name       string
		healthErr  error
		wantCode   int
		wantStatus string
	}{
		{"healthy", nil, http.StatusOK, "healthy"},
		{"unhealthy", errors.New("unreachable"), http.StatusServiceUnavailable, "unhealthy"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(&Config{Store: &stubStore{healthErr: tc.healthErr}})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			srv.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantStatus, resp.Status)
		})
	}
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(&Config{Page: PageConfig{
		Model: "gpt-4o-mini", ChunkSize: 500, Overlap: 50, TopK: 3,
	}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "gpt-4o-mini")
	assert.Contains(t, body, "/api/ask")
	assert.Contains(t, body, "500")
}

func TestIndexPage_UnknownPathIs404(t *testing.T) {
	srv := newTestServer(&Config{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
