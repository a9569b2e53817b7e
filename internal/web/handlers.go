package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/answer"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/chunker"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

// askRequest is the body of POST /api/ask.
type askRequest struct {
	Question string `json:"question"`
}

// sourceEvent is the payload of an SSE "source" event.
type sourceEvent struct {
	Source  string  `json:"source"`
	Section string  `json:"section,omitempty"`
	Score   float64 `json:"score"`
}

// doneEvent is the payload of the terminal SSE "done" event.
type doneEvent struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// reindexRequest is the optional body of POST /api/reindex. Absent fields
// fall back to the configured chunking parameters.
type reindexRequest struct {
	ChunkSize    *int `json:"chunk_size"`
	ChunkOverlap *int `json:"chunk_overlap"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Backend   string `json:"backend"`
	Documents int    `json:"documents"`
	Chunks    int    `json:"chunks"`
	Indexed   bool   `json:"indexed"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Store     string `json:"store"`
	Timestamp string `json:"timestamp"`
}

// ReindexResponse is the body of POST /api/reindex.
type ReindexResponse struct {
	TotalDocs      int      `json:"total_docs"`
	SuccessfulDocs int      `json:"successful_docs"`
	TotalChunks    int      `json:"total_chunks"`
	FailedDocs     []string `json:"failed_docs,omitempty"`
	DurationMS     int64    `json:"duration_ms"`
}

func (s *Server) makeAskHandler(answerer Answerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		question := strings.TrimSpace(req.Question)
		if question == "" {
			http.Error(w, "question is required", http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		events := answer.StreamEvents{
			OnSource: func(chunk store.ScoredChunk) {
				writeEvent(w, flusher, "source", sourceEvent{
					Source:  chunk.Chunk.Source,
					Section: chunk.Chunk.Section,
					Score:   chunk.Score,
				})
			},
			OnToken: func(token string) {
				writeEvent(w, flusher, "token", token)
			},
		}

		ans, err := answerer.Stream(r.Context(), question, events)
		if err != nil {
			s.logger.Error("Ask failed", "error", err)
			writeEvent(w, flusher, "error", err.Error())
			return
		}

		writeEvent(w, flusher, "done", doneEvent{
			Answer:  ans.Text,
			Sources: ans.Sources,
		})
	}
}

// writeEvent emits one SSE event. Payloads are JSON-encoded, which also
// keeps multi-line token text on a single data line.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}

func (s *Server) makeReindexHandler(reindexer Reindexer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := s.reindexConfig(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		result, err := reindexer.Reindex(r.Context(), cfg)
		if err != nil {
			s.logger.Error("Reindex failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		resp := ReindexResponse{
			TotalDocs:      result.TotalDocs,
			SuccessfulDocs: result.SuccessfulDocs,
			TotalChunks:    result.TotalChunks,
			DurationMS:     result.Duration.Milliseconds(),
		}
		for _, f := range result.FailedDocs {
			resp.FailedDocs = append(resp.FailedDocs, f.Path)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// reindexConfig parses the optional request body into a chunker config.
// An empty body keeps the boot-time parameters; partial bodies inherit the
// missing field from them.
func (s *Server) reindexConfig(r *http.Request) (chunker.Config, error) {
	var req reindexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		return chunker.Config{}, fmt.Errorf("invalid JSON body")
	}
	if req.ChunkSize == nil && req.ChunkOverlap == nil {
		return chunker.Config{}, nil
	}

	cfg := chunker.Config{Size: s.page.ChunkSize, Overlap: s.page.Overlap}
	if req.ChunkSize != nil {
		cfg.Size = *req.ChunkSize
	}
	if req.ChunkOverlap != nil {
		cfg.Overlap = *req.ChunkOverlap
	}
	if cfg.Size <= 0 {
		return chunker.Config{}, fmt.Errorf("chunk size must be positive, got %d", cfg.Size)
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		return chunker.Config{}, fmt.Errorf("chunk overlap %d must be in [0, chunk size %d)", cfg.Overlap, cfg.Size)
	}
	return cfg, nil
}

func (s *Server) makeStatusHandler(docs DocLister, st store.Store, backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := st.Count(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		names, err := docs.List()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, StatusResponse{
			Backend:   backend,
			Documents: len(names),
			Chunks:    count,
			Indexed:   count > 0,
		})
	}
}

func (s *Server) makeHealthHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := HealthResponse{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if err := st.Health(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Store = "disconnected"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Status = "healthy"
		resp.Store = "connected"
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
