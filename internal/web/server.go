// Package web serves the chat UI and the HTTP API in front of the
// question answering pipeline.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/answer"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/chunker"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/indexer"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

// Answerer streams an answer to a question.
type Answerer interface {
	Stream(ctx context.Context, question string, ev answer.StreamEvents) (*answer.Answer, error)
}

// Reindexer rebuilds the vector index from the document source. A
// non-zero chunker config overrides the chunking parameters for the run.
type Reindexer interface {
	Reindex(ctx context.Context, cfg chunker.Config) (*indexer.IndexResult, error)
}

// DocLister enumerates the documents available for indexing.
type DocLister interface {
	List() ([]string, error)
}

// Config holds the server's dependencies.
type Config struct {
	Answerer  Answerer
	Reindexer Reindexer
	Store     store.Store
	Docs      DocLister
	Backend   string
	Page      PageConfig
	Logger    *slog.Logger

	// Extra handlers mounted on the mux, keyed by pattern. Used to expose
	// the MCP endpoint alongside the API.
	Extra map[string]http.Handler
}

// Server is the HTTP front end.
type Server struct {
	httpServer *http.Server
	page       PageConfig
	logger     *slog.Logger
}

// NewServer builds the server and its routes.
func NewServer(addr string, cfg *Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{page: cfg.Page, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /api/ask", s.makeAskHandler(cfg.Answerer))
	mux.HandleFunc("POST /api/reindex", s.makeReindexHandler(cfg.Reindexer))
	mux.HandleFunc("GET /api/status", s.makeStatusHandler(cfg.Docs, cfg.Store, cfg.Backend))
	mux.HandleFunc("GET /health", s.makeHealthHandler(cfg.Store))
	for pattern, h := range cfg.Extra {
		mux.Handle(pattern, h)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens and serves until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
