package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/answer"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

// Answerer runs the full question answering pipeline.
type Answerer interface {
	Ask(ctx context.Context, question string) (*answer.Answer, error)
}

// Embedder produces query embeddings for raw chunk search.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// DocLister enumerates the documents available for indexing.
type DocLister interface {
	List() ([]string, error)
}

// Server wraps the MCP server with dependencies.
type Server struct {
	server *mcp.Server
}

// Config holds server dependencies.
type Config struct {
	Answerer Answerer
	Embedder Embedder
	Store    store.Store
	Docs     DocLister
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "rag-chatbot-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_docs",
		Description: "Answer a question from the indexed documents. Runs retrieval plus generation and returns the answer with its sources.",
	}, makeAskHandler(cfg.Answerer))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_docs",
		Description: "Search the indexed documents semantically. Returns the raw matching chunks without generating an answer.",
	}, makeSearchHandler(cfg.Embedder, cfg.Store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_docs",
		Description: "List all document files available in the documents folder.",
	}, makeListHandler(cfg.Docs))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "index_status",
		Description: "Get the current index status: document count, chunk count, and whether the index is populated.",
	}, makeStatusHandler(cfg.Docs, cfg.Store))

	return &Server{server: server}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
