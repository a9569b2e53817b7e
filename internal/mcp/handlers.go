package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/store"
)

// makeAskHandler creates the ask_docs tool handler. It runs the full
// retrieve-then-generate pipeline and returns the final answer.
func makeAskHandler(answerer Answerer) func(
	context.Context, *mcp.CallToolRequest, AskDocsInput,
) (*mcp.CallToolResult, AskDocsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskDocsInput) (
		*mcp.CallToolResult, AskDocsOutput, error,
	) {
		ans, err := answerer.Ask(ctx, input.Question)
		if err != nil {
			return nil, AskDocsOutput{}, fmt.Errorf("answer question: %w", err)
		}

		sources := ans.Sources
		if sources == nil {
			sources = []string{}
		}
		return nil, AskDocsOutput{Answer: ans.Text, Sources: sources}, nil
	}
}

// makeSearchHandler creates the search_docs tool handler. It embeds the
// query and returns the raw matching chunks without calling the chat model.
func makeSearchHandler(embedder Embedder, st store.Store) func(
	context.Context, *mcp.CallToolRequest, SearchDocsInput,
) (*mcp.CallToolResult, SearchDocsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchDocsInput) (
		*mcp.CallToolResult, SearchDocsOutput, error,
	) {
		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 3
		}
		minScore := input.MinScore
		if minScore <= 0 {
			minScore = 0.4
		}

		embeddings, err := embedder.GenerateEmbeddings(ctx, []string{input.Query})
		if err != nil {
			return nil, SearchDocsOutput{}, fmt.Errorf("embed query: %w", err)
		}

		matches, err := st.Search(ctx, embeddings[0], maxResults, minScore)
		if err != nil {
			return nil, SearchDocsOutput{}, fmt.Errorf("search failed: %w", err)
		}

		results := make([]SearchResult, 0, len(matches))
		for _, m := range matches {
			results = append(results, SearchResult{
				Source:  m.Chunk.Source,
				Section: m.Chunk.Section,
				Score:   m.Score,
				Text:    m.Chunk.Text,
			})
		}

		if len(results) == 0 {
			return nil, SearchDocsOutput{
				Results: []SearchResult{},
				Message: "No matching chunks found. Try broader search terms.",
			}, nil
		}

		return nil, SearchDocsOutput{Results: results}, nil
	}
}

// makeListHandler creates the list_docs tool handler.
func makeListHandler(lister DocLister) func(
	context.Context, *mcp.CallToolRequest, ListDocsInput,
) (*mcp.CallToolResult, ListDocsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListDocsInput) (
		*mcp.CallToolResult, ListDocsOutput, error,
	) {
		paths, err := lister.List()
		if err != nil {
			return nil, ListDocsOutput{}, fmt.Errorf("list documents: %w", err)
		}
		if paths == nil {
			paths = []string{}
		}

		return nil, ListDocsOutput{Paths: paths, Count: len(paths)}, nil
	}
}

// makeStatusHandler creates the index_status tool handler.
func makeStatusHandler(lister DocLister, st store.Store) func(
	context.Context, *mcp.CallToolRequest, StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, StatusOutput, error,
	) {
		paths, err := lister.List()
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("list documents: %w", err)
		}

		chunks, err := st.Count(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("count chunks: %w", err)
		}

		return nil, StatusOutput{
			TotalDocs:   len(paths),
			TotalChunks: chunks,
			Indexed:     chunks > 0,
		}, nil
	}
}
