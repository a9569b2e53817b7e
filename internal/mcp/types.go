// Package mcp exposes the document QA pipeline as Model Context Protocol
// tools, so agent clients can search and ask questions over the index.
package mcp

// AskDocsInput defines the input parameters for the ask_docs tool.
type AskDocsInput struct {
	// Question is the natural language question to answer.
	Question string `json:"question" jsonschema:"required,description=The question to answer from the indexed documents"`
}

// AskDocsOutput contains the generated answer.
type AskDocsOutput struct {
	// Answer is the grounded answer text.
	Answer string `json:"answer"`
	// Sources lists the documents the answer drew from.
	Sources []string `json:"sources"`
}

// SearchDocsInput defines the input parameters for the search_docs tool.
type SearchDocsInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"required,description=The semantic search query for finding relevant document chunks"`
	// MaxResults is the maximum number of chunks to return.
	MaxResults int `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=20,default=3,description=Maximum number of chunks to return"`
	// MinScore is the minimum relevance threshold (0-1).
	MinScore float64 `json:"min_score,omitempty" jsonschema:"minimum=0,maximum=1,default=0.4,description=Minimum relevance score threshold (0-1)"`
}

// SearchDocsOutput contains the search results.
type SearchDocsOutput struct {
	// Results is the list of matching chunks.
	Results []SearchResult `json:"results"`
	// Message provides informational context (e.g., "No matching chunks found").
	Message string `json:"message,omitempty"`
}

// SearchResult represents a single chunk match from semantic search.
type SearchResult struct {
	// Source is the document the chunk came from.
	Source string `json:"source"`
	// Section is the markdown section path, when known.
	Section string `json:"section,omitempty"`
	// Score is the similarity score (0-1).
	Score float64 `json:"score"`
	// Text is the chunk content.
	Text string `json:"text"`
}

// ListDocsInput defines the input parameters for the list_docs tool.
// This tool takes no parameters and lists all available documents.
type ListDocsInput struct {
	// No input parameters required
}

// ListDocsOutput contains the list of all available document names.
type ListDocsOutput struct {
	// Paths is all available document file names.
	Paths []string `json:"paths"`
	// Count is the total number of documents.
	Count int `json:"count"`
}

// StatusInput defines the input parameters for the index_status tool.
type StatusInput struct {
	// No input parameters required
}

// StatusOutput contains the current index status.
type StatusOutput struct {
	// TotalDocs is the number of documents in the source folder.
	TotalDocs int `json:"total_docs"`
	// TotalChunks is the number of chunks in the vector index.
	TotalChunks int `json:"total_chunks"`
	// Indexed reports whether the index holds any chunks.
	Indexed bool `json:"indexed"`
}
