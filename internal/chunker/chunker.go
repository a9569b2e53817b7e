// Package chunker splits documents into bounded, overlapping pieces that
// serve as the unit of retrieval.
package chunker

// Chunk is a bounded piece of a source document.
type Chunk struct {
	Index   int    // Position within the document (0, 1, 2...)
	Section string // Header hierarchy for markdown chunks, empty otherwise
	Text    string // Chunk text without section prefix
}

// EmbeddingText returns the text to embed for this chunk. Markdown chunks
// get their header path prepended so retrieval keeps section context.
func (c Chunk) EmbeddingText() string {
	if c.Section == "" {
		return c.Text
	}
	return c.Section + "\n\n" + c.Text
}

// Chunker splits document content into chunks.
type Chunker interface {
	// Chunk splits content into chunks. Source is the document file name,
	// used for logging only.
	Chunk(content, source string) ([]Chunk, error)
	// Name identifies the chunker for logging.
	Name() string
}

// Config holds the shared chunking parameters.
type Config struct {
	Size    int // Maximum chunk size in runes
	Overlap int // Runes shared between consecutive window chunks
}
