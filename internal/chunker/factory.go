package chunker

import (
	"path/filepath"
	"strings"
)

// Factory picks a chunker for a document based on its file extension.
type Factory struct {
	config Config
}

// NewFactory creates a chunker factory with the given parameters.
func NewFactory(config Config) *Factory {
	return &Factory{config: config}
}

// Config returns the chunking parameters the factory was built with.
func (f *Factory) Config() Config {
	return f.config
}

// ForFile returns the chunker matching the file extension. Unknown
// extensions get the plain-text chunker.
func (f *Factory) ForFile(path string) Chunker {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return NewMarkdownChunker(f.config)
	default:
		return NewTextChunker(f.config)
	}
}

// ForName returns the chunker with the given name, as reported by
// Chunker.Name. Unknown names get the plain-text chunker.
func (f *Factory) ForName(name string) Chunker {
	if name == "markdown" {
		return NewMarkdownChunker(f.config)
	}
	return NewTextChunker(f.config)
}
