package chunker

import (
	"strings"
	"testing"
)

func TestMarkdownChunker_BasicHeaders(t *testing.T) {
	input := `# Travel Guide

Welcome to the trip.

## Dining

Breakfast is served at the marina restaurant.

## Activities

Kayak tours leave every morning.
`

	chunker := NewMarkdownChunker(Config{Size: 500, Overlap: 50})
	chunks, err := chunker.Chunk(input, "guide.md")
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}

	if chunks[0].Section != "# Travel Guide" {
		t.Errorf("Chunk 0 section: got %q", chunks[0].Section)
	}
	if !strings.Contains(chunks[0].Text, "Welcome to the trip") {
		t.Error("Chunk 0 missing intro text")
	}

	if chunks[1].Section != "# Travel Guide > ## Dining" {
		t.Errorf("Chunk 1 section: got %q", chunks[1].Section)
	}
	if !strings.Contains(chunks[1].Text, "marina restaurant") {
		t.Error("Chunk 1 missing dining text")
	}

	if chunks[2].Section != "# Travel Guide > ## Activities" {
		t.Errorf("Chunk 2 section: got %q", chunks[2].Section)
	}
	if !strings.Contains(chunks[2].Text, "Kayak tours") {
		t.Error("Chunk 2 missing activities text")
	}

	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("Chunk %d has index %d", i, c.Index)
		}
	}
}

func TestMarkdownChunker_EmbeddingTextHasSection(t *testing.T) {
	input := "# Spa\n\nMassages available daily.\n"

	chunker := NewMarkdownChunker(Config{Size: 500, Overlap: 50})
	chunks, err := chunker.Chunk(input, "spa.md")
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}

	embed := chunks[0].EmbeddingText()
	if !strings.HasPrefix(embed, "# Spa\n\n") {
		t.Errorf("Embedding text should start with section, got %q", embed)
	}
	if !strings.Contains(embed, "Massages available daily") {
		t.Error("Embedding text missing body")
	}
}

func TestMarkdownChunker_DeepHeadersStayWithParent(t *testing.T) {
	input := `# Guide

## Dining

### Breakfast

Served at eight.

### Dinner

Served at seven.
`

	chunker := NewMarkdownChunker(Config{Size: 500, Overlap: 50})
	chunks, err := chunker.Chunk(input, "guide.md")
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	// H3 sections do not split; they stay inside the H2 chunk
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	dining := chunks[1]
	if !strings.Contains(dining.Text, "Served at eight") || !strings.Contains(dining.Text, "Served at seven") {
		t.Errorf("H3 content should remain in the H2 chunk, got %q", dining.Text)
	}
}

func TestMarkdownChunker_NoHeadersFallsBackToText(t *testing.T) {
	input := strings.Repeat("plain text without any headers ", 40)

	chunker := NewMarkdownChunker(Config{Size: 200, Overlap: 20})
	chunks, err := chunker.Chunk(input, "notes.md")
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	if len(chunks) < 2 {
		t.Fatalf("Expected window splitting for headerless input, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if c.Section != "" {
			t.Errorf("Chunk %d should have no section, got %q", i, c.Section)
		}
		if got := len([]rune(c.Text)); got > 200 {
			t.Errorf("Chunk %d has %d runes, limit is 200", i, got)
		}
	}
}

func TestMarkdownChunker_CodeBlocksPreserved(t *testing.T) {
	input := "# Setup\n\nRun this:\n\n```sh\ncurl -s https://example.com | sh\n```\n"

	chunker := NewMarkdownChunker(Config{Size: 500, Overlap: 50})
	chunks, err := chunker.Chunk(input, "setup.md")
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "curl -s https://example.com") {
		t.Error("Code block content missing from chunk")
	}
}

func TestFactory_PicksByExtension(t *testing.T) {
	f := NewFactory(Config{Size: 500, Overlap: 50})

	if got := f.ForFile("guide.md").Name(); got != "markdown" {
		t.Errorf("Expected markdown chunker for .md, got %q", got)
	}
	if got := f.ForFile("guide.MARKDOWN").Name(); got != "markdown" {
		t.Errorf("Expected markdown chunker for .MARKDOWN, got %q", got)
	}
	if got := f.ForFile("notes.txt").Name(); got != "text" {
		t.Errorf("Expected text chunker for .txt, got %q", got)
	}
	if got := f.ForFile("data.csv").Name(); got != "text" {
		t.Errorf("Expected text chunker fallback, got %q", got)
	}
}

func TestFactory_PicksByName(t *testing.T) {
	f := NewFactory(Config{Size: 500, Overlap: 50})

	if got := f.ForName("markdown").Name(); got != "markdown" {
		t.Errorf("Expected markdown chunker, got %q", got)
	}
	if got := f.ForName("anything").Name(); got != "text" {
		t.Errorf("Expected text chunker fallback, got %q", got)
	}
}
