package chunker

import (
	"strings"
	"testing"
)

func TestTextChunker_WindowBoundaries(t *testing.T) {
	// 1200 runes of continuous text, no paragraph breaks
	input := strings.Repeat("abcdefghij", 120)

	chunker := NewTextChunker(Config{Size: 500, Overlap: 50})
	chunks, err := chunker.Chunk(input, "doc.txt")
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	if len(chunks) == 0 {
		t.Fatal("Expected chunks, got none")
	}

	for i, c := range chunks {
		if got := len([]rune(c.Text)); got > 500 {
			t.Errorf("Chunk %d has %d runes, limit is 500", i, got)
		}
		if c.Index != i {
			t.Errorf("Chunk %d has index %d", i, c.Index)
		}
		if c.Text == "" {
			t.Errorf("Chunk %d is empty", i)
		}
	}

	// Consecutive windows share the configured overlap
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		if len(prev) < 50 {
			continue
		}
		tail := string(prev[len(prev)-50:])
		if !strings.HasPrefix(chunks[i].Text, tail) {
			t.Errorf("Chunk %d does not start with the 50-rune tail of chunk %d", i, i-1)
		}
	}
}

func TestTextChunker_WindowStride(t *testing.T) {
	input := strings.Repeat("x", 1000)
	chunker := NewTextChunker(Config{Size: 400, Overlap: 100})
	chunks, err := chunker.Chunk(input, "doc.txt")
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	// Stride 300: windows at 0, 300, and 600, where the last one reaches
	// the end of the input
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	if got := len(chunks[2].Text); got != 400 {
		t.Errorf("Last chunk: expected 400 runes, got %d", got)
	}
}

func TestTextChunker_Paragraphs(t *testing.T) {
	paras := []string{
		"The hotel offers a full spa with massage treatments.",
		"Kayak tours depart every morning from the main dock.",
		"WiFi is available in all rooms, network name Seaside.",
		"Breakfast is served between seven and ten.",
	}
	input := strings.Join(paras, "\n\n")

	chunker := NewTextChunker(Config{Size: 120, Overlap: 20})
	chunks, err := chunker.Chunk(input, "guide.txt")
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if got := len([]rune(c.Text)); got > 120 {
			t.Errorf("Chunk %d has %d runes, limit is 120", i, got)
		}
	}
	// Every paragraph survives somewhere
	joined := strings.Join(textsOf(chunks), "\n")
	for _, p := range paras {
		if !strings.Contains(joined, p) {
			t.Errorf("Paragraph missing from chunks: %q", p)
		}
	}
}

func TestTextChunker_OversizedParagraph(t *testing.T) {
	long := strings.Repeat("word ", 200) // ~1000 runes, single paragraph
	input := "short intro\n\n" + strings.TrimSpace(long)

	chunker := NewTextChunker(Config{Size: 300, Overlap: 30})
	chunks, err := chunker.Chunk(input, "doc.txt")
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	for i, c := range chunks {
		if got := len([]rune(c.Text)); got > 300 {
			t.Errorf("Chunk %d has %d runes, limit is 300", i, got)
		}
	}
}

func TestTextChunker_Empty(t *testing.T) {
	chunker := NewTextChunker(Config{Size: 500, Overlap: 50})
	chunks, err := chunker.Chunk("   \n\n  ", "doc.txt")
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("Expected no chunks for blank input, got %d", len(chunks))
	}
}

func TestTextChunker_ShortInputSingleChunk(t *testing.T) {
	chunker := NewTextChunker(Config{Size: 500, Overlap: 50})
	chunks, err := chunker.Chunk("just one line", "doc.txt")
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "just one line" {
		t.Errorf("Unexpected chunk text: %q", chunks[0].Text)
	}
	if chunks[0].EmbeddingText() != "just one line" {
		t.Errorf("EmbeddingText without section should equal Text")
	}
}

func textsOf(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
