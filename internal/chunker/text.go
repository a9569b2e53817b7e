package chunker

import (
	"strings"
)

// TextChunker splits plain text into fixed-size chunks with overlap.
// Paragraph boundaries are preferred; content without paragraphs falls
// back to rune-window splitting.
type TextChunker struct {
	config Config
}

// NewTextChunker creates a plain-text chunker.
func NewTextChunker(config Config) *TextChunker {
	return &TextChunker{config: config}
}

func (t *TextChunker) Name() string {
	return "text"
}

// Chunk splits content into chunks no larger than config.Size runes.
// Consecutive window chunks share config.Overlap runes.
func (t *TextChunker) Chunk(content, source string) ([]Chunk, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	var pieces []string
	if strings.Contains(content, "\n\n") {
		pieces = t.splitParagraphs(content)
	} else {
		pieces = t.splitWindows(content)
	}

	chunks := make([]Chunk, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Text: p})
	}
	return chunks, nil
}

// splitParagraphs accumulates paragraphs into chunks up to the size limit,
// carrying an overlap tail into the next chunk. A single paragraph larger
// than the limit is window-split on its own.
func (t *TextChunker) splitParagraphs(content string) []string {
	paragraphs := splitByParagraphs(content)

	var out []string
	var current strings.Builder
	currentLen := 0

	flush := func() string {
		if currentLen == 0 {
			return ""
		}
		text := current.String()
		out = append(out, text)
		current.Reset()
		currentLen = 0
		return text
	}

	for _, para := range paragraphs {
		paraLen := runeLen(para)

		// Oversized paragraph: flush and window-split it.
		if paraLen > t.config.Size {
			flush()
			out = append(out, t.splitWindows(para)...)
			continue
		}

		// Would exceed the limit: flush and seed the next chunk with the
		// overlap tail, unless the tail would push it over the limit.
		if currentLen > 0 && currentLen+2+paraLen > t.config.Size {
			prev := flush()
			if t.config.Overlap > 0 {
				tail := lastRunes(prev, t.config.Overlap)
				if runeLen(tail)+2+paraLen <= t.config.Size {
					current.WriteString(tail)
					current.WriteString("\n\n")
					currentLen = runeLen(tail) + 2
				}
			}
		}

		if currentLen > 0 {
			current.WriteString("\n\n")
			currentLen += 2
		}
		current.WriteString(para)
		currentLen += paraLen
	}
	flush()

	return out
}

// splitWindows slices content into rune windows of the configured size,
// advancing by size minus overlap.
func (t *TextChunker) splitWindows(content string) []string {
	runes := []rune(content)
	stride := t.config.Size - t.config.Overlap
	if stride <= 0 {
		stride = t.config.Size
	}

	var out []string
	for i := 0; i < len(runes); i += stride {
		end := i + t.config.Size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
		if end >= len(runes) {
			break
		}
	}
	return out
}

func splitByParagraphs(content string) []string {
	var out []string
	for _, p := range strings.Split(content, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}

// lastRunes returns the last n runes of s.
func lastRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
