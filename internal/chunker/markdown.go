package chunker

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// MarkdownChunker splits markdown at H1/H2 boundaries, keeping the header
// hierarchy as section context. Content without headers falls back to the
// plain-text chunker so the size limit still holds.
type MarkdownChunker struct {
	parser   goldmark.Markdown
	fallback *TextChunker
}

// NewMarkdownChunker creates a markdown chunker.
func NewMarkdownChunker(config Config) *MarkdownChunker {
	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &MarkdownChunker{
		parser:   md,
		fallback: NewTextChunker(config),
	}
}

func (m *MarkdownChunker) Name() string {
	return "markdown"
}

// Chunk splits markdown content into one chunk per H1/H2 section.
func (m *MarkdownChunker) Chunk(content, source string) ([]Chunk, error) {
	sourceBytes := []byte(content)
	reader := text.NewReader(sourceBytes)
	doc := m.parser.Parser().Parse(reader)

	tree, err := toc.Inspect(doc, sourceBytes,
		toc.MinDepth(1),
		toc.MaxDepth(2),
		toc.Compact(true),
	)
	if err != nil {
		return nil, fmt.Errorf("inspect headings: %w", err)
	}

	// No headers: plain-text splitting keeps the size limit.
	if len(tree.Items) == 0 {
		return m.fallback.Chunk(content, source)
	}

	var chunks []Chunk
	m.extract(doc, sourceBytes, tree.Items, nil, &chunks)
	return chunks, nil
}

// extract walks the TOC items recursively, emitting one chunk per section.
func (m *MarkdownChunker) extract(doc ast.Node, source []byte, items toc.Items, ancestors []string, chunks *[]Chunk) {
	for i, item := range items {
		path := append(ancestors, string(item.Title))
		section := formatSection(path)

		headerNode := findHeadingByID(doc, string(item.ID))
		if headerNode == nil {
			continue
		}

		start := headerNode.Lines().At(0)
		var end text.Segment

		if i+1 < len(items) {
			if next := findHeadingByID(doc, string(items[i+1].ID)); next != nil {
				end = next.Lines().At(0)
			}
		} else {
			end = nextHeadingBoundary(doc, headerNode, headerNode.(*ast.Heading).Level)
		}

		body := sliceContent(source, start, end)
		*chunks = append(*chunks, Chunk{
			Index:   len(*chunks),
			Section: section,
			Text:    body,
		})

		if len(item.Items) > 0 {
			m.extract(doc, source, item.Items, path, chunks)
		}
	}
}

// formatSection builds a section string like "# Guide > ## Dining".
func formatSection(path []string) string {
	parts := make([]string, 0, len(path))
	for i, title := range path {
		parts = append(parts, fmt.Sprintf("%s %s", strings.Repeat("#", i+1), title))
	}
	return strings.Join(parts, " > ")
}

// findHeadingByID locates a heading node by its auto-generated ID.
func findHeadingByID(node ast.Node, id string) ast.Node {
	var found ast.Node
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			headingID, ok := n.AttributeString("id")
			if ok && string(headingID.([]byte)) == id {
				found = n
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return found
}

// nextHeadingBoundary finds the first heading after current at the same or
// a higher level. Returns a zero segment when the section runs to EOF.
func nextHeadingBoundary(root ast.Node, current ast.Node, currentLevel int) text.Segment {
	var boundary ast.Node
	foundCurrent := false

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}
		if !foundCurrent {
			if n == current {
				foundCurrent = true
			}
			return ast.WalkContinue, nil
		}
		if n.(*ast.Heading).Level <= currentLevel {
			boundary = n
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if boundary != nil {
		return boundary.Lines().At(0)
	}
	return text.Segment{}
}

// sliceContent extracts the text between two line segments.
func sliceContent(source []byte, start, end text.Segment) string {
	if end.Start == 0 && end.Stop == 0 {
		return strings.TrimSpace(string(source[start.Start:]))
	}
	return strings.TrimSpace(string(source[start.Start:end.Start]))
}
