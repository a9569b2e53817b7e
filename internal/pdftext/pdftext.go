// Package pdftext converts PDF manuals into plain text files the document
// loader can index. It handles single-block and two-column layouts and
// filters recurring noise lines like page headers.
package pdftext

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Options controls how PDFs are converted.
type Options struct {
	// TwoColumnPatterns are filename substrings that mark a document as
	// having a two-column layout (e.g. "A-Z", "Guide").
	TwoColumnPatterns []string
	// NoisePatterns are substrings whose lines are dropped from the
	// output, typically running headers and footers.
	NoisePatterns []string
}

// Converter extracts text from PDF files.
type Converter struct {
	opts   Options
	logger *slog.Logger
}

// NewConverter creates a converter with the given options.
func NewConverter(opts Options, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{opts: opts, logger: logger}
}

// ConvertFile extracts the text of a single PDF.
func (c *Converter) ConvertFile(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	twoColumn := matchesAny(filepath.Base(path), c.opts.TwoColumnPatterns)

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		var text string
		if twoColumn {
			text, err = extractColumns(page)
		} else {
			text, err = extractRows(page)
		}
		if err != nil {
			c.logger.Warn("Skipping page", "path", path, "page", i, "error", err)
			continue
		}
		pages = append(pages, FilterNoise(text, c.opts.NoisePatterns))
	}

	return strings.Join(pages, "\n\n"), nil
}

// ConvertDir converts every PDF in inputDir, writing one .txt per PDF
// into outputDir. Returns the number of files converted.
func (c *Converter) ConvertDir(inputDir, outputDir string) (int, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return 0, fmt.Errorf("read input folder %s: %w", inputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output folder %s: %w", outputDir, err)
	}

	converted := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}

		inPath := filepath.Join(inputDir, name)
		text, err := c.ConvertFile(inPath)
		if err != nil {
			c.logger.Warn("Skipping PDF", "path", inPath, "error", err)
			continue
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		outPath := filepath.Join(outputDir, stem+".txt")
		if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
			return converted, fmt.Errorf("write %s: %w", outPath, err)
		}
		c.logger.Info("Converted PDF", "input", name, "output", stem+".txt")
		converted++
	}

	return converted, nil
}

// extractRows reads a page top to bottom, joining the text fragments of
// each visual row with spaces.
func extractRows(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	var lines []string
	for _, row := range rows {
		line := joinFragments(row.Content)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// extractColumns reads a two-column page one column at a time, so the
// left column's text is not interleaved with the right one's.
func extractColumns(page pdf.Page) (string, error) {
	columns, err := page.GetTextByColumn()
	if err != nil {
		return "", err
	}

	var parts []string
	for _, column := range columns {
		var b strings.Builder
		lastY := -1.0
		for _, t := range column.Content {
			if lastY >= 0 && t.Y != lastY {
				b.WriteString("\n")
			} else if b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString(strings.TrimSpace(t.S))
			lastY = t.Y
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}
	return strings.Join(parts, "\n"), nil
}

func joinFragments(texts []pdf.Text) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		s := strings.TrimSpace(t.S)
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// FilterNoise drops every line containing one of the given substrings.
func FilterNoise(text string, patterns []string) string {
	if len(patterns) == 0 {
		return text
	}
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if matchesAny(strings.TrimSpace(line), patterns) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func matchesAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}
