// Package document loads source documents from a local folder.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Document is a single source file loaded into the system.
type Document struct {
	ID      string // UUID assigned at load time
	Path    string // File name relative to the documents folder
	Content string // Normalized text content
}

// Loader reads .txt and .md documents from a folder.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader for the given folder.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, logger: logger}
}

// Dir returns the documents folder path.
func (l *Loader) Dir() string {
	return l.dir
}

// List returns the names of all loadable documents in the folder, sorted.
// Returns an error if the folder does not exist.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read documents folder %s: %w", l.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isDocumentFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load reads and normalizes every document in the folder. Unreadable files
// are logged and skipped; a missing folder is an error.
func (l *Loader) Load(ctx context.Context) ([]Document, error) {
	names, err := l.List()
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := os.ReadFile(filepath.Join(l.dir, name))
		if err != nil {
			l.logger.Warn("Skipping unreadable document", "path", name, "error", err)
			continue
		}
		content := Normalize(string(raw), name)
		if content == "" {
			l.logger.Warn("Skipping empty document", "path", name)
			continue
		}
		docs = append(docs, Document{
			ID:      uuid.New().String(),
			Path:    name,
			Content: content,
		})
	}
	return docs, nil
}

// Normalize cleans raw file content. Plain text gets per-line trimming and
// blank-line removal; markdown keeps its blank lines since they carry
// structure for the markdown chunker.
func Normalize(raw, name string) string {
	if isMarkdown(name) {
		return strings.TrimSpace(raw)
	}
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func isDocumentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text", ".md", ".markdown":
		return true
	}
	return false
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
