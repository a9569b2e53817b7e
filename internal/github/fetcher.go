package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/go-github/v81/github"
	"github.com/google/uuid"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/document"
)

// Fetcher downloads documents from a directory inside a GitHub repository.
type Fetcher struct {
	client   *Client
	owner    string
	repo     string
	basePath string
	ref      string
	logger   *slog.Logger
}

// NewFetcher creates a fetcher for the given repository path. Ref may be
// empty to use the repository's default branch.
func NewFetcher(client *Client, owner, repo, basePath, ref string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:   client,
		owner:    owner,
		repo:     repo,
		basePath: basePath,
		ref:      ref,
		logger:   logger,
	}
}

func (f *Fetcher) contentOptions() *github.RepositoryContentGetOptions {
	if f.ref == "" {
		return nil
	}
	return &github.RepositoryContentGetOptions{Ref: f.ref}
}

// ListDocs returns the repository paths of all indexable files under the
// base path, recursing into subdirectories.
func (f *Fetcher) ListDocs(ctx context.Context) ([]string, error) {
	return f.listDocsRecursive(ctx, f.basePath)
}

func (f *Fetcher) listDocsRecursive(ctx context.Context, dirPath string) ([]string, error) {
	_, dirContent, _, err := f.client.Repositories.GetContents(
		ctx, f.owner, f.repo, dirPath, f.contentOptions(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing contents of %s: %w", dirPath, err)
	}

	var paths []string
	for _, item := range dirContent {
		switch item.GetType() {
		case "file":
			if isIndexable(item.GetName()) {
				paths = append(paths, item.GetPath())
			}
		case "dir":
			sub, err := f.listDocsRecursive(ctx, item.GetPath())
			if err != nil {
				return nil, err
			}
			paths = append(paths, sub...)
		}
	}

	return paths, nil
}

// FetchDoc downloads a single file and returns its decoded content.
func (f *Fetcher) FetchDoc(ctx context.Context, docPath string) (string, error) {
	fileContent, _, _, err := f.client.Repositories.GetContents(
		ctx, f.owner, f.repo, docPath, f.contentOptions(),
	)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", docPath, err)
	}
	if fileContent == nil {
		return "", fmt.Errorf("fetching %s: path is a directory", docPath)
	}

	if fileContent.Content != nil && *fileContent.Content != "" {
		decoded, err := base64.StdEncoding.DecodeString(
			strings.ReplaceAll(*fileContent.Content, "\n", ""),
		)
		if err != nil {
			return "", fmt.Errorf("decoding %s: %w", docPath, err)
		}
		return string(decoded), nil
	}

	return "", fmt.Errorf("fetching %s: empty content", docPath)
}

// FetchAll downloads every indexable file under the base path. Files that
// fail to download or decode are skipped with a warning so one bad file
// does not abort the whole fetch.
func (f *Fetcher) FetchAll(ctx context.Context) ([]document.Document, error) {
	paths, err := f.ListDocs(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]document.Document, 0, len(paths))
	for _, p := range paths {
		content, err := f.FetchDoc(ctx, p)
		if err != nil {
			f.logger.Warn("skipping document", "path", p, "error", err)
			continue
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(p, f.basePath), "/")
		if rel == "" {
			rel = path.Base(p)
		}
		normalized := document.Normalize(content, rel)
		if normalized == "" {
			f.logger.Warn("skipping empty document", "path", p)
			continue
		}

		docs = append(docs, document.Document{
			ID:      uuid.NewString(),
			Path:    rel,
			Content: normalized,
		})
	}

	f.logger.Info("fetched documents from github",
		"owner", f.owner, "repo", f.repo, "count", len(docs))
	return docs, nil
}

// Load satisfies the indexer source contract.
func (f *Fetcher) Load(ctx context.Context) ([]document.Document, error) {
	return f.FetchAll(ctx)
}

// GetLatestCommitSHA returns the SHA of the most recent commit touching
// the base path, useful for change detection between syncs.
func (f *Fetcher) GetLatestCommitSHA(ctx context.Context) (string, error) {
	commits, _, err := f.client.Repositories.ListCommits(
		ctx, f.owner, f.repo, &github.CommitsListOptions{
			SHA:         f.ref,
			Path:        f.basePath,
			ListOptions: github.ListOptions{PerPage: 1},
		},
	)
	if err != nil {
		return "", fmt.Errorf("listing commits: %w", err)
	}
	if len(commits) == 0 {
		return "", fmt.Errorf("no commits found for path %s", f.basePath)
	}

	return commits[0].GetSHA(), nil
}

func isIndexable(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown", ".txt", ".text":
		return true
	}
	return false
}
