// Package main provides the ragctl CLI for managing the document index
// and asking questions from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/answer"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/app"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/chunker"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/config"
)

var (
	fromGitHub   bool
	chunkSize    int
	chunkOverlap int
)

var rootCmd = &cobra.Command{
	Use:   "ragctl",
	Short: "Document index management tool",
	Long:  "CLI for building the vector index and asking questions over indexed documents",
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the vector index from the document source",
	Long: `Clears the existing index and rebuilds it.

Documents come from the local folder (DATA_DIR) by default, or from the
configured GitHub repository with --github.

Environment variables:
  DATA_DIR        Documents folder (default: ./data/docs)
  OPENAI_API_KEY  OpenAI API key for embeddings (required)
  STORE_BACKEND   chromem (default) or qdrant
  GITHUB_OWNER    GitHub owner, for --github
  GITHUB_REPO     GitHub repository, for --github
  GITHUB_TOKEN    GitHub token for higher rate limits (optional)`,
	RunE: runIndex,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question over the indexed documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status",
	RunE:  runStatus,
}

func init() {
	indexCmd.Flags().BoolVar(&fromGitHub, "github", false, "index from the configured GitHub repository")
	indexCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "override the configured chunk size for this run")
	indexCmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 0, "override the configured chunk overlap for this run")
	rootCmd.AddCommand(indexCmd, askCmd, statusCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildApp(opts app.Options) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, opts)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := buildApp(app.Options{UseGitHub: fromGitHub})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := chunker.Config{}
	if cmd.Flags().Changed("chunk-size") || cmd.Flags().Changed("chunk-overlap") {
		cfg = chunker.Config{Size: a.Config.ChunkSize, Overlap: a.Config.ChunkOverlap}
		if cmd.Flags().Changed("chunk-size") {
			cfg.Size = chunkSize
		}
		if cmd.Flags().Changed("chunk-overlap") {
			cfg.Overlap = chunkOverlap
		}
		if cfg.Size <= 0 {
			return fmt.Errorf("chunk size must be positive, got %d", cfg.Size)
		}
		if cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
			return fmt.Errorf("chunk overlap %d must be in [0, chunk size %d)", cfg.Overlap, cfg.Size)
		}
	}

	fmt.Println("Rebuilding index...")
	result, err := a.Pipeline.Reindex(ctx, cfg)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Index complete")
	fmt.Printf("  Documents: %d/%d\n", result.SuccessfulDocs, result.TotalDocs)
	fmt.Printf("  Chunks: %d\n", result.TotalChunks)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))

	if a.Fetcher != nil {
		sha, err := a.Fetcher.GetLatestCommitSHA(ctx)
		if err != nil {
			a.Logger.Warn("Could not resolve latest commit", "error", err)
		} else {
			fmt.Printf("  Commit: %s\n", sha)
		}
	}

	if len(result.FailedDocs) > 0 {
		fmt.Println()
		fmt.Println("Failed documents:")
		for _, failed := range result.FailedDocs {
			fmt.Printf("  - %s: %s\n", failed.Path, failed.Reason)
		}
	}

	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := strings.Join(args, " ")

	a, err := buildApp(app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ans, err := a.Generator.Stream(ctx, question, answer.StreamEvents{
		OnToken: func(token string) {
			fmt.Print(token)
		},
	})
	if err != nil {
		return err
	}
	fmt.Println()

	if len(ans.Sources) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(ans.Sources, ", "))
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := buildApp(app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	names, err := a.Loader.List()
	if err != nil {
		return err
	}
	chunks, err := a.Store.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Backend:   %s\n", a.Config.StoreBackend)
	fmt.Printf("Documents: %d\n", len(names))
	fmt.Printf("Chunks:    %d\n", chunks)
	if chunks == 0 {
		fmt.Println("\nIndex is empty. Run 'ragctl index' to build it.")
	}
	return nil
}
