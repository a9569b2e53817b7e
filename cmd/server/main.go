// Package main runs the document chat server: web UI, JSON/SSE API, and
// the MCP endpoint, all in one process.
package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/app"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/config"
	mcpserver "github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/mcp"
	"github.com/MusaedMusaedSadeqMusaedAl-Fareh225739/rag-chatbot/internal/web"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	a, err := app.New(cfg, app.Options{})
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.Close()

	// Build the index on first boot so the UI is usable immediately.
	count, err := a.Store.Count(ctx)
	if err != nil {
		log.Fatalf("store unavailable: %v", err)
	}
	if count == 0 {
		a.Logger.Info("Index empty, indexing documents", "folder", cfg.DataDir)
		if _, err := a.Pipeline.IndexAll(ctx); err != nil {
			a.Logger.Error("Initial indexing failed", "error", err)
		}
	}

	mcpSrv := mcpserver.NewServer(&mcpserver.Config{
		Answerer: a.Generator,
		Embedder: a.Embedder,
		Store:    a.Store,
		Docs:     a.Loader,
	})

	srv := web.NewServer(cfg.HTTPAddr, &web.Config{
		Answerer:  a.Generator,
		Reindexer: a.Pipeline,
		Store:     a.Store,
		Docs:      a.Loader,
		Backend:   cfg.StoreBackend,
		Logger:    a.Logger,
		Page: web.PageConfig{
			Model:     cfg.ChatModel,
			ChunkSize: cfg.ChunkSize,
			Overlap:   cfg.ChunkOverlap,
			TopK:      cfg.TopK,
		},
		Extra: map[string]http.Handler{
			"/mcp": mcpserver.NewHTTPHandler(mcpSrv, nil),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	case <-ctx.Done():
		a.Logger.Info("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("Shutdown error", "error", err)
		}
	}
}
