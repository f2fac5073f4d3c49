package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/internal/mcpserver"
	"github.com/anvesht/ragline/internal/rag"
	"github.com/anvesht/ragline/internal/rag/embedding"
	"github.com/anvesht/ragline/internal/rag/embedding/openaiembed"
	"github.com/anvesht/ragline/internal/rag/llm/gemini"
	"github.com/anvesht/ragline/internal/rag/personality"
	"github.com/anvesht/ragline/internal/rag/retriever"
	"github.com/anvesht/ragline/internal/rag/vectorstore/qdrantstore"
	"github.com/anvesht/ragline/pkg/logx"
)

func main() {
	logx.Init(config.IS_PROD, config.LOG_LEVEL_PROD)
	var logger = logx.NewLogger("mcp")

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	vectorDB := qdrantstore.GetQdrantStore(serviceContext)
	llmProvider := gemini.GetGeminiClient(serviceContext, config.GeminiModelName, os.Getenv("GEMINI_API_KEY"))
	if vectorDB == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "LLMProvider", llmProvider != nil)
		os.Exit(1)
	}

	backend := openaiembed.New(config.EmbeddingModel, config.EmbeddingDimension)
	cache, err := embedding.NewLRUCache(config.EmbeddingCacheSize)
	if err != nil {
		logger.Error("Could not create LRU cache", "error", err)
		os.Exit(1)
	}
	embeddingService := embedding.NewService(backend, cache)
	personalityProvider := personality.NewFileProvider(serviceContext, config.Env("PERSONALITY_FILE", config.PersonalityFile))

	ragService := rag.NewService(
		vectorDB,
		embeddingService,
		retriever.New(vectorDB),
		llmProvider,
		personalityProvider,
	)

	srv, err := mcpserver.NewServer(ragService)
	if err != nil {
		logger.Error("Could not create MCP server", "error", err)
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(serviceContext, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server running on stdio")
	if err := srv.Run(runCtx); err != nil && runCtx.Err() == nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
