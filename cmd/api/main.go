// @title           Ragline API
// @version         1.0
// @description     Retrieval-augmented question answering over indexed documents.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/anvesht/ragline/cmd/api/docs"
	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/internal/handlers"
	"github.com/anvesht/ragline/internal/rag"
	"github.com/anvesht/ragline/internal/rag/embedding"
	"github.com/anvesht/ragline/internal/rag/embedding/openaiembed"
	"github.com/anvesht/ragline/internal/rag/llm/gemini"
	"github.com/anvesht/ragline/internal/rag/personality"
	"github.com/anvesht/ragline/internal/rag/retriever"
	"github.com/anvesht/ragline/internal/rag/vectorstore/qdrantstore"
	"github.com/anvesht/ragline/internal/server"
	"github.com/anvesht/ragline/pkg/logx"
)

var listenAddr string

func main() {
	logx.Init(config.IS_PROD, config.LOG_LEVEL_PROD)
	var logger = logx.NewLogger("main")

	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	vectorDB := qdrantstore.GetQdrantStore(serviceContext)
	llmProvider := gemini.GetGeminiClient(serviceContext, config.GeminiModelName, os.Getenv("GEMINI_API_KEY"))
	if vectorDB == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "LLMProvider", llmProvider != nil)
		return
	}

	embeddingService := buildEmbeddingService(serviceContext, logger)
	personalityProvider := personality.NewFileProvider(serviceContext, config.Env("PERSONALITY_FILE", config.PersonalityFile))

	ragService := rag.NewService(
		vectorDB,
		embeddingService,
		retriever.New(vectorDB),
		llmProvider,
		personalityProvider,
	)

	handlers.InitHandlers(ragService)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

// buildEmbeddingService picks the cache backend: Redis when EMBED_CACHE=redis
// and reachable, otherwise the in-process bounded LRU.
func buildEmbeddingService(ctx context.Context, logger *logx.Logger) *embedding.Service {
	backend := openaiembed.New(config.EmbeddingModel, config.EmbeddingDimension)

	var cache embedding.Cache
	if config.Env("EMBED_CACHE", "lru") == "redis" {
		redisCache, err := embedding.NewRedisCache(ctx, config.Env("REDIS_ADDR", config.RedisAddr), 0, config.EmbeddingCacheTTL)
		if err != nil {
			logger.Error("Redis cache is offline, falling back to in-memory LRU", "error", err)
		} else {
			cache = redisCache
		}
	}
	if cache == nil {
		lruCache, err := embedding.NewLRUCache(config.EmbeddingCacheSize)
		if err != nil {
			logger.Error("Could not create LRU cache", "error", err)
			os.Exit(1)
		}
		cache = lruCache
	}

	return embedding.NewService(backend, cache)
}
