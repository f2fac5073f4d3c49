package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/anvesht/ragline/internal/domain/models"
	"github.com/anvesht/ragline/internal/metrics"
	"github.com/anvesht/ragline/internal/rag/retriever"
)

func (s *service) executeEmbeddingStep(ctx context.Context, question string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.EmbedQuery(ctx, question)
}

func (s *service) executeEmbeddingBatchStep(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding_batch", time.Since(start)) }()

	return s.embedder.EmbedBatch(ctx, texts)
}

func (s *service) executeSearchStep(ctx context.Context, collection string, vec []float32, limit int, threshold float64, mode retriever.Mode) ([]models.SearchResult, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.search.Search(ctx, collection, vec, limit, threshold, mode)
}

func (s *service) executeGenerationStep(ctx context.Context, question string, contextBlock string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	answer, err := s.llmProvider.Generate(ctx, s.personality.SystemPrompt(), buildUserPrompt(contextBlock, question))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrGeneration, err)
	}
	return answer, nil
}

func buildUserPrompt(contextBlock string, question string) string {
	return fmt.Sprintf(
		"Answer the question using ONLY the context below. If the context does not contain the answer, say so.\n\nContext:\n%s\n\nUser Question: %s",
		contextBlock, question)
}
