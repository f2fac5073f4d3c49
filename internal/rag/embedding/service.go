package embedding

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/internal/domain/models"
	"github.com/anvesht/ragline/internal/metrics"
	"github.com/anvesht/ragline/pkg/logx"
)

// Service fronts a Backend with a text->vector cache. Uncached texts are
// embedded in groups of batchSize; items inside one group run concurrently
// (bounded by concurrency) and a group completes before the next starts.
type Service struct {
	backend     Backend
	cache       Cache
	flight      singleflight.Group
	initialized atomic.Bool
	batchSize   int
	concurrency int
	logger      *logx.Logger
}

func NewService(backend Backend, cache Cache) *Service {
	return &Service{
		backend:     backend,
		cache:       cache,
		batchSize:   config.EmbedBatchSize,
		concurrency: config.EmbedConcurrency,
		logger:      logx.NewLogger("Embedding Service"),
	}
}

// Initialize loads the backend exactly once. Concurrent callers before the
// load completes share a single in-flight call and its result.
func (s *Service) Initialize(ctx context.Context) error {
	if s.initialized.Load() {
		return nil
	}
	_, err, _ := s.flight.Do("init", func() (interface{}, error) {
		if s.initialized.Load() {
			return nil, nil
		}
		start := time.Now()
		if err := s.backend.Init(ctx); err != nil {
			return nil, fmt.Errorf("%w: loading backend: %v", models.ErrEmbedding, err)
		}
		s.initialized.Store(true)
		s.logger.Info("Embedding backend loaded", "dimension", s.backend.Dimension(), "elapsed", time.Since(start))
		return nil, nil
	})
	return err
}

// EmbedBatch returns one unit-length vector per input text, in input order.
// Cached texts never reach the backend; computed vectors are cached before
// the call returns.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	var misses []int
	for i, text := range texts {
		if vec, ok := s.cache.Get(ctx, text); ok {
			metrics.CountEmbeddingCache(true)
			vectors[i] = vec
			continue
		}
		metrics.CountEmbeddingCache(false)
		misses = append(misses, i)
	}

	for start := 0; start < len(misses); start += s.batchSize {
		end := start + s.batchSize
		if end > len(misses) {
			end = len(misses)
		}

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(s.concurrency)
		for _, idx := range misses[start:end] {
			group.Go(func() error {
				vec, err := s.backend.Embed(groupCtx, texts[idx])
				if err != nil {
					return fmt.Errorf("%w: %v", models.ErrEmbedding, err)
				}
				Normalize(vec)
				s.cache.Set(ctx, texts[idx], vec)
				vectors[idx] = vec
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	}

	return vectors, nil
}

// EmbedQuery embeds a single text through the same cache path as EmbedBatch.
func (s *Service) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// ClearCache drops every cached vector. Backend initialization state is
// unaffected.
func (s *Service) ClearCache(ctx context.Context) {
	s.cache.Purge(ctx)
	s.logger.Info("Embedding cache cleared")
}
