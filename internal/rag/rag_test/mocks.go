package rag_test

import (
	"context"
	"iter"

	"github.com/anvesht/ragline/internal/domain/models"
	"github.com/anvesht/ragline/internal/rag/retriever"
	"github.com/anvesht/ragline/internal/rag/vectorstore"
)

// MockStore implements vectorstore.Store
type MockStore struct {
	// Control fields to simulate different behaviors
	OnEnsureCollection func(ctx context.Context, name string) error
	OnUpsert           func(ctx context.Context, collection string, chunks []models.Chunk, vectors [][]float32) error
	OnQuery            func(ctx context.Context, collection string, vector []float32, topK int) (vectorstore.QueryResult, error)
	OnDeleteCollection func(ctx context.Context, name string) error
	OnListCollections  func(ctx context.Context) ([]string, error)
	OnStats            func(ctx context.Context, collection string) (uint64, error)
}

func (m *MockStore) EnsureCollection(ctx context.Context, name string) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, name)
	}
	return nil
}

func (m *MockStore) Upsert(ctx context.Context, collection string, chunks []models.Chunk, vectors [][]float32) error {
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, collection, chunks, vectors)
	}
	return nil
}

func (m *MockStore) Query(ctx context.Context, collection string, vector []float32, topK int) (vectorstore.QueryResult, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, collection, vector, topK)
	}
	return vectorstore.QueryResult{}, nil
}

func (m *MockStore) Delete(ctx context.Context, collection string, ids []string) error {
	return nil
}

func (m *MockStore) DeleteCollection(ctx context.Context, name string) error {
	if m.OnDeleteCollection != nil {
		return m.OnDeleteCollection(ctx, name)
	}
	return nil
}

func (m *MockStore) ListCollections(ctx context.Context) ([]string, error) {
	if m.OnListCollections != nil {
		return m.OnListCollections(ctx)
	}
	return nil, nil
}

func (m *MockStore) Stats(ctx context.Context, collection string) (uint64, error) {
	if m.OnStats != nil {
		return m.OnStats(ctx, collection)
	}
	return 0, nil
}

// MockEmbedder implements rag.Embedder
type MockEmbedder struct {
	OnEmbedBatch func(ctx context.Context, texts []string) ([][]float32, error)
	OnEmbedQuery func(ctx context.Context, text string) ([]float32, error)
	ClearCalls   int
}

func (m *MockEmbedder) Initialize(ctx context.Context) error { return nil }

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnEmbedBatch != nil {
		return m.OnEmbedBatch(ctx, texts)
	}
	return make([][]float32, len(texts)), nil
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbedQuery != nil {
		return m.OnEmbedQuery(ctx, text)
	}
	return []float32{1, 0, 0}, nil
}

func (m *MockEmbedder) ClearCache(ctx context.Context) {
	m.ClearCalls++
}

// MockSearcher implements rag.Searcher
type MockSearcher struct {
	OnSearch func(ctx context.Context, collection string, queryVector []float32, limit int, requestedThreshold float64, mode retriever.Mode) ([]models.SearchResult, error)
}

func (m *MockSearcher) Search(ctx context.Context, collection string, queryVector []float32, limit int, requestedThreshold float64, mode retriever.Mode) ([]models.SearchResult, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, collection, queryVector, limit, requestedThreshold, mode)
	}
	return nil, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate       func(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
	OnGenerateStream func(ctx context.Context, systemPrompt string, userPrompt string) iter.Seq2[string, error]
	Healthy          bool
}

func (m *MockLLM) HealthCheck(ctx context.Context) bool { return m.Healthy }

func (m *MockLLM) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, systemPrompt, userPrompt)
	}
	return "default answer", nil
}

func (m *MockLLM) GenerateStream(ctx context.Context, systemPrompt string, userPrompt string) iter.Seq2[string, error] {
	if m.OnGenerateStream != nil {
		return m.OnGenerateStream(ctx, systemPrompt, userPrompt)
	}
	return func(yield func(string, error) bool) {}
}
