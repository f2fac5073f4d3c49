package handlers

import (
	"context"
	"iter"

	"github.com/anvesht/ragline/internal/domain/models"
)

// MockRagService implements rag.Service
type MockRagService struct {
	OnIndexDocument      func(ctx context.Context, text string, collection string, meta models.ChunkMetadata) (models.IndexResult, error)
	OnIndexDocumentPages func(ctx context.Context, pages []models.PageText, collection string, meta models.ChunkMetadata) (models.IndexResult, error)
	OnAnswer             func(ctx context.Context, req models.QueryRequest) (models.QueryResponse, error)
	OnAnswerStream       func(ctx context.Context, req models.QueryRequest) (iter.Seq2[string, error], error)
	OnListCollections    func(ctx context.Context) ([]models.CollectionInfo, error)
	OnDeleteCollection   func(ctx context.Context, name string) error
	Healthy              bool
	CacheClears          int
}

func (m *MockRagService) IndexDocument(ctx context.Context, text string, collection string, meta models.ChunkMetadata) (models.IndexResult, error) {
	if m.OnIndexDocument != nil {
		return m.OnIndexDocument(ctx, text, collection, meta)
	}
	return models.IndexResult{DocumentID: "doc-1", ChunkCount: 1}, nil
}

func (m *MockRagService) IndexDocumentPages(ctx context.Context, pages []models.PageText, collection string, meta models.ChunkMetadata) (models.IndexResult, error) {
	if m.OnIndexDocumentPages != nil {
		return m.OnIndexDocumentPages(ctx, pages, collection, meta)
	}
	return models.IndexResult{DocumentID: "doc-1", ChunkCount: len(pages)}, nil
}

func (m *MockRagService) Answer(ctx context.Context, req models.QueryRequest) (models.QueryResponse, error) {
	if m.OnAnswer != nil {
		return m.OnAnswer(ctx, req)
	}
	return models.QueryResponse{Answer: "default answer", Sources: []models.SearchResult{}}, nil
}

func (m *MockRagService) AnswerStream(ctx context.Context, req models.QueryRequest) (iter.Seq2[string, error], error) {
	if m.OnAnswerStream != nil {
		return m.OnAnswerStream(ctx, req)
	}
	return func(yield func(string, error) bool) {}, nil
}

func (m *MockRagService) ListCollections(ctx context.Context) ([]models.CollectionInfo, error) {
	if m.OnListCollections != nil {
		return m.OnListCollections(ctx)
	}
	return nil, nil
}

func (m *MockRagService) DeleteCollection(ctx context.Context, name string) error {
	if m.OnDeleteCollection != nil {
		return m.OnDeleteCollection(ctx, name)
	}
	return nil
}

func (m *MockRagService) ClearEmbeddingCache(ctx context.Context) {
	m.CacheClears++
}

func (m *MockRagService) HealthCheck(ctx context.Context) bool {
	return m.Healthy
}
