package vectorstore

import (
	"context"

	"github.com/anvesht/ragline/internal/domain/models"
)

// QueryResult is the raw nearest-neighbour answer from the store, in the
// store's native return order. Distances are cosine distances; the
// retriever converts them to similarity scores.
type QueryResult struct {
	IDs       []string
	Documents []string
	Metadatas []models.ChunkMetadata
	Distances []float64
}

// Store is the narrow contract the pipeline holds against the vector
// database. Collections are created lazily on first write and deletable as
// a unit.
type Store interface {
	EnsureCollection(ctx context.Context, name string) error
	Upsert(ctx context.Context, collection string, chunks []models.Chunk, vectors [][]float32) error
	Query(ctx context.Context, collection string, vector []float32, topK int) (QueryResult, error)
	Delete(ctx context.Context, collection string, ids []string) error
	DeleteCollection(ctx context.Context, name string) error
	ListCollections(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, collection string) (uint64, error)
}
