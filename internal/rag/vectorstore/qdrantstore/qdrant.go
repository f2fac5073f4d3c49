package qdrantstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/internal/domain/models"
	"github.com/anvesht/ragline/internal/rag/vectorstore"
	"github.com/anvesht/ragline/pkg/logx"
)

var logger *logx.Logger
var storeInstance *ClientHolder
var once sync.Once
var dimension = uint64(config.EmbeddingDimension)

// ClientHolder wraps the qdrant gRPC client plus a read-through cache of
// collection names. The cache is filled on EnsureCollection/ListCollections
// and invalidated on DeleteCollection, never re-fetched defensively.
type ClientHolder struct {
	qObj  *qdrant.Client
	mu    sync.RWMutex
	known map[string]struct{}
}

func GetQdrantStore(ctx context.Context) *ClientHolder {
	once.Do(func() {
		logger = logx.NewLogger("Qdrant")
		client := newClient()
		if client != nil {
			storeInstance = &ClientHolder{
				qObj:  client,
				known: make(map[string]struct{}),
			}
			go closeQdrant(ctx, client)
		}
	})
	return storeInstance
}

func newClient() *qdrant.Client {
	host := config.Env("QDRANT_HOST", config.QdrantHost)
	port := config.EnvInt("QDRANT_PORT", config.QdrantGrpcPort)

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
		GrpcOptions: []grpc.DialOption{
			// Batch upserts of large documents exceed the 4mb default.
			grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(config.MaxUploadSize)),
		},
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}
	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
}

func (db *ClientHolder) EnsureCollection(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("empty collection name")
	}

	db.mu.RLock()
	_, cached := db.known[name]
	db.mu.RUnlock()
	if cached {
		return nil
	}

	exists, err := db.qObj.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		err = db.qObj.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     dimension,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return err
		}
		logger.Info("Created collection", "name", name)
	}

	db.mu.Lock()
	db.known[name] = struct{}{}
	db.mu.Unlock()
	return nil
}

func (db *ClientHolder) Upsert(ctx context.Context, collection string, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ID),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":       chunk.Content,
				"source":        chunk.Metadata.Source,
				"page":          int64(chunk.Metadata.Page),
				"chunk_index":   int64(chunk.Metadata.ChunkIndex),
				"total_chunks":  int64(chunk.Metadata.TotalChunks),
				"document_type": chunk.Metadata.DocumentType,
				"title":         chunk.Metadata.Title,
				"file_name":     chunk.Metadata.FileName,
				"file_size":     chunk.Metadata.FileSize,
			}),
		}
	}

	_, err := db.qObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

// Query returns the topK nearest points. The qdrant client reports cosine
// similarity, so the distance handed back is 1 - score; swapping in a store
// with a different metric means revisiting this conversion.
func (db *ClientHolder) Query(ctx context.Context, collection string, vector []float32, topK int) (vectorstore.QueryResult, error) {
	result, err := db.qObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.Error("Error querying Qdrant: ", "error:", err)
		return vectorstore.QueryResult{}, err
	}

	out := vectorstore.QueryResult{
		IDs:       make([]string, 0, len(result)),
		Documents: make([]string, 0, len(result)),
		Metadatas: make([]models.ChunkMetadata, 0, len(result)),
		Distances: make([]float64, 0, len(result)),
	}
	for _, hit := range result {
		out.IDs = append(out.IDs, hit.Id.GetUuid())
		out.Documents = append(out.Documents, hit.Payload["content"].GetStringValue())
		out.Metadatas = append(out.Metadatas, payloadToMetadata(hit.Payload))
		out.Distances = append(out.Distances, 1-float64(hit.Score))
	}
	return out, nil
}

func (db *ClientHolder) Delete(ctx context.Context, collection string, ids []string) error {
	pointIds := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIds[i] = qdrant.NewID(id)
	}
	_, err := db.qObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelector(pointIds...),
		Wait:           qdrant.PtrOf(true),
	})
	return err
}

func (db *ClientHolder) DeleteCollection(ctx context.Context, name string) error {
	if err := db.qObj.DeleteCollection(ctx, name); err != nil {
		return err
	}
	db.mu.Lock()
	delete(db.known, name)
	db.mu.Unlock()
	logger.Info("Deleted collection", "name", name)
	return nil
}

func (db *ClientHolder) ListCollections(ctx context.Context) ([]string, error) {
	names, err := db.qObj.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	db.mu.Lock()
	db.known = make(map[string]struct{}, len(names))
	for _, name := range names {
		db.known[name] = struct{}{}
	}
	db.mu.Unlock()
	return names, nil
}

func (db *ClientHolder) Stats(ctx context.Context, collection string) (uint64, error) {
	return db.qObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Exact:          qdrant.PtrOf(true),
	})
}

func payloadToMetadata(payload map[string]*qdrant.Value) models.ChunkMetadata {
	return models.ChunkMetadata{
		Source:       payload["source"].GetStringValue(),
		Page:         int(payload["page"].GetIntegerValue()),
		ChunkIndex:   int(payload["chunk_index"].GetIntegerValue()),
		TotalChunks:  int(payload["total_chunks"].GetIntegerValue()),
		DocumentType: payload["document_type"].GetStringValue(),
		Title:        payload["title"].GetStringValue(),
		FileName:     payload["file_name"].GetStringValue(),
		FileSize:     payload["file_size"].GetIntegerValue(),
	}
}
