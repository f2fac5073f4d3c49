package rag

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/internal/domain/models"
	"github.com/anvesht/ragline/internal/metrics"
	"github.com/anvesht/ragline/internal/rag/assembler"
	"github.com/anvesht/ragline/internal/rag/chunker"
	"github.com/anvesht/ragline/internal/rag/llm"
	"github.com/anvesht/ragline/internal/rag/personality"
	"github.com/anvesht/ragline/internal/rag/retriever"
	"github.com/anvesht/ragline/internal/rag/vectorstore"
	"github.com/anvesht/ragline/pkg/logx"
)

// Service is the public contract of the query pipeline. Handlers and the
// tool server only ever see this interface, never the backends behind it.
type Service interface {
	IndexDocument(ctx context.Context, text string, collection string, meta models.ChunkMetadata) (models.IndexResult, error)
	IndexDocumentPages(ctx context.Context, pages []models.PageText, collection string, meta models.ChunkMetadata) (models.IndexResult, error)
	Answer(ctx context.Context, req models.QueryRequest) (models.QueryResponse, error)
	AnswerStream(ctx context.Context, req models.QueryRequest) (iter.Seq2[string, error], error)
	ListCollections(ctx context.Context) ([]models.CollectionInfo, error)
	DeleteCollection(ctx context.Context, name string) error
	ClearEmbeddingCache(ctx context.Context)
	HealthCheck(ctx context.Context) bool
}

// Embedder is the slice of the embedding service the pipeline needs.
type Embedder interface {
	Initialize(ctx context.Context) error
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	ClearCache(ctx context.Context)
}

// Searcher runs the tiered similarity search.
type Searcher interface {
	Search(ctx context.Context, collection string, queryVector []float32, limit int, requestedThreshold float64, mode retriever.Mode) ([]models.SearchResult, error)
}

type service struct {
	store       vectorstore.Store
	embedder    Embedder
	search      Searcher
	llmProvider llm.Provider
	personality personality.Provider
	deadline    time.Duration
	logger      *logx.Logger
}

// NewService wires the pipeline together.
func NewService(store vectorstore.Store, em Embedder, search Searcher, provider llm.Provider, pers personality.Provider) Service {
	return &service{
		store:       store,
		embedder:    em,
		search:      search,
		llmProvider: provider,
		personality: pers,
		deadline:    config.QueryDeadline,
		logger:      logx.NewLogger("RAG Service :"),
	}
}

func (s *service) IndexDocument(ctx context.Context, text string, collection string, meta models.ChunkMetadata) (models.IndexResult, error) {
	return s.IndexDocumentPages(ctx, []models.PageText{{Content: text}}, collection, meta)
}

// IndexDocumentPages chunks every page, numbers the chunks across the whole
// document, embeds them and writes them to the collection in one upsert.
func (s *service) IndexDocumentPages(ctx context.Context, pages []models.PageText, collection string, meta models.ChunkMetadata) (models.IndexResult, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_indexing", time.Since(start)) }()

	if collection == "" {
		collection = config.DefaultCollection
	}

	documentID := uuid.New().String()
	var chunks []models.Chunk
	for _, page := range pages {
		if page.Content == "" {
			continue
		}
		for _, piece := range chunker.Split(page.Content, config.ChunkSize, config.ChunkOverlap) {
			m := meta
			m.Page = page.Page
			chunks = append(chunks, models.Chunk{
				ID:       uuid.New().String(),
				Content:  piece,
				Metadata: m,
			})
		}
	}
	if len(chunks) == 0 {
		return models.IndexResult{}, fmt.Errorf("%w: empty document text", models.ErrValidation)
	}
	for i := range chunks {
		chunks[i].Metadata.ChunkIndex = i
		chunks[i].Metadata.TotalChunks = len(chunks)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.executeEmbeddingBatchStep(ctx, texts)
	if err != nil {
		return models.IndexResult{}, err
	}

	if err := s.store.EnsureCollection(ctx, collection); err != nil {
		return models.IndexResult{}, fmt.Errorf("%w: ensure collection: %v", models.ErrRetrieval, err)
	}
	if err := s.store.Upsert(ctx, collection, chunks, vectors); err != nil {
		return models.IndexResult{}, fmt.Errorf("%w: upsert: %v", models.ErrRetrieval, err)
	}

	s.logger.Info("Indexed document", "documentId", documentID, "collection", collection, "chunks", len(chunks))
	return models.IndexResult{
		DocumentID:       documentID,
		ChunkCount:       len(chunks),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// Answer runs the full pipeline once: embed, tiered search, assemble,
// single-shot generation. The whole query races the configured deadline.
func (s *service) Answer(ctx context.Context, req models.QueryRequest) (models.QueryResponse, error) {
	start := time.Now()
	status := "ok"
	defer func() { metrics.CaptureQueryMetrics(string(retriever.ModeSingleShot), status, time.Since(start)) }()

	if err := validateRequest(req); err != nil {
		status = "invalid"
		return models.QueryResponse{}, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	results, err := s.retrieve(queryCtx, req, retriever.ModeSingleShot)
	if err != nil {
		status = "failed"
		return models.QueryResponse{}, err
	}

	if len(results) == 0 {
		// Valid outcome, not an error: canonical answer, no sources.
		return models.QueryResponse{
			Answer:           config.NoResultsAnswer,
			Sources:          []models.SearchResult{},
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}, nil
	}

	answer, err := s.executeGenerationStep(queryCtx, req.Question, assembler.Assemble(results))
	if err != nil {
		status = "failed"
		return models.QueryResponse{}, err
	}

	return models.QueryResponse{
		Answer:           answer,
		Sources:          results,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// AnswerStream runs the same pipeline with the streaming tier table and
// forwards the generator's fragments verbatim, in order. A failure after
// fragments were yielded terminates the sequence with that error; the
// fragments stand.
func (s *service) AnswerStream(ctx context.Context, req models.QueryRequest) (iter.Seq2[string, error], error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.deadline)

	results, err := s.retrieve(queryCtx, req, retriever.ModeStreaming)
	if err != nil {
		cancel()
		return nil, err
	}

	if len(results) == 0 {
		cancel()
		return func(yield func(string, error) bool) {
			yield(config.NoResultsAnswer, nil)
		}, nil
	}

	userPrompt := buildUserPrompt(assembler.Assemble(results), req.Question)
	systemPrompt := s.personality.SystemPrompt()

	return func(yield func(string, error) bool) {
		defer cancel()
		start := time.Now()
		defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

		for fragment, err := range s.llmProvider.GenerateStream(queryCtx, systemPrompt, userPrompt) {
			if err != nil {
				yield("", fmt.Errorf("%w: %v", models.ErrGeneration, err))
				return
			}
			if !yield(fragment, nil) {
				return
			}
		}
	}, nil
}

func (s *service) ListCollections(ctx context.Context) ([]models.CollectionInfo, error) {
	names, err := s.store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list collections: %v", models.ErrRetrieval, err)
	}

	infos := make([]models.CollectionInfo, 0, len(names))
	for _, name := range names {
		count, err := s.store.Stats(ctx, name)
		if err != nil {
			s.logger.Error("Stats failed", "collection", name, "error", err)
			continue
		}
		infos = append(infos, models.CollectionInfo{Name: name, Count: count})
	}
	return infos, nil
}

func (s *service) DeleteCollection(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty collection name", models.ErrValidation)
	}
	if err := s.store.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("%w: delete collection: %v", models.ErrRetrieval, err)
	}
	return nil
}

func (s *service) ClearEmbeddingCache(ctx context.Context) {
	s.embedder.ClearCache(ctx)
}

func (s *service) HealthCheck(ctx context.Context) bool {
	return s.llmProvider.HealthCheck(ctx)
}

// retrieve embeds the question and runs the mode's tier table.
func (s *service) retrieve(ctx context.Context, req models.QueryRequest, mode retriever.Mode) ([]models.SearchResult, error) {
	collection := req.Collection
	if collection == "" {
		collection = config.DefaultCollection
	}
	limit := req.Limit
	if limit <= 0 {
		limit = config.DefaultSearchLimit
	}

	queryVector, err := s.executeEmbeddingStep(ctx, req.Question)
	if err != nil {
		return nil, err
	}
	return s.executeSearchStep(ctx, collection, queryVector, limit, req.Threshold, mode)
}

func validateRequest(req models.QueryRequest) error {
	if req.Question == "" {
		return fmt.Errorf("%w: empty question", models.ErrValidation)
	}
	return nil
}
