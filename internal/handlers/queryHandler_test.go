package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/anvesht/ragline/internal/api"
	"github.com/anvesht/ragline/internal/domain/models"
	"github.com/anvesht/ragline/pkg/logx"
)

func setTestService(m *MockRagService) {
	ragService = m
	logRH = logx.NewLogger("test")
}

func TestQueryHandler_Success(t *testing.T) {
	setTestService(&MockRagService{
		OnAnswer: func(_ context.Context, req models.QueryRequest) (models.QueryResponse, error) {
			return models.QueryResponse{
				Answer: "the answer",
				Sources: []models.SearchResult{
					{Content: "chunk", Score: 0.9, Metadata: models.ChunkMetadata{Source: "a.pdf", Page: 2}},
				},
				ProcessingTimeMs: 7,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()
	QueryHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want 200", rec.Code)
	}
	var resp api.QueryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != "the answer" {
		t.Errorf("answer got %q", resp.Answer)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].Source != "a.pdf" || resp.Sources[0].Page != 2 {
		t.Errorf("sources got %+v", resp.Sources)
	}
}

func TestQueryHandler_BadJSON(t *testing.T) {
	setTestService(&MockRagService{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	QueryHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status got %d, want 400", rec.Code)
	}
}

func TestQueryHandler_MissingQuestion(t *testing.T) {
	setTestService(&MockRagService{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"collection":"docs"}`))
	rec := httptest.NewRecorder()
	QueryHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status got %d, want 400", rec.Code)
	}
}

func TestQueryHandler_PipelineErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"Validation", fmt.Errorf("%w: bad input", models.ErrValidation), http.StatusBadRequest},
		{"Embedding", fmt.Errorf("%w: api limit", models.ErrEmbedding), http.StatusBadGateway},
		{"Retrieval", fmt.Errorf("%w: db down", models.ErrRetrieval), http.StatusBadGateway},
		{"Generation", fmt.Errorf("%w: provider down", models.ErrGeneration), http.StatusBadGateway},
		{"Deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setTestService(&MockRagService{
				OnAnswer: func(_ context.Context, _ models.QueryRequest) (models.QueryResponse, error) {
					return models.QueryResponse{}, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"q"}`))
			rec := httptest.NewRecorder()
			QueryHandler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status got %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestQueryStreamHandler_FramesAndDone(t *testing.T) {
	setTestService(&MockRagService{
		OnAnswerStream: func(_ context.Context, _ models.QueryRequest) (iter.Seq2[string, error], error) {
			return func(yield func(string, error) bool) {
				yield("hello\nworld", nil)
				yield("!", nil)
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/query/stream", strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()
	QueryStreamHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("content type got %q", got)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `data: "hello\nworld"`+"\n\n") {
		t.Errorf("body is missing the escaped first frame: %q", body)
	}
	if !strings.Contains(body, `data: "!"`+"\n\n") {
		t.Errorf("body is missing the second frame: %q", body)
	}
	if !strings.HasSuffix(body, "event: done\ndata: [DONE]\n\n") {
		t.Errorf("body does not end with the done event: %q", body)
	}
}

func TestQueryStreamHandler_ErrorMidStream(t *testing.T) {
	setTestService(&MockRagService{
		OnAnswerStream: func(_ context.Context, _ models.QueryRequest) (iter.Seq2[string, error], error) {
			return func(yield func(string, error) bool) {
				if !yield("partial", nil) {
					return
				}
				yield("", fmt.Errorf("%w: provider down", models.ErrGeneration))
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/query/stream", strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()
	QueryStreamHandler(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `data: "partial"`) {
		t.Errorf("fragments sent before the failure must stand: %q", body)
	}
	if !strings.Contains(body, "event: error\n") {
		t.Errorf("body is missing the error event: %q", body)
	}
	if strings.Contains(body, "event: done") {
		t.Errorf("a failed stream must not emit done: %q", body)
	}
}

func TestQueryStreamHandler_ValidationFailsBeforeStreaming(t *testing.T) {
	setTestService(&MockRagService{
		OnAnswerStream: func(_ context.Context, _ models.QueryRequest) (iter.Seq2[string, error], error) {
			return nil, fmt.Errorf("%w: empty question", models.ErrValidation)
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/query/stream", strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()
	QueryStreamHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status got %d, want 400", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got == "text/event-stream" {
		t.Error("failed request must not switch to SSE")
	}
}

func TestListCollectionsHandler(t *testing.T) {
	setTestService(&MockRagService{
		OnListCollections: func(_ context.Context) ([]models.CollectionInfo, error) {
			return []models.CollectionInfo{{Name: "docs", Count: 42}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/collections", nil)
	rec := httptest.NewRecorder()
	ListCollectionsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want 200", rec.Code)
	}
	var resp []api.CollectionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0].Name != "docs" || resp[0].Count != 42 {
		t.Errorf("collections got %+v", resp)
	}
}

func TestDeleteCollectionHandler_PassesURLParam(t *testing.T) {
	var gotName string
	setTestService(&MockRagService{
		OnDeleteCollection: func(_ context.Context, name string) error {
			gotName = name
			return nil
		},
	})

	router := chi.NewRouter()
	router.Delete("/collections/{name}", DeleteCollectionHandler)

	req := httptest.NewRequest(http.MethodDelete, "/collections/notes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status got %d, want 204", rec.Code)
	}
	if gotName != "notes" {
		t.Errorf("collection name got %q, want %q", gotName, "notes")
	}
}

func TestClearCacheHandler(t *testing.T) {
	mock := &MockRagService{}
	setTestService(mock)

	req := httptest.NewRequest(http.MethodDelete, "/cache/embeddings", nil)
	rec := httptest.NewRecorder()
	ClearCacheHandler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status got %d, want 204", rec.Code)
	}
	if mock.CacheClears != 1 {
		t.Errorf("cache clears got %d, want 1", mock.CacheClears)
	}
}

func TestHealthHandler_Degraded(t *testing.T) {
	setTestService(&MockRagService{Healthy: false})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	HealthHandler(rec, req)

	var resp api.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" || resp.Generator {
		t.Errorf("health got %+v", resp)
	}
}
