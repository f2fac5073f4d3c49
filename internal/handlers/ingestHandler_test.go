package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anvesht/ragline/internal/api"
	"github.com/anvesht/ragline/internal/domain/models"
)

func TestIndexHandler_Success(t *testing.T) {
	var gotText, gotCollection string
	var gotMeta models.ChunkMetadata
	setTestService(&MockRagService{
		OnIndexDocument: func(_ context.Context, text string, collection string, meta models.ChunkMetadata) (models.IndexResult, error) {
			gotText, gotCollection, gotMeta = text, collection, meta
			return models.IndexResult{DocumentID: "doc-9", ChunkCount: 2, ProcessingTimeMs: 5}, nil
		},
	})

	body := `{"text":"some document text","collection":"notes","source":"handbook","title":"The Handbook"}`
	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(body))
	rec := httptest.NewRecorder()
	IndexHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want 200", rec.Code)
	}
	if gotText != "some document text" || gotCollection != "notes" {
		t.Errorf("service got text %q collection %q", gotText, gotCollection)
	}
	if gotMeta.Source != "handbook" || gotMeta.Title != "The Handbook" {
		t.Errorf("metadata got %+v", gotMeta)
	}

	var resp api.IndexResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.DocumentID != "doc-9" || resp.ChunkCount != 2 {
		t.Errorf("response got %+v", resp)
	}
}

func TestIndexHandler_DefaultsSourceToInline(t *testing.T) {
	var gotMeta models.ChunkMetadata
	setTestService(&MockRagService{
		OnIndexDocument: func(_ context.Context, _ string, _ string, meta models.ChunkMetadata) (models.IndexResult, error) {
			gotMeta = meta
			return models.IndexResult{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(`{"text":"t"}`))
	rec := httptest.NewRecorder()
	IndexHandler(rec, req)

	if gotMeta.Source != "inline" {
		t.Errorf("source got %q, want %q", gotMeta.Source, "inline")
	}
}

func TestIndexHandler_BadJSON(t *testing.T) {
	setTestService(&MockRagService{})

	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	IndexHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status got %d, want 400", rec.Code)
	}
}

func TestUploadHandler_MissingDocumentName(t *testing.T) {
	setTestService(&MockRagService{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("document", "notes.txt")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write([]byte("content"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/documents/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	UploadHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status got %d, want 400", rec.Code)
	}
}

func TestUploadHandler_TextFile(t *testing.T) {
	var gotPages []models.PageText
	var gotMeta models.ChunkMetadata
	setTestService(&MockRagService{
		OnIndexDocumentPages: func(_ context.Context, pages []models.PageText, _ string, meta models.ChunkMetadata) (models.IndexResult, error) {
			gotPages, gotMeta = pages, meta
			return models.IndexResult{DocumentID: "doc-up", ChunkCount: 1}, nil
		},
	})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("document_name", "My Notes")
	part, err := writer.CreateFormFile("document", "notes.txt")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write([]byte("plain text body"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/documents/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	UploadHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(gotPages) != 1 || !strings.Contains(gotPages[0].Content, "plain text body") {
		t.Errorf("pages got %+v", gotPages)
	}
	if gotMeta.Source != "My Notes" || gotMeta.FileName != "notes.txt" || gotMeta.DocumentType != "text" {
		t.Errorf("metadata got %+v", gotMeta)
	}
}
