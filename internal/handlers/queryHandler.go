package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/anvesht/ragline/internal/adapter"
	"github.com/anvesht/ragline/internal/api"
	"github.com/anvesht/ragline/internal/domain/models"
	"github.com/anvesht/ragline/internal/rag"
	"github.com/anvesht/ragline/pkg/logx"
)

var (
	ragService rag.Service
	once       sync.Once
	logRH      *logx.Logger
)

func InitHandlers(service rag.Service) {
	once.Do(func() {
		ragService = service
		logRH = logx.NewLogger("RequestHandler")
		logRH.Info("Handlers initialized")
	})
}

// QueryHandler godoc
// @Summary      Answer a question from indexed documents
// @Description  Embeds the question, runs tiered similarity search and generates a grounded answer.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest  true  "Question and retrieval options"
// @Success      200      {object}  api.QueryResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      502      {object}  api.ErrorResponse
// @Router       /query [post]
func QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	req, ok := decodeQueryRequest(w, r)
	if !ok {
		return
	}

	resp, err := ragService.Answer(r.Context(), req)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToQueryResponse(resp))
}

// QueryStreamHandler godoc
// @Summary      Answer a question as a server-sent event stream
// @Description  Same pipeline as /query with the streaming tier table; fragments are forwarded in generation order.
// @Tags         Query
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body  api.QueryRequest  true  "Question and retrieval options"
// @Success      200  {string}  string  "SSE stream of answer fragments"
// @Failure      400  {object}  api.ErrorResponse
// @Router       /query/stream [post]
func QueryStreamHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	req, ok := decodeQueryRequest(w, r)
	if !ok {
		return
	}

	stream, err := ragService.AnswerStream(r.Context(), req)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteErrorResponse(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for fragment, err := range stream {
		if err != nil {
			// Fragments already sent stay valid; the stream just ends badly.
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", sseEscape("generation failed"))
			flusher.Flush()
			logRH.Error("Stream terminated", "traceId", traceFrom(r.Context()), "error", err)
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", sseEscape(fragment))
		flusher.Flush()
	}
	fmt.Fprint(w, "event: done\ndata: [DONE]\n\n")
	flusher.Flush()
}

// ListCollectionsHandler godoc
// @Summary      List collections
// @Tags         Collections
// @Produce      json
// @Success      200  {array}   api.CollectionResponse
// @Failure      502  {object}  api.ErrorResponse
// @Router       /collections [get]
func ListCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	infos, err := ragService.ListCollections(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToCollectionResponses(infos))
}

// DeleteCollectionHandler godoc
// @Summary      Delete a collection and everything in it
// @Tags         Collections
// @Produce      json
// @Param        name  path  string  true  "Collection name"
// @Success      204   "deleted"
// @Failure      502   {object}  api.ErrorResponse
// @Router       /collections/{name} [delete]
func DeleteCollectionHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := ragService.DeleteCollection(r.Context(), name); err != nil {
		writePipelineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearCacheHandler godoc
// @Summary      Drop all cached embeddings
// @Tags         Maintenance
// @Success      204  "cleared"
// @Router       /cache/embeddings [delete]
func ClearCacheHandler(w http.ResponseWriter, r *http.Request) {
	ragService.ClearEmbeddingCache(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// HealthHandler godoc
// @Summary      Service and generation backend health
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	ok := ragService.HealthCheck(r.Context())
	status := "ok"
	if !ok {
		status = "degraded"
	}
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: status, Generator: ok})
}

func decodeQueryRequest(w http.ResponseWriter, r *http.Request) (models.QueryRequest, bool) {
	defer r.Body.Close()

	var requestData api.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad query request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return models.QueryRequest{}, false
	}
	if requestData.Question == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "question is required")
		return models.QueryRequest{}, false
	}

	return models.QueryRequest{
		Question:   requestData.Question,
		Collection: requestData.Collection,
		Limit:      requestData.Limit,
		Threshold:  requestData.Threshold,
	}, true
}

// sseEscape packs a fragment into one SSE data line. JSON encoding keeps
// embedded newlines from breaking the frame.
func sseEscape(fragment string) []byte {
	b, _ := json.Marshal(fragment)
	return b
}
