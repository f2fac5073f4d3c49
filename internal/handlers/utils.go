package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/anvesht/ragline/internal/adapter"
	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/internal/domain/models"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(httpCode, message))
}

// statusForError maps the pipeline error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrEmbedding),
		errors.Is(err, models.ErrRetrieval),
		errors.Is(err, models.ErrGeneration):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writePipelineError(w http.ResponseWriter, err error) {
	code := statusForError(err)
	message := "Internal Server Error"
	if code == http.StatusBadRequest {
		message = err.Error()
	}
	logRH.Error("Pipeline error", "httpCode", code, "error", err)
	WriteErrorResponse(w, code, message)
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

func traceFrom(ctx context.Context) string {
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return trace
	}
	return ""
}

func getTargetDirectory() (string, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", err
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", err
	}
	return targetDir, nil
}
