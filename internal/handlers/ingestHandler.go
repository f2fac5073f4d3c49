package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/anvesht/ragline/internal/adapter"
	"github.com/anvesht/ragline/internal/api"
	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/internal/domain/models"
	"github.com/anvesht/ragline/internal/rag/extract"
)

// IndexHandler godoc
// @Summary      Index raw text into a collection
// @Description  Chunks the text, embeds the chunks and persists them in the vector store.
// @Tags         Indexing
// @Accept       json
// @Produce      json
// @Param        request  body      api.IndexRequest  true  "Document text and target collection"
// @Success      200      {object}  api.IndexResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      502      {object}  api.ErrorResponse
// @Router       /documents [post]
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	defer r.Body.Close()

	var requestData api.IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad index request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return
	}

	meta := models.ChunkMetadata{
		Source: requestData.Source,
		Title:  requestData.Title,
	}
	if meta.Source == "" {
		meta.Source = "inline"
	}

	result, err := ragService.IndexDocument(r.Context(), requestData.Text, requestData.Collection, meta)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToIndexResponse(result))
}

// UploadHandler godoc
// @Summary      Upload a document file for indexing
// @Description  Receives a PDF, DOCX, TXT or RTF file via multipart/form-data, extracts its text per page and indexes it.
// @Tags         Indexing
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        collection     formData  string  false "Target collection"
// @Param        document       formData  file    true  "The file to upload"
// @Success      200  {object}  api.IndexResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /documents/upload [post]
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request")
		return
	}

	docName := r.FormValue("document_name")
	if docName == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "document_name is required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	tempFilePath, err := saveUpload(fileReader, fileMetadata.Filename)
	if err != nil {
		logRH.Error("Could not store upload", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	defer os.Remove(tempFilePath)

	docType := extract.DocTypeFor(tempFilePath)
	if docType == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "Unsupported file type")
		return
	}

	rawPages, err := extract.Text(tempFilePath)
	if err != nil {
		logRH.Error("Extraction failed", "file", docName, "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Could not extract document content")
		return
	}

	pages := make([]models.PageText, len(rawPages))
	for i, page := range rawPages {
		pages[i] = models.PageText{Page: page.Number, Content: page.Content}
	}

	meta := models.ChunkMetadata{
		Source:       docName,
		Title:        docName,
		FileName:     fileMetadata.Filename,
		FileSize:     fileMetadata.Size,
		DocumentType: docType,
	}

	result, err := ragService.IndexDocumentPages(r.Context(), pages, r.FormValue("collection"), meta)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToIndexResponse(result))
}

func saveUpload(src io.Reader, originalName string) (string, error) {
	targetDir, err := getTargetDirectory()
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(originalName))
	tempFilePath := filepath.Join(targetDir, filename)
	dst, err := os.Create(tempFilePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(tempFilePath)
		return "", err
	}
	return tempFilePath, nil
}
