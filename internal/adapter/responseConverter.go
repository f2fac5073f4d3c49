package adapter

import (
	"github.com/anvesht/ragline/internal/api"
	"github.com/anvesht/ragline/internal/domain/models"
)

func ToIndexResponse(result models.IndexResult) api.IndexResponse {
	return api.IndexResponse{
		DocumentID:       result.DocumentID,
		ChunkCount:       result.ChunkCount,
		ProcessingTimeMs: result.ProcessingTimeMs,
	}
}

func ToQueryResponse(resp models.QueryResponse) api.QueryResponse {
	sources := make([]api.SourceResponse, len(resp.Sources))
	for i, src := range resp.Sources {
		sources[i] = api.SourceResponse{
			Content: src.Content,
			Score:   src.Score,
			Source:  src.Metadata.Source,
			Page:    src.Metadata.Page,
		}
	}
	return api.QueryResponse{
		Answer:           resp.Answer,
		Sources:          sources,
		ProcessingTimeMs: resp.ProcessingTimeMs,
	}
}

func ToCollectionResponses(infos []models.CollectionInfo) []api.CollectionResponse {
	out := make([]api.CollectionResponse, len(infos))
	for i, info := range infos {
		out[i] = api.CollectionResponse{Name: info.Name, Count: info.Count}
	}
	return out
}

func BadRequest(code int, message string) api.ErrorResponse {
	return api.ErrorResponse{Code: code, Message: message}
}
