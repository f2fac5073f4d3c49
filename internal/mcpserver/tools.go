package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anvesht/ragline/internal/domain/models"
)

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Question   string  `json:"question" jsonschema:"the question to answer from indexed documents"`
	Collection string  `json:"collection,omitempty" jsonschema:"collection to search (default documents)"`
	Limit      int     `json:"limit,omitempty" jsonschema:"maximum number of sources to use (default 5)"`
	Threshold  float64 `json:"threshold,omitempty" jsonschema:"minimum similarity score between 0 and 1"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Answer           string         `json:"answer"`
	Sources          []SourceOutput `json:"sources"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
}

// SourceOutput is one retrieved chunk backing the answer.
type SourceOutput struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Source  string  `json:"source,omitempty"`
	Page    int     `json:"page,omitempty"`
}

// IndexInput is the input schema for the index_document tool.
type IndexInput struct {
	Text       string `json:"text" jsonschema:"the document text to chunk and index"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to write into (default documents)"`
	Source     string `json:"source,omitempty" jsonschema:"source label stored with every chunk"`
	Title      string `json:"title,omitempty" jsonschema:"document title stored with every chunk"`
}

// IndexOutput is the output schema for the index_document tool.
type IndexOutput struct {
	DocumentID       string `json:"document_id"`
	ChunkCount       int    `json:"chunk_count"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}

// CollectionsOutput is the output schema for the list_collections tool.
type CollectionsOutput struct {
	Collections []CollectionOutput `json:"collections"`
	Count       int                `json:"count"`
}

// CollectionOutput is one collection and its point count.
type CollectionOutput struct {
	Name  string `json:"name"`
	Count uint64 `json:"count"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question using the indexed documents",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_document",
		Description: "Chunk, embed and index a text document",
	}, s.handleIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_collections",
		Description: "List indexed collections and their document counts",
	}, s.handleListCollections)
}

func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	resp, err := s.ragService.Answer(ctx, models.QueryRequest{
		Question:   input.Question,
		Collection: input.Collection,
		Limit:      input.Limit,
		Threshold:  input.Threshold,
	})
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Answer:           resp.Answer,
		Sources:          make([]SourceOutput, len(resp.Sources)),
		ProcessingTimeMs: resp.ProcessingTimeMs,
	}
	for i, src := range resp.Sources {
		output.Sources[i] = SourceOutput{
			Content: src.Content,
			Score:   src.Score,
			Source:  src.Metadata.Source,
			Page:    src.Metadata.Page,
		}
	}
	return nil, output, nil
}

func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	source := input.Source
	if source == "" {
		source = "mcp"
	}

	result, err := s.ragService.IndexDocument(ctx, input.Text, input.Collection, models.ChunkMetadata{
		Source: source,
		Title:  input.Title,
	})
	if err != nil {
		return nil, IndexOutput{}, err
	}

	return nil, IndexOutput{
		DocumentID:       result.DocumentID,
		ChunkCount:       result.ChunkCount,
		ProcessingTimeMs: result.ProcessingTimeMs,
	}, nil
}

func (s *Server) handleListCollections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, CollectionsOutput, error) {
	infos, err := s.ragService.ListCollections(ctx)
	if err != nil {
		return nil, CollectionsOutput{}, err
	}

	output := CollectionsOutput{
		Collections: make([]CollectionOutput, len(infos)),
		Count:       len(infos),
	}
	for i, info := range infos {
		output.Collections[i] = CollectionOutput{Name: info.Name, Count: info.Count}
	}
	return nil, output, nil
}
