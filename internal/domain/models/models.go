package models

// ChunkMetadata travels with every chunk into the vector store payload and
// comes back attached to search results.
type ChunkMetadata struct {
	Source       string `json:"source"`
	Page         int    `json:"page,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
	TotalChunks  int    `json:"total_chunks"`
	DocumentType string `json:"document_type,omitempty"`
	Title        string `json:"title,omitempty"`
	FileName     string `json:"file_name,omitempty"`
	FileSize     int64  `json:"file_size,omitempty"`
}

// Chunk is a bounded contiguous slice of a document's text. Immutable once
// produced; ChunkIndex/TotalChunks are consistent across one document.
type Chunk struct {
	ID       string        `json:"id"`
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// SearchResult is one retrieval hit. Score is a similarity in [0,1],
// higher is better. Produced fresh per query, never persisted.
type SearchResult struct {
	Content  string        `json:"content"`
	Score    float64       `json:"score"`
	Metadata ChunkMetadata `json:"metadata"`
}

// PageText is one page of raw extracted document text. Page 0 marks
// sources without page structure.
type PageText struct {
	Page    int    `json:"page"`
	Content string `json:"content"`
}

type QueryRequest struct {
	Question   string  `json:"question"`
	Collection string  `json:"collection,omitempty"`
	Limit      int     `json:"limit,omitempty"`
	Threshold  float64 `json:"threshold,omitempty"`
}

type QueryResponse struct {
	Answer           string         `json:"answer"`
	Sources          []SearchResult `json:"sources"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
}

type IndexResult struct {
	DocumentID       string `json:"document_id"`
	ChunkCount       int    `json:"chunk_count"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}

type CollectionInfo struct {
	Name  string `json:"name"`
	Count uint64 `json:"count"`
}
