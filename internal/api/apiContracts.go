package api

// requests ---------------------

type IndexRequest struct {
	Text       string `json:"text" validate:"required"`
	Collection string `json:"collection,omitempty"`
	Source     string `json:"source,omitempty"`
	Title      string `json:"title,omitempty"`
}

type QueryRequest struct {
	Question   string  `json:"question" validate:"required"`
	Collection string  `json:"collection,omitempty"`
	Limit      int     `json:"limit,omitempty"`
	Threshold  float64 `json:"threshold,omitempty"`
}

// responses ---------------------

type IndexResponse struct {
	DocumentID       string `json:"document_id"`
	ChunkCount       int    `json:"chunk_count"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}

type SourceResponse struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Source  string  `json:"source"`
	Page    int     `json:"page,omitempty"`
}

type QueryResponse struct {
	Answer           string           `json:"answer"`
	Sources          []SourceResponse `json:"sources"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
}

type CollectionResponse struct {
	Name  string `json:"name"`
	Count uint64 `json:"count"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Generator bool   `json:"generator"`
}

type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Bad Request"`
}
