package models

import "errors"

// Pipeline error taxonomy. Stages wrap these with fmt.Errorf("...: %w", ...)
// so callers can classify with errors.Is without parsing messages.
var (
	ErrValidation = errors.New("validation error")
	ErrEmbedding  = errors.New("embedding error")
	ErrRetrieval  = errors.New("retrieval error")
	ErrGeneration = errors.New("generation error")
)
