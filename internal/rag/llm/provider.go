package llm

import (
	"context"
	"iter"
)

// Provider is the generation backend. GenerateStream yields text fragments
// in production order; iteration stops on the first non-nil error or when
// the backend signals completion.
type Provider interface {
	HealthCheck(ctx context.Context) bool
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
	GenerateStream(ctx context.Context, systemPrompt string, userPrompt string) iter.Seq2[string, error]
}
