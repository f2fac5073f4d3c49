package embedding

import (
	"context"
	"math"
)

// Backend is the inference side of the embedding service. Implementations
// load their client lazily in Init and must tolerate repeated Init calls.
type Backend interface {
	Init(ctx context.Context) error
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Normalize scales vec to unit length in place so that inner product
// equals cosine similarity. Zero vectors are left untouched.
func Normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
