package embedding

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache maps an exact text string to its embedding. Implementations must be
// safe for concurrent use; lookups and inserts are not mutually exclusive,
// so two queries embedding the same uncached text may both hit the backend.
// That duplicate work is idempotent and tolerated.
type Cache interface {
	Get(ctx context.Context, text string) ([]float32, bool)
	Set(ctx context.Context, text string, vector []float32)
	Purge(ctx context.Context)
}

// LRUCache is the default in-process cache with a hard capacity bound.
type LRUCache struct {
	inner *lru.Cache[string, []float32]
}

func NewLRUCache(capacity int) (*LRUCache, error) {
	inner, err := lru.New[string, []float32](capacity)
	if err != nil {
		return nil, err
	}
	return &LRUCache{inner: inner}, nil
}

func (c *LRUCache) Get(_ context.Context, text string) ([]float32, bool) {
	return c.inner.Get(text)
}

func (c *LRUCache) Set(_ context.Context, text string, vector []float32) {
	c.inner.Add(text, vector)
}

func (c *LRUCache) Purge(_ context.Context) {
	c.inner.Purge()
}
