package retriever

import (
	"context"
	"fmt"
	"sort"

	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/internal/domain/models"
	"github.com/anvesht/ragline/internal/metrics"
	"github.com/anvesht/ragline/internal/rag/vectorstore"
	"github.com/anvesht/ragline/pkg/logx"
)

type Mode string

const (
	ModeSingleShot Mode = "single-shot"
	ModeStreaming  Mode = "streaming"
)

// tier is one step of the threshold-relaxation policy: query the store for
// limit*oversample candidates and keep scores >= threshold. A tier with
// filter=false keeps everything the store returns.
type tier struct {
	threshold  float64
	oversample int
	filter     bool
}

// Retriever runs tiered similarity search against the vector store. Both
// query modes share one routine; only the tier table differs.
type Retriever struct {
	store            vectorstore.Store
	defaultThreshold float64
	logger           *logx.Logger
}

func New(store vectorstore.Store) *Retriever {
	return &Retriever{
		store:            store,
		defaultThreshold: config.DefaultScoreThreshold,
		logger:           logx.NewLogger("Retriever"),
	}
}

// Search walks the mode's tiers in order and returns the first tier that
// yields anything, ranked by score descending and truncated to limit.
// requestedThreshold <= 0 means the caller did not ask for one. All tiers
// empty is a valid outcome: nil results, nil error.
func (r *Retriever) Search(ctx context.Context, collection string, queryVector []float32, limit int, requestedThreshold float64, mode Mode) ([]models.SearchResult, error) {
	for i, t := range r.tiersFor(mode, requestedThreshold) {
		results, err := r.searchTier(ctx, collection, queryVector, limit, t)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrRetrieval, err)
		}
		if len(results) > 0 {
			metrics.CountRetrievalTier(string(mode), i+1)
			r.logger.Debug("Tier produced results", "tier", i+1, "count", len(results), "threshold", t.threshold)
			return results, nil
		}
	}
	r.logger.Debug("All tiers exhausted", "collection", collection, "mode", mode)
	return nil, nil
}

func (r *Retriever) tiersFor(mode Mode, requested float64) []tier {
	if mode == ModeStreaming {
		first := requested
		if first <= 0 {
			first = config.StreamDefaultThreshold
		}
		return []tier{
			{threshold: first, oversample: 5, filter: true},
			{threshold: 0.05, oversample: 10, filter: true},
			{threshold: 0, oversample: 1, filter: false},
		}
	}

	base := requested
	if base <= 0 {
		base = r.defaultThreshold
	}
	first := min(base, r.defaultThreshold, config.SingleShotTierCeiling)
	return []tier{
		{threshold: first, oversample: 2, filter: true},
		{threshold: 0.1, oversample: 1, filter: true},
	}
}

func (r *Retriever) searchTier(ctx context.Context, collection string, queryVector []float32, limit int, t tier) ([]models.SearchResult, error) {
	raw, err := r.store.Query(ctx, collection, queryVector, limit*t.oversample)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(raw.Documents))
	for i, doc := range raw.Documents {
		score := 1 - raw.Distances[i]
		if t.filter && score < t.threshold {
			continue
		}
		results = append(results, models.SearchResult{
			Content:  doc,
			Score:    score,
			Metadata: raw.Metadatas[i],
		})
	}

	// Stable keeps the store's native order for equal scores.
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
