package openaiembed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/anvesht/ragline/pkg/logx"
)

var logger *logx.Logger
var once sync.Once

// Client embeds text through the OpenAI embeddings API.
type Client struct {
	api   openai.Client
	model string
	dim   int
	ready bool
	mu    sync.Mutex
}

func New(model string, dimension int) *Client {
	once.Do(func() {
		logger = logx.NewLogger("openai_embedding")
	})
	return &Client{model: model, dim: dimension}
}

// Init builds the API client from OPENAI_API_KEY. Safe to call repeatedly;
// the embedding service single-flights concurrent callers above this.
func (c *Client) Init(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return nil
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}

	c.api = openai.NewClient(option.WithAPIKey(apiKey))
	c.ready = true
	logger.Info("OpenAI embedding client created", "model", c.model)
	return nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(int64(c.dim)),
	})
	if err != nil {
		logger.Error("Embedding request failed", "error", err)
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response for model %s", c.model)
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}

func (c *Client) Dimension() int {
	return c.dim
}
