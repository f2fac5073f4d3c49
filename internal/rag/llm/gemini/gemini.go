package gemini

import (
	"context"
	"errors"
	"iter"
	"sync"

	"google.golang.org/genai"

	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/internal/rag/llm"
	"github.com/anvesht/ragline/pkg/logx"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logx.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logx.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName}
	logger.Info("Gemini client created", "model", modelName)
	go closeClient(ctx, geminiClient)
}

func closeClient(ctx context.Context, c *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	c.client = nil
	c.modelName = ""
}

func (c *llmClient) HealthCheck(ctx context.Context) bool {
	if c.client == nil {
		return false
	}
	_, err := c.client.Models.CountTokens(ctx, c.modelName, genai.Text("ping"), nil)
	if err != nil {
		logger.Warn("Health check failed", "error", err)
		return false
	}
	return true
}

func (c *llmClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(userPrompt),
		c.contentConfig(systemPrompt),
	)
	if err != nil {
		logger.Error("Generation failed", "error", err)
		return "", err
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("empty generation response")
	}
	return text, nil
}

// GenerateStream forwards the model's token stream as it arrives. Fragments
// already yielded stay valid when the stream fails mid-way.
func (c *llmClient) GenerateStream(ctx context.Context, systemPrompt string, userPrompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := c.client.Models.GenerateContentStream(
			ctx,
			c.modelName,
			genai.Text(userPrompt),
			c.contentConfig(systemPrompt),
		)
		for resp, err := range stream {
			if err != nil {
				logger.Error("Stream failed", "error", err)
				yield("", err)
				return
			}
			if text := resp.Text(); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}

func (c *llmClient) contentConfig(systemPrompt string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature: genai.Ptr(config.ModelTemperature),
	}
}
