package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	apperrors "patterngraph/backend/pkg/errors"
	"patterngraph/backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// maxRetries bounds retry attempts for provider calls.
	maxRetries = 3
	// embedBatchSize caps how many texts go into one embeddings request.
	embedBatchSize = 100
	// maxConcurrentBatches bounds parallel embeddings requests during an
	// index build.
	maxConcurrentBatches = 4
)

// LLMAdapter handles communication with the embedding and generation models
// via a LiteLLM-compatible gateway.
type LLMAdapter struct {
	client         *openai.Client
	model          string
	embeddingModel string
	logger         *zap.Logger
}

// NewLLMAdapter creates a new LLM adapter
func NewLLMAdapter(baseURL, apiKey, modelID, embeddingModelID string) *LLMAdapter {
	// For LiteLLM, we can use a dummy API key if not provided
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL + "/v1"

	return &LLMAdapter{
		client:         openai.NewClientWithConfig(config),
		model:          modelID,
		embeddingModel: embeddingModelID,
		logger:         logger.Get(),
	}
}

// Generate sends a (system, user) chat completion request and returns the
// generated text. Transient failures are retried with linear backoff.
func (a *LLMAdapter) Generate(ctx context.Context, systemPrompt, userMsg string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMsg,
			},
		},
		Temperature: 0.7,
	}

	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			a.logger.Warn("Retrying generation request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", apperrors.NewContextCancelled("generation", ctx.Err())
			case <-time.After(backoff):
			}
		}

		resp, err = a.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		a.logger.Error("Generation request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", a.model),
		)
	}

	if err != nil {
		return "", apperrors.NewProviderCallFailed("generation", a.model, maxRetries, true, err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewProviderCallFailed("generation", a.model, 1, false,
			fmt.Errorf("no choices in response"))
	}

	content := resp.Choices[0].Message.Content
	a.logger.Debug("Generation response received",
		zap.String("model", a.model),
		zap.Int("content_length", len(content)),
	)

	return content, nil
}

// Embed returns one embedding vector per input text, in input order. Texts
// are split into batches submitted concurrently; each batch is retried with
// linear backoff before the whole call is reported failed.
func (a *LLMAdapter) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)

	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		offset, batch := start, texts[start:end]

		g.Go(func() error {
			embeddings, err := a.embedBatch(gctx, batch)
			if err != nil {
				return err
			}
			for i, v := range embeddings {
				vectors[offset+i] = v
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Debug("Embeddings computed",
		zap.String("model", a.embeddingModel),
		zap.Int("texts", len(texts)),
	)

	return vectors, nil
}

// embedBatch embeds a single batch with retry.
func (a *LLMAdapter) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Input: batch,
		Model: openai.EmbeddingModel(a.embeddingModel),
	}

	var resp openai.EmbeddingResponse
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			a.logger.Warn("Retrying embedding request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Int("batch_size", len(batch)),
			)
			select {
			case <-ctx.Done():
				return nil, apperrors.NewContextCancelled("embedding", ctx.Err())
			case <-time.After(backoff):
			}
		}

		resp, err = a.client.CreateEmbeddings(ctx, req)
		if err == nil {
			break
		}

		a.logger.Error("Embedding request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", a.embeddingModel),
		)
	}

	if err != nil {
		return nil, apperrors.NewProviderCallFailed("embedding", a.embeddingModel, maxRetries, true, err)
	}

	if len(resp.Data) != len(batch) {
		return nil, apperrors.NewProviderCallFailed("embedding", a.embeddingModel, 1, false,
			fmt.Errorf("expected %d embeddings, got %d", len(batch), len(resp.Data)))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
