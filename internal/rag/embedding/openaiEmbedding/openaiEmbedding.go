package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/customHttpClient"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type client struct {
	api    openai.Client
	model  string
	logger *logger_i.Logger
}

func NewProvider(model, apiKey string, opts ...option.RequestOption) (*client, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is not configured")
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(customHttpClient.New(config.QdrantConnectionTimeout)),
	}, opts...)

	return &client{
		api:    openai.NewClient(opts...),
		model:  model,
		logger: logger_i.NewLogger("openai_embedding"),
	}, nil
}

func (c *client) Model() string {
	return c.model
}

// EmbedBatch orders results by the index the API reports, not response order.
func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		c.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, fmt.Errorf("openai returned embedding index %d for %d inputs", d.Index, len(texts))
		}
		v := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			v[i] = float32(f)
		}
		vectors[d.Index] = v
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("openai returned no embedding for input %d", i)
		}
	}
	return vectors, nil
}
