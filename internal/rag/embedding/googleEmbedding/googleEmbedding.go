package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/customHttpClient"
	"github.com/akolanti/ragops/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const retryDelay = 5 * time.Second

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
	logger    *logger_i.Logger
}

// NewProvider builds a gemini embedding provider. An empty apiKey is an error
// so callers can fall back to another provider at startup.
func NewProvider(ctx context.Context, model, apiKey string, dimension int32) (*client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.New(config.QdrantConnectionTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini embedding client: %w", err)
	}
	if dimension <= 0 {
		dimension = config.EmbeddingOutputDimensionality
	}

	log := logger_i.NewLogger("google_embedding")
	log.Info("Google Embedding client created", "model", model, "dimension", dimension)
	return &client{genAi: c, model: model, dimension: dimension, logger: log}, nil
}

func (c *client) Model() string {
	return c.model
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	log := c.logger.WithTrace(ctx, config.TRACE_ID_KEY)

	res, err := c.doCall(ctx, getContent(texts))
	if err != nil && doRetry(err, log) {
		log.Debug("Retrying in 5 seconds")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
		res, err = c.doCall(ctx, getContent(texts))
	}
	if err != nil {
		log.Error("Error getting Embeddings from Google", "error", err)
		return nil, err
	}
	if res == nil {
		return nil, errors.New("gemini returned no embeddings")
	}

	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, e := range res.Embeddings {
		vectors = append(vectors, e.Values)
	}
	return vectors, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
}

func getContent(texts []string) []*genai.Content {
	content := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		content = append(content, genai.NewContentFromText(t, genai.RoleUser))
	}
	return content
}

// doRetry reports whether err is a quota or availability error worth one more attempt.
func doRetry(err error, log *logger_i.Logger) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		log.Warn("Gemini API error", "code", apiErr.Code, "status", apiErr.Status)
		return apiErr.Code == 429 || apiErr.Code == 503
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == 429 || apiErrPtr.Code == 503
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.ResourceExhausted, codes.Unavailable:
			log.Warn("Gemini quota exceeded", "code", st.Code())
			return true
		}
	}
	return false
}
