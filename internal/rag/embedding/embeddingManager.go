package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/metrics"
	"github.com/akolanti/ragops/pkg/logger_i"
	"golang.org/x/time/rate"
)

// Provider is a vendor embedding endpoint. Every returned vector has the same dimension.
type Provider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// Embedder is what the ingest and retrieval paths depend on.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

var ErrProviderMismatch = errors.New("embedding provider returned an unexpected result shape")

// Batcher splits input into provider-sized batches and calls them one at a time.
type Batcher struct {
	provider  Provider
	batchSize int
	limiter   *rate.Limiter
	logger    *logger_i.Logger
}

// NewBatcher paces provider calls at requestsPerSecond; zero or less disables pacing.
func NewBatcher(provider Provider, batchSize int, requestsPerSecond float64) *Batcher {
	if batchSize <= 0 {
		batchSize = config.EmbeddingBatchSize
	}
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Batcher{
		provider:  provider,
		batchSize: batchSize,
		limiter:   limiter,
		logger:    logger_i.NewLogger("embedding_batcher"),
	}
}

// Embed returns one vector per text in input order. Any batch failure fails the call.
func (b *Batcher) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	log := b.logger.WithTrace(ctx, config.TRACE_ID_KEY)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	vectors := make([][]float32, 0, len(texts))
	dimension := -1
	for i := 0; i < len(texts); i += b.batchSize {
		end := i + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("embedding batch %d: %w", i/b.batchSize, err)
			}
		}

		batch, err := b.provider.EmbedBatch(ctx, texts[i:end])
		if err != nil {
			log.Error("Embedding batch failed", "batch", i/b.batchSize, "size", end-i, "error", err)
			return nil, fmt.Errorf("embedding batch %d: %w", i/b.batchSize, err)
		}
		if len(batch) != end-i {
			return nil, fmt.Errorf("embedding batch %d: got %d vectors for %d texts: %w", i/b.batchSize, len(batch), end-i, ErrProviderMismatch)
		}
		for _, v := range batch {
			if dimension == -1 {
				dimension = len(v)
			}
			if len(v) == 0 || len(v) != dimension {
				return nil, fmt.Errorf("embedding batch %d: inconsistent dimension %d (want %d): %w", i/b.batchSize, len(v), dimension, ErrProviderMismatch)
			}
		}
		vectors = append(vectors, batch...)
	}

	metrics.RecordEmbeddedTexts(len(texts))
	log.Debug("Embedded texts", "count", len(texts), "model", b.provider.Model(), "dimension", dimension)
	return vectors, nil
}

func (b *Batcher) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vectors, err := b.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (b *Batcher) Model() string {
	return b.provider.Model()
}
