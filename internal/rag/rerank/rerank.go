package rerank

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/metrics"
	"github.com/akolanti/ragops/pkg/logger_i"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// RelevanceModel scores (query, document) pairs. Higher is more relevant; the range is unbounded.
type RelevanceModel interface {
	ScorePairs(ctx context.Context, query string, docs []string) ([]float64, error)
}

type Weights struct {
	Similarity float64
	Rerank     float64
}

func DefaultWeights() Weights {
	return Weights{Similarity: config.SimilarityBlendWeight, Rerank: config.RerankBlendWeight}
}

// Reranker blends vector similarity with a relevance model score. A nil model
// makes it a passthrough.
type Reranker struct {
	model   RelevanceModel
	weights Weights
	logger  *logger_i.Logger
}

func New(model RelevanceModel, weights Weights) *Reranker {
	log := logger_i.NewLogger("reranker")
	if model == nil {
		log.Warn("No relevance model configured, results keep vector similarity order")
	}
	return &Reranker{model: model, weights: weights, logger: log}
}

func (r *Reranker) Enabled() bool {
	return r.model != nil
}

// Rerank returns the same candidates with fused scores, highest first. Equal
// scores keep their incoming order.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []commonModels.RetrievalResult) ([]commonModels.RetrievalResult, error) {
	results := slices.Clone(candidates)
	if r.model == nil {
		metrics.RecordRerankDegraded()
		return results, nil
	}
	if len(results) == 0 {
		return results, nil
	}

	ctx, span := otel.Tracer("ragops/rerank").Start(ctx, "rerank.Rerank")
	defer span.End()
	span.SetAttributes(attribute.Int("candidates", len(results)))

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("rerank", time.Since(start)) }()

	docs := make([]string, len(results))
	for i, c := range results {
		docs[i] = c.Content
	}
	scores, err := r.model.ScorePairs(ctx, query, docs)
	if err != nil {
		span.RecordError(err)
		r.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Relevance model failed", "error", err)
		return nil, fmt.Errorf("rerank: %w", err)
	}
	if len(scores) != len(results) {
		return nil, fmt.Errorf("rerank: got %d scores for %d candidates", len(scores), len(results))
	}

	for i := range results {
		results[i].RelevanceScore = Fuse(results[i].RelevanceScore, scores[i], r.weights)
	}
	slices.SortStableFunc(results, func(a, b commonModels.RetrievalResult) int {
		switch {
		case a.RelevanceScore > b.RelevanceScore:
			return -1
		case a.RelevanceScore < b.RelevanceScore:
			return 1
		}
		return 0
	})
	return results, nil
}

func Fuse(similarity, relevance float64, w Weights) float64 {
	return w.Similarity*similarity + w.Rerank*relevance
}
