package retrieval

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/metrics"
	"github.com/akolanti/ragops/internal/rag/embedding"
	"github.com/akolanti/ragops/internal/rag/rerank"
	"github.com/akolanti/ragops/internal/rag/vectorDB"
	"github.com/akolanti/ragops/pkg/logger_i"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Options struct {
	// TopKRetrieval is how many candidates the index returns for reranking.
	TopKRetrieval int
	// RerankTopK caps the final result length.
	RerankTopK int
}

type Service interface {
	Search(ctx context.Context, query string, topK int, documentIds []string) ([]commonModels.RetrievalResult, error)
	SearchVector(ctx context.Context, query string, vector []float32, topK int, documentIds []string) ([]commonModels.RetrievalResult, error)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
	RerankingEnabled() bool
}

type service struct {
	embedder embedding.Embedder
	index    vectorDB.Index
	reranker *rerank.Reranker
	opts     Options
	logger   *logger_i.Logger
}

func NewService(embedder embedding.Embedder, index vectorDB.Index, reranker *rerank.Reranker, opts Options) Service {
	if opts.TopKRetrieval <= 0 {
		opts.TopKRetrieval = config.DefaultTopKRetrieval
	}
	if opts.RerankTopK <= 0 {
		opts.RerankTopK = config.DefaultRerankTopK
	}
	if reranker == nil {
		reranker = rerank.New(nil, rerank.DefaultWeights())
	}
	return &service{
		embedder: embedder,
		index:    index,
		reranker: reranker,
		opts:     opts,
		logger:   logger_i.NewLogger("retrieval"),
	}
}

func (s *service) RerankingEnabled() bool {
	return s.reranker.Enabled()
}

func (s *service) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("query_embedding", time.Since(start)) }()

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return vector, nil
}

// Search returns at most min(topK, RerankTopK) results, highest score first.
// topK <= 0 means RerankTopK. The relevance floor is not applied here.
func (s *service) Search(ctx context.Context, query string, topK int, documentIds []string) ([]commonModels.RetrievalResult, error) {
	vector, err := s.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.SearchVector(ctx, query, vector, topK, documentIds)
}

func (s *service) SearchVector(ctx context.Context, query string, vector []float32, topK int, documentIds []string) ([]commonModels.RetrievalResult, error) {
	log := s.logger.WithTrace(ctx, config.TRACE_ID_KEY)
	ctx, span := otel.Tracer("ragops/retrieval").Start(ctx, "retrieval.Search")
	defer span.End()

	limit := s.opts.RerankTopK
	if topK > 0 && topK < limit {
		limit = topK
	}

	candidates, err := s.executeVectorSearchStep(ctx, vector, documentIds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ranked, err := s.reranker.Rerank(ctx, query, candidates)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	span.SetAttributes(
		attribute.Int("candidates", len(candidates)),
		attribute.Int("results", len(ranked)),
		attribute.Bool("reranked", s.reranker.Enabled()),
	)
	log.Debug("Search complete", "candidates", len(candidates), "results", len(ranked), "reranked", s.reranker.Enabled())
	return ranked, nil
}

func (s *service) executeVectorSearchStep(ctx context.Context, vector []float32, documentIds []string) ([]commonModels.RetrievalResult, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	matches, err := s.index.Query(ctx, vector, s.opts.TopKRetrieval, documentIds)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	results := make([]commonModels.RetrievalResult, len(matches))
	for i, m := range matches {
		results[i] = m.ToResult()
	}
	return results, nil
}

// HasUsableContext reports whether at least one result reaches floor.
func HasUsableContext(results []commonModels.RetrievalResult, floor float64) bool {
	for _, r := range results {
		if r.RelevanceScore >= floor {
			return true
		}
	}
	return false
}
