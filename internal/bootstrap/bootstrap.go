package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/data/redisStore"
	"github.com/akolanti/ragops/internal/data/store"
	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/akolanti/ragops/internal/domain/evalModel"
	"github.com/akolanti/ragops/internal/domain/jobModel"
	"github.com/akolanti/ragops/internal/domain/traceModel"
	"github.com/akolanti/ragops/internal/eval"
	"github.com/akolanti/ragops/internal/events"
	"github.com/akolanti/ragops/internal/handlers"
	"github.com/akolanti/ragops/internal/job"
	"github.com/akolanti/ragops/internal/rag"
	"github.com/akolanti/ragops/internal/rag/agent"
	"github.com/akolanti/ragops/internal/rag/embedding"
	"github.com/akolanti/ragops/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/ragops/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/ragops/internal/rag/ingest"
	"github.com/akolanti/ragops/internal/rag/llm"
	"github.com/akolanti/ragops/internal/rag/llm/gemini"
	"github.com/akolanti/ragops/internal/rag/llm/openaiLLM"
	"github.com/akolanti/ragops/internal/rag/rerank"
	"github.com/akolanti/ragops/internal/rag/rerank/crossEncoder"
	"github.com/akolanti/ragops/internal/rag/retrieval"
	"github.com/akolanti/ragops/internal/rag/vectorDB"
	"github.com/akolanti/ragops/internal/rag/vectorDB/memoryDB"
	"github.com/akolanti/ragops/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/ragops/pkg/logger_i"
)

var logger = logger_i.NewLogger("bootstrap")

// Stack is every long-lived component, wired from Settings.
type Stack struct {
	Settings *config.Settings

	JobStore     jobModel.JobStore
	MessageStore jobModel.MessageStore
	Documents    docModel.DocumentStore
	EvalStore    evalModel.EvalStore
	Traces       traceModel.TraceStore

	Index     vectorDB.Index
	Cache     vectorDB.AnswerCache
	Retrieval retrieval.Service
	Agent     agent.Agent
	Ingest    ingest.Service
	Datasets  *eval.Datasets
	Runner    *eval.Runner
	Evals     eval.Service
	Rag       rag.Service
	Publisher events.Publisher

	Health handlers.HealthInfo

	closers []func()
}

// Build connects to every configured backend. Redis and qdrant fall back to
// in-process stores when unreachable; a missing provider key is fatal.
func Build(ctx context.Context, settings *config.Settings) (*Stack, error) {
	s := &Stack{Settings: settings}

	storeName, err := s.buildStores(ctx)
	if err != nil {
		return nil, err
	}

	embedder, err := newEmbeddingProvider(ctx, settings.Providers)
	if err != nil {
		return nil, err
	}
	generator, err := newGenerator(ctx, settings.Providers)
	if err != nil {
		return nil, err
	}

	s.buildIndex(ctx)
	s.Publisher = s.buildPublisher()

	batcher := embedding.NewBatcher(embedder, settings.Providers.BatchSize, settings.Providers.RequestsPerSecond)
	reranker := rerank.New(newRelevanceModel(ctx, settings.Providers.RerankURL), rerank.Weights{
		Similarity: settings.Retrieval.SimilarityWeight,
		Rerank:     settings.Retrieval.RerankWeight,
	})
	s.Retrieval = retrieval.NewService(batcher, s.Index, reranker, retrieval.Options{
		TopKRetrieval: settings.Retrieval.TopKRetrieval,
		RerankTopK:    settings.Retrieval.RerankTopK,
	})

	agentOpts := agent.DefaultOptions()
	agentOpts.MaxSources = settings.Retrieval.RerankTopK
	agentOpts.RelevanceFloor = settings.Retrieval.RelevanceFloor
	s.Agent = agent.New(s.Retrieval, generator, agentOpts)

	s.Ingest = ingest.NewService(s.Documents, batcher, s.Index, s.Publisher, ingest.Options{
		ChunkSize: settings.Chunking.ChunkSize,
		Overlap:   settings.Chunking.Overlap,
		Cache:     s.Cache,
	})

	scorer := eval.NewScorer(eval.ScorerConfigFrom(settings.Eval.Scorer))
	s.Datasets = eval.NewDatasets(settings.Eval.DatasetDir)
	s.Runner = eval.NewRunner(s.EvalStore, s.Agent, s.Datasets, scorer, s.Publisher, s.Traces)
	s.Evals = eval.NewService(s.EvalStore, s.Datasets)

	s.Rag = rag.NewService(rag.Dependencies{
		Retrieval: s.Retrieval,
		Agent:     s.Agent,
		Cache:     s.Cache,
		Ingest:    s.Ingest,
		Evals:     s.Runner,
		Traces:    s.Traces,
	})

	s.Health.RerankingEnabled = s.Retrieval.RerankingEnabled()
	s.Health.VectorIndex = s.Index.Name()
	s.Health.Store = storeName

	logger.Info("Stack ready",
		"store", storeName,
		"vectorIndex", s.Index.Name(),
		"embedding", embedder.Model(),
		"generator", generator.Model(),
		"reranking", s.Health.RerankingEnabled,
		"semanticCache", s.Cache != nil)
	return s, nil
}

// NewJobService builds the queue the API and the worker pool share.
func (s *Stack) NewJobService() *job.Service {
	return job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, config.BufferLimit),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          s.JobStore,
		MessageStore:      s.MessageStore,
	})
}

// Close releases what Build opened, in reverse order.
func (s *Stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func (s *Stack) buildStores(ctx context.Context) (string, error) {
	opts := redisStore.Options{Addr: s.Settings.Redis.Addr, Password: s.Settings.Redis.Password}
	jobs := redisStore.GetRedisStore(ctx, opts, config.RedisJobStore)
	messages := redisStore.GetRedisStore(ctx, opts, config.RedisMessageStore)
	documents := redisStore.GetRedisStore(ctx, opts, config.RedisDocumentStore)
	evals := redisStore.GetRedisStore(ctx, opts, config.RedisEvalStore)
	traces := redisStore.GetRedisStore(ctx, opts, config.RedisTraceStore)

	if jobs != nil && messages != nil && documents != nil && evals != nil && traces != nil {
		s.JobStore = store.NewRedisJobStore(jobs)
		s.MessageStore = store.NewRedisSessionStore(messages)
		s.Documents = store.NewRedisDocumentStore(documents)
		s.EvalStore = store.NewRedisEvalStore(evals)
		s.Traces = store.NewRedisTraceStore(traces)
		s.Health.Ping = jobs.Ping
		return "redis", nil
	}

	if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
		return "", fmt.Errorf("redis at %s is offline and in-memory fallback is disabled", opts.Addr)
	}
	logger.Warn("Redis stores are offline, using in-memory stores", "addr", opts.Addr)
	s.JobStore = store.InitInMemoryJobStore()
	s.MessageStore = store.InitInMemorySessionStore()
	s.Documents = store.InitInMemoryDocumentStore()
	s.EvalStore = store.InitInMemoryEvalStore()
	s.Traces = store.InitInMemoryTraceStore()
	return "memory", nil
}

func (s *Stack) buildIndex(ctx context.Context) {
	q := s.Settings.Qdrant
	if q.InMemory {
		s.Index = memoryDB.New()
		return
	}

	holder := qdrantDB.GetQuadrantClient(ctx, qdrantDB.Options{
		Host:          q.Host,
		Port:          q.Port,
		APIKey:        q.APIKey,
		UseTLS:        q.UseTLS,
		Collection:    q.Collection,
		Dimension:     uint64(s.Settings.Providers.Dimension),
		SemanticCache: s.Settings.Providers.SemanticCache,
	})
	if holder == nil {
		logger.Warn("Qdrant unavailable, vectors are kept in memory for this process only")
		s.Index = memoryDB.New()
		return
	}
	s.Index = holder
	if s.Settings.Providers.SemanticCache {
		s.Cache = holder
	}
}

func (s *Stack) buildPublisher() events.Publisher {
	if s.Settings.Nats.URL == "" {
		return events.Nop{}
	}
	publisher, err := events.Connect(s.Settings.Nats.URL, config.NatsSubjectPrefix)
	if err != nil {
		logger.Warn("NATS unavailable, lifecycle events are disabled", "error", err)
		return events.Nop{}
	}
	s.closers = append(s.closers, func() {
		if err := publisher.Drain(); err != nil {
			logger.Warn("Draining NATS connection failed", "error", err)
		}
	})
	return publisher
}

func newEmbeddingProvider(ctx context.Context, p config.ProviderSettings) (embedding.Provider, error) {
	switch strings.ToLower(p.Embedding) {
	case "openai":
		return openaiEmbedding.NewProvider(p.EmbeddingModel, p.OpenAIAPIKey)
	case "gemini", "google":
		return googleEmbedding.NewProvider(ctx, p.EmbeddingModel, p.GeminiAPIKey, p.Dimension)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", p.Embedding)
	}
}

func newGenerator(ctx context.Context, p config.ProviderSettings) (llm.Provider, error) {
	switch strings.ToLower(p.Generator) {
	case "openai":
		return openaiLLM.NewProvider(p.GeneratorModel, p.OpenAIAPIKey)
	case "gemini", "google":
		return gemini.NewProvider(ctx, p.GeneratorModel, p.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("unknown generator provider %q", p.Generator)
	}
}

// newRelevanceModel returns nil when no reranker is configured or reachable,
// which puts retrieval in similarity-only mode.
func newRelevanceModel(ctx context.Context, url string) rerank.RelevanceModel {
	if url == "" {
		return nil
	}
	model, err := crossEncoder.New(ctx, url)
	if err != nil {
		logger.Warn("Reranker unavailable, using vector similarity only", "url", url, "error", err)
		return nil
	}
	return model
}
