package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5
	CacheSimilarityCutoff           = 0.97
	ServiceVersion                  = "0.3.0"

	//chunking
	DefaultChunkSize    = 512
	DefaultChunkOverlap = 50

	//embeddings
	EmbeddingOutputDimensionality int32 = 1536
	EmbeddingBatchSize                  = 100
	EmbeddingRequestsPerSecond          = 5 //0 disables pacing
	EmbeddingCollectionName             = "ragops_documents"
	GoogleEmbeddingModel                = "gemini-embedding-001"
	OpenAIEmbeddingModel                = "text-embedding-3-small"

	//retrieval
	DefaultTopKRetrieval  = 20 //candidates handed to the reranker
	DefaultRerankTopK     = 5
	RelevanceFloor        = 0.3
	SimilarityBlendWeight = 0.3
	RerankBlendWeight     = 0.7
	CitationContentLimit  = 500

	//reranker (TEI compatible cross-encoder)
	RerankTimeout = 15 * time.Second

	//workers
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	QueryJobTimeout                 = 60 * time.Second
	IngestJobTimeout                = 10 * time.Minute
	EvalJobTimeout                  = 2 * time.Hour

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 60 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//upload
	MaxUploadSize = 32 << 20
	UploadDir     = "temporary_data"

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = "localhost"
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1     //2-5 is preferred for prod according to documentation
	SemanticCacheCollection = "semantic-cache"

	//llm
	GeminiModelName          = "gemini-2.5-flash-lite-preview-09-2025"
	OpenAIModelName          = "gpt-4o-mini"
	ModelTemperature float32 = 0.3
	ModelMaxTokens           = 1500
	ModelContext             = `You are a helpful assistant that answers questions based on the provided context.

IMPORTANT RULES:
1. ONLY answer questions using information from the provided context.
2. ALWAYS cite your sources using [n] notation where n is the source number.
3. If the context doesn't contain enough information to answer the question, say so clearly.
4. Never make up or infer information not present in the context.

If you cannot answer the question from the provided context:
- Start with "I cannot answer this question based on the available documents."
- Explain what information would be needed`

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisMessageStore  = 1
	RedisDocumentStore = 2
	RedisEvalStore     = 3
	RedisTraceStore    = 4

	//redis timeouts
	RedisJobStoreTTL     = 24 * time.Hour
	RedisMessageStoreTTL = 24 * time.Hour
	RedisTraceStoreTTL   = 7 * 24 * time.Hour
	ChatHistoryLength    = 5

	//evaluation
	EvalDatasetDir        = "eval_datasets"
	EvalPassGroundedness  = 0.5
	EvalPassLatencyMillis = 4000

	//nats subjects
	NatsSubjectPrefix = "ragops"
)
