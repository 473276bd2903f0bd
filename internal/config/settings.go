package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings is the runtime configuration. Zero values are filled from the
// const block above, so a missing file is a valid configuration.
type Settings struct {
	Server    ServerSettings    `yaml:"server"`
	Redis     RedisSettings     `yaml:"redis"`
	Qdrant    QdrantSettings    `yaml:"qdrant"`
	Providers ProviderSettings  `yaml:"providers"`
	Chunking  ChunkingSettings  `yaml:"chunking"`
	Retrieval RetrievalSettings `yaml:"retrieval"`
	Eval      EvalSettings      `yaml:"eval"`
	Nats      NatsSettings      `yaml:"nats"`
	LogLevel  string            `yaml:"log_level"`
}

type ServerSettings struct {
	ListenAddr   string `yaml:"listen_addr"`
	AuthToken    string `yaml:"auth_token"`
	NoAuthBypass bool   `yaml:"no_auth_bypass"`
	RateLimit    bool   `yaml:"rate_limit"`
}

type RedisSettings struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

type QdrantSettings struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	APIKey     string `yaml:"api_key"`
	UseTLS     bool   `yaml:"use_tls"`
	Collection string `yaml:"collection"`
	// InMemory swaps qdrant for the process-local index.
	InMemory bool `yaml:"in_memory"`
}

type ProviderSettings struct {
	// Embedding and Generator select "gemini" or "openai".
	Embedding         string  `yaml:"embedding"`
	Generator         string  `yaml:"generator"`
	GeminiAPIKey      string  `yaml:"gemini_api_key"`
	OpenAIAPIKey      string  `yaml:"openai_api_key"`
	EmbeddingModel    string  `yaml:"embedding_model"`
	GeneratorModel    string  `yaml:"generator_model"`
	Dimension         int32   `yaml:"dimension"`
	BatchSize         int     `yaml:"batch_size"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	RerankURL         string  `yaml:"rerank_url"`
	SemanticCache     bool    `yaml:"semantic_cache"`
}

type ChunkingSettings struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

type RetrievalSettings struct {
	TopKRetrieval    int     `yaml:"top_k_retrieval"`
	RerankTopK       int     `yaml:"rerank_top_k"`
	RelevanceFloor   float64 `yaml:"relevance_floor"`
	SimilarityWeight float64 `yaml:"similarity_weight"`
	RerankWeight     float64 `yaml:"rerank_weight"`
}

type EvalSettings struct {
	DatasetDir string         `yaml:"dataset_dir"`
	Scorer     ScorerSettings `yaml:"scorer"`
}

// ScorerSettings mirrors eval.ScorerConfig; zero fields keep the scorer defaults.
type ScorerSettings struct {
	GroundednessBase       float64  `yaml:"groundedness_base"`
	GroundednessCoverage   float64  `yaml:"groundedness_coverage"`
	HallucinationMinLength int      `yaml:"hallucination_min_length"`
	HallucinationThreshold int      `yaml:"hallucination_threshold"`
	TransitionalPhrases    []string `yaml:"transitional_phrases"`
	PassGroundedness       float64  `yaml:"pass_groundedness"`
	PassLatencyMillis      int64    `yaml:"pass_latency_ms"`
}

type NatsSettings struct {
	URL string `yaml:"url"`
}

// Load reads .env (if present), then the YAML file at path (if present),
// then applies environment overrides and defaults.
func Load(path string) (*Settings, error) {
	_ = godotenv.Load()

	var s Settings
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading settings %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return nil, fmt.Errorf("parsing settings %s: %w", path, err)
			}
		}
	}
	applyEnv(&s)
	applyDefaults(&s)
	if s.Chunking.Overlap >= s.Chunking.ChunkSize {
		return nil, fmt.Errorf("chunking.overlap (%d) must be smaller than chunking.chunk_size (%d)", s.Chunking.Overlap, s.Chunking.ChunkSize)
	}
	return &s, nil
}

// SettingsPath is RAGOPS_CONFIG when set, otherwise config.yaml.
func SettingsPath() string {
	if p := os.Getenv("RAGOPS_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

// Default returns settings built only from compiled defaults.
func Default() *Settings {
	var s Settings
	applyDefaults(&s)
	return &s
}

func applyEnv(s *Settings) {
	setString(&s.Redis.Addr, "REDIS_ADDR")
	setString(&s.Redis.Password, "REDIS_PASSWORD")
	setString(&s.Qdrant.Host, "QDRANT_HOST")
	if port, err := strconv.Atoi(os.Getenv("QDRANT_PORT")); err == nil {
		s.Qdrant.Port = port
	}
	setString(&s.Qdrant.APIKey, "QDRANT_API_KEY")
	setString(&s.Providers.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&s.Providers.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&s.Providers.RerankURL, "RERANK_URL")
	setString(&s.Nats.URL, "NATS_URL")
	setString(&s.Server.AuthToken, "AUTH_TOKEN")
	setString(&s.LogLevel, "LOG_LEVEL")
	if v, err := strconv.ParseBool(os.Getenv("NO_AUTH_BYPASS")); err == nil {
		s.Server.NoAuthBypass = v
	}
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func applyDefaults(s *Settings) {
	if s.Server.ListenAddr == "" {
		s.Server.ListenAddr = ServerListenAddr
	}
	if s.Redis.Addr == "" {
		s.Redis.Addr = RedisAddr
	}
	if s.Qdrant.Host == "" {
		s.Qdrant.Host = QdrantHost
	}
	if s.Qdrant.Port == 0 {
		s.Qdrant.Port = QdrantGrpcPort
	}
	if s.Qdrant.Collection == "" {
		s.Qdrant.Collection = EmbeddingCollectionName
	}
	if s.Providers.Embedding == "" {
		s.Providers.Embedding = "gemini"
	}
	if s.Providers.Generator == "" {
		s.Providers.Generator = s.Providers.Embedding
	}
	if s.Providers.EmbeddingModel == "" {
		s.Providers.EmbeddingModel = GoogleEmbeddingModel
		if strings.EqualFold(s.Providers.Embedding, "openai") {
			s.Providers.EmbeddingModel = OpenAIEmbeddingModel
		}
	}
	if s.Providers.GeneratorModel == "" {
		s.Providers.GeneratorModel = GeminiModelName
		if strings.EqualFold(s.Providers.Generator, "openai") {
			s.Providers.GeneratorModel = OpenAIModelName
		}
	}
	if s.Providers.Dimension == 0 {
		s.Providers.Dimension = EmbeddingOutputDimensionality
	}
	if s.Providers.BatchSize == 0 {
		s.Providers.BatchSize = EmbeddingBatchSize
	}
	if s.Providers.RequestsPerSecond == 0 {
		s.Providers.RequestsPerSecond = EmbeddingRequestsPerSecond
	}
	if s.Chunking.ChunkSize == 0 {
		s.Chunking.ChunkSize = DefaultChunkSize
	}
	if s.Chunking.Overlap == 0 {
		s.Chunking.Overlap = DefaultChunkOverlap
	}
	if s.Retrieval.TopKRetrieval == 0 {
		s.Retrieval.TopKRetrieval = DefaultTopKRetrieval
	}
	if s.Retrieval.RerankTopK == 0 {
		s.Retrieval.RerankTopK = DefaultRerankTopK
	}
	if s.Retrieval.RelevanceFloor == 0 {
		s.Retrieval.RelevanceFloor = RelevanceFloor
	}
	if s.Retrieval.SimilarityWeight == 0 && s.Retrieval.RerankWeight == 0 {
		s.Retrieval.SimilarityWeight = SimilarityBlendWeight
		s.Retrieval.RerankWeight = RerankBlendWeight
	}
	if s.Eval.DatasetDir == "" {
		s.Eval.DatasetDir = EvalDatasetDir
	}
	if s.LogLevel == "" {
		s.LogLevel = "debug"
		if IS_PROD {
			s.LogLevel = "info"
		}
	}
}
