package bootstrap

import (
	"context"
	"strings"
	"testing"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/events"
)

func offlineSettings() *config.Settings {
	s := config.Default()
	s.Redis.Addr = "127.0.0.1:1"
	s.Qdrant.InMemory = true
	s.Providers.Embedding = "openai"
	s.Providers.Generator = "openai"
	s.Providers.OpenAIAPIKey = "sk-test"
	s.Eval.DatasetDir = "testdata-missing"
	return s
}

func TestBuild_FallsBackToInProcessBackends(t *testing.T) {
	stack, err := Build(context.Background(), offlineSettings())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer stack.Close()

	if stack.Health.Store != "memory" || stack.Health.VectorIndex != "memory" {
		t.Errorf("health = %+v", stack.Health)
	}
	if stack.Health.RerankingEnabled {
		t.Error("reranking should be off without a rerank url")
	}
	if stack.Cache != nil {
		t.Error("semantic cache needs qdrant")
	}
	if stack.Traces == nil {
		t.Error("trace store should fall back to memory")
	}
	if _, ok := stack.Publisher.(events.Nop); !ok {
		t.Errorf("publisher = %T, want events.Nop", stack.Publisher)
	}

	jobs := stack.NewJobService()
	if cap(jobs.JobChannel) != config.BufferLimit {
		t.Errorf("job buffer = %d", cap(jobs.JobChannel))
	}

	datasets, err := stack.Evals.ListDatasets()
	if err != nil || len(datasets) != 0 {
		t.Errorf("datasets = %v, err = %v", datasets, err)
	}
}

func TestBuild_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *config.Settings)
		wantErr string
	}{
		{name: "unknown embedding", mutate: func(s *config.Settings) { s.Providers.Embedding = "cohere" }, wantErr: "unknown embedding provider"},
		{name: "unknown generator", mutate: func(s *config.Settings) { s.Providers.Generator = "llama" }, wantErr: "unknown generator provider"},
		{name: "missing key", mutate: func(s *config.Settings) { s.Providers.OpenAIAPIKey = "" }, wantErr: "api key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := offlineSettings()
			tt.mutate(s)
			_, err := Build(context.Background(), s)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
