package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/akolanti/ragops/internal/rag/rerank"
	"github.com/akolanti/ragops/internal/rag/vectorDB"
	"github.com/akolanti/ragops/internal/rag/vectorDB/memoryDB"
)

type mockEmbedder struct {
	OnEmbedQuery func(ctx context.Context, q string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.EmbedQuery(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) EmbedQuery(ctx context.Context, q string) ([]float32, error) {
	return m.OnEmbedQuery(ctx, q)
}

type mockIndex struct {
	OnQuery func(ctx context.Context, v []float32, k int, ids []string) ([]vectorDB.Match, error)
}

func (m *mockIndex) Upsert(context.Context, []vectorDB.Point) error   { return nil }
func (m *mockIndex) DeleteDocument(context.Context, string) error     { return nil }
func (m *mockIndex) Name() string                                     { return "mock" }
func (m *mockIndex) Query(ctx context.Context, v []float32, k int, ids []string) ([]vectorDB.Match, error) {
	return m.OnQuery(ctx, v, k, ids)
}

type mockModel struct {
	OnScore func(ctx context.Context, q string, docs []string) ([]float64, error)
}

func (m *mockModel) ScorePairs(ctx context.Context, q string, docs []string) ([]float64, error) {
	return m.OnScore(ctx, q, docs)
}

func seededIndex(t *testing.T) *memoryDB.Index {
	t.Helper()
	x := memoryDB.New()
	vectors := map[string][]float32{
		"pto":      {1, 0, 0},
		"pto-2":    {0.9, 0.1, 0},
		"benefits": {0.5, 0.5, 0},
		"security": {0, 1, 0},
		"travel":   {0, 0, 1},
	}
	i := 0
	for _, id := range []string{"pto", "pto-2", "benefits", "security", "travel"} {
		doc := "handbook"
		if id == "security" || id == "travel" {
			doc = "it-policy"
		}
		_ = x.Upsert(context.Background(), []vectorDB.Point{{
			Chunk:        docModel.Chunk{Id: id, DocumentId: doc, ChunkIndex: i, Content: id + " text"},
			DocumentName: doc + ".pdf",
			Vector:       vectors[id],
		}})
		i++
	}
	return x
}

func fixedQuery(v ...float32) *mockEmbedder {
	return &mockEmbedder{OnEmbedQuery: func(context.Context, string) ([]float32, error) { return v, nil }}
}

func TestSearch_WithoutRerankerReturnsSimilarityOrder(t *testing.T) {
	svc := NewService(fixedQuery(1, 0, 0), seededIndex(t), nil, Options{TopKRetrieval: 20, RerankTopK: 3})
	if svc.RerankingEnabled() {
		t.Error("expected degraded mode")
	}

	got, err := svc.Search(context.Background(), "how much pto", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d results, want RerankTopK=3", len(got))
	}
	if got[0].ChunkId != "pto" || got[1].ChunkId != "pto-2" || got[2].ChunkId != "benefits" {
		t.Errorf("unexpected order %s %s %s", got[0].ChunkId, got[1].ChunkId, got[2].ChunkId)
	}
	if got[0].RelevanceScore < 0.999 || got[0].DocumentName != "handbook.pdf" {
		t.Errorf("result fields not carried: %+v", got[0])
	}
}

func TestSearch_TopKBounds(t *testing.T) {
	svc := NewService(fixedQuery(1, 0, 0), seededIndex(t), nil, Options{TopKRetrieval: 20, RerankTopK: 4})
	tests := []struct {
		topK int
		want int
	}{
		{0, 4}, {-1, 4}, {2, 2}, {10, 4},
	}
	for _, tt := range tests {
		got, err := svc.Search(context.Background(), "q", tt.topK, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != tt.want {
			t.Errorf("topK=%d returned %d, want %d", tt.topK, len(got), tt.want)
		}
	}
}

func TestSearch_RerankerReordersCandidatePool(t *testing.T) {
	var poolSize int
	model := &mockModel{OnScore: func(_ context.Context, _ string, docs []string) ([]float64, error) {
		poolSize = len(docs)
		out := make([]float64, len(docs))
		for i, d := range docs {
			if d == "travel text" {
				out[i] = 10
			}
		}
		return out, nil
	}}
	svc := NewService(fixedQuery(1, 0, 0), seededIndex(t), rerank.New(model, rerank.DefaultWeights()), Options{TopKRetrieval: 5, RerankTopK: 2})

	got, err := svc.Search(context.Background(), "q", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if poolSize != 5 {
		t.Errorf("reranker saw %d candidates, want TopKRetrieval=5", poolSize)
	}
	if got[0].ChunkId != "travel" {
		t.Errorf("reranker did not promote travel: %s", got[0].ChunkId)
	}
}

func TestSearch_DocumentFilterPassedToIndex(t *testing.T) {
	svc := NewService(fixedQuery(1, 0, 0), seededIndex(t), nil, Options{})
	got, err := svc.Search(context.Background(), "q", 10, []string{"it-policy"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results", len(got))
	}
	for _, r := range got {
		if r.DocumentId != "it-policy" {
			t.Errorf("result from %s escaped the filter", r.DocumentId)
		}
	}
}

func TestSearch_ProviderFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		embedder *mockEmbedder
		index    vectorDB.Index
		reranker *rerank.Reranker
	}{
		{
			name:     "embedding",
			embedder: &mockEmbedder{OnEmbedQuery: func(context.Context, string) ([]float32, error) { return nil, boom }},
			index:    seededIndex(t),
		},
		{
			name:     "index",
			embedder: fixedQuery(1, 0, 0),
			index: &mockIndex{OnQuery: func(context.Context, []float32, int, []string) ([]vectorDB.Match, error) {
				return nil, boom
			}},
		},
		{
			name:     "reranker",
			embedder: fixedQuery(1, 0, 0),
			index:    seededIndex(t),
			reranker: rerank.New(&mockModel{OnScore: func(context.Context, string, []string) ([]float64, error) { return nil, boom }}, rerank.DefaultWeights()),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.embedder, tt.index, tt.reranker, Options{})
			if _, err := svc.Search(context.Background(), "q", 0, nil); !errors.Is(err, boom) {
				t.Errorf("error %v does not wrap provider failure", err)
			}
		})
	}
}

func TestHasUsableContext(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   bool
	}{
		{"empty", nil, false},
		{"all below floor", []float64{0.29, 0.1, -2}, false},
		{"one at floor", []float64{0.1, 0.3}, true},
		{"high", []float64{0.92}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]commonModels.RetrievalResult, len(tt.scores))
			for i, s := range tt.scores {
				results[i].RelevanceScore = s
			}
			if got := HasUsableContext(results, 0.3); got != tt.want {
				t.Errorf("HasUsableContext = %v, want %v", got, tt.want)
			}
		})
	}
}
