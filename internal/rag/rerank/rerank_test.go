package rerank

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/akolanti/ragops/internal/domain/commonModels"
)

type mockModel struct {
	OnScore func(ctx context.Context, query string, docs []string) ([]float64, error)
}

func (m *mockModel) ScorePairs(ctx context.Context, query string, docs []string) ([]float64, error) {
	return m.OnScore(ctx, query, docs)
}

func candidates() []commonModels.RetrievalResult {
	return []commonModels.RetrievalResult{
		{ChunkId: "a", Content: "alpha", RelevanceScore: 0.9},
		{ChunkId: "b", Content: "beta", RelevanceScore: 0.8},
		{ChunkId: "c", Content: "gamma", RelevanceScore: 0.7},
	}
}

func byContent(scores map[string]float64) *mockModel {
	return &mockModel{OnScore: func(_ context.Context, _ string, docs []string) ([]float64, error) {
		out := make([]float64, len(docs))
		for i, d := range docs {
			out[i] = scores[d]
		}
		return out, nil
	}}
}

func TestRerank_BlendsAndReorders(t *testing.T) {
	r := New(byContent(map[string]float64{"alpha": 0.1, "beta": 0.2, "gamma": 1.0}), DefaultWeights())

	got, err := r.Rerank(context.Background(), "q", candidates())
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		id    string
		score float64
	}{
		{"c", 0.3*0.7 + 0.7*1.0},
		{"b", 0.3*0.8 + 0.7*0.2},
		{"a", 0.3*0.9 + 0.7*0.1},
	}
	for i, w := range want {
		if got[i].ChunkId != w.id || math.Abs(got[i].RelevanceScore-w.score) > 1e-9 {
			t.Errorf("position %d = %s %.4f, want %s %.4f", i, got[i].ChunkId, got[i].RelevanceScore, w.id, w.score)
		}
	}
}

func TestRerank_PreservesCandidateSet(t *testing.T) {
	tests := []struct {
		name   string
		scores map[string]float64
	}{
		{"negative logits", map[string]float64{"alpha": -4.2, "beta": 3.1, "gamma": -0.5}},
		{"all equal", map[string]float64{"alpha": 2, "beta": 2, "gamma": 2}},
		{"large range", map[string]float64{"alpha": 1e6, "beta": -1e6, "gamma": 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := candidates()
			got, err := New(byContent(tt.scores), DefaultWeights()).Rerank(context.Background(), "q", in)
			if err != nil {
				t.Fatal(err)
			}
			seen := map[string]bool{}
			for _, r := range got {
				seen[r.ChunkId] = true
			}
			if len(got) != len(in) || !seen["a"] || !seen["b"] || !seen["c"] {
				t.Errorf("candidate set changed: %+v", got)
			}
			if in[0].RelevanceScore != 0.9 {
				t.Error("input slice was mutated")
			}
			for i := 1; i < len(got); i++ {
				if got[i].RelevanceScore > got[i-1].RelevanceScore {
					t.Errorf("not sorted descending at %d", i)
				}
			}
		})
	}
}

func TestRerank_TiesKeepIncomingOrder(t *testing.T) {
	in := []commonModels.RetrievalResult{
		{ChunkId: "x", Content: "same", RelevanceScore: 0.5},
		{ChunkId: "y", Content: "same", RelevanceScore: 0.5},
		{ChunkId: "z", Content: "same", RelevanceScore: 0.5},
	}
	got, _ := New(byContent(map[string]float64{"same": 0.4}), DefaultWeights()).Rerank(context.Background(), "q", in)
	if got[0].ChunkId != "x" || got[1].ChunkId != "y" || got[2].ChunkId != "z" {
		t.Errorf("tie order changed: %v %v %v", got[0].ChunkId, got[1].ChunkId, got[2].ChunkId)
	}
}

func TestRerank_WithoutModelIsPassthrough(t *testing.T) {
	r := New(nil, DefaultWeights())
	if r.Enabled() {
		t.Error("reranker without model reports enabled")
	}
	in := candidates()
	got, err := r.Rerank(context.Background(), "q", in)
	if err != nil {
		t.Fatalf("degraded mode must not error: %v", err)
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("passthrough changed position %d: %+v", i, got[i])
		}
	}
}

func TestRerank_ModelFailurePropagates(t *testing.T) {
	tests := []struct {
		name  string
		model *mockModel
	}{
		{"error", &mockModel{OnScore: func(context.Context, string, []string) ([]float64, error) {
			return nil, errors.New("connection refused")
		}}},
		{"short response", &mockModel{OnScore: func(context.Context, string, []string) ([]float64, error) {
			return []float64{1}, nil
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.model, DefaultWeights()).Rerank(context.Background(), "q", candidates()); err == nil {
				t.Error("expected provider failure")
			}
		})
	}
}

func TestRerank_EmptyCandidatesSkipModel(t *testing.T) {
	called := false
	m := &mockModel{OnScore: func(context.Context, string, []string) ([]float64, error) {
		called = true
		return nil, nil
	}}
	got, err := New(m, DefaultWeights()).Rerank(context.Background(), "q", nil)
	if err != nil || len(got) != 0 || called {
		t.Errorf("got %v, err %v, called %v", got, err, called)
	}
}
