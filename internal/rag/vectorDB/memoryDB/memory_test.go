package memoryDB

import (
	"context"
	"math"
	"testing"

	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/akolanti/ragops/internal/rag/vectorDB"
)

func point(id, doc string, v ...float32) vectorDB.Point {
	return vectorDB.Point{
		Chunk:        docModel.Chunk{Id: id, DocumentId: doc, Content: "content " + id},
		DocumentName: doc + ".txt",
		Vector:       v,
	}
}

func ids(matches []vectorDB.Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.ChunkId
	}
	return out
}

func TestQuery_OrdersByCosineSimilarity(t *testing.T) {
	x := New()
	ctx := context.Background()
	_ = x.Upsert(ctx, []vectorDB.Point{
		point("far", "d1", 0, 1),
		point("near", "d1", 1, 0.1),
		point("mid", "d2", 1, 1),
	})

	got, err := x.Query(ctx, []float32{1, 0}, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"near", "mid", "far"}
	for i := range want {
		if got[i].ChunkId != want[i] {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
	if math.Abs(got[1].Similarity-1/math.Sqrt2) > 1e-9 {
		t.Errorf("similarity of mid = %f", got[1].Similarity)
	}
	if got[2].Similarity != 0 {
		t.Errorf("orthogonal similarity = %f", got[2].Similarity)
	}
}

func TestQuery_TiesKeepInsertionOrder(t *testing.T) {
	x := New()
	ctx := context.Background()
	for _, id := range []string{"c", "a", "d", "b"} {
		_ = x.Upsert(ctx, []vectorDB.Point{point(id, "doc", 2, 2)})
	}
	// rewriting an existing chunk keeps its position
	_ = x.Upsert(ctx, []vectorDB.Point{point("c", "doc", 3, 3)})

	got, _ := x.Query(ctx, []float32{1, 1}, 4, nil)
	want := []string{"c", "a", "d", "b"}
	for i := range want {
		if got[i].ChunkId != want[i] {
			t.Fatalf("tie order = %v, want %v", ids(got), want)
		}
	}
}

func TestQuery_LimitAndFilter(t *testing.T) {
	x := New()
	ctx := context.Background()
	_ = x.Upsert(ctx, []vectorDB.Point{
		point("a1", "a", 1, 0),
		point("b1", "b", 1, 0),
		point("b2", "b", 0.9, 0.1),
		point("c1", "c", 1, 0),
	})

	tests := []struct {
		name   string
		k      int
		filter []string
		want   int
	}{
		{name: "zero k", k: 0, want: 0},
		{name: "limit", k: 2, want: 2},
		{name: "filter one doc", k: 10, filter: []string{"b"}, want: 2},
		{name: "filter two docs", k: 10, filter: []string{"a", "c"}, want: 2},
		{name: "unknown doc", k: 10, filter: []string{"z"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := x.Query(ctx, []float32{1, 0}, tt.k, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d matches (%v), want %d", len(got), ids(got), tt.want)
			}
			for _, m := range got {
				if len(tt.filter) > 0 && m.DocumentId != tt.filter[0] && (len(tt.filter) < 2 || m.DocumentId != tt.filter[1]) {
					t.Errorf("match %s escaped filter %v", m.ChunkId, tt.filter)
				}
			}
		})
	}
}

func TestDeleteDocument_Idempotent(t *testing.T) {
	x := New()
	ctx := context.Background()
	_ = x.Upsert(ctx, []vectorDB.Point{point("a1", "a", 1), point("a2", "a", 1), point("b1", "b", 1)})

	for i := 0; i < 2; i++ {
		if err := x.DeleteDocument(ctx, "a"); err != nil {
			t.Fatalf("delete #%d failed: %v", i+1, err)
		}
		if x.Len() != 1 {
			t.Fatalf("after delete #%d have %d points, want 1", i+1, x.Len())
		}
	}
	if err := x.DeleteDocument(ctx, "never-indexed"); err != nil {
		t.Errorf("deleting unknown document: %v", err)
	}
}
