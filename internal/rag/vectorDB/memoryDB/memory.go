package memoryDB

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/akolanti/ragops/internal/rag/vectorDB"
)

type entry struct {
	seq   uint64
	point vectorDB.Point
}

// Index is a process-local cosine index used when qdrant is not configured and in tests.
type Index struct {
	mu      sync.RWMutex
	points  map[string]entry
	nextSeq uint64
}

func New() *Index {
	return &Index{points: make(map[string]entry)}
}

func (x *Index) Name() string {
	return "memory"
}

// Upsert keeps the original insertion position of a chunk that is written again.
func (x *Index) Upsert(_ context.Context, points []vectorDB.Point) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, p := range points {
		if p.Chunk.Id == "" {
			return fmt.Errorf("point for document %s has no chunk id", p.Chunk.DocumentId)
		}
		existing, ok := x.points[p.Chunk.Id]
		seq := existing.seq
		if !ok {
			seq = x.nextSeq
			x.nextSeq++
		}
		p.Vector = slices.Clone(p.Vector)
		x.points[p.Chunk.Id] = entry{seq: seq, point: p}
	}
	return nil
}

func (x *Index) DeleteDocument(_ context.Context, documentId string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for id, e := range x.points {
		if e.point.Chunk.DocumentId == documentId {
			delete(x.points, id)
		}
	}
	return nil
}

func (x *Index) Query(_ context.Context, vector []float32, k int, documentIds []string) ([]vectorDB.Match, error) {
	if k <= 0 {
		return []vectorDB.Match{}, nil
	}

	x.mu.RLock()
	type scored struct {
		seq   uint64
		match vectorDB.Match
	}
	candidates := make([]scored, 0, len(x.points))
	for _, e := range x.points {
		if len(documentIds) > 0 && !slices.Contains(documentIds, e.point.Chunk.DocumentId) {
			continue
		}
		candidates = append(candidates, scored{seq: e.seq, match: toMatch(e.point, cosine(vector, e.point.Vector))})
	}
	x.mu.RUnlock()

	slices.SortFunc(candidates, func(a, b scored) int {
		switch {
		case a.match.Similarity > b.match.Similarity:
			return -1
		case a.match.Similarity < b.match.Similarity:
			return 1
		}
		return cmp.Compare(a.seq, b.seq)
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	matches := make([]vectorDB.Match, len(candidates))
	for i, c := range candidates {
		matches[i] = c.match
	}
	return matches, nil
}

// Len reports the number of stored vectors.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.points)
}

func toMatch(p vectorDB.Point, similarity float64) vectorDB.Match {
	return vectorDB.Match{
		ChunkId:      p.Chunk.Id,
		DocumentId:   p.Chunk.DocumentId,
		DocumentName: p.DocumentName,
		Content:      p.Chunk.Content,
		ChunkIndex:   p.Chunk.ChunkIndex,
		PageNumber:   p.Chunk.PageNumber,
		Similarity:   similarity,
	}
}

// cosine returns 0 for mismatched or zero vectors.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
