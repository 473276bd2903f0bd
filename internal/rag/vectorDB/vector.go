package vectorDB

import (
	"context"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/docModel"
)

// Point is an embedded chunk plus the metadata needed to cite it.
type Point struct {
	Chunk        docModel.Chunk
	DocumentName string
	Vector       []float32
}

// Match is a chunk reference with its cosine similarity (1 - cosine distance).
type Match struct {
	ChunkId      string
	DocumentId   string
	DocumentName string
	Content      string
	ChunkIndex   int
	PageNumber   *int
	Similarity   float64
}

// Index is the only way the rest of the service touches stored vectors.
type Index interface {
	Upsert(ctx context.Context, points []Point) error
	// DeleteDocument removes every vector of a document. Deleting an unknown document is not an error.
	DeleteDocument(ctx context.Context, documentId string) error
	// Query returns at most k matches, highest similarity first. A non-empty documentIds restricts the search.
	Query(ctx context.Context, vector []float32, k int, documentIds []string) ([]Match, error)
	Name() string
}

// AnswerCache stores generated answers keyed by question embedding.
type AnswerCache interface {
	GetCachedAnswer(ctx context.Context, queryVector []float32) (commonModels.AgentResponse, bool, error)
	SaveToCache(ctx context.Context, id string, vector []float32, response commonModels.AgentResponse) error
	// InvalidateDocument removes cached answers citing the document.
	InvalidateDocument(ctx context.Context, documentId string) error
}

func (m Match) ToResult() commonModels.RetrievalResult {
	return commonModels.RetrievalResult{
		ChunkId:        m.ChunkId,
		DocumentId:     m.DocumentId,
		DocumentName:   m.DocumentName,
		Content:        m.Content,
		ChunkIndex:     m.ChunkIndex,
		PageNumber:     m.PageNumber,
		RelevanceScore: m.Similarity,
	}
}
