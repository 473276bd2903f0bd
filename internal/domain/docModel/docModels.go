package docModel

import (
	"context"
	"time"

	"github.com/akolanti/ragops/internal/domain/commonModels"
)

type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	Id               string               `json:"id"`
	Name             string               `json:"name"`
	OriginalFilename string               `json:"original_filename"`
	ContentType      commonModels.DocType `json:"content_type"`
	FileSize         int64                `json:"file_size"`
	// RawText is the page-marked extraction kept for reprocessing.
	RawText      string         `json:"raw_text,omitempty"`
	Status       DocumentStatus `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	ChunkCount   int            `json:"chunk_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Chunk offsets are half-open into the normalized document text.
type Chunk struct {
	Id         string    `json:"id"`
	DocumentId string    `json:"document_id"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
	StartChar  int       `json:"start_char"`
	EndChar    int       `json:"end_char"`
	PageNumber *int      `json:"page_number,omitempty"`
	Embedding  []float32 `json:"-"`
}

type ListFilter struct {
	Status DocumentStatus
	Page   commonModels.Page
}

// DocumentStore owns documents and their chunks. Deleting a document deletes its chunks.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, error)
	ListDocuments(ctx context.Context, filter ListFilter) ([]Document, int, error)
	DeleteDocument(ctx context.Context, id string) error

	// ReplaceChunks drops the document's existing chunks and stores the new set.
	ReplaceChunks(ctx context.Context, documentId string, chunks []Chunk) error
	GetChunks(ctx context.Context, documentId string) ([]Chunk, error)
	GetChunk(ctx context.Context, chunkId string) (Chunk, error)
}
