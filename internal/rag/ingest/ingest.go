package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/akolanti/ragops/internal/events"
	"github.com/akolanti/ragops/internal/metrics"
	"github.com/akolanti/ragops/internal/rag/embedding"
	"github.com/akolanti/ragops/internal/rag/vectorDB"
	"github.com/akolanti/ragops/pkg/logger_i"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var logger = logger_i.NewLogger("document_ingestion")

var ErrNoStoredContent = errors.New("no stored content available for reprocessing")

// Service owns the document write path: it is the only caller that mutates the vector index.
type Service interface {
	CreateDocument(ctx context.Context, doc docModel.Document) (docModel.Document, error)
	ProcessDocument(ctx context.Context, documentId string, filePath string) error
	PrepareReprocess(ctx context.Context, documentId string) (docModel.Document, error)
	DeleteDocument(ctx context.Context, documentId string) error
}

type Options struct {
	ChunkSize int
	Overlap   int
	// Cache, when set, loses every answer citing a document whose vectors change.
	Cache vectorDB.AnswerCache
}

type service struct {
	store     docModel.DocumentStore
	embedder  embedding.Embedder
	index     vectorDB.Index
	publisher events.Publisher
	opts      Options
	logger    *logger_i.Logger
}

func NewService(store docModel.DocumentStore, embedder embedding.Embedder, index vectorDB.Index, publisher events.Publisher, opts Options) Service {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = config.DefaultChunkSize
	}
	if opts.Overlap < 0 {
		opts.Overlap = config.DefaultChunkOverlap
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{
		store:     store,
		embedder:  embedder,
		index:     index,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

func (s *service) CreateDocument(ctx context.Context, doc docModel.Document) (docModel.Document, error) {
	now := time.Now().UTC()
	doc.Status = docModel.StatusPending
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return doc, fmt.Errorf("saving document %s: %w", doc.Id, err)
	}
	return doc, nil
}

// ProcessDocument extracts (when filePath is set) or reuses the stored raw text,
// then re-chunks, embeds and indexes it. Existing chunks and vectors are replaced.
// Any failure leaves the document failed with the error message.
func (s *service) ProcessDocument(ctx context.Context, documentId string, filePath string) error {
	log := s.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("documentId", documentId)
	ctx, span := otel.Tracer("ragops/ingest").Start(ctx, "ingest.ProcessDocument")
	defer span.End()

	doc, err := s.store.GetDocument(ctx, documentId)
	if err != nil {
		return err
	}

	doc.Status = docModel.StatusProcessing
	doc.ErrorMessage = ""
	doc.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("marking document processing: %w", err)
	}

	count, err := s.process(ctx, log, &doc, filePath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return s.fail(ctx, log, doc, err)
	}

	doc.Status = docModel.StatusCompleted
	doc.ChunkCount = count
	doc.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("marking document completed: %w", err)
	}
	span.SetAttributes(attribute.Int("chunks", count))

	metrics.RecordDocumentIngested(string(docModel.StatusCompleted))
	s.publish(ctx, log, events.DocumentCompleted, events.DocumentEvent{
		DocumentId: doc.Id,
		Status:     string(doc.Status),
		ChunkCount: count,
		At:         doc.UpdatedAt,
	})
	log.Info("Processed document", "chunks", count)
	return nil
}

func (s *service) process(ctx context.Context, log *logger_i.Logger, doc *docModel.Document, filePath string) (int, error) {
	if filePath != "" {
		text, err := s.executeExtractStep(log, doc.ContentType, filePath)
		if err != nil {
			return 0, err
		}
		doc.RawText = text
	}
	if doc.RawText == "" {
		return 0, ErrNoStoredContent
	}

	chunks := Chunk(doc.RawText, doc.Id, s.opts.ChunkSize, s.opts.Overlap)
	log.Debug("Chunked document", "chunks", len(chunks))

	var points []vectorDB.Point
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Content
		}
		vectors, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embedding chunks: %w", err)
		}
		points = make([]vectorDB.Point, len(chunks))
		for i := range chunks {
			chunks[i].Embedding = vectors[i]
			points[i] = vectorDB.Point{Chunk: chunks[i], DocumentName: doc.Name, Vector: vectors[i]}
		}
	}

	if err := s.executeIndexStep(ctx, doc.Id, points); err != nil {
		return 0, err
	}
	if err := s.store.ReplaceChunks(ctx, doc.Id, chunks); err != nil {
		return 0, fmt.Errorf("storing chunks: %w", err)
	}
	return len(chunks), nil
}

func (s *service) executeExtractStep(log *logger_i.Logger, contentType commonModels.DocType, filePath string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extract", time.Since(start)) }()

	text, err := ExtractText(filePath, contentType)
	if rmErr := os.Remove(filePath); rmErr != nil {
		log.Warn("Error removing uploaded file", "path", filePath, "error", rmErr)
	}
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}
	return text, nil
}

func (s *service) executeIndexStep(ctx context.Context, documentId string, points []vectorDB.Point) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_upsert", time.Since(start)) }()

	if err := s.index.DeleteDocument(ctx, documentId); err != nil {
		return fmt.Errorf("clearing previous vectors: %w", err)
	}
	if err := s.invalidateCache(ctx, documentId); err != nil {
		return err
	}
	if err := s.index.Upsert(ctx, points); err != nil {
		return fmt.Errorf("indexing chunks: %w", err)
	}
	return nil
}

func (s *service) invalidateCache(ctx context.Context, documentId string) error {
	if s.opts.Cache == nil {
		return nil
	}
	if err := s.opts.Cache.InvalidateDocument(ctx, documentId); err != nil {
		return fmt.Errorf("invalidating cached answers: %w", err)
	}
	return nil
}

func (s *service) publish(ctx context.Context, log *logger_i.Logger, event string, payload events.DocumentEvent) {
	if err := s.publisher.Publish(ctx, event, payload); err != nil {
		log.Warn("Could not publish document event", "event", event, "error", err)
	}
}

// fail records the failure even when ctx is the reason processing stopped.
func (s *service) fail(ctx context.Context, log *logger_i.Logger, doc docModel.Document, cause error) error {
	log.Error("Failed to process document", "error", cause)
	ctx = context.WithoutCancel(ctx)

	doc.Status = docModel.StatusFailed
	doc.ErrorMessage = cause.Error()
	doc.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		log.Error("Could not record document failure", "error", err)
	}

	metrics.RecordDocumentIngested(string(docModel.StatusFailed))
	s.publish(ctx, log, events.DocumentFailed, events.DocumentEvent{
		DocumentId: doc.Id,
		Status:     string(doc.Status),
		Error:      doc.ErrorMessage,
		At:         doc.UpdatedAt,
	})
	return cause
}

// PrepareReprocess resets a document to pending so a reprocess job can re-chunk its stored text.
func (s *service) PrepareReprocess(ctx context.Context, documentId string) (docModel.Document, error) {
	doc, err := s.store.GetDocument(ctx, documentId)
	if err != nil {
		return doc, err
	}
	if doc.RawText == "" {
		return doc, ErrNoStoredContent
	}
	doc.Status = docModel.StatusPending
	doc.ErrorMessage = ""
	doc.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// DeleteDocument removes the vectors before the stored document and its chunks.
func (s *service) DeleteDocument(ctx context.Context, documentId string) error {
	if _, err := s.store.GetDocument(ctx, documentId); err != nil {
		return err
	}
	if err := s.index.DeleteDocument(ctx, documentId); err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}
	if err := s.invalidateCache(ctx, documentId); err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, documentId); err != nil {
		return err
	}
	s.publish(ctx, s.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("documentId", documentId), events.DocumentDeleted, events.DocumentEvent{
		DocumentId: documentId,
		Status:     "deleted",
		At:         time.Now().UTC(),
	})
	return nil
}
