package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/docModel"
)

type InMemoryDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]docModel.Document
	chunks    map[string][]docModel.Chunk
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		documents: make(map[string]docModel.Document),
		chunks:    make(map[string][]docModel.Chunk),
	}
}

func (s *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.Id] = doc
	return nil
}

func (s *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return doc, fmt.Errorf("document %s: %w", id, commonModels.ErrNotFound)
	}
	return doc, nil
}

func (s *InMemoryDocumentStore) ListDocuments(ctx context.Context, filter docModel.ListFilter) ([]docModel.Document, int, error) {
	s.mu.RLock()
	docs := make([]docModel.Document, 0, len(s.documents))
	for _, d := range s.documents {
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		d.RawText = ""
		docs = append(docs, d)
	}
	s.mu.RUnlock()

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	start, end := filter.Page.Bounds(len(docs))
	return docs[start:end], len(docs), nil
}

func (s *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return fmt.Errorf("document %s: %w", id, commonModels.ErrNotFound)
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

func (s *InMemoryDocumentStore) ReplaceChunks(ctx context.Context, documentId string, chunks []docModel.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]docModel.Chunk, len(chunks))
	copy(stored, chunks)
	s.chunks[documentId] = stored
	return nil
}

func (s *InMemoryDocumentStore) GetChunks(ctx context.Context, documentId string) ([]docModel.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]docModel.Chunk, len(s.chunks[documentId]))
	copy(out, s.chunks[documentId])
	return out, nil
}

func (s *InMemoryDocumentStore) GetChunk(ctx context.Context, chunkId string) (docModel.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, c := range chunks {
			if c.Id == chunkId {
				return c, nil
			}
		}
	}
	return docModel.Chunk{}, fmt.Errorf("chunk %s: %w", chunkId, commonModels.ErrNotFound)
}
