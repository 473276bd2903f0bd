package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/data/redisStore"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

const (
	documentIndexKey = "documents"
	chunkKeyPrefix   = "chunk:"
)

func documentKey(id string) string      { return "document:" + id }
func documentChunksKey(id string) string { return "document:" + id + ":chunks" }

type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisDocumentStore(rs *redisStore.Store) *RedisDocumentStore {
	if rs == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  rs,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, documentKey(doc.Id), data, 0)
		pipe.ZAdd(ctx, documentIndexKey, redis.Z{Score: float64(doc.CreatedAt.UnixNano()), Member: doc.Id})
		return nil
	})
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, error) {
	var doc docModel.Document
	val, err := s.store.Get(ctx, documentKey(id))
	if s.store.IsNil(err) {
		return doc, fmt.Errorf("document %s: %w", id, commonModels.ErrNotFound)
	} else if err != nil {
		return doc, err
	}
	err = json.Unmarshal([]byte(val), &doc)
	return doc, err
}

func (s *RedisDocumentStore) ListDocuments(ctx context.Context, filter docModel.ListFilter) ([]docModel.Document, int, error) {
	ids, err := s.store.IndexMembers(ctx, documentIndexKey)
	if err != nil {
		return nil, 0, err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = documentKey(id)
	}
	values, err := s.store.MGet(ctx, keys...)
	if err != nil {
		return nil, 0, err
	}

	docs := make([]docModel.Document, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var doc docModel.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			s.logger.Warn("Skipping undecodable document", "error", err)
			continue
		}
		if filter.Status != "" && doc.Status != filter.Status {
			continue
		}
		doc.RawText = ""
		docs = append(docs, doc)
	}
	start, end := filter.Page.Bounds(len(docs))
	return docs[start:end], len(docs), nil
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	log := s.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("documentId", id)
	exists, err := s.store.Exists(ctx, documentKey(id))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("document %s: %w", id, commonModels.ErrNotFound)
	}
	chunkIds, err := s.chunkIds(ctx, id)
	if err != nil {
		return err
	}
	err = s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, documentKey(id), documentChunksKey(id))
		for _, cid := range chunkIds {
			pipe.Del(ctx, chunkKeyPrefix+cid)
		}
		pipe.ZRem(ctx, documentIndexKey, id)
		return nil
	})
	if err == nil {
		log.Debug("Deleted document with chunks", "chunks", len(chunkIds))
	}
	return err
}

func (s *RedisDocumentStore) ReplaceChunks(ctx context.Context, documentId string, chunks []docModel.Chunk) error {
	oldIds, err := s.chunkIds(ctx, documentId)
	if err != nil {
		return err
	}
	encoded := make([][]byte, len(chunks))
	ids := make([]interface{}, len(chunks))
	for i, c := range chunks {
		if encoded[i], err = json.Marshal(c); err != nil {
			return err
		}
		ids[i] = c.Id
	}
	return s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		for _, cid := range oldIds {
			pipe.Del(ctx, chunkKeyPrefix+cid)
		}
		pipe.Del(ctx, documentChunksKey(documentId))
		for i, c := range chunks {
			pipe.Set(ctx, chunkKeyPrefix+c.Id, encoded[i], 0)
		}
		if len(ids) > 0 {
			pipe.RPush(ctx, documentChunksKey(documentId), ids...)
		}
		return nil
	})
}

func (s *RedisDocumentStore) GetChunks(ctx context.Context, documentId string) ([]docModel.Chunk, error) {
	ids, err := s.chunkIds(ctx, documentId)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = chunkKeyPrefix + id
	}
	values, err := s.store.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}
	chunks := make([]docModel.Chunk, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var c docModel.Chunk
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decoding chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

func (s *RedisDocumentStore) GetChunk(ctx context.Context, chunkId string) (docModel.Chunk, error) {
	var c docModel.Chunk
	val, err := s.store.Get(ctx, chunkKeyPrefix+chunkId)
	if s.store.IsNil(err) {
		return c, fmt.Errorf("chunk %s: %w", chunkId, commonModels.ErrNotFound)
	} else if err != nil {
		return c, err
	}
	err = json.Unmarshal([]byte(val), &c)
	return c, err
}

func (s *RedisDocumentStore) chunkIds(ctx context.Context, documentId string) ([]string, error) {
	ids, err := s.store.ListGetAll(ctx, documentChunksKey(documentId))
	if s.store.IsNil(err) {
		return nil, nil
	}
	return ids, err
}
