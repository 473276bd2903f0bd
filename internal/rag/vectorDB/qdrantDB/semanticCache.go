package qdrantDB

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/qdrant/go-client/qdrant"
)

var semanticCacheDBName = config.SemanticCacheCollection

func initCacheCollection(ctx context.Context, client *qdrant.Client, dimension uint64) {
	loggr := logger.WithTrace(ctx, config.TRACE_ID_KEY)
	if err := createCollection(ctx, client, semanticCacheDBName, dimension); err != nil {
		loggr.Error("Semantic cache collection creation failed", "error", err)
	}
}

func (db *ClientHolder) GetCachedAnswer(ctx context.Context, queryVector []float32) (commonModels.AgentResponse, bool, error) {
	loggr := logger.WithTrace(ctx, config.TRACE_ID_KEY)

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: semanticCacheDBName,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Cache Query failed", "error", err)
		return commonModels.AgentResponse{}, false, err
	}
	if len(searchResult) == 0 {
		return commonModels.AgentResponse{}, false, nil
	}

	loggr.Debug("Closest cached answer", "semantic similarity score", searchResult[0].Score)
	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return commonModels.AgentResponse{}, false, nil
	}

	var response commonModels.AgentResponse
	if err := json.Unmarshal([]byte(searchResult[0].Payload["answer"].GetStringValue()), &response); err != nil {
		loggr.Warn("Discarding unreadable cached answer", "error", err)
		return commonModels.AgentResponse{}, false, nil
	}
	loggr.Info("Semantic cache hit")
	return response, true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, id string, vector []float32, response commonModels.AgentResponse) error {
	loggr := logger.WithTrace(ctx, config.TRACE_ID_KEY)

	answer, err := json.Marshal(response)
	if err != nil {
		return err
	}
	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: semanticCacheDBName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"answer":       string(answer),
					"document_ids": citedDocuments(response),
					"timestamp":    time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to cache failed", "error", err)
	}
	return err
}

// InvalidateDocument drops every cached answer that cites the document.
func (db *ClientHolder) InvalidateDocument(ctx context.Context, documentId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: semanticCacheDBName,
		Wait:           qdrant.PtrOf(true),
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatchKeywords("document_ids", documentId)},
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant cache invalidation for document %s failed: %w", documentId, err)
	}
	return nil
}

func citedDocuments(response commonModels.AgentResponse) []any {
	seen := make(map[string]bool, len(response.Citations))
	ids := make([]any, 0, len(response.Citations))
	for _, c := range response.Citations {
		if !seen[c.DocumentId] {
			seen[c.DocumentId] = true
			ids = append(ids, c.DocumentId)
		}
	}
	return ids
}
