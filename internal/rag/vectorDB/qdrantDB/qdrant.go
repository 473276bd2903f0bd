package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/rag/vectorDB"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var quadrantInstance *ClientHolder
var once sync.Once

type Options struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Dimension  uint64
	// SemanticCache also provisions the answer cache collection.
	SemanticCache bool
}

type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
	dimension  uint64
}

// GetQuadrantClient returns the shared qdrant adapter, or nil when qdrant cannot be reached.
func GetQuadrantClient(ctx context.Context, opts Options) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res, err := newClient(ctx, opts)
		if err != nil {
			logger.Error("Qdrant unavailable", "host", opts.Host, "port", opts.Port, "error", err)
			return
		}
		quadrantInstance = res
		go closeQdrant(ctx, res.QObj)
	})
	return quadrantInstance
}

func newClient(ctx context.Context, opts Options) (*ClientHolder, error) {
	if opts.Host == "" {
		opts.Host = config.QdrantHost
	}
	if opts.Port == 0 {
		opts.Port = config.QdrantGrpcPort
	}
	if opts.Collection == "" {
		opts.Collection = config.EmbeddingCollectionName
	}
	if opts.Dimension == 0 {
		opts.Dimension = uint64(config.EmbeddingOutputDimensionality)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     opts.Host,
		Port:     opts.Port,
		APIKey:   opts.APIKey,
		UseTLS:   opts.UseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("could not instantiate qdrant client: %w", err)
	}

	setupCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()

	if err := createCollection(setupCtx, client, opts.Collection, opts.Dimension); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not create collection %s: %w", opts.Collection, err)
	}
	if opts.SemanticCache {
		initCacheCollection(setupCtx, client, opts.Dimension)
	}

	return &ClientHolder{QObj: client, collection: opts.Collection, dimension: opts.Dimension}, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) Name() string {
	return "qdrant"
}

func (db *ClientHolder) Query(ctx context.Context, vector []float32, k int, documentIds []string) ([]vectorDB.Match, error) {
	if k <= 0 {
		return []vectorDB.Match{}, nil
	}
	loggr := logger.WithTrace(ctx, config.TRACE_ID_KEY)

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         documentFilter(documentIds),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant", "error", err)
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	matches := make([]vectorDB.Match, 0, len(result))
	for _, hit := range result {
		matches = append(matches, matchFromPayload(hit.Payload, float64(hit.Score)))
	}
	loggr.Debug("Found matches", "count", len(matches))
	return matches, nil
}

func (db *ClientHolder) Upsert(ctx context.Context, points []vectorDB.Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		if uint64(len(p.Vector)) != db.dimension {
			return fmt.Errorf("chunk %s has dimension %d, collection expects %d", p.Chunk.Id, len(p.Vector), db.dimension)
		}
		qdrantPoints = append(qdrantPoints, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.Chunk.Id),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(payloadFromPoint(p)),
		})
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

// DeleteDocument deletes by payload filter, which qdrant treats as a no-op when nothing matches.
func (db *ClientHolder) DeleteDocument(ctx context.Context, documentId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrant.NewPointsSelectorFilter(documentFilter([]string{documentId})),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete of document %s failed: %w", documentId, err)
	}
	return nil
}

func documentFilter(documentIds []string) *qdrant.Filter {
	if len(documentIds) == 0 {
		return nil
	}
	return &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatchKeywords("document_id", documentIds...)},
	}
}

func payloadFromPoint(p vectorDB.Point) map[string]any {
	payload := map[string]any{
		"chunk_id":      p.Chunk.Id,
		"document_id":   p.Chunk.DocumentId,
		"document_name": p.DocumentName,
		"content":       p.Chunk.Content,
		"chunk_index":   int64(p.Chunk.ChunkIndex),
		"start_char":    int64(p.Chunk.StartChar),
		"end_char":      int64(p.Chunk.EndChar),
	}
	if p.Chunk.PageNumber != nil {
		payload["page_number"] = int64(*p.Chunk.PageNumber)
	}
	return payload
}

func matchFromPayload(payload map[string]*qdrant.Value, score float64) vectorDB.Match {
	m := vectorDB.Match{
		ChunkId:      payload["chunk_id"].GetStringValue(),
		DocumentId:   payload["document_id"].GetStringValue(),
		DocumentName: payload["document_name"].GetStringValue(),
		Content:      payload["content"].GetStringValue(),
		ChunkIndex:   int(payload["chunk_index"].GetIntegerValue()),
		Similarity:   score,
	}
	if v, ok := payload["page_number"]; ok && v != nil {
		page := int(v.GetIntegerValue())
		m.PageNumber = &page
	}
	return m
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string, dimension uint64) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
