package crossEncoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/customHttpClient"
	"github.com/akolanti/ragops/pkg/logger_i"
)

// client talks to a cross-encoder served behind the text-embeddings-inference /rerank API.
type client struct {
	baseURL string
	http    *http.Client
	logger  *logger_i.Logger
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores"`
	Truncate  bool     `json:"truncate"`
}

type rankedText struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// New probes the service once. An error means the caller should run without reranking.
func New(ctx context.Context, baseURL string) (*client, error) {
	return newWithClient(ctx, baseURL, customHttpClient.New(config.RerankTimeout))
}

func newWithClient(ctx context.Context, baseURL string, httpClient *http.Client) (*client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("rerank url is not configured")
	}
	c := &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger_i.NewLogger("cross_encoder"),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank service unreachable: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rerank service unhealthy: %s", resp.Status)
	}

	c.logger.Info("Cross-encoder reranker available", "url", c.baseURL)
	return c, nil
}

// ScorePairs returns raw logits in input order.
func (c *client) ScorePairs(ctx context.Context, query string, docs []string) ([]float64, error) {
	if len(docs) == 0 {
		return []float64{}, nil
	}
	body, err := json.Marshal(rerankRequest{Query: query, Texts: docs, RawScores: true, Truncate: true})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rerank service returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var ranked []rankedText
	if err := json.NewDecoder(resp.Body).Decode(&ranked); err != nil {
		return nil, fmt.Errorf("decoding rerank response: %w", err)
	}

	scores := make([]float64, len(docs))
	seen := make([]bool, len(docs))
	for _, r := range ranked {
		if r.Index < 0 || r.Index >= len(docs) || seen[r.Index] {
			return nil, fmt.Errorf("rerank response has invalid index %d", r.Index)
		}
		scores[r.Index] = r.Score
		seen[r.Index] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("rerank response is missing text %d", i)
		}
	}

	c.logger.WithTrace(ctx, config.TRACE_ID_KEY).Debug("Scored pairs", "count", len(docs))
	return scores, nil
}
