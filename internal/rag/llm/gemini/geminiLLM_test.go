package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/rag/llm"
	"google.golang.org/genai"
)

func testProvider(t *testing.T, handler http.HandlerFunc) *llmClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := newProvider(context.Background(), "gemini-test", &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  srv.Client(),
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestGenerate_SendsHistoryAndReadsUsage(t *testing.T) {
	var body map[string]any
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "PTO is 15 days [1]."}]}}],
			"usageMetadata": {"promptTokenCount": 120, "candidatesTokenCount": 9}
		}`))
	})

	gen, err := p.Generate(context.Background(), llm.GenerateRequest{
		SystemPrompt: "answer from context",
		UserPrompt:   "Context: ... Question: pto?",
		History: []commonModels.ChatMessage{
			{Role: commonModels.RoleUser, Content: "hi"},
			{Role: commonModels.RoleAssistant, Content: "hello"},
		},
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gen.Text != "PTO is 15 days [1]." || gen.TokensIn != 120 || gen.TokensOut != 9 {
		t.Errorf("unexpected generation %+v", gen)
	}
	contents, _ := body["contents"].([]any)
	if len(contents) != 3 {
		t.Fatalf("expected history + question in contents, got %d", len(contents))
	}
	if role := contents[1].(map[string]any)["role"]; role != "model" {
		t.Errorf("assistant history sent with role %v", role)
	}
}

func TestGenerate_RateLimitIsMarked(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"}}`))
	})

	_, err := p.Generate(context.Background(), llm.GenerateRequest{UserPrompt: "q"})
	if !errors.Is(err, llm.ErrRateLimited) {
		t.Errorf("expected rate limit error, got %v", err)
	}
}

func TestNewProvider_RequiresKey(t *testing.T) {
	if _, err := NewProvider(context.Background(), "m", ""); err == nil {
		t.Error("expected error without api key")
	}
}
