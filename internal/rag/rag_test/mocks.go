package rag_test

import (
	"context"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/akolanti/ragops/internal/rag/agent"
)

// MockRetrieval implements retrieval.Service
type MockRetrieval struct {
	OnEmbedQuery func(ctx context.Context, query string) ([]float32, error)
}

func (m *MockRetrieval) Search(ctx context.Context, q string, k int, ids []string) ([]commonModels.RetrievalResult, error) {
	return nil, nil
}

func (m *MockRetrieval) SearchVector(ctx context.Context, q string, v []float32, k int, ids []string) ([]commonModels.RetrievalResult, error) {
	return nil, nil
}

func (m *MockRetrieval) EmbedQuery(ctx context.Context, q string) ([]float32, error) {
	if m.OnEmbedQuery != nil {
		return m.OnEmbedQuery(ctx, q)
	}
	return []float32{0.1}, nil
}

func (m *MockRetrieval) RerankingEnabled() bool { return true }

// MockAgent implements agent.Agent
type MockAgent struct {
	OnAsk func(ctx context.Context, req agent.Request) (commonModels.AgentResponse, error)
	Calls int
}

func (m *MockAgent) Ask(ctx context.Context, req agent.Request) (commonModels.AgentResponse, error) {
	m.Calls++
	if m.OnAsk != nil {
		return m.OnAsk(ctx, req)
	}
	return commonModels.AgentResponse{Content: "mocked answer [1]"}, nil
}

// MockCache implements vectorDB.AnswerCache
type MockCache struct {
	OnGetCachedAnswer func(ctx context.Context, v []float32) (commonModels.AgentResponse, bool, error)
	Saved             chan commonModels.AgentResponse
	Invalidated       []string
}

func (m *MockCache) GetCachedAnswer(ctx context.Context, v []float32) (commonModels.AgentResponse, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, v)
	}
	return commonModels.AgentResponse{}, false, nil
}

func (m *MockCache) SaveToCache(ctx context.Context, id string, v []float32, a commonModels.AgentResponse) error {
	if m.Saved != nil {
		m.Saved <- a
	}
	return nil
}

func (m *MockCache) InvalidateDocument(ctx context.Context, documentId string) error {
	m.Invalidated = append(m.Invalidated, documentId)
	return nil
}

// MockIngest implements ingest.Service
type MockIngest struct {
	OnProcessDocument func(ctx context.Context, id string, path string) error
}

func (m *MockIngest) CreateDocument(ctx context.Context, doc docModel.Document) (docModel.Document, error) {
	return doc, nil
}

func (m *MockIngest) ProcessDocument(ctx context.Context, id string, path string) error {
	if m.OnProcessDocument != nil {
		return m.OnProcessDocument(ctx, id, path)
	}
	return nil
}

func (m *MockIngest) PrepareReprocess(ctx context.Context, id string) (docModel.Document, error) {
	return docModel.Document{Id: id}, nil
}

func (m *MockIngest) DeleteDocument(ctx context.Context, id string) error {
	return nil
}

type MockEvalRunner struct {
	OnRun func(ctx context.Context, runId string) error
}

func (m *MockEvalRunner) Run(ctx context.Context, runId string) error {
	if m.OnRun != nil {
		return m.OnRun(ctx, runId)
	}
	return nil
}
