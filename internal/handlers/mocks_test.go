package handlers

import (
	"context"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/akolanti/ragops/internal/domain/jobModel"
)

type mockRag struct {
	OnProcessRequest func(ctx context.Context, j jobModel.Job, history []commonModels.ChatMessage) jobModel.Job
}

func (m *mockRag) ProcessRequest(ctx context.Context, j jobModel.Job, history []commonModels.ChatMessage) jobModel.Job {
	if m.OnProcessRequest != nil {
		return m.OnProcessRequest(ctx, j, history)
	}
	j.JobPayload.Response = &commonModels.AgentResponse{
		Content:     "Employees get 15 days of PTO [1].",
		Citations:   []commonModels.Citation{{DocumentId: "doc-1", ChunkId: "c1"}},
		ToolsCalled: []string{"search_corpus"},
	}
	j.CurrentStep = jobModel.Complete
	return j
}

func (m *mockRag) IngestDocument(ctx context.Context, j jobModel.Job) jobModel.Job { return j }
func (m *mockRag) RunEvaluation(ctx context.Context, j jobModel.Job) jobModel.Job { return j }

// mockIngest writes through to a real document store so list and get see uploads.
type mockIngest struct {
	store            docModel.DocumentStore
	OnPrepare        func(ctx context.Context, id string) (docModel.Document, error)
	DeletedDocuments []string
}

func (m *mockIngest) CreateDocument(ctx context.Context, doc docModel.Document) (docModel.Document, error) {
	doc.Status = docModel.StatusPending
	return doc, m.store.SaveDocument(ctx, doc)
}

func (m *mockIngest) ProcessDocument(ctx context.Context, documentId string, filePath string) error {
	return nil
}

func (m *mockIngest) PrepareReprocess(ctx context.Context, documentId string) (docModel.Document, error) {
	if m.OnPrepare != nil {
		return m.OnPrepare(ctx, documentId)
	}
	return m.store.GetDocument(ctx, documentId)
}

func (m *mockIngest) DeleteDocument(ctx context.Context, documentId string) error {
	if err := m.store.DeleteDocument(ctx, documentId); err != nil {
		return err
	}
	m.DeletedDocuments = append(m.DeletedDocuments, documentId)
	return nil
}
