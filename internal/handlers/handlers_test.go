package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/ragops/internal/api"
	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/data/store"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/akolanti/ragops/internal/domain/evalModel"
	"github.com/akolanti/ragops/internal/domain/jobModel"
	"github.com/akolanti/ragops/internal/domain/traceModel"
	"github.com/akolanti/ragops/internal/eval"
	"github.com/akolanti/ragops/internal/job"
	"github.com/akolanti/ragops/internal/rag/ingest"
	"github.com/go-chi/chi/v5"
)

type fixture struct {
	router    http.Handler
	jobs      *job.Service
	rag       *mockRag
	ingest    *mockIngest
	documents *store.InMemoryDocumentStore
	evalStore *store.InMemoryEvalStore
	traces    *store.InMemoryTraceStore
	uploadDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	datasetDir := t.TempDir()
	dataset := `{"name":"smoke","cases":[{"case_id":"1","question":"What is the PTO policy?"},{"case_id":"2","question":"Who approves leave?"}]}`
	if err := os.WriteFile(filepath.Join(datasetDir, "smoke.json"), []byte(dataset), 0o644); err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		jobs: job.InitJobService(job.ServiceConfig{
			JobChannel:        make(chan jobModel.Job, 10),
			DispatcherChannel: make(chan bool, 10),
			JobStore:          store.InitInMemoryJobStore(),
			MessageStore:      store.InitInMemorySessionStore(),
		}),
		rag:       &mockRag{},
		documents: store.InitInMemoryDocumentStore(),
		evalStore: store.InitInMemoryEvalStore(),
		traces:    store.InitInMemoryTraceStore(),
		uploadDir: t.TempDir(),
	}
	f.ingest = &mockIngest{store: f.documents}

	h := NewHandler(Dependencies{
		Jobs:      f.jobs,
		Rag:       f.rag,
		Ingest:    f.ingest,
		Documents: f.documents,
		Evals:     eval.NewService(f.evalStore, eval.NewDatasets(datasetDir)),
		Traces:    f.traces,
		Health:    HealthInfo{RerankingEnabled: true, VectorIndex: "memory", Store: "memory"},
		UploadDir: f.uploadDir,
	})

	r := chi.NewRouter()
	r.Get("/health", h.HealthHandler)
	r.Post("/chat", h.ChatHandler)
	r.Post("/chat/sync", h.ChatSyncHandler)
	r.Get("/chat/history/{session_id}", h.ChatHistoryHandler)
	r.Get("/status/{id}", h.GetStatusHandler)
	r.Post("/documents", h.UploadDocumentHandler)
	r.Get("/documents", h.ListDocumentsHandler)
	r.Get("/documents/{id}", h.GetDocumentHandler)
	r.Delete("/documents/{id}", h.DeleteDocumentHandler)
	r.Post("/documents/{id}/reprocess", h.ReprocessDocumentHandler)
	r.Get("/evals", h.ListEvalsHandler)
	r.Post("/evals", h.CreateEvalHandler)
	r.Get("/evals/datasets", h.ListDatasetsHandler)
	r.Get("/evals/compare", h.CompareEvalsHandler)
	r.Get("/evals/{id}", h.GetEvalHandler)
	r.Delete("/evals/{id}", h.DeleteEvalHandler)
	r.Post("/evals/{id}/cancel", h.CancelEvalHandler)
	r.Get("/traces", h.ListTracesHandler)
	r.Get("/traces/{run_id}", h.GetTraceHandler)
	r.Get("/traces/{run_id}/events", h.GetTraceEventsHandler)
	r.Delete("/traces/{run_id}", h.DeleteTraceHandler)
	f.router = r
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(context.WithValue(req.Context(), config.TRACE_ID_KEY, "trace-test"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthHandler(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[api.HealthResponse](t, rec)
	if got.Status != "healthy" || got.Version != config.ServiceVersion || !got.RerankingEnabled || got.VectorIndex != "memory" {
		t.Errorf("unexpected health %+v", got)
	}
}

func TestChatHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body any
		want int
	}{
		{name: "valid new session", body: api.ChatRequest{Message: "What is the PTO policy?"}, want: http.StatusAccepted},
		{name: "blank message", body: api.ChatRequest{Message: "   "}, want: http.StatusBadRequest},
		{name: "unknown session", body: api.ChatRequest{Message: "hi", SessionId: "ghost"}, want: http.StatusBadRequest},
		{name: "too many sources", body: api.ChatRequest{Message: "hi", MaxSources: 50}, want: http.StatusBadRequest},
		{name: "malformed json", body: `{"message":`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(t, http.MethodPost, "/chat", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestChatHandler_QueuesJobAndStatusReportsIt(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/chat", api.ChatRequest{Message: "What is the PTO policy?", MaxSources: 3, DocumentIds: []string{"doc-1"}})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	init := decode[api.InitJobResponse](t, rec)
	if init.StatusURL != "status/"+init.Id || init.ResourceId == "" {
		t.Errorf("unexpected init response %+v", init)
	}

	queued := <-f.jobs.JobChannel
	if queued.JobType != jobModel.JobTypeQuery || queued.TraceId != "trace-test" || queued.JobPayload.MaxSources != 3 {
		t.Errorf("unexpected queued job %+v", queued)
	}
	if len(queued.JobPayload.DocumentIds) != 1 || queued.ChatId != init.ResourceId {
		t.Errorf("payload not carried: %+v", queued)
	}

	status := f.do(t, http.MethodGet, "/status/"+init.Id, nil)
	if status.Code != http.StatusOK {
		t.Fatalf("status code = %d", status.Code)
	}
	if got := decode[api.JobResponse](t, status); got.Result.Status != string(jobModel.JobStatusQueued) {
		t.Errorf("job status = %s", got.Result.Status)
	}

	if missing := f.do(t, http.MethodGet, "/status/nope", nil); missing.Code != http.StatusNotFound {
		t.Errorf("missing job status = %d", missing.Code)
	}
}

func TestChatSyncHandler(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/chat/sync", api.ChatRequest{Message: "What is the PTO policy?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	got := decode[api.ChatSyncResponse](t, rec)
	if got.SessionId == "" || len(got.Citations) != 1 {
		t.Errorf("unexpected response %+v", got)
	}

	// follow-up in the same session sees the first exchange
	var historyLen int
	f.rag.OnProcessRequest = func(ctx context.Context, j jobModel.Job, history []commonModels.ChatMessage) jobModel.Job {
		historyLen = len(history)
		j.JobPayload.Response = &commonModels.AgentResponse{Content: "ok"}
		return j
	}
	f.do(t, http.MethodPost, "/chat/sync", api.ChatRequest{Message: "And sick days?", SessionId: got.SessionId})
	if historyLen != 2 {
		t.Errorf("history passed = %d, want 2", historyLen)
	}

	hist := f.do(t, http.MethodGet, "/chat/history/"+got.SessionId, nil)
	if hist.Code != http.StatusOK {
		t.Fatalf("history status = %d", hist.Code)
	}
	if h := decode[api.ChatHistoryResponse](t, hist); len(h.Messages) != 4 {
		t.Errorf("history messages = %d, want 4", len(h.Messages))
	}
	if f.do(t, http.MethodGet, "/chat/history/ghost", nil).Code != http.StatusNotFound {
		t.Error("unknown session history should 404")
	}
}

func TestChatSyncHandler_RateLimited(t *testing.T) {
	f := newFixture(t)
	f.rag.OnProcessRequest = func(ctx context.Context, j jobModel.Job, history []commonModels.ChatMessage) jobModel.Job {
		j.Status = jobModel.JobStatusError
		j.Error = jobModel.JobError{Code: http.StatusTooManyRequests, Message: "Upstream model rate limited", Retry: true}
		return j
	}
	rec := f.do(t, http.MethodPost, "/chat/sync", api.ChatRequest{Message: "hi"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[api.JobResponse](t, rec); got.Error == nil || !got.Error.Retry {
		t.Errorf("error should be retryable: %+v", got.Error)
	}
}

func multipartUpload(t *testing.T, filename, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if name != "" {
		_ = w.WriteField("name", name)
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write(content)
	}
	_ = w.Close()
	return body, w.FormDataContentType()
}

func (f *fixture) upload(t *testing.T, filename, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartUpload(t, filename, name, content)
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(context.WithValue(req.Context(), config.TRACE_ID_KEY, "trace-upload"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadDocumentHandler(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		display  string
		want     int
		wantName string
	}{
		{name: "markdown with display name", filename: "handbook.md", display: "Handbook", want: http.StatusAccepted, wantName: "Handbook"},
		{name: "pdf defaults name", filename: "policy.pdf", want: http.StatusAccepted, wantName: "policy.pdf"},
		{name: "unsupported type", filename: "malware.exe", want: http.StatusBadRequest},
		{name: "missing file", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.upload(t, tt.filename, tt.display, []byte("PTO is 15 days."))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want != http.StatusAccepted {
				return
			}

			init := decode[api.InitJobResponse](t, rec)
			doc, err := f.documents.GetDocument(context.Background(), init.ResourceId)
			if err != nil {
				t.Fatalf("document not stored: %v", err)
			}
			if doc.Name != tt.wantName || doc.Status != docModel.StatusPending || doc.FileSize == 0 {
				t.Errorf("unexpected document %+v", doc)
			}

			queued := <-f.jobs.JobChannel
			if queued.JobType != jobModel.JobTypeIngest || queued.JobPayload.DocumentId != doc.Id {
				t.Errorf("unexpected job %+v", queued)
			}
			if !strings.HasPrefix(queued.JobPayload.IngestURL, f.uploadDir) {
				t.Errorf("upload path %s not under %s", queued.JobPayload.IngestURL, f.uploadDir)
			}
			if _, err := os.Stat(queued.JobPayload.IngestURL); err != nil {
				t.Errorf("uploaded file missing: %v", err)
			}
		})
	}
}

func TestDocumentHandlers_ListGetDeleteReprocess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.documents.SaveDocument(ctx, docModel.Document{Id: "d1", Name: "one", Status: docModel.StatusCompleted, RawText: "secret raw text"})
	_ = f.documents.SaveDocument(ctx, docModel.Document{Id: "d2", Name: "two", Status: docModel.StatusFailed, ErrorMessage: "boom"})

	list := decode[api.DocumentListResponse](t, f.do(t, http.MethodGet, "/documents?status=completed", nil))
	if list.Total != 1 || len(list.Documents) != 1 || list.Documents[0].Id != "d1" {
		t.Errorf("filtered list = %+v", list)
	}

	get := f.do(t, http.MethodGet, "/documents/d1", nil)
	if get.Code != http.StatusOK || strings.Contains(get.Body.String(), "secret raw text") {
		t.Errorf("get = %d %s", get.Code, get.Body.String())
	}
	if f.do(t, http.MethodGet, "/documents/nope", nil).Code != http.StatusNotFound {
		t.Error("missing document should 404")
	}

	reprocess := f.do(t, http.MethodPost, "/documents/d1/reprocess", nil)
	if reprocess.Code != http.StatusAccepted {
		t.Fatalf("reprocess = %d", reprocess.Code)
	}
	if queued := <-f.jobs.JobChannel; queued.JobType != jobModel.JobTypeReprocess || queued.JobPayload.IngestURL != "" {
		t.Errorf("unexpected reprocess job %+v", queued)
	}

	f.ingest.OnPrepare = func(ctx context.Context, id string) (docModel.Document, error) {
		return docModel.Document{}, ingest.ErrNoStoredContent
	}
	if code := f.do(t, http.MethodPost, "/documents/d2/reprocess", nil).Code; code != http.StatusBadRequest {
		t.Errorf("reprocess without content = %d", code)
	}

	if code := f.do(t, http.MethodDelete, "/documents/d1", nil).Code; code != http.StatusNoContent {
		t.Errorf("delete = %d", code)
	}
	if code := f.do(t, http.MethodDelete, "/documents/d1", nil).Code; code != http.StatusNotFound {
		t.Errorf("second delete = %d", code)
	}
}

func TestEvalHandlers(t *testing.T) {
	f := newFixture(t)

	datasets := decode[api.DatasetListResponse](t, f.do(t, http.MethodGet, "/evals/datasets", nil))
	if len(datasets.Datasets) != 1 || datasets.Datasets[0].CaseCount != 2 {
		t.Errorf("datasets = %+v", datasets)
	}

	if code := f.do(t, http.MethodPost, "/evals", api.EvalRunRequest{Name: "x", DatasetName: "missing"}).Code; code != http.StatusNotFound {
		t.Errorf("missing dataset = %d", code)
	}
	if code := f.do(t, http.MethodPost, "/evals", api.EvalRunRequest{Name: "x"}).Code; code != http.StatusBadRequest {
		t.Errorf("no dataset name = %d", code)
	}

	created := f.do(t, http.MethodPost, "/evals", api.EvalRunRequest{Name: "baseline", DatasetName: "smoke"})
	if created.Code != http.StatusCreated {
		t.Fatalf("create = %d (%s)", created.Code, created.Body.String())
	}
	run := decode[api.EvalRunResponse](t, created)
	if run.Status != string(evalModel.RunPending) || run.TotalCases != 2 || run.JobId == "" || run.Metrics != nil {
		t.Errorf("unexpected run %+v", run)
	}
	if queued := <-f.jobs.JobChannel; queued.JobType != jobModel.JobTypeEval || queued.JobPayload.EvalRunId != run.Id {
		t.Errorf("unexpected eval job %+v", queued)
	}

	cancelled := f.do(t, http.MethodPost, "/evals/"+run.Id+"/cancel", nil)
	if cancelled.Code != http.StatusOK {
		t.Fatalf("cancel = %d", cancelled.Code)
	}
	if code := f.do(t, http.MethodPost, "/evals/"+run.Id+"/cancel", nil).Code; code != http.StatusBadRequest {
		t.Errorf("second cancel = %d, want 400", code)
	}

	list := decode[api.EvalListResponse](t, f.do(t, http.MethodGet, "/evals?status=cancelled", nil))
	if list.Total != 1 {
		t.Errorf("cancelled runs = %d", list.Total)
	}

	if code := f.do(t, http.MethodDelete, "/evals/"+run.Id, nil).Code; code != http.StatusNoContent {
		t.Errorf("delete = %d", code)
	}
	if code := f.do(t, http.MethodGet, "/evals/"+run.Id, nil).Code; code != http.StatusNotFound {
		t.Errorf("get after delete = %d", code)
	}
}

func TestCompareEvalsHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.evalStore.SaveRun(ctx, evalModel.EvalRun{Id: "a", Status: evalModel.RunCompleted, Metrics: evalModel.Metrics{GroundednessScore: 0.6, LatencyP95Ms: 900}})
	_ = f.evalStore.SaveRun(ctx, evalModel.EvalRun{Id: "b", Status: evalModel.RunCompleted, Metrics: evalModel.Metrics{GroundednessScore: 0.8, LatencyP95Ms: 700}})

	rec := f.do(t, http.MethodGet, "/evals/compare?a=a&b=b", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("compare = %d", rec.Code)
	}
	got := decode[evalModel.Comparison](t, rec)
	if diff := got.Diff.GroundednessScore - 0.2; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("groundedness diff = %v", got.Diff.GroundednessScore)
	}
	if got.Diff.LatencyP95Ms != -200 {
		t.Errorf("latency diff = %v", got.Diff.LatencyP95Ms)
	}

	if code := f.do(t, http.MethodGet, "/evals/compare?a=a", nil).Code; code != http.StatusBadRequest {
		t.Errorf("missing b = %d", code)
	}
	if code := f.do(t, http.MethodGet, "/evals/compare?a=a&b=zzz", nil).Code; code != http.StatusNotFound {
		t.Errorf("unknown run = %d", code)
	}
}

func (f *fixture) seedTraces(t *testing.T) {
	t.Helper()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	traces := []traceModel.Trace{
		{RunId: "trace-a", SessionId: "chat-1", Events: []traceModel.Event{
			{Type: traceModel.EventRetrieval, Name: "vector_search", DurationMs: 30, Status: traceModel.StatusSuccess, Timestamp: at},
			{Type: traceModel.EventModelCall, Name: "gpt-4o-mini", DurationMs: 800, TokensIn: 900, TokensOut: 100, CostUSD: 0.25, Status: traceModel.StatusSuccess, Timestamp: at.Add(time.Second)},
		}},
		{RunId: "trace-b", SessionId: "chat-2", Events: []traceModel.Event{
			{Type: traceModel.EventRetrieval, Name: "vector_search", DurationMs: 20, Status: traceModel.StatusSuccess, Timestamp: at.Add(time.Minute)},
			{Type: traceModel.EventError, Name: "llm", Status: traceModel.StatusError, ErrorMessage: "rate limited", Timestamp: at.Add(time.Minute + time.Second)},
		}},
	}
	for _, tr := range traces {
		if err := f.traces.SaveTrace(context.Background(), tr); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListTracesHandler(t *testing.T) {
	f := newFixture(t)
	f.seedTraces(t)

	tests := []struct {
		name  string
		query string
		code  int
		want  []string
	}{
		{name: "all newest first", query: "", code: http.StatusOK, want: []string{"trace-b", "trace-a"}},
		{name: "by session", query: "?session_id=chat-1", code: http.StatusOK, want: []string{"trace-a"}},
		{name: "by event type", query: "?event_type=error", code: http.StatusOK, want: []string{"trace-b"}},
		{name: "paged", query: "?page=2&page_size=1", code: http.StatusOK, want: []string{"trace-a"}},
		{name: "unknown event type", query: "?event_type=telemetry", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/traces"+tt.query, nil)
			if rec.Code != tt.code {
				t.Fatalf("code = %d, want %d", rec.Code, tt.code)
			}
			if tt.code != http.StatusOK {
				return
			}
			got := decode[api.TraceListResponse](t, rec)
			if len(got.Traces) != len(tt.want) {
				t.Fatalf("got %d traces, want %d", len(got.Traces), len(tt.want))
			}
			for i, id := range tt.want {
				if got.Traces[i].RunId != id {
					t.Errorf("position %d = %s, want %s", i, got.Traces[i].RunId, id)
				}
			}
		})
	}

	got := decode[api.TraceListResponse](t, f.do(t, http.MethodGet, "/traces", nil))
	if got.Total != 2 || got.Page != 1 || got.PageSize != 20 {
		t.Errorf("paging = %+v", got)
	}
	byId := map[string]traceModel.Summary{}
	for _, s := range got.Traces {
		byId[s.RunId] = s
	}
	if a := byId["trace-a"]; a.Status != traceModel.StatusSuccess || a.TotalTokens != 1000 || a.TotalCostUSD != 0.25 || a.TotalDurationMs != 830 {
		t.Errorf("trace-a roll-up = %+v", a)
	}
	if b := byId["trace-b"]; b.Status != traceModel.StatusError || !b.HasErrors {
		t.Errorf("trace-b should roll up as error: %+v", b)
	}
}

func TestGetTraceHandlers(t *testing.T) {
	f := newFixture(t)
	f.seedTraces(t)

	rec := f.do(t, http.MethodGet, "/traces/trace-a", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d", rec.Code)
	}
	detail := decode[api.TraceDetailResponse](t, rec)
	if detail.SessionId != "chat-1" || len(detail.Events) != 2 || detail.Summary.EventCount != 2 {
		t.Errorf("detail = %+v", detail)
	}

	tests := []struct {
		name  string
		path  string
		code  int
		count int
	}{
		{name: "all events", path: "/traces/trace-b/events", code: http.StatusOK, count: 2},
		{name: "filtered events", path: "/traces/trace-b/events?event_type=error", code: http.StatusOK, count: 1},
		{name: "no events of type", path: "/traces/trace-a/events?event_type=tool_call", code: http.StatusOK, count: 0},
		{name: "bad event type", path: "/traces/trace-a/events?event_type=nope", code: http.StatusBadRequest},
		{name: "unknown trace events", path: "/traces/ghost/events", code: http.StatusNotFound},
		{name: "unknown trace", path: "/traces/ghost", code: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, tt.path, nil)
			if rec.Code != tt.code {
				t.Fatalf("code = %d, want %d", rec.Code, tt.code)
			}
			if tt.code != http.StatusOK || !strings.Contains(tt.path, "/events") {
				return
			}
			got := decode[api.TraceEventsResponse](t, rec)
			if got.Events == nil || len(got.Events) != tt.count {
				t.Errorf("events = %v, want %d", got.Events, tt.count)
			}
		})
	}
}

func TestDeleteTraceHandler(t *testing.T) {
	f := newFixture(t)
	f.seedTraces(t)

	if code := f.do(t, http.MethodDelete, "/traces/trace-a", nil).Code; code != http.StatusNoContent {
		t.Fatalf("delete = %d", code)
	}
	if code := f.do(t, http.MethodGet, "/traces/trace-a", nil).Code; code != http.StatusNotFound {
		t.Errorf("get after delete = %d", code)
	}
	if code := f.do(t, http.MethodDelete, "/traces/trace-a", nil).Code; code != http.StatusNotFound {
		t.Errorf("second delete = %d", code)
	}
	got := decode[api.TraceListResponse](t, f.do(t, http.MethodGet, "/traces", nil))
	if got.Total != 1 || got.Traces[0].RunId != "trace-b" {
		t.Errorf("list after delete = %+v", got)
	}
}

func TestWriteStoreError(t *testing.T) {
	h := &Handler{logger: logRH}
	tests := []struct {
		err  error
		want int
	}{
		{err: commonModels.ErrNotFound, want: http.StatusNotFound},
		{err: errors.New("redis down"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.writeStoreError(rec, "id", tt.err)
		if rec.Code != tt.want {
			t.Errorf("%v -> %d, want %d", tt.err, rec.Code, tt.want)
		}
	}
}
