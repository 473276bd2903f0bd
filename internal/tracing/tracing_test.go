package tracing

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/traceModel"
)

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		model string
		in    int
		out   int
		want  float64
	}{
		{"gpt-4o-mini", 1000, 1000, 0.00015 + 0.0006},
		{"gpt-4", 2000, 500, 0.06 + 0.03},
		{"text-embedding-3-small", 5000, 0, 0.0001},
		{"some-new-model", 1000, 1000, 0.04},
		{"gpt-4o", 0, 0, 0},
	}
	for _, tt := range tests {
		if got := EstimateCost(tt.model, tt.in, tt.out); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("EstimateCost(%s, %d, %d) = %v, want %v", tt.model, tt.in, tt.out, got, tt.want)
		}
	}
}

func TestRecorder_Summary(t *testing.T) {
	r := NewRecorder("trace-1")
	r.Retrieval("pto", []commonModels.RetrievalResult{{DocumentId: "d", RelevanceScore: 0.8}}, 40*time.Millisecond, nil)
	r.ToolCall("search_corpus", map[string]any{"query": "pto"}, "1 result", 45*time.Millisecond, nil)
	r.ModelCall("gpt-4o-mini", 1000, 200, "answer [1]", 900*time.Millisecond, nil)
	r.Validation("citations", false, []string{"missing citation"})

	s := r.Summary()
	if s.TraceId != "trace-1" || s.EventCount != 4 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.EventCounts["retrieval"] != 1 || s.EventCounts["model_call"] != 1 || s.EventCounts["validation"] != 1 {
		t.Errorf("event counts = %v", s.EventCounts)
	}
	if s.TotalDurationMs != 985 || s.TokensIn != 1000 || s.TokensOut != 200 {
		t.Errorf("totals = %+v", s)
	}
	if math.Abs(s.CostUSD-EstimateCost("gpt-4o-mini", 1000, 200)) > 1e-12 {
		t.Errorf("cost = %v", s.CostUSD)
	}
	if s.HasErrors {
		t.Error("validation retry is not an error")
	}

	r.Error("llm", errors.New("timeout"))
	if !r.Summary().HasErrors {
		t.Error("error event not reflected in summary")
	}
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var r *Recorder
	r.Retrieval("q", nil, time.Second, nil)
	r.ModelCall("m", 1, 1, "", time.Second, nil)
	r.Error("x", errors.New("y"))
	if r.Events() != nil || r.Summary().EventCount != 0 {
		t.Error("nil recorder should record nothing")
	}
	if FromContext(context.Background()) != nil {
		t.Error("empty context should have no recorder")
	}
}

func TestRecorder_ContextAndPreview(t *testing.T) {
	r := NewRecorder("t")
	ctx := WithRecorder(context.Background(), r)
	FromContext(ctx).ModelCall("gpt-4o", 1, 1, strings.Repeat("x", 900), 0, nil)

	events := r.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events", len(events))
	}
	if got := events[0].Data["response_preview"].(string); len(got) != 500 {
		t.Errorf("preview length = %d", len(got))
	}
	if events[0].Status != traceModel.StatusSuccess || events[0].Timestamp.IsZero() {
		t.Errorf("defaults not applied: %+v", events[0])
	}
}

type mockTraceStore struct {
	OnSave func(ctx context.Context, trace traceModel.Trace) error
	saved  []traceModel.Trace
}

func (m *mockTraceStore) SaveTrace(ctx context.Context, trace traceModel.Trace) error {
	m.saved = append(m.saved, trace)
	if m.OnSave != nil {
		return m.OnSave(ctx, trace)
	}
	return nil
}

func (m *mockTraceStore) GetTrace(ctx context.Context, runId string) (traceModel.Trace, error) {
	return traceModel.Trace{}, commonModels.ErrNotFound
}

func (m *mockTraceStore) ListTraces(ctx context.Context, filter traceModel.ListFilter) ([]traceModel.Summary, int, error) {
	return nil, 0, nil
}

func (m *mockTraceStore) DeleteTrace(ctx context.Context, runId string) error { return nil }

func TestRecorder_Flush(t *testing.T) {
	tests := []struct {
		name      string
		recorder  func() *Recorder
		saveErr   error
		wantSaved int
		wantErr   bool
	}{
		{name: "events", recorder: func() *Recorder {
			r := NewRecorder("trace-1")
			r.Retrieval("q", nil, time.Millisecond, nil)
			return r
		}, wantSaved: 1},
		{name: "no events", recorder: func() *Recorder { return NewRecorder("trace-1") }},
		{name: "nil recorder", recorder: func() *Recorder { return nil }},
		{name: "no trace id", recorder: func() *Recorder {
			r := NewRecorder("")
			r.Retrieval("q", nil, time.Millisecond, nil)
			return r
		}},
		{name: "store error", recorder: func() *Recorder {
			r := NewRecorder("trace-1")
			r.Error("llm", errors.New("timeout"))
			return r
		}, saveErr: errors.New("redis down"), wantSaved: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockTraceStore{OnSave: func(context.Context, traceModel.Trace) error { return tt.saveErr }}
			err := tt.recorder().Flush(context.Background(), store, "chat-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Flush err = %v", err)
			}
			if len(store.saved) != tt.wantSaved {
				t.Fatalf("saved %d traces, want %d", len(store.saved), tt.wantSaved)
			}
			if tt.wantSaved == 1 && (store.saved[0].RunId != "trace-1" || store.saved[0].SessionId != "chat-1") {
				t.Errorf("saved %+v", store.saved[0])
			}
		})
	}

	if err := NewRecorder("t").Flush(context.Background(), nil, "chat-1"); err != nil {
		t.Errorf("nil store should be a no-op, got %v", err)
	}
}
