package tracing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/traceModel"
	"github.com/akolanti/ragops/internal/metrics"
)

type modelCost struct {
	input  float64
	output float64
}

// USD per 1K tokens.
var modelCosts = map[string]modelCost{
	"gpt-4-turbo-preview":    {input: 0.01, output: 0.03},
	"gpt-4":                  {input: 0.03, output: 0.06},
	"gpt-4o":                 {input: 0.005, output: 0.015},
	"gpt-4o-mini":            {input: 0.00015, output: 0.0006},
	"gpt-3.5-turbo":          {input: 0.0005, output: 0.0015},
	"text-embedding-3-small": {input: 0.00002},
	"text-embedding-3-large": {input: 0.00013},
}

var defaultCost = modelCost{input: 0.01, output: 0.03}

// EstimateCost prices unknown models at the default rate.
func EstimateCost(model string, tokensIn, tokensOut int) float64 {
	c, ok := modelCosts[model]
	if !ok {
		c = defaultCost
	}
	return float64(tokensIn)/1000*c.input + float64(tokensOut)/1000*c.output
}

// Recorder collects the events of one traced request. A nil Recorder discards everything.
type Recorder struct {
	mu      sync.Mutex
	traceId string
	events  []traceModel.Event
}

func NewRecorder(traceId string) *Recorder {
	return &Recorder{traceId: traceId}
}

type recorderKey struct{}

func WithRecorder(ctx context.Context, r *Recorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, r)
}

func FromContext(ctx context.Context) *Recorder {
	r, _ := ctx.Value(recorderKey{}).(*Recorder)
	return r
}

func (r *Recorder) add(e traceModel.Event) {
	if r == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = traceModel.StatusSuccess
	}
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func statusOf(err error) (string, string) {
	if err != nil {
		return traceModel.StatusError, err.Error()
	}
	return traceModel.StatusSuccess, ""
}

func (r *Recorder) Retrieval(query string, results []commonModels.RetrievalResult, elapsed time.Duration, err error) {
	status, msg := statusOf(err)
	hits := make([]map[string]any, len(results))
	for i, res := range results {
		hits[i] = map[string]any{
			"document_id":   res.DocumentId,
			"document_name": res.DocumentName,
			"chunk_index":   res.ChunkIndex,
			"score":         res.RelevanceScore,
		}
	}
	r.add(traceModel.Event{
		Type:         traceModel.EventRetrieval,
		Name:         "vector_search",
		Data:         map[string]any{"query": query, "results_count": len(results), "results": hits},
		DurationMs:   elapsed.Milliseconds(),
		Status:       status,
		ErrorMessage: msg,
	})
}

func (r *Recorder) ModelCall(model string, tokensIn, tokensOut int, response string, elapsed time.Duration, err error) {
	status, msg := statusOf(err)
	if r != nil {
		metrics.RecordTokens(model, tokensIn, tokensOut)
	}
	r.add(traceModel.Event{
		Type:         traceModel.EventModelCall,
		Name:         model,
		Data:         map[string]any{"model": model, "response_preview": preview(response)},
		DurationMs:   elapsed.Milliseconds(),
		TokensIn:     tokensIn,
		TokensOut:    tokensOut,
		CostUSD:      EstimateCost(model, tokensIn, tokensOut),
		Status:       status,
		ErrorMessage: msg,
	})
}

func (r *Recorder) ToolCall(tool string, args map[string]any, output string, elapsed time.Duration, err error) {
	status, msg := statusOf(err)
	r.add(traceModel.Event{
		Type:         traceModel.EventToolCall,
		Name:         tool,
		Data:         map[string]any{"tool_name": tool, "args": args, "output_preview": preview(output)},
		DurationMs:   elapsed.Milliseconds(),
		Status:       status,
		ErrorMessage: msg,
	})
}

func (r *Recorder) Validation(kind string, valid bool, problems []string) {
	status := traceModel.StatusSuccess
	if !valid {
		status = traceModel.StatusRetry
	}
	r.add(traceModel.Event{
		Type:   traceModel.EventValidation,
		Name:   kind,
		Data:   map[string]any{"validation_type": kind, "is_valid": valid, "errors": problems},
		Status: status,
	})
}

func (r *Recorder) Error(kind string, err error) {
	r.add(traceModel.Event{
		Type:         traceModel.EventError,
		Name:         kind,
		Data:         map[string]any{"error_type": kind},
		Status:       traceModel.StatusError,
		ErrorMessage: err.Error(),
	})
}

func (r *Recorder) Events() []traceModel.Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]traceModel.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Summary() commonModels.TraceSummary {
	if r == nil {
		return commonModels.TraceSummary{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s := commonModels.TraceSummary{
		TraceId:     r.traceId,
		EventCount:  len(r.events),
		EventCounts: make(map[string]int),
	}
	for _, e := range r.events {
		s.EventCounts[string(e.Type)]++
		s.TotalDurationMs += e.DurationMs
		s.TokensIn += e.TokensIn
		s.TokensOut += e.TokensOut
		s.CostUSD += e.CostUSD
		if e.Status == traceModel.StatusError {
			s.HasErrors = true
		}
	}
	return s
}

// Flush hands the recorded events to the trace store under the recorder's trace id.
// A nil recorder, a nil store or an empty recording writes nothing.
func (r *Recorder) Flush(ctx context.Context, store traceModel.TraceStore, sessionId string) error {
	if r == nil || store == nil {
		return nil
	}
	events := r.Events()
	if len(events) == 0 || r.traceId == "" {
		return nil
	}
	err := store.SaveTrace(ctx, traceModel.Trace{RunId: r.traceId, SessionId: sessionId, Events: events})
	if err != nil {
		return fmt.Errorf("flushing trace %s: %w", r.traceId, err)
	}
	return nil
}

func preview(s string) string {
	const limit = 500
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
