package traceModel

import (
	"context"
	"time"

	"github.com/akolanti/ragops/internal/domain/commonModels"
)

type EventType string

const (
	EventRetrieval  EventType = "retrieval"
	EventModelCall  EventType = "model_call"
	EventToolCall   EventType = "tool_call"
	EventValidation EventType = "validation"
	EventError      EventType = "error"

	StatusSuccess = "success"
	StatusRetry   = "retry"
	StatusError   = "error"
)

func (t EventType) Valid() bool {
	switch t {
	case EventRetrieval, EventModelCall, EventToolCall, EventValidation, EventError:
		return true
	}
	return false
}

type Event struct {
	Type         EventType      `json:"event_type"`
	Name         string         `json:"event_name"`
	Data         map[string]any `json:"event_data,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	TokensIn     int            `json:"tokens_in,omitempty"`
	TokensOut    int            `json:"tokens_out,omitempty"`
	CostUSD      float64        `json:"cost_usd,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Trace is everything recorded while serving one request or one eval case.
// RunId is the trace id handed back to the caller.
type Trace struct {
	RunId     string  `json:"run_id"`
	SessionId string  `json:"session_id,omitempty"`
	Events    []Event `json:"events"`
}

// Summary is the per-run roll-up the trace list shows.
type Summary struct {
	RunId           string         `json:"run_id"`
	SessionId       string         `json:"session_id,omitempty"`
	EventCount      int            `json:"event_count"`
	EventCounts     map[string]int `json:"event_type_counts"`
	TotalDurationMs int64          `json:"total_duration_ms"`
	TokensIn        int            `json:"tokens_in"`
	TokensOut       int            `json:"tokens_out"`
	TotalTokens     int            `json:"total_tokens"`
	TotalCostUSD    float64        `json:"total_cost_usd"`
	HasErrors       bool           `json:"has_errors"`
	Status          string         `json:"status"`
	FirstEventAt    time.Time      `json:"first_event_at"`
	LastEventAt     time.Time      `json:"last_event_at"`
}

// Summarize rolls a trace up. A run with any error event has status error.
func Summarize(t Trace) Summary {
	s := Summary{
		RunId:       t.RunId,
		SessionId:   t.SessionId,
		EventCount:  len(t.Events),
		EventCounts: make(map[string]int),
		Status:      StatusSuccess,
	}
	for i, e := range t.Events {
		s.EventCounts[string(e.Type)]++
		s.TotalDurationMs += e.DurationMs
		s.TokensIn += e.TokensIn
		s.TokensOut += e.TokensOut
		s.TotalCostUSD += e.CostUSD
		if e.Status == StatusError {
			s.HasErrors = true
			s.Status = StatusError
		}
		if i == 0 || e.Timestamp.Before(s.FirstEventAt) {
			s.FirstEventAt = e.Timestamp
		}
		if e.Timestamp.After(s.LastEventAt) {
			s.LastEventAt = e.Timestamp
		}
	}
	s.TotalTokens = s.TokensIn + s.TokensOut
	return s
}

// Matches reports whether the run passes a list filter. An event type filter
// keeps runs that recorded at least one event of that type.
func (s Summary) Matches(filter ListFilter) bool {
	if filter.SessionId != "" && s.SessionId != filter.SessionId {
		return false
	}
	if filter.EventType != "" && s.EventCounts[string(filter.EventType)] == 0 {
		return false
	}
	return true
}

type ListFilter struct {
	SessionId string
	EventType EventType
	Page      commonModels.Page
}

// TraceStore keeps flushed traces, newest activity first.
type TraceStore interface {
	// SaveTrace replaces whatever was stored under the same run id.
	SaveTrace(ctx context.Context, trace Trace) error
	GetTrace(ctx context.Context, runId string) (Trace, error)
	ListTraces(ctx context.Context, filter ListFilter) ([]Summary, int, error)
	DeleteTrace(ctx context.Context, runId string) error
}
