package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/traceModel"
)

type InMemoryTraceStore struct {
	mu     sync.RWMutex
	traces map[string]traceModel.Trace
}

func InitInMemoryTraceStore() *InMemoryTraceStore {
	return &InMemoryTraceStore{traces: make(map[string]traceModel.Trace)}
}

func (s *InMemoryTraceStore) SaveTrace(ctx context.Context, trace traceModel.Trace) error {
	events := make([]traceModel.Event, len(trace.Events))
	copy(events, trace.Events)
	trace.Events = events

	s.mu.Lock()
	defer s.mu.Unlock()
	s.traces[trace.RunId] = trace
	return nil
}

func (s *InMemoryTraceStore) GetTrace(ctx context.Context, runId string) (traceModel.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trace, ok := s.traces[runId]
	if !ok {
		return trace, fmt.Errorf("trace %s: %w", runId, commonModels.ErrNotFound)
	}
	events := make([]traceModel.Event, len(trace.Events))
	copy(events, trace.Events)
	trace.Events = events
	return trace, nil
}

func (s *InMemoryTraceStore) ListTraces(ctx context.Context, filter traceModel.ListFilter) ([]traceModel.Summary, int, error) {
	s.mu.RLock()
	summaries := make([]traceModel.Summary, 0, len(s.traces))
	for _, t := range s.traces {
		if summary := traceModel.Summarize(t); summary.Matches(filter) {
			summaries = append(summaries, summary)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].LastEventAt.Equal(summaries[j].LastEventAt) {
			return summaries[i].LastEventAt.After(summaries[j].LastEventAt)
		}
		return summaries[i].RunId > summaries[j].RunId
	})
	start, end := filter.Page.Bounds(len(summaries))
	return summaries[start:end], len(summaries), nil
}

func (s *InMemoryTraceStore) DeleteTrace(ctx context.Context, runId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.traces[runId]; !ok {
		return fmt.Errorf("trace %s: %w", runId, commonModels.ErrNotFound)
	}
	delete(s.traces, runId)
	return nil
}
