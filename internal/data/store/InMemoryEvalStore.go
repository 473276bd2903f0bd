package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/evalModel"
)

type InMemoryEvalStore struct {
	mu      sync.RWMutex
	runs    map[string]evalModel.EvalRun
	results map[string][]evalModel.EvalResult
}

func InitInMemoryEvalStore() *InMemoryEvalStore {
	return &InMemoryEvalStore{
		runs:    make(map[string]evalModel.EvalRun),
		results: make(map[string][]evalModel.EvalResult),
	}
}

func (s *InMemoryEvalStore) SaveRun(ctx context.Context, run evalModel.EvalRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.Id] = run
	return nil
}

func (s *InMemoryEvalStore) GetRun(ctx context.Context, id string) (evalModel.EvalRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return run, fmt.Errorf("eval run %s: %w", id, commonModels.ErrNotFound)
	}
	return run, nil
}

func (s *InMemoryEvalStore) ListRuns(ctx context.Context, filter evalModel.ListFilter) ([]evalModel.EvalRun, int, error) {
	s.mu.RLock()
	runs := make([]evalModel.EvalRun, 0, len(s.runs))
	for _, r := range s.runs {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		runs = append(runs, r)
	}
	s.mu.RUnlock()

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	start, end := filter.Page.Bounds(len(runs))
	return runs[start:end], len(runs), nil
}

func (s *InMemoryEvalStore) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[id]; !ok {
		return fmt.Errorf("eval run %s: %w", id, commonModels.ErrNotFound)
	}
	delete(s.runs, id)
	delete(s.results, id)
	return nil
}

func (s *InMemoryEvalStore) UpdateRun(ctx context.Context, id string, mutate func(run *evalModel.EvalRun) error) (evalModel.EvalRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return run, fmt.Errorf("eval run %s: %w", id, commonModels.ErrNotFound)
	}
	if err := mutate(&run); err != nil {
		return s.runs[id], err
	}
	s.runs[id] = run
	return run, nil
}

func (s *InMemoryEvalStore) AddResult(ctx context.Context, result evalModel.EvalResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[result.EvalRunId]; !ok {
		return fmt.Errorf("eval run %s: %w", result.EvalRunId, commonModels.ErrNotFound)
	}
	s.results[result.EvalRunId] = append(s.results[result.EvalRunId], result)
	return nil
}

func (s *InMemoryEvalStore) GetResults(ctx context.Context, runId string) ([]evalModel.EvalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]evalModel.EvalResult, len(s.results[runId]))
	copy(out, s.results[runId])
	return out, nil
}
