package eval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/ragops/internal/domain/evalModel"
	"github.com/google/uuid"
)

// Service is the bookkeeping side of evaluations used by the HTTP layer.
// Running a run is the Runner's job.
type Service interface {
	ListDatasets() ([]evalModel.DatasetInfo, error)
	CreateRun(ctx context.Context, name string, datasetName string) (evalModel.EvalRun, error)
	GetRun(ctx context.Context, id string) (evalModel.EvalRun, []evalModel.EvalResult, error)
	ListRuns(ctx context.Context, filter evalModel.ListFilter) ([]evalModel.EvalRun, int, error)
	DeleteRun(ctx context.Context, id string) error
	CancelRun(ctx context.Context, id string) (evalModel.EvalRun, error)
	CompareRuns(ctx context.Context, a string, b string) (evalModel.Comparison, error)
}

type service struct {
	store    evalModel.EvalStore
	datasets *Datasets
}

func NewService(store evalModel.EvalStore, datasets *Datasets) Service {
	return &service{store: store, datasets: datasets}
}

func (s *service) ListDatasets() ([]evalModel.DatasetInfo, error) {
	return s.datasets.List()
}

// CreateRun validates the dataset up front so a bad name fails the request, not the job.
func (s *service) CreateRun(ctx context.Context, name string, datasetName string) (evalModel.EvalRun, error) {
	dataset, err := s.datasets.Load(datasetName)
	if err != nil {
		return evalModel.EvalRun{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = datasetName
	}
	run := evalModel.EvalRun{
		Id:          uuid.NewString(),
		Name:        name,
		DatasetName: datasetName,
		Status:      evalModel.RunPending,
		TotalCases:  len(dataset.Cases),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		return evalModel.EvalRun{}, fmt.Errorf("saving eval run: %w", err)
	}
	return run, nil
}

func (s *service) GetRun(ctx context.Context, id string) (evalModel.EvalRun, []evalModel.EvalResult, error) {
	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		return run, nil, err
	}
	results, err := s.store.GetResults(ctx, id)
	if err != nil {
		return run, nil, fmt.Errorf("loading results: %w", err)
	}
	return run, results, nil
}

func (s *service) ListRuns(ctx context.Context, filter evalModel.ListFilter) ([]evalModel.EvalRun, int, error) {
	return s.store.ListRuns(ctx, filter)
}

func (s *service) DeleteRun(ctx context.Context, id string) error {
	return s.store.DeleteRun(ctx, id)
}

// CancelRun is allowed only from pending or running.
func (s *service) CancelRun(ctx context.Context, id string) (evalModel.EvalRun, error) {
	return s.store.UpdateRun(ctx, id, func(run *evalModel.EvalRun) error {
		if run.Status != evalModel.RunPending && run.Status != evalModel.RunRunning {
			return fmt.Errorf("%w: cannot cancel a %s run", evalModel.ErrInvalidTransition, run.Status)
		}
		now := time.Now().UTC()
		run.Status = evalModel.RunCancelled
		run.CompletedAt = &now
		return nil
	})
}

func (s *service) CompareRuns(ctx context.Context, a string, b string) (evalModel.Comparison, error) {
	runA, err := s.store.GetRun(ctx, a)
	if err != nil {
		return evalModel.Comparison{}, err
	}
	runB, err := s.store.GetRun(ctx, b)
	if err != nil {
		return evalModel.Comparison{}, err
	}
	return Compare(runA, runB), nil
}
