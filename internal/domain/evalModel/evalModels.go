package evalModel

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/ragops/internal/domain/commonModels"
)

var (
	ErrInvalidTransition = errors.New("invalid eval run status transition")
	ErrRunCancelled      = errors.New("eval run cancelled")
)

type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

type ResultStatus string

const (
	ResultPending ResultStatus = "pending"
	ResultPassed  ResultStatus = "passed"
	ResultFailed  ResultStatus = "failed"
	ResultError   ResultStatus = "error"
)

type EvalCase struct {
	CaseId            string   `json:"case_id"`
	Question          string   `json:"question"`
	ExpectedAnswer    *string  `json:"expected_answer,omitempty"`
	ExpectedCitations []string `json:"expected_citations,omitempty"`
	Category          string   `json:"category,omitempty"`
	Difficulty        string   `json:"difficulty,omitempty"`
}

type EvalDataset struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Cases       []EvalCase `json:"cases"`
}

type DatasetInfo struct {
	Name        string `json:"name"`
	Filename    string `json:"filename"`
	Description string `json:"description,omitempty"`
	CaseCount   int    `json:"case_count"`
}

type EvalResult struct {
	Id                    string                     `json:"id"`
	EvalRunId             string                     `json:"eval_run_id"`
	CaseId                string                     `json:"case_id"`
	Question              string                     `json:"question"`
	ExpectedAnswer        *string                    `json:"expected_answer,omitempty"`
	ActualAnswer          string                     `json:"actual_answer,omitempty"`
	Citations             []commonModels.Citation    `json:"citations,omitempty"`
	GroundednessScore     float64                    `json:"groundedness_score"`
	HallucinationDetected bool                       `json:"hallucination_detected"`
	SchemaCompliant       bool                       `json:"schema_compliant"`
	ToolCallsCorrect      bool                       `json:"tool_calls_correct"`
	IsRefusal             bool                       `json:"is_refusal"`
	LatencyMs             int64                      `json:"latency_ms"`
	Status                ResultStatus               `json:"status"`
	ErrorMessage          string                     `json:"error_message,omitempty"`
	TraceSummary          *commonModels.TraceSummary `json:"trace_summary,omitempty"`
	CreatedAt             time.Time                  `json:"created_at"`
}

// Metrics is the run-level aggregate.
type Metrics struct {
	GroundednessScore float64 `json:"groundedness_score"`
	HallucinationRate float64 `json:"hallucination_rate"`
	SchemaCompliance  float64 `json:"schema_compliance"`
	ToolCorrectness   float64 `json:"tool_correctness"`
	LatencyP95Ms      float64 `json:"latency_p95_ms"`
}

type EvalRun struct {
	Id             string    `json:"eval_id"`
	Name           string    `json:"name"`
	DatasetName    string    `json:"dataset_name"`
	Status         RunStatus `json:"status"`
	TotalCases     int       `json:"total_cases"`
	CompletedCases int       `json:"completed_cases"`
	Metrics
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func (r EvalRun) IsTerminal() bool {
	return r.Status == RunCompleted || r.Status == RunFailed || r.Status == RunCancelled
}

type RunSnapshot struct {
	EvalId string `json:"eval_id"`
	Name   string `json:"name"`
	Metrics
}

type Comparison struct {
	RunA RunSnapshot `json:"run_a"`
	RunB RunSnapshot `json:"run_b"`
	Diff Metrics     `json:"diff"`
}

type ListFilter struct {
	Status RunStatus
	Page   commonModels.Page
}

// EvalStore owns runs and their results. Deleting a run deletes its results.
type EvalStore interface {
	SaveRun(ctx context.Context, run EvalRun) error
	GetRun(ctx context.Context, id string) (EvalRun, error)
	ListRuns(ctx context.Context, filter ListFilter) ([]EvalRun, int, error)
	DeleteRun(ctx context.Context, id string) error

	// UpdateRun applies mutate to the stored run atomically. A mutate error aborts the write.
	UpdateRun(ctx context.Context, id string, mutate func(run *EvalRun) error) (EvalRun, error)

	AddResult(ctx context.Context, result EvalResult) error
	GetResults(ctx context.Context, runId string) ([]EvalResult, error)
}
