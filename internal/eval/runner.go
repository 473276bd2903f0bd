package eval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/evalModel"
	"github.com/akolanti/ragops/internal/domain/traceModel"
	"github.com/akolanti/ragops/internal/events"
	"github.com/akolanti/ragops/internal/metrics"
	"github.com/akolanti/ragops/internal/rag/agent"
	"github.com/akolanti/ragops/internal/tracing"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var logger = logger_i.NewLogger("eval")

// Runner executes one run's cases strictly in order. Cancellation is checked
// between cases; a case already started always completes and is recorded.
type Runner struct {
	store     evalModel.EvalStore
	agent     agent.Agent
	datasets  *Datasets
	scorer    *Scorer
	publisher events.Publisher
	traces    traceModel.TraceStore
}

// NewRunner takes an optional trace store; each case's events are stored under
// the case trace id with session "eval:<run id>".
func NewRunner(store evalModel.EvalStore, a agent.Agent, datasets *Datasets, scorer *Scorer, publisher events.Publisher, traces traceModel.TraceStore) *Runner {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Runner{
		store:     store,
		agent:     a,
		datasets:  datasets,
		scorer:    scorer,
		publisher: publisher,
		traces:    traces,
	}
}

// TraceSession groups the traces of one eval run.
func TraceSession(runId string) string {
	return "eval:" + runId
}

func (r *Runner) Run(ctx context.Context, runId string) error {
	log := logger.WithTrace(ctx, config.TRACE_ID_KEY).With("evalId", runId)
	ctx, span := otel.Tracer("ragops/eval").Start(ctx, "eval.Run")
	defer span.End()

	run, err := r.store.UpdateRun(ctx, runId, func(run *evalModel.EvalRun) error {
		if run.Status == evalModel.RunCancelled {
			return evalModel.ErrRunCancelled
		}
		if run.Status != evalModel.RunPending {
			return fmt.Errorf("%w: cannot start a %s run", evalModel.ErrInvalidTransition, run.Status)
		}
		now := time.Now().UTC()
		run.Status = evalModel.RunRunning
		run.StartedAt = &now
		return nil
	})
	if errors.Is(err, evalModel.ErrRunCancelled) {
		log.Info("Run cancelled before start")
		return nil
	}
	if err != nil {
		return fmt.Errorf("starting eval run %s: %w", runId, err)
	}

	dataset, err := r.datasets.Load(run.DatasetName)
	if err != nil {
		r.fail(ctx, runId, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	total := len(dataset.Cases)
	if _, err := r.store.UpdateRun(ctx, runId, func(run *evalModel.EvalRun) error {
		run.TotalCases = total
		return nil
	}); err != nil {
		return fmt.Errorf("recording total cases: %w", err)
	}
	log.Info("Eval run started", "dataset", run.DatasetName, "cases", total)

	for i, evalCase := range dataset.Cases {
		current, err := r.store.GetRun(ctx, runId)
		if errors.Is(err, commonModels.ErrNotFound) {
			log.Info("Eval run deleted while running")
			return nil
		}
		if err != nil {
			return fmt.Errorf("checking eval run status: %w", err)
		}
		if current.Status == evalModel.RunCancelled {
			log.Info("Eval run cancelled", "completed", current.CompletedCases)
			r.publish(ctx, events.EvalCancelled, current)
			return nil
		}
		if err := ctx.Err(); err != nil {
			r.fail(ctx, runId, err)
			return err
		}

		result := r.runCase(ctx, runId, evalCase)
		err = r.store.AddResult(ctx, result)
		if errors.Is(err, commonModels.ErrNotFound) {
			log.Info("Eval run deleted while running, dropping in-flight result", "caseId", evalCase.CaseId)
			return nil
		}
		if err != nil {
			r.fail(ctx, runId, err)
			return fmt.Errorf("recording result for case %s: %w", evalCase.CaseId, err)
		}
		metrics.RecordEvalCase(string(result.Status))

		completed := i + 1
		if _, err := r.store.UpdateRun(ctx, runId, func(run *evalModel.EvalRun) error {
			run.CompletedCases = completed
			return nil
		}); err != nil {
			return fmt.Errorf("recording progress: %w", err)
		}
	}

	results, err := r.store.GetResults(ctx, runId)
	if err != nil {
		r.fail(ctx, runId, err)
		return fmt.Errorf("loading results: %w", err)
	}
	aggregate := Aggregate(results, total)

	final, err := r.store.UpdateRun(ctx, runId, func(run *evalModel.EvalRun) error {
		if run.Status == evalModel.RunCancelled {
			return evalModel.ErrRunCancelled
		}
		now := time.Now().UTC()
		run.Metrics = aggregate
		run.Status = evalModel.RunCompleted
		run.CompletedAt = &now
		return nil
	})
	if errors.Is(err, evalModel.ErrRunCancelled) {
		log.Info("Eval run cancelled after its last case")
		r.publish(ctx, events.EvalCancelled, final)
		return nil
	}
	if err != nil {
		return fmt.Errorf("completing eval run: %w", err)
	}

	span.SetAttributes(
		attribute.Int("cases", total),
		attribute.Float64("groundedness", aggregate.GroundednessScore),
	)
	log.Info("Eval run completed", "groundedness", aggregate.GroundednessScore, "hallucinationRate", aggregate.HallucinationRate, "p95", aggregate.LatencyP95Ms)
	r.publish(ctx, events.EvalCompleted, final)
	return nil
}

func (r *Runner) runCase(ctx context.Context, runId string, evalCase evalModel.EvalCase) evalModel.EvalResult {
	traceId := uuid.NewString()
	recorder := tracing.NewRecorder(traceId)
	ctx = tracing.WithRecorder(context.WithValue(ctx, config.TRACE_ID_KEY, traceId), recorder)
	ctx, span := otel.Tracer("ragops/eval").Start(ctx, "eval.Case")
	defer span.End()
	span.SetAttributes(attribute.String("case_id", evalCase.CaseId))

	result := evalModel.EvalResult{
		Id:             uuid.NewString(),
		EvalRunId:      runId,
		CaseId:         evalCase.CaseId,
		Question:       evalCase.Question,
		ExpectedAnswer: evalCase.ExpectedAnswer,
		CreatedAt:      time.Now().UTC(),
	}

	start := time.Now()
	resp, err := r.agent.Ask(ctx, agent.Request{Question: evalCase.Question})
	latency := time.Since(start)
	summary := recorder.Summary()
	result.TraceSummary = &summary
	if flushErr := recorder.Flush(context.WithoutCancel(ctx), r.traces, TraceSession(runId)); flushErr != nil {
		logger.WithTrace(ctx, config.TRACE_ID_KEY).Warn("Could not store eval case trace", "caseId", evalCase.CaseId, "error", flushErr)
	}

	if err != nil {
		logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Eval case failed", "caseId", evalCase.CaseId, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		result.Status = evalModel.ResultError
		result.ErrorMessage = err.Error()
		return result
	}

	score := r.scorer.ScoreCase(resp, evalCase.ExpectedAnswer, latency)
	result.ActualAnswer = resp.Content
	result.Citations = resp.Citations
	result.IsRefusal = resp.IsRefusal
	result.LatencyMs = latency.Milliseconds()
	result.GroundednessScore = score.Groundedness
	result.HallucinationDetected = score.Hallucination
	result.SchemaCompliant = score.SchemaCompliant
	result.ToolCallsCorrect = score.ToolCallsCorrect
	result.Status = evalModel.ResultFailed
	if score.Passed {
		result.Status = evalModel.ResultPassed
	}
	return result
}

// fail marks the run failed unless it was cancelled meanwhile.
func (r *Runner) fail(ctx context.Context, runId string, cause error) {
	ctx = context.WithoutCancel(ctx)
	run, err := r.store.UpdateRun(ctx, runId, func(run *evalModel.EvalRun) error {
		if run.Status == evalModel.RunCancelled {
			return evalModel.ErrRunCancelled
		}
		now := time.Now().UTC()
		run.Status = evalModel.RunFailed
		run.ErrorMessage = cause.Error()
		run.CompletedAt = &now
		return nil
	})
	if err != nil {
		if !errors.Is(err, evalModel.ErrRunCancelled) {
			logger.Error("Failed to mark eval run failed", "evalId", runId, "error", err)
		}
		return
	}
	logger.Error("Eval run failed", "evalId", runId, "error", cause)
	r.publish(ctx, events.EvalFailed, run)
}

func (r *Runner) publish(ctx context.Context, event string, run evalModel.EvalRun) {
	err := r.publisher.Publish(ctx, event, events.EvalEvent{
		EvalId:            run.Id,
		Status:            string(run.Status),
		CompletedCases:    run.CompletedCases,
		TotalCases:        run.TotalCases,
		GroundednessScore: run.GroundednessScore,
		HallucinationRate: run.HallucinationRate,
		Error:             run.ErrorMessage,
		At:                time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("Failed to publish eval event", "event", event, "evalId", run.Id, "error", err)
	}
}
