package rag

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/ragops/internal/adapter/utils"
	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/jobModel"
	"github.com/akolanti/ragops/internal/domain/traceModel"
	"github.com/akolanti/ragops/internal/metrics"
	"github.com/akolanti/ragops/internal/rag/agent"
	"github.com/akolanti/ragops/internal/rag/ingest"
	"github.com/akolanti/ragops/internal/rag/retrieval"
	"github.com/akolanti/ragops/internal/rag/vectorDB"
	"github.com/akolanti/ragops/internal/tracing"
	"github.com/akolanti/ragops/pkg/logger_i"
)

// EvalRunner executes a stored evaluation run to a terminal status.
type EvalRunner interface {
	Run(ctx context.Context, runId string) error
}

// Service is the only thing workers call. It turns a queued job into a finished one.
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job, history []commonModels.ChatMessage) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	RunEvaluation(ctx context.Context, job jobModel.Job) jobModel.Job
}

type Dependencies struct {
	Retrieval retrieval.Service
	Agent     agent.Agent
	// Cache is optional; nil disables the semantic answer cache.
	Cache  vectorDB.AnswerCache
	Ingest ingest.Service
	Evals  EvalRunner
	// Traces is optional; nil keeps recorded events in the response summary only.
	Traces traceModel.TraceStore
}

type service struct {
	retrieval retrieval.Service
	agent     agent.Agent
	cache     vectorDB.AnswerCache
	ingest    ingest.Service
	evals     EvalRunner
	traces    traceModel.TraceStore
	logger    *logger_i.Logger
}

func NewService(deps Dependencies) Service {
	return &service{
		retrieval: deps.Retrieval,
		agent:     deps.Agent,
		cache:     deps.Cache,
		ingest:    deps.Ingest,
		evals:     deps.Evals,
		traces:    deps.Traces,
		logger:    logger_i.NewLogger("rag_service"),
	}
}

func (s *service) ProcessRequest(ctx context.Context, jobt jobModel.Job, history []commonModels.ChatMessage) jobModel.Job {
	inMethodLogger := s.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("jobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, config.QueryJobTimeout)
	defer cancel()

	recorder := tracing.NewRecorder(jobt.TraceId)
	processContext = tracing.WithRecorder(processContext, recorder)
	defer s.flushTrace(ctx, inMethodLogger, recorder, jobt.ChatId)

	jobt.CurrentStep = jobModel.UserQueryInit
	useCache := s.cache != nil && len(jobt.JobPayload.DocumentIds) == 0

	queryVector, err := s.executeEmbeddingStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "EMBEDDING_FAILURE", isRetryable(err))
	}

	if useCache {
		if cached, found := s.executeCacheCheckStep(processContext, inMethodLogger, &jobt, queryVector); found {
			cached.TraceId = jobt.TraceId
			return returnOutput(jobt, cached)
		}
	}

	answer, err := s.executeAgentStep(processContext, inMethodLogger, &jobt, queryVector, history)
	if err != nil {
		return s.jobError(jobt, err, "AGENT_FAILURE", isRetryable(err))
	}

	if useCache && !answer.IsRefusal {
		go s.saveToCache(ctx, queryVector, answer)
	}

	return returnOutput(jobt, answer)
}

func (s *service) saveToCache(ctx context.Context, vector []float32, answer commonModels.AgentResponse) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.cache.SaveToCache(saveCtx, utils.GetNewUUID(), vector, answer); err != nil {
		s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Failed to save to cache", "error", err)
	}
}

// flushTrace persists the request's events even when the request was cancelled.
func (s *service) flushTrace(ctx context.Context, log *logger_i.Logger, recorder *tracing.Recorder, sessionId string) {
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := recorder.Flush(flushCtx, s.traces, sessionId); err != nil {
		log.Warn("Could not store trace", "error", err)
	}
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	job.CurrentStep = jobModel.IngestProcessing
	if err := s.ingest.ProcessDocument(ctx, job.JobPayload.DocumentId, job.JobPayload.IngestURL); err != nil {
		// the document record already carries the failure; reprocess is the retry path
		return s.jobError(job, err, "INGESTION_FAILURE", false)
	}
	job.CurrentStep = jobModel.Complete
	return job
}

func (s *service) RunEvaluation(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("eval_run", time.Since(start)) }()

	job.CurrentStep = jobModel.EvalProcessing
	if s.evals == nil {
		return s.jobError(job, errors.New("evaluation runner not configured"), "EVAL_FAILURE", false)
	}
	if err := s.evals.Run(ctx, job.JobPayload.EvalRunId); err != nil {
		return s.jobError(job, err, "EVAL_FAILURE", false)
	}
	job.CurrentStep = jobModel.Complete
	return job
}
