package rag

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/jobModel"
	"github.com/akolanti/ragops/internal/metrics"
	"github.com/akolanti/ragops/internal/rag/agent"
	"github.com/akolanti/ragops/internal/rag/llm"
	"github.com/akolanti/ragops/pkg/logger_i"
)

func returnOutput(job jobModel.Job, ans commonModels.AgentResponse) jobModel.Job {
	job.JobPayload.Response = &ans
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessRequest", "step", job.CurrentStep)
	return job
}

func isRetryable(err error) bool {
	return errors.Is(err, llm.ErrRateLimited) || errors.Is(err, context.DeadlineExceeded)
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "jobId", job.Id, "error", err)

	code := http.StatusInternalServerError
	text := "Internal Server Error"
	if errors.Is(err, llm.ErrRateLimited) {
		code = http.StatusTooManyRequests
		text = "Upstream model rate limited"
	}
	job.Error = jobModel.JobError{
		Code:    code,
		Message: text,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]float32, error) {
	*job = logOutput(*job, jobModel.RetrievalCall, log)
	return s.retrieval.EmbedQuery(ctx, job.JobPayload.Question)
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, emb []float32) (commonModels.AgentResponse, bool) {
	*job = logOutput(*job, jobModel.CacheCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	ans, found, err := s.cache.GetCachedAnswer(ctx, emb)
	if err != nil {
		log.Warn("Cache lookup failed", "error", err)
		return commonModels.AgentResponse{}, false
	}
	return ans, found
}

func (s *service) executeAgentStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, emb []float32, history []commonModels.ChatMessage) (commonModels.AgentResponse, error) {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("agent", time.Since(start)) }()

	return s.agent.Ask(ctx, agent.Request{
		Question:    job.JobPayload.Question,
		MaxSources:  job.JobPayload.MaxSources,
		DocumentIds: job.JobPayload.DocumentIds,
		History:     history,
		QueryVector: emb,
	})
}
