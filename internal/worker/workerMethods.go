package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/jobModel"
	"github.com/akolanti/ragops/internal/metrics"
)

func executeJob(job jobModel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()

	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, timeoutFor(job.JobType))
	defer cancel()
	log := logger.WithTrace(ctx, config.TRACE_ID_KEY).With("jobId", job.Id, "jobType", job.JobType)
	log.Debug("Processing job")

	job.Status = jobModel.JobStatusRunning
	saveJobState(ctx, job)

	switch job.JobType {
	case jobModel.JobTypeIngest, jobModel.JobTypeReprocess:
		job = _ragService.IngestDocument(ctx, job)
	case jobModel.JobTypeEval:
		job = _ragService.RunEvaluation(ctx, job)
	default:
		job = processQuery(ctx, job)
	}

	if job.Status != jobModel.JobStatusError {
		job.Status = jobModel.JobStatusComplete
	}
	job.EndTime = time.Now()
	// the job record must land even if the work used up the deadline
	saveJobState(context.WithoutCancel(ctx), job)
	log.Info("Finished job", "status", job.Status, "elapsed", time.Since(start))
}

func processQuery(ctx context.Context, job jobModel.Job) jobModel.Job {
	history := _jobService.LoadHistory(ctx, job.ChatId, config.ChatHistoryLength)
	job = _ragService.ProcessRequest(ctx, job, history)
	if job.Status != jobModel.JobStatusError {
		job.CurrentStep = jobModel.RedisCall
		_jobService.RecordExchange(ctx, job)
		job.CurrentStep = jobModel.Complete
	}
	return job
}

func timeoutFor(jobType jobModel.JobType) time.Duration {
	switch jobType {
	case jobModel.JobTypeIngest, jobModel.JobTypeReprocess:
		return config.IngestJobTimeout
	case jobModel.JobTypeEval:
		return config.EvalJobTimeout
	default:
		return config.QueryJobTimeout
	}
}

// removeWorker is called after the slot is released: tryRetire already decremented on idle exits.
func removeWorker(reason string) {
	if reason != idleReason {
		atomic.AddInt64(&currentWorkerCount, -1)
	}
	workerWaitGroup.Done()
	metrics.DecrementActiveWorkerCount()
	logger.Info("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&currentWorkerCount))
}

func saveJobState(ctx context.Context, job jobModel.Job) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Failed to update job state", "jobId", job.Id, "error", err)
	}
}
