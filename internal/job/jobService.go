package job

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/jobModel"
	"github.com/akolanti/ragops/internal/metrics"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/google/uuid"
)

var (
	ErrQueueFull      = errors.New("job queue is full")
	ErrUnknownSession = errors.New("unknown chat session")
)

type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	MessageStore      jobModel.MessageStore
	logger            *logger_i.Logger
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	MessageStore      jobModel.MessageStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		MessageStore:      cfg.MessageStore,
		logger:            logger_i.NewLogger("job_service"),
	}
}

// Submit stores the job as queued and hands it to the worker pool. The send blocks
// while the buffer is full, bounded by ctx.
func (s *Service) Submit(ctx context.Context, job jobModel.Job) (jobModel.Job, error) {
	log := s.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("jobId", job.Id, "jobType", job.JobType)

	job.Status = jobModel.JobStatusQueued
	if job.CreatedTime.IsZero() {
		job.CreatedTime = time.Now()
	}
	if job.CurrentStep == "" {
		job.CurrentStep = initialStep(job.JobType)
	}
	if err := s.JobStore.SaveJob(ctx, job); err != nil {
		log.Error("Failed to save queued job", "error", err)
		return job, err
	}

	select {
	case s.JobChannel <- job:
	case <-ctx.Done():
		s.JobStore.DeleteJob(context.WithoutCancel(ctx), job.Id)
		return job, ErrQueueFull
	}
	metrics.IncrementJobsInQueue()
	log.Info("Queued job")

	// a new worker every RequestsPerNewWorkerCount queries, and one per long-running job
	count := atomic.AddInt64(&s.RequestCount, 1)
	if count%config.RequestsPerNewWorkerCount == 0 || job.JobType != jobModel.JobTypeQuery {
		metrics.StartDispatcherSignalCount()
		select {
		case s.DispatcherChannel <- true:
		default:
			log.Debug("Dispatcher busy, skipping worker signal")
		}
	}
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (jobModel.Job, bool) {
	if id == "" {
		return jobModel.Job{}, false
	}
	return s.JobStore.GetJob(ctx, id)
}

// StartChat creates a session when sessionId is empty, and rejects unknown sessions otherwise.
func (s *Service) StartChat(ctx context.Context, sessionId string) (string, error) {
	if sessionId != "" {
		if !s.MessageStore.ValidateChatId(ctx, sessionId) {
			return "", ErrUnknownSession
		}
		return sessionId, nil
	}
	sessionId = uuid.NewString()
	if err := s.MessageStore.InitNewChat(ctx, sessionId); err != nil {
		return "", err
	}
	return sessionId, nil
}

// LoadHistory returns the most recent turns of a session, oldest first.
func (s *Service) LoadHistory(ctx context.Context, sessionId string, limit int) []commonModels.ChatMessage {
	if sessionId == "" {
		return nil
	}
	history, err := s.MessageStore.GetMessageHistory(ctx, sessionId, limit)
	if err != nil {
		s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Warn("Could not load chat history", "sessionId", sessionId, "error", err)
		return nil
	}
	return history
}

// RecordExchange appends the question and the answer of a finished query job to its session.
func (s *Service) RecordExchange(ctx context.Context, job jobModel.Job) {
	response := job.JobPayload.Response
	if job.ChatId == "" || response == nil {
		return
	}
	now := time.Now().UTC()
	err := s.MessageStore.AppendMessages(ctx, job.ChatId,
		commonModels.ChatMessage{Role: commonModels.RoleUser, Content: job.JobPayload.Question, CreatedAt: now},
		commonModels.ChatMessage{
			Role:      commonModels.RoleAssistant,
			Content:   response.Content,
			Citations: response.Citations,
			IsRefusal: response.IsRefusal,
			CreatedAt: now,
		},
	)
	if err != nil {
		s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Could not save chat exchange", "sessionId", job.ChatId, "error", err)
	}
}

func initialStep(jobType jobModel.JobType) jobModel.InternalStatus {
	switch jobType {
	case jobModel.JobTypeIngest, jobModel.JobTypeReprocess:
		return jobModel.IngestInit
	case jobModel.JobTypeEval:
		return jobModel.EvalInit
	default:
		return jobModel.UserQueryInit
	}
}
