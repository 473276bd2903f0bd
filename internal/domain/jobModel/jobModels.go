package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/ragops/internal/domain/commonModels"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	UserQueryInit   InternalStatus = "Init"
	CacheCall       InternalStatus = "CacheCall"
	RetrievalCall   InternalStatus = "Retrieval"
	LLMCall         InternalStatus = "LLM"
	RedisCall       InternalStatus = "Redis"
	RefusalDecision InternalStatus = "Refusal"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	EvalInit         InternalStatus = "EvalInit"
	EvalProcessing   InternalStatus = "EvalProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery     JobType = "Query"
	JobTypeIngest    JobType = "Ingest"
	JobTypeReprocess JobType = "Reprocess"
	JobTypeEval      JobType = "Eval"
)

type Job struct {
	Id          string         `json:"id"`
	ChatId      string         `json:"chat_id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Question    string                      `json:"question,omitempty"`
	MaxSources  int                         `json:"max_sources,omitempty"`
	// DocumentIds restricts retrieval; empty means the whole corpus.
	DocumentIds []string                    `json:"document_ids,omitempty"`
	Response    *commonModels.AgentResponse `json:"response,omitempty"`

	DocumentId     string `json:"document_id,omitempty"`
	IngestFileName string `json:"ingest_file_name,omitempty"`
	IngestURL      string `json:"ingest_url,omitempty"`

	EvalRunId string `json:"eval_run_id,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// MessageStore keeps chat session history, newest last.
type MessageStore interface {
	ValidateChatId(ctx context.Context, id string) bool
	InitNewChat(ctx context.Context, id string) error
	AppendMessages(ctx context.Context, id string, messages ...commonModels.ChatMessage) error
	GetMessageHistory(ctx context.Context, chatId string, limit int) ([]commonModels.ChatMessage, error)
}
