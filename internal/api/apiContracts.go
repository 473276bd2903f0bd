package api

import (
	"time"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/evalModel"
	"github.com/akolanti/ragops/internal/domain/traceModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	SessionId string            `json:"session_id,omitempty" example:"chat_550"`
	JobType   string            `json:"job_type,omitempty" example:"Query"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status      string                      `json:"status"`
	CurrentStep string                      `json:"current_step,omitempty"`
	Question    string                      `json:"question,omitempty"`
	Response    *commonModels.AgentResponse `json:"response,omitempty"`
	DocumentId  string                      `json:"document_id,omitempty"`
	EvalId      string                      `json:"eval_id,omitempty"`
}

type InitJobResponse struct {
	Id         string `json:"id"`
	StatusURL  string `json:"status_url"`
	ResourceId string `json:"resource_id,omitempty"`
}

type ChatSyncResponse struct {
	SessionId string `json:"session_id"`
	commonModels.AgentResponse
}

type ChatHistoryResponse struct {
	SessionId string                     `json:"session_id"`
	Messages  []commonModels.ChatMessage `json:"messages"`
}

type DocumentResponse struct {
	Id               string    `json:"id"`
	Name             string    `json:"name"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	FileSize         int64     `json:"file_size"`
	Status           string    `json:"status"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	ChunkCount       int       `json:"chunk_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}

type EvalRunResponse struct {
	Id             string                 `json:"eval_id"`
	Name           string                 `json:"name"`
	DatasetName    string                 `json:"dataset_name"`
	Status         string                 `json:"status"`
	TotalCases     int                    `json:"total_cases"`
	CompletedCases int                    `json:"completed_cases"`
	Metrics        *evalModel.Metrics     `json:"metrics,omitempty"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	JobId          string                 `json:"job_id,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	StartedAt      *time.Time             `json:"started_at,omitempty"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
	Results        []evalModel.EvalResult `json:"results,omitempty"`
}

type EvalListResponse struct {
	Runs     []EvalRunResponse `json:"runs"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type DatasetListResponse struct {
	Datasets []evalModel.DatasetInfo `json:"datasets"`
}

type TraceListResponse struct {
	Traces   []traceModel.Summary `json:"traces"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

type TraceDetailResponse struct {
	RunId     string             `json:"run_id"`
	SessionId string             `json:"session_id,omitempty"`
	Events    []traceModel.Event `json:"events"`
	Summary   traceModel.Summary `json:"summary"`
}

type TraceEventsResponse struct {
	RunId  string             `json:"run_id"`
	Events []traceModel.Event `json:"events"`
}

type HealthResponse struct {
	Status           string `json:"status" example:"healthy"`
	Version          string `json:"version" example:"0.3.0"`
	RerankingEnabled bool   `json:"reranking_enabled"`
	VectorIndex      string `json:"vector_index" example:"qdrant"`
	Store            string `json:"store" example:"redis"`
}

// requests---------------------

type ChatRequest struct {
	Message     string   `json:"message" validate:"required"`
	SessionId   string   `json:"session_id,omitempty"`
	MaxSources  int      `json:"max_sources,omitempty"`
	DocumentIds []string `json:"document_ids,omitempty"`
}

type EvalRunRequest struct {
	Name        string `json:"name"`
	DatasetName string `json:"dataset_name" validate:"required"`
}
