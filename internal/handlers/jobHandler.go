package handlers

import (
	"context"
	"net/http"

	"github.com/akolanti/ragops/internal/adapter"
	"github.com/akolanti/ragops/internal/adapter/utils"
	"github.com/akolanti/ragops/internal/api"
	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/akolanti/ragops/internal/domain/traceModel"
	"github.com/akolanti/ragops/internal/eval"
	"github.com/akolanti/ragops/internal/job"
	"github.com/akolanti/ragops/internal/rag"
	"github.com/akolanti/ragops/internal/rag/ingest"
	"github.com/akolanti/ragops/pkg/logger_i"
)

// HealthInfo describes the wired backends. Ping, when set, decides healthy or degraded.
type HealthInfo struct {
	RerankingEnabled bool
	VectorIndex      string
	Store            string
	Ping             func(ctx context.Context) error
}

type Dependencies struct {
	Jobs      *job.Service
	Rag       rag.Service
	Ingest    ingest.Service
	Documents docModel.DocumentStore
	Evals     eval.Service
	Traces    traceModel.TraceStore
	Health    HealthInfo
	UploadDir string
}

type Handler struct {
	jobs      *job.Service
	rag       rag.Service
	ingest    ingest.Service
	documents docModel.DocumentStore
	evals     eval.Service
	traces    traceModel.TraceStore
	health    HealthInfo
	uploadDir string
	logger    *logger_i.Logger
}

func NewHandler(deps Dependencies) *Handler {
	if deps.UploadDir == "" {
		deps.UploadDir = config.UploadDir
	}
	h := &Handler{
		jobs:      deps.Jobs,
		rag:       deps.Rag,
		ingest:    deps.Ingest,
		documents: deps.Documents,
		evals:     deps.Evals,
		traces:    deps.Traces,
		health:    deps.Health,
		uploadDir: deps.UploadDir,
		logger:    logger_i.NewLogger("Handler"),
	}
	h.logger.Info("Starting handlers")
	return h
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a chat, ingest or eval job. Finished chat jobs carry the agent response.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse  "Job not found"
// @Security     BearerAuth
// @Router       /status/{id} [get]
func (h *Handler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	result, found := h.jobs.GetJob(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// HealthHandler godoc
// @Summary      Service health
// @Description  Reports the version and which backends are wired. Always 200; status is "degraded" when the store ping fails.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.health.Ping != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			h.logger.Warn("Health ping failed", "error", err)
			status = "degraded"
		}
	}
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{
		Status:           status,
		Version:          config.ServiceVersion,
		RerankingEnabled: h.health.RerankingEnabled,
		VectorIndex:      h.health.VectorIndex,
		Store:            h.health.Store,
	})
}
