package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/akolanti/ragops/internal/adapter"
	"github.com/akolanti/ragops/internal/adapter/utils"
	"github.com/akolanti/ragops/internal/api"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/evalModel"
	"github.com/akolanti/ragops/internal/domain/jobModel"
	"github.com/akolanti/ragops/internal/eval"
)

// ListEvalsHandler godoc
// @Summary      List eval runs
// @Tags         Evals
// @Produce      json
// @Param        page       query  int     false  "Page number (default 1)"
// @Param        page_size  query  int     false  "Page size (default 20, max 100)"
// @Param        status     query  string  false  "pending, running, completed, failed or cancelled"
// @Success      200  {object}  api.EvalListResponse
// @Security     BearerAuth
// @Router       /evals [get]
func (h *Handler) ListEvalsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	page := commonModels.Page{
		Number: utils.GetQueryInt(r, "page", 1),
		Size:   utils.GetQueryInt(r, "page_size", 20),
	}.Normalize()
	runs, total, err := h.evals.ListRuns(r.Context(), evalModel.ListFilter{
		Status: evalModel.RunStatus(r.URL.Query().Get("status")),
		Page:   page,
	})
	if err != nil {
		h.writeStoreError(w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToEvalList(runs, total, page))
}

// ListDatasetsHandler godoc
// @Summary      List eval datasets
// @Description  One entry per well-formed dataset file in the dataset directory.
// @Tags         Evals
// @Produce      json
// @Success      200  {object}  api.DatasetListResponse
// @Security     BearerAuth
// @Router       /evals/datasets [get]
func (h *Handler) ListDatasetsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	datasets, err := h.evals.ListDatasets()
	if err != nil {
		h.writeStoreError(w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.DatasetListResponse{Datasets: datasets})
}

// CreateEvalHandler godoc
// @Summary      Start an eval run
// @Description  Validates the dataset, creates a pending run and queues it.
// @Tags         Evals
// @Accept       json
// @Produce      json
// @Param        request  body      api.EvalRunRequest  true  "Run name and dataset"
// @Success      201      {object}  api.EvalRunResponse
// @Failure      400      {object}  api.JobResponse  "Missing or malformed dataset"
// @Failure      404      {object}  api.JobResponse  "Dataset not found"
// @Security     BearerAuth
// @Router       /evals [post]
func (h *Handler) CreateEvalHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	defer r.Body.Close()

	var req api.EvalRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.DatasetName) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "dataset_name is required")
		return
	}

	run, err := h.evals.CreateRun(r.Context(), req.Name, req.DatasetName)
	switch {
	case errors.Is(err, eval.ErrDatasetNotFound):
		WriteErrorResponse(w, http.StatusNotFound, req.DatasetName, "Dataset not found")
		return
	case errors.Is(err, eval.ErrMalformedDataset):
		WriteErrorResponse(w, http.StatusBadRequest, req.DatasetName, err.Error())
		return
	case err != nil:
		h.writeStoreError(w, req.DatasetName, err)
		return
	}

	queued, err := h.jobs.Submit(r.Context(), jobModel.Job{
		Id:         utils.GetNewUUID(),
		TraceId:    traceIdFrom(r.Context()),
		JobType:    jobModel.JobTypeEval,
		JobPayload: jobModel.JobPayload{EvalRunId: run.Id},
	})
	if err != nil {
		// an unqueued run would sit in pending forever
		_ = h.evals.DeleteRun(r.Context(), run.Id)
		h.writeSubmitError(w, run.Id, err)
		return
	}

	resp := adapter.ToEvalRunResponse(run, nil)
	resp.JobId = queued.Id
	writeJsonResponse(w, http.StatusCreated, resp)
}

// GetEvalHandler godoc
// @Summary      Get an eval run
// @Description  The run with its per-case results. Metrics are present once the run has completed.
// @Tags         Evals
// @Produce      json
// @Param        id   path      string  true  "Eval run ID"
// @Success      200  {object}  api.EvalRunResponse
// @Failure      404  {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /evals/{id} [get]
func (h *Handler) GetEvalHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	run, results, err := h.evals.GetRun(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToEvalRunResponse(run, results))
}

// DeleteEvalHandler godoc
// @Summary      Delete an eval run
// @Description  Removes the run and all of its results.
// @Tags         Evals
// @Param        id   path  string  true  "Eval run ID"
// @Success      204
// @Failure      404  {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /evals/{id} [delete]
func (h *Handler) DeleteEvalHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if err := h.evals.DeleteRun(r.Context(), id); err != nil {
		h.writeStoreError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CancelEvalHandler godoc
// @Summary      Cancel an eval run
// @Description  Only pending or running runs can be cancelled. The case in flight finishes first.
// @Tags         Evals
// @Produce      json
// @Param        id   path      string  true  "Eval run ID"
// @Success      200  {object}  api.EvalRunResponse
// @Failure      400  {object}  api.JobResponse  "Run already finished"
// @Failure      404  {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /evals/{id}/cancel [post]
func (h *Handler) CancelEvalHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	run, err := h.evals.CancelRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, evalModel.ErrInvalidTransition) {
			WriteErrorResponse(w, http.StatusBadRequest, id, "Cannot cancel run with status "+string(run.Status))
			return
		}
		h.writeStoreError(w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToEvalRunResponse(run, nil))
}

// CompareEvalsHandler godoc
// @Summary      Compare two eval runs
// @Description  Returns both runs' metrics and the difference b - a.
// @Tags         Evals
// @Produce      json
// @Param        a  query  string  true  "Baseline run ID"
// @Param        b  query  string  true  "Candidate run ID"
// @Success      200  {object}  evalModel.Comparison
// @Failure      400  {object}  api.JobResponse
// @Failure      404  {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /evals/compare [get]
func (h *Handler) CompareEvalsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "query parameters a and b are required")
		return
	}
	comparison, err := h.evals.CompareRuns(r.Context(), a, b)
	if err != nil {
		h.writeStoreError(w, a+","+b, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, comparison)
}
