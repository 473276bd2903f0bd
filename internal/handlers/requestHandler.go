package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/akolanti/ragops/internal/adapter"
	"github.com/akolanti/ragops/internal/adapter/utils"
	"github.com/akolanti/ragops/internal/api"
	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/jobModel"
	"github.com/akolanti/ragops/internal/job"
)

const maxSourcesLimit = 20

// ChatHandler godoc
// @Summary      Start a new chat job
// @Description  Accepts a message, queues a background query job, and returns a job ID to poll on /status/{id}.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest      true  "Chat message, optional session ID and retrieval options"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data or session ID"
// @Failure      503      {object}  api.JobResponse      "Job queue is full"
// @Security     BearerAuth
// @Router       /chat [post]
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	queued, ok := h.newQueryJob(w, r)
	if !ok {
		return
	}

	queued, err := h.jobs.Submit(r.Context(), queued)
	if err != nil {
		h.writeSubmitError(w, queued.Id, err)
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(queued.Id, queued.ChatId))
}

// ChatSyncHandler godoc
// @Summary      Ask a question and wait for the answer
// @Description  Runs retrieval and generation inline. Refusals are normal 200 responses with is_refusal set.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest       true  "Chat message, optional session ID and retrieval options"
// @Success      200      {object}  api.ChatSyncResponse
// @Failure      400      {object}  api.JobResponse
// @Failure      429      {object}  api.JobResponse  "Upstream model rate limited"
// @Failure      500      {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /chat/sync [post]
func (h *Handler) ChatSyncHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	queryJob, ok := h.newQueryJob(w, r)
	if !ok {
		return
	}

	history := h.jobs.LoadHistory(r.Context(), queryJob.ChatId, config.ChatHistoryLength)
	done := h.rag.ProcessRequest(r.Context(), queryJob, history)
	done.EndTime = time.Now()
	if done.Status == jobModel.JobStatusError || done.JobPayload.Response == nil {
		code := done.Error.Code
		if code == 0 {
			code = http.StatusInternalServerError
		}
		writeJsonResponse(w, code, adapter.ToAPIResponse(done))
		return
	}
	h.jobs.RecordExchange(r.Context(), done)

	writeJsonResponse(w, http.StatusOK, api.ChatSyncResponse{
		SessionId:     done.ChatId,
		AgentResponse: *done.JobPayload.Response,
	})
}

// ChatHistoryHandler godoc
// @Summary      Get chat history
// @Description  Returns the most recent messages of a session, oldest first.
// @Tags         Messaging
// @Produce      json
// @Param        session_id  path      string  true   "Session ID"
// @Param        limit       query     int     false  "Number of messages (default 50)"
// @Success      200  {object}  api.ChatHistoryResponse
// @Failure      404  {object}  api.JobResponse  "Unknown session"
// @Security     BearerAuth
// @Router       /chat/history/{session_id} [get]
func (h *Handler) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	sessionId := utils.GetChiURLParam(r, "session_id")
	if !h.jobs.MessageStore.ValidateChatId(r.Context(), sessionId) {
		WriteErrorResponse(w, http.StatusNotFound, sessionId, "Session not found")
		return
	}
	limit := utils.GetQueryInt(r, "limit", 50)
	messages, err := h.jobs.MessageStore.GetMessageHistory(r.Context(), sessionId, limit)
	if err != nil {
		h.logger.Error("Could not load history", "sessionId", sessionId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, sessionId, "Storage error")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.ChatHistoryResponse{SessionId: sessionId, Messages: messages})
}

// newQueryJob decodes and validates a chat request, resolving or creating its session.
// It writes the error response itself and reports false on failure.
func (h *Handler) newQueryJob(w http.ResponseWriter, r *http.Request) (jobModel.Job, bool) {
	defer r.Body.Close()

	var requestData api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		h.logger.Warn("Bad chat request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return jobModel.Job{}, false
	}
	if strings.TrimSpace(requestData.Message) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, requestData.SessionId, "message is required")
		return jobModel.Job{}, false
	}
	if requestData.MaxSources < 0 || requestData.MaxSources > maxSourcesLimit {
		WriteErrorResponse(w, http.StatusBadRequest, requestData.SessionId, "max_sources must be between 1 and 20")
		return jobModel.Job{}, false
	}

	sessionId, err := h.jobs.StartChat(r.Context(), requestData.SessionId)
	if err != nil {
		if errors.Is(err, job.ErrUnknownSession) {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.SessionId, "Unknown session_id")
		} else {
			h.logger.Error("Could not start chat session", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.SessionId, "Storage error")
		}
		return jobModel.Job{}, false
	}

	return jobModel.Job{
		Id:      utils.GetNewUUID(),
		ChatId:  sessionId,
		TraceId: traceIdFrom(r.Context()),
		JobType: jobModel.JobTypeQuery,
		JobPayload: jobModel.JobPayload{
			Question:    requestData.Message,
			MaxSources:  requestData.MaxSources,
			DocumentIds: requestData.DocumentIds,
		},
	}, true
}
