package handlers

import (
	"net/http"

	"github.com/akolanti/ragops/internal/adapter"
	"github.com/akolanti/ragops/internal/adapter/utils"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/traceModel"
)

// eventTypeParam reads the optional event_type filter and rejects unknown types with a 400.
func eventTypeParam(w http.ResponseWriter, r *http.Request) (traceModel.EventType, bool) {
	eventType := traceModel.EventType(r.URL.Query().Get("event_type"))
	if eventType != "" && !eventType.Valid() {
		WriteErrorResponse(w, http.StatusBadRequest, string(eventType), "event_type must be retrieval, model_call, tool_call, validation or error")
		return "", false
	}
	return eventType, true
}

// ListTracesHandler godoc
// @Summary      List traces
// @Description  One entry per traced request or eval case, newest activity first, with token, cost and error roll-ups.
// @Tags         Traces
// @Produce      json
// @Param        page        query  int     false  "Page number (default 1)"
// @Param        page_size   query  int     false  "Page size (default 20, max 100)"
// @Param        session_id  query  string  false  "Chat session ID, eval:<eval_id> or mcp"
// @Param        event_type  query  string  false  "Only traces that recorded this event type"
// @Success      200  {object}  api.TraceListResponse
// @Failure      400  {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /traces [get]
func (h *Handler) ListTracesHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	eventType, ok := eventTypeParam(w, r)
	if !ok {
		return
	}
	page := commonModels.Page{
		Number: utils.GetQueryInt(r, "page", 1),
		Size:   utils.GetQueryInt(r, "page_size", 20),
	}.Normalize()
	traces, total, err := h.traces.ListTraces(r.Context(), traceModel.ListFilter{
		SessionId: r.URL.Query().Get("session_id"),
		EventType: eventType,
		Page:      page,
	})
	if err != nil {
		h.writeStoreError(w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToTraceList(traces, total, page))
}

// GetTraceHandler godoc
// @Summary      Get a trace
// @Description  Every event of the run in recording order, with its summary.
// @Tags         Traces
// @Produce      json
// @Param        run_id  path      string  true  "Trace ID returned with the answer"
// @Success      200     {object}  api.TraceDetailResponse
// @Failure      404     {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /traces/{run_id} [get]
func (h *Handler) GetTraceHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	runId := utils.GetChiURLParam(r, "run_id")
	trace, err := h.traces.GetTrace(r.Context(), runId)
	if err != nil {
		h.writeStoreError(w, runId, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToTraceDetail(trace))
}

// GetTraceEventsHandler godoc
// @Summary      List a trace's events
// @Tags         Traces
// @Produce      json
// @Param        run_id      path      string  true   "Trace ID"
// @Param        event_type  query     string  false  "retrieval, model_call, tool_call, validation or error"
// @Success      200         {object}  api.TraceEventsResponse
// @Failure      400         {object}  api.JobResponse
// @Failure      404         {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /traces/{run_id}/events [get]
func (h *Handler) GetTraceEventsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	eventType, ok := eventTypeParam(w, r)
	if !ok {
		return
	}
	runId := utils.GetChiURLParam(r, "run_id")
	trace, err := h.traces.GetTrace(r.Context(), runId)
	if err != nil {
		h.writeStoreError(w, runId, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToTraceEvents(trace, eventType))
}

// DeleteTraceHandler godoc
// @Summary      Delete a trace
// @Tags         Traces
// @Param        run_id  path  string  true  "Trace ID"
// @Success      204
// @Failure      404  {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /traces/{run_id} [delete]
func (h *Handler) DeleteTraceHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	runId := utils.GetChiURLParam(r, "run_id")
	if err := h.traces.DeleteTrace(r.Context(), runId); err != nil {
		h.writeStoreError(w, runId, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
