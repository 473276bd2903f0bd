package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/ragops/internal/api"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/akolanti/ragops/internal/domain/evalModel"
	"github.com/akolanti/ragops/internal/domain/jobModel"
	"github.com/akolanti/ragops/internal/domain/traceModel"
)

func ToInitJobResponse(id string, resourceId string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:         id,
		StatusURL:  fmt.Sprintf("status/%s", id),
		ResourceId: resourceId,
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id:        job.Id,
		SessionId: job.ChatId,
		JobType:   string(job.JobType),
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result: api.Result{
			Status:      string(job.Status),
			CurrentStep: string(job.CurrentStep),
			Question:    job.JobPayload.Question,
			Response:    job.JobPayload.Response,
			DocumentId:  job.JobPayload.DocumentId,
			EvalId:      job.JobPayload.EvalRunId,
		},
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   code == 429 || code == 503,
		},
	}
}

// ToDocumentResponse drops the raw text; it can be megabytes.
func ToDocumentResponse(doc docModel.Document) api.DocumentResponse {
	return api.DocumentResponse{
		Id:               doc.Id,
		Name:             doc.Name,
		OriginalFilename: doc.OriginalFilename,
		ContentType:      string(doc.ContentType),
		FileSize:         doc.FileSize,
		Status:           string(doc.Status),
		ErrorMessage:     doc.ErrorMessage,
		ChunkCount:       doc.ChunkCount,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

func ToDocumentList(docs []docModel.Document, total int, page commonModels.Page) api.DocumentListResponse {
	out := make([]api.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, ToDocumentResponse(d))
	}
	return api.DocumentListResponse{
		Documents: out,
		Total:     total,
		Page:      page.Number,
		PageSize:  page.Size,
	}
}

// ToEvalRunResponse only reports metrics once the run has completed.
func ToEvalRunResponse(run evalModel.EvalRun, results []evalModel.EvalResult) api.EvalRunResponse {
	resp := api.EvalRunResponse{
		Id:             run.Id,
		Name:           run.Name,
		DatasetName:    run.DatasetName,
		Status:         string(run.Status),
		TotalCases:     run.TotalCases,
		CompletedCases: run.CompletedCases,
		ErrorMessage:   run.ErrorMessage,
		CreatedAt:      run.CreatedAt,
		StartedAt:      run.StartedAt,
		CompletedAt:    run.CompletedAt,
		Results:        results,
	}
	if run.Status == evalModel.RunCompleted {
		metrics := run.Metrics
		resp.Metrics = &metrics
	}
	return resp
}

func ToEvalList(runs []evalModel.EvalRun, total int, page commonModels.Page) api.EvalListResponse {
	out := make([]api.EvalRunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, ToEvalRunResponse(r, nil))
	}
	return api.EvalListResponse{
		Runs:     out,
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}
}

func ToTraceList(traces []traceModel.Summary, total int, page commonModels.Page) api.TraceListResponse {
	if traces == nil {
		traces = []traceModel.Summary{}
	}
	return api.TraceListResponse{
		Traces:   traces,
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}
}

func ToTraceDetail(trace traceModel.Trace) api.TraceDetailResponse {
	return api.TraceDetailResponse{
		RunId:     trace.RunId,
		SessionId: trace.SessionId,
		Events:    nonNilEvents(trace.Events),
		Summary:   traceModel.Summarize(trace),
	}
}

// ToTraceEvents keeps only events of eventType; an empty eventType keeps all.
func ToTraceEvents(trace traceModel.Trace, eventType traceModel.EventType) api.TraceEventsResponse {
	events := make([]traceModel.Event, 0, len(trace.Events))
	for _, e := range trace.Events {
		if eventType == "" || e.Type == eventType {
			events = append(events, e)
		}
	}
	return api.TraceEventsResponse{RunId: trace.RunId, Events: events}
}

func nonNilEvents(events []traceModel.Event) []traceModel.Event {
	if events == nil {
		return []traceModel.Event{}
	}
	return events
}
