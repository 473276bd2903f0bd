package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/ragops/internal/adapter"
	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/job"
	"github.com/akolanti/ragops/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already out
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func (h *Handler) validateContext(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		h.logger.WithTrace(ctx, config.TRACE_ID_KEY).Warn("context error", "error", err)
		return false
	}
	return true
}

func traceIdFrom(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, job.ErrQueueFull) {
		WriteErrorResponse(w, http.StatusServiceUnavailable, id, "Job queue is full, retry later")
		return
	}
	h.logger.Error("Could not queue job", "jobId", id, "error", err)
	WriteErrorResponse(w, http.StatusInternalServerError, id, "Could not queue job")
}

// writeStoreError maps ErrNotFound to 404 and everything else to 500.
func (h *Handler) writeStoreError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, commonModels.ErrNotFound) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Not found")
		return
	}
	h.logger.Error("Store error", "id", id, "error", err)
	WriteErrorResponse(w, http.StatusInternalServerError, id, "Internal Server Error")
}

func (h *Handler) getTargetDirectory() (string, error) {
	targetDir := h.uploadDir
	if !filepath.IsAbs(targetDir) {
		root, err := os.Getwd()
		if err != nil {
			return "", err
		}
		targetDir = filepath.Join(root, targetDir)
	}
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", err
	}
	return targetDir, nil
}
