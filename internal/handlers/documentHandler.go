package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/ragops/internal/adapter"
	"github.com/akolanti/ragops/internal/adapter/utils"
	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/akolanti/ragops/internal/domain/jobModel"
	"github.com/akolanti/ragops/internal/rag/ingest"
)

// UploadDocumentHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, stores it with status pending, and queues an ingestion job.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true   "PDF, DOCX, ODT, RTF, TXT or MD file (max 32 MB)"
// @Param        name  formData  string  false  "Display name; defaults to the file name"
// @Success      202  {object}  api.InitJobResponse  "Accepted; resource_id is the document ID"
// @Failure      400  {object}  api.JobResponse      "Missing file, unsupported type or file too large"
// @Failure      500  {object}  api.JobResponse      "Storage or write error"
// @Security     BearerAuth
// @Router       /documents [post]
func (h *Handler) UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	if fileMetadata.Size > config.MaxUploadSize {
		WriteErrorResponse(w, http.StatusBadRequest, fileMetadata.Filename, "File too large")
		return
	}
	originalName := filepath.Base(fileMetadata.Filename)
	docType := ingest.GetDocType(originalName)
	if docType == commonModels.ERR {
		WriteErrorResponse(w, http.StatusBadRequest, originalName, "Unsupported file type")
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = originalName
	}

	targetDir, err := h.getTargetDirectory()
	if err != nil {
		h.logger.Error("Couldn't get target directory", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}
	tempFilePath := filepath.Join(targetDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), originalName))
	if err := saveUpload(tempFilePath, fileReader); err != nil {
		h.logger.Error("Couldn't write upload", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, name, "Write error")
		return
	}

	doc, err := h.ingest.CreateDocument(r.Context(), docModel.Document{
		Id:               utils.GetNewUUID(),
		Name:             name,
		OriginalFilename: originalName,
		ContentType:      docType,
		FileSize:         fileMetadata.Size,
	})
	if err != nil {
		_ = os.Remove(tempFilePath)
		h.writeStoreError(w, name, err)
		return
	}

	h.submitIngest(w, r, jobModel.JobTypeIngest, doc, tempFilePath)
}

// ListDocumentsHandler godoc
// @Summary      List documents
// @Description  Newest first, paginated, optionally filtered by status.
// @Tags         Documents
// @Produce      json
// @Param        page       query  int     false  "Page number (default 1)"
// @Param        page_size  query  int     false  "Page size (default 20, max 100)"
// @Param        status     query  string  false  "pending, processing, completed or failed"
// @Success      200  {object}  api.DocumentListResponse
// @Security     BearerAuth
// @Router       /documents [get]
func (h *Handler) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	page := commonModels.Page{
		Number: utils.GetQueryInt(r, "page", 1),
		Size:   utils.GetQueryInt(r, "page_size", 20),
	}.Normalize()
	filter := docModel.ListFilter{
		Status: docModel.DocumentStatus(r.URL.Query().Get("status")),
		Page:   page,
	}
	docs, total, err := h.documents.ListDocuments(r.Context(), filter)
	if err != nil {
		h.writeStoreError(w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentList(docs, total, page))
}

// GetDocumentHandler godoc
// @Summary      Get a document
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentResponse
// @Failure      404  {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /documents/{id} [get]
func (h *Handler) GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	doc, err := h.documents.GetDocument(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(doc))
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes the document, its chunks and its vectors.
// @Tags         Documents
// @Param        id   path  string  true  "Document ID"
// @Success      204
// @Failure      404  {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /documents/{id} [delete]
func (h *Handler) DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if err := h.ingest.DeleteDocument(r.Context(), id); err != nil {
		h.writeStoreError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReprocessDocumentHandler godoc
// @Summary      Reprocess a document
// @Description  Re-chunks and re-embeds the stored text, replacing existing chunks and vectors.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      202  {object}  api.InitJobResponse
// @Failure      400  {object}  api.JobResponse  "No stored content to reprocess"
// @Failure      404  {object}  api.JobResponse
// @Security     BearerAuth
// @Router       /documents/{id}/reprocess [post]
func (h *Handler) ReprocessDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	doc, err := h.ingest.PrepareReprocess(r.Context(), id)
	if err != nil {
		if errors.Is(err, ingest.ErrNoStoredContent) {
			WriteErrorResponse(w, http.StatusBadRequest, id, "No stored content to reprocess")
			return
		}
		h.writeStoreError(w, id, err)
		return
	}
	h.submitIngest(w, r, jobModel.JobTypeReprocess, doc, "")
}

func (h *Handler) submitIngest(w http.ResponseWriter, r *http.Request, jobType jobModel.JobType, doc docModel.Document, filePath string) {
	queued, err := h.jobs.Submit(r.Context(), jobModel.Job{
		Id:      utils.GetNewUUID(),
		TraceId: traceIdFrom(r.Context()),
		JobType: jobType,
		JobPayload: jobModel.JobPayload{
			DocumentId:     doc.Id,
			IngestFileName: doc.Name,
			IngestURL:      filePath,
		},
	})
	if err != nil {
		h.writeSubmitError(w, queued.Id, err)
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(queued.Id, doc.Id))
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return err
	}
	return dst.Close()
}
