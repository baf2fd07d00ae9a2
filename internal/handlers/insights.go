package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/resume-insights-api/internal/models"
	"github.com/BerylCAtieno/resume-insights-api/internal/services"
	"github.com/BerylCAtieno/resume-insights-api/internal/utils"
)

// DefaultMaxFileSize is used when the handler is built without a limit.
const DefaultMaxFileSize = 5 << 20 // 5MB

type InsightHandler struct {
	service     services.InsightService
	logger      *utils.Logger
	maxFileSize int64
}

func NewInsightHandler(service services.InsightService, logger *utils.Logger, maxFileSize int64) *InsightHandler {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &InsightHandler{
		service:     service,
		logger:      logger.With("component", "handler"),
		maxFileSize: maxFileSize,
	}
}

func (h *InsightHandler) sizeLimitMessage() string {
	return fmt.Sprintf("File size exceeds %s limit", formatBytes(h.maxFileSize))
}

func (h *InsightHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	// Multipart framing needs a little room beyond the file itself.
	bodyLimit := h.maxFileSize + 1<<20

	if r.ContentLength > bodyLimit {
		h.respondError(w, utils.NewBadRequestError(h.sizeLimitMessage()))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			h.respondError(w, utils.NewBadRequestError(h.sizeLimitMessage()))
			return
		}
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.respondError(w, utils.NewInternalError("Failed to read file"))
		return
	}

	if int64(len(data)) > h.maxFileSize {
		h.respondError(w, utils.NewBadRequestError(h.sizeLimitMessage()))
		return
	}

	if len(data) == 0 {
		h.respondError(w, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	h.logger.Info("Resume upload attempt", "filename", header.Filename, "size", len(data))

	rec, err := h.service.UploadResume(r.Context(), &models.UploadRequest{
		File:     data,
		Filename: header.Filename,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, rec)
}

// ListInsights serves a single record when doc_id is set, otherwise the
// records matching q in the requested sort order.
func (h *InsightHandler) ListInsights(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if id := query.Get("doc_id"); id != "" {
		rec, err := h.service.GetInsight(r.Context(), id)
		if err != nil {
			h.respondError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, rec)
		return
	}

	recs, err := h.service.ListInsights(r.Context(), models.ListQuery{
		Search: query.Get("q"),
		Sort:   models.ParseSortOrder(query.Get("sort")),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	if recs == nil {
		recs = []models.InsightRecord{}
	}

	h.respondJSON(w, http.StatusOK, recs)
}

func (h *InsightHandler) GetInsight(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Document ID is required"))
		return
	}

	rec, err := h.service.GetInsight(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, rec)
}

func (h *InsightHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Document ID is required"))
		return
	}

	rpt, err := h.service.BuildReport(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondAttachment(w, rpt.Filename, rpt.ContentType, rpt.Data)
}

func (h *InsightHandler) DownloadOriginal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Document ID is required"))
		return
	}

	doc, err := h.service.GetOriginal(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondAttachment(w, doc.Filename, doc.ContentType, doc.Data)
}

func (h *InsightHandler) respondAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("Failed to write attachment", "error", err, "filename", filename)
	}
}

func (h *InsightHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *InsightHandler) respondError(w http.ResponseWriter, err error) {
	status := utils.StatusCode(err)
	message := "Internal server error"

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request error", "status", status, "error", err)
	} else {
		h.logger.Warn("Request error", "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func formatBytes(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	if n%(1<<10) == 0 {
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
