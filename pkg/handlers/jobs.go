package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/services"
)

// JobHandler handles insight job requests.
type JobHandler struct {
	jobService services.JobService
	logger     *zap.Logger
}

// NewJobHandler creates a new job handler.
func NewJobHandler(jobService services.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		logger:     logger,
	}
}

// RegisterRoutes registers the job handler's routes on the given mux.
func (h *JobHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /jobs/search", h.SearchJobs)
	mux.HandleFunc("GET /jobs/{engine_name}", h.ListJobsForEngine)
	mux.HandleFunc("GET /no-jobs/media/{engine_name}", h.ListMediaWithoutJobs)
	mux.HandleFunc("PUT /job", h.PutJobs)
	mux.HandleFunc("POST /job", h.UpdateJobs)
}

// SearchJobs handles GET /jobs/search
func (h *JobHandler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	spec, page, ok := parseSearch(w, r, "id", h.logger)
	if !ok {
		return
	}
	result, err := h.jobService.SearchJobs(r.Context(), spec, page)
	if err != nil {
		writeError(w, h.logger, err, "Jobs were not found")
		return
	}
	writeOK(w, h.logger, result)
}

// ListJobsForEngine handles GET /jobs/{engine_name}
func (h *JobHandler) ListJobsForEngine(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r, h.logger)
	if !ok {
		return
	}
	result, err := h.jobService.ListJobsForEngine(r.Context(), r.PathValue("engine_name"), page)
	if err != nil {
		writeError(w, h.logger, err, "Jobs were not found")
		return
	}
	writeOK(w, h.logger, result)
}

// ListMediaWithoutJobs handles GET /no-jobs/media/{engine_name}?uploaded_status=
func (h *JobHandler) ListMediaWithoutJobs(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r, h.logger)
	if !ok {
		return
	}
	var statuses []models.MediaUploadStatus
	for _, s := range r.URL.Query()["uploaded_status"] {
		status := models.MediaUploadStatus(s)
		switch status {
		case models.UploadPending, models.UploadUploaded, models.UploadDeleted:
			statuses = append(statuses, status)
		default:
			badRequest(w, h.logger, "invalid_uploaded_status", "Unknown uploaded_status "+s)
			return
		}
	}

	result, err := h.jobService.ListMediaWithoutJobs(r.Context(), r.PathValue("engine_name"), page, statuses...)
	if err != nil {
		writeError(w, h.logger, err, "Engine was not found")
		return
	}
	writeOK(w, h.logger, result)
}

// PutJobs handles PUT /job
func (h *JobHandler) PutJobs(w http.ResponseWriter, r *http.Request) {
	var jobs []models.InsightJob
	if !decodeBody(w, r, &jobs, h.logger) {
		return
	}
	stored, err := h.jobService.PutJobs(r.Context(), jobs)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	writeOK(w, h.logger, stored)
}

// UpdateJobs handles POST /job
func (h *JobHandler) UpdateJobs(w http.ResponseWriter, r *http.Request) {
	var updates []models.InsightJobUpdate
	if !decodeBody(w, r, &updates, h.logger) {
		return
	}
	updated, err := h.jobService.UpdateJobs(r.Context(), updates)
	var partial *services.JobUpdateError
	if errors.As(err, &partial) {
		if err := ErrorResponse(w, http.StatusInternalServerError, "update_jobs_failed", partial.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	writeOK(w, h.logger, updated)
}
