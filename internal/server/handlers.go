package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/3leaps/slurmtrack/pkg/jobstore"
	"github.com/3leaps/slurmtrack/pkg/slurm"
)

type healthResponse struct {
	Status string `json:"status"`
}

type versionResponse struct {
	Version string `json:"version"`
}

// jobResponse is the wire form of one job record.
type jobResponse struct {
	ID               int64  `json:"id"`
	SchedulerJobID   string `json:"scheduler_job_id"`
	DisplayName      string `json:"display_name"`
	Status           string `json:"status"`
	OwnerDirectory   string `json:"owner_directory"`
	WorkingDirectory string `json:"working_directory"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

func toJobResponse(rec jobstore.JobRecord) jobResponse {
	return jobResponse{
		ID:               rec.ID,
		SchedulerJobID:   rec.SchedulerJobID,
		DisplayName:      rec.DisplayName,
		Status:           rec.Status,
		OwnerDirectory:   rec.OwnerDirectory,
		WorkingDirectory: rec.WorkingDirectory,
		CreatedAt:        rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type submitRequest struct {
	Path        string `json:"path"`
	DisplayName string `json:"display_name"`
	Resubmit    bool   `json:"resubmit"`
}

type submitResponse struct {
	RecordID       int64  `json:"record_id"`
	SchedulerJobID string `json:"scheduler_job_id"`
	Status         string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{Version: s.version})
}

// handleListJobs lists the owner directory's records, refreshed against
// the scheduler first (refresh is a read-time side effect).
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")

	records, err := s.jobs.List(r.Context(), statusFilter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}

	out := make([]jobResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toJobResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "path is required")
		return
	}

	res, err := s.jobs.Submit(r.Context(), req.Path, req.DisplayName, req.Resubmit)
	if err != nil {
		var subErr *slurm.SubmissionError
		switch {
		case errors.Is(err, slurm.ErrSchedulerTimeout):
			writeError(w, http.StatusGatewayTimeout, CodeSchedulerTimeout, err.Error())
		case errors.As(err, &subErr):
			writeError(w, http.StatusBadGateway, CodeSubmissionFailed, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, CodeInternal, err.Error())
		}
		return
	}
	if res.Skipped {
		writeError(w, http.StatusConflict, CodeSubmissionSkipped,
			"a job for this working directory is already "+res.BlockingStatus)
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		RecordID:       res.RecordID,
		SchedulerJobID: res.SchedulerJobID,
		Status:         res.Status,
	})
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if strings.TrimSpace(jobID) == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "job id is required")
		return
	}

	if err := s.jobs.Cancel(r.Context(), jobID); err != nil {
		var cancelErr *slurm.CancelError
		switch {
		case errors.Is(err, slurm.ErrSchedulerTimeout):
			writeError(w, http.StatusGatewayTimeout, CodeSchedulerTimeout, err.Error())
		case errors.As(err, &cancelErr):
			writeError(w, http.StatusBadGateway, CodeCancelFailed, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, CodeInternal, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
