package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/content-pipeline/internal/jobs"
	"github.com/jonathan/content-pipeline/internal/schemas"
)

// CreateJobRequest represents the request to enqueue a job
type CreateJobRequest struct {
	JobType     string          `json:"job_type" validate:"required"`
	PayloadJSON json.RawMessage `json:"payload_json" validate:"required"`
}

// RunJobErrorResponse is returned when job execution fails; the failed
// job snapshot rides along with the error message.
type RunJobErrorResponse struct {
	Error string `json:"error"`
	Job   any    `json:"job,omitempty"`
}

// handleCreateJob enqueues a new job. The payload is validated here, at
// creation time, so a malformed payload never reaches the runner.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := validator.New().Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "job_type and payload_json are required")
		return
	}

	// Schema check on the raw document, then typed decode per job type.
	if err := schemas.ValidateJobPayload(req.PayloadJSON); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if _, err := jobs.DecodePayload(req.JobType, req.PayloadJSON); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	job, err := s.store.CreateJob(r.Context(), req.JobType, req.PayloadJSON)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, job)
}

// handleGetJob retrieves a job by ID
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathUUID(w, r, "id", "job")
	if !ok {
		return
	}

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleRunJob executes a queued job synchronously. Any execution failure
// surfaces as 400 with the failed job snapshot attached, whatever its
// cause; a missing job yields 404 and a job that is not queued any more
// yields 409.
func (s *Server) handleRunJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathUUID(w, r, "id", "job")
	if !ok {
		return
	}

	job, err := s.runner.Run(r.Context(), jobID)
	if err != nil {
		// A job snapshot means the claim succeeded and dispatch failed.
		if job != nil {
			s.jsonResponse(w, http.StatusBadRequest, RunJobErrorResponse{Error: err.Error(), Job: job})
			return
		}
		s.jsonResponse(w, HTTPStatus(err), RunJobErrorResponse{Error: err.Error()})
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}
