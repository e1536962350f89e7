package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

type jobRequest struct {
	EmployerID      string   `json:"employer_id"`
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	SalaryMin       *float64 `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax       *float64 `json:"salary_max" validate:"omitempty,gte=0"`
	JobType         *string  `json:"job_type"`
	ExperienceLevel *string  `json:"experience_level"`
	Skills          []string `json:"skills" validate:"omitempty,dive,required"`
}

func (req *jobRequest) toJob() *domain.Job {
	return &domain.Job{
		EmployerID:      req.EmployerID,
		Title:           req.Title,
		Description:     req.Description,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		JobType:         req.JobType,
		ExperienceLevel: req.ExperienceLevel,
		Skills:          req.Skills,
	}
}

func (h *Handler) GetJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.repository.GetApprovedJobs(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, jobs)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.repository.GetJobByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Job not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, job)
}

// CreateJob always files the posting as pending, whatever the body says.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.actAs(w, r, &req.EmployerID) {
		return
	}

	job := req.toJob()
	if err := h.repository.CreateJob(r.Context(), job); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, IDResponse{ID: job.ID})
}

// UpdateJob edits a posting owned by the caller and sends it back to review.
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.actAs(w, r, &req.EmployerID) {
		return
	}

	job := req.toJob()
	job.ID = chi.URLParam(r, "id")

	if err := h.repository.UpdateJob(r.Context(), job); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Job not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.success(w, r)
}
