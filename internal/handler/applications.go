package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID       string  `json:"job_id" validate:"required"`
		VAID        string  `json:"va_id"`
		CoverLetter *string `json:"cover_letter"`
	}

	if !h.decode(w, r, &req) {
		return
	}
	if !h.actAs(w, r, &req.VAID) {
		return
	}

	if _, err := h.repository.GetJobByID(r.Context(), req.JobID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusBadRequest, "Application failed")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	app := &domain.Application{
		JobID:       req.JobID,
		VAID:        req.VAID,
		CoverLetter: req.CoverLetter,
	}

	if err := h.repository.CreateApplication(r.Context(), app); err != nil {
		slog.Error("application failed", "job_id", req.JobID, "va_id", req.VAID, "error", err)
		h.errorResponse(w, r, http.StatusBadRequest, "Application failed")
		return
	}

	h.writeJSON(w, r, http.StatusOK, IDResponse{ID: app.ID})
}

func (h *Handler) GetVAApplications(w http.ResponseWriter, r *http.Request) {
	vaID := r.URL.Query().Get("va_id")
	if !h.actAs(w, r, &vaID) {
		return
	}

	apps, err := h.repository.GetApplicationsByVA(r.Context(), vaID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, apps)
}

func (h *Handler) GetEmployerApplications(w http.ResponseWriter, r *http.Request) {
	employerID := r.URL.Query().Get("employer_id")
	if !h.actAs(w, r, &employerID) {
		return
	}

	apps, err := h.repository.GetApplicationsByEmployer(r.Context(), employerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, apps)
}

func (h *Handler) HireApplicant(w http.ResponseWriter, r *http.Request) {
	h.setApplicationStatus(w, r, domain.ApplicationStatusHired)
}

// UnhireApplicant puts a hired applicant back to shortlisted.
func (h *Handler) UnhireApplicant(w http.ResponseWriter, r *http.Request) {
	h.setApplicationStatus(w, r, domain.ApplicationStatusShortlisted)
}

func (h *Handler) ShortlistApplicant(w http.ResponseWriter, r *http.Request) {
	h.setApplicationStatus(w, r, domain.ApplicationStatusShortlisted)
}

func (h *Handler) RejectApplicant(w http.ResponseWriter, r *http.Request) {
	h.setApplicationStatus(w, r, domain.ApplicationStatusRejected)
}

func (h *Handler) setApplicationStatus(w http.ResponseWriter, r *http.Request, status domain.ApplicationStatus) {
	var req struct {
		ApplicationID string `json:"application_id" validate:"required"`
		EmployerID    string `json:"employer_id"`
	}

	if !h.decode(w, r, &req) {
		return
	}
	if !h.actAs(w, r, &req.EmployerID) {
		return
	}

	if err := h.repository.UpdateApplicationStatus(r.Context(), req.ApplicationID, req.EmployerID, status); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Application not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.success(w, r)
}
