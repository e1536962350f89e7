package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vahub-dev/marketplace/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

const adminLogLimit = 100

func (h *Handler) GetAdminStats(w http.ResponseWriter, r *http.Request) {
	var stats domain.AdminStats

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		stats.TotalVAs.Count, err = h.repository.CountUsersByRole(ctx, domain.RoleVA)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalEmployers.Count, err = h.repository.CountUsersByRole(ctx, domain.RoleEmployer)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalJobs.Count, err = h.repository.CountJobs(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		stats.PendingJobs.Count, err = h.repository.CountJobs(ctx, domain.JobStatusPending)
		return err
	})

	if err := g.Wait(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, stats)
}

func (h *Handler) GetPendingJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.repository.GetPendingJobs(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, jobs)
}

func (h *Handler) ApproveJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id" validate:"required"`
	}

	if !h.decode(w, r, &req) {
		return
	}

	h.reviewJob(w, r, req.ID, domain.JobStatusApproved, "")
}

func (h *Handler) RejectJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string `json:"id" validate:"required"`
		Reason string `json:"reason"`
	}

	if !h.decode(w, r, &req) {
		return
	}

	h.reviewJob(w, r, req.ID, domain.JobStatusRejected, strings.TrimSpace(req.Reason))
}

// reviewJob moves a pending job to approved or rejected, logs the action
// under the session's admin and notifies the employer.
func (h *Handler) reviewJob(w http.ResponseWriter, r *http.Request, jobID string, status domain.JobStatus, reason string) {
	job, err := h.repository.GetJobByID(r.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Job not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if job.Status != domain.JobStatusPending {
		h.errorResponse(w, r, http.StatusBadRequest, "Job is not pending")
		return
	}

	log := &domain.AdminLog{AdminID: subject(r)}
	var rejectionReason *string
	if status == domain.JobStatusApproved {
		log.ActionType = domain.ActionJobApproved
		log.Description = fmt.Sprintf("Approved job: %s", jobID)
	} else {
		log.ActionType = domain.ActionJobRejected
		log.Description = fmt.Sprintf("Rejected job: %s. Reason: %s", jobID, reason)
		rejectionReason = &reason
	}

	if err := h.repository.ReviewJob(r.Context(), jobID, status, rejectionReason, log); err != nil {
		switch {
		case errors.Is(err, domain.ErrJobNotPending):
			h.errorResponse(w, r, http.StatusBadRequest, "Job is not pending")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	employer, err := h.repository.GetUserByID(r.Context(), job.EmployerID)
	if err != nil {
		slog.Warn("skip job review mail", "job_id", jobID, "employer_id", job.EmployerID, "error", err)
	} else {
		h.enqueueMail(r, domain.MailMessage{
			Type: domain.MailTypeJobReviewed,
			To:   employer.Email,
			Data: domain.JobReviewedMailData{
				Name:     employer.Name,
				JobTitle: job.Title,
				Status:   status,
				Reason:   reason,
			},
		})
	}

	h.success(w, r)
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetUsers(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, users)
}

func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string            `json:"id" validate:"required"`
		Status domain.UserStatus `json:"status" validate:"required,oneof=pending approved suspended"`
	}

	if !h.decode(w, r, &req) {
		return
	}
	if !h.preventOperateInitialAdmin(w, r, req.ID) {
		return
	}

	log := &domain.AdminLog{
		AdminID:      subject(r),
		ActionType:   domain.ActionUserStatusUpdated,
		TargetUserID: &req.ID,
		Description:  fmt.Sprintf("Updated user status to %s", req.Status),
	}

	if err := h.repository.UpdateUserStatus(r.Context(), req.ID, req.Status, log); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "User not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.success(w, r)
}

// DeleteUser removes only the user row. Profiles, jobs and messages stay behind.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id" validate:"required"`
	}

	if !h.decode(w, r, &req) {
		return
	}
	if !h.preventOperateInitialAdmin(w, r, req.ID) {
		return
	}

	log := &domain.AdminLog{
		AdminID:      subject(r),
		ActionType:   domain.ActionUserDeleted,
		TargetUserID: &req.ID,
		Description:  fmt.Sprintf("Deleted user: %s", req.ID),
	}

	if err := h.repository.DeleteUser(r.Context(), req.ID, log); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "User not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.success(w, r)
}

func (h *Handler) GetAdminLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.repository.GetAdminLogs(r.Context(), adminLogLimit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, logs)
}

func (h *Handler) GetAllSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.repository.GetAllSubscriptions(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, subs)
}
