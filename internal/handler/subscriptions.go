package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

func (h *Handler) GetPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.repository.GetPlans(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, plans)
}

// GetSubscription falls back to the free tier when the employer never upgraded.
func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	employerID := r.URL.Query().Get("employer_id")
	if employerID == "" {
		employerID = subject(r)
	}
	if !h.canRead(r, employerID) {
		h.forbidden(w, r)
		return
	}

	sub, err := h.repository.GetSubscriptionByEmployer(r.Context(), employerID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.writeJSON(w, r, http.StatusOK, domain.DefaultSubscription())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, sub)
}

func (h *Handler) UpgradeSubscription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployerID string `json:"employer_id"`
		PlanID     string `json:"plan_id" validate:"required"`
	}

	if !h.decode(w, r, &req) {
		return
	}
	if !h.actAs(w, r, &req.EmployerID) {
		return
	}

	if _, err := h.repository.GetPlanByID(r.Context(), req.PlanID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusBadRequest, "Unknown plan")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	periodEnd := time.Now().AddDate(0, 1, 0)
	sub := &domain.Subscription{
		EmployerID:       req.EmployerID,
		PlanID:           req.PlanID,
		Status:           domain.SubscriptionStatusActive,
		CurrentPeriodEnd: &periodEnd,
	}

	if err := h.repository.ReplaceSubscription(r.Context(), sub); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.success(w, r)
}
