package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

func (h *Handler) GetTalents(w http.ResponseWriter, r *http.Request) {
	talents, err := h.repository.GetTalents(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, talents)
}

func (h *Handler) GetVAProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.repository.GetVAProfile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Profile not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, profile)
}

// profileOwner resolves which account a profile write targets. The path
// parameter wins over the body and both must match the session.
func (h *Handler) profileOwner(w http.ResponseWriter, r *http.Request, bodyID string) (string, bool) {
	id := chi.URLParam(r, "userId")
	if id == "" {
		id = bodyID
	} else if bodyID != "" && bodyID != id {
		h.forbidden(w, r)
		return "", false
	}
	if !h.actAs(w, r, &id) {
		return "", false
	}
	return id, true
}

// UpdateVAProfile overwrites every editable field and replaces the skill list.
func (h *Handler) UpdateVAProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          string   `json:"user_id"`
		Headline        *string  `json:"headline"`
		Bio             *string  `json:"bio"`
		HourlyRate      *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
		MonthlySalary   *float64 `json:"monthly_salary" validate:"omitempty,gte=0"`
		Availability    *string  `json:"availability"`
		ExperienceYears *int32   `json:"experience_years" validate:"omitempty,gte=0"`
		Education       *string  `json:"education"`
		IntroVideoURL   *string  `json:"intro_video_url"`
		ResumeURL       *string  `json:"resume_url"`
		Skills          []struct {
			SkillName       string  `json:"skill_name" validate:"required"`
			YearsExperience *string `json:"years_experience"`
		} `json:"skills" validate:"dive"`
	}

	if !h.decode(w, r, &req) {
		return
	}
	userID, ok := h.profileOwner(w, r, req.UserID)
	if !ok {
		return
	}

	profile := &domain.VAProfile{
		UserID:          userID,
		Headline:        req.Headline,
		Bio:             req.Bio,
		HourlyRate:      req.HourlyRate,
		MonthlySalary:   req.MonthlySalary,
		Availability:    req.Availability,
		ExperienceYears: req.ExperienceYears,
		Education:       req.Education,
		IntroVideoURL:   req.IntroVideoURL,
		ResumeURL:       req.ResumeURL,
	}
	for _, s := range req.Skills {
		profile.Skills = append(profile.Skills, domain.VASkill{SkillName: s.SkillName, YearsExperience: s.YearsExperience})
	}

	if err := h.repository.UpdateVAProfile(r.Context(), profile); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Profile not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.success(w, r)
}

func (h *Handler) GetEmployerProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.repository.GetEmployerProfile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Profile not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, profile)
}

func (h *Handler) UpdateEmployerProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID             string  `json:"user_id"`
		CompanyName        *string `json:"company_name"`
		CompanyDescription *string `json:"company_description"`
		Website            *string `json:"website"`
		Industry           *string `json:"industry"`
		TeamSize           *string `json:"team_size"`
		LogoURL            *string `json:"logo_url"`
	}

	if !h.decode(w, r, &req) {
		return
	}
	userID, ok := h.profileOwner(w, r, req.UserID)
	if !ok {
		return
	}

	profile := &domain.EmployerProfile{
		UserID:             userID,
		CompanyName:        req.CompanyName,
		CompanyDescription: req.CompanyDescription,
		Website:            req.Website,
		Industry:           req.Industry,
		TeamSize:           req.TeamSize,
		LogoURL:            req.LogoURL,
	}

	if err := h.repository.UpdateEmployerProfile(r.Context(), profile); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Profile not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.success(w, r)
}
