package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

func TestApplicationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	employer := env.addUser(t, "emp-1", domain.RoleEmployer, domain.UserStatusApproved, "pw")
	rival := env.addUser(t, "emp-2", domain.RoleEmployer, domain.UserStatusApproved, "pw")
	va := env.addUser(t, "va-1", domain.RoleVA, domain.UserStatusApproved, "pw")

	company := "Acme"
	env.store.employerProfiles[employer.ID].CompanyName = &company

	job := &domain.Job{EmployerID: employer.ID, Title: "Executive Assistant", Description: "d"}
	require.NoError(t, env.store.CreateJob(context.Background(), job))

	vaTok := env.token(t, va)
	empTok := env.token(t, employer)

	rec := env.do(t, http.MethodPost, "/api/applications", vaTok, map[string]any{"job_id": job.ID, "cover_letter": "Hi"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	appID := decodeBody[IDResponse](t, rec).ID

	history := decodeBody[[]domain.Application](t, env.do(t, http.MethodGet, "/api/va/applications", vaTok, nil))
	require.Len(t, history, 1)
	assert.Equal(t, domain.ApplicationStatusApplied, history[0].Status)
	assert.Equal(t, "Executive Assistant", history[0].JobTitle)
	require.NotNil(t, history[0].CompanyName)
	assert.Equal(t, "Acme", *history[0].CompanyName)

	received := decodeBody[[]domain.Application](t, env.do(t, http.MethodGet, "/api/employer/applications", empTok, nil))
	require.Len(t, received, 1)
	assert.Equal(t, va.Name, received[0].VAName)

	steps := []struct {
		path string
		want domain.ApplicationStatus
	}{
		{"/api/shortlist", domain.ApplicationStatusShortlisted},
		{"/api/hire", domain.ApplicationStatusHired},
		{"/api/unhire", domain.ApplicationStatusShortlisted},
		{"/api/reject-application", domain.ApplicationStatusRejected},
	}
	for _, step := range steps {
		rec := env.do(t, http.MethodPost, step.path, empTok, map[string]any{"application_id": appID})
		require.Equal(t, http.StatusOK, rec.Code, step.path)
		assert.Equal(t, step.want, env.store.applications[appID].Status, step.path)
	}

	t.Run("other employers cannot touch it", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/hire", env.token(t, rival), map[string]any{"application_id": appID})
		assertError(t, rec, http.StatusNotFound, "Application not found")
	})

	t.Run("employer id must match the session", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/hire", env.token(t, rival), map[string]any{"application_id": appID, "employer_id": employer.ID})
		assertError(t, rec, http.StatusForbidden, "Forbidden")
	})

	t.Run("va cannot read another va's history", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/va/applications?va_id=someone-else", vaTok, nil)
		assertError(t, rec, http.StatusForbidden, "Forbidden")
	})
}

func TestApplyToMissingJob(t *testing.T) {
	env := newTestEnv(t)
	va := env.addUser(t, "va-1", domain.RoleVA, domain.UserStatusApproved, "pw")

	rec := env.do(t, http.MethodPost, "/api/applications", env.token(t, va), map[string]any{"job_id": "nope"})
	assertError(t, rec, http.StatusBadRequest, "Application failed")
}

func TestDuplicateApplicationsAreAccepted(t *testing.T) {
	env := newTestEnv(t)
	va := env.addUser(t, "va-1", domain.RoleVA, domain.UserStatusApproved, "pw")
	job := &domain.Job{EmployerID: "emp-1", Title: "t", Description: "d"}
	require.NoError(t, env.store.CreateJob(context.Background(), job))

	token := env.token(t, va)
	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/api/applications", token, map[string]any{"job_id": job.ID})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	history := decodeBody[[]domain.Application](t, env.do(t, http.MethodGet, "/api/va/applications", token, nil))
	assert.Len(t, history, 2)
}
