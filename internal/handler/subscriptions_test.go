package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

func TestSubscriptionDefaultsToFree(t *testing.T) {
	env := newTestEnv(t)
	employer := env.addUser(t, "emp-1", domain.RoleEmployer, domain.UserStatusApproved, "pw")

	rec := env.do(t, http.MethodGet, "/api/subscriptions", env.token(t, employer), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	sub := decodeBody[domain.Subscription](t, rec)
	assert.Equal(t, "Free", sub.PlanName)
	require.NotNil(t, sub.JobPostLimit)
	assert.Equal(t, int32(3), *sub.JobPostLimit)
}

func TestUpgradeReplacesSubscription(t *testing.T) {
	env := newTestEnv(t)
	employer := env.addUser(t, "emp-1", domain.RoleEmployer, domain.UserStatusApproved, "pw")
	token := env.token(t, employer)

	rec := env.do(t, http.MethodPost, "/api/subscriptions/upgrade", token, map[string]any{"plan_id": domain.PlanPro})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/subscriptions/upgrade", token, map[string]any{"employer_id": employer.ID, "plan_id": domain.PlanPremium})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.store.subscriptionCount(employer.ID))

	sub := decodeBody[domain.Subscription](t, env.do(t, http.MethodGet, "/api/subscriptions?employer_id="+employer.ID, token, nil))
	assert.Equal(t, "PREMIUM", sub.PlanName)
	assert.Equal(t, domain.PlanPremium, sub.PlanID)
	assert.Equal(t, domain.SubscriptionStatusActive, sub.Status)
	require.NotNil(t, sub.Price)
	assert.Equal(t, 39.0, *sub.Price)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *sub.CurrentPeriodEnd, time.Minute)
}

func TestUpgradeRejectsUnknownPlan(t *testing.T) {
	env := newTestEnv(t)
	employer := env.addUser(t, "emp-1", domain.RoleEmployer, domain.UserStatusApproved, "pw")

	rec := env.do(t, http.MethodPost, "/api/subscriptions/upgrade", env.token(t, employer), map[string]any{"plan_id": "pro"})
	assertError(t, rec, http.StatusBadRequest, "Unknown plan")
	assert.Zero(t, env.store.subscriptionCount(employer.ID))
}

func TestSubscriptionReadAccess(t *testing.T) {
	env := newTestEnv(t)
	employer := env.addUser(t, "emp-1", domain.RoleEmployer, domain.UserStatusApproved, "pw")
	other := env.addUser(t, "emp-2", domain.RoleEmployer, domain.UserStatusApproved, "pw")
	admin := env.addUser(t, "admin-1", domain.RoleAdmin, domain.UserStatusApproved, "pw")

	rec := env.do(t, http.MethodGet, "/api/subscriptions?employer_id="+employer.ID, env.token(t, other), nil)
	assertError(t, rec, http.StatusForbidden, "Forbidden")

	rec = env.do(t, http.MethodGet, "/api/subscriptions?employer_id="+employer.ID, env.token(t, admin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
