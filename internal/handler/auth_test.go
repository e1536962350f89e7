package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{"name": "Acme HR", "email": "hr@acme.io", "password": "hunter2", "role": "employer"}
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeBody[AuthResponse](t, rec)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.UserStatusPending, res.User.Status)
	assert.Equal(t, domain.RoleEmployer, res.User.Role)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.NotEmpty(t, rec.Result().Cookies())

	_, err := env.store.GetEmployerProfile(context.Background(), res.User.ID)
	assert.NoError(t, err, "employer profile is created with the account")
	assert.Equal(t, []string{domain.MailTypeWelcome}, env.mailer.types())

	t.Run("duplicate email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", body)
		assertError(t, rec, http.StatusBadRequest, "Email already exists")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "hr@acme.io", "password": "nope"})
		assertError(t, rec, http.StatusUnauthorized, "Invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "who@acme.io", "password": "hunter2"})
		assertError(t, rec, http.StatusUnauthorized, "Invalid credentials")
	})

	t.Run("login", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "hr@acme.io", "password": "hunter2"})
		require.Equal(t, http.StatusOK, rec.Code)

		login := decodeBody[AuthResponse](t, rec)
		assert.Equal(t, res.User.ID, login.User.ID)

		me := env.do(t, http.MethodGet, "/api/me/", login.Token, nil)
		require.Equal(t, http.StatusOK, me.Code)
		assert.Equal(t, "hr@acme.io", decodeBody[domain.User](t, me).Email)
	})
}

func TestRegisterCreatesVAProfile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Ana", "email": "ana@va.io", "password": "pw", "role": "va"})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[AuthResponse](t, rec)
	profile := env.do(t, http.MethodGet, "/api/va/profile/"+res.User.ID, "", nil)
	require.Equal(t, http.StatusOK, profile.Code)
	assert.Equal(t, "Ana", decodeBody[domain.VAProfile](t, profile).Name)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Eve", "email": "eve@x.io", "password": "pw", "role": "admin"})
	assertError(t, rec, http.StatusBadRequest, "role must be one of [employer va]")
}

func TestRegisterSurvivesMailerOutage(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = errors.New("broker down")

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Bo", "email": "bo@x.io", "password": "pw", "role": "va"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, TokenCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, "va-1", domain.RoleVA, domain.UserStatusApproved, "old")

	t.Run("unknown email answers the same", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/reset-password/require", "", map[string]any{"email": "nobody@example.com"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, resetPasswordSent, decodeBody[MessageResponse](t, rec).Message)
		assert.Empty(t, env.mailer.types())
	})

	rec := env.do(t, http.MethodPost, "/api/auth/reset-password/require", "", map[string]any{"email": user.Email})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{domain.MailTypeResetPassword}, env.mailer.types())

	otp, err := env.otp.Get(context.Background(), resetPasswordKey(user.Email))
	require.NoError(t, err)
	assert.Len(t, otp, 6)

	t.Run("wrong code", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/reset-password/confirm", "", map[string]any{"email": user.Email, "otp": "x" + otp, "password": "new"})
		assertError(t, rec, http.StatusBadRequest, "Invalid verification code")
	})

	rec = env.do(t, http.MethodPost, "/api/auth/reset-password/confirm", "", map[string]any{"email": user.Email, "otp": otp, "password": "new"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, err = env.otp.Get(context.Background(), resetPasswordKey(user.Email))
	assert.Error(t, err, "code is single use")

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": user.Email, "password": "new"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateMyPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, "emp-1", domain.RoleEmployer, domain.UserStatusApproved, "old")
	token := env.token(t, user)

	rec := env.do(t, http.MethodPatch, "/api/me/password", token, map[string]any{"old_password": "bad", "new_password": "new"})
	assertError(t, rec, http.StatusBadRequest, "Old password is incorrect")

	rec = env.do(t, http.MethodPatch, "/api/me/password", token, map[string]any{"old_password": "old", "new_password": "new"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": user.Email, "password": "new"})
	assert.Equal(t, http.StatusOK, rec.Code)
}
