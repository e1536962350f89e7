package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

func TestMessagesAreVisibleToBothParties(t *testing.T) {
	env := newTestEnv(t)
	employer := env.addUser(t, "emp-1", domain.RoleEmployer, domain.UserStatusApproved, "pw")
	va := env.addUser(t, "va-1", domain.RoleVA, domain.UserStatusApproved, "pw")
	outsider := env.addUser(t, "va-2", domain.RoleVA, domain.UserStatusApproved, "pw")

	empTok := env.token(t, employer)
	vaTok := env.token(t, va)

	rec := env.do(t, http.MethodPost, "/api/messages", empTok, map[string]any{"receiver_id": va.ID, "message_body": "Are you available?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decodeBody[IDResponse](t, rec).ID)

	rec = env.do(t, http.MethodPost, "/api/messages", vaTok, map[string]any{"sender_id": va.ID, "receiver_id": employer.ID, "message_body": "Yes!"})
	require.Equal(t, http.StatusOK, rec.Code)

	for _, tc := range []struct {
		user  *domain.User
		token string
	}{{employer, empTok}, {va, vaTok}} {
		msgs := decodeBody[[]domain.Message](t, env.do(t, http.MethodGet, "/api/messages/"+tc.user.ID, tc.token, nil))
		require.Len(t, msgs, 2)
		assert.Equal(t, "Are you available?", msgs[0].MessageBody)
		assert.Equal(t, "Yes!", msgs[1].MessageBody)
		assert.True(t, msgs[0].CreatedAt.Before(msgs[1].CreatedAt))
		assert.Equal(t, employer.Name, msgs[0].SenderName)
		assert.Equal(t, va.Name, msgs[0].ReceiverName)
	}

	rec = env.do(t, http.MethodGet, "/api/messages/"+va.ID, env.token(t, outsider), nil)
	assertError(t, rec, http.StatusForbidden, "Forbidden")

	msgs := decodeBody[[]domain.Message](t, env.do(t, http.MethodGet, "/api/messages/"+outsider.ID, env.token(t, outsider), nil))
	assert.Empty(t, msgs)
}

func TestSendMessageAsSomeoneElse(t *testing.T) {
	env := newTestEnv(t)
	va := env.addUser(t, "va-1", domain.RoleVA, domain.UserStatusApproved, "pw")

	rec := env.do(t, http.MethodPost, "/api/messages", env.token(t, va), map[string]any{"sender_id": "emp-1", "receiver_id": va.ID, "message_body": "spoof"})
	assertError(t, rec, http.StatusForbidden, "Forbidden")

	rec = env.do(t, http.MethodPost, "/api/messages", env.token(t, va), map[string]any{"receiver_id": "emp-1"})
	assertError(t, rec, http.StatusBadRequest, "message_body is a required field")
}
