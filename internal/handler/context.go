package handler

import (
	"net/http"

	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

type ContextKey string

var (
	RoleCtxKey ContextKey = "role"
	SubCtxKey  ContextKey = "sub"
	MyInfoCtx  ContextKey = "myInfo"
)

func subject(r *http.Request) string {
	sub, _ := r.Context().Value(SubCtxKey).(string)
	return sub
}

func role(r *http.Request) domain.Role {
	role, _ := r.Context().Value(RoleCtxKey).(string)
	return domain.Role(role)
}
