package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !h.canRead(r, userID) {
		h.forbidden(w, r)
		return
	}

	messages, err := h.repository.GetMessagesByUser(r.Context(), userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, messages)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID    string `json:"sender_id"`
		ReceiverID  string `json:"receiver_id" validate:"required"`
		MessageBody string `json:"message_body" validate:"required"`
	}

	if !h.decode(w, r, &req) {
		return
	}
	if !h.actAs(w, r, &req.SenderID) {
		return
	}

	msg := &domain.Message{
		SenderID:    req.SenderID,
		ReceiverID:  req.ReceiverID,
		MessageBody: req.MessageBody,
	}

	if err := h.repository.CreateMessage(r.Context(), msg); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, IDResponse{ID: msg.ID})
}
