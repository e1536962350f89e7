package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

// GetMessagesByUser returns every message the user sent or received, oldest
// first. Grouping into conversations is left to the client.
func (r *Repository) GetMessagesByUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	query := `
		SELECT
			messages.id,
			messages.sender_id,
			messages.receiver_id,
			messages.message_body,
			messages.is_flagged,
			messages.created_at,
			COALESCE(sender.name, ''),
			COALESCE(receiver.name, '')
		FROM messages
		LEFT JOIN users AS sender ON messages.sender_id = sender.id
		LEFT JOIN users AS receiver ON messages.receiver_id = receiver.id
		WHERE messages.sender_id = $1 OR messages.receiver_id = $1
		ORDER BY messages.created_at ASC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		m := &domain.Message{}
		dst := []any{&m.ID, &m.SenderID, &m.ReceiverID, &m.MessageBody, &m.IsFlagged, &m.CreatedAt, &m.SenderName, &m.ReceiverName}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *Repository) CreateMessage(ctx context.Context, m *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	query := `
		INSERT INTO messages (id, sender_id, receiver_id, message_body)
		VALUES ($1, $2, $3, $4)
		RETURNING is_flagged, created_at
	`
	args := []any{m.ID, m.SenderID, m.ReceiverID, m.MessageBody}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&m.IsFlagged, &m.CreatedAt); err != nil {
		return err
	}

	return nil
}
