package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

func insertAdminLog(ctx context.Context, tx *sql.Tx, log *domain.AdminLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	query := `
		INSERT INTO admin_logs (id, admin_id, action_type, target_user_id, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	args := []any{log.ID, log.AdminID, log.ActionType, log.TargetUserID, log.Description}
	return tx.QueryRowContext(ctx, query, args...).Scan(&log.CreatedAt)
}

// GetAdminLogs returns the most recent entries first.
func (r *Repository) GetAdminLogs(ctx context.Context, limit int) ([]*domain.AdminLog, error) {
	query := `
		SELECT
			admin_logs.id,
			admin_logs.admin_id,
			admin_logs.action_type,
			admin_logs.target_user_id,
			COALESCE(admin_logs.description, ''),
			admin_logs.created_at,
			COALESCE(users.name, '')
		FROM admin_logs
		LEFT JOIN users ON admin_logs.admin_id = users.id
		ORDER BY admin_logs.created_at DESC
		LIMIT $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.AdminLog, 0)
	for rows.Next() {
		log := &domain.AdminLog{}
		dst := []any{&log.ID, &log.AdminID, &log.ActionType, &log.TargetUserID, &log.Description, &log.CreatedAt, &log.AdminName}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
