package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT role, name, email, password, status, created_at
		FROM users WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{
		ID: id,
	}

	dst := []any{&user.Role, &user.Name, &user.Email, &user.PasswordHash, &user.Status, &user.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, role, name, password, status, created_at
		FROM users WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{
		Email: email,
	}

	dst := []any{&user.ID, &user.Role, &user.Name, &user.PasswordHash, &user.Status, &user.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUsers lists every non-admin user, optionally filtered by a substring of
// the name or email.
func (r *Repository) GetUsers(ctx context.Context, search string) ([]*domain.User, error) {
	query := `
		SELECT id, role, name, email, status, created_at
		FROM users
		WHERE role != 'admin'
	`
	args := []any{}
	if search != "" {
		query += ` AND (name ILIKE $1 OR email ILIKE $1)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		dst := []any{&user.ID, &user.Role, &user.Name, &user.Email, &user.Status, &user.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// CreateUser inserts a bare user row. Used for accounts that need no role
// profile, such as admins.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Status == "" {
		user.Status = domain.UserStatusPending
	}

	query := `
		INSERT INTO users (id, role, name, email, password, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	args := []any{user.ID, user.Role, user.Name, user.Email, user.PasswordHash, user.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.CreatedAt); err != nil {
		return err
	}

	return nil
}

// CreateUserWithProfile inserts the user together with the empty profile its
// role needs.
func (r *Repository) CreateUserWithProfile(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query := `
		INSERT INTO users (id, role, name, email, password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING status, created_at
	`
	args := []any{user.ID, user.Role, user.Name, user.Email, user.PasswordHash}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&user.Status, &user.CreatedAt); err != nil {
		return err
	}

	switch user.Role {
	case domain.RoleVA:
		query = `INSERT INTO va_profiles (id, user_id) VALUES ($1, $2)`
	case domain.RoleEmployer:
		query = `INSERT INTO employer_profiles (id, user_id) VALUES ($1, $2)`
	default:
		query = ""
	}
	if query != "" {
		if _, err := tx.ExecContext(ctx, query, uuid.NewString(), user.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateUserPassword(ctx context.Context, id string, passwordHash string) error {
	query := `UPDATE users SET password = $1 WHERE id = $2`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

// UpdateUserStatus allows any status transition and records it in the admin log.
func (r *Repository) UpdateUserStatus(ctx context.Context, id string, status domain.UserStatus, log *domain.AdminLog) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `UPDATE users SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	if err := insertAdminLog(ctx, tx, log); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// DeleteUser removes only the users row. Profiles, applications and messages
// that reference the user are left as they are.
func (r *Repository) DeleteUser(ctx context.Context, id string, log *domain.AdminLog) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	if err := insertAdminLog(ctx, tx, log); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CountUsersByRole(ctx context.Context, role domain.Role) (int64, error) {
	var count int64

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT count(*) FROM users WHERE role = $1`
	if err := r.dbpool.QueryRowContext(ctx, query, role).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *Repository) CheckEmailIfExists(ctx context.Context, email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

// expectAffected turns an update that matched nothing into sql.ErrNoRows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
