package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

// Writes used only when bootstrapping demo content. Unlike the request paths
// they keep the status and flags the caller sets.

func (r *Repository) UpdatePasswordByEmail(ctx context.Context, email string, passwordHash string) error {
	query := `UPDATE users SET password = $1 WHERE email = $2`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, passwordHash, email)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *Repository) CreateVAWithProfile(ctx context.Context, user *domain.User, p *domain.VAProfile) error {
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
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UserID = user.ID

	query := `
		INSERT INTO users (id, role, name, email, password, status)
		VALUES ($1, 'va', $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := tx.QueryRowContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.Status).Scan(&user.CreatedAt); err != nil {
		return err
	}

	query = `
		INSERT INTO va_profiles (id, user_id, headline, bio, hourly_rate, monthly_salary, id_proof_score, education, last_active, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	args := []any{p.ID, p.UserID, p.Headline, p.Bio, p.HourlyRate, p.MonthlySalary, p.IDProofScore, p.Education, p.LastActive, p.Availability}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	if err := insertVASkills(ctx, tx, user.ID, p.Skills); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateEmployerWithProfile(ctx context.Context, user *domain.User, p *domain.EmployerProfile) error {
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
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UserID = user.ID

	query := `
		INSERT INTO users (id, role, name, email, password, status)
		VALUES ($1, 'employer', $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := tx.QueryRowContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.Status).Scan(&user.CreatedAt); err != nil {
		return err
	}

	query = `INSERT INTO employer_profiles (id, user_id, company_name, industry) VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, query, p.ID, p.UserID, p.CompanyName, p.Industry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateDemoJob(ctx context.Context, job *domain.Job) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO jobs (id, employer_id, title, description, salary_min, salary_max, job_type, experience_level, status, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	args := []any{job.ID, job.EmployerID, job.Title, job.Description, job.SalaryMin, job.SalaryMax, job.JobType, job.ExperienceLevel, job.Status, job.IsFeatured}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&job.CreatedAt); err != nil {
		return err
	}

	if err := insertJobSkills(ctx, tx, job.ID, job.Skills); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
