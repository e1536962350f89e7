package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

const jobColumns = `
	jobs.id,
	jobs.employer_id,
	jobs.title,
	jobs.description,
	jobs.salary_min,
	jobs.salary_max,
	jobs.job_type,
	jobs.experience_level,
	jobs.status,
	jobs.is_featured,
	jobs.rejection_reason,
	jobs.created_at,
	employer_profiles.company_name,
	employer_profiles.company_description,
	employer_profiles.logo_url
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(s rowScanner) (*domain.Job, error) {
	job := &domain.Job{}
	dst := []any{
		&job.ID,
		&job.EmployerID,
		&job.Title,
		&job.Description,
		&job.SalaryMin,
		&job.SalaryMax,
		&job.JobType,
		&job.ExperienceLevel,
		&job.Status,
		&job.IsFeatured,
		&job.RejectionReason,
		&job.CreatedAt,
		&job.CompanyName,
		&job.CompanyDescription,
		&job.LogoURL,
	}
	if err := s.Scan(dst...); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *Repository) queryJobs(ctx context.Context, query string, args ...any) ([]*domain.Job, error) {
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *Repository) getJobSkills(ctx context.Context, jobID string) ([]string, error) {
	query := `SELECT skill_name FROM job_skills WHERE job_id = $1 ORDER BY skill_name`

	rows, err := r.dbpool.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]string, 0)
	for rows.Next() {
		var skill string
		if err := rows.Scan(&skill); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return skills, nil
}

// GetApprovedJobs lists the public job board: featured jobs first, then the
// newest. search is a plain substring match on title or description.
func (r *Repository) GetApprovedJobs(ctx context.Context, search string) ([]*domain.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		LEFT JOIN employer_profiles ON jobs.employer_id = employer_profiles.user_id
		WHERE jobs.status = 'approved'
	`
	args := []any{}
	if search != "" {
		query += ` AND (jobs.title ILIKE $1 OR jobs.description ILIKE $1)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY jobs.is_featured DESC, jobs.created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	jobs, err := r.queryJobs(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	for _, job := range jobs {
		skills, err := r.getJobSkills(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		job.Skills = skills
		job.CompanyDescription = nil
	}

	return jobs, nil
}

func (r *Repository) GetJobByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		LEFT JOIN employer_profiles ON jobs.employer_id = employer_profiles.user_id
		WHERE jobs.id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	job, err := scanJob(r.dbpool.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	skills, err := r.getJobSkills(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	job.Skills = skills

	return job, nil
}

func (r *Repository) GetPendingJobs(ctx context.Context) ([]*domain.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		LEFT JOIN employer_profiles ON jobs.employer_id = employer_profiles.user_id
		WHERE jobs.status = 'pending'
		ORDER BY jobs.created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.queryJobs(ctx, query)
}

func insertJobSkills(ctx context.Context, tx *sql.Tx, jobID string, skills []string) error {
	query := `INSERT INTO job_skills (id, job_id, skill_name) VALUES ($1, $2, $3)`
	for _, skill := range skills {
		if _, err := tx.ExecContext(ctx, query, uuid.NewString(), jobID, skill); err != nil {
			return err
		}
	}
	return nil
}

// CreateJob always stores the job as pending, whatever status the caller set.
func (r *Repository) CreateJob(ctx context.Context, job *domain.Job) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	query := `
		INSERT INTO jobs (id, employer_id, title, description, salary_min, salary_max, job_type, experience_level, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
		RETURNING status, is_featured, created_at
	`
	args := []any{job.ID, job.EmployerID, job.Title, job.Description, job.SalaryMin, job.SalaryMax, job.JobType, job.ExperienceLevel}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&job.Status, &job.IsFeatured, &job.CreatedAt); err != nil {
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

// UpdateJob rewrites an employer's own job, replaces its skills and sends it
// back to moderation.
func (r *Repository) UpdateJob(ctx context.Context, job *domain.Job) error {
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
		UPDATE jobs
		SET
			title = $1,
			description = $2,
			salary_min = $3,
			salary_max = $4,
			job_type = $5,
			experience_level = $6,
			status = 'pending',
			rejection_reason = NULL
		WHERE id = $7 AND employer_id = $8
	`
	args := []any{job.Title, job.Description, job.SalaryMin, job.SalaryMax, job.JobType, job.ExperienceLevel, job.ID, job.EmployerID}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM job_skills WHERE job_id = $1`, job.ID); err != nil {
		return err
	}

	if err := insertJobSkills(ctx, tx, job.ID, job.Skills); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	job.Status = domain.JobStatusPending
	job.RejectionReason = nil

	return nil
}

// ReviewJob moves a pending job to approved or rejected and appends the
// matching admin log entry in the same transaction.
func (r *Repository) ReviewJob(ctx context.Context, id string, status domain.JobStatus, reason *string, log *domain.AdminLog) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE jobs SET status = $1, rejection_reason = $2 WHERE id = $3 AND status = 'pending'`
	res, err := tx.ExecContext(ctx, query, status, reason, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrJobNotPending
	}

	if err := insertAdminLog(ctx, tx, log); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// CountJobs counts jobs in the given status, or all jobs when status is empty.
func (r *Repository) CountJobs(ctx context.Context, status domain.JobStatus) (int64, error) {
	var count int64

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT count(*) FROM jobs`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}

	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
