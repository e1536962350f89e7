package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

// CreateApplication does not check for an earlier application by the same VA
// to the same job.
func (r *Repository) CreateApplication(ctx context.Context, app *domain.Application) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if app.ID == "" {
		app.ID = uuid.NewString()
	}

	query := `
		INSERT INTO applications (id, job_id, va_id, cover_letter)
		VALUES ($1, $2, $3, $4)
		RETURNING status, created_at
	`
	args := []any{app.ID, app.JobID, app.VAID, app.CoverLetter}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&app.Status, &app.CreatedAt); err != nil {
		return err
	}

	return nil
}

// GetApplicationsByVA is the VA's application history with job and company
// names, newest first.
func (r *Repository) GetApplicationsByVA(ctx context.Context, vaID string) ([]*domain.Application, error) {
	query := `
		SELECT
			applications.id,
			applications.job_id,
			applications.va_id,
			applications.cover_letter,
			applications.status,
			applications.created_at,
			COALESCE(jobs.title, ''),
			employer_profiles.company_name
		FROM applications
		LEFT JOIN jobs ON applications.job_id = jobs.id
		LEFT JOIN employer_profiles ON jobs.employer_id = employer_profiles.user_id
		WHERE applications.va_id = $1
		ORDER BY applications.created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, vaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]*domain.Application, 0)
	for rows.Next() {
		app := &domain.Application{}
		dst := []any{&app.ID, &app.JobID, &app.VAID, &app.CoverLetter, &app.Status, &app.CreatedAt, &app.JobTitle, &app.CompanyName}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

// GetApplicationsByEmployer lists applications to any of the employer's jobs.
func (r *Repository) GetApplicationsByEmployer(ctx context.Context, employerID string) ([]*domain.Application, error) {
	query := `
		SELECT
			applications.id,
			applications.job_id,
			applications.va_id,
			applications.cover_letter,
			applications.status,
			applications.created_at,
			COALESCE(users.name, ''),
			jobs.title
		FROM applications
		JOIN jobs ON applications.job_id = jobs.id
		LEFT JOIN users ON applications.va_id = users.id
		WHERE jobs.employer_id = $1
		ORDER BY applications.created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]*domain.Application, 0)
	for rows.Next() {
		app := &domain.Application{}
		dst := []any{&app.ID, &app.JobID, &app.VAID, &app.CoverLetter, &app.Status, &app.CreatedAt, &app.VAName, &app.JobTitle}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

// UpdateApplicationStatus only touches applications to jobs owned by employerID.
func (r *Repository) UpdateApplicationStatus(ctx context.Context, id string, employerID string, status domain.ApplicationStatus) error {
	query := `
		UPDATE applications SET status = $1
		WHERE id = $2 AND job_id IN (SELECT id FROM jobs WHERE employer_id = $3)
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, status, id, employerID)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
