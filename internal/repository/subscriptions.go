package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

func (r *Repository) GetPlans(ctx context.Context) ([]*domain.Plan, error) {
	query := `
		SELECT id, name, price, job_post_limit, messaging_limit, candidate_unlock_limit, featured_jobs_limit
		FROM plans ORDER BY price ASC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]*domain.Plan, 0)
	for rows.Next() {
		p := &domain.Plan{}
		dst := []any{&p.ID, &p.Name, &p.Price, &p.JobPostLimit, &p.MessagingLimit, &p.CandidateUnlockLimit, &p.FeaturedJobsLimit}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *Repository) GetPlanByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `
		SELECT name, price, job_post_limit, messaging_limit, candidate_unlock_limit, featured_jobs_limit
		FROM plans WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	p := &domain.Plan{ID: id}
	dst := []any{&p.Name, &p.Price, &p.JobPostLimit, &p.MessagingLimit, &p.CandidateUnlockLimit, &p.FeaturedJobsLimit}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return p, nil
}

// UpsertPlan keeps the catalog row in line with the configured price and limits.
func (r *Repository) UpsertPlan(ctx context.Context, p *domain.Plan) error {
	query := `
		INSERT INTO plans (id, name, price, job_post_limit, messaging_limit, candidate_unlock_limit, featured_jobs_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{p.ID, p.Name, p.Price, p.JobPostLimit, p.MessagingLimit, p.CandidateUnlockLimit, p.FeaturedJobsLimit}
	_, err := r.dbpool.ExecContext(ctx, query, args...)
	return err
}

// GetSubscriptionByEmployer returns sql.ErrNoRows when the employer has no
// subscription row or it points at a plan that does not exist.
func (r *Repository) GetSubscriptionByEmployer(ctx context.Context, employerID string) (*domain.Subscription, error) {
	query := `
		SELECT
			subscriptions.id,
			subscriptions.employer_id,
			subscriptions.plan_id,
			COALESCE(subscriptions.status, ''),
			subscriptions.current_period_end,
			plans.name,
			plans.price,
			plans.job_post_limit,
			plans.messaging_limit
		FROM subscriptions
		JOIN plans ON subscriptions.plan_id = plans.id
		WHERE subscriptions.employer_id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	s := &domain.Subscription{}
	dst := []any{&s.ID, &s.EmployerID, &s.PlanID, &s.Status, &s.CurrentPeriodEnd, &s.PlanName, &s.Price, &s.JobPostLimit, &s.MessagingLimit}
	if err := r.dbpool.QueryRowContext(ctx, query, employerID).Scan(dst...); err != nil {
		return nil, err
	}

	return s, nil
}

// ReplaceSubscription deletes whatever subscription the employer had and
// inserts the new one, both inside one transaction.
func (r *Repository) ReplaceSubscription(ctx context.Context, s *domain.Subscription) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE employer_id = $1`, s.EmployerID); err != nil {
		return err
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	query := `
		INSERT INTO subscriptions (id, employer_id, plan_id, status, current_period_end)
		VALUES ($1, $2, $3, $4, $5)
	`
	args := []any{s.ID, s.EmployerID, s.PlanID, s.Status, s.CurrentPeriodEnd}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllSubscriptions(ctx context.Context) ([]*domain.Subscription, error) {
	query := `
		SELECT
			subscriptions.id,
			subscriptions.employer_id,
			subscriptions.plan_id,
			COALESCE(subscriptions.status, ''),
			subscriptions.current_period_end,
			COALESCE(users.name, ''),
			COALESCE(users.email, ''),
			COALESCE(plans.name, '')
		FROM subscriptions
		LEFT JOIN users ON subscriptions.employer_id = users.id
		LEFT JOIN plans ON subscriptions.plan_id = plans.id
		ORDER BY subscriptions.current_period_end DESC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]*domain.Subscription, 0)
	for rows.Next() {
		s := &domain.Subscription{}
		dst := []any{&s.ID, &s.EmployerID, &s.PlanID, &s.Status, &s.CurrentPeriodEnd, &s.EmployerName, &s.EmployerEmail, &s.PlanName}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subs, nil
}
