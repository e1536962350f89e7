package repository

import (
	"context"
	"log/slog"
	"time"
)

// No foreign keys: deleting a user leaves its
// profile, applications and messages in place.
const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL CHECK (role IN ('admin', 'employer', 'va')),
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		password TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'suspended')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT users_email_key UNIQUE (email)
	);

	CREATE TABLE IF NOT EXISTS va_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		headline TEXT,
		bio TEXT,
		hourly_rate DOUBLE PRECISION,
		availability TEXT,
		experience_years INTEGER,
		intro_video_url TEXT,
		resume_url TEXT,
		profile_views INTEGER NOT NULL DEFAULT 0,
		is_featured BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS employer_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		company_name TEXT,
		company_description TEXT,
		website TEXT,
		industry TEXT,
		team_size TEXT,
		logo_url TEXT
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		employer_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		salary_min DOUBLE PRECISION,
		salary_max DOUBLE PRECISION,
		job_type TEXT,
		experience_level TEXT,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected', 'closed')),
		is_featured BOOLEAN NOT NULL DEFAULT FALSE,
		rejection_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS admin_logs (
		id TEXT PRIMARY KEY,
		admin_id TEXT NOT NULL,
		action_type TEXT NOT NULL,
		target_user_id TEXT,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		va_id TEXT NOT NULL,
		cover_letter TEXT,
		status TEXT NOT NULL DEFAULT 'applied' CHECK (status IN ('applied', 'shortlisted', 'rejected', 'hired')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS subscriptions (
		id TEXT PRIMARY KEY,
		employer_id TEXT NOT NULL,
		plan_id TEXT NOT NULL,
		status TEXT,
		current_period_end TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		job_post_limit INTEGER,
		messaging_limit INTEGER,
		candidate_unlock_limit INTEGER,
		featured_jobs_limit INTEGER
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL,
		receiver_id TEXT NOT NULL,
		message_body TEXT NOT NULL,
		is_flagged BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS va_skills (
		id TEXT PRIMARY KEY,
		va_id TEXT NOT NULL,
		skill_name TEXT NOT NULL,
		years_experience TEXT
	);

	CREATE TABLE IF NOT EXISTS job_skills (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		skill_name TEXT NOT NULL
	);
`

// Columns added to va_profiles after the first release. Each one runs on its
// own so an already existing column does not stop the rest.
var columnMigrations = []string{
	`ALTER TABLE va_profiles ADD COLUMN id_proof_score INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE va_profiles ADD COLUMN iq_score INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE va_profiles ADD COLUMN english_score INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE va_profiles ADD COLUMN education TEXT`,
	`ALTER TABLE va_profiles ADD COLUMN last_active TEXT`,
	`ALTER TABLE va_profiles ADD COLUMN monthly_salary DOUBLE PRECISION`,
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, schema); err != nil {
		return err
	}

	for _, stmt := range columnMigrations {
		if _, err := r.dbpool.ExecContext(ctx, stmt); err != nil {
			slog.Debug("skipped column migration", "statement", stmt, "error", err)
		}
	}

	return nil
}
