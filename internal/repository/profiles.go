package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

const vaProfileColumns = `
	va_profiles.id,
	va_profiles.user_id,
	COALESCE(users.name, ''),
	COALESCE(users.email, ''),
	va_profiles.headline,
	va_profiles.bio,
	va_profiles.hourly_rate,
	va_profiles.monthly_salary,
	va_profiles.availability,
	va_profiles.experience_years,
	va_profiles.id_proof_score,
	va_profiles.iq_score,
	va_profiles.english_score,
	va_profiles.education,
	va_profiles.last_active,
	va_profiles.intro_video_url,
	va_profiles.resume_url,
	va_profiles.profile_views,
	va_profiles.is_featured
`

func scanVAProfile(s rowScanner) (*domain.VAProfile, error) {
	p := &domain.VAProfile{}
	dst := []any{
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Email,
		&p.Headline,
		&p.Bio,
		&p.HourlyRate,
		&p.MonthlySalary,
		&p.Availability,
		&p.ExperienceYears,
		&p.IDProofScore,
		&p.IQScore,
		&p.EnglishScore,
		&p.Education,
		&p.LastActive,
		&p.IntroVideoURL,
		&p.ResumeURL,
		&p.ProfileViews,
		&p.IsFeatured,
	}
	if err := s.Scan(dst...); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) getVASkills(ctx context.Context, userID string) ([]domain.VASkill, error) {
	query := `SELECT skill_name, years_experience FROM va_skills WHERE va_id = $1 ORDER BY skill_name`

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]domain.VASkill, 0)
	for rows.Next() {
		var skill domain.VASkill
		if err := rows.Scan(&skill.SkillName, &skill.YearsExperience); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return skills, nil
}

func (r *Repository) GetVAProfile(ctx context.Context, userID string) (*domain.VAProfile, error) {
	query := `
		SELECT ` + vaProfileColumns + `
		FROM va_profiles
		LEFT JOIN users ON va_profiles.user_id = users.id
		WHERE va_profiles.user_id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	profile, err := scanVAProfile(r.dbpool.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, err
	}

	skills, err := r.getVASkills(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Skills = skills

	return profile, nil
}

// GetTalents lists the profiles of approved VAs with their skills. There is no
// paging; search is a substring match on the name or headline.
func (r *Repository) GetTalents(ctx context.Context, search string) ([]*domain.VAProfile, error) {
	query := `
		SELECT ` + vaProfileColumns + `
		FROM va_profiles
		JOIN users ON va_profiles.user_id = users.id
		WHERE users.status = 'approved'
	`
	args := []any{}
	if search != "" {
		query += ` AND (users.name ILIKE $1 OR va_profiles.headline ILIKE $1)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY va_profiles.is_featured DESC, users.created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*domain.VAProfile, 0)
	for rows.Next() {
		p, err := scanVAProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, p := range profiles {
		skills, err := r.getVASkills(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		p.Skills = skills
	}

	return profiles, nil
}

func insertVASkills(ctx context.Context, tx *sql.Tx, userID string, skills []domain.VASkill) error {
	query := `INSERT INTO va_skills (id, va_id, skill_name, years_experience) VALUES ($1, $2, $3, $4)`
	for _, skill := range skills {
		if _, err := tx.ExecContext(ctx, query, uuid.NewString(), userID, skill.SkillName, skill.YearsExperience); err != nil {
			return err
		}
	}
	return nil
}

// UpdateVAProfile updates the profile fields and replaces the whole skill
// list in one transaction.
func (r *Repository) UpdateVAProfile(ctx context.Context, p *domain.VAProfile) error {
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
		UPDATE va_profiles
		SET
			headline = $1,
			bio = $2,
			hourly_rate = $3,
			monthly_salary = $4,
			availability = $5,
			experience_years = $6,
			education = $7,
			intro_video_url = $8,
			resume_url = $9
		WHERE user_id = $10
	`
	args := []any{p.Headline, p.Bio, p.HourlyRate, p.MonthlySalary, p.Availability, p.ExperienceYears, p.Education, p.IntroVideoURL, p.ResumeURL, p.UserID}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM va_skills WHERE va_id = $1`, p.UserID); err != nil {
		return err
	}

	if err := insertVASkills(ctx, tx, p.UserID, p.Skills); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEmployerProfile(ctx context.Context, userID string) (*domain.EmployerProfile, error) {
	query := `
		SELECT id, user_id, company_name, company_description, website, industry, team_size, logo_url
		FROM employer_profiles WHERE user_id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	p := &domain.EmployerProfile{}
	dst := []any{&p.ID, &p.UserID, &p.CompanyName, &p.CompanyDescription, &p.Website, &p.Industry, &p.TeamSize, &p.LogoURL}
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(dst...); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *Repository) UpdateEmployerProfile(ctx context.Context, p *domain.EmployerProfile) error {
	query := `
		UPDATE employer_profiles
		SET
			company_name = $1,
			company_description = $2,
			website = $3,
			industry = $4,
			team_size = $5,
			logo_url = $6
		WHERE user_id = $7
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{p.CompanyName, p.CompanyDescription, p.Website, p.Industry, p.TeamSize, p.LogoURL, p.UserID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		return err
	}

	return nil
}
