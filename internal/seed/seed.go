package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vahub-dev/marketplace/backend/internal/config"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Store is what bootstrapping needs from the repository.
type Store interface {
	EnsureSchema(ctx context.Context) error
	UpsertPlan(ctx context.Context, p *domain.Plan) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdatePasswordByEmail(ctx context.Context, email string, passwordHash string) error
	CreateVAWithProfile(ctx context.Context, user *domain.User, p *domain.VAProfile) error
	CreateEmployerWithProfile(ctx context.Context, user *domain.User, p *domain.EmployerProfile) error
	CountUsersByRole(ctx context.Context, role domain.Role) (int64, error)
	CountJobs(ctx context.Context, status domain.JobStatus) (int64, error)
	CreateDemoJob(ctx context.Context, job *domain.Job) error
}

const (
	DemoVAID          = "va-demo-1"
	DemoVAEmail       = "va@demo.com"
	DemoEmployerID    = "employer-demo-1"
	DemoEmployerEmail = "emp@demo.com"
	demoVAProfileID   = "va-prof-demo"
	demoEmpProfileID  = "emp-prof-demo"
	demoJobExperience = "Intermediate"
	talentSeedMaxVAs  = 2 // talents are seeded while only the demo accounts exist
	jobSeedMaxJobs    = 1
)

func int32p(v int32) *int32 { return &v }

// Plans is the fixed plan catalog.
func Plans() []*domain.Plan {
	return []*domain.Plan{
		{ID: domain.PlanFree, Name: "Free", Price: 0, JobPostLimit: int32p(3), MessagingLimit: int32p(0), CandidateUnlockLimit: int32p(0), FeaturedJobsLimit: int32p(0)},
		{ID: domain.PlanPro, Name: "PRO", Price: 29, JobPostLimit: int32p(3), MessagingLimit: int32p(75), CandidateUnlockLimit: int32p(200), FeaturedJobsLimit: int32p(0)},
		{ID: domain.PlanPremium, Name: "PREMIUM", Price: 39, JobPostLimit: int32p(10), MessagingLimit: int32p(500), CandidateUnlockLimit: int32p(200), FeaturedJobsLimit: int32p(2)},
	}
}

// Bootstrap makes a fresh or existing database ready to serve: schema,
// plan catalog, initial admin and, when enabled, the demo content. Every
// step is idempotent so it runs on each start.
func Bootstrap(ctx context.Context, cfg *config.Config, store Store) error {
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	for _, p := range Plans() {
		if err := store.UpsertPlan(ctx, p); err != nil {
			return fmt.Errorf("seed plan %s: %w", p.ID, err)
		}
	}
	slog.Info("plan catalog ready", "plans", len(Plans()))

	admin := &domain.User{
		ID:     cfg.InitialAdmin.ID,
		Role:   domain.RoleAdmin,
		Name:   cfg.InitialAdmin.Name,
		Email:  cfg.InitialAdmin.Email,
		Status: domain.UserStatusApproved,
	}
	if err := ensureAccount(ctx, store, admin, cfg.InitialAdmin.Password, func(u *domain.User) error {
		return store.CreateUser(ctx, u)
	}); err != nil {
		return fmt.Errorf("seed initial admin: %w", err)
	}

	if !cfg.Demo.Enabled {
		return nil
	}

	if err := seedDemoAccounts(ctx, cfg, store); err != nil {
		return err
	}
	if err := seedTalents(ctx, cfg, store); err != nil {
		return err
	}
	if err := seedJobs(ctx, store); err != nil {
		return err
	}

	return nil
}

// ensureAccount creates the account when its email is unknown and otherwise
// only resets its password.
func ensureAccount(ctx context.Context, store Store, user *domain.User, password string, create func(*domain.User) error) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = store.GetUserByEmail(ctx, user.Email)
	switch {
	case err == nil:
		slog.Info("account exists, resetting password", "email", user.Email)
		return store.UpdatePasswordByEmail(ctx, user.Email, string(hash))
	case errors.Is(err, sql.ErrNoRows):
		user.PasswordHash = string(hash)
		if err := create(user); err != nil {
			return err
		}
		slog.Info("account created", "email", user.Email, "role", user.Role)
		return nil
	default:
		return err
	}
}

func strp(s string) *string { return &s }

func float64p(v float64) *float64 { return &v }

func seedDemoAccounts(ctx context.Context, cfg *config.Config, store Store) error {
	va := &domain.User{
		ID:     DemoVAID,
		Role:   domain.RoleVA,
		Name:   "Demo VA",
		Email:  DemoVAEmail,
		Status: domain.UserStatusApproved,
	}
	vaProfile := &domain.VAProfile{
		ID:            demoVAProfileID,
		Headline:      strp("Expert Virtual Assistant"),
		Bio:           strp("I am a demo VA profile with extensive experience in administrative tasks."),
		HourlyRate:    float64p(15),
		MonthlySalary: float64p(2400),
		IDProofScore:  80,
		Education:     strp("Bachelors degree"),
		LastActive:    strp("Today"),
	}
	if err := ensureAccount(ctx, store, va, cfg.Demo.VAPassword, func(u *domain.User) error {
		return store.CreateVAWithProfile(ctx, u, vaProfile)
	}); err != nil {
		return fmt.Errorf("seed demo va: %w", err)
	}

	employer := &domain.User{
		ID:     DemoEmployerID,
		Role:   domain.RoleEmployer,
		Name:   "Demo Employer",
		Email:  DemoEmployerEmail,
		Status: domain.UserStatusApproved,
	}
	employerProfile := &domain.EmployerProfile{
		ID:          demoEmpProfileID,
		CompanyName: strp("Demo Corp"),
		Industry:    strp("Technology"),
	}
	if err := ensureAccount(ctx, store, employer, cfg.Demo.EmployerPassword, func(u *domain.User) error {
		return store.CreateEmployerWithProfile(ctx, u, employerProfile)
	}); err != nil {
		return fmt.Errorf("seed demo employer: %w", err)
	}

	return nil
}

func seedTalents(ctx context.Context, cfg *config.Config, store Store) error {
	count, err := store.CountUsersByRole(ctx, domain.RoleVA)
	if err != nil {
		return err
	}
	if count > talentSeedMaxVAs {
		slog.Debug("talents already seeded", "vas", count)
		return nil
	}

	talents, err := LoadTalents()
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Demo.TalentPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	cnt := 0
	for _, t := range talents {
		user := &domain.User{
			Role:         domain.RoleVA,
			Name:         t.Name,
			Email:        TalentEmail(t.Name, cfg.Demo.TalentEmailDomain),
			PasswordHash: string(hash),
			Status:       domain.UserStatusApproved,
		}
		if err := store.CreateVAWithProfile(ctx, user, t.Profile); err != nil {
			slog.Error("failed to seed talent", "name", t.Name, "error", err)
			continue
		}
		cnt++
	}

	slog.Info("talents seeded", "count", cnt)
	return nil
}

func seedJobs(ctx context.Context, store Store) error {
	count, err := store.CountJobs(ctx, "")
	if err != nil {
		return err
	}
	if count > jobSeedMaxJobs {
		slog.Debug("jobs already seeded", "jobs", count)
		return nil
	}

	jobs, err := LoadJobs()
	if err != nil {
		return err
	}

	cnt := 0
	for _, job := range jobs {
		job.EmployerID = DemoEmployerID
		if err := store.CreateDemoJob(ctx, job); err != nil {
			slog.Error("failed to seed job", "id", job.ID, "error", err)
			continue
		}
		cnt++
	}

	slog.Info("jobs seeded", "count", cnt)
	return nil
}
