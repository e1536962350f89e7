package handler

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

// memStore is an in-memory Repository with the same observable rules as the
// postgres one: ownership filters, pending-only review, replace semantics.
type memStore struct {
	mu sync.Mutex

	users            map[string]*domain.User
	vaProfiles       map[string]*domain.VAProfile
	employerProfiles map[string]*domain.EmployerProfile
	jobs             map[string]*domain.Job
	applications     map[string]*domain.Application
	messages         []*domain.Message
	plans            map[string]*domain.Plan
	subscriptions    map[string]*domain.Subscription
	logs             []*domain.AdminLog

	clock time.Time
}

func newMemStore() *memStore {
	s := &memStore{
		users:            map[string]*domain.User{},
		vaProfiles:       map[string]*domain.VAProfile{},
		employerProfiles: map[string]*domain.EmployerProfile{},
		jobs:             map[string]*domain.Job{},
		applications:     map[string]*domain.Application{},
		plans:            map[string]*domain.Plan{},
		subscriptions:    map[string]*domain.Subscription{},
		clock:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	limit := func(v int32) *int32 { return &v }
	s.plans[domain.PlanFree] = &domain.Plan{ID: domain.PlanFree, Name: "Free", Price: 0, JobPostLimit: limit(3), MessagingLimit: limit(0), CandidateUnlockLimit: limit(0), FeaturedJobsLimit: limit(0)}
	s.plans[domain.PlanPro] = &domain.Plan{ID: domain.PlanPro, Name: "PRO", Price: 29, JobPostLimit: limit(3), MessagingLimit: limit(75), CandidateUnlockLimit: limit(200), FeaturedJobsLimit: limit(0)}
	s.plans[domain.PlanPremium] = &domain.Plan{ID: domain.PlanPremium, Name: "PREMIUM", Price: 39, JobPostLimit: limit(10), MessagingLimit: limit(500), CandidateUnlockLimit: limit(200), FeaturedJobsLimit: limit(2)}

	return s
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memStore) GetUsers(_ context.Context, search string) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search = strings.ToLower(search)
	users := []*domain.User{}
	for _, u := range s.users {
		if u.Role == domain.RoleAdmin {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (s *memStore) CreateUserWithProfile(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Status == "" {
		user.Status = domain.UserStatusPending
	}
	user.CreatedAt = s.tick()
	cp := *user
	s.users[user.ID] = &cp

	switch user.Role {
	case domain.RoleVA:
		s.vaProfiles[user.ID] = &domain.VAProfile{ID: uuid.NewString(), UserID: user.ID}
	case domain.RoleEmployer:
		s.employerProfiles[user.ID] = &domain.EmployerProfile{ID: uuid.NewString(), UserID: user.ID}
	}
	return nil
}

func (s *memStore) UpdateUserPassword(_ context.Context, id string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *memStore) appendLog(log *domain.AdminLog) {
	log.ID = uuid.NewString()
	log.CreatedAt = s.tick()
	cp := *log
	s.logs = append(s.logs, &cp)
}

func (s *memStore) UpdateUserStatus(_ context.Context, id string, status domain.UserStatus, log *domain.AdminLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Status = status
	s.appendLog(log)
	return nil
}

func (s *memStore) DeleteUser(_ context.Context, id string, log *domain.AdminLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.users, id)
	s.appendLog(log)
	return nil
}

func (s *memStore) CountUsersByRole(_ context.Context, role domain.Role) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, u := range s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (s *memStore) withCompany(j *domain.Job) *domain.Job {
	cp := *j
	cp.Skills = slices.Clone(j.Skills)
	if p, ok := s.employerProfiles[j.EmployerID]; ok {
		cp.CompanyName = p.CompanyName
		cp.CompanyDescription = p.CompanyDescription
		cp.LogoURL = p.LogoURL
	}
	return &cp
}

func (s *memStore) GetApprovedJobs(_ context.Context, search string) ([]*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search = strings.ToLower(search)
	jobs := []*domain.Job{}
	for _, j := range s.jobs {
		if j.Status != domain.JobStatusApproved {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(j.Title), search) && !strings.Contains(strings.ToLower(j.Description), search) {
			continue
		}
		cp := s.withCompany(j)
		cp.CompanyDescription = nil
		jobs = append(jobs, cp)
	}
	sort.Slice(jobs, func(i, k int) bool {
		if jobs[i].IsFeatured != jobs[k].IsFeatured {
			return jobs[i].IsFeatured
		}
		return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
	})
	return jobs, nil
}

func (s *memStore) GetJobByID(_ context.Context, id string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s.withCompany(j), nil
}

func (s *memStore) GetPendingJobs(_ context.Context) ([]*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := []*domain.Job{}
	for _, j := range s.jobs {
		if j.Status == domain.JobStatusPending {
			jobs = append(jobs, s.withCompany(j))
		}
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].CreatedAt.After(jobs[k].CreatedAt) })
	return jobs, nil
}

func (s *memStore) CreateJob(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job.ID = uuid.NewString()
	job.Status = domain.JobStatusPending
	job.IsFeatured = false
	job.CreatedAt = s.tick()
	cp := *job
	cp.Skills = slices.Clone(job.Skills)
	s.jobs[job.ID] = &cp
	return nil
}

func (s *memStore) UpdateJob(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[job.ID]
	if !ok || j.EmployerID != job.EmployerID {
		return sql.ErrNoRows
	}
	j.Title = job.Title
	j.Description = job.Description
	j.SalaryMin = job.SalaryMin
	j.SalaryMax = job.SalaryMax
	j.JobType = job.JobType
	j.ExperienceLevel = job.ExperienceLevel
	j.Skills = slices.Clone(job.Skills)
	j.Status = domain.JobStatusPending
	j.RejectionReason = nil
	return nil
}

func (s *memStore) ReviewJob(_ context.Context, id string, status domain.JobStatus, reason *string, log *domain.AdminLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok || j.Status != domain.JobStatusPending {
		return domain.ErrJobNotPending
	}
	j.Status = status
	j.RejectionReason = reason
	s.appendLog(log)
	return nil
}

func (s *memStore) CountJobs(_ context.Context, status domain.JobStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, j := range s.jobs {
		if status == "" || j.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *memStore) CreateApplication(_ context.Context, app *domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app.ID = uuid.NewString()
	app.Status = domain.ApplicationStatusApplied
	app.CreatedAt = s.tick()
	cp := *app
	s.applications[app.ID] = &cp
	return nil
}

func (s *memStore) GetApplicationsByVA(_ context.Context, vaID string) ([]*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := []*domain.Application{}
	for _, a := range s.applications {
		if a.VAID != vaID {
			continue
		}
		cp := *a
		if j, ok := s.jobs[a.JobID]; ok {
			cp.JobTitle = j.Title
			if p, ok := s.employerProfiles[j.EmployerID]; ok {
				cp.CompanyName = p.CompanyName
			}
		}
		apps = append(apps, &cp)
	}
	sort.Slice(apps, func(i, k int) bool { return apps[i].CreatedAt.After(apps[k].CreatedAt) })
	return apps, nil
}

func (s *memStore) GetApplicationsByEmployer(_ context.Context, employerID string) ([]*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := []*domain.Application{}
	for _, a := range s.applications {
		j, ok := s.jobs[a.JobID]
		if !ok || j.EmployerID != employerID {
			continue
		}
		cp := *a
		cp.JobTitle = j.Title
		if u, ok := s.users[a.VAID]; ok {
			cp.VAName = u.Name
		}
		apps = append(apps, &cp)
	}
	sort.Slice(apps, func(i, k int) bool { return apps[i].CreatedAt.After(apps[k].CreatedAt) })
	return apps, nil
}

func (s *memStore) UpdateApplicationStatus(_ context.Context, id string, employerID string, status domain.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[id]
	if !ok {
		return sql.ErrNoRows
	}
	if j, ok := s.jobs[a.JobID]; !ok || j.EmployerID != employerID {
		return sql.ErrNoRows
	}
	a.Status = status
	return nil
}

func (s *memStore) profileWithUser(p *domain.VAProfile) *domain.VAProfile {
	cp := *p
	cp.Skills = slices.Clone(p.Skills)
	if u, ok := s.users[p.UserID]; ok {
		cp.Name = u.Name
		cp.Email = u.Email
	}
	return &cp
}

func (s *memStore) GetVAProfile(_ context.Context, userID string) (*domain.VAProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.vaProfiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s.profileWithUser(p), nil
}

func (s *memStore) GetTalents(_ context.Context, search string) ([]*domain.VAProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search = strings.ToLower(search)
	talents := []*domain.VAProfile{}
	for _, p := range s.vaProfiles {
		u, ok := s.users[p.UserID]
		if !ok || u.Status != domain.UserStatusApproved {
			continue
		}
		headline := ""
		if p.Headline != nil {
			headline = *p.Headline
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(strings.ToLower(headline), search) {
			continue
		}
		talents = append(talents, s.profileWithUser(p))
	}
	sort.Slice(talents, func(i, k int) bool { return talents[i].Name < talents[k].Name })
	return talents, nil
}

func (s *memStore) UpdateVAProfile(_ context.Context, p *domain.VAProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.vaProfiles[p.UserID]
	if !ok {
		return sql.ErrNoRows
	}
	cur.Headline = p.Headline
	cur.Bio = p.Bio
	cur.HourlyRate = p.HourlyRate
	cur.MonthlySalary = p.MonthlySalary
	cur.Availability = p.Availability
	cur.ExperienceYears = p.ExperienceYears
	cur.Education = p.Education
	cur.IntroVideoURL = p.IntroVideoURL
	cur.ResumeURL = p.ResumeURL
	cur.Skills = slices.Clone(p.Skills)
	return nil
}

func (s *memStore) GetEmployerProfile(_ context.Context, userID string) (*domain.EmployerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.employerProfiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) UpdateEmployerProfile(_ context.Context, p *domain.EmployerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.employerProfiles[p.UserID]
	if !ok {
		return sql.ErrNoRows
	}
	p.ID = cur.ID
	cp := *p
	s.employerProfiles[p.UserID] = &cp
	return nil
}

func (s *memStore) GetMessagesByUser(_ context.Context, userID string) ([]*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := []*domain.Message{}
	for _, m := range s.messages {
		if m.SenderID != userID && m.ReceiverID != userID {
			continue
		}
		cp := *m
		if u, ok := s.users[m.SenderID]; ok {
			cp.SenderName = u.Name
		}
		if u, ok := s.users[m.ReceiverID]; ok {
			cp.ReceiverName = u.Name
		}
		msgs = append(msgs, &cp)
	}
	return msgs, nil
}

func (s *memStore) CreateMessage(_ context.Context, m *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = uuid.NewString()
	m.CreatedAt = s.tick()
	cp := *m
	s.messages = append(s.messages, &cp)
	return nil
}

func (s *memStore) GetPlans(_ context.Context) ([]*domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans := []*domain.Plan{}
	for _, p := range s.plans {
		cp := *p
		plans = append(plans, &cp)
	}
	sort.Slice(plans, func(i, k int) bool { return plans[i].Price < plans[k].Price })
	return plans, nil
}

func (s *memStore) GetPlanByID(_ context.Context, id string) (*domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) GetSubscriptionByEmployer(_ context.Context, employerID string) (*domain.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[employerID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	plan, ok := s.plans[sub.PlanID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *sub
	price := plan.Price
	cp.PlanName = plan.Name
	cp.Price = &price
	cp.JobPostLimit = plan.JobPostLimit
	cp.MessagingLimit = plan.MessagingLimit
	return &cp, nil
}

func (s *memStore) ReplaceSubscription(_ context.Context, sub *domain.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub.ID = uuid.NewString()
	cp := *sub
	s.subscriptions[sub.EmployerID] = &cp
	return nil
}

func (s *memStore) GetAllSubscriptions(_ context.Context) ([]*domain.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := []*domain.Subscription{}
	for _, sub := range s.subscriptions {
		cp := *sub
		if u, ok := s.users[sub.EmployerID]; ok {
			cp.EmployerName = u.Name
			cp.EmployerEmail = u.Email
		}
		if p, ok := s.plans[sub.PlanID]; ok {
			cp.PlanName = p.Name
		}
		subs = append(subs, &cp)
	}
	return subs, nil
}

func (s *memStore) GetAdminLogs(_ context.Context, limit int) ([]*domain.AdminLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := []*domain.AdminLog{}
	for i := len(s.logs) - 1; i >= 0 && len(logs) < limit; i-- {
		cp := *s.logs[i]
		if u, ok := s.users[cp.AdminID]; ok {
			cp.AdminName = u.Name
		}
		logs = append(logs, &cp)
	}
	return logs, nil
}

// subscriptionCount is used by tests to check replace semantics.
func (s *memStore) subscriptionCount(employerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscriptions[employerID]; ok {
		return 1
	}
	return 0
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []domain.MailMessage
	err  error
}

func (m *fakeMailer) Publish(_ context.Context, msg domain.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		types = append(types, msg.Type)
	}
	return types
}

type fakeOTPStore struct {
	mu     sync.Mutex
	values map[string]string
}

func (o *fakeOTPStore) Set(_ context.Context, key string, otp string, _ time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.values == nil {
		o.values = map[string]string{}
	}
	o.values[key] = otp
	return nil
}

func (o *fakeOTPStore) Get(_ context.Context, key string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	v, ok := o.values[key]
	if !ok {
		return "", fmt.Errorf("otp %s not found", key)
	}
	return v, nil
}

func (o *fakeOTPStore) Del(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.values, key)
	return nil
}
