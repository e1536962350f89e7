package handler

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/vahub-dev/marketplace/backend/internal/config"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUsers(ctx context.Context, search string) ([]*domain.User, error)
	CreateUserWithProfile(ctx context.Context, user *domain.User) error
	UpdateUserPassword(ctx context.Context, id string, passwordHash string) error
	UpdateUserStatus(ctx context.Context, id string, status domain.UserStatus, log *domain.AdminLog) error
	DeleteUser(ctx context.Context, id string, log *domain.AdminLog) error
	CountUsersByRole(ctx context.Context, role domain.Role) (int64, error)
}

type JobRepository interface {
	GetApprovedJobs(ctx context.Context, search string) ([]*domain.Job, error)
	GetJobByID(ctx context.Context, id string) (*domain.Job, error)
	GetPendingJobs(ctx context.Context) ([]*domain.Job, error)
	CreateJob(ctx context.Context, job *domain.Job) error
	UpdateJob(ctx context.Context, job *domain.Job) error
	ReviewJob(ctx context.Context, id string, status domain.JobStatus, reason *string, log *domain.AdminLog) error
	CountJobs(ctx context.Context, status domain.JobStatus) (int64, error)
}

type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *domain.Application) error
	GetApplicationsByVA(ctx context.Context, vaID string) ([]*domain.Application, error)
	GetApplicationsByEmployer(ctx context.Context, employerID string) ([]*domain.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, employerID string, status domain.ApplicationStatus) error
}

type ProfileRepository interface {
	GetVAProfile(ctx context.Context, userID string) (*domain.VAProfile, error)
	GetTalents(ctx context.Context, search string) ([]*domain.VAProfile, error)
	UpdateVAProfile(ctx context.Context, p *domain.VAProfile) error
	GetEmployerProfile(ctx context.Context, userID string) (*domain.EmployerProfile, error)
	UpdateEmployerProfile(ctx context.Context, p *domain.EmployerProfile) error
}

type MessageRepository interface {
	GetMessagesByUser(ctx context.Context, userID string) ([]*domain.Message, error)
	CreateMessage(ctx context.Context, m *domain.Message) error
}

type SubscriptionRepository interface {
	GetPlans(ctx context.Context) ([]*domain.Plan, error)
	GetPlanByID(ctx context.Context, id string) (*domain.Plan, error)
	GetSubscriptionByEmployer(ctx context.Context, employerID string) (*domain.Subscription, error)
	ReplaceSubscription(ctx context.Context, s *domain.Subscription) error
	GetAllSubscriptions(ctx context.Context) ([]*domain.Subscription, error)
}

type AdminLogRepository interface {
	GetAdminLogs(ctx context.Context, limit int) ([]*domain.AdminLog, error)
}

// Repository is everything the handlers need from storage.
type Repository interface {
	UserRepository
	JobRepository
	ApplicationRepository
	ProfileRepository
	MessageRepository
	SubscriptionRepository
	AdminLogRepository
}

// Mailer hands a mail job to the delivery worker.
type Mailer interface {
	Publish(ctx context.Context, msg domain.MailMessage) error
}

// OTPStore keeps one-time codes until they expire.
type OTPStore interface {
	Set(ctx context.Context, key string, otp string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository Repository
	translator ut.Translator
	mailer     Mailer
	otpStore   OTPStore

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Repository, mailer Mailer, otpStore OTPStore) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		mailer:     mailer,
		otpStore:   otpStore,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Route("/reset-password", func(r chi.Router) {
				r.Post("/require", h.RequireResetPassword)
				r.Post("/confirm", h.ConfirmResetPassword)
			})
		})

		// public reads
		r.Get("/jobs", h.GetJobs)
		r.Get("/jobs/{id}", h.GetJob)
		r.Get("/talents", h.GetTalents)
		r.Get("/plans", h.GetPlans)
		r.Get("/va/profile/{userId}", h.GetVAProfile)
		r.Get("/employer/profile/{userId}", h.GetEmployerProfile)

		// everything below needs a session
		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Route("/me", func(r chi.Router) {
				r.Use(h.myInfo)
				r.Get("/", h.GetMyInfo)
				r.Patch("/password", h.UpdateMyPassword)
			})

			r.Get("/messages/{userId}", h.GetMessages)
			r.Post("/messages", h.SendMessage)
			r.Get("/subscriptions", h.GetSubscription)

			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleEmployer}))
				r.Post("/jobs", h.CreateJob)
				r.Put("/jobs/{id}", h.UpdateJob)
				r.Get("/employer/applications", h.GetEmployerApplications)
				r.Post("/hire", h.HireApplicant)
				r.Post("/unhire", h.UnhireApplicant)
				r.Post("/shortlist", h.ShortlistApplicant)
				r.Post("/reject-application", h.RejectApplicant)
				r.Post("/subscriptions/upgrade", h.UpgradeSubscription)
				r.Post("/employer/profile", h.UpdateEmployerProfile)
				r.Post("/employer/profile/{userId}", h.UpdateEmployerProfile)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleVA}))
				r.Post("/applications", h.Apply)
				r.Get("/va/applications", h.GetVAApplications)
				r.Post("/va/profile", h.UpdateVAProfile)
				r.Post("/va/profile/{userId}", h.UpdateVAProfile)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Get("/stats", h.GetAdminStats)
				r.Get("/pending-jobs", h.GetPendingJobs)
				r.Post("/approve-job", h.ApproveJob)
				r.Post("/reject-job", h.RejectJob)
				r.Get("/users", h.GetUsers)
				r.Post("/update-user-status", h.UpdateUserStatus)
				r.Delete("/delete-user", h.DeleteUser)
				r.Post("/delete-user", h.DeleteUser)
				r.Get("/logs", h.GetAdminLogs)
				r.Get("/subscriptions", h.GetAllSubscriptions)
			})
		})
	})
}
