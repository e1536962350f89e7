package domain

import (
	"time"
)

const (
	PlanFree    = "free-plan"
	PlanPro     = "pro-plan"
	PlanPremium = "premium-plan"
)

const SubscriptionStatusActive = "active"

// Plan limits are informational, nothing enforces them.
type Plan struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Price                float64 `json:"price"`
	JobPostLimit         *int32  `json:"job_post_limit"`
	MessagingLimit       *int32  `json:"messaging_limit"`
	CandidateUnlockLimit *int32  `json:"candidate_unlock_limit"`
	FeaturedJobsLimit    *int32  `json:"featured_jobs_limit"`
}

type Subscription struct {
	ID               string     `json:"id,omitempty"`
	EmployerID       string     `json:"employer_id,omitempty"`
	PlanID           string     `json:"plan_id,omitempty"`
	Status           string     `json:"status,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`

	PlanName       string   `json:"plan_name"`
	Price          *float64 `json:"price,omitempty"`
	JobPostLimit   *int32   `json:"job_post_limit"`
	MessagingLimit *int32   `json:"messaging_limit,omitempty"`
	EmployerName   string   `json:"employer_name,omitempty"`
	EmployerEmail  string   `json:"employer_email,omitempty"`
}

// DefaultSubscription is returned for employers without a subscription row.
func DefaultSubscription() *Subscription {
	limit := int32(3)
	return &Subscription{
		PlanName:     "Free",
		JobPostLimit: &limit,
	}
}
