package domain

import (
	"time"
)

type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusApproved JobStatus = "approved"
	JobStatusRejected JobStatus = "rejected"
	JobStatusClosed   JobStatus = "closed"
)

type Job struct {
	ID              string    `json:"id"`
	EmployerID      string    `json:"employer_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	SalaryMin       *float64  `json:"salary_min"`
	SalaryMax       *float64  `json:"salary_max"`
	JobType         *string   `json:"job_type"`
	ExperienceLevel *string   `json:"experience_level"`
	Status          JobStatus `json:"status"`
	IsFeatured      bool      `json:"is_featured"`
	RejectionReason *string   `json:"rejection_reason"`
	CreatedAt       time.Time `json:"created_at"`
	Skills          []string  `json:"skills"`

	// company fields joined from the employer profile
	CompanyName        *string `json:"company_name"`
	CompanyDescription *string `json:"company_description,omitempty"`
	LogoURL            *string `json:"logo_url"`
}
