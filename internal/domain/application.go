package domain

import (
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusApplied     ApplicationStatus = "applied"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"
)

type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id"`
	VAID        string            `json:"va_id"`
	CoverLetter *string           `json:"cover_letter"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`

	VAName      string  `json:"va_name,omitempty"`
	JobTitle    string  `json:"job_title,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
}
