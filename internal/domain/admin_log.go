package domain

import (
	"time"
)

const (
	ActionJobApproved       = "job_approved"
	ActionJobRejected       = "job_rejected"
	ActionUserStatusUpdated = "user_status_updated"
	ActionUserDeleted       = "user_deleted"
)

type AdminLog struct {
	ID           string    `json:"id"`
	AdminID      string    `json:"admin_id"`
	ActionType   string    `json:"action_type"`
	TargetUserID *string   `json:"target_user_id"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	AdminName    string    `json:"admin_name"`
}

type Count struct {
	Count int64 `json:"count"`
}

type AdminStats struct {
	TotalVAs       Count `json:"totalVAs"`
	TotalEmployers Count `json:"totalEmployers"`
	TotalJobs      Count `json:"totalJobs"`
	PendingJobs    Count `json:"pendingJobs"`
}
