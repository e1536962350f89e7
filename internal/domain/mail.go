package domain

const (
	MailTypeWelcome       = "welcome"
	MailTypeResetPassword = "reset_password"
	MailTypeJobReviewed   = "job_reviewed"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type WelcomeMailData struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type ResetPasswordMailData struct {
	Name       string `json:"name"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type JobReviewedMailData struct {
	Name     string    `json:"name"`
	JobTitle string    `json:"jobTitle"`
	Status   JobStatus `json:"status"`
	Reason   string    `json:"reason"`
}
