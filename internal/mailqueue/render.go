package mailqueue

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Mail is a queued message rendered and ready for SMTP delivery.
type Mail struct {
	To      string
	Subject string
	HTML    string
}

type envelope struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

type kind struct {
	subject  string
	template string
	data     func() any
}

var kinds = map[string]kind{
	domain.MailTypeWelcome: {
		subject:  "Welcome to VA Hub",
		template: "welcome.html",
		data:     func() any { return &domain.WelcomeMailData{} },
	},
	domain.MailTypeResetPassword: {
		subject:  "VA Hub - Reset your password",
		template: "reset_password.html",
		data:     func() any { return &domain.ResetPasswordMailData{} },
	},
	domain.MailTypeJobReviewed: {
		subject:  "VA Hub - Your job posting was reviewed",
		template: "job_reviewed.html",
		data:     func() any { return &domain.JobReviewedMailData{} },
	},
}

// Decode parses a queue message body and renders its template.
func Decode(body []byte) (*Mail, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	k, ok := kinds[env.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported mail type %q", env.Type)
	}
	if env.To == "" {
		return nil, fmt.Errorf("mail %q has no recipient", env.Type)
	}

	data := k.data()
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, k.template, data); err != nil {
		return nil, err
	}

	return &Mail{To: env.To, Subject: k.subject, HTML: buf.String()}, nil
}
