// Package client talks to the marketplace HTTP API and keeps the per-page
// view state of the dashboards and the message inbox.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: res.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = http.StatusText(res.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func withQuery(path string, key, value string) string {
	if value == "" {
		return path
	}
	return path + "?" + url.Values{key: {value}}.Encode()
}

type idResponse struct {
	ID string `json:"id"`
}

type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account and keeps its session token for later calls.
func (c *Client) Register(ctx context.Context, name, email, password string, role domain.Role) (*AuthResponse, error) {
	body := map[string]any{"name": name, "email": email, "password": password, "role": role}
	var res AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &res); err != nil {
		return nil, err
	}
	c.setToken(res.Token)
	return &res, nil
}

// Login keeps the returned session token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]any{"email": email, "password": password}
	var res AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &res); err != nil {
		return nil, err
	}
	c.setToken(res.Token)
	return &res, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.setToken("")
	return err
}

func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// jobs

type JobInput struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	SalaryMin       *float64 `json:"salary_min,omitempty"`
	SalaryMax       *float64 `json:"salary_max,omitempty"`
	JobType         *string  `json:"job_type,omitempty"`
	ExperienceLevel *string  `json:"experience_level,omitempty"`
	Skills          []string `json:"skills,omitempty"`
}

func (c *Client) Jobs(ctx context.Context, search string) ([]*domain.Job, error) {
	var jobs []*domain.Job
	err := c.do(ctx, http.MethodGet, withQuery("/api/jobs", "search", search), nil, &jobs)
	return jobs, err
}

func (c *Client) Job(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) CreateJob(ctx context.Context, in JobInput) (string, error) {
	var res idResponse
	err := c.do(ctx, http.MethodPost, "/api/jobs", in, &res)
	return res.ID, err
}

func (c *Client) UpdateJob(ctx context.Context, id string, in JobInput) error {
	return c.do(ctx, http.MethodPut, "/api/jobs/"+url.PathEscape(id), in, nil)
}

// applications

func (c *Client) Apply(ctx context.Context, jobID, coverLetter string) (string, error) {
	body := map[string]any{"job_id": jobID}
	if coverLetter != "" {
		body["cover_letter"] = coverLetter
	}
	var res idResponse
	err := c.do(ctx, http.MethodPost, "/api/applications", body, &res)
	return res.ID, err
}

func (c *Client) VAApplications(ctx context.Context, vaID string) ([]*domain.Application, error) {
	var apps []*domain.Application
	err := c.do(ctx, http.MethodGet, withQuery("/api/va/applications", "va_id", vaID), nil, &apps)
	return apps, err
}

func (c *Client) EmployerApplications(ctx context.Context, employerID string) ([]*domain.Application, error) {
	var apps []*domain.Application
	err := c.do(ctx, http.MethodGet, withQuery("/api/employer/applications", "employer_id", employerID), nil, &apps)
	return apps, err
}

func (c *Client) applicationAction(ctx context.Context, path, applicationID string) error {
	return c.do(ctx, http.MethodPost, path, map[string]any{"application_id": applicationID}, nil)
}

func (c *Client) Hire(ctx context.Context, applicationID string) error {
	return c.applicationAction(ctx, "/api/hire", applicationID)
}

func (c *Client) Unhire(ctx context.Context, applicationID string) error {
	return c.applicationAction(ctx, "/api/unhire", applicationID)
}

func (c *Client) Shortlist(ctx context.Context, applicationID string) error {
	return c.applicationAction(ctx, "/api/shortlist", applicationID)
}

func (c *Client) RejectApplication(ctx context.Context, applicationID string) error {
	return c.applicationAction(ctx, "/api/reject-application", applicationID)
}

// profiles

type VAProfileInput struct {
	Headline        *string          `json:"headline,omitempty"`
	Bio             *string          `json:"bio,omitempty"`
	HourlyRate      *float64         `json:"hourly_rate,omitempty"`
	MonthlySalary   *float64         `json:"monthly_salary,omitempty"`
	Availability    *string          `json:"availability,omitempty"`
	ExperienceYears *int32           `json:"experience_years,omitempty"`
	Education       *string          `json:"education,omitempty"`
	IntroVideoURL   *string          `json:"intro_video_url,omitempty"`
	ResumeURL       *string          `json:"resume_url,omitempty"`
	Skills          []domain.VASkill `json:"skills"`
}

type EmployerProfileInput struct {
	CompanyName        *string `json:"company_name,omitempty"`
	CompanyDescription *string `json:"company_description,omitempty"`
	Website            *string `json:"website,omitempty"`
	Industry           *string `json:"industry,omitempty"`
	TeamSize           *string `json:"team_size,omitempty"`
	LogoURL            *string `json:"logo_url,omitempty"`
}

func (c *Client) Talents(ctx context.Context, search string) ([]*domain.VAProfile, error) {
	var talents []*domain.VAProfile
	err := c.do(ctx, http.MethodGet, withQuery("/api/talents", "search", search), nil, &talents)
	return talents, err
}

func (c *Client) VAProfile(ctx context.Context, userID string) (*domain.VAProfile, error) {
	var p domain.VAProfile
	if err := c.do(ctx, http.MethodGet, "/api/va/profile/"+url.PathEscape(userID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateVAProfile(ctx context.Context, in VAProfileInput) error {
	return c.do(ctx, http.MethodPost, "/api/va/profile", in, nil)
}

func (c *Client) EmployerProfile(ctx context.Context, userID string) (*domain.EmployerProfile, error) {
	var p domain.EmployerProfile
	if err := c.do(ctx, http.MethodGet, "/api/employer/profile/"+url.PathEscape(userID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateEmployerProfile(ctx context.Context, in EmployerProfileInput) error {
	return c.do(ctx, http.MethodPost, "/api/employer/profile", in, nil)
}

// messages

func (c *Client) Messages(ctx context.Context, userID string) ([]*domain.Message, error) {
	var msgs []*domain.Message
	err := c.do(ctx, http.MethodGet, "/api/messages/"+url.PathEscape(userID), nil, &msgs)
	return msgs, err
}

func (c *Client) SendMessage(ctx context.Context, receiverID, body string) (string, error) {
	var res idResponse
	err := c.do(ctx, http.MethodPost, "/api/messages", map[string]any{"receiver_id": receiverID, "message_body": body}, &res)
	return res.ID, err
}

// subscriptions

func (c *Client) Plans(ctx context.Context) ([]*domain.Plan, error) {
	var plans []*domain.Plan
	err := c.do(ctx, http.MethodGet, "/api/plans", nil, &plans)
	return plans, err
}

func (c *Client) Subscription(ctx context.Context, employerID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := c.do(ctx, http.MethodGet, withQuery("/api/subscriptions", "employer_id", employerID), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) Upgrade(ctx context.Context, planID string) error {
	return c.do(ctx, http.MethodPost, "/api/subscriptions/upgrade", map[string]any{"plan_id": planID}, nil)
}

// admin

func (c *Client) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	var stats domain.AdminStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) PendingJobs(ctx context.Context) ([]*domain.Job, error) {
	var jobs []*domain.Job
	err := c.do(ctx, http.MethodGet, "/api/admin/pending-jobs", nil, &jobs)
	return jobs, err
}

func (c *Client) ApproveJob(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/approve-job", map[string]any{"id": id}, nil)
}

func (c *Client) RejectJob(ctx context.Context, id, reason string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/reject-job", map[string]any{"id": id, "reason": reason}, nil)
}

func (c *Client) Users(ctx context.Context, search string) ([]*domain.User, error) {
	var users []*domain.User
	err := c.do(ctx, http.MethodGet, withQuery("/api/admin/users", "search", search), nil, &users)
	return users, err
}

func (c *Client) UpdateUserStatus(ctx context.Context, id string, status domain.UserStatus) error {
	return c.do(ctx, http.MethodPost, "/api/admin/update-user-status", map[string]any{"id": id, "status": status}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/delete-user", map[string]any{"id": id}, nil)
}

func (c *Client) AdminLogs(ctx context.Context) ([]*domain.AdminLog, error) {
	var logs []*domain.AdminLog
	err := c.do(ctx, http.MethodGet, "/api/admin/logs", nil, &logs)
	return logs, err
}

func (c *Client) AllSubscriptions(ctx context.Context) ([]*domain.Subscription, error) {
	var subs []*domain.Subscription
	err := c.do(ctx, http.MethodGet, "/api/admin/subscriptions", nil, &subs)
	return subs, err
}
