package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

// The dashboards below are read-then-render views. Every mutating call
// refetches the whole view so the state never drifts from the server.

type AdminState struct {
	Stats         domain.AdminStats
	PendingJobs   []*domain.Job
	Users         []*domain.User
	Logs          []*domain.AdminLog
	Subscriptions []*domain.Subscription
}

type AdminDashboard struct {
	c *Client

	mu     sync.Mutex
	search string
	state  AdminState
}

func NewAdminDashboard(c *Client) *AdminDashboard {
	return &AdminDashboard{c: c}
}

func (d *AdminDashboard) State() AdminState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *AdminDashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	search := d.search
	d.mu.Unlock()

	var next AdminState
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := d.c.AdminStats(gctx)
		if err == nil {
			next.Stats = *stats
		}
		return err
	})
	g.Go(func() (err error) {
		next.PendingJobs, err = d.c.PendingJobs(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.Users, err = d.c.Users(gctx, search)
		return err
	})
	g.Go(func() (err error) {
		next.Logs, err = d.c.AdminLogs(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.Subscriptions, err = d.c.AllSubscriptions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	d.mu.Lock()
	d.state = next
	d.mu.Unlock()
	return nil
}

// SearchUsers changes the user filter and refetches the view.
func (d *AdminDashboard) SearchUsers(ctx context.Context, search string) error {
	d.mu.Lock()
	d.search = search
	d.mu.Unlock()
	return d.Refresh(ctx)
}

func (d *AdminDashboard) ApproveJob(ctx context.Context, id string) error {
	if err := d.c.ApproveJob(ctx, id); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

func (d *AdminDashboard) RejectJob(ctx context.Context, id, reason string) error {
	if err := d.c.RejectJob(ctx, id, reason); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

func (d *AdminDashboard) UpdateUserStatus(ctx context.Context, id string, status domain.UserStatus) error {
	if err := d.c.UpdateUserStatus(ctx, id, status); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

func (d *AdminDashboard) DeleteUser(ctx context.Context, id string) error {
	if err := d.c.DeleteUser(ctx, id); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

type EmployerState struct {
	Applications []*domain.Application
	Subscription *domain.Subscription
}

type EmployerDashboard struct {
	c          *Client
	employerID string

	mu    sync.Mutex
	state EmployerState
}

func NewEmployerDashboard(c *Client, employerID string) *EmployerDashboard {
	return &EmployerDashboard{c: c, employerID: employerID}
}

func (d *EmployerDashboard) State() EmployerState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *EmployerDashboard) Refresh(ctx context.Context) error {
	var next EmployerState
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		next.Applications, err = d.c.EmployerApplications(gctx, d.employerID)
		return err
	})
	g.Go(func() (err error) {
		next.Subscription, err = d.c.Subscription(gctx, d.employerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	d.mu.Lock()
	d.state = next
	d.mu.Unlock()
	return nil
}

// PostJob submits a job for review. New jobs are not listed until approved.
func (d *EmployerDashboard) PostJob(ctx context.Context, in JobInput) (string, error) {
	id, err := d.c.CreateJob(ctx, in)
	if err != nil {
		return "", err
	}
	return id, d.Refresh(ctx)
}

func (d *EmployerDashboard) Hire(ctx context.Context, applicationID string) error {
	return d.act(ctx, d.c.Hire, applicationID)
}

func (d *EmployerDashboard) Unhire(ctx context.Context, applicationID string) error {
	return d.act(ctx, d.c.Unhire, applicationID)
}

func (d *EmployerDashboard) Shortlist(ctx context.Context, applicationID string) error {
	return d.act(ctx, d.c.Shortlist, applicationID)
}

func (d *EmployerDashboard) Reject(ctx context.Context, applicationID string) error {
	return d.act(ctx, d.c.RejectApplication, applicationID)
}

func (d *EmployerDashboard) Upgrade(ctx context.Context, planID string) error {
	return d.act(ctx, d.c.Upgrade, planID)
}

func (d *EmployerDashboard) act(ctx context.Context, fn func(context.Context, string) error, id string) error {
	if err := fn(ctx, id); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

type VAState struct {
	Jobs         []*domain.Job
	Profile      *domain.VAProfile
	Applications []*domain.Application
}

type VADashboard struct {
	c    *Client
	vaID string

	mu    sync.Mutex
	state VAState
}

func NewVADashboard(c *Client, vaID string) *VADashboard {
	return &VADashboard{c: c, vaID: vaID}
}

func (d *VADashboard) State() VAState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *VADashboard) Refresh(ctx context.Context) error {
	var next VAState
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		next.Jobs, err = d.c.Jobs(gctx, "")
		return err
	})
	g.Go(func() error {
		profile, err := d.c.VAProfile(gctx, d.vaID)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			// a fresh account has no profile yet
			return nil
		}
		next.Profile = profile
		return err
	})
	g.Go(func() (err error) {
		next.Applications, err = d.c.VAApplications(gctx, d.vaID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	d.mu.Lock()
	d.state = next
	d.mu.Unlock()
	return nil
}

func (d *VADashboard) Apply(ctx context.Context, jobID, coverLetter string) error {
	if _, err := d.c.Apply(ctx, jobID, coverLetter); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

func (d *VADashboard) UpdateProfile(ctx context.Context, in VAProfileInput) error {
	if err := d.c.UpdateVAProfile(ctx, in); err != nil {
		return err
	}
	return d.Refresh(ctx)
}
