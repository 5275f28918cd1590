package client

import (
	"context"
	"net/http"
	"time"
)

type ApproveRequest struct {
	Notes string `json:"notes,omitempty"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`
}

type SuspendRequest struct {
	Reason string `json:"reason"`
}

type EmployerModeration struct {
	ID                 string     `json:"id"`
	CompanyName        string     `json:"company_name"`
	VerificationStatus string     `json:"verification_status"`
	VerificationNotes  string     `json:"verification_notes,omitempty"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	IsSuspended        bool       `json:"is_suspended"`
	SuspensionReason   string     `json:"suspension_reason,omitempty"`
	SuspendedAt        *time.Time `json:"suspended_at,omitempty"`
	Warning            string     `json:"warning,omitempty"`
}

type JobModeration struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	ModerationNotes string     `json:"moderation_notes,omitempty"`
	ModeratedAt     *time.Time `json:"moderated_at,omitempty"`
	Warning         string     `json:"warning,omitempty"`
}

func (c *Client) ApproveEmployer(ctx context.Context, employerID string, req ApproveRequest) (*EmployerModeration, error) {
	var out EmployerModeration
	err := c.do(ctx, http.MethodPost, "/api/v1/admin/employers/"+employerID+"/approve", nil, req, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RejectEmployer(ctx context.Context, employerID string, req RejectRequest) (*EmployerModeration, error) {
	var out EmployerModeration
	err := c.do(ctx, http.MethodPost, "/api/v1/admin/employers/"+employerID+"/reject", nil, req, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SuspendEmployer(ctx context.Context, employerID string, req SuspendRequest) (*EmployerModeration, error) {
	var out EmployerModeration
	err := c.do(ctx, http.MethodPost, "/api/v1/admin/employers/"+employerID+"/suspend", nil, req, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UnsuspendEmployer(ctx context.Context, employerID string) (*EmployerModeration, error) {
	var out EmployerModeration
	err := c.do(ctx, http.MethodPost, "/api/v1/admin/employers/"+employerID+"/unsuspend", nil, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveJob(ctx context.Context, jobID string, req ApproveRequest) (*JobModeration, error) {
	var out JobModeration
	err := c.do(ctx, http.MethodPost, "/api/v1/admin/jobs/"+jobID+"/approve", nil, req, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RejectJob(ctx context.Context, jobID string, req RejectRequest) (*JobModeration, error) {
	var out JobModeration
	err := c.do(ctx, http.MethodPost, "/api/v1/admin/jobs/"+jobID+"/reject", nil, req, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SuspendJob(ctx context.Context, jobID string, req SuspendRequest) (*JobModeration, error) {
	var out JobModeration
	err := c.do(ctx, http.MethodPost, "/api/v1/admin/jobs/"+jobID+"/suspend", nil, req, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
