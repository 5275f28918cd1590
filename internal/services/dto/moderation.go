package dto

import (
	"time"

	"jobportal_backend/internal/models"
)

// ---------------- Requests ----------------

type ApproveRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
	Notes  string `json:"notes" validate:"omitempty,max=1000"`
}

type SuspendRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// ---------------- Responses ----------------

// ModerationResult carries the updated entity plus an optional non-fatal
// delivery warning: the moderation decision is committed even when the
// real-time push could not go out.
type EmployerModerationResponse struct {
	ID                 string                    `json:"id"`
	CompanyName        string                    `json:"company_name"`
	VerificationStatus models.VerificationStatus `json:"verification_status"`
	VerificationNotes  string                    `json:"verification_notes,omitempty"`
	VerifiedAt         *time.Time                `json:"verified_at,omitempty"`
	IsSuspended        bool                      `json:"is_suspended"`
	SuspensionReason   string                    `json:"suspension_reason,omitempty"`
	SuspendedAt        *time.Time                `json:"suspended_at,omitempty"`
	Warning            string                    `json:"warning,omitempty"`
}

type JobModerationResponse struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Status          models.JobStatus `json:"status"`
	ModerationNotes string           `json:"moderation_notes,omitempty"`
	ModeratedAt     *time.Time       `json:"moderated_at,omitempty"`
	Warning         string           `json:"warning,omitempty"`
}
