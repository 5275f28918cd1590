package dto

import (
	"time"

	"jobportal_backend/internal/models"
)

type CreateSupportRequest struct {
	Subject  string `json:"subject" validate:"required,max=200"`
	Message  string `json:"message" validate:"required,max=5000"`
	Priority string `json:"priority" validate:"omitempty,support_priority"`
}

type RespondSupportRequest struct {
	Response string `json:"response" validate:"required,max=5000"`
	// Resolve closes the ticket as resolved; otherwise it moves to in_progress.
	Resolve bool `json:"resolve"`
}

type SupportRequestResponse struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"user_id"`
	Subject       string                 `json:"subject"`
	Message       string                 `json:"message"`
	Status        models.SupportStatus   `json:"status"`
	Priority      models.SupportPriority `json:"priority"`
	Response      string                 `json:"response,omitempty"`
	RespondedByID *string                `json:"responded_by_id,omitempty"`
	RespondedAt   *time.Time             `json:"responded_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	Warning       string                 `json:"warning,omitempty"`
}

type SupportListResponse struct {
	Requests   []*SupportRequestResponse `json:"requests"`
	Total      int64                     `json:"total"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"page_size"`
	TotalPages int                       `json:"total_pages"`
}
