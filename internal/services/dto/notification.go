package dto

import "time"

// ---------------- Requests ----------------

type CreateNotificationRequest struct {
	UserID      string                 `json:"user_id" validate:"required"`
	Type        string                 `json:"type" validate:"required,notification_type"`
	Title       string                 `json:"title" validate:"required,max=100"`
	Message     string                 `json:"message" validate:"omitempty,max=1000"`
	RelatedID   string                 `json:"related_id,omitempty"`
	RelatedType string                 `json:"related_type,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type NotifyAdminsRequest struct {
	Type     string                 `json:"type" validate:"required,notification_type"`
	Title    string                 `json:"title" validate:"required,max=100"`
	Message  string                 `json:"message" validate:"required,max=1000"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"user_id"`
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	RelatedID   string                 `json:"related_id,omitempty"`
	RelatedType string                 `json:"related_type,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	IsRead      bool                   `json:"is_read"`
	ReadAt      *time.Time             `json:"read_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	// Warning is set when the row was persisted but the real-time push
	// failed (delivery degraded, the outbox worker will retry).
	Warning string `json:"warning,omitempty"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}

type MarkAllReadResponse struct {
	Count int64 `json:"count"`
}

type FanOutResponse struct {
	Created int      `json:"created"`
	Skipped []string `json:"skipped,omitempty"` // recipient IDs that failed
	Warning string   `json:"warning,omitempty"`
}
