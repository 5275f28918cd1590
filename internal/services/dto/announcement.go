package dto

import "time"

type CreateAnnouncementRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required,max=5000"`
	Type     string   `json:"type" validate:"omitempty,notification_type"`
	Audience []string `json:"audience" validate:"omitempty,dive,oneof=admin employer candidate"`
}

type AnnouncementResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Type        string     `json:"type"`
	Audience    []string   `json:"audience,omitempty"`
	CreatedByID string     `json:"created_by_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	// Recipients is how many notification rows the broadcast produced.
	Recipients int    `json:"recipients"`
	Warning    string `json:"warning,omitempty"`
}
