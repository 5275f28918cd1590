package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Notification struct {
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
	Warning     string                 `json:"warning,omitempty"`
}

type NotificationList struct {
	Notifications []*Notification `json:"notifications"`
	Total         int64           `json:"total"`
	Page          int             `json:"page"`
	PageSize      int             `json:"page_size"`
	TotalPages    int             `json:"total_pages"`
}

type ListNotificationsOptions struct {
	Page       int
	PageSize   int
	UnreadOnly bool
}

func (c *Client) ListNotifications(ctx context.Context, opts ListNotificationsOptions) (*NotificationList, error) {
	query := paginationQuery(opts.Page, opts.PageSize)
	if opts.UnreadOnly {
		query.Set("unread_only", strconv.FormatBool(true))
	}

	var out NotificationList
	if err := c.do(ctx, http.MethodGet, "/api/v1/notifications", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var out struct {
		UnreadCount int64 `json:"unread_count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/notifications/unread-count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return c.do(ctx, http.MethodPut, "/api/v1/notifications/"+notificationID+"/read", nil, nil, nil)
}

// MarkAllNotificationsRead returns how many notifications were flipped.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	var out struct {
		Count int64 `json:"count"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/v1/notifications/read-all", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

type SendNotificationRequest struct {
	UserID      string                 `json:"user_id"`
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message,omitempty"`
	RelatedID   string                 `json:"related_id,omitempty"`
	RelatedType string                 `json:"related_type,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

func (c *Client) SendNotification(ctx context.Context, req SendNotificationRequest) (*Notification, error) {
	var out Notification
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/notifications", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type CreateAnnouncementRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Type     string   `json:"type,omitempty"`
	Audience []string `json:"audience,omitempty"`
}

type Announcement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Type        string     `json:"type"`
	Audience    []string   `json:"audience,omitempty"`
	CreatedByID string     `json:"created_by_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Recipients  int        `json:"recipients"`
	Warning     string     `json:"warning,omitempty"`
}

func (c *Client) CreateAnnouncement(ctx context.Context, req CreateAnnouncementRequest) (*Announcement, error) {
	var out Announcement
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/announcements", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", url.Values{}, body, &out); err != nil {
		return err
	}
	c.SetToken(out.AccessToken)
	return nil
}
