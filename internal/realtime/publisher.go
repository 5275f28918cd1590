package realtime

import (
	"context"
	"time"
)

// GlobalChannel carries platform-wide events (announcements, system alerts).
const GlobalChannel = "global"

// UserChannel names the per-user delivery topic.
func UserChannel(userID string) string {
	return "user-" + userID
}

// Publisher pushes an event payload onto a named channel. Delivery is
// best-effort, at-most-once; callers must never treat a publish failure as a
// reason to roll back persisted state.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Event is the wire payload pushed to connected clients.
type Event struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id,omitempty"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	RelatedID      string    `json:"related_id,omitempty"`
	RelatedType    string    `json:"related_type,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
