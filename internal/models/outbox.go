package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationOutbox holds push deliveries pending against the pub/sub
// provider. The notification row itself is the source of truth: an outbox
// entry only tracks whether the best-effort real-time push went out.
type NotificationOutbox struct {
	BaseModel
	NotificationID string         `gorm:"type:uuid;not null;index"`
	Channel        string         `gorm:"not null"` // "user-<id>" or "global"
	Payload        datatypes.JSON `gorm:"type:jsonb;not null"`
	Status         OutboxStatus   `gorm:"type:varchar(20);default:'pending';index"`
	Attempts       int            `gorm:"default:0"`
	LastError      string
	DeliveredAt    *time.Time
}
