package models

import (
	"time"

	"github.com/lib/pq"
)

type Announcement struct {
	BaseModel
	Title       string           `gorm:"not null"`
	Content     string           `gorm:"not null"`
	Type        NotificationType `gorm:"type:varchar(40);default:'ANNOUNCEMENT'"`
	Audience    pq.StringArray   `gorm:"type:text[]"` // target roles, empty = everyone
	CreatedByID string           `gorm:"type:uuid;not null"`
	PublishedAt *time.Time
}
