package models

import "time"

type SupportRequest struct {
	BaseModel
	UserID   string          `gorm:"not null;index"`
	Subject  string          `gorm:"not null"`
	Message  string          `gorm:"not null"`
	Status   SupportStatus   `gorm:"type:varchar(20);default:'open';index"`
	Priority SupportPriority `gorm:"type:varchar(10);default:'medium'"`

	Response      string
	RespondedByID *string `gorm:"type:uuid"`
	RespondedAt   *time.Time
	ClosedAt      *time.Time
}
