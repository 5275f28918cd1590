package models

import "gorm.io/datatypes"

// AdminLog is an append-only audit record. Rows are never updated or deleted.
type AdminLog struct {
	BaseModel
	AdminID     string `gorm:"type:uuid;not null;index"`
	Action      string `gorm:"not null"` // e.g. "employer.approve", "job.suspend"
	EntityType  string `gorm:"not null"`
	EntityID    string `gorm:"not null;index"`
	Description string
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
}
