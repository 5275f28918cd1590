package models

import "time"

// Employer verification and suspension are two independent flags: an employer
// can be approved and suspended at the same time.
type Employer struct {
	BaseModel
	UserID        string `gorm:"not null;uniqueIndex"`
	CompanyName   string `gorm:"not null"`
	ContactPerson string
	Phone         string
	Website       string
	City          string
	Description   string

	VerificationStatus VerificationStatus `gorm:"type:varchar(20);default:'pending';index"`
	VerificationNotes  string
	VerifiedAt         *time.Time
	VerifiedByID       *string `gorm:"type:uuid"`

	IsSuspended      bool `gorm:"default:false"`
	SuspensionReason string
	SuspendedAt      *time.Time

	// Relations
	Jobs []Job `gorm:"foreignKey:EmployerID"`
}
