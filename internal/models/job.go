package models

import "time"

type Job struct {
	BaseModel
	EmployerID  string `gorm:"not null;index"`
	OwnerID     string `gorm:"not null;index"` // user who posted the job
	Title       string `gorm:"not null"`
	Description string
	City        string
	SalaryFrom  int
	SalaryTo    int
	ExpiresAt   *time.Time

	Status          JobStatus `gorm:"type:varchar(20);default:'pending';index"`
	ModerationNotes string
	ModeratedAt     *time.Time
	ModeratedByID   *string `gorm:"type:uuid"`

	// Relations
	Applications []Application `gorm:"foreignKey:JobID"`
}

type Application struct {
	BaseModel
	JobID       string            `gorm:"not null;index"`
	CandidateID string            `gorm:"not null;index"`
	CoverLetter string
	Status      ApplicationStatus `gorm:"type:varchar(20);default:'pending'"`
	DecidedAt   *time.Time
}
