package models

type User struct {
	BaseModelWithDeleted
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Name         string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active'"`

	// Relations
	Employer         *Employer         `gorm:"foreignKey:UserID"`
	CandidateProfile *CandidateProfile `gorm:"foreignKey:UserID"`
	Notifications    []Notification    `gorm:"foreignKey:UserID"`
}

type CandidateProfile struct {
	BaseModel
	UserID   string `gorm:"not null;uniqueIndex"`
	Headline string
	City     string
	Resume   string
}
