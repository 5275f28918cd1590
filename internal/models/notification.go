package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

// Wire-level notification type contract. Consumers (admin UI, mobile clients)
// switch on these values, do not rename.
const (
	NotificationTypeNewJobPosting           NotificationType = "NEW_JOB_POSTING"
	NotificationTypeJobApproved             NotificationType = "JOB_APPROVED"
	NotificationTypeJobRejected             NotificationType = "JOB_REJECTED"
	NotificationTypeNewApplication          NotificationType = "NEW_APPLICATION"
	NotificationTypeApplicationApproved     NotificationType = "APPLICATION_APPROVED"
	NotificationTypeApplicationRejected     NotificationType = "APPLICATION_REJECTED"
	NotificationTypeEmployerApproved        NotificationType = "EMPLOYER_APPROVED"
	NotificationTypeEmployerRejected        NotificationType = "EMPLOYER_REJECTED"
	NotificationTypeNewChatMessage          NotificationType = "NEW_CHAT_MESSAGE"
	NotificationTypeInterviewScheduled      NotificationType = "INTERVIEW_SCHEDULED"
	NotificationTypeSystemAlert             NotificationType = "SYSTEM_ALERT"
	NotificationTypeAnnouncement            NotificationType = "ANNOUNCEMENT"
	NotificationTypeNewSupportRequest       NotificationType = "NEW_SUPPORT_REQUEST"
	NotificationTypeNewEmployerRegistration NotificationType = "NEW_EMPLOYER_REGISTRATION"
)

// Notification is immutable once created except for IsRead/ReadAt.
type Notification struct {
	BaseModel
	UserID      string           `gorm:"not null;index"`
	Type        NotificationType `gorm:"type:varchar(40);not null"`
	Title       string           `gorm:"not null"`
	Message     string
	RelatedID   string         // weak polymorphic reference, lookup only
	RelatedType string
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	IsRead      bool           `gorm:"default:false;index"`
	ReadAt      *time.Time
}

func IsValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationTypeNewJobPosting, NotificationTypeJobApproved,
		NotificationTypeJobRejected, NotificationTypeNewApplication,
		NotificationTypeApplicationApproved, NotificationTypeApplicationRejected,
		NotificationTypeEmployerApproved, NotificationTypeEmployerRejected,
		NotificationTypeNewChatMessage, NotificationTypeInterviewScheduled,
		NotificationTypeSystemAlert, NotificationTypeAnnouncement,
		NotificationTypeNewSupportRequest, NotificationTypeNewEmployerRegistration:
		return true
	}
	return false
}
