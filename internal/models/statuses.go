package models

type UserStatus string
type UserRole string
type VerificationStatus string
type JobStatus string
type ApplicationStatus string
type SupportStatus string
type SupportPriority string
type OutboxStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleAdmin     UserRole = "admin"
	UserRoleEmployer  UserRole = "employer"
	UserRoleCandidate UserRole = "candidate"

	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"

	JobStatusPending   JobStatus = "pending"
	JobStatusApproved  JobStatus = "approved"
	JobStatusRejected  JobStatus = "rejected"
	JobStatusSuspended JobStatus = "suspended"
	JobStatusClosed    JobStatus = "closed"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	SupportStatusOpen       SupportStatus = "open"
	SupportStatusInProgress SupportStatus = "in_progress"
	SupportStatusResolved   SupportStatus = "resolved"
	SupportStatusClosed     SupportStatus = "closed"

	SupportPriorityLow    SupportPriority = "low"
	SupportPriorityMedium SupportPriority = "medium"
	SupportPriorityHigh   SupportPriority = "high"
	SupportPriorityUrgent SupportPriority = "urgent"

	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusDelivered OutboxStatus = "delivered"
	OutboxStatusFailed    OutboxStatus = "failed"
)
