package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// ModerationService applies admin state transitions to employers and jobs.
//
// Contract for every operation: the entity update is the source of truth and
// happens first, guarded by a compare-and-swap on the current status. The
// audit log and the owner notification follow; their failure never rolls the
// decision back, a degraded push only surfaces as a warning on the response.
//
// Approving an entity that already left PENDING is an explicit InvalidState
// error, not an idempotent no-op; a lost CAS race is a Conflict.
type ModerationService interface {
	ApproveEmployer(ctx context.Context, employerID, adminID string, req *dto.ApproveRequest) (*dto.EmployerModerationResponse, error)
	RejectEmployer(ctx context.Context, employerID, adminID string, req *dto.RejectRequest) (*dto.EmployerModerationResponse, error)
	SuspendEmployer(ctx context.Context, employerID, adminID string, req *dto.SuspendRequest) (*dto.EmployerModerationResponse, error)
	UnsuspendEmployer(ctx context.Context, employerID, adminID string) (*dto.EmployerModerationResponse, error)

	ApproveJob(ctx context.Context, jobID, adminID string, req *dto.ApproveRequest) (*dto.JobModerationResponse, error)
	RejectJob(ctx context.Context, jobID, adminID string, req *dto.RejectRequest) (*dto.JobModerationResponse, error)
	SuspendJob(ctx context.Context, jobID, adminID string, req *dto.SuspendRequest) (*dto.JobModerationResponse, error)
}

type moderationService struct {
	employerRepo repositories.EmployerRepository
	jobRepo      repositories.JobRepository
	adminLogRepo repositories.AdminLogRepository
	notifier     NotificationService
}

func NewModerationService(
	employerRepo repositories.EmployerRepository,
	jobRepo      repositories.JobRepository,
	adminLogRepo repositories.AdminLogRepository,
	notifier NotificationService,
) ModerationService {
	return &moderationService{
		employerRepo: employerRepo,
		jobRepo:      jobRepo,
		adminLogRepo: adminLogRepo,
		notifier:     notifier,
	}
}

// ---------------- Employer transitions ----------------

func (s *moderationService) ApproveEmployer(ctx context.Context, employerID, adminID string, req *dto.ApproveRequest) (*dto.EmployerModerationResponse, error) {
	employer, err := s.employerRepo.FindByID(employerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if employer.VerificationStatus != models.VerificationStatusPending {
		return nil, apperrors.ErrInvalidState("moderation",
			fmt.Sprintf("employer is %s, only pending employers can be approved", employer.VerificationStatus))
	}

	now := time.Now()
	rows, err := s.employerRepo.UpdateVerificationIf(employerID, models.VerificationStatusPending, map[string]interface{}{
		"verification_status": models.VerificationStatusApproved,
		"verification_notes":  req.Notes,
		"verified_at":         now,
		"verified_by_id":      adminID,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrConflict("moderation", "employer was moderated concurrently")
	}

	employer.VerificationStatus = models.VerificationStatusApproved
	employer.VerificationNotes = req.Notes
	employer.VerifiedAt = &now
	employer.VerifiedByID = &adminID

	s.audit(ctx, adminID, "employer.approve", "employer", employerID, "Employer approved", map[string]interface{}{"notes": req.Notes})

	warning := s.notifyOwner(ctx, employer.UserID, models.NotificationTypeEmployerApproved,
		"Company verification approved",
		fmt.Sprintf("Your company %q has been verified and approved.", employer.CompanyName),
		"employer", employerID)

	return buildEmployerResponse(employer, warning), nil
}

func (s *moderationService) RejectEmployer(ctx context.Context, employerID, adminID string, req *dto.RejectRequest) (*dto.EmployerModerationResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperrors.NewValidationError("moderation", "rejection reason is required")
	}

	employer, err := s.employerRepo.FindByID(employerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if employer.VerificationStatus != models.VerificationStatusPending {
		return nil, apperrors.ErrInvalidState("moderation",
			fmt.Sprintf("employer is %s, only pending employers can be rejected", employer.VerificationStatus))
	}

	notes := req.Reason
	if req.Notes != "" {
		notes = req.Reason + "\n" + req.Notes
	}

	now := time.Now()
	rows, err := s.employerRepo.UpdateVerificationIf(employerID, models.VerificationStatusPending, map[string]interface{}{
		"verification_status": models.VerificationStatusRejected,
		"verification_notes":  notes,
		"verified_at":         now,
		"verified_by_id":      adminID,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrConflict("moderation", "employer was moderated concurrently")
	}

	employer.VerificationStatus = models.VerificationStatusRejected
	employer.VerificationNotes = notes
	employer.VerifiedAt = &now
	employer.VerifiedByID = &adminID

	s.audit(ctx, adminID, "employer.reject", "employer", employerID, "Employer rejected", map[string]interface{}{"reason": req.Reason})

	warning := s.notifyOwner(ctx, employer.UserID, models.NotificationTypeEmployerRejected,
		"Company verification rejected",
		fmt.Sprintf("Your company %q was not approved. Reason: %s", employer.CompanyName, req.Reason),
		"employer", employerID)

	return buildEmployerResponse(employer, warning), nil
}

// SuspendEmployer flips the suspension flag without touching the
// verification status: the two are independent.
func (s *moderationService) SuspendEmployer(ctx context.Context, employerID, adminID string, req *dto.SuspendRequest) (*dto.EmployerModerationResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperrors.NewValidationError("moderation", "suspension reason is required")
	}

	employer, err := s.employerRepo.FindByID(employerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if employer.IsSuspended {
		return nil, apperrors.ErrInvalidState("moderation", "employer is already suspended")
	}

	now := time.Now()
	rows, err := s.employerRepo.SetSuspended(employerID, req.Reason, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrConflict("moderation", "employer was suspended concurrently")
	}

	employer.IsSuspended = true
	employer.SuspensionReason = req.Reason
	employer.SuspendedAt = &now

	s.audit(ctx, adminID, "employer.suspend", "employer", employerID, "Employer suspended", map[string]interface{}{"reason": req.Reason})

	warning := s.notifyOwner(ctx, employer.UserID, models.NotificationTypeSystemAlert,
		"Account suspended",
		fmt.Sprintf("Your employer account has been suspended. Reason: %s", req.Reason),
		"employer", employerID)

	return buildEmployerResponse(employer, warning), nil
}

// UnsuspendEmployer clears all three suspension fields together.
func (s *moderationService) UnsuspendEmployer(ctx context.Context, employerID, adminID string) (*dto.EmployerModerationResponse, error) {
	employer, err := s.employerRepo.FindByID(employerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if !employer.IsSuspended {
		return nil, apperrors.ErrInvalidState("moderation", "employer is not suspended")
	}

	rows, err := s.employerRepo.ClearSuspension(employerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrConflict("moderation", "employer suspension changed concurrently")
	}

	employer.IsSuspended = false
	employer.SuspensionReason = ""
	employer.SuspendedAt = nil

	s.audit(ctx, adminID, "employer.unsuspend", "employer", employerID, "Employer suspension lifted", nil)

	warning := s.notifyOwner(ctx, employer.UserID, models.NotificationTypeSystemAlert,
		"Account suspension lifted",
		"Your employer account is active again.",
		"employer", employerID)

	return buildEmployerResponse(employer, warning), nil
}

// ---------------- Job transitions ----------------

func (s *moderationService) ApproveJob(ctx context.Context, jobID, adminID string, req *dto.ApproveRequest) (*dto.JobModerationResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if job.Status != models.JobStatusPending {
		return nil, apperrors.ErrInvalidState("moderation",
			fmt.Sprintf("job is %s, only pending jobs can be approved", job.Status))
	}

	now := time.Now()
	rows, err := s.jobRepo.UpdateStatusIf(jobID, models.JobStatusPending, map[string]interface{}{
		"status":           models.JobStatusApproved,
		"moderation_notes": req.Notes,
		"moderated_at":     now,
		"moderated_by_id":  adminID,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrConflict("moderation", "job was moderated concurrently")
	}

	job.Status = models.JobStatusApproved
	job.ModerationNotes = req.Notes
	job.ModeratedAt = &now
	job.ModeratedByID = &adminID

	s.audit(ctx, adminID, "job.approve", "job", jobID, "Job posting approved", map[string]interface{}{"notes": req.Notes})

	warning := s.notifyOwner(ctx, job.OwnerID, models.NotificationTypeJobApproved,
		"Job posting approved",
		fmt.Sprintf("Your job posting %q is now live.", job.Title),
		"job", jobID)

	return buildJobResponse(job, warning), nil
}

func (s *moderationService) RejectJob(ctx context.Context, jobID, adminID string, req *dto.RejectRequest) (*dto.JobModerationResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperrors.NewValidationError("moderation", "rejection reason is required")
	}

	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if job.Status != models.JobStatusPending {
		return nil, apperrors.ErrInvalidState("moderation",
			fmt.Sprintf("job is %s, only pending jobs can be rejected", job.Status))
	}

	notes := req.Reason
	if req.Notes != "" {
		notes = req.Reason + "\n" + req.Notes
	}

	now := time.Now()
	rows, err := s.jobRepo.UpdateStatusIf(jobID, models.JobStatusPending, map[string]interface{}{
		"status":           models.JobStatusRejected,
		"moderation_notes": notes,
		"moderated_at":     now,
		"moderated_by_id":  adminID,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrConflict("moderation", "job was moderated concurrently")
	}

	job.Status = models.JobStatusRejected
	job.ModerationNotes = notes
	job.ModeratedAt = &now
	job.ModeratedByID = &adminID

	s.audit(ctx, adminID, "job.reject", "job", jobID, "Job posting rejected", map[string]interface{}{"reason": req.Reason})

	warning := s.notifyOwner(ctx, job.OwnerID, models.NotificationTypeJobRejected,
		"Job posting rejected",
		fmt.Sprintf("Your job posting %q was rejected. Reason: %s", job.Title, req.Reason),
		"job", jobID)

	return buildJobResponse(job, warning), nil
}

// SuspendJob takes an already-approved job off the board.
func (s *moderationService) SuspendJob(ctx context.Context, jobID, adminID string, req *dto.SuspendRequest) (*dto.JobModerationResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperrors.NewValidationError("moderation", "suspension reason is required")
	}

	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if job.Status != models.JobStatusApproved {
		return nil, apperrors.ErrInvalidState("moderation",
			fmt.Sprintf("job is %s, only approved jobs can be suspended", job.Status))
	}

	rows, err := s.jobRepo.UpdateStatusIf(jobID, models.JobStatusApproved, map[string]interface{}{
		"status":           models.JobStatusSuspended,
		"moderation_notes": req.Reason,
		"moderated_by_id":  adminID,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrConflict("moderation", "job was moderated concurrently")
	}

	job.Status = models.JobStatusSuspended
	job.ModerationNotes = req.Reason
	job.ModeratedByID = &adminID

	s.audit(ctx, adminID, "job.suspend", "job", jobID, "Job posting suspended", map[string]interface{}{"reason": req.Reason})

	warning := s.notifyOwner(ctx, job.OwnerID, models.NotificationTypeSystemAlert,
		"Job posting suspended",
		fmt.Sprintf("Your job posting %q has been suspended. Reason: %s", job.Title, req.Reason),
		"job", jobID)

	return buildJobResponse(job, warning), nil
}

// ---------------- Side effects ----------------

// audit appends to the admin log. The moderation decision is already
// committed at this point, so a failing audit write is logged, not returned.
func (s *moderationService) audit(ctx context.Context, adminID, action, entityType, entityID, description string, metadata map[string]interface{}) {
	var metadataJSON datatypes.JSON
	if metadata != nil {
		if data, err := json.Marshal(metadata); err == nil {
			metadataJSON = datatypes.JSON(data)
		}
	}

	entry := &models.AdminLog{
		AdminID:     adminID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		Metadata:    metadataJSON,
	}
	if err := s.adminLogRepo.Create(entry); err != nil {
		logger.CtxWithError(ctx, "failed to write admin log", err, "action", action, "entity_id", entityID)
	}
}

// notifyOwner dispatches the transition notification and reduces any
// dispatch failure to a warning string.
func (s *moderationService) notifyOwner(ctx context.Context, ownerID string, notificationType models.NotificationType, title, message, relatedType, relatedID string) string {
	response, err := s.notifier.NotifyUser(ctx, &dto.CreateNotificationRequest{
		UserID:      ownerID,
		Type:        string(notificationType),
		Title:       title,
		Message:     message,
		RelatedID:   relatedID,
		RelatedType: relatedType,
	})
	if err != nil {
		logger.CtxWithError(ctx, "owner notification failed", err, "owner_id", ownerID, "type", notificationType)
		return WarningDeliveryDegraded
	}
	return response.Warning
}

func buildEmployerResponse(employer *models.Employer, warning string) *dto.EmployerModerationResponse {
	return &dto.EmployerModerationResponse{
		ID:                 employer.ID,
		CompanyName:        employer.CompanyName,
		VerificationStatus: employer.VerificationStatus,
		VerificationNotes:  employer.VerificationNotes,
		VerifiedAt:         employer.VerifiedAt,
		IsSuspended:        employer.IsSuspended,
		SuspensionReason:   employer.SuspensionReason,
		SuspendedAt:        employer.SuspendedAt,
		Warning:            warning,
	}
}

func buildJobResponse(job *models.Job, warning string) *dto.JobModerationResponse {
	return &dto.JobModerationResponse{
		ID:              job.ID,
		Title:           job.Title,
		Status:          job.Status,
		ModerationNotes: job.ModerationNotes,
		ModeratedAt:     job.ModeratedAt,
		Warning:         warning,
	}
}
