package services

import (
	"context"
	"fmt"
	"time"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

type ApplicationService interface {
	// Apply submits a candidate application and notifies the job owner.
	Apply(ctx context.Context, candidateID string, req *dto.CreateApplicationRequest) (*models.Application, error)
	// Decide approves or rejects an application. Only the job owner may decide.
	Decide(ctx context.Context, applicationID, deciderID string, approve bool) (*models.Application, error)
}

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	jobRepo         repositories.JobRepository
	notifier        NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	notifier NotificationService,
) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		notifier:        notifier,
	}
}

func (s *applicationService) Apply(ctx context.Context, candidateID string, req *dto.CreateApplicationRequest) (*models.Application, error) {
	job, err := s.jobRepo.FindByID(req.JobID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if job.Status != models.JobStatusApproved {
		return nil, apperrors.ErrInvalidState("applications", "job is not open for applications")
	}

	application := &models.Application{
		JobID:       job.ID,
		CandidateID: candidateID,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationStatusPending,
	}
	if err := s.applicationRepo.Create(application); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.notifier.NotifyUser(ctx, &dto.CreateNotificationRequest{
		UserID:      job.OwnerID,
		Type:        string(models.NotificationTypeNewApplication),
		Title:       "New application",
		Message:     fmt.Sprintf("A candidate applied to %q.", job.Title),
		RelatedID:   application.ID,
		RelatedType: "application",
	}); err != nil {
		logger.CtxWithError(ctx, "failed to notify job owner about application", err, "application_id", application.ID)
	}

	return application, nil
}

func (s *applicationService) Decide(ctx context.Context, applicationID, deciderID string, approve bool) (*models.Application, error) {
	application, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	job, err := s.jobRepo.FindByID(application.JobID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if job.OwnerID != deciderID {
		return nil, apperrors.NewForbiddenError("only the job owner can decide applications")
	}
	if application.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrInvalidState("applications",
			fmt.Sprintf("application is %s and cannot be decided again", application.Status))
	}

	newStatus := models.ApplicationStatusRejected
	notificationType := models.NotificationTypeApplicationRejected
	title := "Application rejected"
	message := fmt.Sprintf("Your application for %q was not successful.", job.Title)
	if approve {
		newStatus = models.ApplicationStatusApproved
		notificationType = models.NotificationTypeApplicationApproved
		title = "Application approved"
		message = fmt.Sprintf("Your application for %q was approved. The employer will contact you.", job.Title)
	}

	now := time.Now()
	rows, err := s.applicationRepo.UpdateStatusIf(applicationID, models.ApplicationStatusPending, map[string]interface{}{
		"status":     newStatus,
		"decided_at": now,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrConflict("applications", "application was decided concurrently")
	}

	application.Status = newStatus
	application.DecidedAt = &now

	if _, err := s.notifier.NotifyUser(ctx, &dto.CreateNotificationRequest{
		UserID:      application.CandidateID,
		Type:        string(notificationType),
		Title:       title,
		Message:     message,
		RelatedID:   application.ID,
		RelatedType: "application",
	}); err != nil {
		logger.CtxWithError(ctx, "failed to notify candidate about decision", err, "application_id", application.ID)
	}

	return application, nil
}
