package services

import (
	"context"
	"fmt"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

type JobService interface {
	// CreateJob submits a posting in PENDING status and alerts the admins.
	CreateJob(ctx context.Context, ownerID string, req *dto.CreateJobRequest) (*models.Job, error)
	GetJob(id string) (*models.Job, error)
	ListByStatus(status models.JobStatus, page, pageSize int) ([]models.Job, int64, error)
}

type jobService struct {
	jobRepo      repositories.JobRepository
	employerRepo repositories.EmployerRepository
	notifier     NotificationService
}

func NewJobService(
	jobRepo repositories.JobRepository,
	employerRepo repositories.EmployerRepository,
	notifier NotificationService,
) JobService {
	return &jobService{
		jobRepo:      jobRepo,
		employerRepo: employerRepo,
		notifier:     notifier,
	}
}

func (s *jobService) CreateJob(ctx context.Context, ownerID string, req *dto.CreateJobRequest) (*models.Job, error) {
	employer, err := s.employerRepo.FindByUserID(ownerID)
	if err != nil {
		return nil, apperrors.NewForbiddenError("only registered employers can post jobs")
	}
	if employer.VerificationStatus != models.VerificationStatusApproved {
		return nil, apperrors.ErrInvalidState("jobs", "employer must be verified before posting jobs")
	}
	if employer.IsSuspended {
		return nil, apperrors.NewForbiddenError("suspended employers cannot post jobs")
	}
	if req.SalaryTo > 0 && req.SalaryFrom > req.SalaryTo {
		return nil, apperrors.NewValidationError("jobs", "salary_from cannot exceed salary_to")
	}

	job := &models.Job{
		EmployerID:  employer.ID,
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		SalaryFrom:  req.SalaryFrom,
		SalaryTo:    req.SalaryTo,
		Status:      models.JobStatusPending,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.notifier.NotifyAllAdmins(ctx, &dto.NotifyAdminsRequest{
		Type:    string(models.NotificationTypeNewJobPosting),
		Title:   "New job posting awaits moderation",
		Message: fmt.Sprintf("%s posted %q.", employer.CompanyName, job.Title),
		Metadata: map[string]interface{}{
			"job_id":      job.ID,
			"employer_id": employer.ID,
		},
	}); err != nil {
		logger.CtxWithError(ctx, "failed to notify admins about new job", err, "job_id", job.ID)
	}

	return job, nil
}

func (s *jobService) GetJob(id string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return job, nil
}

func (s *jobService) ListByStatus(status models.JobStatus, page, pageSize int) ([]models.Job, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	jobs, total, err := s.jobRepo.FindByStatus(status, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return jobs, total, nil
}
