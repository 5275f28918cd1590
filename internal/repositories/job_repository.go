package repositories

import (
	"errors"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")
)

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id string) (*models.Job, error)
	// UpdateStatusIf applies updates only while the job still has the expected
	// status. Zero rows affected means the precondition no longer holds.
	UpdateStatusIf(id string, expect models.JobStatus, updates map[string]interface{}) (int64, error)
	FindByStatus(status models.JobStatus, page, pageSize int) ([]models.Job, int64, error)
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(job *models.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(id string) (*models.Job, error) {
	var job models.Job
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) UpdateStatusIf(id string, expect models.JobStatus, updates map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.Job{}).
		Where("id = ? AND status = ?", id, expect).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *JobRepositoryImpl) FindByStatus(status models.JobStatus, page, pageSize int) ([]models.Job, int64, error) {
	var jobs []models.Job
	query := r.db.Model(&models.Job{}).Where("status = ?", status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at ASC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&jobs).Error
	return jobs, total, err
}

type ApplicationRepository interface {
	Create(application *models.Application) error
	FindByID(id string) (*models.Application, error)
	UpdateStatusIf(id string, expect models.ApplicationStatus, updates map[string]interface{}) (int64, error)
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) Create(application *models.Application) error {
	return r.db.Create(application).Error
}

func (r *ApplicationRepositoryImpl) FindByID(id string) (*models.Application, error) {
	var application models.Application
	err := r.db.First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) UpdateStatusIf(id string, expect models.ApplicationStatus, updates map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, expect).
		Updates(updates)
	return result.RowsAffected, result.Error
}
