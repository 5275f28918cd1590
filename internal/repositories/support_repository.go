package repositories

import (
	"errors"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSupportRequestNotFound = errors.New("support request not found")

type SupportRepository interface {
	Create(request *models.SupportRequest) error
	FindByID(id string) (*models.SupportRequest, error)
	FindAll(criteria SupportCriteria) ([]models.SupportRequest, int64, error)
	Update(request *models.SupportRequest) error
	// UpdateStatusIf transitions the ticket only while it still has the
	// expected status.
	UpdateStatusIf(id string, expect models.SupportStatus, updates map[string]interface{}) (int64, error)
}

type SupportCriteria struct {
	UserID   string                 `form:"user_id"`
	Status   models.SupportStatus   `form:"status"`
	Priority models.SupportPriority `form:"priority"`
	Page     int                    `form:"page"`
	PageSize int                    `form:"page_size"`
}

type SupportRepositoryImpl struct {
	db *gorm.DB
}

func NewSupportRepository(db *gorm.DB) SupportRepository {
	return &SupportRepositoryImpl{db: db}
}

func (r *SupportRepositoryImpl) Create(request *models.SupportRequest) error {
	return r.db.Create(request).Error
}

func (r *SupportRepositoryImpl) FindByID(id string) (*models.SupportRequest, error) {
	var request models.SupportRequest
	err := r.db.First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupportRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *SupportRepositoryImpl) FindAll(criteria SupportCriteria) ([]models.SupportRequest, int64, error) {
	var requests []models.SupportRequest
	query := r.db.Model(&models.SupportRequest{})

	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Priority != "" {
		query = query.Where("priority = ?", criteria.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(criteria.PageSize).Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&requests).Error
	return requests, total, err
}

func (r *SupportRepositoryImpl) Update(request *models.SupportRequest) error {
	return r.db.Save(request).Error
}

func (r *SupportRepositoryImpl) UpdateStatusIf(id string, expect models.SupportStatus, updates map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.SupportRequest{}).
		Where("id = ? AND status = ?", id, expect).
		Updates(updates)
	return result.RowsAffected, result.Error
}
