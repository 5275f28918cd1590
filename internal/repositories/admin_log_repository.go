package repositories

import (
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

// AdminLogRepository is append-only: rows are created and listed, never
// updated or deleted.
type AdminLogRepository interface {
	Create(entry *models.AdminLog) error
	FindAll(criteria AdminLogCriteria) ([]models.AdminLog, int64, error)
}

type AdminLogCriteria struct {
	AdminID    string    `form:"admin_id"`
	EntityType string    `form:"entity_type"`
	EntityID   string    `form:"entity_id"`
	DateFrom   time.Time `form:"date_from"`
	DateTo     time.Time `form:"date_to"`
	Page       int       `form:"page"`
	PageSize   int       `form:"page_size"`
}

type AdminLogRepositoryImpl struct {
	db *gorm.DB
}

func NewAdminLogRepository(db *gorm.DB) AdminLogRepository {
	return &AdminLogRepositoryImpl{db: db}
}

func (r *AdminLogRepositoryImpl) Create(entry *models.AdminLog) error {
	return r.db.Create(entry).Error
}

func (r *AdminLogRepositoryImpl) FindAll(criteria AdminLogCriteria) ([]models.AdminLog, int64, error) {
	var entries []models.AdminLog
	query := r.db.Model(&models.AdminLog{})

	if criteria.AdminID != "" {
		query = query.Where("admin_id = ?", criteria.AdminID)
	}
	if criteria.EntityType != "" {
		query = query.Where("entity_type = ?", criteria.EntityType)
	}
	if criteria.EntityID != "" {
		query = query.Where("entity_id = ?", criteria.EntityID)
	}
	if !criteria.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", criteria.DateFrom)
	}
	if !criteria.DateTo.IsZero() {
		query = query.Where("created_at <= ?", criteria.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(criteria.PageSize).Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&entries).Error

	return entries, total, err
}
