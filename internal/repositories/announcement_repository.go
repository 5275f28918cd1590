package repositories

import (
	"errors"
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

type AnnouncementRepository interface {
	Create(announcement *models.Announcement) error
	FindByID(id string) (*models.Announcement, error)
	MarkPublished(id string, at time.Time) error
	FindAll(page, pageSize int) ([]models.Announcement, int64, error)
}

type AnnouncementRepositoryImpl struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &AnnouncementRepositoryImpl{db: db}
}

func (r *AnnouncementRepositoryImpl) Create(announcement *models.Announcement) error {
	return r.db.Create(announcement).Error
}

func (r *AnnouncementRepositoryImpl) FindByID(id string) (*models.Announcement, error) {
	var announcement models.Announcement
	err := r.db.First(&announcement, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &announcement, nil
}

func (r *AnnouncementRepositoryImpl) MarkPublished(id string, at time.Time) error {
	return r.db.Model(&models.Announcement{}).
		Where("id = ?", id).
		Update("published_at", at).Error
}

func (r *AnnouncementRepositoryImpl) FindAll(page, pageSize int) ([]models.Announcement, int64, error) {
	var announcements []models.Announcement

	var total int64
	if err := r.db.Model(&models.Announcement{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&announcements).Error
	return announcements, total, err
}
