package repositories

import (
	"errors"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindAdminIDs() ([]string, error)
	FindActiveUserIDs() ([]string, error)
	FindActiveUserIDsByRoles(roles []string) ([]string, error)
	CountActiveUsers() (int64, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAdminIDs returns the IDs of all active admin users.
func (r *UserRepositoryImpl) FindAdminIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&models.User{}).
		Where("role = ? AND status = ?", models.UserRoleAdmin, models.UserStatusActive).
		Pluck("id", &ids).Error
	return ids, err
}

// FindActiveUserIDs returns every non-deleted, non-banned user ID.
// Soft-deleted rows are excluded by GORM automatically.
func (r *UserRepositoryImpl) FindActiveUserIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&models.User{}).
		Where("status = ?", models.UserStatusActive).
		Pluck("id", &ids).Error
	return ids, err
}

// FindActiveUserIDsByRoles narrows the active-user set to the given roles,
// used for audience-targeted announcements.
func (r *UserRepositoryImpl) FindActiveUserIDsByRoles(roles []string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.User{}).
		Where("status = ? AND role IN ?", models.UserStatusActive, roles).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *UserRepositoryImpl) CountActiveUsers() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("status = ?", models.UserStatusActive).
		Count(&count).Error
	return count, err
}
