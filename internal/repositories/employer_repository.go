package repositories

import (
	"errors"
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrEmployerNotFound = errors.New("employer not found")

type EmployerRepository interface {
	Create(employer *models.Employer) error
	FindByID(id string) (*models.Employer, error)
	FindByUserID(userID string) (*models.Employer, error)
	// UpdateVerificationIf applies updates only while the employer is still in
	// the expected verification status. Returns the number of rows changed;
	// zero means the precondition no longer holds.
	UpdateVerificationIf(id string, expect models.VerificationStatus, updates map[string]interface{}) (int64, error)
	// SetSuspended flips the suspension flag only if not already suspended.
	SetSuspended(id, reason string, at time.Time) (int64, error)
	// ClearSuspension clears all suspension fields only if currently suspended.
	ClearSuspension(id string) (int64, error)
}

type EmployerRepositoryImpl struct {
	db *gorm.DB
}

func NewEmployerRepository(db *gorm.DB) EmployerRepository {
	return &EmployerRepositoryImpl{db: db}
}

func (r *EmployerRepositoryImpl) Create(employer *models.Employer) error {
	return r.db.Create(employer).Error
}

func (r *EmployerRepositoryImpl) FindByID(id string) (*models.Employer, error) {
	var employer models.Employer
	err := r.db.First(&employer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployerNotFound
		}
		return nil, err
	}
	return &employer, nil
}

func (r *EmployerRepositoryImpl) FindByUserID(userID string) (*models.Employer, error) {
	var employer models.Employer
	err := r.db.First(&employer, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployerNotFound
		}
		return nil, err
	}
	return &employer, nil
}

func (r *EmployerRepositoryImpl) UpdateVerificationIf(id string, expect models.VerificationStatus, updates map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.Employer{}).
		Where("id = ? AND verification_status = ?", id, expect).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *EmployerRepositoryImpl) SetSuspended(id, reason string, at time.Time) (int64, error) {
	result := r.db.Model(&models.Employer{}).
		Where("id = ? AND is_suspended = ?", id, false).
		Updates(map[string]interface{}{
			"is_suspended":      true,
			"suspension_reason": reason,
			"suspended_at":      at,
		})
	return result.RowsAffected, result.Error
}

func (r *EmployerRepositoryImpl) ClearSuspension(id string) (int64, error) {
	result := r.db.Model(&models.Employer{}).
		Where("id = ? AND is_suspended = ?", id, true).
		Updates(map[string]interface{}{
			"is_suspended":      false,
			"suspension_reason": "",
			"suspended_at":      nil,
		})
	return result.RowsAffected, result.Error
}
