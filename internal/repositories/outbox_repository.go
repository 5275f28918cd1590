package repositories

import (
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

type OutboxRepository interface {
	// FetchPending returns up to limit pending entries that still have
	// delivery attempts left, oldest first.
	FetchPending(limit, maxAttempts int) ([]models.NotificationOutbox, error)
	MarkDelivered(id string) error
	// MarkDeliveredBatch settles a set of entries in one statement, used when
	// a single broadcast push covered all of them.
	MarkDeliveredBatch(ids []string) error
	// MarkFailedAttempt increments the attempt counter and records the error;
	// once maxAttempts is reached the entry is marked failed for good.
	MarkFailedAttempt(id, lastError string, maxAttempts int) error
	CountPending() (int64, error)
}

type OutboxRepositoryImpl struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &OutboxRepositoryImpl{db: db}
}

func (r *OutboxRepositoryImpl) FetchPending(limit, maxAttempts int) ([]models.NotificationOutbox, error) {
	var entries []models.NotificationOutbox
	err := r.db.
		Where("status = ? AND attempts < ?", models.OutboxStatusPending, maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *OutboxRepositoryImpl) MarkDelivered(id string) error {
	return r.db.Model(&models.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.OutboxStatusDelivered,
			"delivered_at": time.Now(),
		}).Error
}

func (r *OutboxRepositoryImpl) MarkDeliveredBatch(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.NotificationOutbox{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":       models.OutboxStatusDelivered,
			"delivered_at": time.Now(),
		}).Error
}

func (r *OutboxRepositoryImpl) MarkFailedAttempt(id, lastError string, maxAttempts int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.NotificationOutbox{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"attempts":   gorm.Expr("attempts + 1"),
				"last_error": lastError,
			})
		if result.Error != nil {
			return result.Error
		}

		// Exhausted entries flip to failed so the worker stops retrying them.
		return tx.Model(&models.NotificationOutbox{}).
			Where("id = ? AND attempts >= ?", id, maxAttempts).
			Update("status", models.OutboxStatusFailed).Error
	})
}

func (r *OutboxRepositoryImpl) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&models.NotificationOutbox{}).
		Where("status = ?", models.OutboxStatusPending).
		Count(&count).Error
	return count, err
}
