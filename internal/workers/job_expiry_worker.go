package workers

import (
	"context"
	"time"

	"jobportal_backend/internal/logger"

	"gorm.io/gorm"
)

// JobExpiryWorker closes approved postings once their expiry date passes.
type JobExpiryWorker struct {
	db       *gorm.DB
	interval time.Duration
}

func NewJobExpiryWorker(db *gorm.DB, interval time.Duration) *JobExpiryWorker {
	return &JobExpiryWorker{db: db, interval: interval}
}

func (w *JobExpiryWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *JobExpiryWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("job expiry worker stopped")
			return
		case <-ticker.C:
			result := w.db.Exec(`
				UPDATE jobs
				SET status = 'closed', updated_at = NOW()
				WHERE status = 'approved'
				AND expires_at IS NOT NULL
				AND expires_at < NOW()
			`)
			if result.Error != nil {
				logger.Error("failed to close expired jobs", "error", result.Error.Error())
			} else if result.RowsAffected > 0 {
				logger.Info("closed expired jobs", "count", result.RowsAffected)
			}
		}
	}
}
