package workers

import (
	"context"
	"time"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/realtime"
	"jobportal_backend/internal/repositories"
)

// OutboxWorker drains pending notification outbox entries and retries their
// real-time delivery. Delivery is at-least-once; consumers deduplicate by
// notification id.
type OutboxWorker struct {
	outboxRepo     repositories.OutboxRepository
	publisher      realtime.Publisher
	interval       time.Duration
	batchSize      int
	maxAttempts    int
	publishTimeout time.Duration
}

func NewOutboxWorker(
	outboxRepo repositories.OutboxRepository,
	publisher realtime.Publisher,
	interval time.Duration,
	batchSize, maxAttempts int,
	publishTimeout time.Duration,
) *OutboxWorker {
	return &OutboxWorker{
		outboxRepo:     outboxRepo,
		publisher:      publisher,
		interval:       interval,
		batchSize:      batchSize,
		maxAttempts:    maxAttempts,
		publishTimeout: publishTimeout,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *OutboxWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			w.DrainOnce(ctx)
		}
	}
}

// DrainOnce processes a single batch. Exported so tests and the startup path
// can trigger a pass without waiting for the ticker.
func (w *OutboxWorker) DrainOnce(ctx context.Context) (delivered, failed int) {
	entries, err := w.outboxRepo.FetchPending(w.batchSize, w.maxAttempts)
	if err != nil {
		logger.Error("outbox fetch failed", "error", err.Error())
		return 0, 0
	}

	for _, entry := range entries {
		publishCtx, cancel := context.WithTimeout(ctx, w.publishTimeout)
		err := w.publisher.Publish(publishCtx, entry.Channel, entry.Payload)
		cancel()

		if err != nil {
			failed++
			if markErr := w.outboxRepo.MarkFailedAttempt(entry.ID, err.Error(), w.maxAttempts); markErr != nil {
				logger.Error("outbox attempt update failed", "entry_id", entry.ID, "error", markErr.Error())
			}
			continue
		}

		delivered++
		if markErr := w.outboxRepo.MarkDelivered(entry.ID); markErr != nil {
			logger.Error("outbox delivered update failed", "entry_id", entry.ID, "error", markErr.Error())
		}
	}

	if delivered > 0 || failed > 0 {
		logger.Info("outbox batch processed", "delivered", delivered, "failed", failed)
	}
	return delivered, failed
}
