package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jobportal_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOutboxRepo struct {
	entries map[string]*models.NotificationOutbox
}

func newMemOutboxRepo(entries ...*models.NotificationOutbox) *memOutboxRepo {
	repo := &memOutboxRepo{entries: make(map[string]*models.NotificationOutbox)}
	for _, e := range entries {
		repo.entries[e.ID] = e
	}
	return repo
}

func (m *memOutboxRepo) FetchPending(limit, maxAttempts int) ([]models.NotificationOutbox, error) {
	var pending []models.NotificationOutbox
	for _, entry := range m.entries {
		if entry.Status == models.OutboxStatusPending && entry.Attempts < maxAttempts {
			pending = append(pending, *entry)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (m *memOutboxRepo) MarkDelivered(id string) error {
	now := time.Now()
	m.entries[id].Status = models.OutboxStatusDelivered
	m.entries[id].DeliveredAt = &now
	return nil
}

func (m *memOutboxRepo) MarkDeliveredBatch(ids []string) error {
	for _, id := range ids {
		if err := m.MarkDelivered(id); err != nil {
			return err
		}
	}
	return nil
}

func (m *memOutboxRepo) MarkFailedAttempt(id, lastError string, maxAttempts int) error {
	entry := m.entries[id]
	entry.Attempts++
	entry.LastError = lastError
	if entry.Attempts >= maxAttempts {
		entry.Status = models.OutboxStatusFailed
	}
	return nil
}

func (m *memOutboxRepo) CountPending() (int64, error) {
	var count int64
	for _, entry := range m.entries {
		if entry.Status == models.OutboxStatusPending {
			count++
		}
	}
	return count, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	fail     map[string]bool // channel -> should fail
	channels []string
}

func (p *recordingPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail[channel] {
		return errors.New("broker unavailable")
	}
	p.channels = append(p.channels, channel)
	return nil
}

func pendingEntry(id, channel string) *models.NotificationOutbox {
	entry := &models.NotificationOutbox{
		NotificationID: "n-" + id,
		Channel:        channel,
		Payload:        []byte(`{"notification_id":"n-` + id + `"}`),
		Status:         models.OutboxStatusPending,
	}
	entry.ID = id
	return entry
}

func TestDrainOnceDeliversPendingEntries(t *testing.T) {
	repo := newMemOutboxRepo(pendingEntry("a", "user-1"), pendingEntry("b", "user-2"))
	publisher := &recordingPublisher{}
	worker := NewOutboxWorker(repo, publisher, time.Second, 10, 3, time.Second)

	delivered, failed := worker.DrainOnce(context.Background())
	assert.Equal(t, 2, delivered)
	assert.Equal(t, 0, failed)

	for _, entry := range repo.entries {
		assert.Equal(t, models.OutboxStatusDelivered, entry.Status)
		assert.NotNil(t, entry.DeliveredAt)
	}
}

func TestDrainOnceRetriesUntilAttemptsExhausted(t *testing.T) {
	repo := newMemOutboxRepo(pendingEntry("a", "user-1"))
	publisher := &recordingPublisher{fail: map[string]bool{"user-1": true}}
	worker := NewOutboxWorker(repo, publisher, time.Second, 10, 2, time.Second)

	_, failed := worker.DrainOnce(context.Background())
	assert.Equal(t, 1, failed)
	assert.Equal(t, models.OutboxStatusPending, repo.entries["a"].Status)
	assert.Equal(t, 1, repo.entries["a"].Attempts)
	assert.NotEmpty(t, repo.entries["a"].LastError)

	// Second failure reaches max attempts and the entry is parked as failed.
	_, failed = worker.DrainOnce(context.Background())
	assert.Equal(t, 1, failed)
	assert.Equal(t, models.OutboxStatusFailed, repo.entries["a"].Status)

	// Failed entries are no longer picked up.
	delivered, failed := worker.DrainOnce(context.Background())
	assert.Equal(t, 0, delivered)
	assert.Equal(t, 0, failed)
}

func TestDrainOnceMixedBatch(t *testing.T) {
	repo := newMemOutboxRepo(pendingEntry("ok", "user-1"), pendingEntry("bad", "user-2"))
	publisher := &recordingPublisher{fail: map[string]bool{"user-2": true}}
	worker := NewOutboxWorker(repo, publisher, time.Second, 10, 3, time.Second)

	delivered, failed := worker.DrainOnce(context.Background())
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, failed)

	require.Equal(t, models.OutboxStatusDelivered, repo.entries["ok"].Status)
	require.Equal(t, models.OutboxStatusPending, repo.entries["bad"].Status)

	// Once the broker recovers the stuck entry drains too.
	publisher.fail = nil
	delivered, _ = worker.DrainOnce(context.Background())
	assert.Equal(t, 1, delivered)
	assert.Equal(t, models.OutboxStatusDelivered, repo.entries["bad"].Status)
}
