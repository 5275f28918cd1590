package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
)

// In-memory fakes shared by the service tests. They implement just enough of
// the repository contracts for the behavior under test.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + time.Now().Format("150405.000000")
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindAdminIDs() ([]string, error) {
	var ids []string
	for id, user := range f.users {
		if user.Role == models.UserRoleAdmin && user.Status == models.UserStatusActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeUserRepo) FindActiveUserIDs() ([]string, error) {
	var ids []string
	for id, user := range f.users {
		if user.Status == models.UserStatusActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeUserRepo) FindActiveUserIDsByRoles(roles []string) ([]string, error) {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	var ids []string
	for id, user := range f.users {
		if user.Status == models.UserStatusActive && roleSet[string(user.Role)] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeUserRepo) CountActiveUsers() (int64, error) {
	ids, _ := f.FindActiveUserIDs()
	return int64(len(ids)), nil
}

type fakeNotificationRepo struct {
	notifications map[string]*models.Notification
	outbox        *fakeOutboxRepo
	failCreateFor map[string]bool // userID -> force CreateWithOutbox error
}

func newFakeNotificationRepo(outbox *fakeOutboxRepo) *fakeNotificationRepo {
	return &fakeNotificationRepo{
		notifications: make(map[string]*models.Notification),
		outbox:        outbox,
		failCreateFor: make(map[string]bool),
	}
}

func (f *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	f.notifications[notification.ID] = notification
	return nil
}

func (f *fakeNotificationRepo) CreateWithOutbox(notification *models.Notification, entry *models.NotificationOutbox) error {
	if f.failCreateFor[notification.UserID] {
		return errors.New("simulated insert failure")
	}
	notification.CreatedAt = time.Now()
	f.notifications[notification.ID] = notification
	entry.ID = "outbox-" + notification.ID
	entry.NotificationID = notification.ID
	entry.Status = models.OutboxStatusPending
	f.outbox.entries[entry.ID] = entry
	return nil
}

func (f *fakeNotificationRepo) CreateBulkWithOutbox(notifications []*models.Notification, entries []*models.NotificationOutbox) error {
	for i := range notifications {
		if err := f.CreateWithOutbox(notifications[i], entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeNotificationRepo) FindNotificationByID(id string) (*models.Notification, error) {
	notification, ok := f.notifications[id]
	if !ok {
		return nil, repositories.ErrNotificationNotFound
	}
	return notification, nil
}

func (f *fakeNotificationRepo) FindUserNotifications(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	var result []models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			result = append(result, *n)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeNotificationRepo) MarkAsRead(notificationID string) error {
	notification, ok := f.notifications[notificationID]
	if !ok {
		return repositories.ErrNotificationNotFound
	}
	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(userID string) (int64, error) {
	var count int64
	now := time.Now()
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeOutboxRepo struct {
	entries map[string]*models.NotificationOutbox
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{entries: make(map[string]*models.NotificationOutbox)}
}

func (f *fakeOutboxRepo) FetchPending(limit, maxAttempts int) ([]models.NotificationOutbox, error) {
	var pending []models.NotificationOutbox
	for _, entry := range f.entries {
		if entry.Status == models.OutboxStatusPending && entry.Attempts < maxAttempts {
			pending = append(pending, *entry)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (f *fakeOutboxRepo) MarkDelivered(id string) error {
	entry, ok := f.entries[id]
	if !ok {
		return errors.New("outbox entry not found")
	}
	now := time.Now()
	entry.Status = models.OutboxStatusDelivered
	entry.DeliveredAt = &now
	return nil
}

func (f *fakeOutboxRepo) MarkDeliveredBatch(ids []string) error {
	for _, id := range ids {
		if err := f.MarkDelivered(id); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeOutboxRepo) MarkFailedAttempt(id, lastError string, maxAttempts int) error {
	entry, ok := f.entries[id]
	if !ok {
		return errors.New("outbox entry not found")
	}
	entry.Attempts++
	entry.LastError = lastError
	if entry.Attempts >= maxAttempts {
		entry.Status = models.OutboxStatusFailed
	}
	return nil
}

func (f *fakeOutboxRepo) CountPending() (int64, error) {
	var count int64
	for _, entry := range f.entries {
		if entry.Status == models.OutboxStatusPending {
			count++
		}
	}
	return count, nil
}

func (f *fakeOutboxRepo) pendingCount() int {
	count, _ := f.CountPending()
	return int(count)
}

// fakePublisher records publishes and can be told to fail.
type fakePublisher struct {
	mu       sync.Mutex
	fail     bool
	channels []string
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) publishedChannels() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.channels...)
}

type fakeEmployerRepo struct {
	employers map[string]*models.Employer
}

func newFakeEmployerRepo(employers ...*models.Employer) *fakeEmployerRepo {
	repo := &fakeEmployerRepo{employers: make(map[string]*models.Employer)}
	for _, e := range employers {
		repo.employers[e.ID] = e
	}
	return repo
}

func (f *fakeEmployerRepo) Create(employer *models.Employer) error {
	f.employers[employer.ID] = employer
	return nil
}

func (f *fakeEmployerRepo) FindByID(id string) (*models.Employer, error) {
	employer, ok := f.employers[id]
	if !ok {
		return nil, repositories.ErrEmployerNotFound
	}
	copied := *employer
	return &copied, nil
}

func (f *fakeEmployerRepo) FindByUserID(userID string) (*models.Employer, error) {
	for _, employer := range f.employers {
		if employer.UserID == userID {
			copied := *employer
			return &copied, nil
		}
	}
	return nil, repositories.ErrEmployerNotFound
}

func (f *fakeEmployerRepo) UpdateVerificationIf(id string, expect models.VerificationStatus, updates map[string]interface{}) (int64, error) {
	employer, ok := f.employers[id]
	if !ok || employer.VerificationStatus != expect {
		return 0, nil
	}
	if v, ok := updates["verification_status"]; ok {
		employer.VerificationStatus = v.(models.VerificationStatus)
	}
	if v, ok := updates["verification_notes"]; ok {
		employer.VerificationNotes = v.(string)
	}
	if v, ok := updates["verified_at"]; ok {
		at := v.(time.Time)
		employer.VerifiedAt = &at
	}
	if v, ok := updates["verified_by_id"]; ok {
		by := v.(string)
		employer.VerifiedByID = &by
	}
	return 1, nil
}

func (f *fakeEmployerRepo) SetSuspended(id, reason string, at time.Time) (int64, error) {
	employer, ok := f.employers[id]
	if !ok || employer.IsSuspended {
		return 0, nil
	}
	employer.IsSuspended = true
	employer.SuspensionReason = reason
	employer.SuspendedAt = &at
	return 1, nil
}

func (f *fakeEmployerRepo) ClearSuspension(id string) (int64, error) {
	employer, ok := f.employers[id]
	if !ok || !employer.IsSuspended {
		return 0, nil
	}
	employer.IsSuspended = false
	employer.SuspensionReason = ""
	employer.SuspendedAt = nil
	return 1, nil
}

type fakeJobRepo struct {
	jobs map[string]*models.Job
	// forceCASMiss makes UpdateStatusIf report zero rows once, simulating a
	// concurrent moderation between read and write.
	forceCASMiss bool
}

func newFakeJobRepo(jobs ...*models.Job) *fakeJobRepo {
	repo := &fakeJobRepo{jobs: make(map[string]*models.Job)}
	for _, j := range jobs {
		repo.jobs[j.ID] = j
	}
	return repo
}

func (f *fakeJobRepo) Create(job *models.Job) error {
	if job.ID == "" {
		job.ID = "job-" + time.Now().Format("150405.000000")
	}
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) FindByID(id string) (*models.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobRepo) UpdateStatusIf(id string, expect models.JobStatus, updates map[string]interface{}) (int64, error) {
	if f.forceCASMiss {
		f.forceCASMiss = false
		return 0, nil
	}
	job, ok := f.jobs[id]
	if !ok || job.Status != expect {
		return 0, nil
	}
	if v, ok := updates["status"]; ok {
		job.Status = v.(models.JobStatus)
	}
	if v, ok := updates["moderation_notes"]; ok {
		job.ModerationNotes = v.(string)
	}
	return 1, nil
}

func (f *fakeJobRepo) FindByStatus(status models.JobStatus, page, pageSize int) ([]models.Job, int64, error) {
	var result []models.Job
	for _, job := range f.jobs {
		if job.Status == status {
			result = append(result, *job)
		}
	}
	return result, int64(len(result)), nil
}

type fakeAdminLogRepo struct {
	entries []*models.AdminLog
}

func (f *fakeAdminLogRepo) Create(entry *models.AdminLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAdminLogRepo) FindAll(criteria repositories.AdminLogCriteria) ([]models.AdminLog, int64, error) {
	var result []models.AdminLog
	for _, entry := range f.entries {
		result = append(result, *entry)
	}
	return result, int64(len(result)), nil
}
