package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/realtime"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationFixture(users ...*models.User) (NotificationService, *fakeNotificationRepo, *fakeOutboxRepo, *fakePublisher) {
	outbox := newFakeOutboxRepo()
	notificationRepo := newFakeNotificationRepo(outbox)
	publisher := &fakePublisher{}
	svc := NewNotificationService(notificationRepo, outbox, newFakeUserRepo(users...), publisher, time.Second)
	return svc, notificationRepo, outbox, publisher
}

func activeUser(id string, role models.UserRole) *models.User {
	user := &models.User{Role: role, Status: models.UserStatusActive}
	user.ID = id
	user.Email = id + "@example.com"
	return user
}

func TestNotifyUserPersistsAndPushes(t *testing.T) {
	svc, repo, outbox, publisher := newNotificationFixture(activeUser("u1", models.UserRoleEmployer))

	response, err := svc.NotifyUser(context.Background(), &dto.CreateNotificationRequest{
		UserID:  "u1",
		Type:    string(models.NotificationTypeJobApproved),
		Title:   "Job posting approved",
		Message: "Your job is live.",
	})
	require.NoError(t, err)
	assert.Empty(t, response.Warning)
	assert.NotEmpty(t, response.ID)

	// Durable row exists and the push went to the user's channel.
	assert.Len(t, repo.notifications, 1)
	assert.Equal(t, []string{realtime.UserChannel("u1")}, publisher.publishedChannels())

	// The immediate push succeeded, so nothing is left for the worker.
	assert.Equal(t, 0, outbox.pendingCount())

	// Payload carries the notification id so clients can deduplicate.
	var event realtime.Event
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &event))
	assert.Equal(t, response.ID, event.NotificationID)
}

func TestNotifyUserPublishFailureDegradesNotFails(t *testing.T) {
	svc, repo, outbox, publisher := newNotificationFixture(activeUser("u1", models.UserRoleEmployer))
	publisher.fail = true

	response, err := svc.NotifyUser(context.Background(), &dto.CreateNotificationRequest{
		UserID: "u1",
		Type:   string(models.NotificationTypeEmployerApproved),
		Title:  "Company verification approved",
	})
	require.NoError(t, err)
	assert.Equal(t, WarningDeliveryDegraded, response.Warning)

	// The row is committed and the outbox entry stays pending for retry.
	assert.Len(t, repo.notifications, 1)
	assert.Equal(t, 1, outbox.pendingCount())
}

func TestNotifyUserUnknownRecipient(t *testing.T) {
	svc, _, _, _ := newNotificationFixture()

	_, err := svc.NotifyUser(context.Background(), &dto.CreateNotificationRequest{
		UserID: "ghost",
		Type:   string(models.NotificationTypeSystemAlert),
		Title:  "hello",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestNotifyUserRejectsUnknownType(t *testing.T) {
	svc, _, _, _ := newNotificationFixture(activeUser("u1", models.UserRoleEmployer))

	_, err := svc.NotifyUser(context.Background(), &dto.CreateNotificationRequest{
		UserID: "u1",
		Type:   "TOTALLY_MADE_UP",
		Title:  "hello",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestNotifyAllAdminsSkipsFailedRecipients(t *testing.T) {
	outbox := newFakeOutboxRepo()
	notificationRepo := newFakeNotificationRepo(outbox)
	notificationRepo.failCreateFor["admin2"] = true
	publisher := &fakePublisher{}
	userRepo := newFakeUserRepo(
		activeUser("admin1", models.UserRoleAdmin),
		activeUser("admin2", models.UserRoleAdmin),
		activeUser("emp1", models.UserRoleEmployer),
	)
	svc := NewNotificationService(notificationRepo, outbox, userRepo, publisher, time.Second)

	result, err := svc.NotifyAllAdmins(context.Background(), &dto.NotifyAdminsRequest{
		Type:    string(models.NotificationTypeNewSupportRequest),
		Title:   "New support request",
		Message: "[high] printer on fire",
	})
	require.NoError(t, err)

	// The failed admin is skipped, the other one still receives the event,
	// and non-admin users are never targeted.
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, []string{"admin2"}, result.Skipped)
	assert.Len(t, notificationRepo.notifications, 1)
}

func TestBroadcastAnnouncementFansOutToActiveUsers(t *testing.T) {
	inactive := activeUser("u3", models.UserRoleCandidate)
	inactive.Status = models.UserStatusSuspended

	svc, repo, outbox, publisher := newNotificationFixture(
		activeUser("u1", models.UserRoleEmployer),
		activeUser("u2", models.UserRoleCandidate),
		inactive,
	)

	result, err := svc.BroadcastAnnouncement(context.Background(), "ann-1", "Maintenance", "Downtime tonight", models.NotificationTypeAnnouncement, nil)
	require.NoError(t, err)

	// One row per active user; the suspended user is excluded.
	assert.Equal(t, 2, result.Created)
	assert.Len(t, repo.notifications, 2)

	// The single global push covers every connected client, so the per-user
	// entries are settled and the worker has nothing to replay.
	assert.Equal(t, []string{realtime.GlobalChannel}, publisher.publishedChannels())
	assert.Equal(t, 0, outbox.pendingCount())
	for _, entry := range outbox.entries {
		assert.Equal(t, models.OutboxStatusDelivered, entry.Status)
	}
}

func TestBroadcastAnnouncementLeavesNothingForTheWorker(t *testing.T) {
	svc, _, outbox, publisher := newNotificationFixture(
		activeUser("u1", models.UserRoleEmployer),
		activeUser("u2", models.UserRoleCandidate),
	)

	_, err := svc.BroadcastAnnouncement(context.Background(), "ann-1", "Maintenance", "Downtime", models.NotificationTypeAnnouncement, nil)
	require.NoError(t, err)

	// A connected client already saw the global push; a pending per-user
	// entry here would mean the same announcement arrives a second time.
	pending, err := outbox.FetchPending(10, 5)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, []string{realtime.GlobalChannel}, publisher.publishedChannels())
}

func TestBroadcastAnnouncementHonorsAudience(t *testing.T) {
	svc, repo, _, _ := newNotificationFixture(
		activeUser("u1", models.UserRoleEmployer),
		activeUser("u2", models.UserRoleCandidate),
		activeUser("u3", models.UserRoleEmployer),
	)

	result, err := svc.BroadcastAnnouncement(context.Background(), "ann-1", "Employer update", "New posting rules", models.NotificationTypeAnnouncement, []string{"employer"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	for _, n := range repo.notifications {
		assert.NotEqual(t, "u2", n.UserID)
	}
}

func TestBroadcastAnnouncementGlobalPushFailureDegrades(t *testing.T) {
	svc, _, outbox, publisher := newNotificationFixture(activeUser("u1", models.UserRoleEmployer))
	publisher.fail = true

	result, err := svc.BroadcastAnnouncement(context.Background(), "ann-1", "Maintenance", "Downtime", models.NotificationTypeAnnouncement, nil)
	require.NoError(t, err)
	assert.Equal(t, WarningDeliveryDegraded, result.Warning)
	assert.Equal(t, 1, result.Created)

	// The failed global push leaves the per-user entry for the worker.
	assert.Equal(t, 1, outbox.pendingCount())
}

func TestMarkAsReadEnforcesOwnership(t *testing.T) {
	svc, repo, _, _ := newNotificationFixture(activeUser("u1", models.UserRoleEmployer))

	response, err := svc.NotifyUser(context.Background(), &dto.CreateNotificationRequest{
		UserID: "u1",
		Type:   string(models.NotificationTypeSystemAlert),
		Title:  "hello",
	})
	require.NoError(t, err)

	err = svc.MarkAsRead("intruder", response.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
	assert.False(t, repo.notifications[response.ID].IsRead)

	require.NoError(t, svc.MarkAsRead("u1", response.ID))
	assert.True(t, repo.notifications[response.ID].IsRead)
	assert.NotNil(t, repo.notifications[response.ID].ReadAt)
}

func TestMarkAllAsReadCountsAndScopes(t *testing.T) {
	svc, _, _, _ := newNotificationFixture(
		activeUser("u1", models.UserRoleEmployer),
		activeUser("u2", models.UserRoleCandidate),
	)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.NotifyUser(ctx, &dto.CreateNotificationRequest{
			UserID: "u1",
			Type:   string(models.NotificationTypeSystemAlert),
			Title:  "hello",
		})
		require.NoError(t, err)
	}
	_, err := svc.NotifyUser(ctx, &dto.CreateNotificationRequest{
		UserID: "u2",
		Type:   string(models.NotificationTypeSystemAlert),
		Title:  "hello",
	})
	require.NoError(t, err)

	result, err := svc.MarkAllAsRead("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Count)

	// Second call is a no-op; the other user's unread count is untouched.
	result, err = svc.MarkAllAsRead("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Count)

	count, err := svc.GetUnreadCount("u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
