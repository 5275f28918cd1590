package services

import (
	"context"
	"testing"
	"time"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moderationFixture struct {
	svc          ModerationService
	employerRepo *fakeEmployerRepo
	jobRepo      *fakeJobRepo
	adminLogRepo *fakeAdminLogRepo
	notifRepo    *fakeNotificationRepo
	publisher    *fakePublisher
}

func newModerationFixture(t *testing.T, employers []*models.Employer, jobs []*models.Job) *moderationFixture {
	t.Helper()

	users := []*models.User{activeUser("admin1", models.UserRoleAdmin)}
	for _, e := range employers {
		users = append(users, activeUser(e.UserID, models.UserRoleEmployer))
	}
	for _, j := range jobs {
		users = append(users, activeUser(j.OwnerID, models.UserRoleEmployer))
	}

	outbox := newFakeOutboxRepo()
	notifRepo := newFakeNotificationRepo(outbox)
	publisher := &fakePublisher{}
	notifier := NewNotificationService(notifRepo, outbox, newFakeUserRepo(users...), publisher, time.Second)

	employerRepo := newFakeEmployerRepo(employers...)
	jobRepo := newFakeJobRepo(jobs...)
	adminLogRepo := &fakeAdminLogRepo{}

	return &moderationFixture{
		svc:          NewModerationService(employerRepo, jobRepo, adminLogRepo, notifier),
		employerRepo: employerRepo,
		jobRepo:      jobRepo,
		adminLogRepo: adminLogRepo,
		notifRepo:    notifRepo,
		publisher:    publisher,
	}
}

func pendingEmployer(id, userID string) *models.Employer {
	employer := &models.Employer{
		UserID:             userID,
		CompanyName:        "Acme GmbH",
		VerificationStatus: models.VerificationStatusPending,
	}
	employer.ID = id
	return employer
}

func pendingJob(id, ownerID string) *models.Job {
	job := &models.Job{
		EmployerID: "emp-1",
		OwnerID:    ownerID,
		Title:      "Backend Engineer",
		Status:     models.JobStatusPending,
	}
	job.ID = id
	return job
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestApproveEmployer(t *testing.T) {
	f := newModerationFixture(t, []*models.Employer{pendingEmployer("e1", "owner1")}, nil)

	response, err := f.svc.ApproveEmployer(context.Background(), "e1", "admin1", &dto.ApproveRequest{Notes: "looks good"})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusApproved, response.VerificationStatus)
	assert.Equal(t, "looks good", response.VerificationNotes)
	require.NotNil(t, response.VerifiedAt)
	assert.Empty(t, response.Warning)

	// The stamp and the moderating admin are persisted, not just echoed.
	stored, err := f.employerRepo.FindByID("e1")
	require.NoError(t, err)
	require.NotNil(t, stored.VerifiedAt)
	assert.WithinDuration(t, time.Now(), *stored.VerifiedAt, time.Minute)
	require.NotNil(t, stored.VerifiedByID)
	assert.Equal(t, "admin1", *stored.VerifiedByID)

	// Audit entry and owner notification were produced.
	require.Len(t, f.adminLogRepo.entries, 1)
	assert.Equal(t, "employer.approve", f.adminLogRepo.entries[0].Action)
	require.Len(t, f.notifRepo.notifications, 1)
	for _, n := range f.notifRepo.notifications {
		assert.Equal(t, "owner1", n.UserID)
		assert.Equal(t, models.NotificationTypeEmployerApproved, n.Type)
	}
}

func TestApproveEmployerTwiceIsInvalidState(t *testing.T) {
	f := newModerationFixture(t, []*models.Employer{pendingEmployer("e1", "owner1")}, nil)

	_, err := f.svc.ApproveEmployer(context.Background(), "e1", "admin1", &dto.ApproveRequest{})
	require.NoError(t, err)

	_, err = f.svc.ApproveEmployer(context.Background(), "e1", "admin1", &dto.ApproveRequest{})
	requireCode(t, err, apperrors.CodeInvalidState)
}

func TestApproveEmployerNotFound(t *testing.T) {
	f := newModerationFixture(t, nil, nil)

	_, err := f.svc.ApproveEmployer(context.Background(), "missing", "admin1", &dto.ApproveRequest{})
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestRejectEmployerRequiresReason(t *testing.T) {
	f := newModerationFixture(t, []*models.Employer{pendingEmployer("e1", "owner1")}, nil)

	_, err := f.svc.RejectEmployer(context.Background(), "e1", "admin1", &dto.RejectRequest{Reason: "   "})
	requireCode(t, err, apperrors.CodeValidationFailed)

	// Nothing changed and nobody was notified.
	employer, _ := f.employerRepo.FindByID("e1")
	assert.Equal(t, models.VerificationStatusPending, employer.VerificationStatus)
	assert.Empty(t, f.notifRepo.notifications)
}

func TestRejectEmployerCarriesReasonToOwner(t *testing.T) {
	f := newModerationFixture(t, []*models.Employer{pendingEmployer("e1", "owner1")}, nil)

	response, err := f.svc.RejectEmployer(context.Background(), "e1", "admin1", &dto.RejectRequest{Reason: "missing trade registry entry"})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusRejected, response.VerificationStatus)

	require.Len(t, f.notifRepo.notifications, 1)
	for _, n := range f.notifRepo.notifications {
		assert.Equal(t, models.NotificationTypeEmployerRejected, n.Type)
		assert.Contains(t, n.Message, "missing trade registry entry")
	}
}

func TestSuspendEmployerKeepsVerificationStatus(t *testing.T) {
	approved := pendingEmployer("e1", "owner1")
	approved.VerificationStatus = models.VerificationStatusApproved
	f := newModerationFixture(t, []*models.Employer{approved}, nil)

	response, err := f.svc.SuspendEmployer(context.Background(), "e1", "admin1", &dto.SuspendRequest{Reason: "spamming candidates"})
	require.NoError(t, err)

	// Suspension does not touch the verification decision.
	assert.True(t, response.IsSuspended)
	assert.Equal(t, "spamming candidates", response.SuspensionReason)
	assert.Equal(t, models.VerificationStatusApproved, response.VerificationStatus)
	assert.NotNil(t, response.SuspendedAt)

	// Suspension notice goes out as a system alert with the reason verbatim.
	require.Len(t, f.notifRepo.notifications, 1)
	for _, n := range f.notifRepo.notifications {
		assert.Equal(t, models.NotificationTypeSystemAlert, n.Type)
		assert.Contains(t, n.Message, "spamming candidates")
	}
}

func TestSuspendEmployerTwiceIsInvalidState(t *testing.T) {
	f := newModerationFixture(t, []*models.Employer{pendingEmployer("e1", "owner1")}, nil)

	_, err := f.svc.SuspendEmployer(context.Background(), "e1", "admin1", &dto.SuspendRequest{Reason: "abuse"})
	require.NoError(t, err)

	_, err = f.svc.SuspendEmployer(context.Background(), "e1", "admin1", &dto.SuspendRequest{Reason: "abuse"})
	requireCode(t, err, apperrors.CodeInvalidState)
}

func TestUnsuspendEmployerClearsAllSuspensionFields(t *testing.T) {
	f := newModerationFixture(t, []*models.Employer{pendingEmployer("e1", "owner1")}, nil)

	_, err := f.svc.SuspendEmployer(context.Background(), "e1", "admin1", &dto.SuspendRequest{Reason: "abuse"})
	require.NoError(t, err)

	response, err := f.svc.UnsuspendEmployer(context.Background(), "e1", "admin1")
	require.NoError(t, err)
	assert.False(t, response.IsSuspended)
	assert.Empty(t, response.SuspensionReason)
	assert.Nil(t, response.SuspendedAt)
}

func TestUnsuspendNotSuspendedIsInvalidState(t *testing.T) {
	f := newModerationFixture(t, []*models.Employer{pendingEmployer("e1", "owner1")}, nil)

	_, err := f.svc.UnsuspendEmployer(context.Background(), "e1", "admin1")
	requireCode(t, err, apperrors.CodeInvalidState)
}

func TestApproveJobNotifiesOwner(t *testing.T) {
	f := newModerationFixture(t, nil, []*models.Job{pendingJob("j1", "owner1")})

	response, err := f.svc.ApproveJob(context.Background(), "j1", "admin1", &dto.ApproveRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusApproved, response.Status)

	require.Len(t, f.notifRepo.notifications, 1)
	for _, n := range f.notifRepo.notifications {
		assert.Equal(t, "owner1", n.UserID)
		assert.Equal(t, models.NotificationTypeJobApproved, n.Type)
		assert.Equal(t, "j1", n.RelatedID)
	}
}

func TestSuspendJobRequiresApprovedStatus(t *testing.T) {
	f := newModerationFixture(t, nil, []*models.Job{pendingJob("j1", "owner1")})

	_, err := f.svc.SuspendJob(context.Background(), "j1", "admin1", &dto.SuspendRequest{Reason: "misleading salary"})
	requireCode(t, err, apperrors.CodeInvalidState)

	_, err = f.svc.ApproveJob(context.Background(), "j1", "admin1", &dto.ApproveRequest{})
	require.NoError(t, err)

	response, err := f.svc.SuspendJob(context.Background(), "j1", "admin1", &dto.SuspendRequest{Reason: "misleading salary"})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusSuspended, response.Status)
}

func TestRejectJobOutsidePendingIsInvalidState(t *testing.T) {
	f := newModerationFixture(t, nil, []*models.Job{pendingJob("j1", "owner1")})

	f.jobRepo.jobs["j1"].Status = models.JobStatusApproved
	_, err := f.svc.RejectJob(context.Background(), "j1", "admin1", &dto.RejectRequest{Reason: "dup"})
	requireCode(t, err, apperrors.CodeInvalidState)
}

func TestRejectJobLostRaceIsConflict(t *testing.T) {
	f := newModerationFixture(t, nil, []*models.Job{pendingJob("j1", "owner1")})

	// The status check sees pending but another admin wins the write.
	f.jobRepo.forceCASMiss = true
	_, err := f.svc.RejectJob(context.Background(), "j1", "admin1", &dto.RejectRequest{Reason: "dup"})
	requireCode(t, err, apperrors.CodeConflict)

	// No notification or status change leaked from the lost race.
	assert.Empty(t, f.notifRepo.notifications)
	assert.Equal(t, models.JobStatusPending, f.jobRepo.jobs["j1"].Status)

	_, err = f.svc.RejectJob(context.Background(), "j1", "admin1", &dto.RejectRequest{Reason: "dup"})
	require.NoError(t, err)
}

func TestModerationDecisionSurvivesDegradedDelivery(t *testing.T) {
	f := newModerationFixture(t, []*models.Employer{pendingEmployer("e1", "owner1")}, nil)
	f.publisher.fail = true

	response, err := f.svc.ApproveEmployer(context.Background(), "e1", "admin1", &dto.ApproveRequest{})
	require.NoError(t, err)

	// The decision committed; only the push degraded.
	assert.Equal(t, models.VerificationStatusApproved, response.VerificationStatus)
	assert.Equal(t, WarningDeliveryDegraded, response.Warning)
	require.Len(t, f.notifRepo.notifications, 1)
}
