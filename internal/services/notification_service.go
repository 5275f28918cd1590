package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/realtime"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WarningDeliveryDegraded is returned alongside a successful result when the
// notification row was committed but the real-time push failed. The outbox
// worker retries the push; the operation itself must not be failed or rolled
// back for this.
const WarningDeliveryDegraded = "notification persisted, real-time delivery degraded (queued for retry)"

type NotificationService interface {
	// NotifyUser creates one durable notification plus its outbox entry and
	// attempts an immediate push on the user's channel.
	NotifyUser(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	// NotifyAllAdmins fans the event out to every active admin. Failures for
	// individual recipients are logged and skipped, never abort the batch.
	NotifyAllAdmins(ctx context.Context, req *dto.NotifyAdminsRequest) (*dto.FanOutResponse, error)
	// BroadcastAnnouncement fans out to the audience roles (every active user
	// when audience is empty) and pushes once on the global channel. On a
	// successful global push the per-user outbox entries are marked delivered;
	// otherwise the outbox worker retries them per-user.
	BroadcastAnnouncement(ctx context.Context, announcementID, title, content string, notificationType models.NotificationType, audience []string) (*dto.FanOutResponse, error)

	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) (*dto.MarkAllReadResponse, error)
	GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetUnreadCount(userID string) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	outboxRepo       repositories.OutboxRepository
	userRepo         repositories.UserRepository
	publisher        realtime.Publisher
	publishTimeout   time.Duration
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	outboxRepo repositories.OutboxRepository,
	userRepo repositories.UserRepository,
	publisher realtime.Publisher,
	publishTimeout time.Duration,
) NotificationService {
	if publishTimeout <= 0 {
		publishTimeout = 3 * time.Second
	}
	return &notificationService{
		notificationRepo: notificationRepo,
		outboxRepo:       outboxRepo,
		userRepo:         userRepo,
		publisher:        publisher,
		publishTimeout:   publishTimeout,
	}
}

// ---------------- Dispatch ----------------

func (s *notificationService) NotifyUser(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	if _, err := s.userRepo.FindByID(req.UserID); err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	notification, err := s.buildNotification(req)
	if err != nil {
		return nil, err
	}

	warning, err := s.persistAndPush(ctx, notification)
	if err != nil {
		return nil, err
	}

	response := s.buildNotificationResponse(notification)
	response.Warning = warning
	return response, nil
}

func (s *notificationService) NotifyAllAdmins(ctx context.Context, req *dto.NotifyAdminsRequest) (*dto.FanOutResponse, error) {
	adminIDs, err := s.userRepo.FindAdminIDs()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := &dto.FanOutResponse{}
	degraded := false
	for _, adminID := range adminIDs {
		notification, buildErr := s.buildNotification(&dto.CreateNotificationRequest{
			UserID:   adminID,
			Type:     req.Type,
			Title:    req.Title,
			Message:  req.Message,
			Metadata: req.Metadata,
		})
		if buildErr != nil {
			return nil, buildErr
		}

		warning, dispatchErr := s.persistAndPush(ctx, notification)
		if dispatchErr != nil {
			// Partial failure: skip this admin, keep going.
			logger.CtxWithError(ctx, "admin fan-out failed for recipient", dispatchErr, "admin_id", adminID)
			result.Skipped = append(result.Skipped, adminID)
			continue
		}
		if warning != "" {
			degraded = true
		}
		result.Created++
	}

	if degraded {
		result.Warning = WarningDeliveryDegraded
	}
	return result, nil
}

func (s *notificationService) BroadcastAnnouncement(ctx context.Context, announcementID, title, content string, notificationType models.NotificationType, audience []string) (*dto.FanOutResponse, error) {
	if !models.IsValidNotificationType(notificationType) {
		return nil, apperrors.NewValidationError("notification", "unknown notification type")
	}

	var userIDs []string
	var err error
	if len(audience) > 0 {
		userIDs, err = s.userRepo.FindActiveUserIDsByRoles(audience)
	} else {
		userIDs, err = s.userRepo.FindActiveUserIDs()
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	notifications := make([]*models.Notification, 0, len(userIDs))
	entries := make([]*models.NotificationOutbox, 0, len(userIDs))
	for _, userID := range userIDs {
		notification := &models.Notification{
			UserID:      userID,
			Type:        notificationType,
			Title:       title,
			Message:     content,
			RelatedID:   announcementID,
			RelatedType: "announcement",
		}
		notification.ID = uuid.NewString()
		payload, marshalErr := s.eventPayload(notification)
		if marshalErr != nil {
			return nil, apperrors.InternalError(marshalErr)
		}
		entry := &models.NotificationOutbox{
			Channel: realtime.UserChannel(userID),
			Payload: payload,
		}
		// Assigned up front so the batch can be settled after the global push.
		entry.ID = uuid.NewString()
		notifications = append(notifications, notification)
		entries = append(entries, entry)
	}

	if err := s.notificationRepo.CreateBulkWithOutbox(notifications, entries); err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := &dto.FanOutResponse{Created: len(notifications)}

	// One push on the global channel wakes every connected client. When it
	// succeeds the per-user entries are settled too, so the worker does not
	// replay the same announcement on each user channel afterwards; when it
	// fails they stay pending and the worker delivers per-user.
	globalEvent := realtime.Event{
		NotificationID: announcementID,
		Type:           string(notificationType),
		Title:          title,
		Message:        content,
		RelatedID:      announcementID,
		RelatedType:    "announcement",
		CreatedAt:      time.Now(),
	}
	payload, err := json.Marshal(globalEvent)
	if err == nil {
		pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
		defer cancel()
		err = s.publisher.Publish(pubCtx, realtime.GlobalChannel, payload)
	}
	if err != nil {
		logger.CtxWithError(ctx, "global announcement push failed", err, "announcement_id", announcementID)
		result.Warning = WarningDeliveryDegraded
		return result, nil
	}

	entryIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		entryIDs = append(entryIDs, entry.ID)
	}
	if err := s.outboxRepo.MarkDeliveredBatch(entryIDs); err != nil {
		// Stale pending entries only mean one duplicate per-user push later.
		logger.CtxWithError(ctx, "failed to settle announcement outbox entries", err, "announcement_id", announcementID)
	}

	return result, nil
}

// ---------------- Read state ----------------

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if notification.UserID != userID {
		return apperrors.NewForbiddenError("notification belongs to another user")
	}
	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkAllAsRead(userID string) (*dto.MarkAllReadResponse, error) {
	count, err := s.notificationRepo.MarkAllAsRead(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.MarkAllReadResponse{Count: count}, nil
}

func (s *notificationService) GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 {
		criteria.PageSize = 20
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var notificationResponses []*dto.NotificationResponse
	for i := range notifications {
		notificationResponses = append(notificationResponses, s.buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: notificationResponses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	return s.notificationRepo.GetUnreadCount(userID)
}

// ---------------- Helpers ----------------

func (s *notificationService) buildNotification(req *dto.CreateNotificationRequest) (*models.Notification, error) {
	notificationType := models.NotificationType(req.Type)
	if !models.IsValidNotificationType(notificationType) {
		return nil, apperrors.NewValidationError("notification", "unknown notification type: "+req.Type)
	}

	var metadataJSON datatypes.JSON
	if req.Metadata != nil {
		jsonData, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, apperrors.InternalError(fmt.Errorf("failed to marshal notification metadata: %w", err))
		}
		metadataJSON = datatypes.JSON(jsonData)
	}

	notification := &models.Notification{
		UserID:      req.UserID,
		Type:        notificationType,
		Title:       req.Title,
		Message:     req.Message,
		RelatedID:   req.RelatedID,
		RelatedType: req.RelatedType,
		Metadata:    metadataJSON,
		IsRead:      false,
	}
	// The ID goes into the push payload, so it is assigned up front rather
	// than left to the database default.
	notification.ID = uuid.NewString()
	return notification, nil
}

// persistAndPush writes the notification and its outbox entry, then attempts
// one immediate push. The DB write is the source of truth: push failure only
// produces a warning and leaves the outbox entry for the worker.
func (s *notificationService) persistAndPush(ctx context.Context, notification *models.Notification) (string, error) {
	payload, err := s.eventPayload(notification)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	entry := &models.NotificationOutbox{
		Channel: realtime.UserChannel(notification.UserID),
		Payload: payload,
	}
	entry.ID = uuid.NewString()
	if err := s.notificationRepo.CreateWithOutbox(notification, entry); err != nil {
		return "", apperrors.InternalError(err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, entry.Channel, payload); err != nil {
		logger.CtxWithError(ctx, "real-time push failed", err,
			"channel", entry.Channel, "notification_id", notification.ID)
		return WarningDeliveryDegraded, nil
	}

	if err := s.outboxRepo.MarkDelivered(entry.ID); err != nil {
		// The push went out; a stale pending entry only means one duplicate
		// push from the worker later.
		logger.CtxWithError(ctx, "failed to mark outbox entry delivered", err, "entry_id", entry.ID)
	}
	return "", nil
}

func (s *notificationService) eventPayload(notification *models.Notification) (datatypes.JSON, error) {
	event := realtime.Event{
		NotificationID: notification.ID,
		UserID:         notification.UserID,
		Type:           string(notification.Type),
		Title:          notification.Title,
		Message:        notification.Message,
		RelatedID:      notification.RelatedID,
		RelatedType:    notification.RelatedType,
		CreatedAt:      time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(payload), nil
}

func (s *notificationService) buildNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	response := &dto.NotificationResponse{
		ID:          notification.ID,
		UserID:      notification.UserID,
		Type:        string(notification.Type),
		Title:       notification.Title,
		Message:     notification.Message,
		RelatedID:   notification.RelatedID,
		RelatedType: notification.RelatedType,
		IsRead:      notification.IsRead,
		ReadAt:      notification.ReadAt,
		CreatedAt:   notification.CreatedAt,
	}

	if len(notification.Metadata) > 0 {
		var metadata map[string]interface{}
		if err := json.Unmarshal(notification.Metadata, &metadata); err == nil {
			response.Metadata = metadata
		}
	}
	return response
}
